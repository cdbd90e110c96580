package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/yaroslav/sddcctl/models"
	"github.com/yaroslav/sddcctl/sdk"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// printer writes command results to stdout. Text output is written as the
// command progresses; json and yaml write one document at the end.
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case outputText, outputJSON, outputYAML:
		return &printer{w: w, format: format}, nil
	default:
		return nil, fmt.Errorf("%w: unknown output format %q", sdk.ErrInvalidConfig, format)
	}
}

func (p *printer) isText() bool {
	return p.format == outputText
}

// textf writes a line in text mode and does nothing otherwise.
func (p *printer) textf(format string, args ...interface{}) {
	if p.isText() {
		fmt.Fprintf(p.w, format+"\n", args...)
	}
}

// document writes v as json or yaml. It does nothing in text mode.
func (p *printer) document(v interface{}) error {
	switch p.format {
	case outputJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		// Go through JSON so yaml keys match the API field names.
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic interface{}
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	}
	return nil
}

type createOutput struct {
	Name      string       `json:"name"`
	Task      *models.Task `json:"task"`
	FinalTask *models.Task `json:"final_task,omitempty"`
}

type removedSDDC struct {
	Name      string       `json:"name"`
	SDDCID    string       `json:"sddc_id"`
	Task      *models.Task `json:"task,omitempty"`
	FinalTask *models.Task `json:"final_task,omitempty"`
	Error     string       `json:"error,omitempty"`
}

type removeOutput struct {
	Removed []removedSDDC `json:"removed"`
	Failed  []removedSDDC `json:"failed,omitempty"`
}
