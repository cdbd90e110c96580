package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yaroslav/sddcctl/cmd/sddcctl/cmd"
	"github.com/yaroslav/sddcctl/models"
	"github.com/yaroslav/sddcctl/sdk"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, sdk.ErrInvalidConfig) || errors.Is(err, models.ErrInvalidSpec) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
