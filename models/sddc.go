package models

import (
	"fmt"
	"strings"
)

// Fixed values sent with every create request.
const (
	DefaultSSODomain       = "vmc.local"
	DeploymentTypeSingleAZ = "SingleAZ"
)

// SDDC is a provisioned software-defined datacenter.
type SDDC struct {
	// ID is the provider-assigned SDDC identifier
	ID string `json:"id"`

	// Name is the SDDC display name
	Name string `json:"name"`

	// OrgID is the owning organization
	OrgID string `json:"org_id,omitempty"`

	// SDDCState is the lifecycle state (e.g., "READY", "DELETING")
	SDDCState string `json:"sddc_state,omitempty"`

	// Provider is the capacity provider (e.g., "AWS", "ZEROCLOUD")
	Provider string `json:"provider,omitempty"`

	// ResourceConfig holds the deployed resource details, nil while deploying
	ResourceConfig *ResourceConfig `json:"resource_config,omitempty"`
}

// ResourceConfig is the nested deployment detail of an SDDC.
type ResourceConfig struct {
	// SDDCID is the identifier used on DELETE /sddcs/{id}
	SDDCID string `json:"sddc_id"`

	// Region is the deployment region
	Region string `json:"region,omitempty"`

	// VPCCIDR is the management CIDR
	VPCCIDR string `json:"vpc_cidr,omitempty"`
}

// DeletionID returns the identifier to use when deleting the SDDC.
// It prefers resource_config.sddc_id and falls back to the top-level id.
func (s *SDDC) DeletionID() string {
	if s.ResourceConfig != nil && s.ResourceConfig.SDDCID != "" {
		return s.ResourceConfig.SDDCID
	}
	return s.ID
}

// AccountLinkSDDCConfig links a new SDDC to a connected account and subnets.
type AccountLinkSDDCConfig struct {
	CustomerSubnetIDs  []string `json:"customer_subnet_ids"`
	ConnectedAccountID string   `json:"connected_account_id"`
}

// CreateSDDCRequest is the body of POST /vmc/api/orgs/{org}/sddcs.
type CreateSDDCRequest struct {
	Name                  string                  `json:"name"`
	AccountLinkSDDCConfig []AccountLinkSDDCConfig `json:"account_link_sddc_config"`
	VPCCIDR               string                  `json:"vpc_cidr"`
	Provider              string                  `json:"provider"`
	SSODomain             string                  `json:"sso_domain"`
	NumHosts              int                     `json:"num_hosts"`
	DeploymentType        string                  `json:"deployment_type"`
	VXLANSubnet           string                  `json:"vxlan_subnet"`
	Region                string                  `json:"region"`
}

// InstanceSpec holds the caller-supplied parameters of a new SDDC.
// Values are passed through to the provider as given; only presence is checked.
type InstanceSpec struct {
	Name           string
	CIDR           string
	Provider       string
	SubnetID       string
	Region         string
	NumHosts       int
	NetworkSegment string
}

// Validate checks that the fields the create request needs are present.
func (s InstanceSpec) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"name", s.Name},
		{"cidr", s.CIDR},
		{"provider", s.Provider},
		{"subnet_id", s.SubnetID},
		{"region", s.Region},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidSpec, strings.Join(missing, ", "))
	}

	if s.NumHosts <= 0 {
		return fmt.Errorf("%w: num_hosts must be positive, got %d", ErrInvalidSpec, s.NumHosts)
	}

	return nil
}

// NewCreateSDDCRequest builds the create body for spec, linked to connectedAccountID.
func NewCreateSDDCRequest(spec InstanceSpec, connectedAccountID string) *CreateSDDCRequest {
	return &CreateSDDCRequest{
		Name: spec.Name,
		AccountLinkSDDCConfig: []AccountLinkSDDCConfig{
			{
				CustomerSubnetIDs:  []string{spec.SubnetID},
				ConnectedAccountID: connectedAccountID,
			},
		},
		VPCCIDR:        spec.CIDR,
		Provider:       spec.Provider,
		SSODomain:      DefaultSSODomain,
		NumHosts:       spec.NumHosts,
		DeploymentType: DeploymentTypeSingleAZ,
		VXLANSubnet:    spec.NetworkSegment,
		Region:         spec.Region,
	}
}
