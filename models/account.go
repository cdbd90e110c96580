package models

// ConnectedAccount is a customer cloud account linked to an organization.
// The tool only reads these; they are created in the VMC console.
type ConnectedAccount struct {
	// ID is the identifier passed as connected_account_id when creating an SDDC
	ID string `json:"id"`

	// AccountNumber is the provider account number
	AccountNumber string `json:"account_number,omitempty"`

	// UserName is the provider user that linked the account
	UserName string `json:"user_name,omitempty"`

	// State is the link state (e.g., "ACTIVE")
	State string `json:"state,omitempty"`

	// OrgID is the owning organization
	OrgID string `json:"org_id,omitempty"`
}
