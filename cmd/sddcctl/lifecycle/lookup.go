package lifecycle

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yaroslav/sddcctl/internal/logging"
	"github.com/yaroslav/sddcctl/sdk"
)

// LookupConnectedAccount returns the id of the first connected account of org.
//
// The provider is expected to return a single relevant account. When it returns
// several, the first one is used and a warning is logged. An empty list, or a
// first entry without an id, is sdk.ErrLookup.
func (m *Manager) LookupConnectedAccount(ctx context.Context, org string) (string, error) {
	accounts, err := m.client.ListConnectedAccounts(ctx, org)
	if err != nil {
		return "", err
	}

	if len(accounts) == 0 || accounts[0].ID == "" {
		return "", fmt.Errorf("%w: no connected account in org %s", sdk.ErrLookup, org)
	}

	if len(accounts) > 1 {
		m.logger.Warn("Several connected accounts found, using the first",
			zap.String(logging.FieldOrgID, org),
			zap.Int("count", len(accounts)),
			zap.String(logging.FieldAccountID, accounts[0].ID),
		)
	}

	return accounts[0].ID, nil
}
