package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"konkan/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// chipCurrency is the wallet key for table chips. Bets, settlements and the
// welcome bonus all move this currency.
const chipCurrency = "chips"

// NakamaEconomyAdapter implements ports.EconomyPort on Nakama wallets.
type NakamaEconomyAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaEconomyAdapter creates a new economy adapter.
func NewNakamaEconomyAdapter(nk runtime.NakamaModule) *NakamaEconomyAdapter {
	return &NakamaEconomyAdapter{nk: nk}
}

// GetBalance returns the user's current chip balance.
func (a *NakamaEconomyAdapter) GetBalance(ctx context.Context, userID string) (int64, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}

	var wallet map[string]int64
	if err := json.Unmarshal([]byte(account.Wallet), &wallet); err != nil {
		return 0, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}

	return wallet[chipCurrency], nil
}

// UpdateBalances settles a round in one batched wallet call so all seats
// succeed or fail together, with a ledger entry per change.
func (a *NakamaEconomyAdapter) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	batch := make([]*runtime.WalletUpdate, 0, len(updates))
	for _, update := range updates {
		if update.Amount == 0 {
			continue
		}
		batch = append(batch, &runtime.WalletUpdate{
			UserID:    update.UserID,
			Changeset: map[string]int64{chipCurrency: update.Amount},
			Metadata:  update.Metadata,
		})
	}
	if len(batch) == 0 {
		return nil
	}

	if _, err := a.nk.WalletsUpdate(ctx, batch, true); err != nil {
		return fmt.Errorf("failed to settle wallets: %w", err)
	}
	return nil
}

var _ ports.EconomyPort = (*NakamaEconomyAdapter)(nil)
