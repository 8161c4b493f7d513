package ports

import "context"

// WalletUpdate is one seat's chip change from a round settlement.
type WalletUpdate struct {
	UserID   string
	Amount   int64 // positive credits, negative debits
	Metadata map[string]interface{}
}

// EconomyPort manages the chip currency backing table bets.
type EconomyPort interface {
	// GetBalance returns the user's current chip balance.
	GetBalance(ctx context.Context, userID string) (int64, error)

	// UpdateBalances applies a round's settlement as one batch so every
	// seat's change lands together.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}
