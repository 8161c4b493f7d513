package ports

import "context"

// WelcomeBonusPort grants a new account its starting chips at most once.
type WelcomeBonusPort interface {
	// GrantWelcomeBonusOnce attempts the one-time grant. Returns
	// granted=false when the account already received it.
	GrantWelcomeBonusOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error)
}
