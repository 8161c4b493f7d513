package ports

import "context"

// AccountPort updates player-facing profile fields.
type AccountPort interface {
	// UpdateProfile sets the user's username and display name.
	UpdateProfile(ctx context.Context, userID, username, displayName string) error
}
