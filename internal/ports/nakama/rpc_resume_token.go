package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"konkan/internal/app"
	"konkan/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// ResumeTokenRequest is the client payload for verifying a seat resume token.
type ResumeTokenRequest struct {
	Token string `json:"token"`
}

// ResumeTokenResponse tells the client which match and seat the token grants.
type ResumeTokenResponse struct {
	Valid   bool   `json:"valid"`
	MatchID string `json:"match_id,omitempty"`
	RoundID string `json:"round_id,omitempty"`
	Seat    int    `json:"seat,omitempty"`
}

func rpcResumeToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", runtime.NewError("no user id in context", 16) // UNAUTHENTICATED
	}

	var request ResumeTokenRequest
	if err := json.Unmarshal([]byte(payload), &request); err != nil {
		return "", err
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	tokens := app.NewResumeTokenService(
		env["konkan_resume_secret"], env["konkan_resume_issuer"], config.GetResumeTokenTTL())

	claims, err := tokens.VerifyToken(request.Token)
	if err != nil {
		logger.Debug("rpcResumeToken: Rejected token for %s: %v", userID, err)
		b, _ := json.Marshal(ResumeTokenResponse{Valid: false})
		return string(b), nil
	}
	if claims.UserID != userID {
		logger.Warn("rpcResumeToken: Token subject %s does not match caller %s", claims.UserID, userID)
		b, _ := json.Marshal(ResumeTokenResponse{Valid: false})
		return string(b), nil
	}

	b, _ := json.Marshal(ResumeTokenResponse{
		Valid:   true,
		MatchID: claims.MatchID,
		RoundID: claims.RoundID,
		Seat:    claims.Seat,
	})
	return string(b), nil
}
