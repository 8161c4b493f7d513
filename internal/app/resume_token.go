package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// ResumeTokenService mints and verifies seat resume tokens. A client that
// drops mid-round presents its token on reconnect to reclaim the same seat
// without a fresh matchmaking pass.
type ResumeTokenService struct {
	secret string
	issuer string
	ttl    time.Duration
}

// ResumeClaims is the verified content of a resume token.
type ResumeClaims struct {
	UserID  string
	MatchID string
	RoundID string
	Seat    int
}

func NewResumeTokenService(secret, issuer string, ttl time.Duration) *ResumeTokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResumeTokenService{secret: secret, issuer: issuer, ttl: ttl}
}

// GenerateToken signs a resume token binding the user to a seat in a round.
func (s *ResumeTokenService) GenerateToken(userID, matchID, roundID string, seat int) (string, error) {
	if s == nil {
		return "", fmt.Errorf("resume token service is nil")
	}
	if userID == "" || matchID == "" {
		return "", fmt.Errorf("user and match are required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("resume token config is incomplete")
	}

	claims := jwt.MapClaims{
		"iss":   s.issuer,
		"sub":   userID,
		"exp":   time.Now().Add(s.ttl).Unix(),
		"match": matchID,
		"round": roundID,
		"seat":  seat,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// VerifyToken parses and validates a resume token string.
func (s *ResumeTokenService) VerifyToken(tokenString string) (ResumeClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return ResumeClaims{}, fmt.Errorf("parse resume token: %w", err)
	}
	if !token.Valid {
		return ResumeClaims{}, fmt.Errorf("resume token is invalid")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ResumeClaims{}, fmt.Errorf("resume token claims malformed")
	}
	if iss, _ := claims["iss"].(string); iss != s.issuer {
		return ResumeClaims{}, fmt.Errorf("resume token issuer mismatch")
	}

	out := ResumeClaims{}
	out.UserID, _ = claims["sub"].(string)
	out.MatchID, _ = claims["match"].(string)
	out.RoundID, _ = claims["round"].(string)
	if seat, ok := claims["seat"].(float64); ok {
		out.Seat = int(seat)
	}
	if out.UserID == "" || out.MatchID == "" {
		return ResumeClaims{}, fmt.Errorf("resume token missing subject or match")
	}
	return out, nil
}
