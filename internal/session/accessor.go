package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/models"
)

// ErrNotConfigured is returned when the identity backend URL or key is unset.
var ErrNotConfigured = errors.New("identity backend not configured")

// Accessor is the seam to the managed identity service. Implementations may
// update the Session they are given; callers persist it afterwards.
type Accessor interface {
	// CurrentUser returns nil, nil when there is no signed-in user.
	CurrentUser(ctx context.Context, s *Session) (*models.SessionUser, error)
	// BeginOAuth returns the provider authorization URL to redirect to.
	BeginOAuth(ctx context.Context, s *Session, provider, redirectTo string) (string, error)
	// CompleteOAuth exchanges the callback code. Failures are *ExchangeError.
	CompleteOAuth(ctx context.Context, s *Session, code string) (*models.SessionUser, error)
	// SignOut revokes the session upstream and clears it locally.
	SignOut(ctx context.Context, s *Session) error
}

// ExchangeReason tells apart the ways CompleteOAuth can fail.
type ExchangeReason int

const (
	ReasonNoCode ExchangeReason = iota + 1
	ReasonRejected
	ReasonNoSession
)

func (r ExchangeReason) String() string {
	switch r {
	case ReasonNoCode:
		return "no_code"
	case ReasonRejected:
		return "rejected"
	case ReasonNoSession:
		return "no_session"
	default:
		return "unknown"
	}
}

// ExchangeError carries a message safe to show to the user.
type ExchangeError struct {
	Reason  ExchangeReason
	Message string
	Err     error
}

func (e *ExchangeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth exchange %s: %s: %v", e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("auth exchange %s: %s", e.Reason, e.Message)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}
