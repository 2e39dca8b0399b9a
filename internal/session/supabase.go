package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/models"
	"golang.org/x/oauth2"
)

var _ Accessor = (*Supabase)(nil)

// scopes requested per OAuth provider
var providerScopes = map[string]string{
	"github": "public_repo read:user user:email",
}

// Supabase implements Accessor against the Supabase Auth (GoTrue) REST API
// using the PKCE flow.
type Supabase struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewSupabase returns an Accessor. httpClient may be nil.
func NewSupabase(baseURL, anonKey string, httpClient *http.Client) *Supabase {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Supabase{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: httpClient,
	}
}

func (s *Supabase) configured() bool {
	return s.baseURL != "" && s.anonKey != ""
}

// BeginOAuth builds the authorize URL and stores a fresh PKCE verifier in
// the session. No network call is made.
func (s *Supabase) BeginOAuth(ctx context.Context, sess *Session, provider, redirectTo string) (string, error) {
	if !s.configured() {
		return "", ErrNotConfigured
	}
	scopes, ok := providerScopes[provider]
	if !ok {
		return "", fmt.Errorf("unsupported OAuth provider: %q", provider)
	}

	verifier := oauth2.GenerateVerifier()
	sess.SetCodeVerifier(verifier)

	query := url.Values{}
	query.Set("provider", provider)
	query.Set("redirect_to", redirectTo)
	query.Set("scopes", scopes)
	query.Set("code_challenge", oauth2.S256ChallengeFromVerifier(verifier))
	query.Set("code_challenge_method", "s256")

	return s.baseURL + "/auth/v1/authorize?" + query.Encode(), nil
}

// CompleteOAuth exchanges the auth code plus stored verifier for tokens.
func (s *Supabase) CompleteOAuth(ctx context.Context, sess *Session, code string) (*models.SessionUser, error) {
	if code == "" {
		return nil, &ExchangeError{Reason: ReasonNoCode, Message: "No code provided"}
	}
	if !s.configured() {
		return nil, &ExchangeError{Reason: ReasonRejected, Message: "Authentication is not configured", Err: ErrNotConfigured}
	}
	if sess.CodeVerifier == "" {
		return nil, &ExchangeError{Reason: ReasonRejected, Message: "PKCE code verifier not found in storage"}
	}

	tokens, err := s.token(ctx, "pkce", map[string]string{
		"auth_code":     code,
		"code_verifier": sess.CodeVerifier,
	})
	sess.SetCodeVerifier("")
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) {
			return nil, &ExchangeError{Reason: ReasonRejected, Message: apiErr.Message, Err: err}
		}
		return nil, &ExchangeError{Reason: ReasonRejected, Message: "Unable to reach the authentication service", Err: err}
	}
	if tokens.AccessToken == "" || tokens.User == nil {
		return nil, &ExchangeError{Reason: ReasonNoSession, Message: "No session created"}
	}

	sess.SetTokens(tokens.AccessToken, tokens.RefreshToken)
	return tokens.User.toSessionUser(), nil
}

// CurrentUser looks up the user behind the access token, refreshing it once
// when the identity service reports it expired.
func (s *Supabase) CurrentUser(ctx context.Context, sess *Session) (*models.SessionUser, error) {
	if sess.AccessToken == "" {
		return nil, nil
	}
	if !s.configured() {
		return nil, ErrNotConfigured
	}

	user, err := s.fetchUser(ctx, sess.AccessToken)
	if !isUnauthorized(err) {
		return user, err
	}

	if sess.RefreshToken != "" {
		slog.DebugContext(ctx, "Access token rejected, refreshing session")
		tokens, err := s.token(ctx, "refresh_token", map[string]string{"refresh_token": sess.RefreshToken})
		var apiErr *apiError
		switch {
		case err == nil && tokens.AccessToken != "":
			sess.SetTokens(tokens.AccessToken, tokens.RefreshToken)
			if tokens.User != nil {
				return tokens.User.toSessionUser(), nil
			}
			return s.fetchUser(ctx, sess.AccessToken)
		case err != nil && !errors.As(err, &apiErr):
			// identity service unreachable; keep the cookies for the next request
			return nil, err
		}
	}

	sess.Clear()
	return nil, nil
}

// SignOut revokes the refresh token upstream. The local session is cleared
// even when the upstream call fails.
func (s *Supabase) SignOut(ctx context.Context, sess *Session) error {
	accessToken := sess.AccessToken
	sess.Clear()
	if accessToken == "" || !s.configured() {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to create logout request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	return s.do(req, nil)
}

type gotrueUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	AppMetadata  map[string]any `json:"app_metadata"`
}

func (u *gotrueUser) toSessionUser() *models.SessionUser {
	return &models.SessionUser{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  firstString(u.UserMetadata, "full_name", "name", "user_name"),
		AvatarURL:    firstString(u.UserMetadata, "avatar_url"),
		AuthProvider: firstString(u.AppMetadata, "provider"),
	}
}

type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int         `json:"expires_in"`
	User         *gotrueUser `json:"user"`
}

type apiError struct {
	StatusCode int
	Message    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("identity service returned %d: %s", e.StatusCode, e.Message)
}

func isUnauthorized(err error) bool {
	var apiErr *apiError
	return errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

func (s *Supabase) token(ctx context.Context, grantType string, body map[string]string) (*tokenResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal token request: %w", err)
	}
	endpoint := s.baseURL + "/auth/v1/token?grant_type=" + url.QueryEscape(grantType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	var tokens tokenResponse
	if err := s.do(req, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

func (s *Supabase) fetchUser(ctx context.Context, accessToken string) (*models.SessionUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user request: %w", err)
	}
	s.setHeaders(req)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var user gotrueUser
	if err := s.do(req, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, nil
	}
	return user.toSessionUser(), nil
}

func (s *Supabase) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Accept", "application/json")
}

// do sends req and decodes a 2xx JSON body into out when out is non-nil.
// Non-2xx responses become *apiError.
func (s *Supabase) do(req *http.Request, out any) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apiError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, body)}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// errorMessage picks the human readable part of a GoTrue error body.
func errorMessage(status int, body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := firstString(payload, "error_description", "msg", "message", "error"); msg != "" {
			return msg
		}
	}
	return http.StatusText(status)
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
