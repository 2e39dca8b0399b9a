package session

import (
	"net/http"
	"time"
)

const (
	accessTokenCookie  = "nb-access-token"
	refreshTokenCookie = "nb-refresh-token"
	codeVerifierCookie = "nb-code-verifier"

	tokenCookieMaxAge    = 30 * 24 * time.Hour
	verifierCookieMaxAge = 10 * time.Minute
)

// Session is the cookie-carried auth state of one request. Handlers read it
// with FromRequest, pass it to the Accessor, and call Write when Dirty.
type Session struct {
	AccessToken  string
	RefreshToken string
	CodeVerifier string

	dirty bool
}

// FromRequest reads the session cookies. Missing cookies leave fields empty.
func FromRequest(r *http.Request) *Session {
	s := &Session{}
	if c, err := r.Cookie(accessTokenCookie); err == nil {
		s.AccessToken = c.Value
	}
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		s.RefreshToken = c.Value
	}
	if c, err := r.Cookie(codeVerifierCookie); err == nil {
		s.CodeVerifier = c.Value
	}
	return s
}

func (s *Session) SetTokens(accessToken, refreshToken string) {
	s.AccessToken = accessToken
	s.RefreshToken = refreshToken
	s.dirty = true
}

func (s *Session) SetCodeVerifier(verifier string) {
	s.CodeVerifier = verifier
	s.dirty = true
}

// Clear drops every value; the next Write expires the cookies.
func (s *Session) Clear() {
	s.AccessToken = ""
	s.RefreshToken = ""
	s.CodeVerifier = ""
	s.dirty = true
}

// Dirty reports whether the session changed since it was read.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Write sets or expires the session cookies. It must be called before the
// response header is written.
func (s *Session) Write(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, cookie(accessTokenCookie, s.AccessToken, tokenCookieMaxAge, secure))
	http.SetCookie(w, cookie(refreshTokenCookie, s.RefreshToken, tokenCookieMaxAge, secure))
	http.SetCookie(w, cookie(codeVerifierCookie, s.CodeVerifier, verifierCookieMaxAge, secure))
	s.dirty = false
}

func cookie(name, value string, maxAge time.Duration, secure bool) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
	}
	return c
}
