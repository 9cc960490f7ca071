// Package authsession verifies the session token issued by the auth service
// and attaches the signed-in principal to requests.
package authsession

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/civicspace/agora/internal/platform/logging"
	"github.com/civicspace/agora/internal/platform/requestctx"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	"github.com/civicspace/agora/internal/services/web/platform/httpx"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// CookieName is the cookie carrying the session token.
const CookieName = "web_session"

const signingMethod = "HS256"

// Config defines how session tokens are verified.
type Config struct {
	Secret string
	Issuer string
	Now    func() time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// Verifier validates session tokens.
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifier builds a verifier. An empty secret yields a verifier that
// treats every visitor as signed out.
func NewVerifier(cfg Config) Verifier {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return Verifier{
		secret: []byte(strings.TrimSpace(cfg.Secret)),
		issuer: strings.TrimSpace(cfg.Issuer),
		now:    now,
	}
}

// Configured reports whether tokens can be verified at all.
func (v Verifier) Configured() bool {
	return len(v.secret) > 0
}

// Verify checks the token signature, issuer and expiry and returns the
// principal it names.
func (v Verifier) Verify(token string) (requestctx.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return requestctx.Principal{}, apperrors.E(apperrors.KindUnauthorized, "session token is required")
	}
	if !v.Configured() {
		return requestctx.Principal{}, errors.New("session verifier is not configured")
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{signingMethod}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return requestctx.Principal{}, mapJWTError(err)
	}

	if v.issuer != "" && parsed.Issuer != v.issuer {
		return requestctx.Principal{}, apperrors.E(apperrors.KindUnauthorized, "session issuer mismatch")
	}
	if parsed.ExpiresAt == nil {
		return requestctx.Principal{}, apperrors.E(apperrors.KindUnauthorized, "session exp is required")
	}
	now := v.now().UTC()
	if !parsed.ExpiresAt.Time.UTC().After(now) {
		return requestctx.Principal{}, apperrors.E(apperrors.KindUnauthorized, "session is expired")
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return requestctx.Principal{}, apperrors.E(apperrors.KindUnauthorized, "session not active yet")
	}
	userID := strings.TrimSpace(parsed.Subject)
	if userID == "" {
		return requestctx.Principal{}, apperrors.E(apperrors.KindUnauthorized, "session subject is required")
	}
	name := strings.TrimSpace(parsed.Name)
	if name == "" {
		name = userID
	}
	return requestctx.Principal{UserID: userID, DisplayName: name}, nil
}

// Middleware attaches the principal of a valid session cookie. Invalid or
// missing cookies leave the request anonymous.
func (v Verifier) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || !v.Configured() {
				next.ServeHTTP(w, r)
				return
			}
			principal, err := v.Verify(cookie.Value)
			if err != nil {
				logging.FromContext(r.Context()).Debug("session rejected", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithPrincipal(r.Context(), principal)))
		})
	}
}

// Issue signs a session token. The auth service owns issuance; this exists
// for local development and tests.
func Issue(cfg Config, principal requestctx.Principal, ttl time.Duration) (string, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return "", errors.New("session secret is required")
	}
	if !principal.SignedIn() {
		return "", errors.New("principal user id is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	issuedAt := now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    strings.TrimSpace(cfg.Issuer),
			Subject:   strings.TrimSpace(principal.UserID),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		Name: strings.TrimSpace(principal.DisplayName),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return apperrors.E(apperrors.KindUnauthorized, "session signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.E(apperrors.KindUnauthorized, "session alg is invalid")
	}
	if errors.Is(err, jwt.ErrTokenMalformed) {
		return apperrors.E(apperrors.KindUnauthorized, "session token is malformed")
	}
	return apperrors.E(apperrors.KindUnauthorized, "session token is invalid")
}
