package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
)

// ErrInvalidToken is returned by a TokenVerifier that rejects a token.
var ErrInvalidToken = errors.New("invalid token")

// TokenVerifier checks a bearer token and returns the caller's subject.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// StaticToken accepts a single shared API token.
type StaticToken string

// Verify compares the token in constant time.
func (s StaticToken) Verify(_ context.Context, token string) (string, error) {
	if s == "" || subtle.ConstantTimeCompare([]byte(s), []byte(token)) != 1 {
		return "", ErrInvalidToken
	}
	return "api-token", nil
}

// OIDCVerifier accepts ID tokens issued by an OIDC provider.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers the issuer and builds a verifier for clientID.
func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, err
	}
	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// Verify validates the token signature, issuer, audience and expiry.
func (v *OIDCVerifier) Verify(ctx context.Context, token string) (string, error) {
	idToken, err := v.verifier.Verify(ctx, token)
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	return idToken.Subject, nil
}

// AuthMiddleware handles API authentication via bearer tokens.
type AuthMiddleware struct {
	verifiers []TokenVerifier
	open      bool
}

// NewAuthMiddleware creates a new auth middleware. With no verifiers and
// open set, every request is let through (local development).
func NewAuthMiddleware(open bool, verifiers ...TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifiers: verifiers, open: open}
}

// RequireAuth rejects requests without a valid bearer token.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	if len(m.verifiers) == 0 {
		if m.open {
			return c.Next()
		}
		return unauthorized(c, "authentication is not configured")
	}

	token := extractBearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return unauthorized(c, "missing bearer token")
	}

	for _, v := range m.verifiers {
		subject, err := v.Verify(c.Context(), token)
		if err == nil {
			c.Locals("subject", subject)
			return c.Next()
		}
	}

	return unauthorized(c, "invalid bearer token")
}

func unauthorized(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status": "error",
		"error":  msg,
	})
}

// extractBearerToken returns the token from an "Authorization: Bearer <token>"
// header value, or "" if the header is not a bearer credential.
func extractBearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
