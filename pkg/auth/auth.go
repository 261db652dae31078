// Package auth verifies bearer tokens issued by the external identity
// provider and carries the resulting actor through the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "bouncely/pkg/errors"
	httputil "bouncely/pkg/http"
	"bouncely/pkg/logger"
	"bouncely/pkg/model"

	"github.com/golang-jwt/jwt/v5"
)

const clockSkew = 30 * time.Second

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
	ErrNoSecret     = errors.New("token verification is not configured")
)

type contextKey struct{}

// Claims are the claims the service reads. The subject is the user id.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(clockSkew),
		),
	}
}

// Verify parses an HS256 token. Only the user and admin roles can be
// claimed; internal roles are never accepted from a token.
func (v *Verifier) Verify(tokenString string) (model.Actor, error) {
	if len(v.secret) == 0 {
		return model.Actor{}, ErrNoSecret
	}

	var claims Claims
	_, err := v.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return model.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return model.Actor{}, fmt.Errorf("%w: subject claim is required", ErrInvalidToken)
	}

	role := claims.Role
	switch role {
	case "":
		role = model.RoleUser
	case model.RoleUser, model.RoleAdmin:
	default:
		return model.Actor{}, fmt.Errorf("%w: role %q cannot be claimed", ErrInvalidToken, role)
	}

	return model.Actor{UserID: claims.Subject, Role: role}, nil
}

// Authenticate attaches the verified actor to the request context when an
// Authorization header is present. Requests without one pass through and are
// rejected by handlers that need an actor.
func Authenticate(v *Verifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeUnauthorized(w, log, "Authorization header must use the Bearer scheme")
				return
			}

			actor, err := v.Verify(strings.TrimSpace(token))
			if err != nil {
				log.Warn("Rejected bearer token",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"error", err,
				)
				writeUnauthorized(w, log, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, log *logger.Logger, message string) {
	if err := httputil.WriteError(w, apperrors.Unauthorized(message)); err != nil {
		log.Error("failed to write error response", "operation", "WriteError", "error", err)
	}
}

func WithActor(ctx context.Context, actor model.Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (model.Actor, bool) {
	actor, ok := ctx.Value(contextKey{}).(model.Actor)
	return actor, ok && actor.UserID != ""
}

// RequireActor returns the request's actor or an UNAUTHORIZED AppError.
func RequireActor(r *http.Request) (model.Actor, error) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		return model.Actor{}, apperrors.Unauthorized("Authentication required")
	}
	return actor, nil
}
