package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/realestate-listing/internal/model"
	"github.com/iliyamo/realestate-listing/internal/service"
	"github.com/iliyamo/realestate-listing/internal/utils"
)

// Decision is the outcome of a gate check.
type Decision int

const (
	Denied Decision = iota
	Allowed
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "denied"
}

// TokenVerifier verifies a raw bearer token.
type TokenVerifier interface {
	Verify(raw string) (*utils.Claims, error)
}

// IdentityResolver loads the live identity behind verified claims.
type IdentityResolver interface {
	Resolve(ctx context.Context, claims *utils.Claims) (model.User, error)
}

// Gate is the role authorization gate.  It is stateless apart from its
// collaborators and safe to share between routes.
type Gate struct {
	Tokens     TokenVerifier
	Identities IdentityResolver
	Log        zerolog.Logger
}

func NewGate(tokens TokenVerifier, identities IdentityResolver, log zerolog.Logger) *Gate {
	return &Gate{Tokens: tokens, Identities: identities, Log: log}
}

// Check runs the gate for one request.  A public requirement is allowed
// without looking at the header.  Every expected failure (bad header, bad
// token, unknown subject, role not in the set) is Denied with a nil error;
// a non-nil error means the identity store failed.
func (g *Gate) Check(ctx context.Context, req RoleRequirement, authorization string) (Decision, model.User, error) {
	if req.Public() {
		return Allowed, model.User{}, nil
	}
	raw, ok := bearerToken(authorization)
	if !ok {
		g.Log.Debug().Str("step", "header").Msg("access denied")
		return Denied, model.User{}, nil
	}
	claims, err := g.Tokens.Verify(raw)
	if err != nil {
		g.Log.Debug().Str("step", "token").Msg("access denied")
		return Denied, model.User{}, nil
	}
	user, err := g.Identities.Resolve(ctx, claims)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			g.Log.Debug().Str("step", "identity").Uint64("user_id", claims.UserID).Msg("access denied")
			return Denied, model.User{}, nil
		}
		return Denied, model.User{}, err
	}
	if !req.Allows(user.Role) {
		g.Log.Debug().Str("step", "role").Uint64("user_id", user.ID).Str("role", user.Role.String()).Msg("access denied")
		return Denied, model.User{}, nil
	}
	return Allowed, user, nil
}

// Require returns echo middleware enforcing req.  Denials all produce the
// same 403 body.  On success the identity is stored for the handler.
func (g *Gate) Require(req RoleRequirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if req.Public() {
			return next
		}
		return func(c echo.Context) error {
			decision, user, err := g.Check(c.Request().Context(), req, c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				g.Log.Error().Err(err).Str("path", c.Path()).Msg("authorization failed")
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
			}
			if decision != Allowed {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			setIdentity(c, user)
			return next(c)
		}
	}
}
