package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/davicafu/autostock/internal/permission/domain"
	"github.com/davicafu/autostock/pkg/utils"
)

const principalKey = "principal"

// PrincipalService es lo que el middleware necesita del servicio de perfiles.
type PrincipalService interface {
	ResolvePrincipal(ctx context.Context, p domain.Principal) (domain.Principal, error)
	Check(area domain.Area, role domain.Role, level *int) domain.Decision
}

type AuthConfig struct {
	JWTSecret    string
	AllowHeaders bool // acepta X-User-ID sin token (solo desarrollo)
}

// Authenticator resuelve el Principal de cada petición.
type Authenticator struct {
	cfg      AuthConfig
	profiles PrincipalService
	log      *zap.Logger
}

func NewAuthenticator(cfg AuthConfig, profiles PrincipalService, log *zap.Logger) *Authenticator {
	return &Authenticator{cfg: cfg, profiles: profiles, log: log}
}

type jwtClaims struct {
	jwt.RegisteredClaims
	Role  domain.Role `json:"role,omitempty"`
	Level *int        `json:"level,omitempty"`
	Store *string     `json:"store,omitempty"`
}

func authenticateJWT(token, secret string) (domain.Principal, error) {
	if strings.TrimSpace(secret) == "" {
		return domain.Principal{}, errors.New("jwt secret not configured")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &jwtClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return domain.Principal{}, err
	}
	if !parsed.Valid {
		return domain.Principal{}, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return domain.Principal{}, errors.New("subject claim required")
	}
	return domain.Principal{
		UserID: claims.Subject,
		Role:   claims.Role,
		Level:  claims.Level,
		Store:  claims.Store,
		Source: "jwt",
	}, nil
}

func bearerToken(authz string) (string, bool) {
	parts := strings.Fields(authz)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// Authenticate exige un principal válido y lo deja en el contexto de gin.
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var principal domain.Principal

		authz := strings.TrimSpace(c.GetHeader("Authorization"))
		headerUser := strings.TrimSpace(c.GetHeader("X-User-ID"))

		switch {
		case authz != "":
			token, ok := bearerToken(authz)
			if !ok {
				utils.SendUnauthorized(c, "invalid credentials")
				return
			}
			p, err := authenticateJWT(token, a.cfg.JWTSecret)
			if err != nil {
				a.log.Debug("JWT rejected", zap.Error(err))
				utils.SendUnauthorized(c, "invalid credentials")
				return
			}
			principal = p
		case a.cfg.AllowHeaders && headerUser != "":
			principal = domain.Principal{UserID: headerUser, Source: "header"}
		default:
			utils.SendUnauthorized(c, "authentication required")
			return
		}

		resolved, err := a.profiles.ResolvePrincipal(c.Request.Context(), principal)
		if err != nil {
			a.log.Error("Failed to resolve principal", zap.String("user_id", principal.UserID), zap.Error(err))
			utils.SendInternalServerError(c, "failed to resolve user profile")
			return
		}

		c.Set(principalKey, resolved)
		c.Next()
	}
}

// RequireArea es el FeatureGuard: 403 con el motivo si el principal no tiene acceso.
func (a *Authenticator) RequireArea(area domain.Area) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			utils.SendUnauthorized(c, "authentication required")
			return
		}
		decision := a.profiles.Check(area, p.Role, p.Level)
		if !decision.HasAccess {
			utils.SendForbidden(c, decision.Reason)
			return
		}
		c.Next()
	}
}

// PrincipalFrom lee el principal autenticado.
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

// UserID devuelve el id del usuario autenticado o "".
func UserID(c *gin.Context) string {
	p, _ := PrincipalFrom(c)
	return p.UserID
}
