package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/horoscope-service/internal/adapters/auth"
	"github.com/jsamuelsen/horoscope-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/horoscope-service/internal/domain"
	"github.com/jsamuelsen/horoscope-service/internal/platform/config"
	"github.com/jsamuelsen/horoscope-service/internal/platform/logging"
)

// Auth modes of config.AuthConfig.
const (
	AuthModeNone    = "none"
	AuthModeGateway = "gateway"
	AuthModeJWT     = "jwt"
)

const (
	// ContextKeyClaims is the gin context key for the caller's claims.
	ContextKeyClaims = "claims"

	// ContextKeyAuthError keeps the reason a presented token was rejected,
	// so routes that require a reader can report it.
	ContextKeyAuthError = "auth_error"

	defaultSubjectHeader = "X-User-ID"
	defaultRolesHeader   = "X-User-Roles"
	defaultEmailHeader   = "X-User-Email"
)

// Claims is the identified caller.
type Claims struct {
	// Subject is the reader's user ID.
	Subject string
	Email   string
	Roles   []string
}

// TokenVerifier resolves a bearer token to an identity.
type TokenVerifier interface {
	Verify(raw string) (*auth.Identity, error)
}

// ExtractClaims reads gateway identity headers. Header names come from cfg
// with X-User-* defaults.
func ExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	subjectHeader := defaultSubjectHeader
	rolesHeader := defaultRolesHeader

	if cfg != nil {
		if cfg.SubjectHeader != "" {
			subjectHeader = cfg.SubjectHeader
		}

		if cfg.RolesHeader != "" {
			rolesHeader = cfg.RolesHeader
		}
	}

	claims := &Claims{
		Subject: strings.TrimSpace(c.GetHeader(subjectHeader)),
		Email:   c.GetHeader(defaultEmailHeader),
	}

	if roles := c.GetHeader(rolesHeader); roles != "" {
		claims.Roles = parseCommaSeparated(roles)
	}

	return claims
}

// Authenticate returns middleware that identifies the caller when it can.
// Anonymous callers pass through: free content needs no identity. A bearer
// token that fails verification is treated as anonymous and its reason is
// kept for RequireAuth.
func Authenticate(cfg *config.AuthConfig, verifier TokenVerifier) gin.HandlerFunc {
	mode := AuthModeNone
	if cfg != nil && cfg.Mode != "" {
		mode = cfg.Mode
	}

	return func(c *gin.Context) {
		var claims *Claims

		switch mode {
		case AuthModeGateway:
			claims = ExtractClaims(c, cfg)
		case AuthModeJWT:
			claims = verifyBearer(c, verifier)
		}

		if claims != nil && claims.Subject != "" {
			c.Set(ContextKeyClaims, claims)
			c.Request = c.Request.WithContext(logging.WithUserID(c.Request.Context(), claims.Subject))
		}

		c.Next()
	}
}

func verifyBearer(c *gin.Context, verifier TokenVerifier) *Claims {
	raw, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok || verifier == nil {
		return nil
	}

	identity, err := verifier.Verify(raw)
	if err != nil {
		c.Set(ContextKeyAuthError, err)
		return nil
	}

	claims := &Claims{Subject: identity.UserID, Email: identity.Email}
	if identity.Role != "" {
		claims.Roles = []string{identity.Role}
	}

	return claims
}

// bearerToken extracts the token of an "Authorization: Bearer" header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}

// GetClaims retrieves claims from the gin context, or nil for anonymous
// callers.
func GetClaims(c *gin.Context) *Claims {
	if claims, exists := c.Get(ContextKeyClaims); exists {
		if cl, ok := claims.(*Claims); ok {
			return cl
		}
	}

	return nil
}

// UserID returns the caller's user ID, or "" for anonymous callers.
func UserID(c *gin.Context) string {
	if claims := GetClaims(c); claims != nil {
		return claims.Subject
	}

	return ""
}

// RequireAuth returns middleware that rejects anonymous callers with 401.
// It must run after Authenticate.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) != "" {
			c.Next()
			return
		}

		err := domain.NewUnauthorizedError("authentication required")
		if v, ok := c.Get(ContextKeyAuthError); ok {
			if authErr, ok := v.(error); ok {
				err = authErr
			}
		}

		dto.AbortWithError(c, err)
	}
}

func parseCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")

	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
