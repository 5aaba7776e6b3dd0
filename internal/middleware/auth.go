package middleware

import (
	"context"
	"strings"

	"garage_manager/internal/apperr"
	"garage_manager/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	TokenCookie = "token"
	claimsKey   = "claims"
)

// Revocations reports whether a token id was revoked by logout.
type Revocations interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Authenticate requires a session token from the token cookie or a Bearer
// header. A missing token is 401; a token that fails verification, has
// expired or was revoked is 403. revoked may be nil.
func Authenticate(tokens *auth.TokenIssuer, revoked Revocations, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			abort(c, apperr.KindUnauthorized, "Không có token, truy cập bị từ chối")
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			abort(c, apperr.KindForbidden, "Token không hợp lệ hoặc đã hết hạn")
			return
		}

		if revoked != nil && claims.ID != "" {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Error().Err(err).Msg("token revocation lookup failed")
				abort(c, apperr.KindInternal, "Lỗi server")
				return
			}
			if isRevoked {
				abort(c, apperr.KindForbidden, "Token đã bị thu hồi")
				return
			}
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if v, err := c.Cookie(TokenCookie); err == nil && v != "" {
		return v
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// CurrentClaims returns the claims set by Authenticate.
func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// SetClaims is used by tests and internal callers that authenticate by
// other means.
func SetClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(claimsKey, claims)
}
