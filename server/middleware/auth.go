package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vida-academica/backend/auth"
	"github.com/vida-academica/backend/auth/authctx"
	"github.com/vida-academica/backend/errors"
)

// RequireAuth returns a Gin middleware that validates the Bearer access token
// and stores the authenticated identity in the request context, where
// handlers and the layers below them retrieve it through authctx.
func RequireAuth(guard *auth.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			appErr := errors.Unauthenticated()
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}

		ident, err := guard.Authenticate(c.Request.Context(), raw)
		if err != nil {
			appErr, ok := errors.AsAppError(err)
			if !ok {
				appErr = errors.Unauthenticated()
			}
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}

		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), ident))
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
