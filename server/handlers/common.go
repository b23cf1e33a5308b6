package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vida-academica/backend/auth"
	"github.com/vida-academica/backend/auth/authctx"
	"github.com/vida-academica/backend/errors"
)

// validationError wraps a JSON binding failure as INVALID_INPUT.
func validationError(err error) error {
	return errors.Validation("malformed request body").WithCause(err)
}

// callerIdentity returns the authenticated identity from the request
// context. The auth middleware guarantees it is present on protected routes;
// the error path exists for routes wired without it by mistake.
func callerIdentity(c *gin.Context) (*auth.Identity, error) {
	ident, err := authctx.GetOrError(c.Request.Context())
	if err != nil {
		return nil, errors.Unauthenticated()
	}
	return ident, nil
}

// pathID parses the numeric :id path parameter.
func pathID(c *gin.Context) (uint, error) {
	return pathParam(c, "id")
}

// pathParam parses a named numeric path parameter.
func pathParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.Validation(name + " must be a positive integer")
	}
	return uint(id), nil
}
