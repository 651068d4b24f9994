package middleware

import (
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lyrebird/auth"
	"github.com/kbukum/lyrebird/auth/authctx"
	"github.com/kbukum/lyrebird/auth/jwt"
	apperrors "github.com/kbukum/lyrebird/errors"
	"github.com/kbukum/lyrebird/logger"
)

// ContextKeyUserID is where Auth stores the subject on the gin.Context.
const ContextKeyUserID = "user_id"

type subjectGetter interface {
	GetSubject() (string, error)
}

// Auth requires a valid "Authorization: Bearer <token>" header. Parsed
// claims go into the request context via authctx, and the token subject
// becomes the user ID for logging and for UserID.
func Auth(validator auth.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			abort(c, apperrors.Unauthorized("Not authenticated"))
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			if stderrors.Is(err, jwt.ErrExpired) {
				abort(c, apperrors.TokenExpired())
				return
			}
			abort(c, apperrors.InvalidToken())
			return
		}

		ctx := authctx.Set(c.Request.Context(), claims)
		if sg, ok := claims.(subjectGetter); ok {
			if sub, err := sg.GetSubject(); err == nil && sub != "" {
				c.Set(ContextKeyUserID, sub)
				ctx = logger.ContextWithUserID(ctx, sub)
			}
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// UserID returns the authenticated subject set by Auth.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextKeyUserID)
	return id, id != ""
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abort(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
}
