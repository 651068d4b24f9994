// Package api exposes the Lyrebird services over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/lyrebird/auth"
	apperrors "github.com/kbukum/lyrebird/errors"
	"github.com/kbukum/lyrebird/internal/dictation"
	"github.com/kbukum/lyrebird/internal/preference"
	"github.com/kbukum/lyrebird/internal/user"
	"github.com/kbukum/lyrebird/server"
	"github.com/kbukum/lyrebird/server/middleware"
)

// WelcomeMessage is returned by GET /.
const WelcomeMessage = "Welcome to Lyrebird API!"

const contextKeyUser = "current_user"

// Handlers holds the services behind the routes.
type Handlers struct {
	Users       *user.Service
	Dictations  *dictation.Service
	Preferences *preference.Service
	Tokens      auth.TokenValidator
}

// Register mounts every route on r.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.root)

	authGroup := r.Group("/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)
	authGroup.GET("/me", middleware.Auth(h.Tokens), h.currentUser, h.me)

	dictations := r.Group("/dictations", middleware.Auth(h.Tokens), h.currentUser)
	dictations.POST("/", h.createDictation)
	dictations.GET("/", h.listDictations)
	dictations.POST("/preference_extract", h.extractPreference)
	dictations.GET("/preferences", h.listPreferences)
	dictations.GET("/:id", h.getDictation)
}

func (h *Handlers) root(c *gin.Context) {
	server.RespondOK(c, gin.H{"message": WelcomeMessage})
}

// currentUser loads the token's user so deleted accounts lose access.
func (h *Handlers) currentUser(c *gin.Context) {
	id, ok := middleware.UserID(c)
	if !ok {
		server.RespondWithError(c, apperrors.InvalidToken())
		return
	}
	u, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		server.RespondWithError(c, err)
		return
	}
	c.Set(contextKeyUser, u)
	c.Next()
}

func userFrom(c *gin.Context) *user.User {
	u, _ := c.MustGet(contextKeyUser).(*user.User)
	return u
}

func parseID(c *gin.Context, param, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		server.RespondWithError(c, apperrors.NotFound(resource, c.Param(param)))
		return uuid.Nil, false
	}
	return id, true
}

func badBody(err error) *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeInvalidInput, "Invalid request body", http.StatusBadRequest).WithCause(err)
}
