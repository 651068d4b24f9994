package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/lyrebird/errors"
	"github.com/kbukum/lyrebird/internal/user"
	"github.com/kbukum/lyrebird/server"
)

func (h *Handlers) register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, badBody(err))
		return
	}
	u, err := h.Users.Register(c.Request.Context(), req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, u.ToResponse())
}

// login accepts the OAuth2 password form; JSON is accepted too.
func (h *Handlers) login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		server.RespondWithError(c, badBody(err))
		return
	}
	token, err := h.Users.Login(c.Request.Context(), req)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.HTTPStatus == http.StatusUnauthorized {
			c.Header("WWW-Authenticate", "Bearer")
		}
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, token)
}

func (h *Handlers) me(c *gin.Context) {
	server.RespondOK(c, userFrom(c).ToResponse())
}
