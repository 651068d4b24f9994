package api

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lyrebird/internal/preference"
	"github.com/kbukum/lyrebird/server"
)

// extractPreference reads original_text and edited_text from the query
// string, falling back to a form or JSON body.
func (h *Handlers) extractPreference(c *gin.Context) {
	req := preference.ExtractRequest{
		OriginalText: c.Query("original_text"),
		EditedText:   c.Query("edited_text"),
	}
	if req.OriginalText == "" && req.EditedText == "" && c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
			server.RespondWithError(c, badBody(err))
			return
		}
	}

	res, err := h.Preferences.Extract(c.Request.Context(), userFrom(c).ID, req)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, res)
}

func (h *Handlers) listPreferences(c *gin.Context) {
	list, err := h.Preferences.List(c.Request.Context(), userFrom(c).ID)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, list)
}
