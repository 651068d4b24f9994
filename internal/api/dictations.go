package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lyrebird/database/query"
	apperrors "github.com/kbukum/lyrebird/errors"
	"github.com/kbukum/lyrebird/internal/dictation"
	"github.com/kbukum/lyrebird/server"
	"github.com/kbukum/lyrebird/util"
)

// FormFieldAudio is the multipart field carrying the upload.
const FormFieldAudio = "audio"

func (h *Handlers) createDictation(c *gin.Context) {
	upload, err := h.readUpload(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	d, err := h.Dictations.Create(c.Request.Context(), userFrom(c).ID, upload)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, d.ToResponse())
}

func (h *Handlers) readUpload(c *gin.Context) (dictation.Upload, error) {
	limit := h.Dictations.MaxUploadBytes()

	fh, err := c.FormFile(FormFieldAudio)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return dictation.Upload{}, apperrors.PayloadTooLarge("File too large. Maximum size is " + util.FormatSize(limit))
		case errors.Is(err, http.ErrMissingFile):
			return dictation.Upload{}, apperrors.InvalidInput(FormFieldAudio, "an audio file is required")
		default:
			return dictation.Upload{}, badBody(err)
		}
	}

	f, err := fh.Open()
	if err != nil {
		return dictation.Upload{}, badBody(err)
	}
	defer f.Close()

	return dictation.ReadUpload(f, fh.Filename, fh.Header.Get("Content-Type"), limit)
}

func (h *Handlers) listDictations(c *gin.Context) {
	list, err := h.Dictations.List(c.Request.Context(), userFrom(c).ID, query.ParseFromRequest(c.Request))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	out := make([]dictation.Response, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToResponse())
	}
	server.RespondOK(c, out)
}

func (h *Handlers) getDictation(c *gin.Context) {
	id, ok := parseID(c, "id", "dictation")
	if !ok {
		return
	}
	d, err := h.Dictations.Get(c.Request.Context(), userFrom(c).ID, id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, d.ToResponse())
}
