package stream

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fileproxy/internal/domain/file"
	"fileproxy/internal/domain/storagecfg"
	"fileproxy/internal/domain/user"
	"fileproxy/internal/pkg/httprange"
	"fileproxy/internal/pkg/response"
	"fileproxy/internal/pkg/token"
	"fileproxy/internal/storage"
)

// Handler serves the streaming route. It is the only place that touches the
// response writer: the service hands back an open stream plus metadata, and
// the handler turns that into headers and a piped body.
type Handler struct {
	service    *Service
	cookieName string
}

func NewHandler(service *Service, cookieName string) *Handler {
	return &Handler{service: service, cookieName: cookieName}
}

// Stream godoc
// @Summary Stream a file's bytes
// @Description Streams a file from the owner's configured storage backend. Supports Range requests, share-token links and inline/download disposition.
// @Tags Files
// @Produce octet-stream
// @Param userId path string true "Owning account id"
// @Param fileId path string true "File id"
// @Param action query string false "view (default) or download"
// @Param token query string false "Share token"
// @Success 200 {file} binary
// @Success 206 {file} binary
// @Failure 400,403,404,500 {object} map[string]interface{}
// @Router /{userId}/{fileId} [get]
func (h *Handler) Stream(c *gin.Context) {
	userID := c.Param("userId")
	fileID := c.Param("fileId")

	rng := httprange.Parse(c.GetHeader("Range"))
	tok := token.FromRequest(c.Request, h.cookieName)

	res, err := h.service.Open(c.Request.Context(), userID, fileID, tok, rng)
	if err != nil {
		h.writeError(c, userID, fileID, err)
		return
	}
	defer res.Body.Close()

	log.Printf("stream_open user_id=%s file_id=%s provider=%s granted=%s",
		userID, fileID, res.File.Provider, res.Reason)

	contentType := res.Meta.ContentType
	if contentType == "" {
		contentType = res.File.MimeType
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Accept-Ranges", "bytes")

	if res.Meta.ContentLength >= 0 {
		c.Header("Content-Length", strconv.FormatInt(res.Meta.ContentLength, 10))
	}
	if res.Meta.ETag != "" {
		c.Header("ETag", res.Meta.ETag)
	}
	if c.Query("action") == "download" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.File.OriginalName))
	}

	// The adapter reports the range the backend actually agreed to serve;
	// no range in the metadata means full content, even if one was asked.
	status := http.StatusOK
	if res.Meta.ContentRange != "" {
		status = http.StatusPartialContent
		c.Header("Content-Range", res.Meta.ContentRange)
	}
	c.Status(status)

	// Pipe directly, never buffering the body. If the client goes away the
	// write side fails, io.Copy returns, and the deferred Close aborts the
	// backend stream. That is the cancellation signal, nothing else.
	written, err := io.Copy(c.Writer, res.Body)
	if err != nil {
		// Headers are committed; the status cannot change. Log and drop.
		log.Printf("stream_error user_id=%s file_id=%s provider=%s bytes_written=%d error=%q",
			userID, fileID, res.File.Provider, written, err.Error())
	}
}

// writeError maps pipeline errors onto the HTTP surface. Internal detail
// never reaches the response body: 500s get a generic message and the
// cause goes to the log.
func (h *Handler) writeError(c *gin.Context, userID, fileID string, err error) {
	var denied *DeniedError

	switch {
	case errors.Is(err, user.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "user not found")
	case errors.Is(err, file.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "file not found")
	case errors.Is(err, ErrNotYourFile):
		response.Error(c, http.StatusForbidden, "not_your_file", "file does not belong to this user")
	case errors.As(err, &denied):
		response.Error(c, http.StatusForbidden, string(denied.Reason), "access denied")
	case errors.Is(err, storagecfg.ErrNotConfigured):
		response.Error(c, http.StatusBadRequest, "storage_not_configured", "no active storage configuration for this account")
	case errors.Is(err, storage.ErrUnsupportedProvider):
		response.Error(c, http.StatusBadRequest, "unsupported_provider", "file references an unsupported storage provider")
	case errors.Is(err, ErrNotStreamable):
		response.Error(c, http.StatusBadRequest, "not_streamable", "folders cannot be streamed")
	default:
		log.Printf("stream_open_error user_id=%s file_id=%s error=%q", userID, fileID, err.Error())
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
