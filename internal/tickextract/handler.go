package tickextract

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dota-coach-backend/internal/llm"
	"dota-coach-backend/internal/shared/server/respond"
	"dota-coach-backend/internal/shared/util"
)

// DefaultMaxImageBytes caps uploads when no limit is configured.
const DefaultMaxImageBytes int64 = 8 << 20

// formOverhead allows room for hint fields and multipart framing on top of the image.
const formOverhead int64 = 1 << 20

// Handler wires HTTP handlers to the extractor.
type Handler struct {
	Extractor     *Extractor
	MaxImageBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(x *Extractor, maxImageBytes int64) *Handler {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}
	return &Handler{Extractor: x, MaxImageBytes: maxImageBytes}
}

// RegisterRoutes attaches the extraction route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/tick/extract", h.extract)
}

func (h *Handler) extract(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxImageBytes+formOverhead)

	img, err := h.readImage(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var hints []string
	if form := c.Request.MultipartForm; form != nil {
		hints = ParseHints(form.Value)
	}

	out, err := h.Extractor.Extract(c.Request.Context(), img, hints)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, out)
}

func (h *Handler) readImage(c *gin.Context) (Image, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if bodyTooLarge(err) {
			return Image{}, ErrImageTooLarge
		}
		return Image{}, ErrNoImage
	}
	if fh.Size > h.MaxImageBytes {
		return Image{}, ErrImageTooLarge
	}
	data, err := readAll(fh, h.MaxImageBytes)
	if err != nil {
		return Image{}, err
	}
	return Image{Data: data, ContentType: fh.Header.Get("Content-Type")}, nil
}

func bodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

func readAll(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrImageTooLarge
	}
	return data, nil
}

func writeError(c *gin.Context, err error) {
	var (
		noCall    *llm.NoToolCallError
		badArgs   *ArgumentsError
		transport *llm.TransportError
	)
	switch {
	case errors.Is(err, ErrNoImage):
		respond.Error(c, http.StatusBadRequest, "no_image", "multipart field \"image\" is required")
	case errors.Is(err, ErrImageTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "image_too_large", "image exceeds MAX_IMAGE_BYTES")
	case errors.As(err, &noCall):
		detail := gin.H{"tool": noCall.Tool}
		if len(noCall.Raw) > 0 {
			detail["response"] = noCall.Raw
		}
		respond.Error(c, http.StatusBadGateway, "no_tool_call", detail)
	case errors.As(err, &badArgs):
		respond.Error(c, http.StatusBadGateway, "bad_tool_args", gin.H{"reason": badArgs.Reason, "arguments": badArgs.Arguments})
	case errors.As(err, &transport) && transport.Timeout:
		respond.Error(c, http.StatusGatewayTimeout, "openai_timeout", util.SanitizeError(err))
	case errors.As(err, &transport) && transport.Canceled:
		respond.Error(c, http.StatusServiceUnavailable, "request_canceled", "request canceled")
	default:
		respond.Error(c, http.StatusInternalServerError, "openai_failed", util.SanitizeError(err))
	}
}
