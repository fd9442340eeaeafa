package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/bobmcallan/toolbridge/internal/common"
	"github.com/bobmcallan/toolbridge/internal/tools"
)

// Dispatcher answers one tool request with encoded JSON.
type Dispatcher interface {
	Handle(ctx context.Context, route string, body []byte) ([]byte, error)
}

// ToolsHandler serves <prefix>/list_tools and <prefix>/<tool>.
type ToolsHandler struct {
	dispatcher Dispatcher
	prefix     string
	logger     *common.Logger
}

// NewToolsHandler creates a handler for requests under prefix.
func NewToolsHandler(d Dispatcher, prefix string, logger *common.Logger) *ToolsHandler {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &ToolsHandler{
		dispatcher: d,
		prefix:     strings.TrimRight(prefix, "/"),
		logger:     logger,
	}
}

// ServeHTTP accepts GET and POST identically. Tool outcomes are always 200
// with the envelope in the body; only an encoding failure yields 500.
func (h *ToolsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	route := strings.TrimPrefix(r.URL.Path, h.prefix)

	var body []byte
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			h.writeBodyError(w, err)
			return
		}
		body = b
	}

	out, err := h.dispatcher.Handle(r.Context(), route, body)
	if err != nil {
		h.logger.Error().
			Str("path", r.URL.Path).
			Err(err).
			Msg("failed to encode tool response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	WriteRaw(w, http.StatusOK, out)
}

func (h *ToolsHandler) writeBodyError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	msg := "failed to read request body"
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		status = http.StatusRequestEntityTooLarge
		msg = "request body too large"
	}

	h.logger.Warn().Err(err).Int("status", status).Msg("unreadable request body")

	out, encErr := tools.Encode(tools.Fail(msg))
	if encErr != nil {
		http.Error(w, msg, status)
		return
	}
	WriteRaw(w, status, out)
}
