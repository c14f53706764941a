// internal/api/handler/api/chat.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"net/http"
	"time"

	"github.com/newthinker/chatrelay/internal/api/response"
	"github.com/newthinker/chatrelay/internal/chat"
	"go.uber.org/zap"
)

// ChatService is the orchestrator behind the chat endpoints.
type ChatService interface {
	Chat(ctx context.Context, message string) (*chat.Response, error)
	ChatStream(ctx context.Context, message string) iter.Seq[chat.StreamEvent]
}

// StreamTracker observes open event streams.
type StreamTracker interface {
	StreamOpened()
	StreamClosed()
}

type nopTracker struct{}

func (nopTracker) StreamOpened() {}
func (nopTracker) StreamClosed() {}

// DefaultMaxBodyBytes bounds request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

// ChatHandler handles chat API requests.
type ChatHandler struct {
	chat         ChatService
	streams      StreamTracker
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewChatHandler creates a new chat handler. streams may be nil.
func NewChatHandler(svc ChatService, streams StreamTracker, maxBodyBytes int64, logger *zap.Logger) *ChatHandler {
	if streams == nil {
		streams = nopTracker{}
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		chat:         svc,
		streams:      streams,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// Chat answers a message with a single JSON response.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	resp, err := h.chat.Chat(r.Context(), req.Message)
	if err != nil {
		response.Error(w, statusFor(err), err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Stream answers a message as server-sent events. Failures after the
// request is accepted are reported in-band as an error event.
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_ = rc.Flush()

	h.streams.StreamOpened()
	defer h.streams.StreamClosed()

	events := newEventWriter(w, rc)
	ctx := r.Context()
	for ev := range h.chat.ChatStream(ctx, req.Message) {
		if err := events.Write(ev); err != nil {
			h.logger.Debug("client went away during stream", zap.Error(err))
			return
		}
		if ctx.Err() != nil {
			h.logger.Debug("stream request canceled", zap.Error(ctx.Err()))
			return
		}
	}
}

func (h *ChatHandler) decode(w http.ResponseWriter, r *http.Request) (chat.Request, bool) {
	var req chat.Request

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Detail(w, http.StatusRequestEntityTooLarge, "request body too large")
			return req, false
		}
		response.Detail(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}

	return req, true
}

func statusFor(err error) int {
	var chatErr *chat.Error
	if !errors.As(err, &chatErr) {
		return http.StatusInternalServerError
	}

	switch chatErr.Kind {
	case chat.KindUnauthorized:
		return http.StatusUnauthorized
	case chat.KindBadConfig:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
