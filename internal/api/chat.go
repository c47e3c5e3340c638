package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lexia-ai/sous/internal/agent"
	"github.com/lexia-ai/sous/internal/extract"
	"github.com/lexia-ai/sous/internal/lexia"
)

// chatHandler serves the streaming agent endpoints.
//
// Endpoints:
//   - POST /api/v1/send_message - chat pipeline (SSE)
//   - POST /api/v1/menu_gallery - menu gallery flow (SSE)
type chatHandler struct {
	agent  *agent.Agent
	logger *slog.Logger
}

// SSE event types for agent streaming.
const (
	EventChunk = "chunk" // Partial response text
	EventDone  = "done"  // Stream completed successfully
	EventError = "error" // Error occurred during streaming
)

// ChunkPayload is the SSE data payload for streaming text chunks.
type ChunkPayload struct {
	Text string `json:"text"`
}

// DonePayload is the SSE data payload when streaming completes successfully.
type DonePayload struct {
	Response     string `json:"response"`
	ThreadID     string `json:"thread_id,omitempty"`
	ResponseUUID string `json:"response_uuid,omitempty"`
}

// ErrorPayload is the SSE data payload when an error occurs.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// sendMessage handles POST /api/v1/send_message.
// It runs the full pipeline and streams progress as SSE events.
func (h *chatHandler) sendMessage(w http.ResponseWriter, r *http.Request) {
	flusher, ok := beginStream(w)
	if !ok {
		return
	}

	var msg lexia.ChatMessage
	r.Body = http.MaxBytesReader(w, r.Body, 1024*1024) // Limit request size to 1MB
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		_ = writeEvent(w, flusher, EventError, ErrorPayload{
			Code:    "INVALID_REQUEST",
			Message: "Invalid request body",
		})
		return
	}

	if msg.Message == "" {
		_ = writeEvent(w, flusher, EventError, ErrorPayload{Code: "MISSING_MESSAGE", Message: "message is required"})
		return
	}
	if msg.ThreadID == "" {
		_ = writeEvent(w, flusher, EventError, ErrorPayload{Code: "MISSING_THREAD_ID", Message: "thread_id is required"})
		return
	}
	if msg.ResponseUUID == "" {
		msg.ResponseUUID = uuid.NewString()
	}

	ctx := r.Context()
	h.logger.Debug("SSE stream started", "thread_id", msg.ThreadID, "response_uuid", msg.ResponseUUID)

	response, err := h.agent.Process(ctx, msg, sseEmitter(w, flusher))
	if err != nil {
		h.handleStreamError(ctx, w, flusher, err)
		return
	}

	_ = writeEvent(w, flusher, EventDone, DonePayload{
		Response:     response,
		ThreadID:     msg.ThreadID,
		ResponseUUID: msg.ResponseUUID,
	})

	h.logger.Info("SSE stream completed", "thread_id", msg.ThreadID)
}

// menuGallery handles POST /api/v1/menu_gallery.
// It parses menu text and streams one food image per menu item.
func (h *chatHandler) menuGallery(w http.ResponseWriter, r *http.Request) {
	flusher, ok := beginStream(w)
	if !ok {
		return
	}

	var req agent.MenuRequest
	r.Body = http.MaxBytesReader(w, r.Body, 1024*1024)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = writeEvent(w, flusher, EventError, ErrorPayload{
			Code:    "INVALID_REQUEST",
			Message: "Invalid request body",
		})
		return
	}

	if req.MenuText == "" {
		_ = writeEvent(w, flusher, EventError, ErrorPayload{Code: "MISSING_MENU_TEXT", Message: "menu_text is required"})
		return
	}

	ctx := r.Context()

	summary, err := h.agent.BuildMenuGallery(ctx, req, sseEmitter(w, flusher))
	if err != nil {
		h.handleStreamError(ctx, w, flusher, err)
		return
	}

	_ = writeEvent(w, flusher, EventDone, DonePayload{Response: summary})
}

// beginStream sets SSE headers and verifies flusher support.
func beginStream(w http.ResponseWriter) (http.Flusher, bool) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return nil, false
	}
	return flusher, true
}

// sseEmitter adapts the SSE writer to the agent's streaming interface.
func sseEmitter(w io.Writer, flusher http.Flusher) agent.EmitterFunc {
	return func(_ context.Context, text string) error {
		return writeEvent(w, flusher, EventChunk, ChunkPayload{Text: text})
	}
}

// handleStreamError maps pipeline errors to SSE error events.
func (h *chatHandler) handleStreamError(ctx context.Context, w io.Writer, f http.Flusher, err error) {
	if ctx.Err() != nil {
		// Client disconnected; nothing left to write.
		h.logger.Info("client disconnected mid-stream")
		return
	}

	code := "STREAM_ERROR"
	switch {
	case errors.Is(err, extract.ErrMissingAPIKey):
		code = "MISSING_API_KEY"
	case errors.Is(err, extract.ErrEmptyResponse):
		code = "MODEL_UNAVAILABLE"
	}

	h.logger.Error("stream failed", "err", err)
	_ = writeEvent(w, f, EventError, ErrorPayload{
		Code:    code,
		Message: err.Error(),
	})
}

// writeEvent writes a single SSE event with JSON-encoded data.
// SSE format: "event: <type>\ndata: <json>\n\n"
func writeEvent[T any](w io.Writer, flusher http.Flusher, event string, data T) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	flusher.Flush()
	return nil
}
