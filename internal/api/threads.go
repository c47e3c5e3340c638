package api

import (
	"log/slog"
	"net/http"

	"github.com/lexia-ai/sous/internal/memory"
)

// threadHandler serves the conversation-store endpoints.
//
// Endpoints:
//   - GET    /api/v1/threads               - list thread IDs
//   - GET    /api/v1/threads/{id}/messages - conversation history
//   - DELETE /api/v1/threads/{id}          - clear a thread
type threadHandler struct {
	store  *memory.Store
	logger *slog.Logger
}

// threadListResponse is the JSON body for GET /api/v1/threads.
type threadListResponse struct {
	Threads []string `json:"threads"`
	Count   int      `json:"count"`
}

// threadMessagesResponse is the JSON body for GET /api/v1/threads/{id}/messages.
type threadMessagesResponse struct {
	ThreadID string           `json:"thread_id"`
	Messages []memory.Message `json:"messages"`
	Count    int              `json:"count"`
}

func (h *threadHandler) list(w http.ResponseWriter, r *http.Request) {
	threads := h.store.Threads()
	writeJSON(w, http.StatusOK, threadListResponse{
		Threads: threads,
		Count:   len(threads),
	}, h.logger)
}

func (h *threadHandler) messages(w http.ResponseWriter, r *http.Request) {
	threadID := r.PathValue("id")
	if threadID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_THREAD_ID", "thread id is required", h.logger)
		return
	}

	msgs := h.store.History(threadID)
	if msgs == nil {
		msgs = []memory.Message{}
	}
	writeJSON(w, http.StatusOK, threadMessagesResponse{
		ThreadID: threadID,
		Messages: msgs,
		Count:    len(msgs),
	}, h.logger)
}

func (h *threadHandler) clear(w http.ResponseWriter, r *http.Request) {
	threadID := r.PathValue("id")
	if threadID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_THREAD_ID", "thread id is required", h.logger)
		return
	}

	if !h.store.Clear(threadID) {
		writeError(w, http.StatusNotFound, "THREAD_NOT_FOUND", "thread not found", h.logger)
		return
	}

	h.logger.Info("thread cleared", "thread_id", threadID)
	w.WriteHeader(http.StatusNoContent)
}
