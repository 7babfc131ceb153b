package handlers

import (
	"net/http"

	"github.com/markdave123-py/artintx/internal/services"
)

type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// SendMessage accepts {content, session_id?, lang?} and returns the companion reply.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req services.SendMessageInput
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := h.chat.SendMessage(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, err, "Failed to process message.")
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	msgs, err := h.chat.History(r.Context(), userID, queryInt(r, "limit"))
	if err != nil {
		handleServiceError(w, r, err, "Server error.")
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *ChatHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	sessions, err := h.chat.Sessions(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err, "Server error.")
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}
