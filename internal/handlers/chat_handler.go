// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/krishisevak/go-agronomist/internal/middleware"
	"github.com/krishisevak/go-agronomist/internal/services/chat"
)

type ChatHandler struct {
	ChatService *chat.Service
}

func NewChatHandler(cs *chat.Service) (*ChatHandler, error) {
	if cs == nil {
		return nil, errors.New("chat service is required")
	}
	return &ChatHandler{ChatService: cs}, nil
}

// ListConversations returns the authenticated user's conversations with
// sidebar previews.
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, h.ChatService.ListConversations(r.Context(), username))
}

// CreateConversation starts a new, empty conversation.
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	conv := h.ChatService.CreateConversation(r.Context(), username)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":    conv.ID,
		"title": conv.Title,
	})
}

// GetConversation returns one conversation with its full message list.
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	id, ok := conversationID(w, r)
	if !ok {
		return
	}

	conv, err := h.ChatService.GetConversation(r.Context(), username, id)
	if err != nil {
		writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       conv.ID,
		"title":    conv.Title,
		"messages": conv.Messages,
	})
}

// DeleteConversation removes a conversation permanently.
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	id, ok := conversationID(w, r)
	if !ok {
		return
	}

	if err := h.ChatService.DeleteConversation(r.Context(), username, id); err != nil {
		writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// PostMessage runs one chat turn in the conversation and returns the bot's
// response.
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	id, ok := conversationID(w, r)
	if !ok {
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.ChatService.HandleTurn(r.Context(), username, id, req.Query)
	if err != nil {
		writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": response})
}

// History returns the flattened messages of the most recently created
// conversation. Legacy endpoint kept for compatibility.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, h.ChatService.History(r.Context(), username))
}

// conversationID parses the {id} path variable, replying 400 when invalid.
func conversationID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		writeError(w, "invalid conversation ID", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}

// writeChatError maps the chat service error taxonomy to HTTP statuses.
func writeChatError(w http.ResponseWriter, err error) {
	var chatErr *chat.ChatError
	if errors.As(err, &chatErr) {
		switch chatErr.Type {
		case chat.ErrTypeValidation:
			writeError(w, chatErr.Message, http.StatusBadRequest)
			return
		case chat.ErrTypeNotFound:
			writeError(w, "not found", http.StatusNotFound)
			return
		}
	}
	writeError(w, "internal error", http.StatusInternalServerError)
}
