// File: internal/handlers/conversation_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/lexisg/go-lexi/internal/dtos"
	"github.com/lexisg/go-lexi/internal/middleware"
	"github.com/lexisg/go-lexi/internal/services"
	"github.com/lexisg/go-lexi/internal/services/citation"
	"github.com/lexisg/go-lexi/internal/services/directory"
	"github.com/lexisg/go-lexi/internal/services/engine"
	"github.com/lexisg/go-lexi/internal/services/session"
	"github.com/lexisg/go-lexi/internal/services/store"
)

type ConversationHandler struct {
	Conversations *services.ConversationService
	Directories   *directory.Registry
	Controller    *session.Controller
	Resolver      *citation.Resolver
}

func NewConversationHandler(
	cs *services.ConversationService,
	reg *directory.Registry,
	ctrl *session.Controller,
	resolver *citation.Resolver,
) *ConversationHandler {
	return &ConversationHandler{
		Conversations: cs,
		Directories:   reg,
		Controller:    ctrl,
		Resolver:      resolver,
	}
}

// ListConversations refreshes the user's directory and returns the cached
// summaries, most recently updated first.
func (h *ConversationHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	dir := h.Directories.ForUser(userID)
	if err := dir.Refresh(r.Context()); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromSummarySlice(dir.List()))
}

// CreateConversation opens a new conversation with the placeholder title.
func (h *ConversationHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conv, err := h.Conversations.CreateConversation(r.Context(), userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	dir := h.Directories.ForUser(userID)
	if err := dir.Refresh(r.Context()); err == nil {
		dir.Select(conv.ID)
	}
	h.Controller.SelectConversation(userID, conv.ID)

	writeJSON(w, http.StatusCreated, dtos.FromConversation(conv))
}

// GetMessages returns the full ordered transcript of a conversation.
func (h *ConversationHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversationID, ok := pathID(w, r)
	if !ok {
		return
	}

	messages, err := h.Conversations.GetMessages(r.Context(), userID, conversationID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromMessageSlice(messages))
}

// Ask submits a question to a conversation and returns the completed turn.
func (h *ConversationHandler) Ask(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversationID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dtos.AskRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.Controller.Submit(r.Context(), userID, conversationID, req.Question)
	if err != nil {
		writeSubmitError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.AskResponseDTO{
		Conversation: dtos.FromConversation(result.Conversation),
		UserMessage:  dtos.FromMessage(result.UserMessage),
		Answer:       dtos.FromMessage(result.AssistantMessage),
	})
}

// RenameConversation sets a user-chosen title. The new title sticks: later
// messages never overwrite it.
func (h *ConversationHandler) RenameConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversationID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req dtos.RenameRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Conversations.RenameConversation(r.Context(), userID, conversationID, req.Title); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "renamed"})
}

// DeleteConversation removes a conversation and everything in it.
func (h *ConversationHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversationID, ok := pathID(w, r)
	if !ok {
		return
	}

	// Any in-flight ask for the conversation is dropped first so a late
	// engine result cannot write into a deleted conversation.
	h.Controller.Discard(conversationID)

	dir := h.Directories.ForUser(userID)
	if err := dir.Remove(r.Context(), conversationID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ResolveCitation validates a citation link and returns its navigation
// target. Malformed links come back as 422, never as a crash.
func (h *ConversationHandler) ResolveCitation(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.ResolveCitationRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	target, err := h.Resolver.ResolveLink(req.Link, req.Paragraph)
	if err != nil {
		var resolveErr *citation.ResolveError
		if errors.As(err, &resolveErr) {
			writeError(w, resolveErr.Message, http.StatusUnprocessableEntity)
			return
		}
		writeError(w, "Could not resolve citation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, target)
}

// pathID parses the {id} path variable, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil || id == 0 {
		writeError(w, "Invalid conversation ID", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}

// writeStoreError maps store error types onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case store.IsType(err, store.ErrTypeNotFound):
		writeError(w, "Conversation not found", http.StatusNotFound)
	case store.IsType(err, store.ErrTypeInvalidInput):
		writeError(w, err.Error(), http.StatusBadRequest)
	case store.IsType(err, store.ErrTypeConsistency):
		writeError(w, "Delete could not complete cleanly; retry is safe", http.StatusConflict)
	case store.IsType(err, store.ErrTypeStorageUnavailable):
		writeError(w, "Storage is temporarily unavailable", http.StatusServiceUnavailable)
	default:
		writeError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeSubmitError maps controller and engine failures onto HTTP statuses.
func writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrEmptyQuestion):
		writeError(w, "Question cannot be empty", http.StatusBadRequest)
	case errors.Is(err, session.ErrAskInFlight):
		writeError(w, "A question is already being answered for this conversation", http.StatusConflict)
	case errors.Is(err, session.ErrSuperseded):
		writeError(w, "This request was superseded and its answer discarded", http.StatusConflict)
	default:
		var engineErr *engine.EngineError
		if errors.As(err, &engineErr) {
			switch engineErr.Type {
			case engine.ErrTypeTimeout:
				writeError(w, "The answer engine timed out", http.StatusGatewayTimeout)
			case engine.ErrTypeValidation:
				writeError(w, engineErr.Message, http.StatusBadRequest)
			default:
				writeError(w, "The answer engine is unavailable", http.StatusServiceUnavailable)
			}
			return
		}
		writeStoreError(w, err)
	}
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, dtos.ErrorResponse{Error: message})
}
