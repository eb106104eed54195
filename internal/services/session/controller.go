// File: internal/services/session/controller.go
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lexisg/go-lexi/internal/domain"
	"github.com/lexisg/go-lexi/internal/services/engine"
)

// Store is the slice of the conversation service the controller needs.
type Store interface {
	AppendMessage(ctx context.Context, userID, conversationID uint, msg *domain.Message) (*domain.Conversation, error)
	GetMessages(ctx context.Context, userID, conversationID uint) ([]domain.Message, error)
}

type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// SubmitResult is a completed question/answer turn.
type SubmitResult struct {
	Conversation     *domain.Conversation
	UserMessage      domain.Message
	AssistantMessage domain.Message
}

// Controller orchestrates one turn: accept input, append the user message,
// ask the engine, append the assistant message with citations. It enforces
// at most one in-flight ask per conversation and discards engine results
// that resolve after their request was superseded.
type Controller struct {
	store  Store
	engine engine.Provider
	logger Logger

	mu       sync.Mutex
	inflight map[uint]uuid.UUID // conversation id -> current request id
	sessions map[uint]*State    // user id -> session state
}

func NewController(store Store, provider engine.Provider, logger Logger) *Controller {
	return &Controller{
		store:    store,
		engine:   provider,
		logger:   logger,
		inflight: make(map[uint]uuid.UUID),
		sessions: make(map[uint]*State),
	}
}

// Submit runs the full Idle -> AwaitingAnswer -> Idle transition for one
// question. On engine failure no assistant message is appended, the draft
// input is preserved, and the session lands in the Error phase until
// acknowledged.
func (c *Controller) Submit(ctx context.Context, userID, conversationID uint, question string) (*SubmitResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	requestID, err := c.claim(userID, conversationID, question)
	if err != nil {
		return nil, err
	}

	// History is captured before the new turn so the engine sees only
	// prior messages as conversation context.
	history, err := c.store.GetMessages(ctx, userID, conversationID)
	if err != nil {
		c.release(userID, conversationID, requestID, err)
		return nil, err
	}

	userMsg := &domain.Message{
		ConversationID: conversationID,
		MessageType:    domain.MessageTypeUser,
		Content:        question,
	}
	conv, err := c.store.AppendMessage(ctx, userID, conversationID, userMsg)
	if err != nil {
		c.release(userID, conversationID, requestID, err)
		return nil, err
	}

	answer, err := c.engine.Ask(ctx, question, history)
	if err != nil {
		c.release(userID, conversationID, requestID, err)
		c.logger.Warn("engine ask failed", "conversation_id", conversationID, "error", err)
		return nil, err
	}

	if !c.settle(userID, conversationID, requestID) {
		c.logger.Info("discarding stale engine result",
			"conversation_id", conversationID, "request_id", requestID)
		c.mu.Lock()
		if state := c.sessionLocked(userID); state.Phase == PhaseAwaitingAnswer {
			state.Phase = PhaseIdle
		}
		c.mu.Unlock()
		return nil, ErrSuperseded
	}

	assistantMsg := &domain.Message{
		ConversationID: conversationID,
		MessageType:    domain.MessageTypeAssistant,
		Content:        answer.Text,
		Citations:      answer.Citations,
	}
	conv, err = c.store.AppendMessage(ctx, userID, conversationID, assistantMsg)
	if err != nil {
		c.failSession(userID, question, err)
		return nil, err
	}

	c.mu.Lock()
	state := c.sessionLocked(userID)
	state.Phase = PhaseIdle
	state.Input = ""
	state.LastError = ""
	c.mu.Unlock()

	return &SubmitResult{
		Conversation:     conv,
		UserMessage:      *userMsg,
		AssistantMessage: *assistantMsg,
	}, nil
}

// SelectConversation makes a conversation active for the user. Any ask
// still in flight for the previously active conversation is discarded so
// a late result cannot land in a conversation the user has left.
func (c *Controller) SelectConversation(userID, conversationID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.sessionLocked(userID)
	if prev := state.ActiveConversationID; prev != 0 && prev != conversationID {
		delete(c.inflight, prev)
	}
	state.ActiveConversationID = conversationID
	if state.Phase == PhaseAwaitingAnswer {
		state.Phase = PhaseIdle
	}
}

// Discard invalidates any in-flight ask for a conversation. A result that
// resolves afterwards is dropped rather than appended.
func (c *Controller) Discard(conversationID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, conversationID)
}

// AcknowledgeError moves an errored session back to Idle. The draft input
// survives so the user can retry without retyping.
func (c *Controller) AcknowledgeError(userID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.sessionLocked(userID)
	if state.Phase == PhaseError {
		state.Phase = PhaseIdle
		state.LastError = ""
	}
}

// SetInput stores the user's draft input.
func (c *Controller) SetInput(userID uint, input string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionLocked(userID).Input = input
}

// Session returns a copy of the user's session state.
func (c *Controller) Session(userID uint) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.sessionLocked(userID)
}

// claim reserves the conversation's in-flight slot and moves the session
// to AwaitingAnswer. A conversation already awaiting an answer rejects the
// claim.
func (c *Controller) claim(userID, conversationID uint, question string) (uuid.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.inflight[conversationID]; busy {
		return uuid.Nil, ErrAskInFlight
	}

	requestID := uuid.New()
	c.inflight[conversationID] = requestID

	state := c.sessionLocked(userID)
	state.ActiveConversationID = conversationID
	state.Input = question
	state.Phase = PhaseAwaitingAnswer
	state.LastError = ""

	return requestID, nil
}

// settle releases the in-flight slot if requestID is still current. A false
// return means the request was superseded and its result must be dropped.
func (c *Controller) settle(userID, conversationID uint, requestID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.inflight[conversationID]
	if !ok || current != requestID {
		return false
	}
	delete(c.inflight, conversationID)
	return true
}

// release frees the in-flight slot after a failed attempt and records the
// error; the draft input stays for a retry.
func (c *Controller) release(userID, conversationID uint, requestID uuid.UUID, cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if current, ok := c.inflight[conversationID]; ok && current == requestID {
		delete(c.inflight, conversationID)
	}

	state := c.sessionLocked(userID)
	state.Phase = PhaseError
	state.LastError = cause.Error()
}

func (c *Controller) failSession(userID uint, input string, cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.sessionLocked(userID)
	state.Phase = PhaseError
	state.Input = input
	state.LastError = cause.Error()
}

func (c *Controller) sessionLocked(userID uint) *State {
	state, ok := c.sessions[userID]
	if !ok {
		state = &State{Phase: PhaseIdle}
		c.sessions[userID] = state
	}
	return state
}
