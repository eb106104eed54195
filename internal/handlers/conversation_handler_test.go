// File: internal/handlers/conversation_handler_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lexisg/go-lexi/internal/auth"
	"github.com/lexisg/go-lexi/internal/domain"
	"github.com/lexisg/go-lexi/internal/dtos"
	"github.com/lexisg/go-lexi/internal/middleware"
	conversationrepo "github.com/lexisg/go-lexi/internal/repository/conversation"
	messagerepo "github.com/lexisg/go-lexi/internal/repository/message"
	"github.com/lexisg/go-lexi/internal/services"
	"github.com/lexisg/go-lexi/internal/services/citation"
	"github.com/lexisg/go-lexi/internal/services/directory"
	"github.com/lexisg/go-lexi/internal/services/engine"
	"github.com/lexisg/go-lexi/internal/services/session"
)

var testSecret = []byte("test-secret")

type testServer struct {
	router *mux.Router
	stub   *engine.StubProvider
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Conversation{}, &domain.Message{}, &domain.Citation{}))

	logger := &services.NoOpLogger{}
	convService, err := services.NewConversationService(
		conversationrepo.NewConversationRepository(db),
		messagerepo.NewMessageRepository(db),
		logger,
	)
	require.NoError(t, err)

	stub := engine.NewStubProvider()
	stub.Answer = engine.Answer{
		Text: "The limitation period is twelve years.",
		Citations: []domain.Citation{{
			Text:      "as observed in paragraph 7",
			Source:    "Dani_Devi_v_Pritam_Singh.pdf",
			Link:      "https://documents.example/Dani_Devi_v_Pritam_Singh.pdf",
			Paragraph: "Para 7",
		}},
	}

	handler := NewConversationHandler(
		convService,
		directory.NewRegistry(convService, logger),
		session.NewController(convService, stub, logger),
		citation.NewResolver(logger),
	)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.NewJWTMiddleware(testSecret))
	api.HandleFunc("/conversations", handler.ListConversations).Methods("GET")
	api.HandleFunc("/conversations", handler.CreateConversation).Methods("POST")
	api.HandleFunc("/conversations/{id:[0-9]+}/messages", handler.GetMessages).Methods("GET")
	api.HandleFunc("/conversations/{id:[0-9]+}/messages", handler.Ask).Methods("POST")
	api.HandleFunc("/conversations/{id:[0-9]+}", handler.RenameConversation).Methods("PATCH")
	api.HandleFunc("/conversations/{id:[0-9]+}", handler.DeleteConversation).Methods("DELETE")
	api.HandleFunc("/citations/resolve", handler.ResolveCitation).Methods("POST")

	token, err := auth.GenerateJWT(1, testSecret)
	require.NoError(t, err)

	return &testServer{router: r, stub: stub, token: token}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) createConversation(t *testing.T) uint {
	t.Helper()
	rec := s.do(t, "POST", "/api/conversations", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var conv dtos.ConversationResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))
	return conv.ID
}

func TestConversationLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// Empty directory is a valid state.
	rec := srv.do(t, "GET", "/api/conversations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())

	convID := srv.createConversation(t)

	// Ask a question; the stub answers with one citation.
	rec = srv.do(t, "POST", fmt.Sprintf("/api/conversations/%d/messages", convID),
		dtos.AskRequestDTO{Question: "What is the limitation period?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var turn dtos.AskResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turn))
	require.Equal(t, "What is the limitation period?", turn.UserMessage.Content)
	require.Len(t, turn.Answer.Citations, 1)
	require.Equal(t, "What is the limitation period?", turn.Conversation.Title)

	// Transcript holds both turns in order.
	rec = srv.do(t, "GET", fmt.Sprintf("/api/conversations/%d/messages", convID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var messages []dtos.MessageResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 2)
	require.Equal(t, "user", messages[0].Role)
	require.Equal(t, "assistant", messages[1].Role)
	require.NotEmpty(t, messages[1].ContentHTML)

	// Rename sticks.
	rec = srv.do(t, "PATCH", fmt.Sprintf("/api/conversations/%d", convID),
		dtos.RenameRequestDTO{Title: "Limitation research"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, "GET", "/api/conversations", nil)
	var summaries []dtos.ConversationSummaryDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	require.Equal(t, "Limitation research", summaries[0].Title)

	// Delete cascades; repeating it reports not found.
	rec = srv.do(t, "DELETE", fmt.Sprintf("/api/conversations/%d", convID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, "DELETE", fmt.Sprintf("/api/conversations/%d", convID), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, "GET", "/api/conversations", nil)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestAsk_EmptyQuestionIs400(t *testing.T) {
	srv := newTestServer(t)
	convID := srv.createConversation(t)

	rec := srv.do(t, "POST", fmt.Sprintf("/api/conversations/%d/messages", convID),
		dtos.AskRequestDTO{Question: "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAsk_UnknownConversationIs404(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, "POST", "/api/conversations/999/messages",
		dtos.AskRequestDTO{Question: "hello"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAsk_EngineTimeoutIs504AndDropsNoAnswer(t *testing.T) {
	srv := newTestServer(t)
	convID := srv.createConversation(t)

	srv.stub.Err = engine.NewTimeoutError("ask", fmt.Errorf("deadline exceeded"))
	rec := srv.do(t, "POST", fmt.Sprintf("/api/conversations/%d/messages", convID),
		dtos.AskRequestDTO{Question: "slow question"})
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)

	// Only the user message was appended.
	rec = srv.do(t, "GET", fmt.Sprintf("/api/conversations/%d/messages", convID), nil)
	var messages []dtos.MessageResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 1)
	require.Equal(t, "user", messages[0].Role)
}

func TestAsk_EngineUnavailableIs503(t *testing.T) {
	srv := newTestServer(t)
	convID := srv.createConversation(t)

	srv.stub.Err = engine.NewUnavailableError("ask", "engine down", fmt.Errorf("dial refused"))
	rec := srv.do(t, "POST", fmt.Sprintf("/api/conversations/%d/messages", convID),
		dtos.AskRequestDTO{Question: "question"})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestResolveCitation(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, "POST", "/api/citations/resolve", dtos.ResolveCitationRequestDTO{
		Link:      "https://documents.example/judgment.pdf",
		Paragraph: "Para 7",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var target citation.Target
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &target))
	require.Equal(t, "para-7", target.Fragment)

	rec = srv.do(t, "POST", "/api/citations/resolve", dtos.ResolveCitationRequestDTO{
		Link: "not-a-url",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/conversations", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
