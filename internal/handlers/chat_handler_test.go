// File: internal/handlers/chat_handler_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishisevak/go-agronomist/internal/knowledge"
	"github.com/krishisevak/go-agronomist/internal/middleware"
	"github.com/krishisevak/go-agronomist/internal/repository/conversation"
	"github.com/krishisevak/go-agronomist/internal/services/chat"
	"github.com/krishisevak/go-agronomist/internal/services/session"
)

type noopLogger struct{}

func (n *noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (n *noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *noopLogger) Warn(msg string, keysAndValues ...interface{})  {}

// newTestServer wires the router the way cmd/server does, minus rate
// limiting and request logging.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := conversation.NewMemoryStore()
	chatService, err := chat.NewService(store, knowledge.Default(), &noopLogger{})
	require.NoError(t, err)
	sessionService, err := session.NewService("farmer", "password123", "test-secret", store, &noopLogger{})
	require.NoError(t, err)

	authHandler := NewAuthHandler(sessionService)
	chatHandler, err := NewChatHandler(chatService)
	require.NoError(t, err)

	r := mux.NewRouter()
	r.HandleFunc("/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("GET", "POST")

	protected := r.PathPrefix("/").Subrouter()
	protected.Use(middleware.NewAuthMiddleware(sessionService))
	protected.HandleFunc("/conversations", chatHandler.ListConversations).Methods("GET")
	protected.HandleFunc("/conversations", chatHandler.CreateConversation).Methods("POST")
	protected.HandleFunc("/conversations/{id:[0-9]+}", chatHandler.GetConversation).Methods("GET")
	protected.HandleFunc("/conversations/{id:[0-9]+}", chatHandler.DeleteConversation).Methods("DELETE")
	protected.HandleFunc("/conversations/{id:[0-9]+}/message", chatHandler.PostMessage).Methods("POST")
	protected.HandleFunc("/history", chatHandler.History).Methods("GET")

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// login returns an authenticated cookie for the demo account.
func login(t *testing.T, srv *httptest.Server) *http.Cookie {
	t.Helper()

	form := url.Values{"username": {"farmer"}, "password": {"password123"}}
	resp, err := http.PostForm(srv.URL+"/login", form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "auth_token" {
			return cookie
		}
	}
	t.Fatal("login response carried no auth_token cookie")
	return nil
}

func doRequest(t *testing.T, method, target string, cookie *http.Cookie, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestRequestsWithoutSessionAreUnauthorized(t *testing.T) {
	srv := newTestServer(t)

	for _, target := range []string{"/conversations", "/history"} {
		resp := doRequest(t, http.MethodGet, srv.URL+target, nil, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, target)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	srv := newTestServer(t)

	form := url.Values{"username": {"farmer"}, "password": {"nope"}}
	resp, err := http.PostForm(srv.URL+"/login", form)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginAutoCreatesConversation(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv)

	var list []map[string]interface{}
	resp := doRequest(t, http.MethodGet, srv.URL+"/conversations", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)

	require.Len(t, list, 1)
	assert.Equal(t, "New Chat", list[0]["title"])
	assert.Equal(t, "", list[0]["preview"])
}

func TestConversationLifecycle(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv)

	// Create a second conversation.
	var created map[string]interface{}
	resp := doRequest(t, http.MethodPost, srv.URL+"/conversations", cookie, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeBody(t, resp, &created)
	assert.Equal(t, float64(2), created["id"])
	assert.Equal(t, "New Chat", created["title"])

	// Send a message; the reply comes from the knowledge base.
	var turn map[string]string
	resp = doRequest(t, http.MethodPost, fmt.Sprintf("%s/conversations/2/message", srv.URL), cookie,
		map[string]string{"query": "tell me about potato late blight"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &turn)
	assert.Contains(t, turn["response"], "Potato - Late blight")

	// The conversation now holds the (user, bot) pair and the new title.
	var conv struct {
		ID       uint   `json:"id"`
		Title    string `json:"title"`
		Messages []struct {
			Role string `json:"role"`
			Text string `json:"text"`
		} `json:"messages"`
	}
	resp = doRequest(t, http.MethodGet, srv.URL+"/conversations/2", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &conv)
	assert.Equal(t, "tell me about potato late blight", conv.Title)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "user", conv.Messages[0].Role)
	assert.Equal(t, "bot", conv.Messages[1].Role)

	// Delete it; it stays gone.
	resp = doRequest(t, http.MethodDelete, srv.URL+"/conversations/2", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodGet, srv.URL+"/conversations/2", cookie, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodDelete, srv.URL+"/conversations/2", cookie, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestPostMessageValidation(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv)

	// Blank query is a client error.
	resp := doRequest(t, http.MethodPost, srv.URL+"/conversations/1/message", cookie,
		map[string]string{"query": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Unknown conversation is NotFound.
	resp = doRequest(t, http.MethodPost, srv.URL+"/conversations/99/message", cookie,
		map[string]string{"query": "wheat"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestHistoryReturnsMostRecentlyCreatedConversation(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv)

	// Talk in the auto-created conversation, then create a fresh one.
	resp := doRequest(t, http.MethodPost, srv.URL+"/conversations/1/message", cookie,
		map[string]string{"query": "corn common rust"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, http.MethodPost, srv.URL+"/conversations", cookie, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// History follows creation order, so the empty new conversation wins.
	var history []map[string]interface{}
	resp = doRequest(t, http.MethodGet, srv.URL+"/history", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &history)
	assert.Empty(t, history)
}

func TestTitleTruncationThroughTheAPI(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv)

	long := strings.Repeat("wheat ", 15) // 90 characters
	resp := doRequest(t, http.MethodPost, srv.URL+"/conversations/1/message", cookie,
		map[string]string{"query": long})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var list []map[string]interface{}
	resp = doRequest(t, http.MethodGet, srv.URL+"/conversations", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)

	require.Len(t, list, 1)
	title, _ := list[0]["title"].(string)
	assert.Len(t, title, 60)
	assert.True(t, strings.HasSuffix(title, "..."))
}

func TestMultiByteTitleTruncationThroughTheAPI(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv)

	// 90 characters of 3-byte runes; truncation counts characters, not
	// bytes, so the title is 60 runes of valid UTF-8.
	long := strings.Repeat("क", 90)
	resp := doRequest(t, http.MethodPost, srv.URL+"/conversations/1/message", cookie,
		map[string]string{"query": long})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var list []map[string]interface{}
	resp = doRequest(t, http.MethodGet, srv.URL+"/conversations", cookie, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)

	require.Len(t, list, 1)
	title, _ := list[0]["title"].(string)
	assert.Equal(t, strings.Repeat("क", 57)+"...", title)
	assert.Equal(t, 60, utf8.RuneCountInString(title))
	assert.True(t, utf8.ValidString(title))
}
