package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personachat-backend/internal/backend"
	"personachat-backend/internal/config"
	"personachat-backend/internal/models"
	"personachat-backend/internal/workspace"
)

// stubBackend records outbound requests and serves canned responses. A
// non-nil block channel makes calls wait, which the busy-signal tests use.
type stubBackend struct {
	mu    sync.Mutex
	calls int

	directReq  *backend.DirectChatRequest
	directResp *backend.DirectChatResponse
	directErr  error

	autoReq  *backend.AutoChatRequest
	autoResp *backend.AutoChatResponse
	autoErr  error

	analyzeReq  *backend.AnalyzeRequest
	analyzeResp *backend.AnalyzeResponse
	analyzeErr  error

	block chan struct{}
}

var _ backend.Client = (*stubBackend)(nil)

func (s *stubBackend) wait() {
	if s.block != nil {
		<-s.block
	}
}

func (s *stubBackend) record() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *stubBackend) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubBackend) DirectChat(_ context.Context, req backend.DirectChatRequest) (*backend.DirectChatResponse, error) {
	s.record()
	s.mu.Lock()
	s.directReq = &req
	s.mu.Unlock()
	s.wait()
	if s.directErr != nil {
		return nil, s.directErr
	}
	return s.directResp, nil
}

func (s *stubBackend) AutoChat(_ context.Context, req backend.AutoChatRequest) (*backend.AutoChatResponse, error) {
	s.record()
	s.mu.Lock()
	s.autoReq = &req
	s.mu.Unlock()
	s.wait()
	if s.autoErr != nil {
		return nil, s.autoErr
	}
	return s.autoResp, nil
}

func (s *stubBackend) Analyze(_ context.Context, req backend.AnalyzeRequest) (*backend.AnalyzeResponse, error) {
	s.record()
	s.mu.Lock()
	s.analyzeReq = &req
	s.mu.Unlock()
	s.wait()
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	return s.analyzeResp, nil
}

func (s *stubBackend) FetchConfig(_ context.Context) (*backend.ConfigResponse, error) {
	return nil, errors.New("not implemented")
}

type exchangeFixture struct {
	exchanges  *ExchangeService
	workspaces *WorkspaceService
	stub       *stubBackend
	ws         *workspace.Workspace
}

func newExchangeFixture(t *testing.T) *exchangeFixture {
	t.Helper()

	workspaces := NewWorkspaceService(&memStore{}, config.BuiltinSeed())
	w, err := workspaces.Create("test", false)
	require.NoError(t, err)

	_, err = w.AddPersona("Sherlock", "detective", 0, nil)
	require.NoError(t, err)
	_, err = w.AddPersona("Watson", "doctor", 0, nil)
	require.NoError(t, err)

	stub := &stubBackend{}
	return &exchangeFixture{
		exchanges:  NewExchangeService(workspaces, stub),
		workspaces: workspaces,
		stub:       stub,
		ws:         w,
	}
}

func TestDirectChatAppendsBothSides(t *testing.T) {
	f := newExchangeFixture(t)
	f.ws.SetDraftContext("a quiet evening")
	require.NoError(t, f.ws.CommitContext())
	f.stub.directResp = &backend.DirectChatResponse{Message: "Sherlock: elementary, my dear Watson"}

	reply, err := f.exchanges.DirectChat(context.Background(), f.ws.ID, models.DirectChatRequest{
		Sender:   "Watson",
		Receiver: "Sherlock",
		Message:  "what do you make of it?",
	})
	require.NoError(t, err)

	// Echoed speaker label stripped on append.
	assert.Equal(t, "elementary, my dear Watson", reply.Content)

	msgs := f.ws.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Watson", msgs[0].PersonaName)
	assert.Equal(t, "Sherlock", msgs[1].PersonaName)

	// The outbound transcript includes the sender's just-appended message.
	require.NotNil(t, f.stub.directReq)
	assert.Equal(t, "Watson: what do you make of it?", f.stub.directReq.Conversation)
	assert.Equal(t, "a quiet evening", f.stub.directReq.Context)
	assert.Equal(t, "detective", f.stub.directReq.Receiver.SystemPrompt)
}

func TestDirectChatValidationBeforeRequest(t *testing.T) {
	f := newExchangeFixture(t)

	cases := []models.DirectChatRequest{
		{Sender: "", Receiver: "Sherlock", Message: "hi"},
		{Sender: "Watson", Receiver: workspace.FilterAll, Message: "hi"},
		{Sender: "Watson", Receiver: "Sherlock", Message: "   "},
		{Sender: "Nobody", Receiver: "Sherlock", Message: "hi"},
		{Sender: "Watson", Receiver: "Nobody", Message: "hi"},
	}
	for _, req := range cases {
		_, err := f.exchanges.DirectChat(context.Background(), f.ws.ID, req)
		assert.True(t, IsValidationError(err), "request %+v should fail validation, got %v", req, err)
	}

	assert.Equal(t, 0, f.stub.callCount(), "validation failures must not reach the backend")
	assert.Empty(t, f.ws.Messages(), "validation failures must not mutate the log")
}

func TestDirectChatNoReply(t *testing.T) {
	f := newExchangeFixture(t)
	f.stub.directResp = &backend.DirectChatResponse{Message: "   "}

	_, err := f.exchanges.DirectChat(context.Background(), f.ws.ID, models.DirectChatRequest{
		Sender:   "Watson",
		Receiver: "Sherlock",
		Message:  "anyone there?",
	})
	require.ErrorIs(t, err, ErrNoReply)

	// The sender's message stays; no reply is appended.
	msgs := f.ws.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Watson", msgs[0].PersonaName)
}

func TestDirectChatBackendErrorSurfacedVerbatim(t *testing.T) {
	f := newExchangeFixture(t)
	f.stub.directErr = &backend.Error{Message: "model unavailable"}

	_, err := f.exchanges.DirectChat(context.Background(), f.ws.ID, models.DirectChatRequest{
		Sender:   "Watson",
		Receiver: "Sherlock",
		Message:  "hello",
	})
	require.Error(t, err)
	assert.True(t, backend.IsBackendError(err))
	assert.Equal(t, "model unavailable", err.Error())
	require.Len(t, f.ws.Messages(), 1)
}

func TestDirectChatTrailingTranscript(t *testing.T) {
	f := newExchangeFixture(t)
	f.stub.directResp = &backend.DirectChatResponse{Message: "noted"}

	f.ws.AppendMessage("Watson", "old one", true)
	f.ws.AppendMessage("Sherlock", "old two", true)

	_, err := f.exchanges.DirectChat(context.Background(), f.ws.ID, models.DirectChatRequest{
		Sender:      "Watson",
		Receiver:    "Sherlock",
		Message:     "new message",
		IncludeLast: 2,
	})
	require.NoError(t, err)

	require.NotNil(t, f.stub.directReq)
	assert.Equal(t, "Sherlock: old two\nWatson: new message", f.stub.directReq.Conversation)
}

func TestAutoChatRequiresTwoPersonas(t *testing.T) {
	workspaces := NewWorkspaceService(&memStore{}, config.BuiltinSeed())
	w, err := workspaces.Create("solo", false)
	require.NoError(t, err)
	_, err = w.AddPersona("Loner", "", 0, nil)
	require.NoError(t, err)
	w.SetDraftContext("ctx")
	require.NoError(t, w.CommitContext())

	stub := &stubBackend{}
	exchanges := NewExchangeService(workspaces, stub)

	_, err = exchanges.AutoChat(context.Background(), w.ID, models.AutoChatRequest{Turns: 1})
	assert.True(t, IsValidationError(err))
	assert.Equal(t, 0, stub.callCount())
	assert.Empty(t, w.Messages())
}

func TestAutoChatValidation(t *testing.T) {
	f := newExchangeFixture(t)

	// No committed context and empty draft.
	_, err := f.exchanges.AutoChat(context.Background(), f.ws.ID, models.AutoChatRequest{Turns: 1})
	assert.True(t, IsValidationError(err))

	f.ws.SetDraftContext("ctx")
	require.NoError(t, f.ws.CommitContext())

	_, err = f.exchanges.AutoChat(context.Background(), f.ws.ID, models.AutoChatRequest{Turns: 0})
	assert.True(t, IsValidationError(err))
	assert.Equal(t, 0, f.stub.callCount())
}

func TestAutoChatAppendsExchangesSkippingBlanks(t *testing.T) {
	f := newExchangeFixture(t)
	f.ws.SetDraftContext("the stakeout")
	require.NoError(t, f.ws.CommitContext())

	f.stub.autoResp = &backend.AutoChatResponse{Exchanges: []backend.Exchange{
		{Persona: "Sherlock", Message: "observe the window"},
		{Persona: "Watson", Message: "   "},
		{Persona: "Watson", Message: "I see it"},
	}}

	appended, err := f.exchanges.AutoChat(context.Background(), f.ws.ID, models.AutoChatRequest{
		Turns:  2,
		Random: true,
	})
	require.NoError(t, err)
	require.Len(t, appended, 2)

	msgs := f.ws.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Sherlock", msgs[0].PersonaName)
	assert.Equal(t, "I see it", msgs[1].Content)

	require.NotNil(t, f.stub.autoReq)
	assert.Equal(t, 2, f.stub.autoReq.Turns)
	assert.True(t, f.stub.autoReq.Random)
	require.Len(t, f.stub.autoReq.Personas, 2)
	assert.Equal(t, "detective", f.stub.autoReq.Personas[0].SystemPrompt)
}

func TestAutoChatBackendErrorAppendsNothing(t *testing.T) {
	f := newExchangeFixture(t)
	f.ws.SetDraftContext("ctx")
	require.NoError(t, f.ws.CommitContext())
	f.stub.autoErr = &backend.Error{Message: "sequence aborted"}

	_, err := f.exchanges.AutoChat(context.Background(), f.ws.ID, models.AutoChatRequest{Turns: 1})
	require.Error(t, err)
	assert.Equal(t, "sequence aborted", err.Error())
	assert.Empty(t, f.ws.Messages())
}

func TestAnalyzeIncludeChatOffSendsNothing(t *testing.T) {
	f := newExchangeFixture(t)
	f.ws.SetDraftContext("confidential context")
	require.NoError(t, f.ws.CommitContext())
	f.ws.AppendMessage("Watson", "a message", true)
	f.stub.analyzeResp = &backend.AnalyzeResponse{Analysis: "sparse"}

	result, err := f.exchanges.Analyze(context.Background(), f.ws.ID, models.AnalyzeRequest{
		Prompt:      "what is the mood?",
		IncludeChat: false,
	})
	require.NoError(t, err)
	assert.Equal(t, "sparse", result)

	require.NotNil(t, f.stub.analyzeReq)
	assert.Equal(t, "", f.stub.analyzeReq.Conversation)
	assert.Equal(t, "", f.stub.analyzeReq.Context)
	assert.Equal(t, "sparse", f.ws.AnalysisResult())
}

func TestAnalyzeRangeAndFilter(t *testing.T) {
	f := newExchangeFixture(t)
	f.ws.SetDraftContext("ctx")
	require.NoError(t, f.ws.CommitContext())
	f.ws.AppendMessage("Watson", "w1", true)
	f.ws.AppendMessage("Sherlock", "s1", true)
	f.ws.AppendMessage("Watson", "w2", true)
	f.stub.analyzeResp = &backend.AnalyzeResponse{Analysis: "ok"}

	_, err := f.exchanges.Analyze(context.Background(), f.ws.ID, models.AnalyzeRequest{
		Prompt:        "summarize",
		IncludeChat:   true,
		Start:         1,
		End:           3,
		PersonaFilter: "Watson",
	})
	require.NoError(t, err)

	require.NotNil(t, f.stub.analyzeReq)
	assert.Equal(t, "Watson: w1\nWatson: w2", f.stub.analyzeReq.Conversation)
	assert.Equal(t, "ctx", f.stub.analyzeReq.Context)
}

func TestAnalyzeRangeValidation(t *testing.T) {
	f := newExchangeFixture(t)

	cases := []models.AnalyzeRequest{
		{Prompt: "", IncludeChat: false},
		{Prompt: "p", IncludeChat: true, Start: 0, End: 2},
		{Prompt: "p", IncludeChat: true, Start: 1, End: 0},
		{Prompt: "p", IncludeChat: true, Start: 3, End: 2},
	}
	for _, req := range cases {
		_, err := f.exchanges.Analyze(context.Background(), f.ws.ID, req)
		assert.True(t, IsValidationError(err), "request %+v should fail validation, got %v", req, err)
	}
	assert.Equal(t, 0, f.stub.callCount())
}

func TestAnalyzeResultOverwritesPrevious(t *testing.T) {
	f := newExchangeFixture(t)
	f.ws.SetAnalysisResult("stale result")
	f.stub.analyzeResp = &backend.AnalyzeResponse{Analysis: "fresh result"}

	_, err := f.exchanges.Analyze(context.Background(), f.ws.ID, models.AnalyzeRequest{Prompt: "go"})
	require.NoError(t, err)
	assert.Equal(t, "fresh result", f.ws.AnalysisResult())
}

func TestSecondDirectChatRejectedWhilePending(t *testing.T) {
	f := newExchangeFixture(t)
	f.stub.block = make(chan struct{})
	f.stub.directResp = &backend.DirectChatResponse{Message: "done"}

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.exchanges.DirectChat(context.Background(), f.ws.ID, models.DirectChatRequest{
			Sender: "Watson", Receiver: "Sherlock", Message: "first",
		})
		firstDone <- err
	}()

	// Wait for the first call to reach the backend and hold there.
	require.Eventually(t, func() bool {
		return f.stub.callCount() == 1
	}, time.Second, 5*time.Millisecond)

	status, err := f.exchanges.Status(f.ws.ID)
	require.NoError(t, err)
	assert.True(t, status.DirectChatPending)

	_, err = f.exchanges.DirectChat(context.Background(), f.ws.ID, models.DirectChatRequest{
		Sender: "Watson", Receiver: "Sherlock", Message: "second",
	})
	require.ErrorIs(t, err, ErrExchangeBusy)

	// A different kind is not blocked by a pending direct chat.
	status, err = f.exchanges.Status(f.ws.ID)
	require.NoError(t, err)
	assert.False(t, status.AnalyzePending)

	close(f.stub.block)
	require.NoError(t, <-firstDone)

	status, err = f.exchanges.Status(f.ws.ID)
	require.NoError(t, err)
	assert.False(t, status.DirectChatPending, "busy signal must clear after completion")
}

func TestBusySignalClearsOnFailure(t *testing.T) {
	f := newExchangeFixture(t)
	f.stub.directErr = errors.New("connection refused")

	_, err := f.exchanges.DirectChat(context.Background(), f.ws.ID, models.DirectChatRequest{
		Sender: "Watson", Receiver: "Sherlock", Message: "hello",
	})
	require.Error(t, err)

	status, err := f.exchanges.Status(f.ws.ID)
	require.NoError(t, err)
	assert.False(t, status.DirectChatPending, "busy signal must clear unconditionally")
}

func TestExchangeUnknownWorkspace(t *testing.T) {
	f := newExchangeFixture(t)

	_, err := f.exchanges.DirectChat(context.Background(), uuid.New(), models.DirectChatRequest{})
	require.ErrorIs(t, err, ErrWorkspaceNotFound)
}
