package services

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"personachat-backend/internal/backend"
	"personachat-backend/internal/models"
	"personachat-backend/internal/workspace"
)

// OperationKind names one of the three remote exchange operations. The busy
// guard is tracked per workspace per kind: a pending direct chat does not
// block an analysis run, and neither blocks local edits.
type OperationKind string

const (
	OpDirectChat OperationKind = "direct_chat"
	OpAutoChat   OperationKind = "auto_chat"
	OpAnalyze    OperationKind = "analyze"
)

type inflightKey struct {
	workspaceID uuid.UUID
	kind        OperationKind
}

// ExchangeService is the remote exchange coordinator. Each operation runs the
// same state machine: Idle -> Pending -> (Success | Failure) -> Idle. Entering
// Pending raises an observable busy signal; clearing it is deferred, so every
// exit path (success, backend error, transport failure, panic) lowers it.
type ExchangeService struct {
	workspaces *WorkspaceService
	backend    backend.Client

	mu       sync.Mutex
	inFlight map[inflightKey]bool
}

// NewExchangeService creates a new ExchangeService.
func NewExchangeService(workspaces *WorkspaceService, client backend.Client) *ExchangeService {
	return &ExchangeService{
		workspaces: workspaces,
		backend:    client,
		inFlight:   make(map[inflightKey]bool),
	}
}

// begin transitions an operation to Pending, rejecting a second trigger of
// the same kind for the same workspace.
func (s *ExchangeService) begin(id uuid.UUID, kind OperationKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := inflightKey{workspaceID: id, kind: kind}
	if s.inFlight[key] {
		return ErrExchangeBusy
	}
	s.inFlight[key] = true
	return nil
}

// end returns an operation to Idle.
func (s *ExchangeService) end(id uuid.UUID, kind OperationKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, inflightKey{workspaceID: id, kind: kind})
}

func (s *ExchangeService) pending(id uuid.UUID, kind OperationKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[inflightKey{workspaceID: id, kind: kind}]
}

// Status reports the busy signal per operation kind plus the last analysis
// result for the workspace.
func (s *ExchangeService) Status(id uuid.UUID) (models.ExchangeStatusResponse, error) {
	w, err := s.workspaces.Get(id)
	if err != nil {
		return models.ExchangeStatusResponse{}, err
	}
	return models.ExchangeStatusResponse{
		DirectChatPending: s.pending(id, OpDirectChat),
		AutoChatPending:   s.pending(id, OpAutoChat),
		AnalyzePending:    s.pending(id, OpAnalyze),
		AnalysisResult:    w.AnalysisResult(),
	}, nil
}

// transcriptPolicy selects the priming transcript slice for chat operations:
// the whole log, or only the trailing N messages when requested.
func transcriptPolicy(includeLast int) workspace.Policy {
	if includeLast > 0 {
		return workspace.TrailingPolicy(includeLast)
	}
	return workspace.AllPolicy()
}

// DirectChat runs one direct persona-to-persona turn. The sender's message is
// appended to the log before the request goes out and stays there regardless
// of outcome; the receiver's reply is appended only on success.
func (s *ExchangeService) DirectChat(ctx context.Context, id uuid.UUID, req models.DirectChatRequest) (workspace.MessageView, error) {
	w, err := s.workspaces.Get(id)
	if err != nil {
		return workspace.MessageView{}, err
	}

	// All validation happens before Pending: a rejected trigger never raises
	// the busy signal and never mutates the log.
	sender := strings.TrimSpace(req.Sender)
	if sender == "" {
		return workspace.MessageView{}, NewValidationError("sender persona is required")
	}
	receiver := strings.TrimSpace(req.Receiver)
	if receiver == "" || receiver == workspace.FilterAll {
		return workspace.MessageView{}, NewValidationError("a specific receiver persona is required")
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return workspace.MessageView{}, NewValidationError("message must not be empty")
	}

	senderPersona, err := w.Persona(sender)
	if err != nil {
		return workspace.MessageView{}, NewValidationError("sender persona %q not found", sender)
	}
	receiverPersona, err := w.Persona(receiver)
	if err != nil {
		return workspace.MessageView{}, NewValidationError("receiver persona %q not found", receiver)
	}

	if err := s.begin(id, OpDirectChat); err != nil {
		return workspace.MessageView{}, err
	}
	defer s.end(id, OpDirectChat)

	w.AppendMessage(sender, message, true)

	resp, err := s.backend.DirectChat(ctx, backend.DirectChatRequest{
		Sender:       backend.PersonaRef{Name: senderPersona.Name, SystemPrompt: senderPersona.Prompt},
		Receiver:     backend.PersonaRef{Name: receiverPersona.Name, SystemPrompt: receiverPersona.Prompt},
		Message:      message,
		Context:      w.EffectiveContext(),
		Conversation: w.Extract(transcriptPolicy(req.IncludeLast)),
	})
	if err != nil {
		log.Warn().Err(err).Str("workspace_id", id.String()).Msg("direct chat failed")
		return workspace.MessageView{}, err
	}
	if strings.TrimSpace(resp.Message) == "" {
		return workspace.MessageView{}, ErrNoReply
	}

	reply := w.AppendMessage(receiver, resp.Message, true)
	return reply, nil
}

// AutoChat runs a multi-turn auto-sequence over the full registry. Exchanges
// come back ordered; each is appended in order, skipping blank messages.
func (s *ExchangeService) AutoChat(ctx context.Context, id uuid.UUID, req models.AutoChatRequest) ([]workspace.MessageView, error) {
	w, err := s.workspaces.Get(id)
	if err != nil {
		return nil, err
	}

	personas := w.Personas()
	if len(personas) < 2 {
		return nil, NewValidationError("auto chat requires at least 2 personas")
	}
	contextValue := w.EffectiveContext()
	if contextValue == "" {
		return nil, NewValidationError("a committed context is required")
	}
	if req.Turns < 1 {
		return nil, NewValidationError("turns must be a positive integer")
	}

	if err := s.begin(id, OpAutoChat); err != nil {
		return nil, err
	}
	defer s.end(id, OpAutoChat)

	refs := make([]backend.PersonaRef, 0, len(personas))
	for _, p := range personas {
		refs = append(refs, backend.PersonaRef{Name: p.Name, SystemPrompt: p.Prompt})
	}

	resp, err := s.backend.AutoChat(ctx, backend.AutoChatRequest{
		Personas:     refs,
		Context:      contextValue,
		Conversation: w.Extract(transcriptPolicy(req.IncludeLast)),
		Turns:        req.Turns,
		Random:       req.Random,
	})
	if err != nil {
		log.Warn().Err(err).Str("workspace_id", id.String()).Msg("auto chat failed")
		return nil, err
	}

	appended := make([]workspace.MessageView, 0, len(resp.Exchanges))
	for _, ex := range resp.Exchanges {
		if strings.TrimSpace(ex.Message) == "" {
			continue
		}
		appended = append(appended, w.AppendMessage(ex.Persona, ex.Message, true))
	}

	log.Info().Str("workspace_id", id.String()).
		Int("exchanges", len(resp.Exchanges)).
		Int("appended", len(appended)).
		Msg("auto chat completed")
	return appended, nil
}

// Analyze runs a transcript analysis. With chat inclusion off, both the
// transcript and the context field go out empty no matter what is committed.
// The result overwrites the workspace's previous analysis.
func (s *ExchangeService) Analyze(ctx context.Context, id uuid.UUID, req models.AnalyzeRequest) (string, error) {
	w, err := s.workspaces.Get(id)
	if err != nil {
		return "", err
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", NewValidationError("analysis prompt is required")
	}

	transcript := ""
	contextValue := ""
	if req.IncludeChat {
		if req.Start < 1 || req.End < 1 {
			return "", NewValidationError("range bounds must be integers >= 1")
		}
		if req.Start > req.End {
			return "", NewValidationError("range start must be <= end")
		}
		transcript = w.Extract(workspace.RangePolicy(req.Start, req.End, req.PersonaFilter))
		contextValue = w.EffectiveContext()
	}

	if err := s.begin(id, OpAnalyze); err != nil {
		return "", err
	}
	defer s.end(id, OpAnalyze)

	resp, err := s.backend.Analyze(ctx, backend.AnalyzeRequest{
		AnalysisPrompt: prompt,
		Conversation:   transcript,
		Context:        contextValue,
	})
	if err != nil {
		log.Warn().Err(err).Str("workspace_id", id.String()).Msg("analysis failed")
		return "", err
	}

	w.SetAnalysisResult(resp.Analysis)
	return resp.Analysis, nil
}
