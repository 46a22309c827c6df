package models

import (
	"time"

	"github.com/google/uuid"

	"personachat-backend/internal/workspace"
)

// --- Request Structs ---

// CreateWorkspaceRequest defines the body for creating a workspace.
type CreateWorkspaceRequest struct {
	Name string `json:"name"`
	// Seeded controls whether the new workspace starts with the sample
	// personas and default context from the active seed.
	Seeded bool `json:"seeded"`
}

// CreatePersonaRequest defines the body for registering a persona.
type CreatePersonaRequest struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
	// ColorSlot 0 requests round-robin assignment.
	ColorSlot int    `json:"color_slot"`
	Avatar    []byte `json:"avatar,omitempty"`
}

// UpdatePromptRequest defines the body for replacing a persona's prompt.
type UpdatePromptRequest struct {
	Prompt string `json:"prompt"`
}

// AppendMessageRequest defines the body for appending a log message.
type AppendMessageRequest struct {
	PersonaName string `json:"persona_name"`
	Content     string `json:"content"`
}

// EditMessageRequest defines the body for editing a log message in place.
type EditMessageRequest struct {
	Content string `json:"content"`
}

// SetContextRequest defines the body for replacing the context draft.
type SetContextRequest struct {
	Draft string `json:"draft"`
}

// TranscriptRequest selects a transcript policy. Policy is "all", "trailing",
// or "range".
type TranscriptRequest struct {
	Policy        string `json:"policy"`
	N             int    `json:"n,omitempty"`
	Start         int    `json:"start,omitempty"`
	End           int    `json:"end,omitempty"`
	PersonaFilter string `json:"persona_filter,omitempty"`
}

// DirectChatRequest defines the body for a direct persona-to-persona turn.
type DirectChatRequest struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Message  string `json:"message"`
	// IncludeLast limits the transcript priming to the trailing N messages;
	// 0 sends the whole log.
	IncludeLast int `json:"include_last,omitempty"`
}

// AutoChatRequest defines the body for a multi-turn auto-sequence.
type AutoChatRequest struct {
	Turns       int  `json:"turns"`
	Random      bool `json:"random"`
	IncludeLast int  `json:"include_last,omitempty"`
}

// AnalyzeRequest defines the body for a transcript analysis run.
type AnalyzeRequest struct {
	Prompt        string `json:"prompt"`
	IncludeChat   bool   `json:"include_chat"`
	Start         int    `json:"start,omitempty"`
	End           int    `json:"end,omitempty"`
	PersonaFilter string `json:"persona_filter,omitempty"`
}

// --- Response Structs ---

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WorkspaceResponse summarizes one workspace.
type WorkspaceResponse struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Projections workspace.Projections `json:"projections"`
}

// ListWorkspacesResponse wraps the workspace collection.
type ListWorkspacesResponse struct {
	Workspaces []WorkspaceResponse `json:"workspaces"`
}

// PersonaResponse is one persona, avatar omitted (fetch it separately if a
// client needs the bytes).
type PersonaResponse struct {
	Name      string `json:"name"`
	Prompt    string `json:"prompt"`
	ColorSlot int    `json:"color_slot"`
	HasAvatar bool   `json:"has_avatar"`
}

// ListPersonasResponse wraps the persona collection, insertion order.
type ListPersonasResponse struct {
	Personas []PersonaResponse `json:"personas"`
}

// ListMessagesResponse wraps the rendered message log.
type ListMessagesResponse struct {
	Messages []workspace.MessageView `json:"messages"`
}

// ContextResponse reports both context slots.
type ContextResponse struct {
	Draft     string `json:"draft"`
	Committed string `json:"committed"`
}

// TranscriptResponse carries a flattened transcript.
type TranscriptResponse struct {
	Transcript string `json:"transcript"`
}

// ExchangeStatusResponse reports the busy signal per operation kind plus the
// last analysis result.
type ExchangeStatusResponse struct {
	DirectChatPending bool   `json:"direct_chat_pending"`
	AutoChatPending   bool   `json:"auto_chat_pending"`
	AnalyzePending    bool   `json:"analyze_pending"`
	AnalysisResult    string `json:"analysis_result"`
}

// DirectChatResponse reports the appended reply message.
type DirectChatResponse struct {
	Reply workspace.MessageView `json:"reply"`
}

// AutoChatResponse reports the exchanges that were appended to the log.
type AutoChatResponse struct {
	Appended []workspace.MessageView `json:"appended"`
}

// AnalyzeResponse carries the analysis text.
type AnalyzeResponse struct {
	Analysis string `json:"analysis"`
}
