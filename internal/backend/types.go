package backend

// Wire types for the external chat/analysis backend. The shapes are fixed by
// the backend contract; transport is JSON over HTTP.

// PersonaRef identifies a speaker to the backend: display name plus the
// behavior prompt the model should assume.
type PersonaRef struct {
	Name         string `json:"name"`
	SystemPrompt string `json:"system_prompt"`
}

// DirectChatRequest asks the backend for the receiver's reply to a single
// message from the sender.
type DirectChatRequest struct {
	Sender       PersonaRef `json:"sender"`
	Receiver     PersonaRef `json:"receiver"`
	Message      string     `json:"message"`
	Context      string     `json:"context"`
	Conversation string     `json:"conversation"`
}

// DirectChatResponse carries the receiver's reply, or an error payload.
type DirectChatResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// AutoChatRequest asks the backend to run a multi-turn exchange sequence
// between the supplied personas, primed with the context and transcript.
type AutoChatRequest struct {
	Personas     []PersonaRef `json:"personas"`
	Context      string       `json:"context"`
	Conversation string       `json:"conversation"`
	Turns        int          `json:"turns"`
	Random       bool         `json:"random"`
}

// Exchange is one {persona, message} pair of an auto-chat sequence.
type Exchange struct {
	Persona string `json:"persona"`
	Message string `json:"message"`
}

// AutoChatResponse carries the ordered exchanges, or an error payload.
type AutoChatResponse struct {
	Exchanges []Exchange `json:"exchanges"`
	Error     string     `json:"error,omitempty"`
}

// AnalyzeRequest asks the backend to analyze a transcript slice.
type AnalyzeRequest struct {
	AnalysisPrompt string `json:"analysis_prompt"`
	Conversation   string `json:"conversation"`
	Context        string `json:"context"`
}

// AnalyzeResponse carries the analysis text, or an error payload.
type AnalyzeResponse struct {
	Analysis string `json:"analysis"`
	Error    string `json:"error,omitempty"`
}

// SeedPersona is one backend-provided sample persona.
type SeedPersona struct {
	Name       string `json:"name"`
	Prompt     string `json:"prompt"`
	ColorIndex int    `json:"color_index"`
	AvatarPath string `json:"avatar_path,omitempty"`
}

// ConfigResponse is the backend's optional seed configuration.
type ConfigResponse struct {
	SamplePersonas []SeedPersona `json:"sample_personas"`
	DefaultContext string        `json:"default_context"`
}
