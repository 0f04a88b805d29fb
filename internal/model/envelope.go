package model

// Action names the operation a transport request asks for.
type Action string

const (
	ActionProcessPage    Action = "process_page"
	ActionAnswerQuestion Action = "answer_question"
	ActionSummarize      Action = "summarize"
)

// RequestContext carries host-provisioned credentials and provider selection.
type RequestContext struct {
	ExtensionID      string            `json:"extension_id,omitempty"`
	APIKeys          map[string]string `json:"browser_api_keys,omitempty"`
	SelectedProvider string            `json:"selected_provider"`
	SelectedModel    string            `json:"selected_model,omitempty"`
	Permissions      []string          `json:"permissions,omitempty"`
}

// RequestData is the action-specific payload. Fields are a union across the
// three actions; the handler reads the ones its action defines.
type RequestData struct {
	Query               string              `json:"query,omitempty"`
	Question            string              `json:"question,omitempty"`
	Context             string              `json:"context,omitempty"`
	Content             string              `json:"content,omitempty"`
	Title               string              `json:"title,omitempty"`
	URL                 string              `json:"url,omitempty"`
	URLs                []string            `json:"urls,omitempty"`
	PageContent         *PageContent        `json:"pageContent,omitempty"`
	AdditionalContexts  []AdditionalContext `json:"additionalContexts,omitempty"`
	IsQuestion          *bool               `json:"isQuestion,omitempty"`
	IsAboutLinks        bool                `json:"isAboutLinks,omitempty"`
	OriginalQuery       string              `json:"originalQuery,omitempty"`
	ConversationHistory []ConversationTurn  `json:"conversationHistory,omitempty"`
}

// Request is the inbound transport envelope.
type Request struct {
	Action  Action         `json:"action"`
	Context RequestContext `json:"context"`
	Data    RequestData    `json:"data"`
}

// Response is the outbound transport envelope. Success is false only for
// configuration or transport-level failures; model-generation failures are
// reported with Success=true and an explanatory answer inside Data.
type Response struct {
	Success bool            `json:"success"`
	Data    *PipelineResult `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}
