package pipeline

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/browzerlabs/topic-agent/internal/model"
	"github.com/browzerlabs/topic-agent/pkg/llm"
)

// Defaults applied when the host omits provider selection, matching what
// browsers historically sent.
const (
	defaultProvider = "openai"
	defaultModel    = "gpt-3.5-turbo"
)

// Handler translates transport envelopes into pipeline runs. It is shared by
// the stdin CLI mode and the HTTP serve mode.
type Handler struct {
	pipeline *Pipeline
	logger   *zap.Logger
}

// NewHandler creates a Handler around a pipeline.
func NewHandler(p *Pipeline, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{pipeline: p, logger: logger}
}

// Handle runs one request and always returns a response envelope. Panics
// anywhere below are recovered here and reported as failures.
func (h *Handler) Handle(ctx context.Context, req model.Request) (resp model.Response) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("pipeline panic recovered", zap.Any("panic", r))
			resp = model.Response{Success: false, Error: fmt.Sprintf("internal error: %v", r)}
		}
	}()

	action := req.Action
	if action == "" {
		action = model.ActionProcessPage
	}

	cfg, err := h.llmConfig(req.Context)
	if err != nil {
		return model.Response{Success: false, Error: err.Error()}
	}

	var in Input
	switch action {
	case model.ActionProcessPage:
		in = processPageInput(req.Data)
	case model.ActionAnswerQuestion:
		in = answerQuestionInput(req.Data)
	case model.ActionSummarize:
		var buildErr error
		in, buildErr = summarizeInput(req.Data)
		if buildErr != nil {
			return model.Response{Success: false, Error: buildErr.Error()}
		}
	default:
		return model.Response{Success: false, Error: fmt.Sprintf("unknown action: %s", action)}
	}
	in.LLM = cfg

	result, err := h.pipeline.Run(ctx, in)
	if err != nil {
		h.logger.Error("pipeline run failed", zap.String("action", string(action)), zap.Error(err))
		return model.Response{Success: false, Error: err.Error()}
	}

	return model.Response{Success: true, Data: &result}
}

// llmConfig resolves provider selection and credentials from the request
// context. A missing key is rejected before any work happens.
func (h *Handler) llmConfig(rc model.RequestContext) (llm.Config, error) {
	provider := rc.SelectedProvider
	if provider == "" {
		provider = defaultProvider
	}
	modelName := rc.SelectedModel
	if modelName == "" && provider == defaultProvider {
		modelName = defaultModel
	}

	key := rc.APIKeys[provider]
	if key == "" {
		return llm.Config{}, eris.Errorf("no API key configured for %s in browser settings", provider)
	}

	return llm.Config{Provider: provider, APIKey: key, Model: modelName}, nil
}

func processPageInput(data model.RequestData) Input {
	contexts := data.AdditionalContexts
	if data.PageContent != nil && len(data.PageContent.AdditionalContexts) > 0 {
		contexts = append(data.PageContent.AdditionalContexts, contexts...)
	}
	return Input{
		Query:         data.Query,
		URLs:          data.URLs,
		Page:          data.PageContent,
		Contexts:      contexts,
		IsQuestion:    data.IsQuestion,
		IsAboutLinks:  data.IsAboutLinks,
		OriginalQuery: data.OriginalQuery,
		History:       data.ConversationHistory,
	}
}

func answerQuestionInput(data model.RequestData) Input {
	in := Input{
		Query:      data.Question,
		IsQuestion: boolPtr(true),
		History:    data.ConversationHistory,
	}
	if data.Context != "" {
		in.Page = &model.PageContent{
			Title:   "Context",
			URL:     "context",
			Content: data.Context,
		}
	}
	return in
}

func summarizeInput(data model.RequestData) (Input, error) {
	if data.Content == "" {
		return Input{}, eris.New("no content provided for summarization")
	}
	title := data.Title
	if title == "" {
		title = "Untitled"
	}
	return Input{
		Query:      "Summarize: " + title,
		IsQuestion: boolPtr(false),
		Page: &model.PageContent{
			Title:   title,
			URL:     data.URL,
			Content: data.Content,
		},
	}, nil
}

func boolPtr(b bool) *bool {
	return &b
}
