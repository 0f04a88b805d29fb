// Package pipeline runs one query end to end: classify the query, gather
// evidence, assemble a budgeted prompt, and generate an answer or summary
// with the selected LLM provider.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/browzerlabs/topic-agent/internal/classify"
	"github.com/browzerlabs/topic-agent/internal/model"
	"github.com/browzerlabs/topic-agent/internal/prompt"
	"github.com/browzerlabs/topic-agent/pkg/llm"
)

// Fixed answers for runs where generation is impossible or fails. Generation
// failures are not transport errors: the caller still gets a result.
const (
	NoInformationMessage  = "No relevant information found."
	FailedAnswerMessage   = "Failed to generate an answer to your question."
	FailedSummaryMessage  = "Failed to generate summary."
	FailedResponseMessage = "Failed to generate a response."
)

// Collector gathers evidence for a query.
type Collector interface {
	Collect(ctx context.Context, query string, urls []string, page *model.PageContent, contexts []model.AdditionalContext, wantFull bool) []model.EvidenceItem
}

// ClientFactory builds an LLM client for one request's credentials.
type ClientFactory func(cfg llm.Config) (llm.Client, error)

// Input is everything one pipeline run needs.
type Input struct {
	Query         string
	URLs          []string
	Page          *model.PageContent
	Contexts      []model.AdditionalContext
	IsQuestion    *bool
	IsAboutLinks  bool
	OriginalQuery string
	History       []model.ConversationTurn
	LLM           llm.Config
}

// Pipeline orchestrates one query.
type Pipeline struct {
	collector Collector
	assembler *prompt.Assembler
	newClient ClientFactory
	logger    *zap.Logger
}

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithClientFactory overrides how LLM clients are built. Useful for tests.
func WithClientFactory(f ClientFactory) Option {
	return func(p *Pipeline) {
		p.newClient = f
	}
}

// WithLogger sets the pipeline's logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// New creates a Pipeline.
func New(collector Collector, assembler *prompt.Assembler, opts ...Option) *Pipeline {
	p := &Pipeline{
		collector: collector,
		assembler: assembler,
		newClient: llm.ForProvider,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the pipeline. The only error it returns is a configuration
// error raised before any network work; everything downstream degrades to a
// result carrying a fixed message instead.
func (p *Pipeline) Run(ctx context.Context, in Input) (model.PipelineResult, error) {
	client, err := p.newClient(in.LLM)
	if err != nil {
		return model.PipelineResult{}, eris.Wrap(err, "pipeline: configure llm client")
	}

	query := classify.Clean(in.Query)
	isQuestion := p.classifyQuestion(in)

	p.logger.Info("pipeline run",
		zap.String("query", query),
		zap.Bool("is_question", isQuestion),
		zap.Bool("about_links", in.IsAboutLinks),
		zap.Int("urls", len(in.URLs)),
		zap.Bool("has_page", in.Page != nil),
		zap.Int("contexts", len(in.Contexts)),
	)

	// Link questions are answered straight from the page markup. If the
	// model fails here, fall through to standard processing.
	if isQuestion && in.IsAboutLinks && in.Page.HasHTML() {
		pr := p.assembler.HTMLAnalysis(query, in.Page)
		if text, elapsed, ok := p.generate(ctx, client, pr); ok {
			return model.PipelineResult{
				Query:          query,
				Evidence:       []model.EvidenceItem{},
				Answer:         text,
				GenerationTime: elapsed,
				IsQuestion:     true,
			}, nil
		}
		p.logger.Warn("html analysis failed, falling back to standard processing")
	}

	// Direct questions about supplied material get the full content so
	// nothing is lost to summarization. Failures fall through to the
	// summarized path.
	if isQuestion && (in.Page != nil || len(in.Contexts) > 0) {
		items := p.collector.Collect(ctx, query, nil, in.Page, in.Contexts, true)
		if len(items) > 0 {
			pr := p.assembler.Question(query, items, in.History)
			if text, elapsed, ok := p.generate(ctx, client, pr); ok {
				return model.PipelineResult{
					Query:          query,
					Evidence:       items,
					Answer:         text,
					GenerationTime: elapsed,
					IsQuestion:     true,
				}, nil
			}
			p.logger.Warn("full-content answer failed, falling back to summarized evidence")
		}
	}

	items := p.collector.Collect(ctx, query, in.URLs, in.Page, in.Contexts, false)

	if len(items) == 0 {
		if isQuestion {
			// Answer from general knowledge.
			pr := p.assembler.Question(query, nil, in.History)
			text, elapsed, ok := p.generate(ctx, client, pr)
			if !ok {
				text = FailedResponseMessage
			}
			return model.PipelineResult{
				Query:          query,
				Evidence:       []model.EvidenceItem{},
				Answer:         text,
				GenerationTime: elapsed,
				IsQuestion:     true,
			}, nil
		}
		return model.PipelineResult{
			Query:      query,
			Evidence:   []model.EvidenceItem{},
			Answer:     NoInformationMessage,
			IsQuestion: false,
		}, nil
	}

	var pr prompt.Prompt
	if isQuestion {
		pr = p.assembler.Question(query, items, in.History)
	} else {
		pr = p.assembler.Summary(query, items)
	}

	text, elapsed, ok := p.generate(ctx, client, pr)
	if !ok {
		if isQuestion {
			text = FailedAnswerMessage
		} else {
			text = FailedSummaryMessage
		}
	}

	return model.PipelineResult{
		Query:          query,
		Evidence:       items,
		Answer:         text,
		GenerationTime: elapsed,
		IsQuestion:     isQuestion,
	}, nil
}

// classifyQuestion resolves the question flag from the query, the caller's
// hints, and the pre-rewrite query. A URL literal is never a question.
func (p *Pipeline) classifyQuestion(in Input) bool {
	if classify.IsURL(in.Query) {
		return false
	}
	isQuestion := classify.IsQuestion(in.Query)
	if in.IsQuestion != nil {
		isQuestion = *in.IsQuestion
	}
	if in.OriginalQuery != "" && classify.IsQuestion(in.OriginalQuery) {
		isQuestion = true
	}
	return isQuestion
}

// generate makes one LLM attempt and reports the outcome with elapsed
// seconds. Model failures are logged, never propagated.
func (p *Pipeline) generate(ctx context.Context, client llm.Client, pr prompt.Prompt) (string, float64, bool) {
	start := time.Now()
	resp, err := client.Generate(ctx, llm.Request{System: pr.System, User: pr.User})
	elapsed := time.Since(start).Seconds()
	if err != nil {
		p.logger.Warn("llm generation failed",
			zap.Float64("elapsed_s", elapsed),
			zap.Error(err),
		)
		return "", elapsed, false
	}
	p.logger.Info("llm generation complete",
		zap.String("model", resp.Model),
		zap.Float64("elapsed_s", elapsed),
	)
	return resp.Text, elapsed, true
}
