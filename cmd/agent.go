package main

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/browzerlabs/topic-agent/internal/config"
	"github.com/browzerlabs/topic-agent/internal/evidence"
	"github.com/browzerlabs/topic-agent/internal/model"
	"github.com/browzerlabs/topic-agent/internal/pipeline"
	"github.com/browzerlabs/topic-agent/internal/prompt"
	"github.com/browzerlabs/topic-agent/pkg/fetch"
	"github.com/browzerlabs/topic-agent/pkg/search"
)

// newAgentHandler wires the fetcher, searcher, evidence collector, and
// prompt assembler into a request handler from the loaded configuration.
func newAgentHandler(c *config.Config) *pipeline.Handler {
	logger := zap.L()

	fetcher := fetch.NewClient(
		fetch.WithTimeout(time.Duration(c.Fetch.TimeoutSecs)*time.Second),
		fetch.WithRateLimit(rate.NewLimiter(rate.Limit(c.Fetch.RatePerSec), 1)),
	)
	searcher := search.NewClient(fetcher, search.WithBaseURL(c.Search.BaseURL))

	collector := evidence.NewCollector(fetcher, searcher,
		evidence.WithFetchDelay(time.Duration(c.Pipeline.FetchDelayMillis)*time.Millisecond),
		evidence.WithLogger(logger),
	)
	assembler := prompt.NewAssembler(prompt.WithLogger(logger))

	p := pipeline.New(collector, assembler, pipeline.WithLogger(logger))
	return pipeline.NewHandler(p, logger)
}

// fillCredentials backfills provider selection, model, and API key from
// configuration when the request envelope does not carry them. Values sent
// by the caller always win.
func fillCredentials(c *config.Config, req *model.Request) {
	if req.Context.SelectedProvider == "" {
		req.Context.SelectedProvider = c.Providers.Default
	}
	provider := req.Context.SelectedProvider

	if req.Context.SelectedModel == "" {
		req.Context.SelectedModel = c.Providers.ModelFor(provider)
	}

	if req.Context.APIKeys[provider] == "" {
		if key := c.Providers.KeyFor(provider); key != "" {
			if req.Context.APIKeys == nil {
				req.Context.APIKeys = make(map[string]string)
			}
			req.Context.APIKeys[provider] = key
		}
	}
}
