// Package orchestrator runs one query through parse, dispatch and render.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	dispatchx "github.com/tanpawarit/Chative-Shop-Assistant/agent/dispatch"
	intentx "github.com/tanpawarit/Chative-Shop-Assistant/agent/intent"
	localex "github.com/tanpawarit/Chative-Shop-Assistant/agent/locale"
	renderx "github.com/tanpawarit/Chative-Shop-Assistant/agent/render"
	metricsx "github.com/tanpawarit/Chative-Shop-Assistant/pkg/metrics"
)

var ErrInvalidQuery = contractx.ErrInvalidQuery

type Config struct {
	Locale      string `default:"en"`
	Currency    string
	CallTimeout time.Duration `split_words:"true" default:"10s"`
}

type Orchestrator struct {
	parser     *intentx.Parser
	dispatcher contractx.Dispatcher
	renderer   *renderx.Renderer

	now func() time.Time
}

// New wires the default dispatcher over catalog.
func New(catalog contractx.Catalog, cfg Config) (*Orchestrator, error) {
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	msgs, err := localex.Load(cfg.Locale)
	if err != nil {
		return nil, err
	}
	dispatcher, err := dispatchx.New(catalog, msgs, dispatchx.WithCallTimeout(cfg.CallTimeout))
	if err != nil {
		return nil, err
	}
	return build(dispatcher, msgs, cfg), nil
}

// NewWithDispatcher is New with a caller-supplied dispatcher.
func NewWithDispatcher(dispatcher contractx.Dispatcher, cfg Config) (*Orchestrator, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	msgs, err := localex.Load(cfg.Locale)
	if err != nil {
		return nil, err
	}
	return build(dispatcher, msgs, cfg), nil
}

func build(dispatcher contractx.Dispatcher, msgs localex.Messages, cfg Config) *Orchestrator {
	return &Orchestrator{
		parser: intentx.New(intentx.WithDefaults(intentx.Defaults{
			ProductName: msgs.DefaultProductName,
			Category:    msgs.DefaultCategory,
		})),
		dispatcher: dispatcher,
		renderer:   renderx.New(msgs, renderx.WithCurrency(cfg.Currency)),
		now:        time.Now,
	}
}

// HandleQuery never turns a catalog or calculator failure into an error; those
// are rendered as the response. Errors are a blank query or a malformed decision.
func (o *Orchestrator) HandleQuery(ctx context.Context, query string) (contractx.RunResult, error) {
	if strings.TrimSpace(query) == "" {
		return contractx.RunResult{}, fmt.Errorf("%w: query must not be blank", ErrInvalidQuery)
	}
	started := o.now()

	decision := o.parser.Parse(query)
	log.Debug().Str("action", string(decision.Action)).Msg("query parsed")

	outcome, err := o.dispatcher.Dispatch(ctx, decision)
	if err != nil {
		metricsx.RecordQuery(string(decision.Action), false, o.now().Sub(started).Seconds())
		return contractx.RunResult{}, fmt.Errorf("dispatch %s: %w", decision.Action, err)
	}

	response := o.renderer.Render(decision, outcome)
	metricsx.RecordQuery(string(decision.Action), !outcome.IsFailure(), o.now().Sub(started).Seconds())

	logEvent := log.Info()
	if outcome.IsFailure() {
		logEvent = log.Warn().AnErr("cause", outcome.Err)
	}
	logEvent.
		Str("action", string(decision.Action)).
		Strs("tools_used", outcome.Tools.Names()).
		Msg("query handled")

	return contractx.RunResult{
		Response:  response,
		ToolsUsed: outcome.Tools.Names(),
	}, nil
}
