// Package dispatch executes a parsed decision against the catalog and the
// calculator, recording every attempted call in a trace.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	localex "github.com/tanpawarit/Chative-Shop-Assistant/agent/locale"
	toolx "github.com/tanpawarit/Chative-Shop-Assistant/agent/tool"
	metricsx "github.com/tanpawarit/Chative-Shop-Assistant/pkg/metrics"
)

type Dispatcher struct {
	catalog     contractx.Catalog
	msgs        localex.Messages
	evaluate    toolx.Evaluator
	callTimeout time.Duration
}

var _ contractx.Dispatcher = (*Dispatcher)(nil)

type Option func(*Dispatcher)

// WithCallTimeout bounds each catalog call. Zero leaves the caller's deadline alone.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Dispatcher) {
		s.callTimeout = d
	}
}

func WithEvaluator(fn toolx.Evaluator) Option {
	return func(s *Dispatcher) {
		if fn != nil {
			s.evaluate = fn
		}
	}
}

func New(catalog contractx.Catalog, msgs localex.Messages, opts ...Option) (*Dispatcher, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: catalog is required", contractx.ErrValidation)
	}
	d := &Dispatcher{
		catalog:  catalog,
		msgs:     msgs,
		evaluate: toolx.Evaluate,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Dispatch runs one decision. Catalog and calculator failures come back as a
// failed Outcome holding the trace so far; the error return is reserved for
// a decision whose payload does not match its action.
func (s *Dispatcher) Dispatch(ctx context.Context, d contractx.Decision) (contractx.Outcome, error) {
	if err := d.Validate(); err != nil {
		return contractx.Outcome{}, err
	}

	var trace contractx.ToolTrace
	switch d.Action {
	case contractx.ActionListProducts:
		return s.listProducts(ctx, d.List.Category, &trace), nil
	case contractx.ActionGetStatistics:
		return s.getStatistics(ctx, &trace), nil
	case contractx.ActionAddProduct:
		return s.addProduct(ctx, *d.Add, &trace), nil
	case contractx.ActionGetProduct:
		return s.getProduct(ctx, d.Get.ProductID, &trace), nil
	case contractx.ActionDiscount:
		return s.discount(ctx, *d.Discount, &trace), nil
	default:
		log.Warn().Str("action", string(d.Action)).Msg("unknown action")
		return contractx.Failed(s.msgs.UnknownAction, contractx.ErrUnknownAction, trace), nil
	}
}

func (s *Dispatcher) listProducts(ctx context.Context, category string, trace *contractx.ToolTrace) contractx.Outcome {
	var products []contractx.Product
	err := s.call(ctx, toolx.ToolListProducts, trace, func(ctx context.Context) error {
		var err error
		products, err = s.catalog.ListProducts(ctx)
		return err
	})
	if err != nil {
		return s.fail(err, nil, *trace)
	}

	if category == "" {
		if products == nil {
			products = []contractx.Product{}
		}
		return contractx.Succeeded(products, *trace)
	}
	filtered := make([]contractx.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return contractx.Succeeded(filtered, *trace)
}

func (s *Dispatcher) getStatistics(ctx context.Context, trace *contractx.ToolTrace) contractx.Outcome {
	var stats contractx.Statistics
	err := s.call(ctx, toolx.ToolGetStatistics, trace, func(ctx context.Context) error {
		var err error
		stats, err = s.catalog.GetStatistics(ctx)
		return err
	})
	if err != nil {
		return s.fail(err, nil, *trace)
	}
	return contractx.Succeeded(stats, *trace)
}

func (s *Dispatcher) addProduct(ctx context.Context, p contractx.AddParams, trace *contractx.ToolTrace) contractx.Outcome {
	var created contractx.Product
	err := s.call(ctx, toolx.ToolAddProduct, trace, func(ctx context.Context) error {
		var err error
		created, err = s.catalog.AddProduct(ctx, contractx.NewProduct{
			Name:     p.Name,
			Price:    p.Price,
			Category: p.Category,
			InStock:  p.InStock,
		})
		return err
	})
	if err != nil {
		return s.fail(err, nil, *trace)
	}
	return contractx.Succeeded(created, *trace)
}

func (s *Dispatcher) getProduct(ctx context.Context, id *int, trace *contractx.ToolTrace) contractx.Outcome {
	product, err := s.lookup(ctx, id, trace)
	if err != nil {
		return s.fail(err, id, *trace)
	}
	return contractx.Succeeded(product, *trace)
}

func (s *Dispatcher) discount(ctx context.Context, p contractx.DiscountParams, trace *contractx.ToolTrace) contractx.Outcome {
	product, err := s.lookup(ctx, p.ProductID, trace)
	if err != nil {
		return s.fail(err, p.ProductID, *trace)
	}

	expression := fmt.Sprintf("%s * (1 - %s / 100)", formatOperand(product.Price), formatOperand(p.Percent))
	trace.Record(toolx.ToolCalculator)
	discounted, err := s.evaluate(expression)
	metricsx.RecordToolCall(toolx.ToolCalculator, err == nil)
	if err != nil {
		log.Error().Err(err).Str("expression", expression).Msg("calculator failed")
		return s.fail(err, p.ProductID, *trace)
	}

	return contractx.Succeeded(contractx.DiscountResult{
		Product:         product,
		DiscountPercent: p.Percent,
		DiscountedPrice: discounted,
	}, *trace)
}

// lookup fails before any call when the id is absent, so the trace stays empty.
func (s *Dispatcher) lookup(ctx context.Context, id *int, trace *contractx.ToolTrace) (contractx.Product, error) {
	if id == nil {
		return contractx.Product{}, contractx.ErrMissingProductID
	}
	var product contractx.Product
	err := s.call(ctx, toolx.ToolGetProduct, trace, func(ctx context.Context) error {
		var err error
		product, err = s.catalog.GetProduct(ctx, *id)
		return err
	})
	return product, err
}

// call records tool in the trace before running fn so a failure still shows
// what was attempted.
func (s *Dispatcher) call(ctx context.Context, tool string, trace *contractx.ToolTrace, fn func(context.Context) error) error {
	trace.Record(tool)

	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	err := fn(ctx)
	metricsx.RecordToolCall(tool, err == nil)
	if err != nil {
		log.Error().Err(err).Str("tool", tool).Msg("catalog call failed")
		return err
	}
	log.Debug().Str("tool", tool).Msg("catalog call succeeded")
	return nil
}

func (s *Dispatcher) fail(err error, id *int, trace contractx.ToolTrace) contractx.Outcome {
	return contractx.Failed(s.failureMessage(err, id), err, trace)
}

func (s *Dispatcher) failureMessage(err error, id *int) string {
	switch {
	case errors.Is(err, contractx.ErrMissingProductID):
		return s.msgs.ProductIDRequired
	case errors.Is(err, contractx.ErrNotFound) && id != nil:
		return fmt.Sprintf(s.msgs.ProductNotFound, *id)
	case errors.Is(err, contractx.ErrInvalidExpression), errors.Is(err, contractx.ErrArithmetic):
		if s.msgs.CalculationFailed != "" {
			return fmt.Sprintf(s.msgs.CalculationFailed, err.Error())
		}
	}
	return err.Error()
}

// formatOperand writes v without an exponent so the calculator can lex it.
func formatOperand(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
