package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	catalogx "github.com/tanpawarit/Chative-Shop-Assistant/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

type fakeDispatcher struct {
	outcome contractx.Outcome
	err     error
	calls   []contractx.Decision
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, d contractx.Decision) (contractx.Outcome, error) {
	f.calls = append(f.calls, d)
	if f.err != nil {
		return contractx.Outcome{}, f.err
	}
	return f.outcome, nil
}

func newFileOrchestrator(t *testing.T, cfg Config) *Orchestrator {
	t.Helper()
	store, err := catalogx.NewFileStore(filepath.Join(t.TempDir(), "products.json"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	o, err := New(store, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}

func TestNewRequiresCollaborators(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, Config{}); err == nil {
		t.Fatal("expected error for nil catalog")
	}
	if _, err := NewWithDispatcher(nil, Config{}); err == nil {
		t.Fatal("expected error for nil dispatcher")
	}
	if _, err := NewWithDispatcher(&fakeDispatcher{}, Config{Locale: "xx"}); err == nil {
		t.Fatal("expected error for unknown locale")
	}
}

func TestHandleQueryBlank(t *testing.T) {
	t.Parallel()

	o, err := NewWithDispatcher(&fakeDispatcher{}, Config{})
	if err != nil {
		t.Fatalf("NewWithDispatcher() error = %v", err)
	}
	_, err = o.HandleQuery(context.Background(), "  \t ")
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("HandleQuery() error = %v, want ErrInvalidQuery", err)
	}
}

func TestHandleQueryListByCategory(t *testing.T) {
	t.Parallel()

	o := newFileOrchestrator(t, Config{})
	out, err := o.HandleQuery(context.Background(), "show products category Electronics")
	if err != nil {
		t.Fatalf("HandleQuery() error = %v", err)
	}
	lines := strings.Split(out.Response, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out.Response)
	}
	if lines[0] != "ID 1: Laptop | Electronics | 50000.0 | in stock" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if !reflect.DeepEqual(out.ToolsUsed, []string{"list_products"}) {
		t.Fatalf("unexpected tools: %v", out.ToolsUsed)
	}
}

func TestHandleQueryAddProduct(t *testing.T) {
	t.Parallel()

	o := newFileOrchestrator(t, Config{})
	out, err := o.HandleQuery(context.Background(), "add product: Mouse, price 1500, category Electronics")
	if err != nil {
		t.Fatalf("HandleQuery() error = %v", err)
	}
	if out.Response != "Added product: Mouse (ID 4) for 1500.0" {
		t.Fatalf("unexpected response: %q", out.Response)
	}
	if !reflect.DeepEqual(out.ToolsUsed, []string{"add_product"}) {
		t.Fatalf("unexpected tools: %v", out.ToolsUsed)
	}
}

func TestHandleQueryDiscount(t *testing.T) {
	t.Parallel()

	o := newFileOrchestrator(t, Config{})
	out, err := o.HandleQuery(context.Background(), "discount id 3 by 10%")
	if err != nil {
		t.Fatalf("HandleQuery() error = %v", err)
	}
	if out.Response != "Price of Coffee machine after 10.0% discount: 10 800.00 RUB." {
		t.Fatalf("unexpected response: %q", out.Response)
	}
	if !reflect.DeepEqual(out.ToolsUsed, []string{"get_product", "calculator"}) {
		t.Fatalf("unexpected tools: %v", out.ToolsUsed)
	}
}

func TestHandleQueryNotFoundKeepsTrace(t *testing.T) {
	t.Parallel()

	o := newFileOrchestrator(t, Config{})
	out, err := o.HandleQuery(context.Background(), "discount id 99 by 10%")
	if err != nil {
		t.Fatalf("HandleQuery() error = %v", err)
	}
	if out.Response != "Product with ID 99 not found." {
		t.Fatalf("unexpected response: %q", out.Response)
	}
	if !reflect.DeepEqual(out.ToolsUsed, []string{"get_product"}) {
		t.Fatalf("unexpected tools: %v", out.ToolsUsed)
	}
}

func TestHandleQueryUnknown(t *testing.T) {
	t.Parallel()

	o := newFileOrchestrator(t, Config{})
	out, err := o.HandleQuery(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("HandleQuery() error = %v", err)
	}
	if out.Response != "Could not determine the action for the request." {
		t.Fatalf("unexpected response: %q", out.Response)
	}
	if out.ToolsUsed == nil || len(out.ToolsUsed) != 0 {
		t.Fatalf("expected empty non-nil tools, got %#v", out.ToolsUsed)
	}
}

func TestHandleQueryStatisticsRussian(t *testing.T) {
	t.Parallel()

	o := newFileOrchestrator(t, Config{Locale: "ru"})
	out, err := o.HandleQuery(context.Background(), "Какая средняя цена?")
	if err != nil {
		t.Fatalf("HandleQuery() error = %v", err)
	}
	if out.Response != "Всего продуктов: 3. Средняя цена: 30 666.67 RUB." {
		t.Fatalf("unexpected response: %q", out.Response)
	}
}

func TestHandleQueryLocalizedAddDefaults(t *testing.T) {
	t.Parallel()

	o := newFileOrchestrator(t, Config{Locale: "ru"})
	out, err := o.HandleQuery(context.Background(), "добавь что-нибудь")
	if err != nil {
		t.Fatalf("HandleQuery() error = %v", err)
	}
	if out.Response != "Добавлен продукт: Новый продукт (ID 4) за 0.0" {
		t.Fatalf("unexpected response: %q", out.Response)
	}
}

func TestHandleQueryDispatchError(t *testing.T) {
	t.Parallel()

	fake := &fakeDispatcher{err: contractx.ErrMalformedDecision}
	o, err := NewWithDispatcher(fake, Config{})
	if err != nil {
		t.Fatalf("NewWithDispatcher() error = %v", err)
	}
	_, err = o.HandleQuery(context.Background(), "show products")
	if !errors.Is(err, contractx.ErrMalformedDecision) {
		t.Fatalf("HandleQuery() error = %v, want ErrMalformedDecision", err)
	}
	if len(fake.calls) != 1 || fake.calls[0].Action != contractx.ActionListProducts {
		t.Fatalf("unexpected dispatch calls: %+v", fake.calls)
	}
}

func TestHandleQueryCurrencyOverride(t *testing.T) {
	t.Parallel()

	fake := &fakeDispatcher{outcome: contractx.Succeeded(contractx.Statistics{Count: 2, AveragePrice: 1500.5}, contractx.ToolTrace{"get_statistics"})}
	o, err := NewWithDispatcher(fake, Config{Currency: "USD"})
	if err != nil {
		t.Fatalf("NewWithDispatcher() error = %v", err)
	}
	out, err := o.HandleQuery(context.Background(), "statistics")
	if err != nil {
		t.Fatalf("HandleQuery() error = %v", err)
	}
	if out.Response != "Total products: 2. Average price: 1 500.50 USD." {
		t.Fatalf("unexpected response: %q", out.Response)
	}
}
