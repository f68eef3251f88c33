package render

import (
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	localex "github.com/tanpawarit/Chative-Shop-Assistant/agent/locale"
)

func newRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	msgs, err := localex.Load("en")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return New(msgs, opts...)
}

func TestCurrency(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	cases := map[float64]string{
		1500.5:      "1 500.50 RUB",
		0:           "0.00 RUB",
		999.999:     "1 000.00 RUB",
		1234567.891: "1 234 567.89 RUB",
		42:          "42.00 RUB",
	}
	for in, want := range cases {
		if got := r.Currency(in); got != want {
			t.Fatalf("Currency(%v) = %q, want %q", in, got, want)
		}
	}

	usd := newRenderer(t, WithCurrency("USD"))
	if got := usd.Currency(10); got != "10.00 USD" {
		t.Fatalf("Currency() = %q", got)
	}
}

func TestNumber(t *testing.T) {
	t.Parallel()

	cases := map[float64]string{
		1500:  "1500.0",
		19.99: "19.99",
		0:     "0.0",
		20:    "20.0",
		12.5:  "12.5",
	}
	for in, want := range cases {
		if got := Number(in); got != want {
			t.Fatalf("Number(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderStatistics(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	got := r.Render(contractx.GetStatistics(), contractx.Succeeded(contractx.Statistics{Count: 3, AveragePrice: 1500.5}, nil))
	want := "Total products: 3. Average price: 1 500.50 RUB."
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestRenderProducts(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	products := []contractx.Product{
		{ID: 1, Name: "Laptop", Price: 75000, Category: "Electronics", InStock: true},
		{ID: 2, Name: "Kettle", Price: 2499.9, Category: "Kitchen", InStock: false},
	}
	got := r.Render(contractx.ListProducts(""), contractx.Succeeded(products, nil))
	want := "ID 1: Laptop | Electronics | 75000.0 | in stock\nID 2: Kettle | Kitchen | 2499.9 | out of stock"
	if got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}

	got = r.Render(contractx.ListProducts("Toys"), contractx.Succeeded([]contractx.Product{}, nil))
	if got != "No products match the given conditions." {
		t.Fatalf("Render() = %q", got)
	}

	id := 1
	got = r.Render(contractx.GetProduct(&id), contractx.Succeeded(products[0], nil))
	if got != "ID 1: Laptop | Electronics | 75000.0 | in stock" {
		t.Fatalf("Render() = %q", got)
	}
}

func TestRenderAddAndDiscount(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	mouse := contractx.Product{ID: 4, Name: "Mouse", Price: 1500, Category: "Electronics", InStock: true}

	got := r.Render(contractx.AddProduct(contractx.AddParams{Name: "Mouse"}), contractx.Succeeded(mouse, nil))
	if got != "Added product: Mouse (ID 4) for 1500.0" {
		t.Fatalf("Render() = %q", got)
	}

	id := 4
	got = r.Render(contractx.Discount(10, &id), contractx.Succeeded(contractx.DiscountResult{
		Product:         mouse,
		DiscountPercent: 10,
		DiscountedPrice: 1350,
	}, nil))
	if got != "Price of Mouse after 10.0% discount: 1 350.00 RUB." {
		t.Fatalf("Render() = %q", got)
	}
}

func TestRenderFailureVerbatim(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	out := contractx.Failed("Product with ID 9 not found.", contractx.ErrNotFound, contractx.ToolTrace{"get_product"})
	if got := r.Render(contractx.Discount(5, nil), out); got != "Product with ID 9 not found." {
		t.Fatalf("Render() = %q", got)
	}

	out = contractx.Failed("", errors.New("boom"), nil)
	if got := r.Render(contractx.GetStatistics(), out); got != "boom" {
		t.Fatalf("Render() = %q", got)
	}
}

func TestRenderFallback(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	if got := r.Render(contractx.GetStatistics(), contractx.Succeeded("unexpected", nil)); got != "Request processed." {
		t.Fatalf("Render() = %q", got)
	}
	if got := r.Render(contractx.Unknown(), contractx.Succeeded(nil, nil)); got != "Request processed." {
		t.Fatalf("Render() = %q", got)
	}
}

func TestRenderRussian(t *testing.T) {
	t.Parallel()

	r := New(localex.MustLoad("ru"))
	got := r.Render(contractx.GetStatistics(), contractx.Succeeded(contractx.Statistics{Count: 0, AveragePrice: 0}, nil))
	if !strings.HasPrefix(got, "Всего продуктов: 0.") || !strings.Contains(got, "0.00 RUB") {
		t.Fatalf("Render() = %q", got)
	}
}
