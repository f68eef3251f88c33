package mcpcatalog

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/goleak"

	catalogx "github.com/tanpawarit/Chative-Shop-Assistant/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	toolx "github.com/tanpawarit/Chative-Shop-Assistant/agent/tool"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func dialFileCatalog(t *testing.T) *Client {
	t.Helper()
	store, err := catalogx.NewFileStore(filepath.Join(t.TempDir(), "products.json"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	c, err := DialInProcess(context.Background(), store)
	if err != nil {
		t.Fatalf("DialInProcess() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClientListsAdvertisedTools(t *testing.T) {
	c := dialFileCatalog(t)
	names, err := c.ToolNames(context.Background())
	if err != nil {
		t.Fatalf("ToolNames() error = %v", err)
	}
	want := map[string]bool{
		toolx.ToolListProducts:  true,
		toolx.ToolGetProduct:    true,
		toolx.ToolAddProduct:    true,
		toolx.ToolGetStatistics: true,
	}
	if len(names) != len(want) {
		t.Fatalf("unexpected tools: %v", names)
	}
	for _, name := range names {
		if !want[name] {
			t.Fatalf("unexpected tool %q", name)
		}
	}
}

func TestClientRoundTrip(t *testing.T) {
	c := dialFileCatalog(t)
	ctx := context.Background()

	products, err := c.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}

	created, err := c.AddProduct(ctx, contractx.NewProduct{Name: "Mouse", Price: 1500, Category: "Electronics", InStock: false})
	if err != nil {
		t.Fatalf("AddProduct() error = %v", err)
	}
	want := contractx.Product{ID: 4, Name: "Mouse", Price: 1500, Category: "Electronics", InStock: false}
	if created != want {
		t.Fatalf("AddProduct() = %+v, want %+v", created, want)
	}

	got, err := c.GetProduct(ctx, 4)
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GetProduct() = %+v, want %+v", got, want)
	}

	stats, err := c.GetStatistics(ctx)
	if err != nil {
		t.Fatalf("GetStatistics() error = %v", err)
	}
	if stats.Count != 4 || stats.AveragePrice != (50000+30000+12000+1500)/4.0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestClientMapsToolErrors(t *testing.T) {
	c := dialFileCatalog(t)

	_, err := c.GetProduct(context.Background(), 404)
	if !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("GetProduct() error = %v, want ErrNotFound", err)
	}

	_, err = c.AddProduct(context.Background(), contractx.NewProduct{Name: "Broken", Price: -5})
	if !errors.Is(err, contractx.ErrInvalidArgument) {
		t.Fatalf("AddProduct() error = %v, want ErrInvalidArgument", err)
	}
}

func TestClassifyToolError(t *testing.T) {
	err := classifyToolError(toolx.ToolListProducts, "disk on fire")
	if !errors.Is(err, contractx.ErrCollaborator) {
		t.Fatalf("classifyToolError() = %v, want ErrCollaborator", err)
	}
	err = classifyToolError(toolx.ToolGetProduct, "product not found: id=7")
	if !errors.Is(err, contractx.ErrNotFound) || err.Error() != "product not found: id=7" {
		t.Fatalf("classifyToolError() = %v", err)
	}
}

func TestDialCommandRequiresCommand(t *testing.T) {
	_, err := DialCommand(context.Background(), " ")
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("DialCommand() error = %v, want ErrValidation", err)
	}
}
