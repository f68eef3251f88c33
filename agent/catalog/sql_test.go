package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

func openSQLite(t *testing.T, opts ...StoreOption) *SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "catalog.db")
	s, err := NewSQLStore(context.Background(), BackendSQLite, dsn, opts...)
	if err != nil {
		t.Fatalf("NewSQLStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLStoreSeedsEmptyTable(t *testing.T) {
	t.Parallel()

	s := openSQLite(t)
	products, err := s.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(products) != 3 || products[0].Name != "Laptop" {
		t.Fatalf("unexpected products: %+v", products)
	}

	stats, err := s.GetStatistics(context.Background())
	if err != nil {
		t.Fatalf("GetStatistics() error = %v", err)
	}
	if stats.Count != 3 || stats.AveragePrice != (50000+30000+12000)/3.0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestSQLStoreEmptyStatistics(t *testing.T) {
	t.Parallel()

	s := openSQLite(t, WithSeed(false))
	stats, err := s.GetStatistics(context.Background())
	if err != nil {
		t.Fatalf("GetStatistics() error = %v", err)
	}
	if stats.Count != 0 || stats.AveragePrice != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestSQLStoreAddAndGet(t *testing.T) {
	t.Parallel()

	s := openSQLite(t)
	created, err := s.AddProduct(context.Background(), contractx.NewProduct{Name: "Mouse", Price: 1500, Category: "Electronics", InStock: true})
	if err != nil {
		t.Fatalf("AddProduct() error = %v", err)
	}
	if created.ID != 4 {
		t.Fatalf("expected id 4, got %d", created.ID)
	}

	got, err := s.GetProduct(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if got != created {
		t.Fatalf("GetProduct() = %+v, want %+v", got, created)
	}

	if _, err := s.GetProduct(context.Background(), 99); !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("GetProduct() error = %v, want ErrNotFound", err)
	}
}

func TestSQLStoreSeedReplaces(t *testing.T) {
	t.Parallel()

	s := openSQLite(t)
	err := s.Seed(context.Background(), []contractx.Product{{ID: 7, Name: "Desk", Price: 9000, Category: "Furniture", InStock: true}})
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	products, err := s.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(products) != 1 || products[0].ID != 7 {
		t.Fatalf("unexpected products: %+v", products)
	}
	created, err := s.AddProduct(context.Background(), contractx.NewProduct{Name: "Chair", Price: 1000, Category: "Furniture"})
	if err != nil {
		t.Fatalf("AddProduct() error = %v", err)
	}
	if created.ID != 8 {
		t.Fatalf("expected id 8, got %d", created.ID)
	}
}
