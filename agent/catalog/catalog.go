// Package catalog holds the product stores backing the catalog collaborator.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	Backend string `default:"file"`
	Path    string `default:"data/products.json"`
	DSN     string
	Seed    bool `default:"true"`
}

type Store interface {
	contractx.Catalog
	Seed(ctx context.Context, products []contractx.Product) error
	Close() error
}

// DefaultProducts is written to a new, empty store.
func DefaultProducts() []contractx.Product {
	return []contractx.Product{
		{ID: 1, Name: "Laptop", Price: 50000, Category: "Electronics", InStock: true},
		{ID: 2, Name: "Smartphone", Price: 30000, Category: "Electronics", InStock: true},
		{ID: 3, Name: "Coffee machine", Price: 12000, Category: "Home appliances", InStock: false},
	}
}

// Open builds the store selected by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendFile
	}

	log.Info().Str("backend", backend).Msg("opening catalog store")

	switch backend {
	case BackendFile:
		return NewFileStore(cfg.Path, WithSeed(cfg.Seed))
	case BackendSQLite, BackendPostgres:
		return NewSQLStore(ctx, backend, cfg.DSN, WithSeed(cfg.Seed))
	default:
		return nil, fmt.Errorf("%w: unsupported catalog backend=%q", contractx.ErrValidation, cfg.Backend)
	}
}

type options struct {
	seed bool
}

type StoreOption func(*options)

// WithSeed controls whether an empty store is filled with DefaultProducts.
func WithSeed(seed bool) StoreOption {
	return func(o *options) {
		o.seed = seed
	}
}

func applyOptions(opts []StoreOption) options {
	o := options{seed: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func validateNewProduct(p contractx.NewProduct) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", contractx.ErrInvalidArgument)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative, got %v", contractx.ErrInvalidArgument, p.Price)
	}
	return nil
}

func notFound(id int) error {
	return fmt.Errorf("%w: id=%d", contractx.ErrNotFound, id)
}

func statistics(products []contractx.Product) contractx.Statistics {
	if len(products) == 0 {
		return contractx.Statistics{}
	}
	total := 0.0
	for _, p := range products {
		total += p.Price
	}
	return contractx.Statistics{Count: len(products), AveragePrice: total / float64(len(products))}
}
