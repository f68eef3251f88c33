package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

// FileStore keeps the catalog in memory and persists it as a JSON array.
// Every write replaces the file atomically through a temp file and rename.
type FileStore struct {
	mu       sync.Mutex
	path     string
	products []contractx.Product
	nextID   int
}

var _ Store = (*FileStore)(nil)

// NewFileStore loads path. A missing file is created with DefaultProducts
// unless seeding is disabled.
func NewFileStore(path string, opts ...StoreOption) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: catalog path is required", contractx.ErrValidation)
	}
	o := applyOptions(opts)
	s := &FileStore{path: path, nextID: 1}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if o.seed {
			s.products = DefaultProducts()
		}
		s.nextID = maxID(s.products) + 1
		if err := s.save(); err != nil {
			return nil, err
		}
		log.Info().Str("path", path).Int("products", len(s.products)).Msg("catalog file created")
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	if err := json.Unmarshal(raw, &s.products); err != nil {
		return nil, fmt.Errorf("decode catalog file %s: %w", path, err)
	}
	s.nextID = maxID(s.products) + 1
	return s, nil
}

func (s *FileStore) ListProducts(ctx context.Context) ([]contractx.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]contractx.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *FileStore) GetProduct(ctx context.Context, id int) (contractx.Product, error) {
	if err := ctx.Err(); err != nil {
		return contractx.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return contractx.Product{}, notFound(id)
}

func (s *FileStore) AddProduct(ctx context.Context, p contractx.NewProduct) (contractx.Product, error) {
	if err := ctx.Err(); err != nil {
		return contractx.Product{}, err
	}
	if err := validateNewProduct(p); err != nil {
		return contractx.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	created := contractx.Product{
		ID:       s.nextID,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
		InStock:  p.InStock,
	}
	s.products = append(s.products, created)
	if err := s.save(); err != nil {
		s.products = s.products[:len(s.products)-1]
		return contractx.Product{}, err
	}
	s.nextID++
	return created, nil
}

func (s *FileStore) GetStatistics(ctx context.Context) (contractx.Statistics, error) {
	if err := ctx.Err(); err != nil {
		return contractx.Statistics{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return statistics(s.products), nil
}

// Seed replaces the whole catalog.
func (s *FileStore) Seed(ctx context.Context, products []contractx.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, prevNext := s.products, s.nextID
	s.products = append([]contractx.Product{}, products...)
	s.nextID = maxID(s.products) + 1
	if err := s.save(); err != nil {
		s.products, s.nextID = prev, prevNext
		return err
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".products-*.json")
	if err != nil {
		return fmt.Errorf("create temp catalog file: %w", err)
	}
	defer os.Remove(tmp.Name())

	products := s.products
	if products == nil {
		products = []contractx.Product{}
	}
	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(products); err != nil {
		tmp.Close()
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp catalog file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace catalog file: %w", err)
	}
	return nil
}

func maxID(products []contractx.Product) int {
	highest := 0
	for _, p := range products {
		if p.ID > highest {
			highest = p.ID
		}
	}
	return highest
}
