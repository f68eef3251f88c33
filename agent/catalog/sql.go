package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

type productModel struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID       int     `bun:"id,pk,autoincrement"`
	Name     string  `bun:"name,notnull"`
	Price    float64 `bun:"price,notnull"`
	Category string  `bun:"category,notnull"`
	InStock  bool    `bun:"in_stock,notnull"`
}

func (m productModel) toProduct() contractx.Product {
	return contractx.Product{
		ID:       m.ID,
		Name:     m.Name,
		Price:    m.Price,
		Category: m.Category,
		InStock:  m.InStock,
	}
}

func fromProduct(p contractx.Product) productModel {
	return productModel{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
		InStock:  p.InStock,
	}
}

// SQLStore keeps the catalog in a products table on Postgres or SQLite.
type SQLStore struct {
	db *bun.DB
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore connects, creates the products table if needed and seeds it
// when it is empty.
func NewSQLStore(ctx context.Context, backend, dsn string, opts ...StoreOption) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: catalog dsn is required for backend=%s", contractx.ErrValidation, backend)
	}

	var db *bun.DB
	switch backend {
	case BackendPostgres:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		db = bun.NewDB(sqldb, pgdialect.New())
	case BackendSQLite:
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// One writer; in-memory databases also live on a single connection.
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return nil, fmt.Errorf("%w: unsupported sql backend=%q", contractx.ErrValidation, backend)
	}

	s, err := newSQLStore(ctx, db, applyOptions(opts))
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func newSQLStore(ctx context.Context, db *bun.DB, o options) (*SQLStore, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping catalog db: %w", err)
	}
	if _, err := db.NewCreateTable().Model((*productModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("create products table: %w", err)
	}

	s := &SQLStore{db: db}
	if !o.seed {
		return s, nil
	}
	count, err := db.NewSelect().Model((*productModel)(nil)).Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if count == 0 {
		if err := s.Seed(ctx, DefaultProducts()); err != nil {
			return nil, err
		}
		log.Info().Str("dialect", db.Dialect().Name().String()).Msg("catalog table seeded")
	}
	return s, nil
}

func (s *SQLStore) ListProducts(ctx context.Context) ([]contractx.Product, error) {
	var rows []productModel
	if err := s.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]contractx.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toProduct())
	}
	return out, nil
}

func (s *SQLStore) GetProduct(ctx context.Context, id int) (contractx.Product, error) {
	var row productModel
	err := s.db.NewSelect().Model(&row).Where("id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return contractx.Product{}, notFound(id)
	}
	if err != nil {
		return contractx.Product{}, fmt.Errorf("get product id=%d: %w", id, err)
	}
	return row.toProduct(), nil
}

func (s *SQLStore) AddProduct(ctx context.Context, p contractx.NewProduct) (contractx.Product, error) {
	if err := validateNewProduct(p); err != nil {
		return contractx.Product{}, err
	}
	row := productModel{
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
		InStock:  p.InStock,
	}
	if _, err := s.db.NewInsert().Model(&row).Returning("id").Exec(ctx); err != nil {
		return contractx.Product{}, fmt.Errorf("add product: %w", err)
	}
	return row.toProduct(), nil
}

func (s *SQLStore) GetStatistics(ctx context.Context) (contractx.Statistics, error) {
	var (
		count   int
		average float64
	)
	err := s.db.NewSelect().
		Model((*productModel)(nil)).
		ColumnExpr("COUNT(*)").
		ColumnExpr("COALESCE(AVG(price), 0)").
		Scan(ctx, &count, &average)
	if err != nil {
		return contractx.Statistics{}, fmt.Errorf("product statistics: %w", err)
	}
	return contractx.Statistics{Count: count, AveragePrice: average}, nil
}

// Seed replaces the whole catalog in one transaction.
func (s *SQLStore) Seed(ctx context.Context, products []contractx.Product) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*productModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
			return fmt.Errorf("clear products: %w", err)
		}
		if len(products) == 0 {
			return nil
		}
		rows := make([]productModel, 0, len(products))
		for _, p := range products {
			rows = append(rows, fromProduct(p))
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert products: %w", err)
		}
		if s.db.Dialect().Name() == dialect.PG {
			// Explicit ids do not advance the identity sequence.
			if _, err := tx.ExecContext(ctx, "SELECT setval(pg_get_serial_sequence('products', 'id'), (SELECT MAX(id) FROM products))"); err != nil {
				return fmt.Errorf("reset product id sequence: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
