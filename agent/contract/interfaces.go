package contract

import "context"

// Catalog is the product collaborator. GetProduct wraps ErrNotFound for an
// unknown id; GetStatistics reports an average of 0 for an empty catalog.
type Catalog interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int) (Product, error)
	AddProduct(ctx context.Context, p NewProduct) (Product, error)
	GetStatistics(ctx context.Context) (Statistics, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, d Decision) (Outcome, error)
}
