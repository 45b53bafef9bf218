package interactions

import (
	"context"

	"github.com/JaimeStill/drugx/pkg/pagination"
)

// System defines the curated interaction store contract.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Record], error)

	// Find returns the record for an unordered pair of names, matched
	// case-insensitively in both directions.
	Find(ctx context.Context, a, b string) (*Record, error)

	// Provision loads the dataset at path when the store is empty and
	// reports how many rows were inserted.
	Provision(ctx context.Context, path string) (int, error)
}
