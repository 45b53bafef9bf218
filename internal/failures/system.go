package failures

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/drugx/pkg/pagination"
)

// System defines the persistence and browsing contract for failed lookups.
type System interface {
	Handler() *Handler

	Insert(ctx context.Context, drugs []string, source Source) (*Event, error)

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Event], error)

	Find(ctx context.Context, id uuid.UUID) (*Event, error)
	Summary(ctx context.Context, since time.Time) (*Summary, error)
}
