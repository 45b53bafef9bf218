package failures

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/drugx/pkg/pagination"
	"github.com/JaimeStill/drugx/pkg/query"
	"github.com/JaimeStill/drugx/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a failure repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "failures"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Insert(ctx context.Context, drugs []string, source Source) (*Event, error) {
	if drugs == nil {
		drugs = []string{}
	}
	payload, err := json.Marshal(drugs)
	if err != nil {
		return nil, fmt.Errorf("encode drugs: %w", err)
	}

	q := `
		INSERT INTO failed_drug_lookups(drugs, source)
		VALUES ($1::jsonb, $2)
		RETURNING id, drugs, source, failed_at`

	e, err := repository.QueryOne(ctx, r.db, q, []any{string(payload), string(source)}, scanEvent)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Event], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	page.Apply(qb, "Source")
	filters.Apply(qb)

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanEvent)
	if err != nil {
		return nil, fmt.Errorf("list failures: %w", repository.MapError(err, ErrNotFound, ErrDuplicate))
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Event, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanEvent)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) Summary(ctx context.Context, since time.Time) (*Summary, error) {
	q := `
		SELECT source, COUNT(*)
		FROM failed_drug_lookups
		WHERE failed_at >= $1
		GROUP BY source
		ORDER BY COUNT(*) DESC, source`

	counts, err := repository.QueryMany(ctx, r.db, q, []any{since}, func(s repository.Scanner) (SourceCount, error) {
		var c SourceCount
		err := s.Scan(&c.Source, &c.Count)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("summarize failures: %w", repository.MapError(err, ErrNotFound, ErrDuplicate))
	}

	summary := &Summary{Since: since, Sources: counts}
	for _, c := range counts {
		summary.Total += c.Count
	}
	return summary, nil
}
