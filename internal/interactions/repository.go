package interactions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/JaimeStill/drugx/pkg/pagination"
	"github.com/JaimeStill/drugx/pkg/query"
	"github.com/JaimeStill/drugx/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an interaction repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "interactions"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	page.Apply(qb, "DrugA", "DrugB", "DDInterA", "DDInterB")
	filters.Apply(qb)

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", repository.MapError(err, ErrNotFound, ErrDuplicate))
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, a, b string) (*Record, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WherePair("DrugA", "DrugB", a, b).
		BuildPage(1, 1)

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

func (r *repo) Provision(ctx context.Context, path string) (int, error) {
	populated, err := repository.Exists(ctx, r.db, projection.Table())
	if err != nil {
		return 0, fmt.Errorf("check dataset: %w", err)
	}
	if populated {
		r.logger.InfoContext(ctx, "interaction dataset already provisioned")
		return 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := ReadDataset(f)
	if err != nil {
		return 0, err
	}

	q := `
		INSERT INTO ddinter(ddinter_id_a, ddinter_id_b, drug_a, drug_b, severity, categories)
		VALUES ($1, $2, $3, $4, $5::severity_level, $6)
		ON CONFLICT (ddinter_id_a, ddinter_id_b) DO NOTHING`

	inserted, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int, error) {
		return repository.ExecEach(ctx, tx, q, records, func(rec Record) []any {
			return []any{
				rec.DDInterA,
				rec.DDInterB,
				rec.DrugA,
				rec.DrugB,
				string(rec.Severity),
				strings.Join(rec.Categories, ","),
			}
		})
	})
	if err != nil {
		return 0, fmt.Errorf("provision dataset: %w", err)
	}

	r.logger.InfoContext(ctx, "interaction dataset provisioned", "path", path, "rows", inserted)
	return inserted, nil
}
