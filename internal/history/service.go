package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipstream/crossmatch/internal/database/sqlc"
)

var (
	ErrSearcheeNotFound = errors.New("searchee not found")
	ErrEmptyName        = errors.New("searchee name is required")
)

// Service is the persisted search history store. Admission only reads
// through Aggregate; writers are the search component and the CLI.
type Service struct {
	db      *sql.DB
	queries *sqlc.Queries
	logger  *zerolog.Logger
}

// NewService creates a new history service.
func NewService(db *sql.DB, logger *zerolog.Logger) *Service {
	subLogger := logger.With().Str("component", "history").Logger()
	return &Service{
		db:      db,
		queries: sqlc.New(db),
		logger:  &subLogger,
	}
}

// EnsureSearchee registers name if it is not yet known and returns its row.
func (s *Service) EnsureSearchee(ctx context.Context, name string) (*Searchee, error) {
	return s.ensureSearchee(ctx, s.queries, name, time.Now())
}

func (s *Service) ensureSearchee(ctx context.Context, q *sqlc.Queries, name string, at time.Time) (*Searchee, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	ms := at.UnixMilli()
	row, err := q.UpsertSearchee(ctx, sqlc.UpsertSearcheeParams{
		Name:      name,
		FirstSeen: ms,
		LastSeen:  ms,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert searchee: %w", err)
	}
	return rowToSearchee(row), nil
}

// GetSearchee returns the searchee row for name.
func (s *Service) GetSearchee(ctx context.Context, name string) (*Searchee, error) {
	row, err := s.queries.GetSearcheeByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSearcheeNotFound
		}
		return nil, fmt.Errorf("failed to get searchee: %w", err)
	}
	return rowToSearchee(row), nil
}

// RecordSearch stores that name was searched on each of indexerIDs at at.
// Existing rows keep their earliest first search and latest last search.
func (s *Service) RecordSearch(ctx context.Context, name string, indexerIDs []int64, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := s.queries.WithTx(tx)
	searchee, err := s.ensureSearchee(ctx, q, name, at)
	if err != nil {
		return err
	}

	ms := at.UnixMilli()
	for _, id := range indexerIDs {
		if err := q.UpsertTimestamp(ctx, sqlc.UpsertTimestampParams{
			SearcheeID:    searchee.ID,
			IndexerID:     id,
			FirstSearched: ms,
			LastSearched:  ms,
		}); err != nil {
			return fmt.Errorf("failed to record search on indexer %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit search record: %w", err)
	}

	s.logger.Debug().
		Str("searchee", name).
		Ints64("indexers", indexerIDs).
		Time("at", at).
		Msg("Recorded search")
	return nil
}

// Aggregate returns the earliest first search and the latest last search of
// name across indexerIDs, in one query. Indexers without a record do not
// contribute, so a never-searched searchee yields an empty aggregate.
func (s *Service) Aggregate(ctx context.Context, name string, indexerIDs []int64) (Aggregate, error) {
	row, err := s.queries.GetTimestampAggregate(ctx, sqlc.GetTimestampAggregateParams{
		Name:       name,
		IndexerIds: indexerIDs,
	})
	if err != nil {
		return Aggregate{}, fmt.Errorf("failed to aggregate timestamps: %w", err)
	}
	return Aggregate{
		FirstSearchedAny: millisToTime(row.FirstSearchedAny),
		LastSearchedAll:  millisToTime(row.LastSearchedAll),
		SearchedIndexers: row.SearchedIndexers,
	}, nil
}

// ListTimestamps returns every timestamp record of name ordered by indexer.
func (s *Service) ListTimestamps(ctx context.Context, name string) ([]Timestamp, error) {
	rows, err := s.queries.ListTimestampsBySearchee(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list timestamps: %w", err)
	}
	out := make([]Timestamp, 0, len(rows))
	for _, row := range rows {
		out = append(out, Timestamp{
			IndexerID:     row.IndexerID,
			FirstSearched: millisToTime(row.FirstSearched),
			LastSearched:  millisToTime(row.LastSearched),
		})
	}
	return out, nil
}

// Count returns the number of known searchees.
func (s *Service) Count(ctx context.Context) (int64, error) {
	n, err := s.queries.CountSearchees(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count searchees: %w", err)
	}
	return n, nil
}

func rowToSearchee(row *sqlc.Searchee) *Searchee {
	return &Searchee{
		ID:        row.ID,
		Name:      row.Name,
		FirstSeen: millisToTime(row.FirstSeen),
		LastSeen:  millisToTime(row.LastSeen),
	}
}
