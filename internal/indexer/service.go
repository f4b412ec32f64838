package indexer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipstream/crossmatch/internal/database/sqlc"
)

// Service is the provider registry backed by the indexer table.
type Service struct {
	queries *sqlc.Queries
	logger  *zerolog.Logger
	now     func() time.Time
}

// NewService creates a new indexer service.
func NewService(db *sql.DB, logger *zerolog.Logger) *Service {
	subLogger := logger.With().Str("component", "indexer").Logger()
	return &Service{
		queries: sqlc.New(db),
		logger:  &subLogger,
		now:     time.Now,
	}
}

// SetClock replaces the clock used to evaluate retry windows.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Get retrieves an indexer by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Indexer, error) {
	row, err := s.queries.GetIndexer(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get indexer: %w", err)
	}
	return rowToIndexer(row), nil
}

// List returns all indexers.
func (s *Service) List(ctx context.Context) ([]*Indexer, error) {
	rows, err := s.queries.ListIndexers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexers: %w", err)
	}
	return rowsToIndexers(rows), nil
}

// ListEnabled returns the indexers that are enabled and outside any retry
// window. The set is read from the store on every call.
func (s *Service) ListEnabled(ctx context.Context) ([]*Indexer, error) {
	rows, err := s.queries.ListEnabledIndexers(ctx, s.now().UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled indexers: %w", err)
	}
	return rowsToIndexers(rows), nil
}

// Create adds a new indexer. Indexers are enabled unless the input says otherwise.
func (s *Service) Create(ctx context.Context, input CreateIndexerInput) (*Indexer, error) {
	rawURL := strings.TrimSpace(input.URL)
	if rawURL == "" {
		return nil, NewConfigError("url is required", nil)
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, NewConfigError(fmt.Sprintf("invalid url %q", rawURL), err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = u.Host
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	row, err := s.queries.CreateIndexer(ctx, sqlc.CreateIndexerParams{
		Name:    name,
		Url:     rawURL,
		Enabled: boolToInt(enabled),
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrDuplicateURL
		}
		return nil, fmt.Errorf("failed to create indexer: %w", err)
	}

	s.logger.Info().Int64("id", row.ID).Str("name", row.Name).Bool("enabled", enabled).Msg("Created indexer")
	return rowToIndexer(row), nil
}

// SetEnabled enables or disables an indexer.
func (s *Service) SetEnabled(ctx context.Context, id int64, enabled bool) (*Indexer, error) {
	n, err := s.queries.UpdateIndexerEnabled(ctx, sqlc.UpdateIndexerEnabledParams{
		Enabled: boolToInt(enabled),
		ID:      id,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update indexer: %w", err)
	}
	if n == 0 {
		return nil, NewNotFoundError(id)
	}

	s.logger.Info().Int64("id", id).Bool("enabled", enabled).Msg("Updated indexer")
	return s.Get(ctx, id)
}

// SetRetryAfter stores a provider-reported status and the instant before
// which the indexer must not be queried. A nil until clears the window.
func (s *Service) SetRetryAfter(ctx context.Context, id int64, status string, until *time.Time) error {
	params := sqlc.UpdateIndexerRetryAfterParams{
		Status: sql.NullString{String: status, Valid: status != ""},
		ID:     id,
	}
	if until != nil {
		params.RetryAfter = sql.NullInt64{Int64: until.UnixMilli(), Valid: true}
	}

	n, err := s.queries.UpdateIndexerRetryAfter(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to update indexer status: %w", err)
	}
	if n == 0 {
		return NewNotFoundError(id)
	}
	return nil
}

// Delete removes an indexer along with its search history.
func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteIndexer(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete indexer: %w", err)
	}
	if n == 0 {
		return NewNotFoundError(id)
	}
	s.logger.Info().Int64("id", id).Msg("Deleted indexer")
	return nil
}

func rowToIndexer(row *sqlc.Indexer) *Indexer {
	idx := &Indexer{
		ID:        row.ID,
		Name:      row.Name,
		URL:       row.Url,
		Enabled:   row.Enabled != 0,
		CreatedAt: time.UnixMilli(row.CreatedAt),
	}
	if row.Status.Valid {
		idx.Status = row.Status.String
	}
	if row.RetryAfter.Valid {
		t := time.UnixMilli(row.RetryAfter.Int64)
		idx.RetryAfter = &t
	}
	return idx
}

func rowsToIndexers(rows []*sqlc.Indexer) []*Indexer {
	indexers := make([]*Indexer, 0, len(rows))
	for _, row := range rows {
		indexers = append(indexers, rowToIndexer(row))
	}
	return indexers
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
