package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	ledger "energy-dashboard/internal/ledger/domain"
)

const defaultReadingsTable = "meter_readings"

// ReadingRepository loads half-hourly meter readings from Postgres into a
// ledger. Rows hold one day per record: date, provenance kind and the 48
// kWh values.
type ReadingRepository struct {
	db    *sql.DB
	table string
}

// RepositoryOption configures the repository.
type RepositoryOption func(*ReadingRepository)

// WithTable overrides the default table name.
func WithTable(table string) RepositoryOption {
	return func(repo *ReadingRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewReadingRepository constructs a repository with the default table name.
func NewReadingRepository(db *sql.DB, opts ...RepositoryOption) *ReadingRepository {
	repo := &ReadingRepository{db: db, table: defaultReadingsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Open connects to Postgres through the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("reading repo: empty dsn")
	}
	return sql.Open("pgx", dsn)
}

// LoadLedger reads every stored day for a meter, ordered by date, and
// builds a ledger with long-gap boundaries resolved.
func (r *ReadingRepository) LoadLedger(ctx context.Context, meterID string) (*ledger.Ledger, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("reading repo: nil db")
	}
	if meterID == "" {
		return nil, errors.New("reading repo: empty meter id")
	}

	query := fmt.Sprintf(`
SELECT reading_date, kind, kwh_x48
FROM %s
WHERE meter_id = $1
ORDER BY reading_date ASC`, r.table)

	rows, err := r.db.QueryContext(ctx, query, meterID)
	if err != nil {
		return nil, fmt.Errorf("reading repo: query readings: %w", err)
	}
	defer rows.Close()

	result := ledger.NewLedger(meterID)
	for rows.Next() {
		var (
			date time.Time
			kind string
			raw  []byte
		)
		if err := rows.Scan(&date, &kind, &raw); err != nil {
			return nil, fmt.Errorf("reading repo: scan reading: %w", err)
		}
		values, err := parseKWHArray(raw)
		if err != nil {
			return nil, fmt.Errorf("reading repo: %s: %w", date.Format("2006-01-02"), err)
		}
		record, err := ledger.NewDayRecord(date, ledger.ReadingKind(kind), values)
		if err != nil {
			return nil, err
		}
		if err := result.Add(date, record); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading repo: iterate readings: %w", err)
	}

	result.ResolveLongGapBoundary()
	return result, nil
}

// parseKWHArray decodes a float8[] column in its postgres text form,
// e.g. {0.5,0.5,...}.
func parseKWHArray(raw []byte) ([]float64, error) {
	text := string(raw)
	if len(text) < 2 || text[0] != '{' || text[len(text)-1] != '}' {
		return nil, errors.New("malformed float array")
	}

	values := make([]float64, 0, ledger.HalfHoursPerDay)
	start := 1
	for i := 1; i < len(text); i++ {
		if text[i] != ',' && text[i] != '}' {
			continue
		}
		var v float64
		if _, err := fmt.Sscanf(text[start:i], "%g", &v); err != nil {
			return nil, fmt.Errorf("malformed float array element %q", text[start:i])
		}
		values = append(values, v)
		start = i + 1
	}
	if len(values) != ledger.HalfHoursPerDay {
		return nil, fmt.Errorf("expected %d readings, got %d", ledger.HalfHoursPerDay, len(values))
	}
	return values, nil
}
