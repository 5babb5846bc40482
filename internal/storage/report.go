package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Report represents an analyzed report text
type Report struct {
	ID              uuid.UUID
	ClientID        string
	Title           string
	Content         string
	ContentHash     string
	FindingCount    int
	HighestSeverity string
	CreatedAt       time.Time
}

// ReportRepository defines the interface for report storage operations
type ReportRepository interface {
	Create(ctx context.Context, report *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	GetByHash(ctx context.Context, clientID, hash string) (*Report, error)
	ListByClient(ctx context.Context, clientID string, limit int) ([]*Report, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostgresReportRepository implements ReportRepository using PostgreSQL
type PostgresReportRepository struct {
	db *sql.DB
}

// NewPostgresReportRepository creates a new PostgresReportRepository
func NewPostgresReportRepository(db *sql.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

// Create inserts a new report into the database
func (r *PostgresReportRepository) Create(ctx context.Context, report *Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO reports (id, client_id, title, content, content_hash, finding_count, highest_severity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.ClientID,
		report.Title,
		report.Content,
		report.ContentHash,
		report.FindingCount,
		report.HighestSeverity,
		report.CreatedAt,
	)

	return err
}

const reportColumns = `id, client_id, title, content, content_hash, finding_count, highest_severity, created_at`

func scanReport(row interface{ Scan(...any) error }) (*Report, error) {
	report := &Report{}
	err := row.Scan(
		&report.ID,
		&report.ClientID,
		&report.Title,
		&report.Content,
		&report.ContentHash,
		&report.FindingCount,
		&report.HighestSeverity,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// GetByID retrieves a report by its ID
func (r *PostgresReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	report, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return report, nil
}

// GetByHash retrieves a client's report by its content hash
func (r *PostgresReportRepository) GetByHash(ctx context.Context, clientID, hash string) (*Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE client_id = $1 AND content_hash = $2`

	report, err := scanReport(r.db.QueryRowContext(ctx, query, clientID, hash))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return report, nil
}

// ListByClient retrieves the most recent reports of a client
func (r *PostgresReportRepository) ListByClient(ctx context.Context, clientID string, limit int) ([]*Report, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + reportColumns + `
		FROM reports
		WHERE client_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, clientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}

// Delete removes a report and, through the foreign key, its findings
func (r *PostgresReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reports WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
