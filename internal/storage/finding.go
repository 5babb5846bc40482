package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/todmy/report-checker/internal/contradiction"
)

// Finding represents a persisted contradiction finding
type Finding struct {
	ID          uuid.UUID
	ReportID    uuid.UUID
	Position    int
	Type        string
	Severity    string
	Description string
	Evidence    []string
	Confidence  int
	LocStart    sql.NullInt64
	LocEnd      sql.NullInt64
	LocContext  sql.NullString
	Suggestions []string
	Source      string
	CreatedAt   time.Time
}

// FindingRepository defines the interface for finding storage operations
type FindingRepository interface {
	CreateBatch(ctx context.Context, findings []*Finding) error
	GetByReportID(ctx context.Context, reportID uuid.UUID) ([]*Finding, error)
	DeleteByReportID(ctx context.Context, reportID uuid.UUID) error
}

// NewFinding converts an engine match into a finding at the given rank position
func NewFinding(reportID uuid.UUID, position int, m contradiction.Match) *Finding {
	f := &Finding{
		ReportID:    reportID,
		Position:    position,
		Type:        string(m.Type),
		Severity:    string(m.Severity),
		Description: m.Description,
		Evidence:    m.Evidence,
		Confidence:  m.Confidence,
		Suggestions: m.Suggestions,
		Source:      m.Source,
	}
	// pq.Array encodes a nil slice as NULL, which the NOT NULL columns reject.
	if f.Evidence == nil {
		f.Evidence = []string{}
	}
	if f.Suggestions == nil {
		f.Suggestions = []string{}
	}
	if m.Location != nil {
		f.LocStart = sql.NullInt64{Int64: int64(m.Location.Start), Valid: true}
		f.LocEnd = sql.NullInt64{Int64: int64(m.Location.End), Valid: true}
		f.LocContext = sql.NullString{String: m.Location.Context, Valid: true}
	}
	return f
}

// Match converts the finding back into an engine match
func (f *Finding) Match() contradiction.Match {
	m := contradiction.Match{
		Type:        contradiction.Type(f.Type),
		Severity:    contradiction.Severity(f.Severity),
		Description: f.Description,
		Evidence:    f.Evidence,
		Confidence:  f.Confidence,
		Suggestions: f.Suggestions,
		Source:      f.Source,
	}
	if f.LocStart.Valid && f.LocEnd.Valid {
		m.Location = &contradiction.Location{
			Start:   int(f.LocStart.Int64),
			End:     int(f.LocEnd.Int64),
			Context: f.LocContext.String,
		}
	}
	return m
}

// PostgresFindingRepository implements FindingRepository using PostgreSQL
type PostgresFindingRepository struct {
	db *sql.DB
}

// NewPostgresFindingRepository creates a new PostgresFindingRepository
func NewPostgresFindingRepository(db *sql.DB) *PostgresFindingRepository {
	return &PostgresFindingRepository{db: db}
}

// CreateBatch inserts multiple findings in a single transaction
func (r *PostgresFindingRepository) CreateBatch(ctx context.Context, findings []*Finding) error {
	if len(findings) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO findings (id, report_id, position, type, severity, description, evidence,
			confidence, loc_start, loc_end, loc_context, suggestions, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, f := range findings {
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
		if f.CreatedAt.IsZero() {
			f.CreatedAt = now
		}

		_, err := stmt.ExecContext(ctx,
			f.ID,
			f.ReportID,
			f.Position,
			f.Type,
			f.Severity,
			f.Description,
			pq.Array(f.Evidence),
			f.Confidence,
			f.LocStart,
			f.LocEnd,
			f.LocContext,
			pq.Array(f.Suggestions),
			f.Source,
			f.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByReportID retrieves all findings of a report in rank order
func (r *PostgresFindingRepository) GetByReportID(ctx context.Context, reportID uuid.UUID) ([]*Finding, error) {
	query := `
		SELECT id, report_id, position, type, severity, description, evidence,
			confidence, loc_start, loc_end, loc_context, suggestions, source, created_at
		FROM findings
		WHERE report_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var findings []*Finding
	for rows.Next() {
		f := &Finding{}
		err := rows.Scan(
			&f.ID,
			&f.ReportID,
			&f.Position,
			&f.Type,
			&f.Severity,
			&f.Description,
			pq.Array(&f.Evidence),
			&f.Confidence,
			&f.LocStart,
			&f.LocEnd,
			&f.LocContext,
			pq.Array(&f.Suggestions),
			&f.Source,
			&f.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return findings, nil
}

// DeleteByReportID removes all findings of a report
func (r *PostgresFindingRepository) DeleteByReportID(ctx context.Context, reportID uuid.UUID) error {
	query := `DELETE FROM findings WHERE report_id = $1`
	_, err := r.db.ExecContext(ctx, query, reportID)
	return err
}
