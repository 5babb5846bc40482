package storage

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/todmy/report-checker/internal/contradiction"
)

func TestNewFinding_RoundTrip(t *testing.T) {
	reportID := uuid.New()
	m := contradiction.Match{
		Type:        contradiction.TypeQuantitative,
		Severity:    contradiction.SeverityMedium,
		Description: "Conflicting quantitative directions mentioned together",
		Evidence:    []string{"Prices increase then decrease"},
		Confidence:  85,
		Location:    &contradiction.Location{Start: 7, End: 29, Context: "Prices increase then decrease"},
		Suggestions: []string{"Quantify the change"},
		Source:      contradiction.SourcePattern,
	}

	f := NewFinding(reportID, 4, m)
	if f.ReportID != reportID || f.Position != 4 {
		t.Errorf("unexpected identity: %+v", f)
	}
	if !f.LocStart.Valid || f.LocStart.Int64 != 7 {
		t.Errorf("expected location start 7, got %+v", f.LocStart)
	}

	if got := f.Match(); !reflect.DeepEqual(got, m) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, m)
	}

	noLoc := NewFinding(reportID, 0, contradiction.Match{Evidence: []string{"x"}})
	if noLoc.LocStart.Valid || noLoc.Match().Location != nil {
		t.Error("expected no location")
	}
}

func TestNewFinding_NilSlicesEncodeAsEmptyArrays(t *testing.T) {
	f := NewFinding(uuid.New(), 0, contradiction.Match{
		Type:     contradiction.TypeFactual,
		Severity: contradiction.SeverityLow,
	})

	for name, values := range map[string][]string{"evidence": f.Evidence, "suggestions": f.Suggestions} {
		v, err := pq.Array(values).Value()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if v != "{}" {
			t.Errorf("%s: expected empty array literal, got %#v", name, v)
		}
	}
}

func TestPostgresFindingRepository_CreateBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresFindingRepository(db)
	reportID := uuid.New()

	findings := []*Finding{
		NewFinding(reportID, 0, contradiction.Match{
			Type: contradiction.TypeLogical, Severity: contradiction.SeverityCritical,
			Description: "negated", Evidence: []string{"a", "b"}, Confidence: 90, Source: "cross-sentence",
		}),
		NewFinding(reportID, 1, contradiction.Match{
			Type: contradiction.TypeSemantic, Severity: contradiction.SeverityMedium,
			Description: "opposed", Evidence: []string{"c"}, Confidence: 70, Source: "semantic",
		}),
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO findings")
	for _, f := range findings {
		prep.ExpectExec().
			WithArgs(sqlmock.AnyArg(), reportID, f.Position, f.Type, f.Severity, f.Description, sqlmock.AnyArg(),
				f.Confidence, nil, nil, nil, sqlmock.AnyArg(), f.Source, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	if err := repo.CreateBatch(context.Background(), findings); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	for _, f := range findings {
		if f.ID == uuid.Nil {
			t.Error("expected finding ID to be generated")
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresFindingRepository_CreateBatch_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	if err := NewPostgresFindingRepository(db).CreateBatch(context.Background(), nil); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresFindingRepository_GetByReportID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	repo := NewPostgresFindingRepository(db)
	reportID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "report_id", "position", "type", "severity", "description", "evidence",
		"confidence", "loc_start", "loc_end", "loc_context", "suggestions", "source", "created_at"}).
		AddRow(uuid.NewString(), reportID.String(), 0, "quantitative", "medium", "directions", "{\"Prices rise then fall\"}",
			85, int64(7), int64(21), "Prices rise then fall", "{\"Check data\",\"Quantify\"}", "pattern", time.Now()).
		AddRow(uuid.NewString(), reportID.String(), 1, "semantic", "high", "cross", "{\"A\",\"B\"}",
			75, nil, nil, nil, "{}", "cross-sentence", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM findings WHERE report_id").
		WithArgs(reportID).
		WillReturnRows(rows)

	findings, err := repo.GetByReportID(context.Background(), reportID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(findings))
	}

	first := findings[0].Match()
	if first.Location == nil || first.Location.Start != 7 || first.Location.End != 21 {
		t.Errorf("unexpected location: %+v", first.Location)
	}
	if !reflect.DeepEqual(first.Suggestions, []string{"Check data", "Quantify"}) {
		t.Errorf("unexpected suggestions: %v", first.Suggestions)
	}

	second := findings[1].Match()
	if second.Location != nil {
		t.Errorf("expected no location, got %+v", second.Location)
	}
	if !reflect.DeepEqual(second.Evidence, []string{"A", "B"}) {
		t.Errorf("unexpected evidence: %v", second.Evidence)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
