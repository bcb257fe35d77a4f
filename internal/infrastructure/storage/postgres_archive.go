// Package storage archives dispatched alerts in Postgres. The archive is a
// boundary consumer: it is written best-effort and never feeds back into the
// pipeline.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"darkwebmonitor/internal/domain"
	"darkwebmonitor/internal/ports"
)

// PostgresArchive persists alerts into the alerts table.
type PostgresArchive struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.AlertArchive = (*PostgresArchive)(nil)

// NewPostgresArchive wires a sql.DB. A nil db disables archiving.
func NewPostgresArchive(db *sql.DB) *PostgresArchive {
	return &PostgresArchive{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Store inserts one alert; re-dispatches of the same URL are ignored.
func (a *PostgresArchive) Store(ctx context.Context, alert domain.Alert) error {
	if a.db == nil {
		return nil
	}

	reliability := sql.NullFloat64{}
	if alert.Enhanced != nil {
		reliability = sql.NullFloat64{Float64: alert.SourceReliability, Valid: true}
	}

	query := a.builder.
		Insert("alerts").
		Columns(
			"id", "source", "url", "title", "raw_text",
			"matched_term", "category", "severity", "confidence_score",
			"target_priority", "target_category", "source_reliability",
			"detected_at", "analyzed_at",
		).
		Values(
			uuid.NewString(), alert.Source, alert.URL, alert.Title, alert.RawText,
			alert.MatchedTerm, alert.Category, string(alert.Severity), alert.ConfidenceScore,
			nullable(alert.TargetPriority), nullable(alert.TargetCategory), reliability,
			alert.Timestamp, alert.AnalysisTimestamp,
		).
		Suffix("ON CONFLICT (url) DO NOTHING")

	if _, err := query.RunWith(a.db).ExecContext(ctx); err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func nullable(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
