package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

var _ EnrichmentRepository = (*enrichmentRepository)(nil)

// enrichmentRepository handles database operations for persisted catalog enrichment
type enrichmentRepository struct {
	db *DB
}

// NewEnrichmentRepository creates a new enrichment repository
func NewEnrichmentRepository(db *DB) EnrichmentRepository {
	return &enrichmentRepository{db: db}
}

func (r *enrichmentRepository) GetRecord(ctx context.Context, mediaKind, subjectID, region string) (*EnrichmentRecord, error) {
	var rec EnrichmentRecord
	var providersJSON string

	err := r.db.QueryRowContext(ctx, `
		SELECT media_kind, subject_id, region, title, release_year,
		       COALESCE(poster_url, ''), COALESCE(providers, '[]'), updated_at
		FROM enrichment
		WHERE media_kind = ? AND subject_id = ? AND region = ?
	`, mediaKind, subjectID, region).Scan(
		&rec.MediaKind, &rec.SubjectID, &rec.Region, &rec.Title,
		&rec.ReleaseYear, &rec.PosterURL, &providersJSON, &rec.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrichment record: %w", err)
	}

	if err := json.Unmarshal([]byte(providersJSON), &rec.Providers); err != nil {
		return nil, fmt.Errorf("failed to decode providers column: %w", err)
	}

	return &rec, nil
}

func (r *enrichmentRepository) UpsertRecord(ctx context.Context, rec EnrichmentRecord) error {
	providers := rec.Providers
	if providers == nil {
		providers = []string{}
	}
	providersJSON, err := json.Marshal(providers)
	if err != nil {
		return fmt.Errorf("failed to encode providers column: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO enrichment (media_kind, subject_id, region, title, release_year, poster_url, providers, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (media_kind, subject_id, region) DO UPDATE SET
			title = excluded.title,
			release_year = excluded.release_year,
			poster_url = excluded.poster_url,
			providers = excluded.providers,
			updated_at = excluded.updated_at
	`, rec.MediaKind, rec.SubjectID, rec.Region, rec.Title, rec.ReleaseYear,
		rec.PosterURL, string(providersJSON), rec.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert enrichment record: %w", err)
	}

	return nil
}

func (r *enrichmentRepository) GetStaleRecords(ctx context.Context, olderThan time.Time, limit int) ([]EnrichmentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT media_kind, subject_id, region, title, release_year,
		       COALESCE(poster_url, ''), COALESCE(providers, '[]'), updated_at
		FROM enrichment
		WHERE updated_at < ?
		ORDER BY updated_at
		LIMIT ?
	`, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get stale enrichment records: %w", err)
	}
	defer rows.Close()

	var records []EnrichmentRecord
	for rows.Next() {
		var rec EnrichmentRecord
		var providersJSON string
		err := rows.Scan(
			&rec.MediaKind, &rec.SubjectID, &rec.Region, &rec.Title,
			&rec.ReleaseYear, &rec.PosterURL, &providersJSON, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrichment row: %w", err)
		}
		if err := json.Unmarshal([]byte(providersJSON), &rec.Providers); err != nil {
			return nil, fmt.Errorf("failed to decode providers column: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrichment rows: %w", err)
	}

	return records, nil
}
