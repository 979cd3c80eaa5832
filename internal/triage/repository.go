package triage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type postgresArchive struct {
	db *sql.DB
}

// NewArchive returns a Postgres-backed archive of completed sessions. The
// profile's nested structures are stored as JSON columns alongside the
// queryable outcome fields.
func NewArchive(db *sql.DB) Archive {
	return &postgresArchive{db: db}
}

func (r *postgresArchive) Save(ctx context.Context, p *PatientProfile) error {
	profileJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshalling profile: %w", err)
	}

	tier := ""
	score := 0.0
	if p.Assessment != nil {
		tier = string(p.Assessment.Tier)
		score = p.Assessment.Score
	}

	query := `
		INSERT INTO triage_sessions (id, stage, emergency, emergency_label, tier, score, profile, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			stage = $2,
			emergency = $3,
			emergency_label = $4,
			tier = $5,
			score = $6,
			profile = $7,
			updated_at = $9
	`
	_, err = r.db.ExecContext(ctx, query,
		p.SessionID, string(p.Stage), p.Emergency, p.EmergencyLabel,
		tier, score, profileJSON, p.CreatedAt, p.UpdatedAt)
	return err
}
