package audit

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a record.
func (r *PGRepo) Create(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO recommendation_audit (
	id, request_id, hero, role, rank, patch, minute, outcome,
	initial_total, final_total, llm_calls, error_code, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	var minute any
	if rec.Minute != nil {
		minute = *rec.Minute
	}
	_, err := r.DB.ExecContext(ctx, query,
		rec.ID,
		nullString(rec.RequestID),
		rec.Hero,
		rec.Role,
		rec.Rank,
		rec.Patch,
		minute,
		rec.Outcome,
		rec.InitialTotal,
		rec.FinalTotal,
		rec.LLMCalls,
		nullString(rec.ErrorCode),
		rec.CreatedAt,
	)
	return err
}

// ListRecent returns up to limit records, newest first.
func (r *PGRepo) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	const query = `
SELECT id, request_id, hero, role, rank, patch, minute, outcome,
	initial_total, final_total, llm_calls, error_code, created_at
FROM recommendation_audit
ORDER BY created_at DESC
LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var (
			rec       Record
			requestID sql.NullString
			minute    sql.NullInt64
			errorCode sql.NullString
		)
		if err := rows.Scan(
			&rec.ID,
			&requestID,
			&rec.Hero,
			&rec.Role,
			&rec.Rank,
			&rec.Patch,
			&minute,
			&rec.Outcome,
			&rec.InitialTotal,
			&rec.FinalTotal,
			&rec.LLMCalls,
			&errorCode,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.RequestID = requestID.String
		rec.ErrorCode = errorCode.String
		if minute.Valid {
			m := int(minute.Int64)
			rec.Minute = &m
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
