package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Abhishek-bramhawale/PYQuer-server/internal/models"
)

type HistoryRepo struct {
	db *DB
}

func NewHistoryRepo(db *DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) SaveHistory(ctx context.Context, rec models.HistoryRecord) error {
	if rec.HistoryID == "" {
		rec.HistoryID = uuid.NewString()
	}
	papers, err := json.Marshal(rec.Papers)
	if err != nil {
		return fmt.Errorf("encode history papers: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO analysis_history (history_id, user_id, papers, prompt, papers_text, analysis, provider_used, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.HistoryID, rec.UserID, papers, rec.Prompt, rec.PapersText, rec.Analysis, rec.ProviderUsed, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func (r *HistoryRepo) ListHistoryByUser(ctx context.Context, userID string) ([]models.HistoryRecord, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT history_id::text, user_id::text, papers, prompt, papers_text, analysis, provider_used, created_at
		 FROM analysis_history WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	out := make([]models.HistoryRecord, 0)
	for rows.Next() {
		var rec models.HistoryRecord
		var papers []byte
		if err := rows.Scan(&rec.HistoryID, &rec.UserID, &papers, &rec.Prompt, &rec.PapersText, &rec.Analysis, &rec.ProviderUsed, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if err := json.Unmarshal(papers, &rec.Papers); err != nil {
			return nil, fmt.Errorf("decode history papers: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}
