package store

import (
	"context"
	"fmt"

	"github.com/msrikanth38/90s-jar/internal/models"
)

// ListSettings returns every stored preference
func (q *Queries) ListSettings(ctx context.Context) ([]models.Setting, error) {
	settings := []models.Setting{}
	if err := q.selectAll(ctx, &settings, "SELECT key, COALESCE(value, '') AS value FROM settings ORDER BY key"); err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

// PutSetting stores value under key, replacing any previous value
func (q *Queries) PutSetting(ctx context.Context, key, value string) error {
	_, err := q.exec(ctx, `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	return nil
}
