package service

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/msrikanth38/90s-jar/internal/store"
	"github.com/msrikanth38/90s-jar/internal/util"
)

// SettingsService stores free-form business preferences such as the shop
// name or default delivery charge
type SettingsService struct {
	store *store.Store
}

// NewSettingsService creates a new settings service
func NewSettingsService(store *store.Store) *SettingsService {
	return &SettingsService{store: store}
}

// GetSettings returns every setting keyed by name
func (s *SettingsService) GetSettings(ctx context.Context) (map[string]string, error) {
	ctx, span := util.StartSpan(ctx, "SettingsService.GetSettings")
	defer span.End()

	settings, err := s.store.ListSettings(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(settings))
	for _, setting := range settings {
		out[setting.Key] = setting.Value
	}
	return out, nil
}

// UpdateSettings merges values into the stored settings. String values are
// stored as-is; any other JSON value is stored as its JSON text.
func (s *SettingsService) UpdateSettings(ctx context.Context, values map[string]json.RawMessage) error {
	ctx, span := util.StartSpan(ctx, "SettingsService.UpdateSettings")
	defer span.End()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return s.store.WithTx(ctx, func(q *store.Queries) error {
		for _, k := range keys {
			if err := q.PutSetting(ctx, k, settingText(values[k])); err != nil {
				return err
			}
		}
		return nil
	})
}

func settingText(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}
