package engine

import (
	"context"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/cooperative-society-ledger/internal/domain/snapshot"
)

// Settings returns the society settings of the current state
func (s *Service) Settings() snapshot.Settings {
	return s.current().Settings
}

// UpdateSettings replaces the society settings
func (s *Service) UpdateSettings(ctx context.Context, settings snapshot.Settings) (snapshot.Settings, error) {
	err := s.mutate(ctx, "update settings", func(st *State, _ time.Time) ([]change, error) {
		if err := settings.Validate(); err != nil {
			return nil, err
		}
		st.Settings = settings
		return []change{{shared.EventSettingsUpdated, "settings", settings}}, nil
	})
	if err != nil {
		return snapshot.Settings{}, err
	}
	return settings, nil
}
