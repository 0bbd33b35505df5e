package repository

import (
	"context"

	"github.com/sunrisehealth/portal-api/internal/model"
)

// All repository interfaces in one file
type (
	// RosterRepository persists the whole patient roster as one unit.
	// Load returns a not-found error (pkg/errors) when no prior roster
	// exists, so the caller can decide to seed.
	RosterRepository interface {
		Load(ctx context.Context) ([]model.Patient, error)
		Save(ctx context.Context, patients []model.Patient) error
	}

	// TimelineRepository persists the dashboard activity feed.
	TimelineRepository interface {
		Append(ctx context.Context, event model.TimelineEvent) error
		List(ctx context.Context, limit int) ([]model.TimelineEvent, error)
	}
)
