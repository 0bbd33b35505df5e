// Package timeline maintains the dashboard activity feed: one entry
// per roster event, newest first.
package timeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sunrisehealth/portal-api/internal/model"
	"github.com/sunrisehealth/portal-api/internal/repository"
)

type Service struct {
	repo   repository.TimelineRepository
	logger *zerolog.Logger

	mu     sync.Mutex
	nextID int

	now func() time.Time
}

func NewService(repo repository.TimelineRepository, logger *zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		nextID: 1,
		now:    time.Now,
	}
}

// Prime aligns the id counter with any persisted feed so restarts keep
// ids increasing.
func (s *Service) Prime(ctx context.Context) {
	events, err := s.repo.List(ctx, 0)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to prime timeline ids")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range events {
		if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
	}
}

// RecordEligibilityCheck logs a completed eligibility decision.
func (s *Service) RecordEligibilityCheck(ctx context.Context, patientName string, eligible bool) {
	outcome := "Eligible"
	icon := model.TimelineIconCheck
	if !eligible {
		outcome = "Not Eligible"
		icon = model.TimelineIconRejected
	}
	s.record(ctx, patientName, fmt.Sprintf("Eligibility check completed: %s.", outcome), icon)
}

// RecordPreAuthSubmitted logs a pre-authorization submission.
func (s *Service) RecordPreAuthSubmitted(ctx context.Context, patientName, procedureCode string) {
	s.record(ctx, patientName, fmt.Sprintf("Pre-Auth Submitted for CPT %s.", procedureCode), model.TimelineIconSubmit)
}

// RecordPatientAdded logs a new roster entry.
func (s *Service) RecordPatientAdded(ctx context.Context, patientName string) {
	s.record(ctx, patientName, "Patient added to the roster.", model.TimelineIconPending)
}

// List returns the most recent events, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]model.TimelineEvent, error) {
	if s == nil {
		return nil, nil
	}
	return s.repo.List(ctx, limit)
}

// record is best-effort: a feed write failure is logged and dropped,
// never propagated into the mutation that produced it.
func (s *Service) record(ctx context.Context, patientName, action string, icon model.TimelineIcon) {
	if s == nil {
		return
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.mu.Unlock()

	event := model.TimelineEvent{
		ID:          id,
		PatientName: patientName,
		Action:      action,
		Timestamp:   s.now().UTC().Format(time.RFC3339),
		Icon:        icon,
	}

	if err := s.repo.Append(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record timeline event")
	}
}
