package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/domain"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/ports"
)

// AvailabilityService implements doctor schedule management.
type AvailabilityService struct {
	repo   ports.AvailabilityRepository
	logger zerolog.Logger
}

func NewAvailabilityService(repo ports.AvailabilityRepository, logger zerolog.Logger) *AvailabilityService {
	return &AvailabilityService{repo: repo, logger: logger}
}

// Set replaces the doctor's availability wholesale. Subsequent submissions
// overwrite the previous Days list, they never merge.
func (s *AvailabilityService) Set(ctx context.Context, doctorID string, days []domain.AvailabilityDay) (*domain.Availability, error) {
	for _, day := range days {
		if len(day.Slots) == 0 {
			return nil, domain.ErrEmptySlots
		}
	}

	stored, err := s.repo.Upsert(ctx, &domain.Availability{
		DoctorID: doctorID,
		Days:     days,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("doctor_id", doctorID).Int("days", len(days)).Msg("availability replaced")
	return stored, nil
}

func (s *AvailabilityService) Get(ctx context.Context, doctorID string) (*domain.Availability, error) {
	return s.repo.FindByDoctorID(ctx, doctorID)
}
