package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
	"github.com/lawmbass/sleepysquid-drones/internal/domain/repository"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"
	"github.com/lawmbass/sleepysquid-drones/pkg/utils"
)

// CreatePromoInput carries an admin promo create request.
type CreatePromoInput struct {
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	DiscountPercentage int       `json:"discountPercentage"`
	StartDate          time.Time `json:"startDate"`
	EndDate            time.Time `json:"endDate"`
	IsActive           bool      `json:"isActive"`
	CreatedBy          string    `json:"-"`
}

// UpdatePromoInput carries an admin partial update. Nil fields are untouched.
type UpdatePromoInput struct {
	Name               *string    `json:"name,omitempty"`
	Description        *string    `json:"description,omitempty"`
	DiscountPercentage *int       `json:"discountPercentage,omitempty"`
	StartDate          *time.Time `json:"startDate,omitempty"`
	EndDate            *time.Time `json:"endDate,omitempty"`
	IsActive           *bool      `json:"isActive,omitempty"`
}

// PromoService holds the promo lifecycle rules: one active promo per moment.
type PromoService struct {
	promos repository.PromoRepository
	logger logger.Logger
	now    func() time.Time
}

// NewPromoService creates a new promo service
func NewPromoService(promos repository.PromoRepository, logger logger.Logger) *PromoService {
	return &PromoService{
		promos: promos,
		logger: logger,
		now:    time.Now,
	}
}

// Create validates and persists a promo, rejecting any interval that
// intersects another active promo.
func (s *PromoService) Create(ctx context.Context, in CreatePromoInput) (*entity.Promo, error) {
	name := utils.SanitizeText(in.Name)
	if name == "" {
		return nil, ValidationError("name is required")
	}
	if in.DiscountPercentage < 1 || in.DiscountPercentage > 100 {
		return nil, ValidationError("discountPercentage must be between 1 and 100")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, ValidationError("startDate and endDate are required")
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, ValidationError("endDate must be after startDate")
	}

	if in.IsActive {
		if err := s.checkOverlap(ctx, in.StartDate, in.EndDate, ""); err != nil {
			return nil, err
		}
	}

	promo := &entity.Promo{
		Name:               name,
		Description:        utils.SanitizeText(in.Description),
		DiscountPercentage: in.DiscountPercentage,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		IsActive:           in.IsActive,
		CreatedBy:          in.CreatedBy,
	}
	if err := s.promos.Save(ctx, promo); err != nil {
		return nil, fmt.Errorf("failed to save promo: %w", err)
	}

	s.logger.Info("Promo created", "name", name, "discount", in.DiscountPercentage)
	return promo, nil
}

// Update validates each supplied field against the merged document, re-runs
// the overlap check excluding the promo itself and applies the set.
func (s *PromoService) Update(ctx context.Context, id string, in UpdatePromoInput) (*entity.Promo, error) {
	promo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	set := map[string]interface{}{}

	start := promo.StartDate
	end := promo.EndDate
	active := promo.IsActive

	if in.Name != nil {
		name := utils.SanitizeText(*in.Name)
		if name == "" {
			return nil, ValidationError("name cannot be empty")
		}
		set["name"] = name
	}
	if in.Description != nil {
		set["description"] = utils.SanitizeText(*in.Description)
	}
	if in.DiscountPercentage != nil {
		if *in.DiscountPercentage < 1 || *in.DiscountPercentage > 100 {
			return nil, ValidationError("discountPercentage must be between 1 and 100")
		}
		set["discountPercentage"] = *in.DiscountPercentage
	}
	if in.StartDate != nil {
		start = *in.StartDate
		set["startDate"] = start
	}
	if in.EndDate != nil {
		end = *in.EndDate
		set["endDate"] = end
	}
	if in.IsActive != nil {
		active = *in.IsActive
		set["isActive"] = active
	}

	if len(set) == 0 {
		return nil, ValidationError("no fields supplied")
	}
	if !end.After(start) {
		return nil, ValidationError("endDate must be after startDate")
	}
	if active {
		if err := s.checkOverlap(ctx, start, end, id); err != nil {
			return nil, err
		}
	}

	updated, err := s.promos.Update(ctx, id, set)
	if err != nil {
		return nil, fmt.Errorf("failed to update promo: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

func (s *PromoService) checkOverlap(ctx context.Context, start, end time.Time, excludeID string) error {
	overlapping, err := s.promos.FindActiveOverlapping(ctx, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("overlap check failed: %w", err)
	}
	if len(overlapping) > 0 {
		return fmt.Errorf("%w: conflicts with %q", ErrPromoOverlap, overlapping[0].Name)
	}
	return nil
}

// Get returns a promo by id
func (s *PromoService) Get(ctx context.Context, id string) (*entity.Promo, error) {
	promo, err := s.promos.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load promo: %w", err)
	}
	if promo == nil {
		return nil, ErrNotFound
	}
	return promo, nil
}

// List returns promos for the admin dashboard
func (s *PromoService) List(ctx context.Context, page, pageSize int64) ([]*entity.Promo, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.promos.List(ctx, (page-1)*pageSize, pageSize)
}

// Delete removes a promo
func (s *PromoService) Delete(ctx context.Context, id string) error {
	promo, err := s.promos.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load promo: %w", err)
	}
	if promo == nil {
		return ErrNotFound
	}
	return s.promos.Delete(ctx, id)
}

// GetActive returns the promo applying right now, or nil when none does.
func (s *PromoService) GetActive(ctx context.Context) (*entity.Promo, error) {
	return s.promos.FindCurrentlyActive(ctx, s.now())
}
