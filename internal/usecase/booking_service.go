package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
	"github.com/lawmbass/sleepysquid-drones/internal/domain/repository"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"
	"github.com/lawmbass/sleepysquid-drones/pkg/metrics"
	"github.com/lawmbass/sleepysquid-drones/pkg/utils"
	"github.com/lawmbass/sleepysquid-drones/templates"
)

// MinAdvanceNotice is the lead time required for customer submissions.
// Missions are exempt.
const MinAdvanceNotice = 7 * 24 * time.Hour

const (
	maxLocationLen = 200
	maxDetailsLen  = 1000
	maxNotesLen    = 500
)

// CreateBookingInput carries the raw submission fields before validation.
type CreateBookingInput struct {
	Source         string             `json:"source"`
	Service        string             `json:"service"`
	Package        string             `json:"package"`
	MissionID      string             `json:"missionId"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	Date           time.Time          `json:"date"`
	Location       string             `json:"location"`
	Details        string             `json:"details"`
	Payout         float64            `json:"payout"`
	TravelDistance float64            `json:"travelDistance"`
	TravelTime     float64            `json:"travelTime"`
	Coordinates    *entity.Coordinates `json:"coordinates"`
}

// BookingService holds the booking validation and lifecycle rules
type BookingService struct {
	bookings repository.BookingRepository
	catalog  repository.CatalogRepository
	mailer   repository.Mailer
	logger   logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookings repository.BookingRepository,
	catalog repository.CatalogRepository,
	mailer repository.Mailer,
	logger logger.Logger,
	m *metrics.Metrics,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		catalog:  catalog,
		mailer:   mailer,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// Create validates a submission, rejects same-day duplicates and persists the
// booking with status pending. The confirmation email is fire-and-forget.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*entity.Booking, error) {
	booking, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	if booking.Source == entity.SourceCustomer {
		dayStart := booking.Date.UTC().Truncate(24 * time.Hour)
		dayEnd := dayStart.Add(24 * time.Hour)
		exists, err := s.bookings.ExistsForDay(ctx, booking.Email, dayStart, dayEnd)
		if err != nil {
			return nil, fmt.Errorf("duplicate check failed: %w", err)
		}
		if exists {
			return nil, ErrDuplicateBooking
		}

		booking.EstimatedPrice = s.estimatePrice(ctx, booking.Service, booking.Package)
	}

	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	s.logger.Info("Booking created",
		"bookingID", booking.ID.Hex(),
		"source", booking.Source,
		"service", booking.Service)

	if booking.Source == entity.SourceCustomer {
		s.sendConfirmation(booking)
	}

	return booking, nil
}

func (s *BookingService) validate(ctx context.Context, in CreateBookingInput) (*entity.Booking, error) {
	source := in.Source
	if source == "" {
		source = entity.SourceCustomer
	}
	if !utils.ContainsString(entity.BookingSources, source) {
		return nil, ValidationError("invalid source %q", in.Source)
	}

	if in.Service == "" {
		return nil, ValidationError("service is required")
	}
	if !utils.ContainsString(entity.ServiceTypes, in.Service) {
		return nil, ValidationError("invalid service %q", in.Service)
	}

	if in.Package != "" && !utils.ContainsString(entity.ServicePackages, in.Package) {
		return nil, ValidationError("invalid package %q", in.Package)
	}

	if in.Date.IsZero() {
		return nil, ValidationError("date is required")
	}

	location := utils.SanitizeText(in.Location)
	if location == "" {
		return nil, ValidationError("location is required")
	}
	if len(location) > maxLocationLen {
		return nil, ValidationError("location exceeds %d characters", maxLocationLen)
	}

	details := utils.SanitizeText(in.Details)
	if len(details) > maxDetailsLen {
		return nil, ValidationError("details exceed %d characters", maxDetailsLen)
	}

	if in.Coordinates != nil {
		if in.Coordinates.Lat < -90 || in.Coordinates.Lat > 90 {
			return nil, ValidationError("latitude out of range")
		}
		if in.Coordinates.Lng < -180 || in.Coordinates.Lng > 180 {
			return nil, ValidationError("longitude out of range")
		}
	}

	booking := &entity.Booking{
		Source:      source,
		Service:     in.Service,
		Date:        in.Date,
		Location:    location,
		Details:     details,
		Status:      entity.BookingPending,
		Coordinates: in.Coordinates,
	}

	if source == entity.SourceCustomer {
		booking.Package = in.Package

		name := utils.SanitizeText(in.Name)
		if name == "" {
			return nil, ValidationError("name is required")
		}
		email := utils.NormalizeEmail(in.Email)
		if !utils.IsValidEmail(email) {
			return nil, ValidationError("invalid email address")
		}
		phone := utils.SanitizeText(in.Phone)
		if !utils.IsValidPhone(phone) {
			return nil, ValidationError("invalid phone number")
		}
		booking.Name = name
		booking.Email = email
		booking.Phone = phone

		if in.Date.Before(s.now().Add(MinAdvanceNotice)) {
			return nil, ValidationError("date must be at least 7 days in the future")
		}
	} else {
		// Missions carry placeholder identity and are exempt from the
		// advance-notice rule.
		booking.Name = entity.MissionPlaceholderName
		booking.Email = entity.MissionPlaceholderEmail
		booking.Phone = entity.MissionPlaceholderPhone
		booking.Payout = in.Payout
		booking.TravelDistance = in.TravelDistance
		booking.TravelTime = in.TravelTime

		if in.MissionID != "" {
			if !utils.IsValidMissionID(in.MissionID) {
				return nil, ValidationError("mission id must match DBM<digits>")
			}
			existing, err := s.bookings.FindByMissionID(ctx, in.MissionID)
			if err != nil {
				return nil, fmt.Errorf("mission id check failed: %w", err)
			}
			if existing != nil {
				return nil, fmt.Errorf("%w: mission %s already exists", ErrDuplicateBooking, in.MissionID)
			}
			booking.MissionID = in.MissionID
		}
	}

	return booking, nil
}

func (s *BookingService) estimatePrice(ctx context.Context, service, pkg string) float64 {
	if pkg == "" {
		return 0
	}
	rate, err := s.catalog.GetRate(ctx, service, pkg)
	if err == nil && rate != nil {
		return rate.Price
	}
	s.logger.Warn("Catalog lookup failed, falling back to defaults",
		"service", service, "package", pkg, "error", err)
	return entity.DefaultPackagePrices[pkg]
}

func (s *BookingService) sendConfirmation(booking *entity.Booking) {
	email := templates.BookingConfirmation(booking)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.Send(ctx, email); err != nil {
			// Email failure never fails the booking.
			s.logger.Error("Failed to send booking confirmation",
				"bookingID", booking.ID.Hex(), "error", err)
			if s.metrics != nil {
				s.metrics.EmailsSent.WithLabelValues("booking_confirmation", "error").Inc()
			}
			return
		}
		if s.metrics != nil {
			s.metrics.EmailsSent.WithLabelValues("booking_confirmation", "ok").Inc()
		}
	}()
}

// Get returns a booking by id
func (s *BookingService) Get(ctx context.Context, id string) (*entity.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, ErrNotFound
	}
	return booking, nil
}

// List returns bookings for the admin dashboard
func (s *BookingService) List(ctx context.Context, filter entity.BookingFilter, page, pageSize int64) ([]*entity.Booking, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.bookings.List(ctx, filter, (page-1)*pageSize, pageSize)
}

// Update applies an admin partial update, validating each supplied field
// independently. Status moves are checked against the transition table.
func (s *BookingService) Update(ctx context.Context, id string, update entity.BookingUpdate) (*entity.Booking, error) {
	if update.Empty() {
		return nil, ValidationError("no fields supplied")
	}

	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	set := map[string]interface{}{}

	if update.Status != nil {
		if !utils.ContainsString(entity.BookingStatuses, *update.Status) {
			return nil, ValidationError("invalid status %q", *update.Status)
		}
		if !booking.CanTransitionTo(*update.Status) {
			return nil, ValidationError("cannot move booking from %s to %s", booking.Status, *update.Status)
		}
		set["status"] = *update.Status
	}
	if update.EstimatedPrice != nil {
		if *update.EstimatedPrice < 0 {
			return nil, ValidationError("estimatedPrice must be non-negative")
		}
		set["estimatedPrice"] = *update.EstimatedPrice
	}
	if update.FinalPrice != nil {
		if *update.FinalPrice < 0 {
			return nil, ValidationError("finalPrice must be non-negative")
		}
		set["finalPrice"] = *update.FinalPrice
	}
	if update.Payout != nil {
		if *update.Payout < 0 {
			return nil, ValidationError("payout must be non-negative")
		}
		set["payout"] = *update.Payout
	}
	if update.AdminNotes != nil {
		notes := utils.SanitizeText(*update.AdminNotes)
		if len(notes) > maxNotesLen {
			return nil, ValidationError("adminNotes exceed %d characters", maxNotesLen)
		}
		set["adminNotes"] = notes
	}

	updated, err := s.bookings.Update(ctx, id, set)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// Delete removes a booking on explicit admin request
func (s *BookingService) Delete(ctx context.Context, id string) error {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return ErrNotFound
	}
	return s.bookings.Delete(ctx, id)
}

// Stats serves the analytics aggregations
func (s *BookingService) Stats(ctx context.Context) (*entity.BookingStats, error) {
	return s.bookings.Stats(ctx)
}
