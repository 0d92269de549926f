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

// IssueInvitationInput carries an admin invite request.
type IssueInvitationInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Company   string `json:"company"`
	Phone     string `json:"phone"`
	HasAccess bool   `json:"hasAccess"`
	InvitedBy string `json:"-"`
}

// InvitationService holds the invitation token lifecycle rules
type InvitationService struct {
	invitations repository.InvitationRepository
	mailer      repository.Mailer
	logger      logger.Logger
	metrics     *metrics.Metrics
	orgDomain   string
	baseURL     string
	now         func() time.Time
	newToken    func() string
}

// NewInvitationService creates a new invitation service. orgDomain is the
// organization's own email domain, the only one the admin role may be
// assigned to. baseURL is the public site origin used in deep links.
func NewInvitationService(
	invitations repository.InvitationRepository,
	mailer repository.Mailer,
	logger logger.Logger,
	m *metrics.Metrics,
	orgDomain, baseURL string,
) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		mailer:      mailer,
		logger:      logger,
		metrics:     m,
		orgDomain:   orgDomain,
		baseURL:     baseURL,
		now:         time.Now,
		newToken:    utils.GenerateToken,
	}
}

// Issue creates a new invitation, or refreshes the token and expiry of the
// existing pending one for the same email so at most one pending invitation
// per email ever exists.
func (s *InvitationService) Issue(ctx context.Context, in IssueInvitationInput) (*entity.Invitation, error) {
	email := utils.NormalizeEmail(in.Email)
	if !utils.IsValidEmail(email) {
		return nil, ValidationError("invalid email address")
	}

	name := utils.SanitizeText(in.Name)
	if name == "" {
		return nil, ValidationError("name is required")
	}

	if !entity.ValidRole(in.Role) {
		return nil, ValidationError("invalid role %q", in.Role)
	}
	if in.Role == entity.RoleAdmin && utils.EmailDomain(email) != s.orgDomain {
		return nil, ValidationError("admin role is restricted to @%s addresses", s.orgDomain)
	}

	now := s.now()
	token := s.newToken()

	existing, err := s.invitations.FindPendingByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up pending invitation: %w", err)
	}

	var invitation *entity.Invitation
	if existing != nil {
		if err := s.invitations.Refresh(ctx, existing.ID.Hex(), token, now, now.Add(entity.InvitationTTL)); err != nil {
			return nil, fmt.Errorf("failed to refresh invitation: %w", err)
		}
		existing.Token = token
		existing.InvitedAt = now
		existing.ExpiresAt = now.Add(entity.InvitationTTL)
		invitation = existing
		s.logger.Info("Pending invitation refreshed", "email", email)
	} else {
		invitation = &entity.Invitation{
			Email:     email,
			Name:      name,
			Company:   utils.SanitizeText(in.Company),
			Phone:     utils.SanitizeText(in.Phone),
			Role:      in.Role,
			HasAccess: in.HasAccess,
			InvitedBy: in.InvitedBy,
			Token:     token,
			Status:    entity.InviteStatusPending,
			InvitedAt: now,
			ExpiresAt: now.Add(entity.InvitationTTL),
		}
		if err := s.invitations.Save(ctx, invitation); err != nil {
			return nil, fmt.Errorf("failed to save invitation: %w", err)
		}
		s.logger.Info("Invitation created", "email", email, "role", in.Role)
	}

	if s.metrics != nil {
		s.metrics.InvitationsIssued.Inc()
	}
	s.dispatch(invitation)
	return invitation, nil
}

// Resend rotates the token and expiry of a pending invitation and re-sends
// the email. The role is never touched.
func (s *InvitationService) Resend(ctx context.Context, id string) (*entity.Invitation, error) {
	invitation, err := s.invitations.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}
	if invitation == nil {
		return nil, ErrNotFound
	}
	if invitation.Status != entity.InviteStatusPending {
		return nil, ValidationError("invitation was already accepted")
	}

	now := s.now()
	token := s.newToken()
	if err := s.invitations.Refresh(ctx, id, token, now, now.Add(entity.InvitationTTL)); err != nil {
		return nil, fmt.Errorf("failed to refresh invitation: %w", err)
	}
	invitation.Token = token
	invitation.InvitedAt = now
	invitation.ExpiresAt = now.Add(entity.InvitationTTL)

	if s.metrics != nil {
		s.metrics.InvitationsIssued.Inc()
	}
	s.dispatch(invitation)
	return invitation, nil
}

// Validate returns invitation details only while the token is pending and
// unexpired. Expired and nonexistent tokens are deliberately
// indistinguishable to the caller.
func (s *InvitationService) Validate(ctx context.Context, token string) (*entity.Invitation, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	invitation, err := s.invitations.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invitation: %w", err)
	}
	if invitation == nil || !invitation.IsPending(s.now()) {
		return nil, ErrNotFound
	}
	return invitation, nil
}

// Cancel deletes a pending invitation
func (s *InvitationService) Cancel(ctx context.Context, id string) error {
	invitation, err := s.invitations.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load invitation: %w", err)
	}
	if invitation == nil {
		return ErrNotFound
	}
	if invitation.Status != entity.InviteStatusPending {
		return ValidationError("invitation was already accepted")
	}
	return s.invitations.Delete(ctx, id)
}

// List returns invitations for the admin dashboard
func (s *InvitationService) List(ctx context.Context, status string, page, pageSize int64) ([]*entity.Invitation, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.invitations.List(ctx, status, (page-1)*pageSize, pageSize)
}

func (s *InvitationService) dispatch(invitation *entity.Invitation) {
	link := fmt.Sprintf("%s/invite?token=%s", s.baseURL, invitation.Token)
	email := templates.InvitationEmail(invitation, link)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.Send(ctx, email); err != nil {
			s.logger.Error("Failed to send invitation email",
				"email", invitation.Email, "error", err)
			if s.metrics != nil {
				s.metrics.EmailsSent.WithLabelValues("invitation", "error").Inc()
			}
			return
		}
		if s.metrics != nil {
			s.metrics.EmailsSent.WithLabelValues("invitation", "ok").Inc()
		}
	}()
}
