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

	"golang.org/x/crypto/bcrypt"
)

const verificationTTL = 24 * time.Hour

// AccountService materializes users from invitations at sign-in and owns the
// credential signup, verification, admin user management and duplicate-merge
// flows.
type AccountService struct {
	users       repository.UserRepository
	invitations repository.InvitationRepository
	mailer      repository.Mailer
	logger      logger.Logger
	metrics     *metrics.Metrics
	orgDomain   string
	baseURL     string
	now         func() time.Time
	newToken    func() string
}

// NewAccountService creates a new account service
func NewAccountService(
	users repository.UserRepository,
	invitations repository.InvitationRepository,
	mailer repository.Mailer,
	logger logger.Logger,
	m *metrics.Metrics,
	orgDomain, baseURL string,
) *AccountService {
	return &AccountService{
		users:       users,
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

// HandleSignIn runs on every successful external sign-in. It merges any
// pending invitation into a concrete user record and never fails the sign-in:
// materialization errors are logged and the basic account path continues.
func (s *AccountService) HandleSignIn(ctx context.Context, email, name, picture string) (*entity.User, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return nil, ErrAuthentication
	}

	if err := s.acceptInvitation(ctx, email, name); err != nil {
		s.logger.Error("Invitation acceptance failed, continuing sign-in",
			"email", email, "error", err)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	now := s.now()
	if user == nil {
		user = &entity.User{
			Email:     email,
			Name:      name,
			Picture:   picture,
			Role:      entity.RoleUser,
			HasAccess: false,
			// The external provider vouches for the address.
			EmailVerify: entity.EmailVerification{Verified: true},
			CreatedAt:   now,
		}
		if err := s.users.Save(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		s.logger.Info("User created at first sign-in", "email", email)
		return user, nil
	}

	set := map[string]interface{}{}
	if name != "" && user.Name != name {
		set["name"] = name
		user.Name = name
	}
	if picture != "" && user.Picture != picture {
		set["picture"] = picture
		user.Picture = picture
	}
	if len(set) > 0 {
		if err := s.users.Update(ctx, user.ID.Hex(), set); err != nil {
			s.logger.Warn("Failed to refresh profile fields", "email", email, "error", err)
		}
	}
	return user, nil
}

// acceptInvitation folds a pending invitation into the user record. The user
// upsert runs first and MarkAccepted filters on pending status, so a crash in
// between leaves a retryable, not corrupt, state.
func (s *AccountService) acceptInvitation(ctx context.Context, email, name string) error {
	invitation, err := s.invitations.FindPendingByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up invitation: %w", err)
	}
	if invitation == nil || invitation.IsExpired(s.now()) {
		return nil
	}

	now := s.now()
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if user == nil {
		displayName := name
		if displayName == "" {
			displayName = invitation.Name
		}
		user = &entity.User{
			Email:       email,
			Name:        displayName,
			Role:        invitation.Role,
			HasAccess:   invitation.HasAccess,
			Company:     invitation.Company,
			Phone:       invitation.Phone,
			EmailVerify: entity.EmailVerification{Verified: true},
			RoleHistory: []entity.RoleChange{{
				Role:      invitation.Role,
				ChangedAt: now,
				ChangedBy: invitation.InvitedBy,
				Reason:    "invitation accepted",
			}},
			CreatedAt: now,
		}
		if err := s.users.Save(ctx, user); err != nil {
			return fmt.Errorf("failed to materialize user: %w", err)
		}
	} else {
		change := entity.RoleChange{
			Role:      invitation.Role,
			ChangedAt: now,
			ChangedBy: invitation.InvitedBy,
			Reason:    "invitation accepted",
		}
		if err := s.users.AppendRoleChange(ctx, user.ID.Hex(), invitation.Role, change); err != nil {
			return fmt.Errorf("failed to apply invitation role: %w", err)
		}
		set := map[string]interface{}{"hasAccess": invitation.HasAccess}
		if user.Company == "" && invitation.Company != "" {
			set["company"] = invitation.Company
		}
		if user.Phone == "" && invitation.Phone != "" {
			set["phone"] = invitation.Phone
		}
		if err := s.users.Update(ctx, user.ID.Hex(), set); err != nil {
			return fmt.Errorf("failed to apply invitation fields: %w", err)
		}
	}

	if err := s.invitations.MarkAccepted(ctx, invitation.ID.Hex(), now); err != nil {
		return fmt.Errorf("failed to mark invitation accepted: %w", err)
	}

	if s.metrics != nil {
		s.metrics.InvitationsAccepted.Inc()
	}
	s.logger.Info("Invitation accepted",
		"email", email, "role", invitation.Role)
	return nil
}

// Signup registers a credential account. Access stays off until the address
// is verified.
func (s *AccountService) Signup(ctx context.Context, name, email, password string) (*entity.User, error) {
	email = utils.NormalizeEmail(email)
	if !utils.IsValidEmail(email) {
		return nil, ValidationError("invalid email address")
	}
	name = utils.SanitizeText(name)
	if name == "" {
		return nil, ValidationError("name is required")
	}
	if len(password) < 8 {
		return nil, ValidationError("password must be at least 8 characters")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	token := s.newToken()
	user := &entity.User{
		Email:        email,
		Name:         name,
		Role:         entity.RoleUser,
		HasAccess:    false,
		PasswordHash: string(hash),
		EmailVerify: entity.EmailVerification{
			Verified:  false,
			Token:     token,
			ExpiresAt: now.Add(verificationTTL),
		},
		CreatedAt: now,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", s.baseURL, token)
	s.dispatch(templates.VerificationEmail(user, link), "verification")
	return user, nil
}

// VerifyEmail consumes a verification token, flipping the verified flag and
// granting access. Expired and unknown tokens look identical to the caller.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	user, err := s.users.FindByVerificationToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if user == nil || s.now().After(user.EmailVerify.ExpiresAt) {
		return nil, ErrNotFound
	}

	set := map[string]interface{}{
		"emailVerification.verified": true,
		"emailVerification.token":    "",
		"hasAccess":                  true,
	}
	if err := s.users.Update(ctx, user.ID.Hex(), set); err != nil {
		return nil, fmt.Errorf("failed to verify email: %w", err)
	}
	user.EmailVerify.Verified = true
	user.HasAccess = true
	return user, nil
}

// CreateUser is the direct admin path, audit-logged from the first entry.
func (s *AccountService) CreateUser(ctx context.Context, actor string, name, email, role string, hasAccess bool) (*entity.User, error) {
	email = utils.NormalizeEmail(email)
	if !utils.IsValidEmail(email) {
		return nil, ValidationError("invalid email address")
	}
	if !entity.ValidRole(role) {
		return nil, ValidationError("invalid role %q", role)
	}
	if role == entity.RoleAdmin && utils.EmailDomain(email) != s.orgDomain {
		return nil, ValidationError("admin role is restricted to @%s addresses", s.orgDomain)
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	now := s.now()
	user := &entity.User{
		Email:     email,
		Name:      utils.SanitizeText(name),
		Role:      role,
		HasAccess: hasAccess,
		RoleHistory: []entity.RoleChange{{
			Role:      role,
			ChangedAt: now,
			ChangedBy: actor,
			Reason:    "created by admin",
		}},
		CreatedAt: now,
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// ChangeRole applies an admin role change with its audit entry
func (s *AccountService) ChangeRole(ctx context.Context, actor, userID, role, reason string) error {
	if !entity.ValidRole(role) {
		return ValidationError("invalid role %q", role)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return ErrNotFound
	}
	if role == entity.RoleAdmin && utils.EmailDomain(user.Email) != s.orgDomain {
		return ValidationError("admin role is restricted to @%s addresses", s.orgDomain)
	}

	change := entity.RoleChange{
		Role:      role,
		ChangedAt: s.now(),
		ChangedBy: actor,
		Reason:    reason,
	}
	return s.users.AppendRoleChange(ctx, userID, role, change)
}

// MergeDuplicates collapses multiple user documents for one email into a
// single survivor, preferring the one whose role matches a live invitation,
// folding invitation data in and hard-deleting the rest.
func (s *AccountService) MergeDuplicates(ctx context.Context, email string) (*entity.User, error) {
	email = utils.NormalizeEmail(email)
	users, err := s.users.FindAllByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	if len(users) == 1 {
		return users[0], nil
	}

	invitation, err := s.invitations.FindPendingByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("Invitation lookup failed during merge", "email", email, "error", err)
	}

	survivor := users[0]
	if invitation != nil {
		for _, u := range users {
			if u.Role == invitation.Role {
				survivor = u
				break
			}
		}
	}

	if invitation != nil {
		set := map[string]interface{}{"hasAccess": invitation.HasAccess}
		if survivor.Company == "" && invitation.Company != "" {
			set["company"] = invitation.Company
		}
		if survivor.Phone == "" && invitation.Phone != "" {
			set["phone"] = invitation.Phone
		}
		if err := s.users.Update(ctx, survivor.ID.Hex(), set); err != nil {
			return nil, fmt.Errorf("failed to fold invitation data: %w", err)
		}
	}

	for _, u := range users {
		if u.ID == survivor.ID {
			continue
		}
		if err := s.users.Delete(ctx, u.ID.Hex()); err != nil {
			s.logger.Error("Failed to delete duplicate user",
				"email", email, "userID", u.ID.Hex(), "error", err)
		}
	}

	s.logger.Info("Merged duplicate users", "email", email, "removed", len(users)-1)
	return survivor, nil
}

// GetByEmail returns a user profile
func (s *AccountService) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// ListUsers returns users for the admin dashboard
func (s *AccountService) ListUsers(ctx context.Context, role string, page, pageSize int64) ([]*entity.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.users.List(ctx, role, (page-1)*pageSize, pageSize)
}

func (s *AccountService) dispatch(email *entity.OutboundEmail, template string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.Send(ctx, email); err != nil {
			s.logger.Error("Failed to send email", "template", template, "error", err)
			if s.metrics != nil {
				s.metrics.EmailsSent.WithLabelValues(template, "error").Inc()
			}
			return
		}
		if s.metrics != nil {
			s.metrics.EmailsSent.WithLabelValues(template, "ok").Inc()
		}
	}()
}
