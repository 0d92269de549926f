package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrgDomain = "sleepysquid.com"

func newInvitationService(repo *fakeInvitationRepo) *InvitationService {
	s := NewInvitationService(repo, &fakeMailer{}, logger.NewNop(), nil, testOrgDomain, "https://drones.example.com")
	s.now = func() time.Time { return testNow }
	counter := 0
	s.newToken = func() string {
		counter++
		return fmt.Sprintf("token-%d", counter)
	}
	return s
}

func TestIssueInvitation(t *testing.T) {
	repo := &fakeInvitationRepo{}
	s := newInvitationService(repo)

	inv, err := s.Issue(context.Background(), IssueInvitationInput{
		Name:      "Pat Pilot",
		Email:     "Pat@Example.com",
		Role:      entity.RolePilot,
		HasAccess: true,
		InvitedBy: "admin@sleepysquid.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "pat@example.com", inv.Email)
	assert.Equal(t, entity.InviteStatusPending, inv.Status)
	assert.Equal(t, testNow.Add(entity.InvitationTTL), inv.ExpiresAt)
	assert.NotEmpty(t, inv.Token)
}

func TestIssueInvitation_RefreshesPending(t *testing.T) {
	repo := &fakeInvitationRepo{}
	s := newInvitationService(repo)

	in := IssueInvitationInput{Name: "Pat", Email: "pat@example.com", Role: entity.RolePilot}
	first, err := s.Issue(context.Background(), in)
	require.NoError(t, err)
	firstToken := first.Token

	second, err := s.Issue(context.Background(), in)
	require.NoError(t, err)

	// Same record, new token. Never a second pending row for the email.
	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, firstToken, second.Token)
	assert.Len(t, repo.invitations, 1)
}

func TestIssueInvitation_AdminDomainRestriction(t *testing.T) {
	s := newInvitationService(&fakeInvitationRepo{})

	_, err := s.Issue(context.Background(), IssueInvitationInput{
		Name: "Eve", Email: "eve@gmail.com", Role: entity.RoleAdmin,
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Issue(context.Background(), IssueInvitationInput{
		Name: "Ops", Email: "ops@sleepysquid.com", Role: entity.RoleAdmin,
	})
	assert.NoError(t, err)
}

func TestIssueInvitation_Validation(t *testing.T) {
	s := newInvitationService(&fakeInvitationRepo{})

	_, err := s.Issue(context.Background(), IssueInvitationInput{Name: "X", Email: "bad", Role: entity.RolePilot})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Issue(context.Background(), IssueInvitationInput{Name: "", Email: "x@example.com", Role: entity.RolePilot})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Issue(context.Background(), IssueInvitationInput{Name: "X", Email: "x@example.com", Role: "superuser"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResendInvitation(t *testing.T) {
	repo := &fakeInvitationRepo{}
	s := newInvitationService(repo)

	inv, err := s.Issue(context.Background(), IssueInvitationInput{
		Name: "Pat", Email: "pat@example.com", Role: entity.RolePilot,
	})
	require.NoError(t, err)
	oldToken := inv.Token

	resent, err := s.Resend(context.Background(), inv.ID.Hex())
	require.NoError(t, err)

	assert.NotEqual(t, oldToken, resent.Token)
	assert.Equal(t, entity.RolePilot, resent.Role, "resend never touches the role")
}

func TestResendInvitation_AcceptedRejected(t *testing.T) {
	repo := &fakeInvitationRepo{}
	s := newInvitationService(repo)

	inv, err := s.Issue(context.Background(), IssueInvitationInput{
		Name: "Pat", Email: "pat@example.com", Role: entity.RolePilot,
	})
	require.NoError(t, err)
	require.NoError(t, repo.MarkAccepted(context.Background(), inv.ID.Hex(), testNow))

	_, err = s.Resend(context.Background(), inv.ID.Hex())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateInvitation_ExpiredLooksUnknown(t *testing.T) {
	repo := &fakeInvitationRepo{}
	s := newInvitationService(repo)

	inv, err := s.Issue(context.Background(), IssueInvitationInput{
		Name: "Pat", Email: "pat@example.com", Role: entity.RoleClient,
	})
	require.NoError(t, err)

	got, err := s.Validate(context.Background(), inv.Token)
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", got.Email)

	// Move past expiry: the valid token now answers exactly like a bogus one.
	s.now = func() time.Time { return testNow.Add(entity.InvitationTTL + time.Minute) }
	_, errExpired := s.Validate(context.Background(), inv.Token)
	_, errUnknown := s.Validate(context.Background(), "no-such-token")
	assert.ErrorIs(t, errExpired, ErrNotFound)
	assert.ErrorIs(t, errUnknown, ErrNotFound)
	assert.Equal(t, errUnknown.Error(), errExpired.Error())
}

func TestCancelInvitation(t *testing.T) {
	repo := &fakeInvitationRepo{}
	s := newInvitationService(repo)

	inv, err := s.Issue(context.Background(), IssueInvitationInput{
		Name: "Pat", Email: "pat@example.com", Role: entity.RoleClient,
	})
	require.NoError(t, err)

	require.NoError(t, s.Cancel(context.Background(), inv.ID.Hex()))
	assert.Empty(t, repo.invitations)

	assert.ErrorIs(t, s.Cancel(context.Background(), inv.ID.Hex()), ErrNotFound)
}
