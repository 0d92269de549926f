package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func newAccountService(users *fakeUserRepo, invitations *fakeInvitationRepo) *AccountService {
	s := NewAccountService(users, invitations, &fakeMailer{}, logger.NewNop(), nil, testOrgDomain, "https://drones.example.com")
	s.now = func() time.Time { return testNow }
	s.newToken = func() string { return "fixed-token" }
	return s
}

func pendingInvitation(email, role string) *entity.Invitation {
	return &entity.Invitation{
		Email:     email,
		Name:      "Invited Person",
		Role:      role,
		HasAccess: true,
		InvitedBy: "admin@sleepysquid.com",
		Token:     "inv-token",
		Status:    entity.InviteStatusPending,
		InvitedAt: testNow.Add(-time.Hour),
		ExpiresAt: testNow.Add(entity.InvitationTTL),
	}
}

func TestHandleSignIn_MaterializesInvitedUser(t *testing.T) {
	users := &fakeUserRepo{}
	invitations := &fakeInvitationRepo{}
	require.NoError(t, invitations.Save(context.Background(), pendingInvitation("pat@example.com", entity.RolePilot)))
	s := newAccountService(users, invitations)

	user, err := s.HandleSignIn(context.Background(), "Pat@Example.com", "Pat Pilot", "https://pic")
	require.NoError(t, err)

	assert.Equal(t, entity.RolePilot, user.Role)
	assert.True(t, user.HasAccess)
	assert.True(t, user.EmailVerify.Verified)
	require.Len(t, user.RoleHistory, 1)
	assert.Equal(t, "invitation accepted", user.RoleHistory[0].Reason)
	assert.Equal(t, "admin@sleepysquid.com", user.RoleHistory[0].ChangedBy)

	assert.Equal(t, entity.InviteStatusAccepted, invitations.invitations[0].Status)
}

func TestHandleSignIn_NoInvitation(t *testing.T) {
	s := newAccountService(&fakeUserRepo{}, &fakeInvitationRepo{})

	user, err := s.HandleSignIn(context.Background(), "new@example.com", "New User", "")
	require.NoError(t, err)

	assert.Equal(t, entity.RoleUser, user.Role)
	assert.False(t, user.HasAccess)
	assert.True(t, user.EmailVerify.Verified, "the provider vouches for the address")
}

func TestHandleSignIn_ExpiredInvitationIgnored(t *testing.T) {
	users := &fakeUserRepo{}
	invitations := &fakeInvitationRepo{}
	inv := pendingInvitation("pat@example.com", entity.RolePilot)
	inv.ExpiresAt = testNow.Add(-time.Minute)
	require.NoError(t, invitations.Save(context.Background(), inv))
	s := newAccountService(users, invitations)

	user, err := s.HandleSignIn(context.Background(), "pat@example.com", "Pat", "")
	require.NoError(t, err)

	assert.Equal(t, entity.RoleUser, user.Role)
	assert.Equal(t, entity.InviteStatusPending, invitations.invitations[0].Status)
}

func TestHandleSignIn_ExistingUserRoleUpgrade(t *testing.T) {
	users := &fakeUserRepo{}
	require.NoError(t, users.Save(context.Background(), &entity.User{
		Email: "pat@example.com", Name: "Pat", Role: entity.RoleUser,
	}))
	invitations := &fakeInvitationRepo{}
	require.NoError(t, invitations.Save(context.Background(), pendingInvitation("pat@example.com", entity.RoleClient)))
	s := newAccountService(users, invitations)

	user, err := s.HandleSignIn(context.Background(), "pat@example.com", "Pat", "")
	require.NoError(t, err)

	assert.Equal(t, entity.RoleClient, user.Role)
	assert.True(t, user.HasAccess)
	require.Len(t, user.RoleHistory, 1)
}

func TestHandleSignIn_RefreshesProfileFields(t *testing.T) {
	users := &fakeUserRepo{}
	require.NoError(t, users.Save(context.Background(), &entity.User{
		Email: "pat@example.com", Name: "Old Name", Role: entity.RoleUser,
	}))
	s := newAccountService(users, &fakeInvitationRepo{})

	user, err := s.HandleSignIn(context.Background(), "pat@example.com", "New Name", "https://new-pic")
	require.NoError(t, err)
	assert.Equal(t, "New Name", user.Name)
	assert.Equal(t, "https://new-pic", user.Picture)
}

func TestSignup(t *testing.T) {
	users := &fakeUserRepo{}
	s := newAccountService(users, &fakeInvitationRepo{})

	user, err := s.Signup(context.Background(), "Jane", "jane@example.com", "hunter2hunter2")
	require.NoError(t, err)

	assert.False(t, user.HasAccess, "access waits for verification")
	assert.False(t, user.EmailVerify.Verified)
	assert.Equal(t, "fixed-token", user.EmailVerify.Token)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2hunter2")))

	_, err = s.Signup(context.Background(), "Jane", "jane@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignup_WeakPassword(t *testing.T) {
	s := newAccountService(&fakeUserRepo{}, &fakeInvitationRepo{})

	_, err := s.Signup(context.Background(), "Jane", "jane@example.com", "short")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVerifyEmail(t *testing.T) {
	users := &fakeUserRepo{}
	s := newAccountService(users, &fakeInvitationRepo{})

	user, err := s.Signup(context.Background(), "Jane", "jane@example.com", "hunter2hunter2")
	require.NoError(t, err)

	verified, err := s.VerifyEmail(context.Background(), user.EmailVerify.Token)
	require.NoError(t, err)
	assert.True(t, verified.EmailVerify.Verified)
	assert.True(t, verified.HasAccess)

	// Consumed token no longer resolves.
	_, err = s.VerifyEmail(context.Background(), "fixed-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyEmail_ExpiredLooksUnknown(t *testing.T) {
	users := &fakeUserRepo{}
	s := newAccountService(users, &fakeInvitationRepo{})

	_, err := s.Signup(context.Background(), "Jane", "jane@example.com", "hunter2hunter2")
	require.NoError(t, err)

	s.now = func() time.Time { return testNow.Add(verificationTTL + time.Minute) }
	_, errExpired := s.VerifyEmail(context.Background(), "fixed-token")
	_, errUnknown := s.VerifyEmail(context.Background(), "bogus")
	assert.ErrorIs(t, errExpired, ErrNotFound)
	assert.Equal(t, errUnknown.Error(), errExpired.Error())
}

func TestCreateUser_AdminPath(t *testing.T) {
	users := &fakeUserRepo{}
	s := newAccountService(users, &fakeInvitationRepo{})

	user, err := s.CreateUser(context.Background(), "boss@sleepysquid.com", "Crew", "crew@example.com", entity.RolePilot, true)
	require.NoError(t, err)

	require.Len(t, user.RoleHistory, 1)
	assert.Equal(t, "created by admin", user.RoleHistory[0].Reason)
	assert.Equal(t, "boss@sleepysquid.com", user.RoleHistory[0].ChangedBy)

	_, err = s.CreateUser(context.Background(), "boss@sleepysquid.com", "Eve", "eve@gmail.com", entity.RoleAdmin, true)
	assert.ErrorIs(t, err, ErrValidation, "admin restricted to the org domain")
}

func TestChangeRole(t *testing.T) {
	users := &fakeUserRepo{}
	u := &entity.User{Email: "crew@sleepysquid.com", Role: entity.RoleUser}
	require.NoError(t, users.Save(context.Background(), u))
	s := newAccountService(users, &fakeInvitationRepo{})

	require.NoError(t, s.ChangeRole(context.Background(), "boss@sleepysquid.com", u.ID.Hex(), entity.RoleAdmin, "promotion"))
	assert.Equal(t, entity.RoleAdmin, u.Role)
	require.Len(t, u.RoleHistory, 1)
	assert.Equal(t, "promotion", u.RoleHistory[0].Reason)

	err := s.ChangeRole(context.Background(), "boss@sleepysquid.com", primitive.NewObjectID().Hex(), entity.RolePilot, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMergeDuplicates(t *testing.T) {
	users := &fakeUserRepo{}
	first := &entity.User{Email: "pat@example.com", Role: entity.RoleUser}
	second := &entity.User{Email: "pat@example.com", Role: entity.RolePilot}
	require.NoError(t, users.Save(context.Background(), first))
	require.NoError(t, users.Save(context.Background(), second))

	invitations := &fakeInvitationRepo{}
	inv := pendingInvitation("pat@example.com", entity.RolePilot)
	inv.Company = "Acme Roofing"
	require.NoError(t, invitations.Save(context.Background(), inv))

	s := newAccountService(users, invitations)
	survivor, err := s.MergeDuplicates(context.Background(), "pat@example.com")
	require.NoError(t, err)

	// The record matching the invitation role wins and absorbs its data.
	assert.Equal(t, second.ID, survivor.ID)
	assert.Equal(t, "Acme Roofing", survivor.Company)
	assert.True(t, survivor.HasAccess)
	assert.Len(t, users.users, 1)
}

func TestMergeDuplicates_SingleUserNoop(t *testing.T) {
	users := &fakeUserRepo{}
	u := &entity.User{Email: "solo@example.com", Role: entity.RoleUser}
	require.NoError(t, users.Save(context.Background(), u))
	s := newAccountService(users, &fakeInvitationRepo{})

	survivor, err := s.MergeDuplicates(context.Background(), "solo@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, survivor.ID)

	_, err = s.MergeDuplicates(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
