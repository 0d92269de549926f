package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes backing the service tests.

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []*entity.Booking
}

func (r *fakeBookingRepo) Save(_ context.Context, b *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	r.bookings = append(r.bookings, b)
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID.Hex() == id {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindByMissionID(_ context.Context, missionID string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.MissionID == missionID {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) ExistsForDay(_ context.Context, email string, dayStart, dayEnd time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.Email != email {
			continue
		}
		d := b.Date.UTC()
		if !d.Before(dayStart) && d.Before(dayEnd) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) List(_ context.Context, filter entity.BookingFilter, skip, limit int64) ([]*entity.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.Source != "" && b.Source != filter.Source {
			continue
		}
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) Update(_ context.Context, id string, set map[string]interface{}) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID.Hex() != id {
			continue
		}
		if v, ok := set["status"]; ok {
			b.Status = v.(string)
		}
		if v, ok := set["estimatedPrice"]; ok {
			b.EstimatedPrice = v.(float64)
		}
		if v, ok := set["finalPrice"]; ok {
			b.FinalPrice = v.(float64)
		}
		if v, ok := set["payout"]; ok {
			b.Payout = v.(float64)
		}
		if v, ok := set["adminNotes"]; ok {
			b.AdminNotes = v.(string)
		}
		return b, nil
	}
	return nil, nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.bookings {
		if b.ID.Hex() == id {
			r.bookings = append(r.bookings[:i], r.bookings[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeBookingRepo) Stats(_ context.Context) (*entity.BookingStats, error) {
	return &entity.BookingStats{}, nil
}

type fakeInvitationRepo struct {
	mu          sync.Mutex
	invitations []*entity.Invitation
}

func (r *fakeInvitationRepo) Save(_ context.Context, inv *entity.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.ID.IsZero() {
		inv.ID = primitive.NewObjectID()
	}
	r.invitations = append(r.invitations, inv)
	return nil
}

func (r *fakeInvitationRepo) FindByID(_ context.Context, id string) (*entity.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invitations {
		if inv.ID.Hex() == id {
			return inv, nil
		}
	}
	return nil, nil
}

func (r *fakeInvitationRepo) FindByToken(_ context.Context, token string) (*entity.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invitations {
		if inv.Token == token {
			return inv, nil
		}
	}
	return nil, nil
}

func (r *fakeInvitationRepo) FindPendingByEmail(_ context.Context, email string) (*entity.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invitations {
		if inv.Email == email && inv.Status == entity.InviteStatusPending {
			return inv, nil
		}
	}
	return nil, nil
}

func (r *fakeInvitationRepo) Refresh(_ context.Context, id string, token string, invitedAt, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invitations {
		if inv.ID.Hex() == id {
			inv.Token = token
			inv.InvitedAt = invitedAt
			inv.ExpiresAt = expiresAt
			return nil
		}
	}
	return nil
}

func (r *fakeInvitationRepo) MarkAccepted(_ context.Context, id string, acceptedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invitations {
		if inv.ID.Hex() == id && inv.Status == entity.InviteStatusPending {
			inv.Status = entity.InviteStatusAccepted
			inv.AcceptedAt = &acceptedAt
			return nil
		}
	}
	return nil
}

func (r *fakeInvitationRepo) List(_ context.Context, status string, skip, limit int64) ([]*entity.Invitation, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Invitation
	for _, inv := range r.invitations {
		if status != "" && inv.Status != status {
			continue
		}
		out = append(out, inv)
	}
	return out, int64(len(out)), nil
}

func (r *fakeInvitationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, inv := range r.invitations {
		if inv.ID.Hex() == id {
			r.invitations = append(r.invitations[:i], r.invitations[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*entity.User
}

func (r *fakeUserRepo) Save(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users = append(r.users, u)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAllByEmail(_ context.Context, email string) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.users {
		if u.Email == email {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindByVerificationToken(_ context.Context, token string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.EmailVerify.Token == token && token != "" {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, id string, set map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID.Hex() != id {
			continue
		}
		if v, ok := set["name"]; ok {
			u.Name = v.(string)
		}
		if v, ok := set["picture"]; ok {
			u.Picture = v.(string)
		}
		if v, ok := set["hasAccess"]; ok {
			u.HasAccess = v.(bool)
		}
		if v, ok := set["company"]; ok {
			u.Company = v.(string)
		}
		if v, ok := set["phone"]; ok {
			u.Phone = v.(string)
		}
		if v, ok := set["emailVerification.verified"]; ok {
			u.EmailVerify.Verified = v.(bool)
		}
		if v, ok := set["emailVerification.token"]; ok {
			u.EmailVerify.Token = v.(string)
		}
		return nil
	}
	return nil
}

func (r *fakeUserRepo) AppendRoleChange(_ context.Context, id string, role string, change entity.RoleChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID.Hex() == id {
			u.Role = role
			u.RoleHistory = append(u.RoleHistory, change)
			return nil
		}
	}
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, role string, skip, limit int64) ([]*entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.users {
		if role != "" && u.Role != role {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID.Hex() == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakePromoRepo struct {
	mu     sync.Mutex
	promos []*entity.Promo
}

func (r *fakePromoRepo) Save(_ context.Context, p *entity.Promo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.promos = append(r.promos, p)
	return nil
}

func (r *fakePromoRepo) FindByID(_ context.Context, id string) (*entity.Promo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.promos {
		if p.ID.Hex() == id {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePromoRepo) FindActiveOverlapping(_ context.Context, start, end time.Time, excludeID string) ([]*entity.Promo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Promo
	for _, p := range r.promos {
		if !p.IsActive || p.ID.Hex() == excludeID {
			continue
		}
		if !p.StartDate.After(end) && !p.EndDate.Before(start) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePromoRepo) FindCurrentlyActive(_ context.Context, now time.Time) (*entity.Promo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.Promo
	for _, p := range r.promos {
		if !p.IsCurrentlyActive(now) {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	return latest, nil
}

func (r *fakePromoRepo) List(_ context.Context, skip, limit int64) ([]*entity.Promo, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.promos, int64(len(r.promos)), nil
}

func (r *fakePromoRepo) Update(_ context.Context, id string, set map[string]interface{}) (*entity.Promo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.promos {
		if p.ID.Hex() != id {
			continue
		}
		if v, ok := set["name"]; ok {
			p.Name = v.(string)
		}
		if v, ok := set["description"]; ok {
			p.Description = v.(string)
		}
		if v, ok := set["discountPercentage"]; ok {
			p.DiscountPercentage = v.(int)
		}
		if v, ok := set["startDate"]; ok {
			p.StartDate = v.(time.Time)
		}
		if v, ok := set["endDate"]; ok {
			p.EndDate = v.(time.Time)
		}
		if v, ok := set["isActive"]; ok {
			p.IsActive = v.(bool)
		}
		return p, nil
	}
	return nil, nil
}

func (r *fakePromoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.promos {
		if p.ID.Hex() == id {
			r.promos = append(r.promos[:i], r.promos[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeCatalog struct {
	rates map[string]float64 // key service+"/"+pkg
}

func (c *fakeCatalog) GetRate(_ context.Context, service, pkg string) (*entity.ServiceRate, error) {
	if price, ok := c.rates[service+"/"+pkg]; ok {
		return &entity.ServiceRate{Service: service, Package: pkg, Price: price}, nil
	}
	return nil, nil
}

func (c *fakeCatalog) ListRates(_ context.Context) ([]*entity.ServiceRate, error) {
	return nil, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []*entity.OutboundEmail
}

func (m *fakeMailer) Send(_ context.Context, email *entity.OutboundEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return nil
}

type fakeCaptcha struct {
	ok bool
}

func (c *fakeCaptcha) Verify(_ context.Context, token, remoteIP string) (bool, error) {
	return c.ok, nil
}
