package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
	"github.com/lawmbass/sleepysquid-drones/internal/domain/repository"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"
	"github.com/lawmbass/sleepysquid-drones/pkg/utils"
)

// DefaultRoleCacheTTL bounds how long a resolved role is served from memory.
const DefaultRoleCacheTTL = 5 * time.Minute

type cachedRole struct {
	role      string
	expiresAt time.Time
}

// AccessService resolves the role and permission set for an email. Lookups
// hit the environment-configured allow-lists first (admin, client, pilot, in
// that order), then the persisted user record. Results are cached per process
// with a TTL; ClearCache drops everything when allow-lists change at runtime.
type AccessService struct {
	users      repository.UserRepository
	logger     logger.Logger
	adminList  []string
	clientList []string
	pilotList  []string
	ttl        time.Duration
	now        func() time.Time

	mu    sync.RWMutex
	cache map[string]cachedRole
}

// NewAccessService creates a new access service
func NewAccessService(
	users repository.UserRepository,
	logger logger.Logger,
	adminList, clientList, pilotList []string,
	ttl time.Duration,
) *AccessService {
	if ttl <= 0 {
		ttl = DefaultRoleCacheTTL
	}
	return &AccessService{
		users:      users,
		logger:     logger,
		adminList:  normalizeList(adminList),
		clientList: normalizeList(clientList),
		pilotList:  normalizeList(pilotList),
		ttl:        ttl,
		now:        time.Now,
		cache:      make(map[string]cachedRole),
	}
}

func normalizeList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		if n := utils.NormalizeEmail(e); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// GetUserRole resolves the role for an email. The admin list wins over every
// other source regardless of overlap.
func (s *AccessService) GetUserRole(ctx context.Context, email string) string {
	email = utils.NormalizeEmail(email)

	s.mu.RLock()
	if entry, ok := s.cache[email]; ok && s.now().Before(entry.expiresAt) {
		s.mu.RUnlock()
		return entry.role
	}
	s.mu.RUnlock()

	role := s.resolve(ctx, email)

	s.mu.Lock()
	s.cache[email] = cachedRole{role: role, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return role
}

func (s *AccessService) resolve(ctx context.Context, email string) string {
	switch {
	case utils.ContainsString(s.adminList, email):
		return entity.RoleAdmin
	case utils.ContainsString(s.clientList, email):
		return entity.RoleClient
	case utils.ContainsString(s.pilotList, email):
		return entity.RolePilot
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("Role lookup failed, defaulting to user", "email", email, "error", err)
		return entity.RoleUser
	}
	if user != nil && entity.ValidRole(user.Role) {
		return user.Role
	}
	return entity.RoleUser
}

// GetUserPermissions maps the resolved role to its permission set
func (s *AccessService) GetUserPermissions(ctx context.Context, email string) []string {
	return entity.RolePermissions(s.GetUserRole(ctx, email))
}

// HasPermission reports whether the email's role carries the permission
func (s *AccessService) HasPermission(ctx context.Context, email, permission string) bool {
	return utils.ContainsString(s.GetUserPermissions(ctx, email), permission)
}

// ClearCache drops every cached role
func (s *AccessService) ClearCache() {
	s.mu.Lock()
	s.cache = make(map[string]cachedRole)
	s.mu.Unlock()
}

// Invalidate drops one email from the cache, used after a role change
func (s *AccessService) Invalidate(email string) {
	s.mu.Lock()
	delete(s.cache, utils.NormalizeEmail(email))
	s.mu.Unlock()
}
