package roles

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/shared"
)

const matrixCacheKey = "authz:role_matrix"

// ErrAdministratorImmutable is returned when an edit targets the
// administrator role.
var ErrAdministratorImmutable = errors.New("roles: administrator role cannot be overridden")

// Service serves the persisted permission matrix and keeps an in-process
// snapshot that implements authz.RoleSource. The snapshot is refreshed at
// startup, after every edit and periodically by the worker; when both the
// database and the Redis cache are unreachable the last good snapshot
// keeps answering, and a missing snapshot simply falls through to the
// static table.
type Service struct {
	repo   RepositoryPort
	cache  *redis.Client
	logger *slog.Logger
	audit  Auditor
	ttl    time.Duration

	group    singleflight.Group
	snapshot atomic.Value // map[string]authz.Role
}

// Auditor records matrix edits.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// NewService builds a Service instance. cache and audit may be nil.
func NewService(repo RepositoryPort, cache *redis.Client, audit Auditor, logger *slog.Logger, ttl time.Duration) *Service {
	return &Service{repo: repo, cache: cache, audit: audit, logger: logger, ttl: ttl}
}

// Role implements authz.RoleSource over the current snapshot.
func (s *Service) Role(name string) (authz.Role, bool) {
	matrix, _ := s.snapshot.Load().(map[string]authz.Role)
	role, ok := matrix[name]
	if !ok {
		return authz.Role{}, false
	}
	return role.Clone(), true
}

// Refresh rebuilds the snapshot from the database, falling back to the
// Redis cache when the database is unreachable. Concurrent refreshes are
// collapsed into one fetch.
func (s *Service) Refresh(ctx context.Context) error {
	_, err, _ := s.group.Do("refresh", func() (any, error) {
		overrides, err := s.repo.ListOverrides(ctx)
		if err != nil {
			if cached, cacheErr := s.loadCached(ctx); cacheErr == nil {
				s.snapshot.Store(cached)
				if s.logger != nil {
					s.logger.Warn("role matrix served from cache", slog.Any("error", err))
				}
				return nil, nil
			}
			return nil, err
		}
		matrix := make(map[string]authz.Role, len(overrides))
		for _, o := range overrides {
			if o.Role == authz.RoleAdministrator {
				// Defence in depth; the chain refuses this tier for
				// the administrator anyway.
				continue
			}
			matrix[o.Role] = o.AuthzRole()
		}
		s.snapshot.Store(matrix)
		s.storeCached(ctx, overrides)
		return nil, nil
	})
	return err
}

// ListOverrides returns the persisted matrix rows.
func (s *Service) ListOverrides(ctx context.Context) ([]Override, error) {
	return s.repo.ListOverrides(ctx)
}

// Save validates and stores one override, then refreshes the snapshot.
func (s *Service) Save(ctx context.Context, actorID int64, override Override) error {
	if override.Role == "" {
		return errors.New("roles: role name required")
	}
	if override.Role == authz.RoleAdministrator {
		return ErrAdministratorImmutable
	}
	if override.Scope != nil {
		normalized := string(authz.ParseScope(*override.Scope))
		override.Scope = &normalized
	}
	if err := s.repo.Upsert(ctx, override); err != nil {
		return err
	}
	s.invalidate(ctx)
	if err := s.Refresh(ctx); err != nil && s.logger != nil {
		s.logger.Warn("role matrix refresh after save", slog.Any("error", err))
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "roles.override_saved",
			Entity:   "role",
			EntityID: override.Role,
			Meta: map[string]any{
				"capabilities": override.Capabilities,
				"scope":        override.Scope,
			},
		})
	}
	return nil
}

// Remove deletes an override, restoring static defaults for the role.
func (s *Service) Remove(ctx context.Context, actorID int64, role string) error {
	if role == authz.RoleAdministrator {
		return ErrAdministratorImmutable
	}
	if err := s.repo.Delete(ctx, role); err != nil {
		return err
	}
	s.invalidate(ctx)
	if err := s.Refresh(ctx); err != nil && s.logger != nil {
		s.logger.Warn("role matrix refresh after delete", slog.Any("error", err))
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "roles.override_removed",
			Entity:   "role",
			EntityID: role,
		})
	}
	return nil
}

func (s *Service) loadCached(ctx context.Context) (map[string]authz.Role, error) {
	if s.cache == nil {
		return nil, errors.New("roles: no cache configured")
	}
	data, err := s.cache.Get(ctx, matrixCacheKey).Bytes()
	if err != nil {
		return nil, err
	}
	var overrides []Override
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, err
	}
	matrix := make(map[string]authz.Role, len(overrides))
	for _, o := range overrides {
		if o.Role == authz.RoleAdministrator {
			continue
		}
		matrix[o.Role] = o.AuthzRole()
	}
	return matrix, nil
}

func (s *Service) storeCached(ctx context.Context, overrides []Override) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(overrides)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, matrixCacheKey, data, s.ttl).Err(); err != nil && s.logger != nil {
		s.logger.Warn("role matrix cache write", slog.Any("error", err))
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, matrixCacheKey).Err(); err != nil && s.logger != nil {
		s.logger.Warn("role matrix cache invalidate", slog.Any("error", err))
	}
}
