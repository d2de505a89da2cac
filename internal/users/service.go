package users

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/shared"
)

// Auditor records administrative edits.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles user management business logic.
type Service struct {
	repo  RepositoryPort
	audit Auditor
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit Auditor) *Service {
	return &Service{repo: repo, audit: audit}
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

// AccessUpdate describes an administrative edit to an account's
// authorization data.
type AccessUpdate struct {
	Role    string
	Store   *string
	Inherit bool
	Allowed []string
	Denied  []string
}

// UpdateAccess stores the account's role, store and custom permission
// overrides. The override blob is written in its normalized shape so the
// decision layer never sees a partial structure.
func (s *Service) UpdateAccess(ctx context.Context, actorID, id int64, update AccessUpdate) error {
	raw, err := json.Marshal(map[string]any{
		"inherit": update.Inherit,
		"allowed": emptyIfNil(update.Allowed),
		"denied":  emptyIfNil(update.Denied),
	})
	if err != nil {
		return fmt.Errorf("users: encode permissions: %w", err)
	}
	if err := s.repo.UpdateAccess(ctx, id, update.Role, update.Store, raw); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "users.access_updated",
			Entity:   "user",
			EntityID: strconv.FormatInt(id, 10),
			Meta: map[string]any{
				"role":    update.Role,
				"inherit": update.Inherit,
				"allowed": update.Allowed,
				"denied":  update.Denied,
			},
		})
	}
	return nil
}

// SetActive soft-enables or soft-disables an account.
func (s *Service) SetActive(ctx context.Context, actorID, id int64, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "users.active_toggled",
			Entity:   "user",
			EntityID: strconv.FormatInt(id, 10),
			Meta:     map[string]any{"active": active},
		})
	}
	return nil
}

// LoadAuthz resolves the account behind a session user ID into the
// decision layer's user record. Unknown and inactive accounts yield nil.
func (s *Service) LoadAuthz(ctx context.Context, sessionUserID string) (*authz.User, error) {
	id, err := strconv.ParseInt(sessionUserID, 10, 64)
	if err != nil {
		return nil, nil
	}
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return user.Authz(), nil
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
