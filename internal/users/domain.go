package users

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/neitanzinx/Moveis-Pedro-II-Hub-sub007/internal/authz"
)

// User represents a user account for management.
type User struct {
	ID        int64
	Email     string
	Name      string
	Role      string
	Store     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time

	// RawPermissions is the custom_permissions JSONB column as stored;
	// it is normalized at the boundary, never interpreted directly.
	RawPermissions json.RawMessage
}

// Authz converts the account into the decision layer's user record. A nil
// or inactive account yields nil, which the decision layer treats as
// unauthenticated.
func (u *User) Authz() *authz.User {
	if u == nil || !u.IsActive {
		return nil
	}
	store := ""
	if u.Store != nil {
		store = *u.Store
	}
	return &authz.User{
		ID:          strconv.FormatInt(u.ID, 10),
		Email:       u.Email,
		Role:        u.Role,
		Store:       store,
		Permissions: authz.ParseCustomPermissions(u.RawPermissions),
	}
}
