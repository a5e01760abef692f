package service

import (
	"context"
	"strings"

	"github.com/mihaja/event-ticketing/internal/authz"
	"github.com/mihaja/event-ticketing/internal/model"
)

// UserService exposes user management: listing is admin-only, everyone may
// view and update their own record, and only admins change roles.
type UserService struct {
	users UserStore
}

// NewUserService constructs a UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// UserPatch carries optional field updates.  Passwords are not updatable
// through this path; Role requires the admin role.
type UserPatch struct {
	Username *string
	Email    *string
	Role     *string
}

// List returns all users.  Admin only.
func (s *UserService) List(ctx context.Context, p authz.Principal) ([]model.User, error) {
	if !authz.Allowed(p, authz.ListUsers, authz.Resource{}) {
		return nil, ErrForbidden
	}
	return s.users.List(ctx)
}

// Get returns a single user record.  Non-admins may only view their own.
// The authorization check runs before the lookup so a denied caller cannot
// probe which ids exist.
func (s *UserService) Get(ctx context.Context, p authz.Principal, id uint64) (model.User, error) {
	if !authz.Allowed(p, authz.ViewUser, authz.Resource{UserID: id}) {
		return model.User{}, ErrForbidden
	}
	return s.users.GetByID(ctx, id)
}

// Update applies a patch to a user record.  Non-admins may only update their
// own record and may never change the role field.
func (s *UserService) Update(ctx context.Context, p authz.Principal, id uint64, patch UserPatch) (model.User, error) {
	if patch.Role != nil && !authz.Allowed(p, authz.ChangeRole, authz.Resource{UserID: id}) {
		return model.User{}, ErrForbidden
	}
	if !authz.Allowed(p, authz.UpdateUser, authz.Resource{UserID: id}) {
		return model.User{}, ErrForbidden
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if patch.Username != nil {
		u.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.Role != nil {
		if !model.ValidRole(*patch.Role) {
			return model.User{}, ErrInvalidRole
		}
		u.Role = *patch.Role
	}
	if err := s.users.Update(ctx, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}
