package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homescout/homescout-backend/internal/repo"
	"github.com/homescout/homescout-backend/pkg/auth"
	"github.com/homescout/homescout-backend/pkg/enums"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
	"github.com/homescout/homescout-backend/pkg/pagination"
)

// ListParams filters the admin user directory.
type ListParams struct {
	pagination.Params
	Role *enums.Role
}

// Service is the admin-facing user directory.
type Service interface {
	List(ctx context.Context, actor auth.Actor, params ListParams) (*pagination.Page[UserDTO], error)
	Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*UserDTO, error)
	Remove(ctx context.Context, actor auth.Actor, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService wires the directory service.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context, actor auth.Actor, params ListParams) (*pagination.Page[UserDTO], error) {
	if err := actor.Require(enums.RoleAdmin); err != nil {
		return nil, err
	}
	if params.Role != nil && !params.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role filter")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.List(ctx, params.Role, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	names, err := s.repo.DisplayNames(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profiles")
	}

	dtos := make([]UserDTO, len(rows))
	for i := range rows {
		dtos[i] = *FromModel(&rows[i], names[rows[i].ID])
	}
	page := pagination.Trim(dtos, params.Limit, func(u UserDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: u.CreatedAt, ID: u.ID}
	})
	return &page, nil
}

func (s *service) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*UserDTO, error) {
	if actor.Anonymous() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required")
	}
	if actor.UserID != id && !actor.Is(enums.RoleAdmin) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot view another user")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.NotFound(err, "user not found")
	}
	names, err := s.repo.DisplayNames(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return FromModel(user, names[id]), nil
}

// Remove deletes a user and their profile. Users still referenced by listings,
// enquiries, sales, payments or investments are kept.
func (s *service) Remove(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if err := actor.Require(enums.RoleAdmin); err != nil {
		return err
	}
	if actor.UserID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "admins cannot remove themselves")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		users := s.repo.WithTx(tx)
		user, err := users.FindByID(ctx, id)
		if err != nil {
			return repo.NotFound(err, "user not found")
		}
		deps, err := users.Dependents(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user references")
		}
		if len(deps) > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "user is still referenced").
				WithDetails(map[string]any{"references": deps})
		}
		if err := users.DeleteWithProfile(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
		}
		return nil
	})
}
