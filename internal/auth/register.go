package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/homescout/homescout-backend/internal/users"
	"github.com/homescout/homescout-backend/pkg/db"
	"github.com/homescout/homescout-backend/pkg/enums"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
	"github.com/homescout/homescout-backend/pkg/security"
)

// RegisterRequest contains the payload required to open an account.
type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=64"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=5,max=20"`
	Password string  `json:"password" validate:"required"`
	Role     string  `json:"role" validate:"required"`
	FullName string  `json:"full_name" validate:"required"`
}

// RegisterService handles the account creation transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB          txRunner
	Credentials security.CredentialScheme
}

type registerService struct {
	db          txRunner
	credentials security.CredentialScheme
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Credentials == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "credential scheme required")
	}
	return &registerService{db: params.DB, credentials: params.Credentials}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.UserDTO, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	role, err := enums.ParseRole(req.Role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
	}
	if role == enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin accounts cannot self-register")
	}
	email := normalizeOptional(req.Email, true)
	phone := normalizeOptional(req.Phone, false)

	credential, err := s.credentials.Encode(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}

	var created *users.UserDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		if existing, err := userRepo.FindCollision(ctx, username, email, phone); err == nil {
			return collisionError(existing.Username == username)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing accounts")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Username:   username,
			Email:      email,
			Phone:      phone,
			Credential: credential,
			Role:       role,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return collisionError(false)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
		if err := userRepo.CreateProfile(ctx, user, fullName); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
		}

		created = users.FromModel(user, fullName)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func collisionError(username bool) error {
	if username {
		return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "email or phone already registered")
}

func normalizeOptional(value *string, lower bool) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	if lower {
		v = strings.ToLower(v)
	}
	return &v
}
