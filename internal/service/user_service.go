package service

import (
	"context"
	"errors"
	"strings"

	"go-dulceria-api/internal/model"
	"go-dulceria-api/internal/repository"
	"go-dulceria-api/pkg/apperr"

	"github.com/google/uuid"
)

var (
	ErrEmailExists    = apperr.Conflict("email_exists", "Ya existe un usuario con ese correo")
	ErrRoleNotFound   = apperr.NotFound("role_not_found", "Rol no encontrado")
	ErrDeleteYourself = apperr.Rejected("delete_self", "No puedes eliminar tu propia cuenta")
)

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=255"`
	RoleID   uint   `json:"role_id" validate:"required"`
}

type UpdateUserRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
	FullName string  `json:"full_name" validate:"required,max=255"`
	RoleID   uint    `json:"role_id" validate:"required"`
	IsActive *bool   `json:"is_active"`
}

type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest, creatorID string) (*model.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID, actorID string) error
	UpdateUserPrivileges(ctx context.Context, userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	// ResetPassword sets a new password and ends the current session
	ResetPassword(ctx context.Context, email, newPassword string) error
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
	}
}

func (s *userService) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *userService) findRole(ctx context.Context, id uint) (*model.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("user: find role", err, ErrRoleNotFound)
	}
	return role, nil
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest, creatorID string) (*model.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validationError(req); err != nil {
		return nil, err
	}

	taken, err := s.emailTaken(ctx, req.Email)
	if err != nil {
		return nil, internalError("user: create", err)
	}
	if taken {
		return nil, ErrEmailExists
	}

	role, err := s.findRole(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    req.Email,
		FullName: strings.TrimSpace(req.FullName),
		RoleID:   &role.ID,
		IsActive: true,
		// privileges follow the role unless changed afterwards
		Privileges: role.Privileges,
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID

	if err := user.SetPassword(req.Password); err != nil {
		return nil, internalError("user: hash password", err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, internalError("user: create", err)
	}
	user.Role = role
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validationError(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError("user: update", err, ErrUserNotFound)
	}

	if req.Email != strings.ToLower(user.Email) {
		taken, err := s.emailTaken(ctx, req.Email)
		if err != nil {
			return nil, internalError("user: update", err)
		}
		if taken {
			return nil, ErrEmailExists
		}
	}

	role, err := s.findRole(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	roleChanged := user.RoleID == nil || *user.RoleID != role.ID

	user.Email = req.Email
	user.FullName = strings.TrimSpace(req.FullName)
	user.RoleID = &role.ID
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = updaterID

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, internalError("user: hash password", err)
		}
		// force a new login
		user.TokenVersion = ""
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, internalError("user: update", err)
	}
	if roleChanged {
		if err := s.userRepo.ReplacePrivileges(ctx, user, role.Privileges); err != nil {
			return nil, internalError("user: reset privileges", err)
		}
	}

	return s.reload(ctx, userID)
}

func (s *userService) reload(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("user: reload", err, ErrUserNotFound)
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID, actorID string) error {
	if userID.String() == actorID {
		return ErrDeleteYourself
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return lookupError("user: delete", err, ErrUserNotFound)
	}
	return nil
}

func (s *userService) UpdateUserPrivileges(ctx context.Context, userID uuid.UUID, privilegeCodes []string, updaterID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError("user: update privileges", err, ErrUserNotFound)
	}

	privileges, err := s.privilegeRepo.FindByCodes(ctx, privilegeCodes)
	if err != nil {
		return nil, internalError("user: find privileges", err)
	}
	if len(privileges) != len(uniqueStrings(privilegeCodes)) {
		return nil, apperr.Validation("unknown_privilege", "Uno de los permisos no existe")
	}

	if err := s.userRepo.ReplacePrivileges(ctx, user, privileges); err != nil {
		return nil, internalError("user: update privileges", err)
	}
	user.UpdatedBy = updaterID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, internalError("user: update privileges", err)
	}

	return s.reload(ctx, userID)
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, internalError("user: list", err)
	}

	responses := make([]model.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("user: get", err, ErrUserNotFound)
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if len(newPassword) < 8 {
		return apperr.Validation("password_too_short", "La contraseña debe tener al menos 8 caracteres")
	}
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return lookupError("user: reset password", err, ErrUserNotFound)
	}
	if err := user.SetPassword(newPassword); err != nil {
		return internalError("user: hash password", err)
	}
	user.TokenVersion = ""
	user.UpdatedBy = "system"
	if err := s.userRepo.Update(ctx, user); err != nil {
		return internalError("user: reset password", err)
	}
	return nil
}
