package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-dulceria-api/internal/model"
	"go-dulceria-api/internal/repository"
	"go-dulceria-api/pkg/apperr"
	"go-dulceria-api/pkg/jwt"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = apperr.Unauthorized("invalid_credentials", "Correo o contraseña incorrectos")
	ErrUserNotFound       = apperr.NotFound("user_not_found", "Usuario no encontrado")
	ErrUserInactive       = apperr.Forbidden("user_inactive", "La cuenta está desactivada")
	ErrWrongPassword      = apperr.Rejected("wrong_password", "La contraseña actual no es correcta")
	ErrInvalidToken       = apperr.Unauthorized("invalid_token", "Sesión inválida o expirada")
	ErrSessionReplaced    = apperr.Unauthorized("session_replaced", "La sesión se abrió en otro dispositivo")
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error
	// Authenticate checks a token against the stored session and returns its user
	Authenticate(ctx context.Context, token string) (*model.User, *jwt.Claims, error)
	ValidateToken(ctx context.Context, token string) (*TokenValidationResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens, now: time.Now}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validationError(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, internalError("auth: login", err)
	}
	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// Single session: a new token version invalidates older tokens
	version := uuid.NewString()
	now := s.now()
	if err := s.userRepo.StartSession(ctx, user.ID, version, now); err != nil {
		return nil, internalError("auth: start session", err)
	}
	user.TokenVersion = version
	user.LastLoginAt = &now

	token, err := s.tokens.GenerateToken(jwt.Subject{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.FullName,
		RoleCode:     user.RoleCode(),
		Privileges:   user.GetPrivilegeCodes(),
		TokenVersion: version,
	})
	if err != nil {
		return nil, internalError("auth: sign token", err)
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := validationError(req); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return lookupError("auth: change password", err, ErrUserNotFound)
	}
	if !user.CheckPassword(req.OldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return internalError("auth: hash password", err)
	}
	user.UpdatedBy = userID.String()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return internalError("auth: change password", err)
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, *jwt.Claims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, internalError("auth: authenticate", err)
	}
	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, nil, ErrSessionReplaced
	}
	return user, claims, nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenValidationResponse, error) {
	user, _, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}
