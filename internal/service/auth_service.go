package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"jewel-erp/internal/apperr"
	"jewel-erp/internal/model"
	"jewel-erp/internal/repository"
	"jewel-erp/pkg/jwt"
	"jewel-erp/pkg/logger"
)

var (
	ErrInvalidCredentials = apperr.New(apperr.ErrUnauthorized, "invalid email or password")
	ErrUserNotFound       = apperr.NotFound("user not found")
	ErrUserInactive       = apperr.New(apperr.ErrUnauthorized, "user account is inactive")
	ErrWrongPassword      = apperr.New(apperr.ErrUnauthorized, "current password is incorrect")
	ErrSessionTimeout     = apperr.New(apperr.ErrUnauthorized, "session expired due to inactivity")
	ErrSessionReplaced    = apperr.New(apperr.ErrUnauthorized, "session expired (logged in on another device)")
)

const (
	// SessionIdleTimeout ends a session whose client stopped sending heartbeats.
	SessionIdleTimeout = 5 * time.Minute

	EventUserStatus = "USER_STATUS_UPDATE"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ResetPassword(ctx context.Context, email, oldPassword, newPassword string) error
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
	Heartbeat(ctx context.Context, userID uuid.UUID) error
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

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	events   EventPublisher
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, events EventPublisher) AuthService {
	if events == nil {
		events = nopPublisher{}
	}
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		events:   events,
		log:      logger.WithComponent("auth"),
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		s.log.Warn().Str("email", email).Msg("failed login")
		return nil, ErrInvalidCredentials
	}

	// A fresh token version invalidates the previous session.
	now := s.now()
	user.TokenVersion = uuid.New().String()
	user.LastSeenAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperr.Processing(err, "failed to update session")
	}

	token, err := s.tokens.GenerateToken(jwt.Identity{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.FullName,
		RoleCode:     user.RoleCode(),
		Privileges:   user.PrivilegeCodes(),
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, apperr.Processing(err, "failed to generate token")
	}

	s.log.Info().Str("email", user.Email).Str("role", user.RoleCode()).Msg("user logged in")
	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.PrivilegeCodes(),
	}, nil
}

func (s *authService) ResetPassword(ctx context.Context, email, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return apperr.InvalidArgument("new password must be at least 6 characters")
	}
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return lookupErr(err, "user not found")
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(newPassword); err != nil {
		return apperr.Processing(err, "failed to hash new password")
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return err
	}
	return s.userRepo.UpdateTokenVersion(ctx, user.ID, uuid.New().String())
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, apperr.New(apperr.ErrUnauthorized, "%s", err.Error())
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}
	if user.LastSeenAt == nil || s.now().Sub(*user.LastSeenAt) > SessionIdleTimeout {
		return nil, ErrSessionTimeout
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.PrivilegeCodes(),
	}, nil
}

// Heartbeat keeps the session alive and tells other clients the user is online.
func (s *authService) Heartbeat(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.TouchLastSeen(ctx, userID); err != nil {
		return err
	}
	s.events.Publish(EventUserStatus, map[string]interface{}{
		"user_id":      userID.String(),
		"status":       "online",
		"last_seen_at": s.now(),
	})
	return nil
}
