package service

import (
	"context"
	"strings"

	"github.com/iZhuoxx/AI-web/internal/dto"
	"github.com/iZhuoxx/AI-web/internal/entity"
	"github.com/iZhuoxx/AI-web/internal/pkg/apperror"
	"github.com/iZhuoxx/AI-web/internal/pkg/logger"
	"github.com/iZhuoxx/AI-web/internal/repository/specification"
	"github.com/iZhuoxx/AI-web/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.SessionInfoResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionInfoResponse, error)
	SessionInfo(ctx context.Context, userId uuid.UUID) (*dto.SessionInfoResponse, error)
	IsActiveUser(ctx context.Context, userId uuid.UUID) (bool, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.SessionInfoResponse, error) {
	email := normalizeEmail(req.Email)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Validation("Email already registered")
	}

	var name *string
	if req.Name != nil {
		if trimmed := strings.TrimSpace(*req.Name); trimmed != "" {
			name = &trimmed
		}
	}
	user := &entity.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		// Two concurrent registrations race past the lookup; the index decides.
		if apperror.IsUniqueViolation(err) {
			return nil, apperror.Validation("Email already registered")
		}
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("AUTH", "User registered", map[string]interface{}{
		"user_id": user.Id.String(),
	})
	return toSessionInfo(user, nil), nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.SessionInfoResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: normalizeEmail(req.Email)})
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	if !user.IsActive {
		return nil, apperror.Forbidden("Account disabled")
	}

	memberships, err := uow.UserRepository().FindMemberships(ctx, user.Id)
	if err != nil {
		return nil, err
	}
	return toSessionInfo(user, memberships), nil
}

func (s *authService) SessionInfo(ctx context.Context, userId uuid.UUID) (*dto.SessionInfoResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Unauthorized("Not authenticated")
	}
	if !user.IsActive {
		return nil, apperror.Forbidden("Account disabled")
	}

	memberships, err := uow.UserRepository().FindMemberships(ctx, user.Id)
	if err != nil {
		return nil, err
	}
	return toSessionInfo(user, memberships), nil
}

// IsActiveUser reports whether the user still exists and is active.
func (s *authService) IsActiveUser(ctx context.Context, userId uuid.UUID) (bool, error) {
	user, err := s.uowFactory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return false, err
	}
	return user != nil && user.IsActive, nil
}
