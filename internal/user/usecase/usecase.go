package usecase

import (
	"context"
	"time"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/auth"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/user"
	"github.com/fekuna/labstock-service/internal/user/dto"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type userUseCase struct {
	repo   user.Repository
	tokens *auth.TokenManager
	logger logger.ZapLogger
}

func NewUserUseCase(repo user.Repository, tokens *auth.TokenManager, log logger.ZapLogger) user.UseCase {
	return &userUseCase{
		repo:   repo,
		tokens: tokens,
		logger: log,
	}
}

func (uc *userUseCase) Login(ctx context.Context, input *dto.LoginInput) (*dto.LoginResult, error) {
	u, err := uc.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)) != nil {
		uc.logger.Warn("failed login", zap.String("username", input.Username))
		return nil, apperror.Unauthorized("invalid credentials")
	}

	token, expiresAt, err := uc.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResult{Token: token, ExpiresAt: expiresAt.Unix(), User: u}, nil
}

func (uc *userUseCase) CreateUser(ctx context.Context, input *dto.CreateUserInput) (*model.User, error) {
	if input.Role != model.RoleAdmin && input.Role != model.RoleDepot {
		return nil, apperror.Validation("role", "must be admin or depot")
	}
	if input.Role == model.RoleDepot && input.DepotID == "" {
		return nil, apperror.Validation("depot_id", "required for depot users")
	}
	if len(input.Password) < 6 {
		return nil, apperror.Validation("password", "at least 6 characters")
	}

	existing, err := uc.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		DisplayName:  input.DisplayName,
		PasswordHash: string(hash),
		Role:         input.Role,
		CreatedAt:    time.Now(),
	}
	if u.DisplayName == "" {
		u.DisplayName = input.Username
	}
	if input.DepotID != "" {
		depotID := input.DepotID
		u.DepotID = &depotID
	}

	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *userUseCase) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}
