package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/auth"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/store/memory"
	"github.com/fekuna/labstock-service/internal/user"
	"github.com/fekuna/labstock-service/internal/user/dto"
	"github.com/fekuna/labstock-service/internal/user/usecase"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase() (user.UseCase, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return usecase.NewUserUseCase(memory.New().Users(), tokens, logger.NewNop()), tokens
}

func TestCreateUserAndLogin(t *testing.T) {
	ctx := context.Background()
	uc, tokens := newUseCase()

	u, err := uc.CreateUser(ctx, &dto.CreateUserInput{
		Username: "labo-a",
		Password: "secret1",
		Role:     model.RoleDepot,
		DepotID:  "1",
	})
	require.NoError(t, err)
	assert.Equal(t, "labo-a", u.DisplayName)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	res, err := uc.Login(ctx, &dto.LoginInput{Username: "labo-a", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	actor, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleDepot, actor.Role)
	assert.Equal(t, "1", actor.DepotID)

	_, err = uc.Login(ctx, &dto.LoginInput{Username: "labo-a", Password: "wrong"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	_, err = uc.Login(ctx, &dto.LoginInput{Username: "nobody", Password: "secret1"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	got, err := uc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "labo-a", got.Username)
}

func TestCreateUser_Validation(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase()

	cases := []struct {
		name  string
		input dto.CreateUserInput
		kind  apperror.Kind
	}{
		{"unknown role", dto.CreateUserInput{Username: "x", Password: "secret1", Role: "guest"}, apperror.KindValidation},
		{"depot user without depot", dto.CreateUserInput{Username: "x", Password: "secret1", Role: model.RoleDepot}, apperror.KindValidation},
		{"short password", dto.CreateUserInput{Username: "x", Password: "123", Role: model.RoleAdmin}, apperror.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateUser(ctx, &tc.input)
			assert.True(t, apperror.Is(err, tc.kind), "got %v", err)
		})
	}

	_, err := uc.CreateUser(ctx, &dto.CreateUserInput{Username: "admin", Password: "secret1", Role: model.RoleAdmin})
	require.NoError(t, err)
	_, err = uc.CreateUser(ctx, &dto.CreateUserInput{Username: "admin", Password: "secret2", Role: model.RoleAdmin})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = uc.GetUser(ctx, "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
