package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depotUser() *model.User {
	depotID := "3"
	return &model.User{ID: "u-1", Username: "labo3", DisplayName: "Labo 3", Role: model.RoleDepot, DepotID: &depotID}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, expiresAt, err := tm.Issue(depotUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	actor, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, model.Actor{UserID: "u-1", UserName: "Labo 3", Role: model.RoleDepot, DepotID: "3"}, actor)
}

func TestParseRejectsBadTokens(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := NewTokenManager("other", time.Hour).Issue(depotUser())
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	expired, _, err := NewTokenManager("secret", -time.Minute).Issue(depotUser())
	require.NoError(t, err)
	_, err = tm.Parse(expired)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	_, err = tm.Parse("not-a-jwt")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestCanAccessDepot(t *testing.T) {
	assert.True(t, CanAccessDepot(model.Actor{Role: model.RoleAdmin}, "7"))
	assert.True(t, CanAccessDepot(model.Actor{Role: model.RoleDepot, DepotID: "7"}, "7"))
	assert.False(t, CanAccessDepot(model.Actor{Role: model.RoleDepot, DepotID: "7"}, "8"))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tm := NewTokenManager("secret", time.Hour)
	log := logger.NewNop()

	r := gin.New()
	r.Use(Middleware(tm, log))
	r.GET("/me", func(c *gin.Context) {
		actor, _ := GetActor(c)
		c.String(http.StatusOK, actor.DepotID)
	})
	r.GET("/admin", RequireRole(model.RoleAdmin, log), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	token, _, err := tm.Issue(depotUser())
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		cookie string
		status int
	}{
		{"missing token", "/me", "", "", http.StatusUnauthorized},
		{"bearer token", "/me", "Bearer " + token, "", http.StatusOK},
		{"cookie token", "/me", "", token, http.StatusOK},
		{"garbage token", "/me", "Bearer nope", "", http.StatusUnauthorized},
		{"wrong role", "/admin", "Bearer " + token, "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "3", w.Body.String())
			}
		})
	}
}
