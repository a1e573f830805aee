package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rovia_backend/internal/config"
	"rovia_backend/internal/model"
	"rovia_backend/internal/repository"
	"rovia_backend/internal/util"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{
		Username: "maria",
		Email:    "maria@example.com",
		Password: "s3cret-pass",
	}
	require.NoError(t, svc.Register(user))
	assert.Equal(t, model.Tourist, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.Password, "password must be stored hashed")

	token, err := svc.Login("maria@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, "test-secret-test-secret-test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Tourist, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	require.NoError(t, svc.Register(&model.User{Username: "a", Email: "dup@example.com", Password: "pw1"}))
	err := svc.Register(&model.User{Username: "b", Email: "dup@example.com", Password: "pw2"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	require.NoError(t, svc.Register(&model.User{Username: "maria", Email: "maria@example.com", Password: "right"}))

	_, err := svc.Login("maria@example.com", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = svc.Login("ghost@example.com", "right")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
