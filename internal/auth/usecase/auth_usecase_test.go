package usecase

import (
	"path/filepath"
	"testing"
	"time"

	authdomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/domain"
	authdto "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/dto"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/repository"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/config"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAuthFixture(t *testing.T) (AuthUsecase, repository.UserRepository, *config.Config) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=10000&_txlock=immediate"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}))

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
		EncryptionKey:    "test-encryption-key",
	}
	userRepo := repository.NewUserRepository(db)
	return NewAuthUsecase(userRepo, cfg, nil), userRepo, cfg
}

func TestRegisterAndLogin(t *testing.T) {
	uc, _, _ := newAuthFixture(t)

	tokens, err := uc.Register(&authdto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "secret123",
		Name:     "Ana",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	// The stored password is hashed, never echoed back in plain form.
	assert.NotEqual(t, "secret123", tokens.User.Password)

	_, err = uc.Register(&authdto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "other",
	})
	assert.Error(t, err)

	login, err := uc.Login(&authdto.LoginRequest{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, tokens.User.ID, login.User.ID)

	_, err = uc.Login(&authdto.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.Error(t, err)
	_, err = uc.Login(&authdto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.Error(t, err)
}

func TestRefreshTokenRotation(t *testing.T) {
	uc, _, _ := newAuthFixture(t)

	tokens, err := uc.Register(&authdto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	refreshed, err := uc.RefreshToken(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, tokens.User.ID, refreshed.User.ID)

	_, err = uc.RefreshToken("not-a-jwt")
	assert.Error(t, err)
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	uc, _, _ := newAuthFixture(t)

	tokens, err := uc.Register(&authdto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(tokens.RefreshToken))

	_, err = uc.RefreshToken(tokens.RefreshToken)
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	uc, _, _ := newAuthFixture(t)

	tokens, err := uc.Register(&authdto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	user, err := uc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)

	_, err = uc.ValidateToken("garbage")
	assert.Error(t, err)
}

func TestInstagramAccountRequiresConnection(t *testing.T) {
	uc, userRepo, cfg := newAuthFixture(t)

	tokens, err := uc.Register(&authdto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	userID := tokens.User.ID

	_, err = uc.InstagramAccount(userID)
	assert.Equal(t, apperr.CodeNotConnected, apperr.CodeOf(err))

	// Link an account the way ConnectInstagram stores it.
	encrypted, err := crypto.Encrypt("ig-access-token", cfg.EncryptionKey)
	require.NoError(t, err)
	user, err := userRepo.FindByID(userID)
	require.NoError(t, err)
	user.InstagramUserID = "ig-123"
	user.InstagramUsername = "ana_shop"
	user.InstagramToken = encrypted
	require.NoError(t, userRepo.Update(user))

	account, err := uc.InstagramAccount(userID)
	require.NoError(t, err)
	assert.Equal(t, "ig-123", account.IGUserID)
	assert.Equal(t, "ana_shop", account.Username)
	// The token comes back decrypted and never leaves storage in the clear.
	assert.Equal(t, "ig-access-token", account.AccessToken)
	assert.NotEqual(t, "ig-access-token", user.InstagramToken)

	require.NoError(t, uc.DisconnectInstagram(userID))
	_, err = uc.InstagramAccount(userID)
	assert.Equal(t, apperr.CodeNotConnected, apperr.CodeOf(err))

	// Webhook routing finds nobody once disconnected.
	found, err := userRepo.FindByInstagramUserID("ig-123")
	require.NoError(t, err)
	assert.Nil(t, found)
}
