package usecase

import (
	"context"
	"errors"
	"time"

	authdomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/domain"
	authdto "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/dto"
	"github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/repository"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/apperr"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/config"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/crypto"
	"github.com/gustavorubino/Insta-Replyer-sub002/pkg/instagram"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// ProfileFetcher is the slice of the Instagram client the auth flow needs.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, accessToken string) (*instagram.Profile, error)
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo  repository.UserRepository
	config    *config.Config
	oauthConf *oauth2.Config
	profiles  ProfileFetcher
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, cfg *config.Config, profiles ProfileFetcher) AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		config:    cfg,
		oauthConf: instagram.NewOAuthConfig(cfg.InstagramAppID, cfg.InstagramAppSecret, cfg.InstagramRedirectURI),
		profiles:  profiles,
	}
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, errors.New("invalid email or password")
	}

	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, errors.New("invalid email or password")
	}

	return u.generateTokens(user)
}

func (u *authUsecase) Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	existing, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
	}

	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}

	return u.generateTokens(user)
}

func (u *authUsecase) RefreshToken(refreshToken string) (*authdto.TokenResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	// Check if token exists in repository
	storedToken, err := u.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if storedToken == nil || storedToken.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("refresh token expired")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, errors.New("user not found")
	}

	return u.generateTokens(user)
}

func (u *authUsecase) Logout(refreshToken string) error {
	return u.userRepo.DeleteRefreshToken(refreshToken)
}

func (u *authUsecase) ConnectInstagram(ctx context.Context, userID, code string) (*authdomain.User, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.New(apperr.CodeNotFound, "user not found")
	}

	token, err := instagram.ExchangeCode(ctx, u.oauthConf, code)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeAPIError, "instagram code exchange failed", err)
	}

	profile, err := u.profiles.GetProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	encrypted, err := crypto.Encrypt(token.AccessToken, u.config.EncryptionKey)
	if err != nil {
		return nil, err
	}

	user.InstagramUserID = profile.ID
	user.InstagramUsername = profile.Username
	user.InstagramToken = encrypted
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		user.TokenExpiry = &expiry
	}

	if err := u.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) DisconnectInstagram(userID string) error {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.New(apperr.CodeNotFound, "user not found")
	}

	user.InstagramUserID = ""
	user.InstagramUsername = ""
	user.InstagramToken = ""
	user.TokenExpiry = nil
	return u.userRepo.Update(user)
}

func (u *authUsecase) InstagramAccount(userID string) (*InstagramAccount, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.New(apperr.CodeNotFound, "user not found")
	}
	if !user.Connected() {
		return nil, apperr.New(apperr.CodeNotConnected, "no Instagram account linked")
	}

	accessToken, err := crypto.Decrypt(user.InstagramToken, u.config.EncryptionKey)
	if err != nil {
		return nil, err
	}

	return &InstagramAccount{
		UserID:      user.ID,
		IGUserID:    user.InstagramUserID,
		Username:    user.InstagramUsername,
		AccessToken: accessToken,
	}, nil
}

func (u *authUsecase) generateTokens(user *authdomain.User) (*authdto.TokenResponse, error) {
	accessToken, err := u.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	refreshTokenEntity := &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.config.JWTRefreshExpiry),
	}
	if err := u.userRepo.SaveRefreshToken(refreshTokenEntity); err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) generateAccessToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) generateRefreshToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"token_id": uuid.New().String(),
		"exp":      time.Now().Add(u.config.JWTRefreshExpiry).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, errors.New("user not found")
	}

	return user, nil
}
