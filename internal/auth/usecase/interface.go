package usecase

import (
	"context"

	authdomain "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/domain"
	authdto "github.com/gustavorubino/Insta-Replyer-sub002/internal/auth/dto"
)

// InstagramAccount is the decrypted view of a user's connected account,
// handed to the usecases that call the Graph API.
type InstagramAccount struct {
	UserID      string // local user id
	IGUserID    string
	Username    string
	AccessToken string
}

// AuthUsecase defines the interface for authentication and account linking.
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	ValidateToken(tokenString string) (*authdomain.User, error)

	// ConnectInstagram exchanges an OAuth code, resolves the profile and
	// stores the token encrypted on the user row.
	ConnectInstagram(ctx context.Context, userID, code string) (*authdomain.User, error)
	DisconnectInstagram(userID string) error
	// InstagramAccount returns the decrypted account link, or a NOT_CONNECTED
	// error when the user has no linked account.
	InstagramAccount(userID string) (*InstagramAccount, error)
}
