package instagram

import (
	"context"

	"golang.org/x/oauth2"
)

// OAuthEndpoint is the Instagram Basic Display authorization endpoint pair.
var OAuthEndpoint = oauth2.Endpoint{
	AuthURL:  "https://api.instagram.com/oauth/authorize",
	TokenURL: "https://api.instagram.com/oauth/access_token",
}

// NewOAuthConfig builds the oauth2 config used by the account-connect flow.
func NewOAuthConfig(appID, appSecret, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     appID,
		ClientSecret: appSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{"instagram_business_basic", "instagram_business_manage_messages", "instagram_business_manage_comments"},
		Endpoint:     OAuthEndpoint,
	}
}

// ExchangeCode trades an authorization code for an access token.
func ExchangeCode(ctx context.Context, conf *oauth2.Config, code string) (*oauth2.Token, error) {
	return conf.Exchange(ctx, code)
}
