package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/shrimpsizemoose/trekker/logger"
)

const (
	googleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	githubUserURL     = "https://api.github.com/user"
	githubEmailsURL   = "https://api.github.com/user/emails"
)

// ProviderConfig is the per-provider block of the TOML config.
type ProviderConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURL  string `toml:"redirect_url"`
}

// Provider wraps an oauth2.Config with the profile fetch for its variant.
type Provider struct {
	Name   string
	Config *oauth2.Config
}

func NewGoogleProvider(cfg ProviderConfig) *Provider {
	return &Provider{
		Name: ProviderGoogle,
		Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func NewGitHubProvider(cfg ProviderConfig) *Provider {
	return &Provider{
		Name: ProviderGitHub,
		Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     githuboauth.Endpoint,
		},
	}
}

func (p *Provider) AuthURL(state string) string {
	return p.Config.AuthCodeURL(state)
}

// FetchProfile exchanges the callback code and retrieves the provider
// profile for it.
func (p *Provider) FetchProfile(ctx context.Context, code string) (Profile, error) {
	token, err := p.Config.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to exchange code: %w", err)
	}

	client := p.Config.Client(ctx, token)
	switch p.Name {
	case ProviderGoogle:
		return fetchGoogleProfile(client)
	case ProviderGitHub:
		return fetchGitHubProfile(client)
	default:
		return Profile{}, fmt.Errorf("unknown provider: %s", p.Name)
	}
}

func fetchGoogleProfile(client *http.Client) (Profile, error) {
	var claims OIDCClaims
	if err := getJSON(client, googleUserinfoURL, &claims); err != nil {
		return Profile{}, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	return Profile{Provider: ProviderGoogle, OIDC: &claims}, nil
}

func fetchGitHubProfile(client *http.Client) (Profile, error) {
	var user GitHubUser
	if err := getJSON(client, githubUserURL, &user); err != nil {
		return Profile{}, fmt.Errorf("failed to fetch github user: %w", err)
	}

	if user.Email == "" {
		// Email lookup failures are the one case we swallow: the profile
		// falls back to the synthesized placeholder instead of aborting.
		email, err := fetchGitHubPrimaryEmail(client)
		if err != nil {
			logger.Debug.Printf("github email lookup failed for %s: %v", user.Login, err)
		} else {
			user.Email = email
		}
	}

	return Profile{Provider: ProviderGitHub, GitHub: &user}, nil
}

func fetchGitHubPrimaryEmail(client *http.Client) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(client, githubEmailsURL, &emails); err != nil {
		return "", err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}
	return "", fmt.Errorf("no verified email on account")
}

func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
