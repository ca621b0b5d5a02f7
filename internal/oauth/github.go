// Package oauth implements the GitHub login flow.
package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Laisky/errors/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"blogCMS/internal/config"
	"blogCMS/internal/models"
)

const defaultAPIURL = "https://api.github.com"

type GitHubProvider struct {
	config *oauth2.Config
	apiURL string
}

type Option func(*GitHubProvider)

// WithEndpoint replaces the GitHub authorization and token URLs.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(p *GitHubProvider) {
		p.config.Endpoint = endpoint
	}
}

// WithAPIURL replaces the GitHub REST API base URL.
func WithAPIURL(apiURL string) Option {
	return func(p *GitHubProvider) {
		p.apiURL = apiURL
	}
}

func NewGitHubProvider(cfg config.GitHub, opts ...Option) *GitHubProvider {
	p := &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
		apiURL: defaultAPIURL,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Exchange trades the authorization code for a token and loads the GitHub profile.
// A private profile email is resolved through the emails endpoint.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*models.GitHubIdentity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка обмена кода авторизации GitHub")
	}

	client := p.config.Client(ctx, token)

	var user githubUser
	if err := p.getJSON(ctx, client, "/user", &user); err != nil {
		return nil, err
	}
	if user.ID == 0 || user.Login == "" {
		return nil, errors.New("GitHub вернул неполный профиль")
	}

	email := user.Email
	if email == "" {
		var emails []githubEmail
		if err := p.getJSON(ctx, client, "/user/emails", &emails); err != nil {
			return nil, err
		}
		email = primaryEmail(emails)
	}

	return &models.GitHubIdentity{
		GitHubID:  strconv.FormatInt(user.ID, 10),
		Username:  user.Login,
		Email:     email,
		AvatarURL: user.AvatarURL,
	}, nil
}

func (p *GitHubProvider) getJSON(ctx context.Context, client *http.Client, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+path, nil)
	if err != nil {
		return errors.Wrapf(err, "ошибка создания запроса %s", path)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "ошибка запроса к GitHub %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("GitHub %s вернул статус %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Wrapf(err, "ошибка разбора ответа GitHub %s", path)
	}

	return nil
}

func primaryEmail(emails []githubEmail) string {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email
		}
	}
	return ""
}
