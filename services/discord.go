package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const discordAPI = "https://discordapp.com/api"

// DiscordConfig configures the identity provider client. APIURL defaults to
// the public Discord API and is only overridden in tests.
type DiscordConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	CDN          string
	APIURL       string
}

// DiscordClient exchanges OAuth codes and resolves donor identities.
type DiscordClient struct {
	cfg    DiscordConfig
	client *http.Client
}

func NewDiscordClient(cfg DiscordConfig) *DiscordClient {
	if cfg.APIURL == "" {
		cfg.APIURL = discordAPI
	}
	return &DiscordClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Identity is a resolved donor identity, avatar already expanded to a full
// CDN URL.
type Identity struct {
	ID     int64
	Name   string
	Avatar string
}

// ExchangeCode trades an OAuth authorization code for access and refresh
// tokens.
func (d *DiscordClient) ExchangeCode(code string) (access, refresh string, err error) {
	form := url.Values{}
	form.Set("client_id", d.cfg.ClientID)
	form.Set("client_secret", d.cfg.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("scope", "identify")
	form.Set("redirect_uri", d.cfg.RedirectURI)

	resp, err := d.client.PostForm(d.cfg.APIURL+"/oauth2/token", form)
	if err != nil {
		return "", "", fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", "", fmt.Errorf("no access token in response (status %d)", resp.StatusCode)
	}
	return body.AccessToken, body.RefreshToken, nil
}

// FetchIdentity looks up the authenticated user and builds the CDN avatar
// URL from the avatar hash.
func (d *DiscordClient) FetchIdentity(token string) (Identity, error) {
	req, err := http.NewRequest(http.MethodGet, d.cfg.APIURL+"/users/@me", nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := d.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("identity lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("identity lookup returned status %d", resp.StatusCode)
	}

	var body struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Identity{}, fmt.Errorf("failed to parse user response: %w", err)
	}

	id, err := strconv.ParseInt(body.ID, 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("unexpected user id %q: %w", body.ID, err)
	}

	return Identity{
		ID:     id,
		Name:   body.Username,
		Avatar: fmt.Sprintf("%s/avatars/%s/%s.png?size=128", d.cfg.CDN, body.ID, body.Avatar),
	}, nil
}
