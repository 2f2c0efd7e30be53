// Package discord wraps the Discord REST API calls the back office depends
// on: the OAuth code exchange and the guild membership lookups used for
// access control. Every call fails closed: a timeout or unexpected status
// is an error, never a silent grant.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flashback-backend/internal/config"
)

const defaultBaseURL = "https://discord.com/api/v10"

// requestTimeout bounds every outbound call.
const requestTimeout = 15 * time.Second

var (
	// ErrUpstream marks an unreachable Discord API or an unexpected status.
	ErrUpstream = errors.New("discord upstream error")
	// ErrNotMember marks a 404 on a guild member lookup.
	ErrNotMember = errors.New("not a guild member")
)

type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	botToken     string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: requestTimeout},
		baseURL:      defaultBaseURL,
		clientID:     cfg.DiscordClientID,
		clientSecret: cfg.DiscordClientSecret,
		botToken:     cfg.DiscordBotToken,
	}
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

type UserInfo struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Avatar        *string `json:"avatar"`
	Discriminator *string `json:"discriminator"`
}

type GuildInfo struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Icon *string `json:"icon"`
}

type MemberInfo struct {
	Roles []string `json:"roles"` // role ids
	Nick  *string  `json:"nick"`
}

type RoleInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ExchangeCode trades an OAuth authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {redirectURI},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token TokenResponse
	if err := c.do(req, &token); err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrUpstream)
	}
	return &token, nil
}

// CurrentUser fetches the identity behind a user access token.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := c.newBearerRequest(ctx, accessToken, "/users/@me")
	if err != nil {
		return nil, err
	}
	var user UserInfo
	if err := c.do(req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUserGuilds lists the guilds the user belongs to.
func (c *Client) CurrentUserGuilds(ctx context.Context, accessToken string) ([]GuildInfo, error) {
	req, err := c.newBearerRequest(ctx, accessToken, "/users/@me/guilds")
	if err != nil {
		return nil, err
	}
	var guilds []GuildInfo
	if err := c.do(req, &guilds); err != nil {
		return nil, err
	}
	return guilds, nil
}

// GuildMember looks up a member in a guild with the bot token. Returns
// ErrNotMember on 404.
func (c *Client) GuildMember(ctx context.Context, guildID, userID string) (*MemberInfo, error) {
	req, err := c.newBotRequest(ctx, fmt.Sprintf("/guilds/%s/members/%s", guildID, userID))
	if err != nil {
		return nil, err
	}
	var member MemberInfo
	if err := c.do(req, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// GuildRoles lists a guild's roles (id -> name resolution).
func (c *Client) GuildRoles(ctx context.Context, guildID string) ([]RoleInfo, error) {
	req, err := c.newBotRequest(ctx, fmt.Sprintf("/guilds/%s/roles", guildID))
	if err != nil {
		return nil, err
	}
	var roles []RoleInfo
	if err := c.do(req, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (c *Client) newBearerRequest(ctx context.Context, accessToken, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return req, nil
}

func (c *Client) newBotRequest(ctx context.Context, path string) (*http.Request, error) {
	if c.botToken == "" {
		return nil, fmt.Errorf("%w: bot token not configured", ErrUpstream)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotMember
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s returned %d: %s", ErrUpstream, req.URL.Path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	return nil
}
