package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flightrank-engine/internal/provider"
)

// accessToken returns a cached OAuth2 client-credentials token, refreshing
// when fewer than 30 seconds remain.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Until(c.tokenUntil) > 30*time.Second {
		return c.token, nil
	}

	secret, err := c.cfg.Secret()
	if err != nil {
		return "", fmt.Errorf("amadeus credentials: %w", err)
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", secret)

	u := fmt.Sprintf("https://%s/v1/security/oauth2/token", c.cfg.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("amadeus token: %w: %v", provider.ErrTemporary, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 500 {
		return "", fmt.Errorf("amadeus token status %d: %w", res.StatusCode, provider.ErrTemporary)
	}
	if res.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", fmt.Errorf("amadeus token status %d: %s", res.StatusCode, string(b))
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("amadeus token decode: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("amadeus token response had no access_token")
	}

	c.token = body.AccessToken
	c.tokenUntil = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	return c.token, nil
}
