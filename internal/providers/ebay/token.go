package ebay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"hermes/pkg/errors"
)

// tokenCache holds the OAuth access token together with its expiry.
// It is owned by the client instance; there is no process-wide token
// state. Refresh happens a minute before the advertised expiry.
type tokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

const tokenExpirySlack = time.Minute

// get returns the cached token if it is still valid
func (c *tokenCache) get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == "" || time.Now().After(c.expiresAt) {
		return "", false
	}
	return c.token, true
}

// set stores a fresh token that expires in ttl
func (c *tokenCache) set(token string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slack := tokenExpirySlack
	if ttl <= slack {
		slack = 0
	}
	c.token = token
	c.expiresAt = time.Now().Add(ttl - slack)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// accessToken returns a valid OAuth token, requesting a new
// client-credentials grant when the cached one has expired.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if token, ok := c.tokens.get(); ok {
		return token, nil
	}

	form := url.Values{
		"grant_type": {"client_credentials"},
		"scope":      {strings.Join(c.scopes, " ")},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "create token request")
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(errors.ErrProviderAuth, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", errors.Wrapf(errors.ErrProviderAuth, "token endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", errors.Wrap(err, "decode token response")
	}
	if tok.AccessToken == "" {
		return "", errors.Wrap(errors.ErrProviderAuth, "token response missing access_token")
	}

	ttl := time.Duration(tok.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	c.tokens.set(tok.AccessToken, ttl)

	return tok.AccessToken, nil
}
