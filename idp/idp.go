package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"acmex/globals"

	"github.com/golang-jwt/jwt/v5"
)

// Client talks to the external identity provider. Custom tokens are minted
// locally (signed with the service secret); exchange and verification go
// over HTTP to the provider.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

var ErrIdentity = errors.New("identity provider error")

const customTokenTTL = 15 * time.Minute

func New() *Client {
	base := os.Getenv("IDP_BASE_URL")
	if base == "" {
		base = "https://identitytoolkit.googleapis.com"
	}
	return &Client{
		BaseURL: base,
		APIKey:  os.Getenv("IDP_API_KEY"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// DefaultClient is used by the package-level helpers.
var DefaultClient = New()

type customClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// MintCustomToken signs a short-lived custom token for the given subject
// email. The provider accepts it in exchange for an ID token.
func (c *Client) MintCustomToken(email string) (string, error) {
	claims := &customClaims{
		UID: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(customTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// ExchangeCustomToken swaps a custom token for a provider ID token.
func (c *Client) ExchangeCustomToken(ctx context.Context, customToken string) (string, error) {
	var out struct {
		IDToken string `json:"idToken"`
	}
	err := c.post(ctx, "/v1/accounts:signInWithCustomToken", map[string]any{
		"token":             customToken,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.IDToken == "" {
		return "", ErrIdentity
	}
	return out.IDToken, nil
}

// VerifyIDToken resolves an ID token to the subject email.
func (c *Client) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	var out struct {
		Users []struct {
			Email string `json:"email"`
		} `json:"users"`
	}
	err := c.post(ctx, "/v1/accounts:lookup", map[string]any{"idToken": idToken}, &out)
	if err != nil {
		return "", err
	}
	if len(out.Users) == 0 || out.Users[0].Email == "" {
		return "", ErrIdentity
	}
	return out.Users[0].Email, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s%s?key=%s", c.BaseURL, path, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIdentity, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrIdentity, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Package-level helpers bound to DefaultClient.

func MintCustomToken(email string) (string, error) {
	return DefaultClient.MintCustomToken(email)
}

func ExchangeCustomToken(ctx context.Context, token string) (string, error) {
	return DefaultClient.ExchangeCustomToken(ctx, token)
}

func VerifyIDToken(ctx context.Context, token string) (string, error) {
	return DefaultClient.VerifyIDToken(ctx, token)
}
