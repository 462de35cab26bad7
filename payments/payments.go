package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"
)

// Gateway wraps the external payment provider behind the two calls the
// controllers need: create a payment intent and execute an approved one.
type Gateway struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Mode         string // sandbox or live
	HTTP         *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

var ErrPayment = errors.New("payment error")

func New() *Gateway {
	base := os.Getenv("PAY_BASE_URL")
	if base == "" {
		base = "https://api.sandbox.paypal.com"
	}
	mode := os.Getenv("PAY_MODE")
	if mode == "" {
		mode = "sandbox"
	}
	return &Gateway{
		BaseURL:      base,
		ClientID:     os.Getenv("PAY_CLIENT_ID"),
		ClientSecret: os.Getenv("PAY_CLIENT_SECRET"),
		Mode:         mode,
		HTTP:         &http.Client{Timeout: 15 * time.Second},
	}
}

// DefaultGateway is used by the package-level helpers.
var DefaultGateway = New()

// Item is a single payment line.
type Item struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// Settlement is the provider's confirmation of an executed payment.
type Settlement struct {
	PaymentID string  `json:"paymentId"`
	PayerID   string  `json:"payerId"`
	State     string  `json:"state"`
	Amount    float64 `json:"amount"`
}

func (g *Gateway) token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.accessToken != "" && time.Now().Before(g.tokenExpiry) {
		return g.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.BaseURL+"/v1/oauth2/token", bytes.NewBufferString("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(g.ClientID, g.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPayment, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: auth status %d", ErrPayment, resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	g.accessToken = out.AccessToken
	g.tokenExpiry = time.Now().Add(time.Duration(out.ExpiresIn-60) * time.Second)
	return g.accessToken, nil
}

// Initiate creates a single-transaction payment intent and returns the
// provider's approval redirect URL. No retries; failures surface as a
// generic payment error.
func (g *Gateway) Initiate(ctx context.Context, successURL, cancelURL string, items []Item, total float64, description string) (string, error) {
	body := map[string]any{
		"intent": "sale",
		"payer":  map[string]string{"payment_method": "paypal"},
		"redirect_urls": map[string]string{
			"return_url": successURL,
			"cancel_url": cancelURL,
		},
		"transactions": []map[string]any{{
			"item_list":   map[string]any{"items": items},
			"amount":      map[string]any{"currency": "EUR", "total": fmt.Sprintf("%.2f", total)},
			"description": description,
		}},
	}

	var out struct {
		ID    string `json:"id"`
		Links []struct {
			Href string `json:"href"`
			Rel  string `json:"rel"`
		} `json:"links"`
	}
	if err := g.post(ctx, "/v1/payments/payment", body, &out); err != nil {
		return "", err
	}
	for _, l := range out.Links {
		if l.Rel == "approval_url" {
			return l.Href, nil
		}
	}
	return "", fmt.Errorf("%w: no approval link", ErrPayment)
}

// Settle executes a previously approved payment.
func (g *Gateway) Settle(ctx context.Context, payerID, paymentID string, amount float64) (*Settlement, error) {
	body := map[string]any{
		"payer_id": payerID,
		"transactions": []map[string]any{{
			"amount": map[string]any{"currency": "EUR", "total": fmt.Sprintf("%.2f", amount)},
		}},
	}

	var out struct {
		ID    string `json:"id"`
		State string `json:"state"`
		Payer struct {
			PayerInfo struct {
				PayerID string `json:"payer_id"`
			} `json:"payer_info"`
		} `json:"payer"`
	}
	path := fmt.Sprintf("/v1/payments/payment/%s/execute", paymentID)
	if err := g.post(ctx, path, body, &out); err != nil {
		return nil, err
	}
	if out.State != "approved" {
		return nil, fmt.Errorf("%w: state %s", ErrPayment, out.State)
	}
	return &Settlement{
		PaymentID: out.ID,
		PayerID:   payerID,
		State:     out.State,
		Amount:    amount,
	}, nil
}

func (g *Gateway) post(ctx context.Context, path string, body any, out any) error {
	tok, err := g.token(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPayment, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: status %d", ErrPayment, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Package-level helpers bound to DefaultGateway.

func Initiate(ctx context.Context, successURL, cancelURL string, items []Item, total float64, description string) (string, error) {
	return DefaultGateway.Initiate(ctx, successURL, cancelURL, items, total, description)
}

func Settle(ctx context.Context, payerID, paymentID string, amount float64) (*Settlement, error) {
	return DefaultGateway.Settle(ctx, payerID, paymentID, amount)
}
