package provisioning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/carabineros/intranet/internal/config"
	"github.com/carabineros/intranet/pkg/core/model"
)

const (
	actionCreate = "create"
	actionUpdate = "update"
	actionDelete = "delete"

	tokenLifetime  = 5 * time.Minute
	defaultIssuer  = "intranet-cli"
	requestTimeout = 30 * time.Second
)

// ErrNotConfigured is returned when no provisioning url is configured
var ErrNotConfigured = errors.New("provisioning function is not configured")

// Error is a non-2xx response from the provisioning function
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("provisioning failed with status %d: %s", e.StatusCode, e.Message)
}

// Account is the profile sent to the provisioning function.
// Password is only used on create.
type Account struct {
	BadgeNumber     string     `json:"badgeNumber" validate:"required"`
	FullName        string     `json:"fullName" validate:"required"`
	Rank            string     `json:"rank,omitempty"`
	Role            model.Role `json:"role" validate:"required,oneof=admin staff"`
	Email           string     `json:"email" validate:"required,email"`
	Phone           string     `json:"phone,omitempty"`
	WhatsappEnabled bool       `json:"whatsappEnabled"`
	Password        string     `json:"password,omitempty" validate:"omitempty,min=6"`
}

type request struct {
	Action  string   `json:"action"`
	UserID  string   `json:"userId,omitempty"`
	Account *Account `json:"account,omitempty"`
}

type response struct {
	UserID string `json:"userId"`
	Error  string `json:"error"`
}

// Client calls the account provisioning function, which owns identity and
// profile records. Requests carry a short-lived HS256 bearer token.
type Client struct {
	url        string
	issuer     string
	signingKey []byte
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a provisioning client from config
func NewClient(cfg config.ProvisioningConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, ErrNotConfigured
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = defaultIssuer
	}
	return &Client{
		url:        cfg.URL,
		issuer:     issuer,
		signingKey: []byte(cfg.SigningKey),
		httpClient: &http.Client{Timeout: requestTimeout},
		now:        time.Now,
	}, nil
}

// CreateAccount provisions a new account and returns its id
func (c *Client) CreateAccount(ctx context.Context, account Account) (string, error) {
	resp, err := c.call(ctx, request{Action: actionCreate, Account: &account})
	if err != nil {
		return "", err
	}
	if resp.UserID == "" {
		return "", fmt.Errorf("provisioning create returned no user id")
	}
	return resp.UserID, nil
}

// UpdateAccount replaces the profile of an existing account
func (c *Client) UpdateAccount(ctx context.Context, userID string, account Account) error {
	_, err := c.call(ctx, request{Action: actionUpdate, UserID: userID, Account: &account})
	return err
}

// DeleteAccount removes an account
func (c *Client) DeleteAccount(ctx context.Context, userID string) error {
	_, err := c.call(ctx, request{Action: actionDelete, UserID: userID})
	return err
}

func (c *Client) bearerToken() (string, error) {
	now := c.now()
	claims := jwt.MapClaims{
		"iss":   c.issuer,
		"sub":   c.issuer,
		"scope": "accounts:provision",
		"iat":   now.Unix(),
		"exp":   now.Add(tokenLifetime).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
}

func (c *Client) call(ctx context.Context, body request) (*response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode provisioning request: %w", err)
	}

	token, err := c.bearerToken()
	if err != nil {
		return nil, fmt.Errorf("failed to sign provisioning token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create provisioning request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call provisioning function: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provisioning response: %w", err)
	}

	var decoded response
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("failed to decode provisioning response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := decoded.Error
		if message == "" {
			message = string(raw)
		}
		return nil, &Error{StatusCode: resp.StatusCode, Message: message}
	}

	return &decoded, nil
}
