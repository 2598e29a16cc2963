package financeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/finance-client/internal/config"
	"github.com/Dan9191/finance-client/internal/models"
)

// APIError is returned for any response outside the 2xx range
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: unexpected status code %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s %s: unexpected status code %d", e.Method, e.Path, e.StatusCode)
}

// IsNotFound reports whether err is an APIError with status 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the finance manager REST API
type Client struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

// NewClient initializes a new API client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		baseURL: cfg.APIURL,
		client: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		log: log,
	}
}

// ListTransactions returns every transaction of the user in server order
func (c *Client) ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	var transactions []models.Transaction
	path := fmt.Sprintf("/users/%s/transactions", url.PathEscape(userID))
	if err := c.do(ctx, http.MethodGet, path, nil, &transactions); err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

// CreateTransaction creates a transaction owned by the user
func (c *Client) CreateTransaction(ctx context.Context, userID string, req models.TransactionCreate) (*models.Transaction, error) {
	created := &models.Transaction{}
	path := fmt.Sprintf("/users/%s/transactions", url.PathEscape(userID))
	if err := c.do(ctx, http.MethodPost, path, req, created); err != nil {
		return nil, err
	}
	return created, nil
}

// GetTransaction retrieves a single transaction
func (c *Client) GetTransaction(ctx context.Context, id models.TransactionID) (*models.Transaction, error) {
	transaction := &models.Transaction{}
	if err := c.do(ctx, http.MethodGet, transactionPath(id), nil, transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

// UpdateTransaction replaces the fields of an existing transaction
func (c *Client) UpdateTransaction(ctx context.Context, id models.TransactionID, req models.TransactionCreate) (*models.Transaction, error) {
	updated := &models.Transaction{}
	if err := c.do(ctx, http.MethodPut, transactionPath(id), req, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction deletes a transaction. The endpoint is not scoped by user.
func (c *Client) DeleteTransaction(ctx context.Context, id models.TransactionID) error {
	return c.do(ctx, http.MethodDelete, transactionPath(id), nil, nil)
}

func transactionPath(id models.TransactionID) string {
	return fmt.Sprintf("/transactions/%s", url.PathEscape(id.String()))
}

// do sends a JSON request and decodes the response into out when out is non-nil
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	entry := c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})
	entry.Debug("Sending API request")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: request failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	entry.WithField("status", resp.StatusCode).Debug("Received API response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
		}
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

// readDetail extracts the "detail" message of an error body, falling back
// to the raw text
func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var parsed struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Detail != nil {
		if s, ok := parsed.Detail.(string); ok {
			return s
		}
		encoded, _ := json.Marshal(parsed.Detail)
		return string(encoded)
	}
	return string(bytes.TrimSpace(raw))
}
