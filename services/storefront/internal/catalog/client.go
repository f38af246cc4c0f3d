package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keamoral/ouijagames/gomicro/middleware"
	"github.com/keamoral/ouijagames/services/storefront/prometheus"
	"go.uber.org/zap"
)

// TokenSource supplies the bearer token of the signed-in user, or "" when
// there is none
type TokenSource interface {
	Token() string
}

// Client talks to the catalog JSON API
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	Logger     *zap.Logger
	Metrics    *prometheus.Metrics
}

// NewClient creates a catalog client. httpClient is required so callers
// control timeouts and transports.
func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource, logger *zap.Logger, metrics *prometheus.Metrics) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: httpClient,
		Tokens:     tokens,
		Logger:     logger,
		Metrics:    metrics,
	}
}

// ListProducts fetches the whole product collection
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	products := []Product{}
	status, err := c.call(ctx, "list_products", http.MethodGet, "/products", nil, &products)
	if err != nil {
		return nil, err
	}
	if status != nil {
		return nil, status
	}
	return products, nil
}

// GetProduct fetches one product. Any non-2xx answer, or a 2xx with an
// empty body, is reported as (nil, nil): the product is treated as absent.
func (c *Client) GetProduct(ctx context.Context, id int) (*Product, error) {
	var product *Product
	status, err := c.call(ctx, "get_product", http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &product)
	if err != nil {
		return nil, err
	}
	if status != nil {
		return nil, nil
	}
	return product, nil
}

// CreateProduct posts a new product and returns the server's copy. A 2xx
// with an empty body is still a success and returns (nil, nil).
func (c *Client) CreateProduct(ctx context.Context, req ProductRequest) (*Product, error) {
	var product *Product
	status, err := c.call(ctx, "create_product", http.MethodPost, "/products", req, &product)
	if err != nil {
		return nil, err
	}
	if status != nil {
		return nil, status
	}
	return product, nil
}

// DeleteProduct removes a product. A non-2xx answer is (false, nil).
func (c *Client) DeleteProduct(ctx context.Context, id int) (bool, error) {
	status, err := c.call(ctx, "delete_product", http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
	if err != nil {
		return false, err
	}
	return status == nil, nil
}

// ListCategories fetches the categories in server order
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	categories := []Category{}
	status, err := c.call(ctx, "list_categories", http.MethodGet, "/categories", nil, &categories)
	if err != nil {
		return nil, err
	}
	if status != nil {
		return nil, status
	}
	return categories, nil
}

// call performs one request. A non-2xx answer comes back as a *StatusError
// in the first result so each operation can apply its own policy; the
// second result only carries transport failures.
func (c *Client) call(ctx context.Context, op, method, path string, in, out interface{}) (*StatusError, error) {
	start := time.Now()
	requestID := uuid.New().String()
	log := c.Logger.With(
		zap.String("operation", op),
		zap.String("request_id", requestID))

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		log.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(middleware.RequestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Tokens != nil {
		if token := c.Tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log.Debug("Making API call", zap.String("method", method), zap.String("path", path))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Warn("API request failed", zap.Error(err))
		c.Metrics.ObserveCatalogRequest(op, "error_transport", start)
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn("Failed to read response body", zap.Error(err))
		c.Metrics.ObserveCatalogRequest(op, "error_transport", start)
		return nil, &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Info("API request returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(respBody)))
		c.Metrics.ObserveCatalogRequest(op, "error_status", start)
		return &StatusError{Status: resp.StatusCode, Body: string(respBody)}, nil
	}

	// an empty 2xx body leaves out at its zero value
	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			log.Warn("Failed to decode response", zap.Error(err))
			c.Metrics.ObserveCatalogRequest(op, "error_transport", start)
			return nil, &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}

	c.Metrics.ObserveCatalogRequest(op, "success", start)
	log.Debug("API call successful", zap.Int("status", resp.StatusCode))
	return nil, nil
}
