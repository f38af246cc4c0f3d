// Package identity creates accounts and signs users in against the
// storefront backend.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/keamoral/ouijagames/services/storefront/prometheus"
	"go.uber.org/zap"
)

// Registration is the create-account form. Every field is required.
type Registration struct {
	Username string
	RUT      string
	Email    string
	Password string
}

// Complete reports whether no field is blank
func (r Registration) Complete() bool {
	for _, v := range []string{r.Username, r.RUT, r.Email, r.Password} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// User is the account returned by the identity API
type User struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"usuario"`
	RUT      string `json:"rut"`
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type profileRequest struct {
	Username string `json:"usuario"`
	RUT      string `json:"rut"`
	Email    string `json:"correo"`
}

// Client talks to the identity endpoints
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	Session        *Session
	ProfileTimeout time.Duration
	Logger         *zap.Logger
	Metrics        *prometheus.Metrics
}

// NewClient creates an identity client storing tokens in session
func NewClient(baseURL string, httpClient *http.Client, session *Session, profileTimeout time.Duration, logger *zap.Logger, metrics *prometheus.Metrics) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		HTTPClient:     httpClient,
		Session:        session,
		ProfileTimeout: profileTimeout,
		Logger:         logger,
		Metrics:        metrics,
	}
}

// Register creates the account, signs it in and then writes the profile.
// The profile write is best effort: it is bounded by ProfileTimeout and its
// failure does not fail the registration.
func (c *Client) Register(ctx context.Context, reg Registration) (*User, error) {
	if !reg.Complete() {
		return nil, ErrIncomplete
	}

	var resp authResponse
	err := c.call(ctx, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    reg.Email,
		"password": reg.Password,
	}, &resp)
	if err != nil {
		c.Metrics.RecordAuthAttempt("register", "failure")
		c.Logger.Info("Registration failed", zap.String("email", reg.Email), zap.Error(err))
		return nil, err
	}
	c.Metrics.RecordAuthAttempt("register", "success")

	if err := c.Session.Set(resp.Token); err != nil {
		c.Logger.Warn("Failed to store session", zap.Error(err))
	}

	user := resp.User
	user.Username, user.RUT = reg.Username, reg.RUT

	profileCtx, cancel := context.WithTimeout(ctx, c.ProfileTimeout)
	defer cancel()
	err = c.call(profileCtx, http.MethodPut, "/auth/profile", resp.Token, profileRequest{
		Username: reg.Username,
		RUT:      reg.RUT,
		Email:    reg.Email,
	}, nil)
	if err != nil {
		c.Logger.Warn("Profile write failed, continuing", zap.String("email", reg.Email), zap.Error(err))
	}

	c.Logger.Info("User registered", zap.String("email", user.Email))
	return &user, nil
}

// SignIn authenticates and stores the returned token in the session
func (c *Client) SignIn(ctx context.Context, email, password string) (*User, error) {
	var resp authResponse
	err := c.call(ctx, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		c.Metrics.RecordAuthAttempt("login", "failure")
		return nil, err
	}
	c.Metrics.RecordAuthAttempt("login", "success")

	if err := c.Session.Set(resp.Token); err != nil {
		return nil, err
	}
	c.Logger.Info("User logged in", zap.String("email", resp.User.Email))
	return &resp.User, nil
}

// SignOut drops the session token
func (c *Client) SignOut() error {
	return c.Session.Clear()
}

func (c *Client) call(ctx context.Context, method, path, token string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &RemoteError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}
