package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	domainErrors "github.com/frelanci/orderchat/internal/domain/errors"
	"github.com/frelanci/orderchat/internal/domain/model"
)

// APIError carries the backend's verbatim error message for a non-2xx reply.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("marketplace error: status %d", e.StatusCode)
}

// TokenSource supplies the bearer token attached to every request and is
// notified when the backend rejects it.
type TokenSource interface {
	Token() (string, error)
	Invalidate() error
}

// OutgoingMessage is the payload of a message submission.
type OutgoingMessage struct {
	Message   string `json:"message"`
	MediaURL  string `json:"mediaUrl,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
}

// CreateOrderRequest places an order against a job listing.
type CreateOrderRequest struct {
	JobID        string  `json:"jobId"`
	JobTitle     string  `json:"jobTitle,omitempty"`
	FreelancerID string  `json:"freelancerId"`
	Price        float64 `json:"price"`
	Requirements string  `json:"requirements,omitempty"`
}

// Credentials authenticate or register a participant.
type Credentials struct {
	Login    string         `json:"login"`
	Password string         `json:"password"`
	Name     string         `json:"name,omitempty"`
	UserType model.UserType `json:"userType,omitempty"`
}

// Client exposes the marketplace REST operations the conversation core consumes.
type Client interface {
	Order(ctx context.Context, id string) (*model.Order, error)
	MyOrders(ctx context.Context) ([]model.Order, error)
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*model.Order, error)
	SendMessage(ctx context.Context, orderID string, msg OutgoingMessage) error
	ApprovePayment(ctx context.Context, orderID string) error
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	DeleteOrder(ctx context.Context, orderID string) error
	Login(ctx context.Context, creds Credentials) (*model.Session, error)
	Register(ctx context.Context, creds Credentials) (*model.Session, error)
}

// HTTPClient implements Client via the backend HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
}

// Wire mirrors of the backend JSON contract.
type userRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type jobRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type mediaPayload struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type messagePayload struct {
	ID              string        `json:"id"`
	SenderID        string        `json:"senderId"`
	SenderName      string        `json:"senderName"`
	Message         string        `json:"message"`
	Media           *mediaPayload `json:"media,omitempty"`
	IsSystemMessage bool          `json:"isSystemMessage"`
	CreatedAt       time.Time     `json:"createdAt"`
}

type orderPayload struct {
	ID                string           `json:"id"`
	Job               jobRef           `json:"jobId"`
	Client            userRef          `json:"clientId"`
	Freelancer        userRef          `json:"freelancerId"`
	Price             float64          `json:"price"`
	Requirements      string           `json:"requirements,omitempty"`
	Status            string           `json:"status"`
	PaymentApproved   bool             `json:"paymentApproved"`
	PaymentApprovedAt *time.Time       `json:"paymentApprovedAt,omitempty"`
	Messages          []messagePayload `json:"messages"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

type sessionPayload struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		UserType string `json:"userType"`
	} `json:"user"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// NewHTTPClient creates a marketplace client with the given request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse marketplace url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("marketplace url must be absolute")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: parsed,
		tokens:  tokens,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Order loads the full order record including its conversation thread.
func (c *HTTPClient) Order(ctx context.Context, id string) (*model.Order, error) {
	var payload orderPayload
	if err := c.do(ctx, http.MethodGet, path.Join("/api/orders", id), nil, &payload); err != nil {
		return nil, err
	}
	return toOrder(payload), nil
}

// MyOrders lists orders visible to the current participant.
func (c *HTTPClient) MyOrders(ctx context.Context) ([]model.Order, error) {
	var payload []orderPayload
	if err := c.do(ctx, http.MethodGet, "/api/orders/my", nil, &payload); err != nil {
		return nil, err
	}
	orders := make([]model.Order, 0, len(payload))
	for _, p := range payload {
		orders = append(orders, *toOrder(p))
	}
	return orders, nil
}

// CreateOrder places an order against a job listing.
func (c *HTTPClient) CreateOrder(ctx context.Context, req CreateOrderRequest) (*model.Order, error) {
	var payload orderPayload
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &payload); err != nil {
		return nil, err
	}
	return toOrder(payload), nil
}

// SendMessage appends a message to the order conversation. The canonical
// ordering is obtained by reloading the order, not from this call.
func (c *HTTPClient) SendMessage(ctx context.Context, orderID string, msg OutgoingMessage) error {
	return c.do(ctx, http.MethodPost, path.Join("/api/orders", orderID, "message"), msg, nil)
}

// ApprovePayment requests the one-way payment approval transition.
func (c *HTTPClient) ApprovePayment(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodPost, path.Join("/api/orders", orderID, "approve-payment"), nil, nil)
}

// UpdateStatus requests a workflow transition; the server decides legality.
func (c *HTTPClient) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	body := struct {
		Status string `json:"status"`
	}{Status: string(status)}
	return c.do(ctx, http.MethodPut, path.Join("/api/orders", orderID, "status"), body, nil)
}

// DeleteOrder soft-deletes the order from the current participant's own list.
func (c *HTTPClient) DeleteOrder(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodDelete, path.Join("/api/orders", orderID), nil, nil)
}

// Login authenticates and returns a session to persist.
func (c *HTTPClient) Login(ctx context.Context, creds Credentials) (*model.Session, error) {
	return c.auth(ctx, "/api/auth/login", creds)
}

// Register creates an account and returns a session to persist.
func (c *HTTPClient) Register(ctx context.Context, creds Credentials) (*model.Session, error) {
	return c.auth(ctx, "/api/auth/register", creds)
}

func (c *HTTPClient) auth(ctx context.Context, endpoint string, creds Credentials) (*model.Session, error) {
	var payload sessionPayload
	if err := c.do(ctx, http.MethodPost, endpoint, creds, &payload); err != nil {
		return nil, err
	}
	sess := &model.Session{Token: payload.Token}
	sess.User.ID = payload.User.ID
	sess.User.Name = payload.User.Name
	sess.User.UserType = model.UserType(payload.User.UserType)
	return sess, nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body, out any) error {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil && !errors.Is(err, domainErrors.ErrNoSession) {
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// The persisted session is no longer valid; clearing it lets the
		// outer application fall back to its login flow.
		if c.tokens != nil {
			if err := c.tokens.Invalidate(); err != nil {
				c.logger.Error("invalidate session failed", slog.String("error", err.Error()))
			}
		}
		return domainErrors.ErrUnauthorized
	}

	if resp.StatusCode == http.StatusNotFound {
		return domainErrors.ErrNotFound
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(resp.Body)
		var payload errorPayload
		_ = json.Unmarshal(raw, &payload)
		c.logger.Error("marketplace request failed",
			slog.String("method", method),
			slog.String("path", endpoint),
			slog.Int("status", resp.StatusCode),
		)
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func toOrder(p orderPayload) *model.Order {
	order := &model.Order{
		ID:                p.ID,
		JobID:             p.Job.ID,
		JobTitle:          p.Job.Title,
		ClientID:          p.Client.ID,
		ClientName:        p.Client.Name,
		FreelancerID:      p.Freelancer.ID,
		FreelancerName:    p.Freelancer.Name,
		Price:             p.Price,
		Requirements:      p.Requirements,
		Status:            model.OrderStatus(p.Status),
		PaymentApproved:   p.PaymentApproved,
		PaymentApprovedAt: p.PaymentApprovedAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	order.Messages = make([]model.Message, 0, len(p.Messages))
	for _, m := range p.Messages {
		msg := model.Message{
			ID:              m.ID,
			SenderID:        m.SenderID,
			SenderName:      m.SenderName,
			Body:            m.Message,
			IsSystemMessage: m.IsSystemMessage,
			CreatedAt:       m.CreatedAt,
		}
		if m.Media != nil {
			msg.Media = &model.Media{URL: m.Media.URL, Type: model.MediaType(m.Media.Type)}
		}
		order.Messages = append(order.Messages, msg)
	}
	return order
}
