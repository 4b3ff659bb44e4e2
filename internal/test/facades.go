package test

import (
	"context"
	"time"

	"github.com/frelanci/orderchat/internal/domain/model"
	"github.com/frelanci/orderchat/internal/usecase"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string, string, model.UserType) (*model.User, string, error)
	AuthenticateFn func(context.Context, string, string) (*model.User, string, error)
	ParseFn        func(string) (string, error)
}

// Register returns a session for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, login, password, name string, userType model.UserType) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password, name, userType)
	}
	return &model.User{ID: "user-1", Login: login, Name: name, UserType: userType}, "token", nil
}

// Authenticate returns a session for successful login scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return &model.User{ID: "user-1", Login: login, Name: "User", UserType: model.UserTypeClient}, "token", nil
}

// ParseToken returns stored identifier for authenticated user.
func (s AuthFacadeStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "user-1", nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceOrderFn     func(context.Context, string, usecase.PlaceOrderInput) (*model.Order, error)
	OrderFn          func(context.Context, string, string) (*model.Order, error)
	OrdersFn         func(context.Context, string) ([]model.Order, error)
	SendMessageFn    func(context.Context, string, string, string, string, string) (*model.Message, error)
	ApprovePaymentFn func(context.Context, string, string) error
	UpdateStatusFn   func(context.Context, string, string, model.OrderStatus) error
	DeleteOrderFn    func(context.Context, string, string) error
}

// PlaceOrder delegates to provided function or returns a default order.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, clientID string, in usecase.PlaceOrderInput) (*model.Order, error) {
	if s.PlaceOrderFn != nil {
		return s.PlaceOrderFn(ctx, clientID, in)
	}
	return &model.Order{
		ID:           "order-1",
		JobID:        in.JobID,
		JobTitle:     in.JobTitle,
		ClientID:     clientID,
		FreelancerID: in.FreelancerID,
		Price:        in.Price,
		Status:       model.OrderStatusPending,
		CreatedAt:    time.Unix(0, 0).UTC(),
		UpdatedAt:    time.Unix(0, 0).UTC(),
	}, nil
}

// Order returns configured order for the participant.
func (s OrderFacadeStub) Order(ctx context.Context, orderID, userID string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID, userID)
	}
	return &model.Order{ID: orderID, ClientID: userID, Status: model.OrderStatusPending}, nil
}

// Orders returns predefined orders for given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID string) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{{ID: "order-1", ClientID: userID}}, nil
}

// SendMessage returns the appended message.
func (s OrderFacadeStub) SendMessage(ctx context.Context, orderID, senderID, text, mediaURL, mediaType string) (*model.Message, error) {
	if s.SendMessageFn != nil {
		return s.SendMessageFn(ctx, orderID, senderID, text, mediaURL, mediaType)
	}
	return &model.Message{ID: "msg-1", SenderID: senderID, Body: text}, nil
}

// ApprovePayment executes configured approval handler.
func (s OrderFacadeStub) ApprovePayment(ctx context.Context, orderID, userID string) error {
	if s.ApprovePaymentFn != nil {
		return s.ApprovePaymentFn(ctx, orderID, userID)
	}
	return nil
}

// UpdateStatus executes configured transition handler.
func (s OrderFacadeStub) UpdateStatus(ctx context.Context, orderID, userID string, status model.OrderStatus) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, userID, status)
	}
	return nil
}

// DeleteOrder executes configured removal handler.
func (s OrderFacadeStub) DeleteOrder(ctx context.Context, orderID, userID string) error {
	if s.DeleteOrderFn != nil {
		return s.DeleteOrderFn(ctx, orderID, userID)
	}
	return nil
}

// MarketplaceFacadeStub aggregates facade dependencies for HTTP layer tests.
type MarketplaceFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
}
