package handlers

import (
	"context"

	"github.com/frelanci/orderchat/internal/domain/model"
	"github.com/frelanci/orderchat/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password, name string, userType model.UserType) (*model.User, string, error)
	Authenticate(ctx context.Context, login, password string) (*model.User, string, error)
	ParseToken(token string) (string, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, clientID string, in usecase.PlaceOrderInput) (*model.Order, error)
	Order(ctx context.Context, orderID, userID string) (*model.Order, error)
	Orders(ctx context.Context, userID string) ([]model.Order, error)
	SendMessage(ctx context.Context, orderID, senderID, text, mediaURL, mediaType string) (*model.Message, error)
	ApprovePayment(ctx context.Context, orderID, userID string) error
	UpdateStatus(ctx context.Context, orderID, userID string, status model.OrderStatus) error
	DeleteOrder(ctx context.Context, orderID, userID string) error
}

// MarketplaceFacade aggregates the full set of operations used across handlers.
type MarketplaceFacade interface {
	AuthFacade
	OrderFacade
}
