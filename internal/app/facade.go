package app

import (
	"context"

	"github.com/frelanci/orderchat/internal/domain/model"
	"github.com/frelanci/orderchat/internal/usecase"
)

// MarketplaceFacade exposes the order and auth use cases as one surface for
// the HTTP layer.
type MarketplaceFacade struct {
	auth   *usecase.AuthUseCase
	orders *usecase.OrderUseCase
}

func NewMarketplaceFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase) *MarketplaceFacade {
	return &MarketplaceFacade{auth: auth, orders: orders}
}

func (f *MarketplaceFacade) Register(ctx context.Context, login, password, name string, userType model.UserType) (*model.User, string, error) {
	return f.auth.Register(ctx, login, password, name, userType)
}

func (f *MarketplaceFacade) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, login, password)
}

func (f *MarketplaceFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

func (f *MarketplaceFacade) PlaceOrder(ctx context.Context, clientID string, in usecase.PlaceOrderInput) (*model.Order, error) {
	return f.orders.Place(ctx, clientID, in)
}

func (f *MarketplaceFacade) Order(ctx context.Context, orderID, userID string) (*model.Order, error) {
	return f.orders.Get(ctx, orderID, userID)
}

func (f *MarketplaceFacade) Orders(ctx context.Context, userID string) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *MarketplaceFacade) SendMessage(ctx context.Context, orderID, senderID, text, mediaURL, mediaType string) (*model.Message, error) {
	return f.orders.SendMessage(ctx, orderID, senderID, text, mediaURL, mediaType)
}

func (f *MarketplaceFacade) ApprovePayment(ctx context.Context, orderID, userID string) error {
	return f.orders.ApprovePayment(ctx, orderID, userID)
}

func (f *MarketplaceFacade) UpdateStatus(ctx context.Context, orderID, userID string, status model.OrderStatus) error {
	return f.orders.UpdateStatus(ctx, orderID, userID, status)
}

func (f *MarketplaceFacade) DeleteOrder(ctx context.Context, orderID, userID string) error {
	return f.orders.Delete(ctx, orderID, userID)
}
