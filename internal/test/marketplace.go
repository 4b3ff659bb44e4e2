package test

import (
	"context"
	"sync"

	"github.com/frelanci/orderchat/internal/adapter/marketplace"
	domainErrors "github.com/frelanci/orderchat/internal/domain/errors"
	"github.com/frelanci/orderchat/internal/domain/model"
)

// SendCall stores information about SendMessage invocations.
type SendCall struct {
	OrderID string
	Message marketplace.OutgoingMessage
}

// MarketplaceAPIStub simulates the backend for conversation and payment
// tests. Function overrides win; otherwise the stored order is served.
type MarketplaceAPIStub struct {
	mu sync.Mutex

	OrderFn          func(context.Context, string) (*model.Order, error)
	SendMessageFn    func(context.Context, string, marketplace.OutgoingMessage) error
	ApprovePaymentFn func(context.Context, string) error

	StoredOrder *model.Order
	Sent        []SendCall
	Approvals   []string
	orderCalls  int
}

// Lock exposes internal mutex for external synchronization.
func (s *MarketplaceAPIStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *MarketplaceAPIStub) Unlock() { s.mu.Unlock() }

// Order returns the stored order snapshot.
func (s *MarketplaceAPIStub) Order(ctx context.Context, id string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderCalls++
	if s.StoredOrder == nil || s.StoredOrder.ID != id {
		return nil, domainErrors.ErrNotFound
	}
	return s.StoredOrder.Clone(), nil
}

// SendMessage records submissions.
func (s *MarketplaceAPIStub) SendMessage(ctx context.Context, orderID string, msg marketplace.OutgoingMessage) error {
	if s.SendMessageFn != nil {
		return s.SendMessageFn(ctx, orderID, msg)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, SendCall{OrderID: orderID, Message: msg})
	return nil
}

// ApprovePayment records approval requests.
func (s *MarketplaceAPIStub) ApprovePayment(ctx context.Context, orderID string) error {
	if s.ApprovePaymentFn != nil {
		return s.ApprovePaymentFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Approvals = append(s.Approvals, orderID)
	return nil
}

// OrderCalls reports how many times Order was served from the stored order.
func (s *MarketplaceAPIStub) OrderCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderCalls
}
