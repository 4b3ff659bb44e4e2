package repository

import (
	"context"
	"time"

	"github.com/frelanci/orderchat/internal/domain/model"
)

// OrderRepository describes persistence operations with orders and their
// conversation threads.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByParticipant(ctx context.Context, userID string) ([]model.Order, error)
	AppendMessage(ctx context.Context, orderID string, msg model.Message) (*model.Message, error)
	// ApprovePayment flips paymentApproved false->true and appends the
	// server-authored system message atomically. Returns
	// errors.ErrPaymentAlreadyApproved when the flag is already set.
	ApprovePayment(ctx context.Context, orderID string, at time.Time, system model.Message) error
	SetStatus(ctx context.Context, orderID string, status model.OrderStatus) error
	SoftDelete(ctx context.Context, orderID, userID string) error
}
