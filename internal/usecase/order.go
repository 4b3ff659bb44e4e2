package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/frelanci/orderchat/internal/domain/errors"
	"github.com/frelanci/orderchat/internal/domain/model"
	"github.com/frelanci/orderchat/internal/domain/repository"
)

// systemSenderName labels server-authored conversation entries.
const systemSenderName = "system"

// PlaceOrderInput describes a client placing an order against a job listing.
// Jobs are owned outside this core, so the job title snapshot is supplied by
// the caller.
type PlaceOrderInput struct {
	JobID        string
	JobTitle     string
	FreelancerID string
	Price        float64
	Requirements string
}

// OrderUseCase owns the authoritative side of the conversation and
// payment-approval invariants.
type OrderUseCase struct {
	orders repository.OrderRepository
	users  repository.UserRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, users repository.UserRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders, users: users}
}

// Place creates a new order with participant name snapshots denormalized at
// creation time.
func (u *OrderUseCase) Place(ctx context.Context, clientID string, in PlaceOrderInput) (*model.Order, error) {
	if in.JobID == "" || in.FreelancerID == "" || in.Price <= 0 {
		return nil, domainErrors.ErrInvalidOrder
	}
	if in.FreelancerID == clientID {
		return nil, domainErrors.ErrInvalidOrder
	}

	client, err := u.users.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	freelancer, err := u.users.GetByID(ctx, in.FreelancerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &model.Order{
		ID:             uuid.NewString(),
		JobID:          in.JobID,
		JobTitle:       in.JobTitle,
		ClientID:       client.ID,
		ClientName:     client.Name,
		FreelancerID:   freelancer.ID,
		FreelancerName: freelancer.Name,
		Price:          in.Price,
		Requirements:   in.Requirements,
		Status:         model.OrderStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return u.orders.Create(ctx, order)
}

// Get returns the full order record for one of its participants.
func (u *OrderUseCase) Get(ctx context.Context, orderID, userID string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, ok := order.ParticipantRole(userID); !ok {
		return nil, domainErrors.ErrNotParticipant
	}
	return order, nil
}

// ListByUser returns the participant's order list, hiding orders the
// participant soft-deleted. The other participant's view is unaffected.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := u.orders.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	visible := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.DeletedBy(userID) {
			continue
		}
		visible = append(visible, o)
	}
	return visible, nil
}

// SendMessage appends a participant message. The sender name is snapshotted
// at send time and the server assigns id, timestamp, and ordering. Callers
// can never author system messages through this path.
func (u *OrderUseCase) SendMessage(ctx context.Context, orderID, senderID, text, mediaURL, mediaType string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" && mediaURL == "" {
		return nil, domainErrors.ErrEmptyMessage
	}

	var media *model.Media
	if mediaURL != "" {
		kind := model.MediaType(mediaType)
		if kind != model.MediaTypeImage && kind != model.MediaTypeVideo {
			return nil, domainErrors.ErrInvalidMedia
		}
		media = &model.Media{URL: mediaURL, Type: kind}
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, ok := order.ParticipantRole(senderID); !ok {
		return nil, domainErrors.ErrNotParticipant
	}

	sender, err := u.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	msg := model.Message{
		ID:         uuid.NewString(),
		SenderID:   sender.ID,
		SenderName: sender.Name,
		Body:       text,
		Media:      media,
		CreatedAt:  time.Now().UTC(),
	}
	return u.orders.AppendMessage(ctx, orderID, msg)
}

// ApprovePayment performs the one-way payment approval transition: flips the
// flag, stamps paymentApprovedAt exactly once, and appends exactly one
// server-authored system message. Repeated calls fail with
// ErrPaymentAlreadyApproved and leave the record untouched.
func (u *OrderUseCase) ApprovePayment(ctx context.Context, orderID, userID string) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.FreelancerID != userID {
		return domainErrors.ErrNotOrderFreelancer
	}
	if order.PaymentApproved {
		return domainErrors.ErrPaymentAlreadyApproved
	}

	at := time.Now().UTC()
	system := model.Message{
		ID:              uuid.NewString(),
		SenderName:      systemSenderName,
		Body:            fmt.Sprintf("%s confirmed receiving the payment of %.2f", order.FreelancerName, order.Price),
		IsSystemMessage: true,
		CreatedAt:       at,
	}
	// The repository makes the flip-and-append atomic, so a racing second
	// approval cannot produce a duplicate system message.
	return u.orders.ApprovePayment(ctx, orderID, at, system)
}

// UpdateStatus requests a workflow transition on behalf of a participant.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, orderID, userID string, status model.OrderStatus) error {
	if !status.Valid() {
		return domainErrors.ErrInvalidStatus
	}
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if _, ok := order.ParticipantRole(userID); !ok {
		return domainErrors.ErrNotParticipant
	}
	return u.orders.SetStatus(ctx, orderID, status)
}

// Delete soft-deletes the order from the calling participant's own list.
func (u *OrderUseCase) Delete(ctx context.Context, orderID, userID string) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if _, ok := order.ParticipantRole(userID); !ok {
		return domainErrors.ErrNotParticipant
	}
	return u.orders.SoftDelete(ctx, orderID, userID)
}
