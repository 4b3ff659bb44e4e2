package model

import "time"

// OrderStatus describes workflow progression of an order. Transitions are
// server-authoritative; clients only display and request them.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether the status is one of the known workflow states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusDelivered,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the order lifecycle has conceptually ended.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Order is the aggregate root of the conversation and payment-approval flow.
// Job and participant names are read-only snapshots denormalized by the
// server; the canonical records live elsewhere.
type Order struct {
	ID             string
	JobID          string
	JobTitle       string
	ClientID       string
	ClientName     string
	FreelancerID   string
	FreelancerName string
	Price          float64
	Requirements   string
	Status         OrderStatus

	PaymentApproved   bool
	PaymentApprovedAt *time.Time

	Messages []Message

	DeletedByClient     bool
	DeletedByFreelancer bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParticipantRole returns the role userID plays on the order, if any.
func (o *Order) ParticipantRole(userID string) (UserType, bool) {
	switch userID {
	case o.ClientID:
		return UserTypeClient, true
	case o.FreelancerID:
		return UserTypeFreelancer, true
	}
	return "", false
}

// DeletedBy reports whether the given participant soft-deleted the order
// from their own list. The other participant's view is never affected.
func (o *Order) DeletedBy(userID string) bool {
	switch userID {
	case o.ClientID:
		return o.DeletedByClient
	case o.FreelancerID:
		return o.DeletedByFreelancer
	}
	return false
}

// Clone returns a deep copy of the order; engines hand copies to callers so
// the snapshot they hold is never mutated underneath them.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	dup := *o
	if o.PaymentApprovedAt != nil {
		at := *o.PaymentApprovedAt
		dup.PaymentApprovedAt = &at
	}
	dup.Messages = make([]Message, len(o.Messages))
	copy(dup.Messages, o.Messages)
	return &dup
}
