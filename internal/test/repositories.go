package test

import (
	"context"
	"time"

	domainErrors "github.com/frelanci/orderchat/internal/domain/errors"
	"github.com/frelanci/orderchat/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	ByLogin map[string]*model.User
	ByID    map[string]*model.User
	Err     error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		ByLogin: make(map[string]*model.User),
		ByID:    make(map[string]*model.User),
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user model.User) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.ByLogin == nil {
		s.ByLogin = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[string]*model.User)
	}
	if _, exists := s.ByLogin[user.Login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	stored := user
	s.ByLogin[user.Login] = &stored
	s.ByID[user.ID] = &stored
	return &stored, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByLogin[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Add seeds a user into both indexes.
func (s *UserRepositoryStub) Add(user model.User) {
	stored := user
	s.ByLogin[user.Login] = &stored
	s.ByID[user.ID] = &stored
}

// ApproveCall stores information about ApprovePayment invocations.
type ApproveCall struct {
	OrderID string
	At      time.Time
	System  model.Message
}

// OrderRepositoryStub allows tests to customize behaviour per method.
type OrderRepositoryStub struct {
	CreateFn         func(context.Context, *model.Order) (*model.Order, error)
	GetByIDFn        func(context.Context, string) (*model.Order, error)
	ListFn           func(context.Context, string) ([]model.Order, error)
	AppendMessageFn  func(context.Context, string, model.Message) (*model.Message, error)
	ApprovePaymentFn func(context.Context, string, time.Time, model.Message) error
	SetStatusFn      func(context.Context, string, model.OrderStatus) error
	SoftDeleteFn     func(context.Context, string, string) error

	Order    *model.Order
	Orders   []model.Order
	Appended []model.Message
	Approved []ApproveCall
	Statuses []model.OrderStatus
	Deleted  []string
}

// Create returns configured response or echoes the order back.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.Order = order
	return order, nil
}

// GetByID returns the stored order or not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	if s.Order != nil && s.Order.ID == id {
		return s.Order.Clone(), nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByParticipant returns orders from configured slice.
func (s *OrderRepositoryStub) ListByParticipant(ctx context.Context, userID string) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, userID)
	}
	return s.Orders, nil
}

// AppendMessage records appended messages.
func (s *OrderRepositoryStub) AppendMessage(ctx context.Context, orderID string, msg model.Message) (*model.Message, error) {
	if s.AppendMessageFn != nil {
		return s.AppendMessageFn(ctx, orderID, msg)
	}
	s.Appended = append(s.Appended, msg)
	return &msg, nil
}

// ApprovePayment records approval invocations.
func (s *OrderRepositoryStub) ApprovePayment(ctx context.Context, orderID string, at time.Time, system model.Message) error {
	if s.ApprovePaymentFn != nil {
		return s.ApprovePaymentFn(ctx, orderID, at, system)
	}
	s.Approved = append(s.Approved, ApproveCall{OrderID: orderID, At: at, System: system})
	return nil
}

// SetStatus records status transitions.
func (s *OrderRepositoryStub) SetStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if s.SetStatusFn != nil {
		return s.SetStatusFn(ctx, orderID, status)
	}
	s.Statuses = append(s.Statuses, status)
	return nil
}

// SoftDelete records which participant removed the order.
func (s *OrderRepositoryStub) SoftDelete(ctx context.Context, orderID, userID string) error {
	if s.SoftDeleteFn != nil {
		return s.SoftDeleteFn(ctx, orderID, userID)
	}
	s.Deleted = append(s.Deleted, userID)
	return nil
}
