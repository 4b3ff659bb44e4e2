package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/frelanci/orderchat/internal/domain/errors"
	"github.com/frelanci/orderchat/internal/domain/model"
	"github.com/frelanci/orderchat/internal/domain/repository"
)

// Storage keeps all records in process memory. It backs the development
// server when no database URI is configured and doubles as the simulated
// backend for the conversation test harness.
type Storage struct {
	mu     sync.RWMutex
	users  map[string]model.User
	logins map[string]string
	orders map[string]*model.Order
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// New creates an empty in-memory storage.
func New() *Storage {
	return &Storage{
		users:  make(map[string]model.User),
		logins: make(map[string]string),
		orders: make(map[string]*model.Order),
	}
}

func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.logins[user.Login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.ID] = user
	s.logins[user.Login] = user.ID
	stored := user
	return &stored, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	s := r.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.logins[login]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	user := s.users[id]
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	s := r.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &user, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	s.orders[order.ID] = order.Clone()
	return order.Clone(), nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	s := r.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *orderRepository) ListByParticipant(ctx context.Context, userID string) ([]model.Order, error) {
	s := r.storage
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.Order
	for _, order := range s.orders {
		if order.ClientID == userID || order.FreelancerID == userID {
			result = append(result, *order.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *orderRepository) AppendMessage(ctx context.Context, orderID string, msg model.Message) (*model.Message, error) {
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	order.Messages = append(order.Messages, msg)
	order.UpdatedAt = msg.CreatedAt
	stored := msg
	return &stored, nil
}

func (r *orderRepository) ApprovePayment(ctx context.Context, orderID string, at time.Time, system model.Message) error {
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if order.PaymentApproved {
		return domainErrors.ErrPaymentAlreadyApproved
	}
	order.PaymentApproved = true
	order.PaymentApprovedAt = &at
	order.UpdatedAt = at
	order.Messages = append(order.Messages, system)
	return nil
}

func (r *orderRepository) SetStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *orderRepository) SoftDelete(ctx context.Context, orderID, userID string) error {
	s := r.storage
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	switch userID {
	case order.ClientID:
		order.DeletedByClient = true
	case order.FreelancerID:
		order.DeletedByFreelancer = true
	default:
		return domainErrors.ErrNotParticipant
	}
	return nil
}
