package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/frelanci/orderchat/internal/domain/errors"
	"github.com/frelanci/orderchat/internal/domain/model"
	"github.com/frelanci/orderchat/internal/domain/repository"
)

// pool abstracts pgxpool.Pool for tests.
type pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pgPool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pgPool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pgPool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

// Ping verifies database connectivity.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            name TEXT NOT NULL,
            user_type TEXT NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            job_id TEXT NOT NULL,
            job_title TEXT NOT NULL DEFAULT '',
            client_id TEXT NOT NULL REFERENCES users(id),
            client_name TEXT NOT NULL,
            freelancer_id TEXT NOT NULL REFERENCES users(id),
            freelancer_name TEXT NOT NULL,
            price DOUBLE PRECISION NOT NULL,
            requirements TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            payment_approved BOOLEAN NOT NULL DEFAULT FALSE,
            payment_approved_at TIMESTAMPTZ,
            deleted_by_client BOOLEAN NOT NULL DEFAULT FALSE,
            deleted_by_freelancer BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS messages (
            id TEXT PRIMARY KEY,
            order_id TEXT NOT NULL REFERENCES orders(id),
            sender_id TEXT NOT NULL DEFAULT '',
            sender_name TEXT NOT NULL,
            body TEXT NOT NULL DEFAULT '',
            media_url TEXT,
            media_type TEXT,
            is_system BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_client ON orders(client_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_freelancer ON orders(freelancer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_order ON messages(order_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	const query = `INSERT INTO users (id, login, name, user_type, password_hash)
                   VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query, user.ID, user.Login, user.Name, string(user.UserType), user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, name, user_type, password_hash, created_at FROM users WHERE login=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, login))
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	const query = `SELECT id, login, name, user_type, password_hash, created_at FROM users WHERE id=$1`
	return r.scanUser(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var userType string
	err := row.Scan(&u.ID, &u.Login, &u.Name, &userType, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	u.UserType = model.UserType(userType)
	return &u, nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, job_id, job_title, client_id, client_name, freelancer_id, freelancer_name,
                      price, requirements, status, payment_approved, payment_approved_at,
                      deleted_by_client, deleted_by_freelancer, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (id, job_id, job_title, client_id, client_name,
                       freelancer_id, freelancer_name, price, requirements, status, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.storage.pool.Exec(ctx, query,
		order.ID, order.JobID, order.JobTitle, order.ClientID, order.ClientName,
		order.FreelancerID, order.FreelancerName, order.Price, order.Requirements,
		string(order.Status), order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, domainErrors.ErrAlreadyExists
			case "23503":
				return nil, domainErrors.ErrNotFound
			}
		}
		return nil, err
	}
	return order.Clone(), nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	messages, err := r.loadMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Messages = messages
	return order, nil
}

func (r *orderRepository) ListByParticipant(ctx context.Context, userID string) ([]model.Order, error) {
	// List views do not render conversation threads, so messages are not
	// joined here; the detail fetch loads them.
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE client_id=$1 OR freelancer_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) AppendMessage(ctx context.Context, orderID string, msg model.Message) (*model.Message, error) {
	const query = `INSERT INTO messages (id, order_id, sender_id, sender_name, body, media_url, media_type, is_system, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	var mediaURL, mediaType *string
	if msg.Media != nil {
		mediaURL = &msg.Media.URL
		kind := string(msg.Media.Type)
		mediaType = &kind
	}
	_, err := r.storage.pool.Exec(ctx, query,
		msg.ID, orderID, msg.SenderID, msg.SenderName, msg.Body,
		mediaURL, mediaType, msg.IsSystemMessage, msg.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	if _, err := r.storage.pool.Exec(ctx, `UPDATE orders SET updated_at=$2 WHERE id=$1`, orderID, msg.CreatedAt); err != nil {
		return nil, err
	}
	stored := msg
	return &stored, nil
}

func (r *orderRepository) ApprovePayment(ctx context.Context, orderID string, at time.Time, system model.Message) error {
	tx, err := r.storage.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// The WHERE clause makes the false->true flip atomic: a racing second
	// approval matches zero rows and never appends a second system message.
	tag, err := tx.Exec(ctx,
		`UPDATE orders SET payment_approved=TRUE, payment_approved_at=$2, updated_at=$2
         WHERE id=$1 AND payment_approved=FALSE`, orderID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var approved bool
		err := tx.QueryRow(ctx, `SELECT payment_approved FROM orders WHERE id=$1`, orderID).Scan(&approved)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		return domainErrors.ErrPaymentAlreadyApproved
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO messages (id, order_id, sender_id, sender_name, body, media_url, media_type, is_system, created_at)
         VALUES ($1, $2, $3, $4, $5, NULL, NULL, TRUE, $6)`,
		system.ID, orderID, system.SenderID, system.SenderName, system.Body, system.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) SetStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	tag, err := r.storage.pool.Exec(ctx,
		`UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1`, orderID, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) SoftDelete(ctx context.Context, orderID, userID string) error {
	tag, err := r.storage.pool.Exec(ctx,
		`UPDATE orders SET
             deleted_by_client = deleted_by_client OR client_id=$2,
             deleted_by_freelancer = deleted_by_freelancer OR freelancer_id=$2
         WHERE id=$1 AND (client_id=$2 OR freelancer_id=$2)`, orderID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) loadMessages(ctx context.Context, orderID string) ([]model.Message, error) {
	const query = `SELECT id, sender_id, sender_name, body, media_url, media_type, is_system, created_at
                   FROM messages WHERE order_id=$1 ORDER BY created_at, id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]model.Message, 0)
	for rows.Next() {
		var msg model.Message
		var mediaURL, mediaType *string
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.SenderName, &msg.Body, &mediaURL, &mediaType, &msg.IsSystemMessage, &msg.CreatedAt); err != nil {
			return nil, err
		}
		if mediaURL != nil {
			kind := model.MediaTypeImage
			if mediaType != nil {
				kind = model.MediaType(*mediaType)
			}
			msg.Media = &model.Media{URL: *mediaURL, Type: kind}
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanOrder(row scannable) (*model.Order, error) {
	var order model.Order
	var status string
	err := row.Scan(
		&order.ID, &order.JobID, &order.JobTitle, &order.ClientID, &order.ClientName,
		&order.FreelancerID, &order.FreelancerName, &order.Price, &order.Requirements,
		&status, &order.PaymentApproved, &order.PaymentApprovedAt,
		&order.DeletedByClient, &order.DeletedByFreelancer, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	order.Status = model.OrderStatus(status)
	order.Messages = make([]model.Message, 0)
	return &order, nil
}
