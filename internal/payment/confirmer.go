package payment

import (
	"context"
	"log/slog"

	domainErrors "github.com/frelanci/orderchat/internal/domain/errors"
	"github.com/frelanci/orderchat/internal/domain/model"
)

// API is the subset of marketplace operations payment confirmation consumes.
type API interface {
	ApprovePayment(ctx context.Context, orderID string) error
}

// Confirmer drives the one-way Unpaid -> Paid transition. Approval is
// irreversible and financially meaningful, so the confirmer never mutates
// local state: the flipped flag and the server-authored system message are
// observed on the next reload, keeping the client in lockstep with the
// authoritative record.
type Confirmer struct {
	api    API
	logger *slog.Logger
}

// NewConfirmer constructs a payment confirmer.
func NewConfirmer(api API, logger *slog.Logger) *Confirmer {
	return &Confirmer{api: api, logger: logger}
}

// CanConfirm reports whether the confirm affordance should be offered: the
// viewer is the order's freelancer and payment is still pending. This is a
// convenience gate only; the server check is authoritative.
func (c *Confirmer) CanConfirm(order *model.Order, viewer model.SessionUser) bool {
	return order != nil && !order.PaymentApproved && order.FreelancerID == viewer.ID
}

// Confirm requests the approval transition. The local guards mirror the
// affordance gating; the server performs the authoritative checks and
// rejections are returned verbatim with local state untouched.
func (c *Confirmer) Confirm(ctx context.Context, order *model.Order, viewer model.SessionUser) error {
	if order == nil {
		return domainErrors.ErrNotFound
	}
	if order.FreelancerID != viewer.ID {
		return domainErrors.ErrNotOrderFreelancer
	}
	if order.PaymentApproved {
		return domainErrors.ErrPaymentAlreadyApproved
	}

	if err := c.api.ApprovePayment(ctx, order.ID); err != nil {
		return err
	}

	c.logger.Info("payment confirmed",
		slog.String("order", order.ID),
		slog.Float64("price", order.Price),
	)
	return nil
}
