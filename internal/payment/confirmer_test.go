package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	domainErrors "github.com/frelanci/orderchat/internal/domain/errors"
	"github.com/frelanci/orderchat/internal/domain/model"
	testhelpers "github.com/frelanci/orderchat/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func pendingOrder() *model.Order {
	return &model.Order{
		ID:             "order-1",
		ClientID:       "client-1",
		FreelancerID:   "freelancer-1",
		FreelancerName: "Finn",
		Price:          200,
	}
}

func freelancer() model.SessionUser {
	return model.SessionUser{ID: "freelancer-1", Name: "Finn", UserType: model.UserTypeFreelancer}
}

func client() model.SessionUser {
	return model.SessionUser{ID: "client-1", Name: "Cora", UserType: model.UserTypeClient}
}

func TestCanConfirm(t *testing.T) {
	confirmer := NewConfirmer(&testhelpers.MarketplaceAPIStub{}, testLogger())

	if !confirmer.CanConfirm(pendingOrder(), freelancer()) {
		t.Fatal("freelancer must see the confirm affordance on a pending order")
	}
	if confirmer.CanConfirm(pendingOrder(), client()) {
		t.Fatal("client must never see the confirm affordance")
	}

	approved := pendingOrder()
	approved.PaymentApproved = true
	if confirmer.CanConfirm(approved, freelancer()) {
		t.Fatal("approved order must not offer confirmation again")
	}
	if confirmer.CanConfirm(nil, freelancer()) {
		t.Fatal("nil order must not offer confirmation")
	}
}

func TestConfirmRequestsApproval(t *testing.T) {
	stub := &testhelpers.MarketplaceAPIStub{}
	confirmer := NewConfirmer(stub, testLogger())

	order := pendingOrder()
	if err := confirmer.Confirm(context.Background(), order, freelancer()); err != nil {
		t.Fatalf("confirm returned error: %v", err)
	}
	if len(stub.Approvals) != 1 || stub.Approvals[0] != "order-1" {
		t.Fatalf("unexpected approvals %v", stub.Approvals)
	}
	// No local mutation: the flag arrives with the next reload.
	if order.PaymentApproved || order.PaymentApprovedAt != nil {
		t.Fatal("confirm must not mutate the local order")
	}
}

func TestConfirmGuards(t *testing.T) {
	stub := &testhelpers.MarketplaceAPIStub{}
	confirmer := NewConfirmer(stub, testLogger())

	if err := confirmer.Confirm(context.Background(), nil, freelancer()); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for nil order, got %v", err)
	}
	if err := confirmer.Confirm(context.Background(), pendingOrder(), client()); !errors.Is(err, domainErrors.ErrNotOrderFreelancer) {
		t.Fatalf("expected ErrNotOrderFreelancer, got %v", err)
	}

	approved := pendingOrder()
	approved.PaymentApproved = true
	at := time.Now().UTC()
	approved.PaymentApprovedAt = &at
	if err := confirmer.Confirm(context.Background(), approved, freelancer()); !errors.Is(err, domainErrors.ErrPaymentAlreadyApproved) {
		t.Fatalf("expected ErrPaymentAlreadyApproved, got %v", err)
	}

	if len(stub.Approvals) != 0 {
		t.Fatal("guarded confirmations must not reach the backend")
	}
}

func TestConfirmSurfacesBackendRejection(t *testing.T) {
	stub := &testhelpers.MarketplaceAPIStub{
		ApprovePaymentFn: func(ctx context.Context, orderID string) error {
			return domainErrors.ErrPaymentAlreadyApproved
		},
	}
	confirmer := NewConfirmer(stub, testLogger())

	err := confirmer.Confirm(context.Background(), pendingOrder(), freelancer())
	if !errors.Is(err, domainErrors.ErrPaymentAlreadyApproved) {
		t.Fatalf("expected backend rejection verbatim, got %v", err)
	}
}
