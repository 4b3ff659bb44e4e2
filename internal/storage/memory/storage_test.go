package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domainErrors "github.com/frelanci/orderchat/internal/domain/errors"
	"github.com/frelanci/orderchat/internal/domain/model"
)

func sampleOrder(id string) *model.Order {
	now := time.Now().UTC()
	return &model.Order{
		ID:           id,
		JobID:        "job-1",
		JobTitle:     "Logo design",
		ClientID:     "client-1",
		FreelancerID: "freelancer-1",
		Price:        100,
		Status:       model.OrderStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository(t *testing.T) {
	storage := New()
	users := storage.Users()
	ctx := context.Background()

	created, err := users.Create(ctx, model.User{ID: "u1", Login: "cora", Name: "Cora", UserType: model.UserTypeClient})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected creation timestamp to be stamped")
	}

	if _, err := users.Create(ctx, model.User{ID: "u2", Login: "cora"}); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for duplicate login, got %v", err)
	}

	byLogin, err := users.GetByLogin(ctx, "cora")
	if err != nil || byLogin.ID != "u1" {
		t.Fatalf("get by login failed: %+v %v", byLogin, err)
	}
	byID, err := users.GetByID(ctx, "u1")
	if err != nil || byID.Login != "cora" {
		t.Fatalf("get by id failed: %+v %v", byID, err)
	}
	if _, err := users.GetByLogin(ctx, "nobody"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderCreateAndGetReturnCopies(t *testing.T) {
	storage := New()
	orders := storage.Orders()
	ctx := context.Background()

	src := sampleOrder("o1")
	created, err := orders.Create(ctx, src)
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	src.JobTitle = "mutated"
	created.Status = model.OrderStatusCancelled

	got, err := orders.GetByID(ctx, "o1")
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if got.JobTitle != "Logo design" || got.Status != model.OrderStatusPending {
		t.Fatalf("storage shared memory with callers: %+v", got)
	}

	if _, err := orders.Create(ctx, sampleOrder("o1")); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestListByParticipantSortsNewestFirst(t *testing.T) {
	storage := New()
	orders := storage.Orders()
	ctx := context.Background()

	older := sampleOrder("o1")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := sampleOrder("o2")

	other := sampleOrder("o3")
	other.ClientID = "someone-else"
	other.FreelancerID = "another"

	for _, o := range []*model.Order{older, newer, other} {
		if _, err := orders.Create(ctx, o); err != nil {
			t.Fatalf("create returned error: %v", err)
		}
	}

	list, err := orders.ListByParticipant(ctx, "client-1")
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 orders for participant, got %d", len(list))
	}
	if list[0].ID != "o2" || list[1].ID != "o1" {
		t.Fatalf("expected newest first ordering, got %s %s", list[0].ID, list[1].ID)
	}
}

func TestAppendMessage(t *testing.T) {
	storage := New()
	orders := storage.Orders()
	ctx := context.Background()

	if _, err := orders.Create(ctx, sampleOrder("o1")); err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	at := time.Now().UTC()
	msg := model.Message{ID: "m1", SenderID: "client-1", Body: "hello", CreatedAt: at}
	if _, err := orders.AppendMessage(ctx, "o1", msg); err != nil {
		t.Fatalf("append returned error: %v", err)
	}

	got, err := orders.GetByID(ctx, "o1")
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if len(got.Messages) != 1 || got.Messages[0].ID != "m1" {
		t.Fatalf("unexpected thread %+v", got.Messages)
	}
	if !got.UpdatedAt.Equal(at) {
		t.Fatal("append must advance UpdatedAt to the message timestamp")
	}

	if _, err := orders.AppendMessage(ctx, "missing", msg); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApprovePaymentIsOneWay(t *testing.T) {
	storage := New()
	orders := storage.Orders()
	ctx := context.Background()

	if _, err := orders.Create(ctx, sampleOrder("o1")); err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	at := time.Now().UTC()
	system := model.Message{ID: "sys-1", SenderName: "system", Body: "payment confirmed", IsSystemMessage: true, CreatedAt: at}
	if err := orders.ApprovePayment(ctx, "o1", at, system); err != nil {
		t.Fatalf("approve returned error: %v", err)
	}

	if err := orders.ApprovePayment(ctx, "o1", at.Add(time.Minute), system); !errors.Is(err, domainErrors.ErrPaymentAlreadyApproved) {
		t.Fatalf("expected ErrPaymentAlreadyApproved, got %v", err)
	}

	got, err := orders.GetByID(ctx, "o1")
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if !got.PaymentApproved || got.PaymentApprovedAt == nil || !got.PaymentApprovedAt.Equal(at) {
		t.Fatalf("unexpected approval state %+v", got)
	}
	count := 0
	for _, m := range got.Messages {
		if m.IsSystemMessage {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one system message, got %d", count)
	}
}

func TestApprovePaymentRacesYieldSingleSystemMessage(t *testing.T) {
	storage := New()
	orders := storage.Orders()
	ctx := context.Background()

	if _, err := orders.Create(ctx, sampleOrder("o1")); err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	const attempts = 16
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			at := time.Now().UTC()
			errs <- orders.ApprovePayment(ctx, "o1", at, model.Message{ID: "sys", IsSystemMessage: true, CreatedAt: at})
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, domainErrors.ErrPaymentAlreadyApproved) {
			t.Fatalf("unexpected error %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful approval, got %d", succeeded)
	}

	got, _ := orders.GetByID(ctx, "o1")
	if len(got.Messages) != 1 {
		t.Fatalf("expected one system message after racing approvals, got %d", len(got.Messages))
	}
}

func TestSetStatusAndSoftDelete(t *testing.T) {
	storage := New()
	orders := storage.Orders()
	ctx := context.Background()

	if _, err := orders.Create(ctx, sampleOrder("o1")); err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	if err := orders.SetStatus(ctx, "o1", model.OrderStatusDelivered); err != nil {
		t.Fatalf("set status returned error: %v", err)
	}
	got, _ := orders.GetByID(ctx, "o1")
	if got.Status != model.OrderStatusDelivered {
		t.Fatalf("expected delivered status, got %s", got.Status)
	}

	if err := orders.SoftDelete(ctx, "o1", "client-1"); err != nil {
		t.Fatalf("soft delete returned error: %v", err)
	}
	got, _ = orders.GetByID(ctx, "o1")
	if !got.DeletedByClient || got.DeletedByFreelancer {
		t.Fatalf("expected client-only deletion flags, got %+v", got)
	}

	if err := orders.SoftDelete(ctx, "o1", "stranger"); !errors.Is(err, domainErrors.ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
	if err := orders.SetStatus(ctx, "missing", model.OrderStatusDelivered); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
