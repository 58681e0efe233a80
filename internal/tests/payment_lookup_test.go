package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/Mikelesnr/alx-travel-app-0x02/internal/domain"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/repository"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/service"
)

// ──────────────────────────────────────────────
// 4. PAYMENT LOOKUP
// ──────────────────────────────────────────────

func TestGetPayment_ReturnsStoredDetails(t *testing.T) {
	t.Parallel()

	repo := NewMockPaymentRepository()
	repo.AddPayment(pendingPayment("https://pay/xyz"))
	svc := newPaymentService(repo, NewMockGateway("", "success"), NewMockLockStore(), NewMockCacheStore(), NewMockNotifier())

	payment, err := svc.GetPayment(context.Background(), "https://pay/xyz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.BookingReference != "BK100" || payment.AmountCents != 25000 {
		t.Errorf("unexpected payment details: %+v", payment)
	}
}

func TestGetPayment_Unknown_NotFound(t *testing.T) {
	t.Parallel()

	svc := newPaymentService(NewMockPaymentRepository(), NewMockGateway("", "success"), NewMockLockStore(), NewMockCacheStore(), NewMockNotifier())

	_, err := svc.GetPayment(context.Background(), "https://pay/missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetPayment_SecondLookupServedFromCache(t *testing.T) {
	t.Parallel()

	repo := NewMockPaymentRepository()
	repo.AddPayment(pendingPayment("https://pay/xyz"))
	cache := NewMockCacheStore()
	svc := newPaymentService(repo, NewMockGateway("", "success"), NewMockLockStore(), cache, NewMockNotifier())

	if _, err := svc.GetPayment(context.Background(), "https://pay/xyz"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Repository failures no longer matter once the cache is warm.
	repo.GetError = errors.New("db down")
	payment, err := svc.GetPayment(context.Background(), "https://pay/xyz")
	if err != nil {
		t.Fatalf("expected cache hit, got %v", err)
	}
	if payment.Status != domain.PaymentStatusPending {
		t.Errorf("expected Pending from cache, got %s", payment.Status)
	}
}

func TestGetPaymentsForBooking_ListsAllAttempts(t *testing.T) {
	t.Parallel()

	repo := NewMockPaymentRepository()
	first := pendingPayment("https://pay/one")
	second := pendingPayment("https://pay/two")
	second.Status = domain.PaymentStatusFailed
	repo.AddPayment(first)
	repo.AddPayment(second)
	svc := newPaymentService(repo, NewMockGateway("", "success"), NewMockLockStore(), NewMockCacheStore(), NewMockNotifier())

	payments, err := svc.GetPaymentsForBooking(context.Background(), "BK100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(payments))
	}

	_, err = svc.GetPaymentsForBooking(context.Background(), "")
	if !errors.Is(err, service.ErrMissingBookingReference) {
		t.Fatalf("expected ErrMissingBookingReference, got %v", err)
	}
}
