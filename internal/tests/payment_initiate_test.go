package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/Mikelesnr/alx-travel-app-0x02/internal/domain"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/gateway"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/repository"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/service"
)

// ──────────────────────────────────────────────
// 1. PAYMENT INITIATION
// ──────────────────────────────────────────────

func validInitiateRequest() service.InitiatePaymentRequest {
	return service.InitiatePaymentRequest{
		BookingReference: "BK100",
		Amount:           "250.00",
		Email:            "a@b.com",
		FirstName:        "First Name",
		LastName:         "Last Name",
		PhoneNumber:      "0912345678",
	}
}

func TestInitiate_CreatesPendingPaymentWithCheckoutURL(t *testing.T) {
	t.Parallel()

	repo := NewMockPaymentRepository()
	gw := NewMockGateway("https://pay/xyz", "success")
	svc := newPaymentService(repo, gw, NewMockLockStore(), NewMockCacheStore(), NewMockNotifier())

	payment, err := svc.InitiatePayment(context.Background(), validInitiateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payment.TransactionID != "https://pay/xyz" {
		t.Errorf("expected transaction id %q, got %q", "https://pay/xyz", payment.TransactionID)
	}
	if payment.Status != domain.PaymentStatusPending {
		t.Errorf("expected status %s, got %s", domain.PaymentStatusPending, payment.Status)
	}
	if payment.AmountCents != 25000 {
		t.Errorf("expected amount 25000 cents, got %d", payment.AmountCents)
	}

	// Exactly one row, keyed by the checkout URL.
	if repo.CountPayments() != 1 {
		t.Fatalf("expected 1 payment, got %d", repo.CountPayments())
	}
	stored := repo.GetPayment("https://pay/xyz")
	if stored == nil {
		t.Fatal("payment not stored under checkout URL")
	}
	if stored.BookingReference != "BK100" {
		t.Errorf("expected booking reference BK100, got %s", stored.BookingReference)
	}
	if stored.Email != "a@b.com" {
		t.Errorf("expected payer email persisted, got %q", stored.Email)
	}
}

func TestInitiate_SendsGatewayRequestWithConstraints(t *testing.T) {
	t.Parallel()

	repo := NewMockPaymentRepository()
	gw := NewMockGateway("https://pay/xyz", "success")
	svc := newPaymentService(repo, gw, NewMockLockStore(), NewMockCacheStore(), NewMockNotifier())

	if _, err := svc.InitiatePayment(context.Background(), validInitiateRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := gw.LastInitializeRequest()
	if len(req.Title) > 16 {
		t.Errorf("title %q exceeds the 16 character gateway limit", req.Title)
	}
	if req.TxRef == "" || req.TxRef == "BK100" {
		t.Errorf("expected a unique per-attempt tx_ref, got %q", req.TxRef)
	}
	if req.CallbackURL == "" || req.ReturnURL == "" {
		t.Error("callback and return URLs must come from config")
	}
	if req.AmountCents != 25000 {
		t.Errorf("expected 25000 cents, got %d", req.AmountCents)
	}
}

func TestInitiate_MissingRequiredFields_NoSideEffects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*service.InitiatePaymentRequest)
		wantErr error
	}{
		{"missing booking reference", func(r *service.InitiatePaymentRequest) { r.BookingReference = "" }, service.ErrMissingBookingReference},
		{"missing amount", func(r *service.InitiatePaymentRequest) { r.Amount = "" }, service.ErrMissingAmount},
		{"missing email", func(r *service.InitiatePaymentRequest) { r.Email = "" }, service.ErrMissingEmail},
		{"malformed amount", func(r *service.InitiatePaymentRequest) { r.Amount = "abc" }, domain.ErrInvalidAmount},
		{"negative amount", func(r *service.InitiatePaymentRequest) { r.Amount = "-5.00" }, domain.ErrInvalidAmount},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := NewMockPaymentRepository()
			gw := NewMockGateway("https://pay/xyz", "success")
			svc := newPaymentService(repo, gw, NewMockLockStore(), NewMockCacheStore(), NewMockNotifier())

			req := validInitiateRequest()
			tc.mutate(&req)

			_, err := svc.InitiatePayment(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if gw.InitializeCallCount != 0 {
				t.Error("gateway must not be called for invalid input")
			}
			if repo.CountPayments() != 0 {
				t.Error("no payment row may be created for invalid input")
			}
		})
	}
}

func TestInitiate_GatewayRejection_NoRowCreated(t *testing.T) {
	t.Parallel()

	repo := NewMockPaymentRepository()
	gw := NewMockGateway("", "")
	gw.InitializeError = &gateway.Error{Kind: gateway.KindRejected, Message: "insufficient merchant balance"}
	svc := newPaymentService(repo, gw, NewMockLockStore(), NewMockCacheStore(), NewMockNotifier())

	_, err := svc.InitiatePayment(context.Background(), validInitiateRequest())
	if err == nil {
		t.Fatal("expected error")
	}
	if !gateway.IsKind(err, gateway.KindRejected) {
		t.Errorf("expected rejected gateway error, got %v", err)
	}
	if repo.CountPayments() != 0 {
		t.Error("failed initiation must not create a payment row")
	}
}

func TestInitiate_GatewayTransportFailure_NoRowCreated(t *testing.T) {
	t.Parallel()

	repo := NewMockPaymentRepository()
	gw := NewMockGateway("", "")
	gw.InitializeError = &gateway.Error{Kind: gateway.KindTransport, Message: "connection refused"}
	svc := newPaymentService(repo, gw, NewMockLockStore(), NewMockCacheStore(), NewMockNotifier())

	_, err := svc.InitiatePayment(context.Background(), validInitiateRequest())
	if !gateway.IsKind(err, gateway.KindTransport) {
		t.Fatalf("expected transport gateway error, got %v", err)
	}
	if repo.CountPayments() != 0 {
		t.Error("failed initiation must not create a payment row")
	}
}

func TestInitiate_DuplicateTransactionID_Conflict(t *testing.T) {
	t.Parallel()

	repo := NewMockPaymentRepository()
	repo.AddPayment(&domain.Payment{
		ID:               "existing",
		BookingReference: "BK099",
		TransactionID:    "https://pay/xyz",
		Status:           domain.PaymentStatusPending,
	})
	gw := NewMockGateway("https://pay/xyz", "success")
	svc := newPaymentService(repo, gw, NewMockLockStore(), NewMockCacheStore(), NewMockNotifier())

	_, err := svc.InitiatePayment(context.Background(), validInitiateRequest())
	if !errors.Is(err, repository.ErrDuplicateTransaction) {
		t.Fatalf("expected ErrDuplicateTransaction, got %v", err)
	}
	if repo.CountPayments() != 1 {
		t.Errorf("expected the original payment only, got %d rows", repo.CountPayments())
	}
}
