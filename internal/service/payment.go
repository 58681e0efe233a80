package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mikelesnr/alx-travel-app-0x02/internal/config"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/domain"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/gateway"
	internalRedis "github.com/Mikelesnr/alx-travel-app-0x02/internal/redis"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/repository"
)

const (
	// defaultCurrency is the settlement currency for the gateway.
	defaultCurrency = "ETB"

	// checkoutTitle must stay within the gateway's 16-character limit.
	checkoutTitle       = "Booking Payment"
	checkoutDescription = "Pay for your booking at ALX Travel App"

	// verifyLockTTL bounds how long a crashed verify can hold the lock.
	verifyLockTTL = 30 * time.Second

	notifyTimeout = 10 * time.Second
)

// PaymentService drives a payment from initiation through verification.
type PaymentService struct {
	payments repository.PaymentRepository
	gateway  gateway.Client
	locks    internalRedis.LockStoreInterface
	cache    internalRedis.CacheStoreInterface
	notifier Notifier
	cfg      config.ChapaConfig
	logger   *zap.SugaredLogger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	payments repository.PaymentRepository,
	gw gateway.Client,
	locks internalRedis.LockStoreInterface,
	cache internalRedis.CacheStoreInterface,
	notifier Notifier,
	cfg config.ChapaConfig,
	logger *zap.SugaredLogger,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		gateway:  gw,
		locks:    locks,
		cache:    cache,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

// InitiatePaymentRequest contains the parameters for initiating a payment.
// Defaults for the optional payer fields are applied at the HTTP boundary.
type InitiatePaymentRequest struct {
	BookingReference string
	Amount           string
	Email            string
	FirstName        string
	LastName         string
	PhoneNumber      string
}

// InitiatePayment opens a checkout with the gateway and records the attempt
// as Pending. No payment row is created unless the gateway issued a
// checkout URL, so a failed initiation leaves no orphaned state.
func (s *PaymentService) InitiatePayment(ctx context.Context, req InitiatePaymentRequest) (*domain.Payment, error) {
	if req.BookingReference == "" {
		return nil, ErrMissingBookingReference
	}
	if req.Amount == "" {
		return nil, ErrMissingAmount
	}
	if req.Email == "" {
		return nil, ErrMissingEmail
	}

	amountCents, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	// The reference sent to the gateway must be unique per attempt; a
	// booking can be retried, so the booking reference alone is not enough.
	txRef := fmt.Sprintf("%s-%s", req.BookingReference, uuid.New().String())

	result, err := s.gateway.Initialize(ctx, gateway.InitializeRequest{
		AmountCents: amountCents,
		Currency:    defaultCurrency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		TxRef:       txRef,
		CallbackURL: s.cfg.CallbackURL,
		ReturnURL:   s.cfg.ReturnURL,
		Title:       checkoutTitle,
		Description: checkoutDescription,
	})
	if err != nil {
		s.logger.Errorw("payment initiation failed",
			"booking_reference", req.BookingReference,
			"error", err,
		)
		return nil, fmt.Errorf("initiate payment: %w", err)
	}

	payment := &domain.Payment{
		ID:               uuid.New().String(),
		BookingReference: req.BookingReference,
		TransactionID:    result.CheckoutURL,
		AmountCents:      amountCents,
		Currency:         defaultCurrency,
		Email:            req.Email,
		Status:           domain.PaymentStatusPending,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Infow("payment initiated",
		"booking_reference", payment.BookingReference,
		"transaction_id", payment.TransactionID,
		"amount", domain.FormatAmount(payment.AmountCents),
	)

	return payment, nil
}

// VerifyPayment reconciles local payment state with the gateway. The status
// transition is applied atomically in the store; re-verifying a payment that
// already reached a terminal status is a no-op and sends no duplicate
// notification.
func (s *PaymentService) VerifyPayment(ctx context.Context, txRef string) (*domain.Payment, error) {
	if txRef == "" {
		return nil, ErrMissingTransactionRef
	}

	acquired, err := s.locks.AcquireVerifyLock(ctx, txRef, verifyLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire verify lock: %w", err)
	}
	if !acquired {
		return nil, ErrVerificationInProgress
	}
	defer func() {
		if err := s.locks.ReleaseVerifyLock(ctx, txRef); err != nil {
			s.logger.Errorw("failed to release verify lock", "tx_ref", txRef, "error", err)
		}
	}()

	result, err := s.gateway.Verify(ctx, txRef)
	if err != nil {
		s.logger.Errorw("payment verification failed", "tx_ref", txRef, "error", err)
		return nil, fmt.Errorf("verify payment: %w", err)
	}

	status := domain.NormalizeGatewayStatus(result.RawStatus)
	if status == domain.PaymentStatusUnknown {
		s.logger.Warnw("unrecognized gateway status, recording as Unknown",
			"tx_ref", txRef,
			"raw_status", result.RawStatus,
		)
	}

	transitioned, payment, err := s.payments.UpdateStatus(ctx, txRef, status)
	if err != nil {
		return nil, err
	}

	if transitioned {
		if err := s.cache.InvalidatePayment(ctx, txRef); err != nil {
			s.logger.Errorw("failed to invalidate payment cache", "tx_ref", txRef, "error", err)
		}
		s.logger.Infow("payment status updated",
			"tx_ref", txRef,
			"status", payment.Status,
		)
	}

	if transitioned && payment.Status == domain.PaymentStatusSuccess {
		s.dispatchConfirmation(payment)
	}

	return payment, nil
}

// GetPayment looks up a stored payment by transaction reference, consulting
// the cache first.
func (s *PaymentService) GetPayment(ctx context.Context, txRef string) (*domain.Payment, error) {
	if txRef == "" {
		return nil, ErrMissingTransactionRef
	}

	cached, err := s.cache.GetPayment(ctx, txRef)
	if err != nil {
		s.logger.Errorw("payment cache read failed", "tx_ref", txRef, "error", err)
	}
	if cached != nil {
		return &domain.Payment{
			ID:               cached.ID,
			BookingReference: cached.BookingReference,
			TransactionID:    cached.TransactionID,
			AmountCents:      cached.AmountCents,
			Currency:         cached.Currency,
			Email:            cached.Email,
			Status:           domain.PaymentStatus(cached.Status),
		}, nil
	}

	payment, err := s.payments.GetByTransactionID(ctx, txRef)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetPayment(ctx, &internalRedis.CachedPayment{
		ID:               payment.ID,
		BookingReference: payment.BookingReference,
		TransactionID:    payment.TransactionID,
		AmountCents:      payment.AmountCents,
		Currency:         payment.Currency,
		Email:            payment.Email,
		Status:           string(payment.Status),
	}); err != nil {
		s.logger.Errorw("payment cache write failed", "tx_ref", txRef, "error", err)
	}

	return payment, nil
}

// GetPaymentsForBooking lists every payment attempt recorded for a booking.
func (s *PaymentService) GetPaymentsForBooking(ctx context.Context, bookingReference string) ([]*domain.Payment, error) {
	if bookingReference == "" {
		return nil, ErrMissingBookingReference
	}
	return s.payments.GetByBookingReference(ctx, bookingReference)
}

// dispatchConfirmation sends the confirmation email without blocking the
// verify response. The request context is not reused: it ends with the
// response.
func (s *PaymentService) dispatchConfirmation(payment *domain.Payment) {
	p := *payment
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.notifier.SendPaymentConfirmation(ctx, &p); err != nil {
			s.logger.Errorw("payment confirmation notification failed",
				"booking_reference", p.BookingReference,
				"error", err,
			)
		}
	}()
}
