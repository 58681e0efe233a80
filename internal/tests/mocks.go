package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Mikelesnr/alx-travel-app-0x02/internal/config"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/domain"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/gateway"
	internalRedis "github.com/Mikelesnr/alx-travel-app-0x02/internal/redis"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/repository"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/service"
)

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository. It
// applies the same transition rules as the postgres implementation, under a
// mutex, so concurrency tests exercise real contention.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment // keyed by transaction id

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	GetError          error
	UpdateStatusError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// AddPayment seeds a payment into the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.TransactionID] = payment
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.payments[payment.TransactionID]; exists {
		return repository.ErrDuplicateTransaction
	}
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt
	stored := *payment
	m.payments[payment.TransactionID] = &stored
	return nil
}

func (m *MockPaymentRepository) GetByTransactionID(ctx context.Context, txID string) (*domain.Payment, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[txID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByBookingReference(ctx context.Context, ref string) ([]*domain.Payment, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Payment
	for _, p := range m.payments {
		if p.BookingReference == ref {
			copy := *p
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, txID string, status domain.PaymentStatus) (bool, *domain.Payment, error) {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return false, nil, m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[txID]
	if !ok {
		return false, nil, repository.ErrNotFound
	}
	if !domain.AllowsTransition(payment.Status, status) {
		copy := *payment
		return false, &copy, nil
	}
	payment.Status = status
	payment.UpdatedAt = time.Now()
	copy := *payment
	return true, &copy, nil
}

// GetPayment returns the stored payment for test assertions.
func (m *MockPaymentRepository) GetPayment(txID string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payments[txID]
}

// CountPayments returns the number of stored payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// ──────────────────────────────────────────────
// MOCK GATEWAY CLIENT
// ──────────────────────────────────────────────

// MockGateway is a mock implementation of the gateway client.
type MockGateway struct {
	mu sync.Mutex

	// Counters for verification
	InitializeCallCount int32
	VerifyCallCount     int32

	// Canned results and error injection
	InitializeResult *gateway.CheckoutResult
	InitializeError  error
	VerifyResult     *gateway.VerifyResult
	VerifyError      error

	lastInitializeRequest gateway.InitializeRequest
}

// NewMockGateway creates a mock gateway that issues the given checkout URL
// and reports a successful verification.
func NewMockGateway(checkoutURL, rawStatus string) *MockGateway {
	return &MockGateway{
		InitializeResult: &gateway.CheckoutResult{CheckoutURL: checkoutURL},
		VerifyResult:     &gateway.VerifyResult{RawStatus: rawStatus},
	}
}

func (m *MockGateway) Initialize(ctx context.Context, req gateway.InitializeRequest) (*gateway.CheckoutResult, error) {
	atomic.AddInt32(&m.InitializeCallCount, 1)
	m.mu.Lock()
	m.lastInitializeRequest = req
	m.mu.Unlock()
	if m.InitializeError != nil {
		return nil, m.InitializeError
	}
	return m.InitializeResult, nil
}

func (m *MockGateway) Verify(ctx context.Context, txRef string) (*gateway.VerifyResult, error) {
	atomic.AddInt32(&m.VerifyCallCount, 1)
	if m.VerifyError != nil {
		return nil, m.VerifyError
	}
	return m.VerifyResult, nil
}

// LastInitializeRequest returns the most recent initialize request.
func (m *MockGateway) LastInitializeRequest() gateway.InitializeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastInitializeRequest
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of the verify lock with SetNX
// semantics.
type MockLockStore struct {
	mu   sync.Mutex
	held map[string]bool

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{held: make(map[string]bool)}
}

func (m *MockLockStore) AcquireVerifyLock(ctx context.Context, txRef string, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[txRef] {
		return false, nil
	}
	m.held[txRef] = true
	return true, nil
}

func (m *MockLockStore) ReleaseVerifyLock(ctx context.Context, txRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, txRef)
	return nil
}

// Hold marks a lock as already held, simulating a concurrent verify.
func (m *MockLockStore) Hold(txRef string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held[txRef] = true
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is an in-memory implementation of the payment cache.
type MockCacheStore struct {
	mu       sync.Mutex
	payments map[string]*internalRedis.CachedPayment

	// Counters for verification
	InvalidateCallCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{payments: make(map[string]*internalRedis.CachedPayment)}
}

func (m *MockCacheStore) GetPayment(ctx context.Context, txRef string) (*internalRedis.CachedPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payments[txRef], nil
}

func (m *MockCacheStore) SetPayment(ctx context.Context, payment *internalRedis.CachedPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.TransactionID] = payment
	return nil
}

func (m *MockCacheStore) InvalidatePayment(ctx context.Context, txRef string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.payments, txRef)
	return nil
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER
// ──────────────────────────────────────────────

// MockNotifier records confirmation notifications.
type MockNotifier struct {
	CallCount int32

	// Error injection
	SendError error

	sent chan *domain.Payment
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{sent: make(chan *domain.Payment, 8)}
}

func (m *MockNotifier) SendPaymentConfirmation(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CallCount, 1)
	select {
	case m.sent <- payment:
	default:
	}
	return m.SendError
}

// WaitForNotification blocks until a notification arrives or the timeout
// elapses; notifications are dispatched asynchronously.
func (m *MockNotifier) WaitForNotification(t *testing.T, timeout time.Duration) *domain.Payment {
	t.Helper()
	select {
	case payment := <-m.sent:
		return payment
	case <-time.After(timeout):
		t.Fatal("timed out waiting for notification")
		return nil
	}
}

// AssertNoNotification fails if a notification arrives within the window.
func (m *MockNotifier) AssertNoNotification(t *testing.T, window time.Duration) {
	t.Helper()
	select {
	case payment := <-m.sent:
		t.Fatalf("unexpected notification for booking %s", payment.BookingReference)
	case <-time.After(window):
	}
}

// ──────────────────────────────────────────────
// SERVICE FIXTURE
// ──────────────────────────────────────────────

// testChapaConfig is the gateway configuration used by service tests.
func testChapaConfig() config.ChapaConfig {
	return config.ChapaConfig{
		SecretKey:   "test-secret",
		BaseURL:     "https://gateway.test/v1",
		CallbackURL: "https://app.test/api/payment/verify",
		ReturnURL:   "https://app.test/api/payment/success",
		Timeout:     5 * time.Second,
	}
}

// newPaymentService wires a PaymentService from the given mocks with a
// no-op logger.
func newPaymentService(
	repo *MockPaymentRepository,
	gw *MockGateway,
	locks *MockLockStore,
	cache *MockCacheStore,
	notifier *MockNotifier,
) *service.PaymentService {
	return service.NewPaymentService(repo, gw, locks, cache, notifier, testChapaConfig(), zap.NewNop().Sugar())
}
