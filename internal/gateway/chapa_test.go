package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Mikelesnr/alx-travel-app-0x02/internal/config"
)

func testClient(baseURL string) *ChapaClient {
	return NewChapaClient(config.ChapaConfig{
		SecretKey:   "test-secret",
		BaseURL:     baseURL,
		CallbackURL: "https://app.test/api/payment/verify",
		ReturnURL:   "https://app.test/api/payment/success",
		Timeout:     2 * time.Second,
	}, zap.NewNop().Sugar())
}

func initializeRequest() InitializeRequest {
	return InitializeRequest{
		AmountCents: 25000,
		Currency:    "ETB",
		Email:       "a@b.com",
		FirstName:   "First Name",
		LastName:    "Last Name",
		PhoneNumber: "0912345678",
		TxRef:       "BK100-attempt-1",
		CallbackURL: "https://app.test/api/payment/verify",
		ReturnURL:   "https://app.test/api/payment/success",
		Title:       "Booking Payment",
		Description: "Pay for your booking",
	}
}

func TestInitialize_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-secret" {
			t.Errorf("expected bearer auth, got %q", got)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload["amount"] != "250.00" {
			t.Errorf("expected amount 250.00, got %v", payload["amount"])
		}
		if payload["tx_ref"] != "BK100-attempt-1" {
			t.Errorf("expected tx_ref, got %v", payload["tx_ref"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":{"checkout_url":"https://pay/xyz"}}`))
	}))
	defer server.Close()

	result, err := testClient(server.URL).Initialize(context.Background(), initializeRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CheckoutURL != "https://pay/xyz" {
		t.Errorf("expected checkout URL https://pay/xyz, got %s", result.CheckoutURL)
	}
}

func TestInitialize_TitleTooLong_NoRequestSent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request may reach the gateway for an oversized title")
	}))
	defer server.Close()

	req := initializeRequest()
	req.Title = "A Very Long Checkout Title"

	_, err := testClient(server.URL).Initialize(context.Background(), req)
	if err != ErrTitleTooLong {
		t.Fatalf("expected ErrTitleTooLong, got %v", err)
	}
}

func TestInitialize_GatewayReportsFailed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"failed","message":"invalid currency"}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Initialize(context.Background(), initializeRequest())
	if !IsKind(err, KindRejected) {
		t.Fatalf("expected rejected error, got %v", err)
	}
	var gwErr *Error
	if !errors.As(err, &gwErr) || gwErr.Message != "invalid currency" {
		t.Errorf("expected gateway message surfaced, got %v", err)
	}
}

func TestInitialize_MissingCheckoutURL(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":{}}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Initialize(context.Background(), initializeRequest())
	if !IsKind(err, KindMalformedResponse) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestInitialize_UnparseableBody_Transport(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway down</html>`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Initialize(context.Background(), initializeRequest())
	if !IsKind(err, KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestInitialize_ConnectionRefused_Transport(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	_, err := testClient(server.URL).Initialize(context.Background(), initializeRequest())
	if !IsKind(err, KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestVerify_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/transaction/verify/BK100-attempt-1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-secret" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		w.Write([]byte(`{"status":"success","data":{"status":"success"}}`))
	}))
	defer server.Close()

	result, err := testClient(server.URL).Verify(context.Background(), "BK100-attempt-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RawStatus != "success" {
		t.Errorf("expected raw status success, got %s", result.RawStatus)
	}
}

func TestVerify_GatewayFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":"failed","message":"transaction not found"}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Verify(context.Background(), "missing-ref")
	if !IsKind(err, KindVerificationFailed) {
		t.Fatalf("expected verification failed error, got %v", err)
	}
}

func TestVerify_MissingData_Malformed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Verify(context.Background(), "BK100-attempt-1")
	if !IsKind(err, KindMalformedResponse) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}
