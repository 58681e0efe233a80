package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mikelesnr/alx-travel-app-0x02/internal/domain"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/service"
)

// Defaults for optional payer fields, applied at the boundary.
const (
	defaultFirstName   = "First Name"
	defaultLastName    = "Last Name"
	defaultPhoneNumber = "0912345678"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// InitiateResponse is the HTTP response for a successful initiation.
type InitiateResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// VerifyResponse is the HTTP response for a verification.
type VerifyResponse struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// PaymentDetails is the stored view of a payment.
type PaymentDetails struct {
	BookingReference string `json:"booking_reference"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	TransactionID    string `json:"transaction_id"`
	PaymentStatus    string `json:"payment_status"`
}

func toPaymentDetails(payment *domain.Payment) PaymentDetails {
	return PaymentDetails{
		BookingReference: payment.BookingReference,
		Amount:           domain.FormatAmount(payment.AmountCents),
		Currency:         payment.Currency,
		TransactionID:    payment.TransactionID,
		PaymentStatus:    string(payment.Status),
	}
}

// InitiatePayment handles POST /api/payment/initiate
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	req := service.InitiatePaymentRequest{
		BookingReference: c.PostForm("booking_reference"),
		Amount:           c.PostForm("amount"),
		Email:            c.PostForm("email"),
		FirstName:        c.DefaultPostForm("first_name", defaultFirstName),
		LastName:         c.DefaultPostForm("last_name", defaultLastName),
		PhoneNumber:      c.DefaultPostForm("phone_number", defaultPhoneNumber),
	}

	payment, err := h.paymentService.InitiatePayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, InitiateResponse{CheckoutURL: payment.TransactionID})
}

// VerifyPayment handles GET /api/payment/verify?tx_ref=...
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	txRef := c.Query("tx_ref")
	if txRef == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing transaction reference"})
		return
	}

	payment, err := h.paymentService.VerifyPayment(c.Request.Context(), txRef)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, VerifyResponse{
		Status:        "Payment verified",
		PaymentStatus: string(payment.Status),
	})
}

// PaymentSuccess handles GET /api/payment/success?tx_ref=...
func (h *PaymentHandler) PaymentSuccess(c *gin.Context) {
	txRef := c.Query("tx_ref")
	if txRef == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing transaction reference"})
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), txRef)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"status":          "success",
		"payment_details": toPaymentDetails(payment),
	})
}

// GetBookingPayments handles GET /api/payment/booking/:reference
func (h *PaymentHandler) GetBookingPayments(c *gin.Context) {
	reference := c.Param("reference")

	payments, err := h.paymentService.GetPaymentsForBooking(c.Request.Context(), reference)
	if err != nil {
		respondError(c, err)
		return
	}

	details := make([]PaymentDetails, 0, len(payments))
	for _, payment := range payments {
		details = append(details, toPaymentDetails(payment))
	}

	respondJSON(c, http.StatusOK, gin.H{
		"booking_reference": reference,
		"payments":          details,
	})
}
