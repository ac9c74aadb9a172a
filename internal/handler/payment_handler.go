package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/school-payroll-api/internal/domain"
	"github.com/school-payroll-api/internal/dto"
	"github.com/school-payroll-api/internal/service"
)

type PaymentHandler struct {
	base
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		base:           newBase(logger),
		paymentService: paymentService,
	}
}

// Record - POST /slips/{slipID}/payments
func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordPaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	receipt, err := h.paymentService.Record(
		r.Context(),
		chi.URLParam(r, "slipID"),
		domain.PaymentMethod(req.PaymentMethod),
		req.PaymentDetails,
	)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.ReceiptResponse{
		TransactionID: receipt.TransactionID,
		PaymentID:     receipt.PaymentID,
		SlipID:        receipt.SlipID,
		Amount:        receipt.Amount,
		PaymentMethod: string(receipt.PaymentMethod),
		PayPeriod:     receipt.PayPeriod,
		Employee:      toEmployeeResponse(&receipt.Employee),
		PaidAt:        receipt.PaidAt,
	})
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.paymentService.GetBySlip(r.Context(), chi.URLParam(r, "slipID"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.PaymentResponse{
		PaymentID:      p.PaymentID,
		SlipID:         p.SlipID,
		Amount:         p.Amount,
		PaymentMethod:  string(p.PaymentMethod),
		TransactionID:  p.TransactionID,
		PaymentDetails: p.PaymentDetails,
		Status:         string(p.Status),
		PaidAt:         p.PaidAt,
	})
}
