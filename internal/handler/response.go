package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/school-payroll-api/internal/domain"
	"github.com/school-payroll-api/internal/dto"
	"github.com/school-payroll-api/internal/validation"
)

// base - общие для всех хендлеров разбор запроса и ответы
type base struct {
	validator *validator.Validate
	logger    *slog.Logger
}

func newBase(logger *slog.Logger) base {
	return base{
		validator: validation.New(),
		logger:    logger,
	}
}

// decode читает JSON-тело и проверяет его теги validate
func (h *base) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	return h.decodeBody(w, r, dst) && h.check(w, dst)
}

func (h *base) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

func (h *base) check(w http.ResponseWriter, dst any) bool {
	if err := validation.Struct(h.validator, dst); err != nil {
		h.handleServiceError(w, err)
		return false
	}
	return true
}

func (h *base) handleServiceError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrSlipSuperseded):
		h.respondError(w, http.StatusConflict, "salary slip was superseded", "")
	case errors.Is(err, domain.ErrAlreadyPaid):
		h.respondError(w, http.StatusConflict, "salary slip already paid", "")
	case errors.Is(err, domain.ErrDuplicateEmployee):
		h.respondError(w, http.StatusConflict, "employee with this id already exists", "")
	case errors.Is(err, domain.ErrDuplicateKey):
		h.respondError(w, http.StatusConflict, "duplicate key", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.respondError(w, http.StatusNotFound, err.Error(), "")
	case errors.As(err, &verr):
		h.respondJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:  "validation error",
			Fields: verr.Fields,
		})
	case errors.Is(err, domain.ErrValidation):
		h.respondError(w, http.StatusBadRequest, "validation error", err.Error())
	default:
		h.logger.Error("internal error", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

func (h *base) respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *base) respondError(w http.ResponseWriter, status int, errMsg, details string) {
	resp := dto.ErrorResponse{Error: errMsg}
	if details != "" {
		resp.Message = details
	}
	h.respondJSON(w, status, resp)
}
