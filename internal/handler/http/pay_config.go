package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-overtime/internal/domain/payconfig"
	"github.com/cmlabs-hris/hris-overtime/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayConfigHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
	Validate(w http.ResponseWriter, r *http.Request)
}

type payConfigHandlerImpl struct {
	payConfigService payconfig.PayConfigService
}

func NewPayConfigHandler(payConfigService payconfig.PayConfigService) PayConfigHandler {
	return &payConfigHandlerImpl{payConfigService: payConfigService}
}

// Get implements PayConfigHandler.
func (h *payConfigHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "employeeCode")
	if code == "" {
		response.BadRequest(w, "Employee code is required", nil)
		return
	}

	result, err := h.payConfigService.GetPayConfig(r.Context(), code)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Upsert implements PayConfigHandler.
func (h *payConfigHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "employeeCode")
	if code == "" {
		response.BadRequest(w, "Employee code is required", nil)
		return
	}

	var req payconfig.UpsertPayConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.EmployeeCode = code

	result, err := h.payConfigService.UpsertPayConfig(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay configuration saved", result)
}

// Validate implements PayConfigHandler.
func (h *payConfigHandlerImpl) Validate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "employeeCode")
	if code == "" {
		response.BadRequest(w, "Employee code is required", nil)
		return
	}

	result, err := h.payConfigService.ValidatePayConfig(r.Context(), code)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
