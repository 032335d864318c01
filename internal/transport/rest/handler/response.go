package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"formforge/internal/model"
	"formforge/internal/service"
	"formforge/internal/transport/rest/middleware"
)

// ResponseHandler handles response intake and owner reads
type ResponseHandler struct {
	responseSvc *service.ResponseService
}

// NewResponseHandler creates a new response handler
func NewResponseHandler(responseSvc *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responseSvc: responseSvc}
}

// SubmitRequest is the request body for submitting a response
type SubmitRequest struct {
	FormID          string         `json:"formId" validate:"required"`
	RespondentEmail string         `json:"respondentEmail" validate:"omitempty,email"`
	Answers         []model.Answer `json:"answers"`
}

// Submit handles POST /api/responses. Intentionally public.
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := h.responseSvc.Submit(r.Context(), req.FormID, req.RespondentEmail, req.Answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}

// Get handles GET /api/responses/{id}
func (h *ResponseHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	response, err := h.responseSvc.GetByID(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// ListByForm handles GET /api/responses/form/{formId}
func (h *ResponseHandler) ListByForm(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	responses, err := h.responseSvc.ListByFormID(r.Context(), mux.Vars(r)["formId"], userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, responses)
}

// Delete handles DELETE /api/responses/{id}. Removes the whole response,
// never a single answer.
func (h *ResponseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.responseSvc.Delete(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "response deleted"})
}
