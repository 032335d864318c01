package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"formforge/internal/service"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeServiceError maps a service failure onto the HTTP taxonomy:
// validation 400, not found 404, bad credentials or token 401, non-owner 403,
// duplicate email 409, everything else 500 with the underlying message.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case service.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case err == service.ErrNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case err == service.ErrForbidden:
		writeError(w, http.StatusForbidden, err.Error())
	case err == service.ErrInvalidCredentials, err == service.ErrInvalidToken:
		writeError(w, http.StatusUnauthorized, err.Error())
	case err == service.ErrEmailTaken:
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}
