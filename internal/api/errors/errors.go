// Пакет errors - ответы об ошибках dashboard API.
// Тело ответа: {"error": {"code": "...", "message": "..."}}.
package errors

import (
	"encoding/json"
	"net/http"
)

// Машиночитаемые коды из components/schemas/Error контракта.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
)

// APIError - ошибка, готовая к отправке клиенту.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// envelope оборачивает ошибку в поле "error".
type envelope struct {
	Error *APIError `json:"error"`
}

// Write отправляет ошибку клиенту.
func (e *APIError) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(envelope{Error: e})
}

// New создаёт ошибку с HTTP-статусом и кодом.
func New(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// WriteError отправляет ошибку, собранную из статуса, кода и текста.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	New(status, code, message).Write(w)
}

// ValidationError отвечает 400.
func ValidationError(w http.ResponseWriter, message string) {
	New(http.StatusBadRequest, CodeValidationError, message).Write(w)
}

// NotFound отвечает 404.
func NotFound(w http.ResponseWriter, message string) {
	New(http.StatusNotFound, CodeNotFound, message).Write(w)
}

// InternalError отвечает 500.
func InternalError(w http.ResponseWriter, message string) {
	New(http.StatusInternalServerError, CodeInternalError, message).Write(w)
}
