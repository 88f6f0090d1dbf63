package response

import (
	"encoding/json"
	"net/http"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/apperr"
)

type Response struct {
	Data any `json:"data"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ResponseError struct {
	Error ErrorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func SuccessJSON(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Data: data})
}

// ErrorJSON 依 apperr.Kind 決定 status code，非 apperr 的錯誤一律視為 500 且不外洩內容
func ErrorJSON(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	WriteError(w, apperr.HTTPStatus(kind), apperr.CodeOf(err), apperr.MessageOf(err))
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ResponseError{Error: ErrorBody{Code: code, Message: message}})
}
