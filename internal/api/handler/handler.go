package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const (
	CodeInvalidRequest = "invalid_request"

	maxBodyBytes = 1 << 20
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeAndValidate body 解析失敗或欄位驗證失敗都回傳 Validation
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation(CodeInvalidRequest, "request body is required")
		}
		return apperr.Wrap(apperr.KindValidation, CodeInvalidRequest, "malformed request body", err)
	}
	if err := validate.Struct(dst); err != nil {
		return apperr.Wrap(apperr.KindValidation, CodeInvalidRequest, validationMessage(err), err)
	}
	return nil
}

func validationMessage(err error) string {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		return "invalid field " + ves[0].Field() + " (" + ves[0].Tag() + ")"
	}
	return "invalid request"
}

func pathInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || v <= 0 {
		return 0, apperr.Validation(CodeInvalidRequest, "invalid path parameter "+name)
	}
	return v, nil
}
