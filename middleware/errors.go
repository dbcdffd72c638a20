package middleware

import (
	"errors"
	"net/http"

	"repairshop/common"
	"repairshop/internal/form"
)

// ErrorResponse maps a service error to a response. Unknown errors are
// infrastructure failures and become 500s.
func ErrorResponse(err error) Response {
	var ve *form.ValidationError
	switch {
	case errors.As(err, &ve):
		return Response{Code: http.StatusUnprocessableEntity, Message: "Validation failed", Data: ve, Error: err}
	case errors.Is(err, common.ErrNotFound):
		return Response{Code: http.StatusNotFound, Message: "Not found", Error: err}
	case errors.Is(err, common.ErrPreconditionFailed):
		return Response{Code: http.StatusPreconditionFailed, Message: "Precondition failed", Error: err}
	case errors.Is(err, common.ErrForbidden):
		return Response{Code: http.StatusForbidden, Message: "Forbidden", Error: err}
	case errors.Is(err, common.ErrUnauthenticated):
		return Response{Code: http.StatusUnauthorized, Message: "Unauthenticated", Error: err}
	case errors.Is(err, common.ErrBadRequest), errors.Is(err, form.ErrUnknownField):
		return Response{Code: http.StatusBadRequest, Message: "Bad request", Error: err}
	default:
		return Response{Code: http.StatusInternalServerError, Message: "Internal server error", Error: err}
	}
}

// ViewResponse sends a form page view with the status its kind implies.
func ViewResponse(view common.View) Response {
	code := http.StatusOK
	switch view.Kind {
	case common.ViewNotFound:
		code = http.StatusNotFound
	case common.ViewPreconditionFailed:
		code = http.StatusPreconditionFailed
	case common.ViewBadRequest:
		code = http.StatusBadRequest
	}
	return Response{Code: code, Message: view.Title, Data: view}
}
