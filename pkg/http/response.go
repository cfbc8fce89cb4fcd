package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// SuccessResponse writes the payload as-is with status 200.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// DetailResponse writes an error payload of the form {"detail": ...}.
func DetailResponse(c echo.Context, status int, detail interface{}) error {
	return c.JSON(status, DetailPayload{Detail: detail})
}

// BadRequestResponse writes a 400 with validation details.
func BadRequestResponse(c echo.Context, detail interface{}) error {
	return DetailResponse(c, http.StatusBadRequest, detail)
}

// NotFoundResponse writes a 404 with a descriptive message.
func NotFoundResponse(c echo.Context, message string) error {
	return DetailResponse(c, http.StatusNotFound, message)
}

// InternalErrorResponse writes a 500 carrying the error's text. Storage
// failures surface verbatim to the caller rather than being swallowed.
func InternalErrorResponse(c echo.Context, err error) error {
	return DetailResponse(c, http.StatusInternalServerError, err.Error())
}

// AppErrorResponse maps an error to its HTTP status: AppError keeps its own
// status, anything else becomes a 500 with the error text.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return DetailResponse(c, appErr.Status, appErr.Message)
	}
	return InternalErrorResponse(c, err)
}
