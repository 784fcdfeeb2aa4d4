package response

import (
	"net/http"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// Response unified API response structure
type Response struct {
	Success    bool                    `json:"success"`
	Message    string                  `json:"message,omitempty"` // User-friendly message
	Data       any                     `json:"data,omitempty"`
	Pagination *entity.Pagination      `json:"pagination,omitempty"`
	Error      *domainerrors.ErrorInfo `json:"error,omitempty"`
}

// Success successful response
func Success(c echo.Context, statusCode int, data any, message string) error {
	if message == "" {
		message = "Success"
	}

	return c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// OK is Success with 200.
func OK(c echo.Context, data any, message string) error {
	return Success(c, http.StatusOK, data, message)
}

// Created is Success with 201.
func Created(c echo.Context, data any, message string) error {
	return Success(c, http.StatusCreated, data, message)
}

// Page writes one page of a list together with its pagination.
func Page[T any](c echo.Context, page *entity.Page[T], message string) error {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	pagination := page.Pagination

	return c.JSON(http.StatusOK, Response{
		Success:    true,
		Message:    message,
		Data:       items,
		Pagination: &pagination,
	})
}

// Error error response
func Error(c echo.Context, statusCode int, message string, info *domainerrors.ErrorInfo) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Error:   info,
	})
}
