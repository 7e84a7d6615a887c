package handler

import (
	"github.com/labstack/echo/v4"
)

// apiResponse is the success envelope shared by every endpoint.
type apiResponse struct {
	Status  int    `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// errorResponse documents the error envelope rendered by the HTTP error
// handler. It is only referenced from swag annotations.
type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func respond(c echo.Context, code int, data any, message string) error {
	if data == nil {
		data = struct{}{}
	}
	return c.JSON(code, apiResponse{
		Status:  code,
		Data:    data,
		Message: message,
		Success: code < 400,
	})
}
