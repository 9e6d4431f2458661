package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

// APIResponse is the JSON envelope of every non-file response.
type APIResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func dataResponse(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, APIResponse{
		Status:  status,
		Message: http.StatusText(status),
		Data:    data,
	})
}

func successResponse(c echo.Context, data interface{}) error {
	return dataResponse(c, http.StatusOK, data)
}

func badRequestResponse(c echo.Context, data interface{}) error {
	return dataResponse(c, http.StatusBadRequest, data)
}

// errorResponse maps pipeline errors onto HTTP statuses.
func errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrEmptyInput):
		return dataResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrMalformedInput):
		return dataResponse(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, errNoResults):
		return dataResponse(c, http.StatusUnprocessableEntity, err.Error())
	default:
		return dataResponse(c, http.StatusBadGateway, err.Error())
	}
}
