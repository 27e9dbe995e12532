package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		switch {
		case IsInputError(err):
			_ = c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
			return
		case errors.Is(err, ErrEmptyAggregate):
			_ = c.JSON(http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
			return
		case errors.Is(err, ErrExternalService):
			slog.Error("External service failed", "error", err)
			_ = c.JSON(http.StatusBadGateway, errorBody{Error: "external service failure"})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, errorBody{Error: msg})
			return
		}

		slog.Error("Unhandled error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}
