package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/ExplorerSKD/BookMyShows/internal/repository"
	"github.com/ExplorerSKD/BookMyShows/internal/service"
)

// Validator adapts go-playground/validator to Echo's Validator
// interface.  Wire it once with e.Validator = handler.NewValidator().
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// bindAndValidate decodes the request body into req and runs the
// struct validation tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return c.Validate(req)
}

// writeServiceError translates domain errors into HTTP responses.
// Seat conflicts and expired locks are client errors: the client must
// refresh the seat map and try again.
func writeServiceError(c echo.Context, err error) error {
	var (
		validation *service.ValidationError
		conflict   *service.SeatConflictError
		status     *service.InvalidTicketStatusError
	)
	switch {
	case errors.As(err, &validation):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": validation.Msg})
	case errors.As(err, &conflict):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": conflict.Error(), "seat": conflict.Seat})
	case errors.As(err, &status):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": status.Error()})
	case errors.Is(err, service.ErrLockMismatch):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": "forbidden"})
	case errors.Is(err, repository.ErrShowNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": err.Error()})
	case errors.Is(err, repository.ErrAmbiguousCode):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": err.Error()})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "internal error"})
	}
}
