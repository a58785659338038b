package transport

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"go.uber.org/zap"
)

// respondServiceError maps service and repository errors onto HTTP statuses.
// Anything unrecognised is logged and reported as a 500 with failMessage.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, failMessage string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		violations := make([]middleware.ValidationError, 0, len(verr.Violations))
		for _, v := range verr.Violations {
			violations = append(violations, middleware.ValidationError{Field: v.Field, Message: v.Message})
		}
		middleware.RespondWithValidationErrors(w, violations)
	case errors.Is(err, service.ErrInsufficientStock):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrCategoryAlreadyExists),
		errors.Is(err, repository.ErrAccountAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		middleware.RespondWithError(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrOrderNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		logger.Error(failMessage, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, failMessage)
	}
}

// decode reads and validates a JSON body, answering 400 itself on failure
func decode(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// Guards are the middleware chains handlers mount their protected routes behind
type Guards struct {
	Admin     func(http.Handler) http.Handler
	Customer  func(http.Handler) http.Handler
	LoginRate func(http.Handler) http.Handler
}

func passThrough(next http.Handler) http.Handler { return next }

func (g Guards) withDefaults() Guards {
	if g.Admin == nil {
		g.Admin = passThrough
	}
	if g.Customer == nil {
		g.Customer = passThrough
	}
	if g.LoginRate == nil {
		g.LoginRate = passThrough
	}
	return g
}
