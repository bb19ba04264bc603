package storefrontserver

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	accountsapp "github.com/Apurer/storefront-api/internal/domains/accounts/application"
	accountsports "github.com/Apurer/storefront-api/internal/domains/accounts/ports"
	catalogapp "github.com/Apurer/storefront-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/storefront-api/internal/domains/catalog/ports"
	ordersapp "github.com/Apurer/storefront-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	reportsdomain "github.com/Apurer/storefront-api/internal/domains/reports/domain"
	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

var (
	responderMu sync.RWMutex
	responder   = apierrors.NewResponder("", catalogProblem, accountProblem, orderProblem)
)

// UseLogger makes the responder log errors that map to a generic 500.
func UseLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	responderMu.Lock()
	defer responderMu.Unlock()
	responder = responder.WithLogger(logger)
}

func currentResponder() *apierrors.Responder {
	responderMu.RLock()
	defer responderMu.RUnlock()
	return responder
}

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	currentResponder().Respond(c, problem)
}

// respondError maps err through the domain mappers.
func respondError(c *gin.Context, err error) {
	currentResponder().RespondError(c, err)
}

// respondBadRequest reports a malformed request body or parameter.
func respondBadRequest(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

func catalogProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, catalogports.ErrInUse):
		return apierrors.ErrConflict.WithDetail("product is referenced by existing orders"), true
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func accountProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, accountsapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, accountsports.ErrDuplicate):
		return apierrors.ErrConflict.WithDetail("a user with this email or phone already exists"), true
	case errors.Is(err, accountsapp.ErrAuthentication):
		return apierrors.ErrUnauthorized.WithDetail("invalid credentials"), true
	case errors.Is(err, accountsapp.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail("account is awaiting verification"), true
	case errors.Is(err, accountsports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func orderProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersapp.ErrUnauthenticated):
		return apierrors.ErrUnauthorized.WithDetail("unauthorized"), true
	case errors.Is(err, ordersapp.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrInsufficientStock):
		return apierrors.ErrInsufficientStock.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidInput), errors.Is(err, reportsdomain.ErrInvalidRange):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, ordersports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, reportsdomain.ErrNoRows):
		return apierrors.FromStatus(http.StatusNotFound).WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}
