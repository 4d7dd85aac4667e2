package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	invoicedomain "github.com/fakturo/fakturo/internal/invoice/domain"
	orgdomain "github.com/fakturo/fakturo/internal/organization/domain"
	paymentdomain "github.com/fakturo/fakturo/internal/payment/domain"
	servicedomain "github.com/fakturo/fakturo/internal/paymentservice/domain"
)

type errorBody struct {
	Type    string                     `json:"type"`
	Message string                     `json:"message"`
	Errors  []invoicedomain.FieldError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

var errMalformedBody = errors.New("malformed_body")

// AbortWithError records err on the context; ErrorHandlingMiddleware turns it
// into the response.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandlingMiddleware maps domain errors to HTTP responses.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var validation *invoicedomain.ValidationErrors
		if errors.As(err, &validation) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: errorBody{
				Type:    "validation_error",
				Message: "one or more fields are invalid",
				Errors:  validation.Errors,
			}})
			return
		}

		status, kind := mapError(err)
		c.JSON(status, errorResponse{Error: errorBody{
			Type:    kind,
			Message: err.Error(),
		}})
	}
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, orgdomain.ErrNotFound),
		errors.Is(err, servicedomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrPaymentNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, paymentdomain.ErrProviderNotFound):
		return http.StatusBadRequest, "unsupported_provider"
	case errors.Is(err, servicedomain.ErrNoServiceConfigured):
		return http.StatusBadRequest, "no_payment_service_configured"
	case errors.Is(err, errMalformedBody),
		errors.Is(err, invoicedomain.ErrInvalidCurrency),
		errors.Is(err, invoicedomain.ErrInvalidCustomer),
		errors.Is(err, invoicedomain.ErrNoItems),
		errors.Is(err, orgdomain.ErrInvalidName),
		errors.Is(err, orgdomain.ErrInvalidSlug),
		errors.Is(err, servicedomain.ErrInvalidProvider),
		errors.Is(err, servicedomain.ErrInvalidConfig),
		errors.Is(err, paymentdomain.ErrInvalidConfig),
		errors.Is(err, paymentdomain.ErrInvalidPayload),
		errors.Is(err, paymentdomain.ErrInvalidEvent):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, paymentdomain.ErrInvalidSignature):
		return http.StatusUnauthorized, "invalid_signature"
	case errors.Is(err, orgdomain.ErrSlugTaken):
		return http.StatusConflict, "conflict"
	case errors.Is(err, paymentdomain.ErrProviderUnavailable):
		return http.StatusBadGateway, "provider_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
