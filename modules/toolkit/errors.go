package toolkit

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/tokenkit/handler"
	"github.com/dmitrymomot/tokenkit/pkg/codec"
	"github.com/dmitrymomot/tokenkit/pkg/jwt"
	"github.com/dmitrymomot/tokenkit/pkg/qrcode"
	"github.com/dmitrymomot/tokenkit/svc/history"
	"github.com/dmitrymomot/tokenkit/svc/tokens"
)

var (
	errInvalidInput   = handler.NewHTTPError(http.StatusUnprocessableEntity, "invalid_input")
	errUnknownScheme  = handler.NewHTTPError(http.StatusNotFound, "unknown_scheme")
	errMissingSecret  = handler.NewHTTPError(http.StatusBadRequest, "missing_secret")
	errMissingToken   = handler.NewHTTPError(http.StatusBadRequest, "missing_token").WithMessage("token is required")
	errMalformedToken = handler.NewHTTPError(http.StatusUnprocessableEntity, "malformed_token")
	errInvalidPayload = handler.NewHTTPError(http.StatusUnprocessableEntity, "invalid_payload")
	errInvalidExpiry  = handler.NewHTTPError(http.StatusBadRequest, "invalid_expiry").WithMessage("expires_in must be between 0 and 384307168 seconds")
	errRecordNotFound = handler.NewHTTPError(http.StatusNotFound, "record_not_found")
	errQRCode         = handler.NewHTTPError(http.StatusUnprocessableEntity, "qr_code_unavailable")

	errRateLimited            = handler.NewHTTPError(http.StatusTooManyRequests, "rate_limited").WithMessage("too many requests, retry later")
	errRateLimiterUnavailable = handler.NewHTTPError(http.StatusServiceUnavailable, "rate_limiter_unavailable").WithMessage("rate limiter unavailable")
)

func errorMappers() []handler.ErrorMapper {
	return []handler.ErrorMapper{
		handler.MapError(codec.ErrUnknownScheme, errUnknownScheme),
		func(err error) (handler.HTTPError, bool) {
			for _, target := range []error{codec.ErrInvalidBase64, codec.ErrInvalidBase64URL, codec.ErrInvalidBase32, codec.ErrInvalidHex} {
				if errors.Is(err, target) {
					return errInvalidInput.Wrap(target), true
				}
			}
			return handler.HTTPError{}, false
		},
		handler.MapError(tokens.ErrMissingSecret, errMissingSecret),
		handler.MapError(tokens.ErrMalformedToken, errMalformedToken),
		handler.MapError(jwt.ErrInvalidPayload, errInvalidPayload),
		handler.MapError(history.ErrNotFound, errRecordNotFound),
		handler.MapError(qrcode.ErrContentTooLong, errQRCode),
		handler.MapError(qrcode.ErrEmptyContent, errQRCode),
	}
}
