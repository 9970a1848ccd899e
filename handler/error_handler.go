package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/tokenkit/binder"
	"github.com/dmitrymomot/tokenkit/pkg/logger"
	"github.com/dmitrymomot/tokenkit/pkg/requestid"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorMapper translates a domain error into an HTTPError.
type ErrorMapper func(err error) (HTTPError, bool)

// MapError maps any error matching target to he, keeping the error text as
// the message.
func MapError(target error, he HTTPError) ErrorMapper {
	return func(err error) (HTTPError, bool) {
		if errors.Is(err, target) {
			return he.Wrap(err), true
		}
		return HTTPError{}, false
	}
}

// NewErrorHandler returns an ErrorHandler rendering ErrorBody responses.
// Mappers are consulted in order after HTTPError and binder errors; anything
// unmatched becomes a 500 with a generic message.
func NewErrorHandler(log *slog.Logger, mappers ...ErrorMapper) ErrorHandler {
	if log == nil {
		log = logger.Discard()
	}
	log = log.With(logger.Component("error_handler"))

	return func(ctx Context, err error) {
		he := classify(err, mappers)
		r := ctx.Request()

		level := slog.LevelWarn
		if he.Code >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(r.Context(), level, "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status", he.Code),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		msg := he.Message
		if msg == "" {
			msg = http.StatusText(he.Code)
		}
		resp := JSONWithStatus(he.Code, ErrorBody{Error: he.Key, Message: msg})
		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response", logger.Error(renderErr))
		}
	}
}

func classify(err error, mappers []ErrorMapper) HTTPError {
	var he HTTPError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, binder.ErrBodyTooLarge):
		return ErrRequestTooLarge.Wrap(err)
	case errors.Is(err, binder.ErrMissingContentType), errors.Is(err, binder.ErrUnsupportedMediaType):
		return ErrUnsupportedMediaType.Wrap(err)
	case errors.Is(err, binder.ErrInvalidJSON),
		errors.Is(err, binder.ErrInvalidQuery),
		errors.Is(err, binder.ErrInvalidPath):
		return ErrBadRequest.Wrap(err)
	}

	for _, m := range mappers {
		if he, ok := m(err); ok {
			return he
		}
	}

	return ErrInternalServerError.WithMessage("an error occurred processing your request")
}
