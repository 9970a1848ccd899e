package binder

import (
	"fmt"
	"net/http"
	"net/url"
)

// Path binds fields tagged `path:"name"` using extractor, usually chi.URLParam.
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor is nil", ErrInvalidPath)
		}

		names, err := taggedNames(v, "path")
		if err != nil {
			return err
		}

		values := make(url.Values, len(names))
		for _, name := range names {
			if value := extractor(r, name); value != "" {
				values.Set(name, value)
			}
		}
		return bindValues(v, "path", values, ErrInvalidPath)
	}
}
