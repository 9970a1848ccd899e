package binder

import "net/http"

// Query binds fields tagged `query:"name"` from the URL query string.
// Slice fields accept repeated keys and comma separated values.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindValues(v, "query", r.URL.Query(), ErrInvalidQuery)
	}
}
