// Package binder fills request structs from JSON bodies, query strings and
// path parameters.
//
// Binders share one signature, func(*http.Request, any) error, and are meant
// to be chained with handler.WithBinders:
//
//	type historyRequest struct {
//		ID    uuid.UUID `path:"id"`
//		Limit int       `query:"limit"`
//	}
//
//	r.Get("/history/{id}", handler.Wrap(h,
//		handler.WithBinders[historyRequest](binder.Path(chi.URLParam), binder.Query()),
//	))
//
// Struct fields may be strings, booleans, signed and unsigned integers,
// floats, durations, types implementing encoding.TextUnmarshaler, pointers to
// any of these, and slices of them for query parameters.
package binder
