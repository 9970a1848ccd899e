// Package toolkit is the HTTP API for the token toolkit: encoding tools,
// token generation, decoding and verification, and the token history.
//
//	r := chi.NewRouter()
//	r.Mount("/v1", toolkit.Router(tokenSvc,
//		toolkit.WithLogger(log),
//		toolkit.WithAllowedOrigins("https://tools.example.com"),
//	))
//
// Errors are JSON objects of the form {"error": key, "message": text}.
package toolkit
