// Package handler turns typed request handlers into http.HandlerFunc values.
//
// A HandlerFunc receives a Context and a request struct filled by binders,
// and returns a Response that renders itself:
//
//	type decodeRequest struct {
//		Token string `json:"token"`
//	}
//
//	h := func(ctx handler.Context, req decodeRequest) handler.Response {
//		decoded, err := svc.Decode(req.Token)
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.JSON(decoded)
//	}
//
//	r.Post("/tokens/decode", handler.Wrap(h,
//		handler.WithBinders[decodeRequest](binder.JSON()),
//		handler.WithErrorHandler[decodeRequest](errorHandler),
//	))
//
// Binding failures, render failures and Error responses all reach the
// configured ErrorHandler. NewErrorHandler writes {"error":key,"message":text}
// bodies and logs the failure with the request ID.
package handler
