// Package clientip resolves the client address of an HTTP request.
//
// Forwarding headers are only consulted when the service runs behind a proxy
// that sets them; otherwise any client could choose its own address. With
// trustProxy enabled the lookup order is X-Forwarded-For (first valid entry)
// then X-Real-IP, falling back to RemoteAddr.
//
//	r.Use(clientip.Middleware(cfg.TrustProxy))
//	ip := clientip.FromContext(r.Context())
package clientip
