package middleware

import "net/http"

// Chain folds the service middleware into one, first argument outermost.
// The router applies the stack as
//
//	Chain(Recovery, RequestID, OpenTelemetry, Logging, Timeout)(routes)
//
// so a panic in any later layer, including a timed-out follow-up
// transaction, is still recovered and logged with its request ID.
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := next
		for i := range middlewares {
			wrapped = middlewares[len(middlewares)-1-i](wrapped)
		}
		return wrapped
	}
}
