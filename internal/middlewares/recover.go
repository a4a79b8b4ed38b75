package middlewares

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/saulo-duarte/viva-lambda/internal/config"
)

// Recoverer turns a panic in a handler into a 500 with a {"detail": ...}
// body, matching the error shape handlers write themselves.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			config.WithContext(r.Context()).
				WithField("stack", string(debug.Stack())).
				Errorf("Recovered from panic: %v", rec)
			config.JSONError(w, http.StatusInternalServerError, fmt.Sprint(rec))
		}()

		next.ServeHTTP(w, r)
	})
}
