package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/justin362/distribution-matrix-v2/pkg/config"
	"github.com/justin362/distribution-matrix-v2/pkg/utils"
)

// Recovery turns panics into 500 JSON errors instead of dropped
// connections. The stack is always printed; the response only carries it
// in development.
func Recovery(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					stack := debug.Stack()
					fmt.Printf("❌ PANIC: %v\n%s\n", err, stack)

					if cfg.IsDevelopment() {
						utils.WriteInternalServerErrorResponse(w, fmt.Sprintf("Internal server error: %v", err))
					} else {
						utils.WriteInternalServerErrorResponse(w, "Internal server error occurred")
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
