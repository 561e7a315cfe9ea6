// Package cors answers cross-origin requests for the expense API.
package cors

import (
	"net/http"
	"strings"
)

const (
	allowMethods  = "GET, POST, PUT, DELETE, OPTIONS"
	allowHeaders  = "Accept, Content-Type, Content-Length, X-Request-ID, X-Requested-With"
	exposeHeaders = "X-Request-ID, Content-Disposition, Retry-After"
)

// Middleware sets CORS headers for allowed origins and short-circuits
// preflight requests.
type Middleware struct {
	any     bool
	origins map[string]bool
}

// New builds the middleware. An entry of "*" allows every origin.
func New(allowedOrigins []string) *Middleware {
	m := &Middleware{origins: make(map[string]bool)}
	for _, o := range allowedOrigins {
		o = strings.TrimSpace(o)
		if o == "*" {
			m.any = true
			continue
		}
		if o != "" {
			m.origins[strings.TrimRight(o, "/")] = true
		}
	}
	return m
}

// Allowed reports whether origin may call the API.
func (m *Middleware) Allowed(origin string) bool {
	return m.any || m.origins[origin]
}

func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		h := w.Header()

		switch {
		case origin == "":
			// Same-origin or non-browser caller.
		case m.origins[origin]:
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
		case m.any:
			h.Set("Access-Control-Allow-Origin", "*")
		}

		if origin != "" && m.Allowed(origin) {
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			h.Set("Access-Control-Expose-Headers", exposeHeaders)
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if origin != "" && !m.Allowed(origin) {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			h.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
