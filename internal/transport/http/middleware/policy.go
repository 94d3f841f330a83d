package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Route declares one endpoint and who may call it. Non-public routes require a valid token;
// Roles, when set, restricts them further.
type Route struct {
	Method  string
	Pattern string
	Public  bool
	Roles   []string
	Handler http.HandlerFunc
}

// Mount registers every route with the gate and role check its policy asks for.
func Mount(r chi.Router, gate *Gate, routes []Route) {
	for _, route := range routes {
		var handler http.Handler = route.Handler
		if !route.Public {
			if len(route.Roles) > 0 {
				handler = RequireRole(route.Roles...)(handler)
			}
			handler = gate.RequireAuth(handler)
		}
		r.Method(route.Method, route.Pattern, handler)
	}
}
