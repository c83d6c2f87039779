package middlewares

import "net/http"

// MethodOverride lets HTML forms issue PUT and DELETE requests by
// posting a _method field, the way method-override does for Express
// apps. Only POST requests are rewritten.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			// FormValue parses the body for urlencoded forms; for
			// multipart uploads the override travels in the query
			// string so the body is left untouched for the handler.
			override := r.URL.Query().Get("_method")
			if override == "" && r.Header.Get("Content-Type") == "application/x-www-form-urlencoded" {
				override = r.FormValue("_method")
			}
			switch override {
			case http.MethodPut, http.MethodDelete:
				r.Method = override
			}
		}
		next.ServeHTTP(w, r)
	})
}
