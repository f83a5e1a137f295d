package middleware

import (
	"net/http"
	"net/url"
)

// TokenQueryParam is the query parameter websocket clients send their JWT in.
const TokenQueryParam = "jwt"

// RedactToken masks the jwt query parameter in r.RequestURI so access logs
// never carry tokens. r.URL is left intact for the verifier.
func RedactToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Has(TokenQueryParam) {
			q.Set(TokenQueryParam, "REDACTED")
			u := url.URL{Path: r.URL.Path, RawPath: r.URL.RawPath, RawQuery: q.Encode()}
			r2 := r.Clone(r.Context())
			r2.RequestURI = u.RequestURI()
			r = r2
		}
		next.ServeHTTP(w, r)
	})
}
