package middleware

import (
	"mime"
	"net/http"

	"github.com/recipebook/recipebook-go/internal/apierror"
)

const jsonMediaType = "application/json"

// RequireJSON rejects bodied requests whose content type is not JSON. Methods
// without a request body pass through.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			contentType := r.Header.Get("Content-Type")
			mediaType, _, err := mime.ParseMediaType(contentType)
			if err != nil || mediaType != jsonMediaType {
				apierror.Write(w, apierror.UnsupportedMedia(contentType, jsonMediaType))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
