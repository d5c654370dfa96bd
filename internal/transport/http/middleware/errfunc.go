package middleware

import "net/http"

// WriteErrFunc renders an error response; response.WriteError in production.
type WriteErrFunc func(w http.ResponseWriter, r *http.Request, err error)
