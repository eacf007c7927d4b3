package testutil

import (
	"net/http"
	"time"

	"baseapi/pkg/requestcontext"
)

// WithFixedTime pins the request clock the way the requesttime middleware would.
func WithFixedTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
