// Package requesttime captures one "now" per HTTP request.
// Handlers and services read it through requestcontext.Now, so every age
// computed while serving a request (including every row of a roster import)
// uses the same reference date.
package requesttime

import (
	"net/http"
	"time"

	dErrors "carehub/pkg/domain-errors"
	"carehub/pkg/platform/httputil"
	"carehub/pkg/requestcontext"
)

// HeaderAsOf lets a client pin the reference date, e.g. to an enrolment
// cut-off. The value is a calendar date (YYYY-MM-DD) in the server's zone.
const HeaderAsOf = "X-As-Of"

// Middleware stores the reference time in the context: the X-As-Of date when
// given, otherwise the request start time. A malformed X-As-Of is a 400.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		if raw := r.Header.Get(HeaderAsOf); raw != "" {
			asOf, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
			if err != nil {
				httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "%s must be a YYYY-MM-DD date, got %q", HeaderAsOf, raw))
				return
			}
			now = asOf
		}
		ctx := requestcontext.WithTime(r.Context(), now)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
