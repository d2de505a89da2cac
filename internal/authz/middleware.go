package authz

import (
	"log/slog"
	"net/http"
)

// DecisionRecorder receives the outcome of each middleware-level
// authorization decision, typically a metrics counter.
type DecisionRecorder interface {
	RecordDecision(capability string, allowed bool)
}

// Middleware wires capability checks into HTTP handlers.
type Middleware struct {
	Policy  *Policy
	Logger  *slog.Logger
	Metrics DecisionRecorder
}

// Require ensures the current user holds at least one of the given
// capabilities. An unauthenticated request is denied with 403; denial is
// expressed as a status code, never as an internal error.
func (m Middleware) Require(caps ...Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(caps) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			user := UserFromContext(r.Context())
			for _, c := range caps {
				if m.Policy.Can(user, c) {
					m.record(c, true)
					next.ServeHTTP(w, r)
					return
				}
			}
			m.record(caps[0], false)
			if m.Logger != nil && user != nil {
				m.Logger.Info("capability denied",
					slog.String("user_id", user.ID),
					slog.String("role", user.Role),
					slog.String("capability", string(caps[0])))
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

func (m Middleware) record(c Capability, allowed bool) {
	if m.Metrics != nil {
		m.Metrics.RecordDecision(string(c), allowed)
	}
}
