package authz

import (
	"log/slog"
	"strconv"
)

// Fielder exposes named attributes of a domain record. Typed models
// implement it with a switch over their scoping columns; loose rows use
// the Record map type.
type Fielder interface {
	Field(name string) (any, bool)
}

// Record adapts a loose row (e.g. a decoded JSON object or a pgx map
// row) to the Fielder interface.
type Record map[string]any

// Field returns the named attribute.
func (r Record) Field(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

// Candidate field names tried in order when the call site does not
// declare its own precedence. Entities across the schema stamp the owner
// and store under different column names.
var (
	DefaultOwnerFields = []string{
		"vendedor_id",
		"created_by",
		"responsavel_id",
		"entregador_email",
		"usuario_id",
		"user_id",
	}
	DefaultStoreFields = []string{
		"loja_id",
		"store_id",
		"filial_id",
		"loja",
	}
)

// FilterOptions declares per-call-site field precedence. Zero value means
// the default fallback lists.
type FilterOptions struct {
	OwnerFields []string
	StoreFields []string
}

// FilterByScope returns the subset of records the user is entitled to
// see under their resolved scope.
//
// Fail-closed rules: a nil user yields an empty result, and a
// store-scoped user with no assigned store sees nothing (logged as a
// configuration anomaly, never raised). Scope ALL returns the input
// unchanged. The candidate-field search stops at the first field whose
// value matches; a record matching under no candidate is excluded.
func FilterByScope[T Fielder](p *Policy, records []T, user *User, opts FilterOptions) []T {
	if user == nil || records == nil {
		return []T{}
	}
	switch p.ScopeOf(user) {
	case ScopeAll:
		return records
	case ScopeStore:
		if user.Store == "" {
			if p.logger != nil {
				p.logger.Warn("store-scoped user without store assignment",
					slog.String("user_id", user.ID),
					slog.String("role", user.Role))
			}
			return []T{}
		}
		fields := opts.StoreFields
		if len(fields) == 0 {
			fields = DefaultStoreFields
		}
		return keepMatching(records, fields, user.Store)
	default:
		fields := opts.OwnerFields
		if len(fields) == 0 {
			fields = DefaultOwnerFields
		}
		return keepMatching(records, fields, user.ID, user.Email)
	}
}

func keepMatching[T Fielder](records []T, fields []string, targets ...string) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if matchesAny(rec, fields, targets) {
			out = append(out, rec)
		}
	}
	return out
}

func matchesAny(rec Fielder, fields []string, targets []string) bool {
	for _, field := range fields {
		v, ok := rec.Field(field)
		if !ok {
			continue
		}
		s, ok := stringifyField(v)
		if !ok {
			continue
		}
		for _, target := range targets {
			if target != "" && s == target {
				return true
			}
		}
	}
	return false
}

// stringifyField renders a record attribute for comparison against the
// user's identifiers. Records stamp owners as either numeric IDs or login
// emails depending on the entry path, so both integer and string shapes
// are accepted.
func stringifyField(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, x != ""
	case int64:
		return strconv.FormatInt(x, 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int:
		return strconv.Itoa(x), true
	case float64:
		// JSON numbers decode as float64.
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		return "", false
	}
}
