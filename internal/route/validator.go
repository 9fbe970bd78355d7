package route

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"

	"bindkit/internal/diagnostic"
)

// Predicate tests a route definition.
type Predicate func(*Definition) bool

// Check is a named predicate.
type Check struct {
	Name      string
	Predicate Predicate
}

// Result is the outcome of validating one route.
type Result struct {
	Valid bool
	// FailedIndex is the position of the failing check, -1 when valid.
	FailedIndex int
	// Check is the name of the failing check.
	Check string
}

// Passed is the result of a route that satisfied every check.
var Passed = Result{Valid: true, FailedIndex: -1}

// RouteValidator validates route definitions.
type RouteValidator interface {
	Validate(def *Definition) Result
}

// CompoundRouteValidator evaluates checks in order, short-circuiting on the
// first failure. It is safe for concurrent use.
type CompoundRouteValidator struct {
	mu     sync.RWMutex
	checks []Check
}

// NewCompound returns a validator over checks.
func NewCompound(checks ...Check) *CompoundRouteValidator {
	return &CompoundRouteValidator{checks: slices.Clone(checks)}
}

// Add appends checks to the chain.
func (v *CompoundRouteValidator) Add(checks ...Check) *CompoundRouteValidator {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.checks = append(v.checks, checks...)

	return v
}

// Len returns the number of checks.
func (v *CompoundRouteValidator) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return len(v.checks)
}

// Validate runs the checks against def. A nil definition fails the first
// check; an empty chain accepts everything.
func (v *CompoundRouteValidator) Validate(def *Definition) Result {
	v.mu.RLock()
	checks := v.checks
	v.mu.RUnlock()

	for i, c := range checks {
		if def == nil || c.Predicate == nil || !c.Predicate(def) {
			return Result{FailedIndex: i, Check: c.Name}
		}
	}

	return Passed
}

// HasID requires a non-blank route id.
func HasID() Check {
	return Check{Name: "hasId", Predicate: func(d *Definition) bool {
		return strings.TrimSpace(d.ID) != ""
	}}
}

// HasInput requires a from endpoint.
func HasInput() Check {
	return Check{Name: "hasInput", Predicate: func(d *Definition) bool {
		return strings.TrimSpace(d.From) != ""
	}}
}

// HasOutput requires at least one "to" step.
func HasOutput() Check {
	return Check{Name: "hasOutput", Predicate: func(d *Definition) bool {
		return len(d.Outputs()) > 0
	}}
}

// InputScheme restricts the from endpoint to the given URI schemes.
func InputScheme(schemes ...string) Check {
	return Check{Name: "inputScheme", Predicate: func(d *Definition) bool {
		scheme, ok := schemeOf(d.From)
		if !ok {
			return false
		}

		return slices.ContainsFunc(schemes, func(s string) bool {
			return strings.EqualFold(s, scheme)
		})
	}}
}

// WellFormedURIs requires every endpoint to be a URI with a scheme.
func WellFormedURIs() Check {
	return Check{Name: "wellFormedUris", Predicate: func(d *Definition) bool {
		if _, ok := schemeOf(d.From); !ok {
			return false
		}

		for _, out := range d.Outputs() {
			if _, ok := schemeOf(out); !ok {
				return false
			}
		}

		return true
	}}
}

// MaxSteps limits the number of steps of a route.
func MaxSteps(n int) Check {
	return Check{Name: fmt.Sprintf("maxSteps(%d)", n), Predicate: func(d *Definition) bool {
		return len(d.Steps) <= n
	}}
}

// DefaultValidator chains HasID, HasInput, HasOutput and WellFormedURIs.
func DefaultValidator() *CompoundRouteValidator {
	return NewCompound(HasID(), HasInput(), HasOutput(), WellFormedURIs())
}

func schemeOf(uri string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil || u.Scheme == "" {
		return "", false
	}

	return u.Scheme, true
}

// ValidateAll validates defs with v and reports failed routes and
// duplicated ids.
func ValidateAll(defs []Definition, v RouteValidator) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	seen := make(map[string]int, len(defs))

	for i := range defs {
		def := &defs[i]

		subject := def.ID
		if subject == "" {
			subject = fmt.Sprintf("#%d", i)
		}

		if res := v.Validate(def); !res.Valid {
			diags.AddError("ROUTE_CHECK_FAILED",
				fmt.Sprintf("check %d (%s) rejected the route", res.FailedIndex, res.Check),
				subject, "")
		}

		if def.ID == "" {
			continue
		}

		if first, dup := seen[def.ID]; dup {
			diags.AddError("ROUTE_DUPLICATE_ID",
				fmt.Sprintf("route id already used by route #%d", first),
				subject, "")

			continue
		}

		seen[def.ID] = i

		if !def.AutoStartup {
			diags.AddInfo("ROUTE_MANUAL_START", "route does not start automatically", subject, "")
		}
	}

	return diags
}
