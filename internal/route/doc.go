// Package route loads integration route definitions from YAML and checks
// them with a chain of validators.
//
// A CompoundRouteValidator evaluates its checks in registration order and
// stops at the first failure, reporting the index and name of the check that
// rejected the route.
package route
