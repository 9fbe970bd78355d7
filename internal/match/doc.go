// Package match ranks names by edit distance to produce "did you mean"
// suggestions for unknown type, unit and format names.
package match
