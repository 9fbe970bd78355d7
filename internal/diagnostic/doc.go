// Package diagnostic provides structured findings shared by route validation
// and the bindable type index.
//
// Findings are grouped by severity. A Diagnostics value with no errors is
// valid; warnings and infos never fail an operation on their own.
package diagnostic
