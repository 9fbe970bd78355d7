package common

// UnknownStr is the String() rendering of enum values outside their declared range.
const UnknownStr = "unknown"
