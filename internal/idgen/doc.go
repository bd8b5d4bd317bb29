// Package idgen wraps the UUID generator so that it can be stubbed in tests.
// Identifiers are opaque strings used for decision requests and temporary
// record names.
package idgen
