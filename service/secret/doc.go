// Package secret resolves secret references of the form
//
//	hibernator+secret://<provider>/<path>[?key=<k>]
//
// into concrete values. Any other string passes through unchanged.
// Resolution never fails: unknown providers, malformed references and
// provider errors all degrade to an empty value, which keeps a launch going
// with a blank variable instead of blocking it. Only the reference is ever
// logged, never the resolved value.
package secret
