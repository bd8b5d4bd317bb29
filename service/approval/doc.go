// Package approval defines the contract with the external approval core:
// listing executions and asking for a human decision. The http subpackage
// talks to a remote core, the memory subpackage is a self-contained core
// used by tests and the local demo.
package approval
