// Package check cross-validates a canonical struct's rules against its
// variant registry.
//
// Every violation is collected so one run reports all of them. The
// transform stage runs only when the result has no errors.
package check
