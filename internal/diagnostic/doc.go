// Package diagnostic provides structured errors and warnings for the
// variant generator.
//
// Consistency violations are collected rather than returned one at a time so
// that a single run reports every problem in a canonical definition:
//   - Rules that reference unregistered variants
//   - Conflicting rules for the same field and variant
//   - Output type name collisions
package diagnostic
