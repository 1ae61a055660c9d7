// Package transform derives variant struct definitions from a canonical
// struct and its variant registry.
//
// Derivation is pure: the same canonical struct and registry always yield
// the same definitions, in registry order, with fields in canonical order.
package transform
