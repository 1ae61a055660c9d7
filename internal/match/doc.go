// Package match suggests close names for misspelled identifiers, such as a
// rule that names variant "creat" when "create" is registered.
package match
