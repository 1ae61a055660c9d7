package common

import (
	"path"
	"strings"
	"unicode"
)

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// PkgAlias returns the package name assumed for an import path: the last
// path element with a trailing major version ("/v2") dropped, a "go-" prefix
// trimmed, and cut at the first character that cannot appear in an
// identifier. Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if isMajorVersion(base) && path.Dir(pkgPath) != "." {
		base = path.Base(path.Dir(pkgPath))
	}

	base = strings.TrimPrefix(base, "go-")

	if i := strings.IndexFunc(base, notIdentifier); i >= 0 {
		base = base[:i]
	}

	return base
}

// QualifierOf splits a qualified type name such as "opt.Value" into its
// package qualifier and type name. Unqualified names return an empty qualifier.
func QualifierOf(typeName string) (qualifier, name string) {
	if i := strings.LastIndex(typeName, "."); i >= 0 {
		return typeName[:i], typeName[i+1:]
	}

	return "", typeName
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}

	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

func notIdentifier(r rune) bool {
	return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
}
