package domain

import "strings"

// CompareVersions orders two version strings structurally.
//
// Both strings are split on "." and "-". Parts made only of digits compare
// by integer value; every other pairing, including numeric against textual,
// compares by string ordering. Missing trailing parts count as numeric 0.
//
// This is not SemVer 2.0 precedence: a pre-release such as "1.0.0-beta"
// compares as newer than "1.0.0" because "beta" sorts after "0". Registry
// contents already depend on this ordering.
//
// The result is negative when a is older than b, zero when equal and
// positive when a is newer.
func CompareVersions(a, b string) int {
	ap := splitVersion(a)
	bp := splitVersion(b)
	n := max(len(ap), len(bp))
	for i := 0; i < n; i++ {
		av, bv := partAt(ap, i), partAt(bp, i)
		if av.numeric && bv.numeric {
			if c := compareDigits(av.text, bv.text); c != 0 {
				return c
			}
			continue
		}
		if c := strings.Compare(av.text, bv.text); c != 0 {
			return c
		}
	}
	return 0
}

// VersionNotOlder reports whether a is newer than or equal to b.
// A version list is correctly ordered when every element is not older
// than its successor.
func VersionNotOlder(a, b string) bool {
	return CompareVersions(a, b) >= 0
}

type versionPart struct {
	text    string
	numeric bool
}

var zeroPart = versionPart{text: "0", numeric: true}

func splitVersion(v string) []versionPart {
	raw := splitKeepEmpty(v)
	parts := make([]versionPart, len(raw))
	for i, s := range raw {
		if isDigits(s) {
			parts[i] = versionPart{text: trimLeadingZeros(s), numeric: true}
		} else {
			parts[i] = versionPart{text: s}
		}
	}
	return parts
}

func splitKeepEmpty(v string) []string {
	var out []string
	start := 0
	for i := 0; i < len(v); i++ {
		if v[i] == '.' || v[i] == '-' {
			out = append(out, v[start:i])
			start = i + 1
		}
	}
	return append(out, v[start:])
}

func partAt(parts []versionPart, i int) versionPart {
	if i < len(parts) {
		return parts[i]
	}
	return zeroPart
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func trimLeadingZeros(s string) string {
	t := strings.TrimLeft(s, "0")
	if t == "" {
		return "0"
	}
	return t
}

// compareDigits compares two normalised digit strings without overflow.
func compareDigits(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
