// Package version classifies how far apart two release versions are so that
// deployment strategies can choose between an in-place update and a full
// reinstall.
package version

import (
	"strings"

	rollouterrors "github.com/alexisbeaulieu97/rollout/pkg/errors"
)

// Category describes the most significant component that differs between two
// versions.
type Category int

const (
	// None means all compared components are equal.
	None Category = iota
	// Patch means major and minor match but the patch component differs.
	Patch
	// Minor means the major component matches but the minor one differs.
	Minor
	// Major means the major component differs or there is no prior version.
	Major
)

func (c Category) String() string {
	switch c {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Patch:
		return "patch"
	default:
		return "none"
	}
}

// MatchKind names a rule deciding whether a version change is large enough to
// trigger strategy-specific behaviour.
type MatchKind string

const (
	// Always matches every change, including none at all.
	Always MatchKind = "always"
	// MajorDifference matches only major changes.
	MajorDifference MatchKind = "major_difference"
	// MinorDifference matches minor or major changes.
	MinorDifference MatchKind = "minor_difference"
)

var matchKinds = []MatchKind{Always, MajorDifference, MinorDifference}

// MatchKinds lists the recognised rules in declaration order.
func MatchKinds() []string {
	out := make([]string, 0, len(matchKinds))
	for _, kind := range matchKinds {
		out = append(out, string(kind))
	}
	return out
}

// ParseMatchKind validates a rule name.
func ParseMatchKind(s string) (MatchKind, error) {
	for _, kind := range matchKinds {
		if string(kind) == s {
			return kind, nil
		}
	}
	return "", rollouterrors.NewInvalidStrategyKindError(s, MatchKinds())
}

// Difference compares version a against the previous version b. An empty b
// stands for "no prior release" and always yields Major. Components are
// compared as plain strings, so "1.02" and "1.2" differ in their minor part.
func Difference(a, b string) Category {
	if b == "" {
		return Major
	}

	left := strings.Split(a, ".")
	right := strings.Split(b, ".")

	for i, category := range []Category{Major, Minor, Patch} {
		if i >= len(left) || i >= len(right) || left[i] != right[i] {
			return category
		}
	}
	return None
}

// MatchesStrategy reports whether the change from b to a satisfies kind.
func MatchesStrategy(kind MatchKind, a, b string) (bool, error) {
	switch kind {
	case Always:
		return true, nil
	case MajorDifference:
		return Difference(a, b) == Major, nil
	case MinorDifference:
		diff := Difference(a, b)
		return diff == Major || diff == Minor, nil
	default:
		return false, rollouterrors.NewInvalidStrategyKindError(string(kind), MatchKinds())
	}
}
