// Package compare decides whether two field values agree, either strictly or
// within a looser tolerance.
package compare

import (
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/footprint-cli/internal/model"
)

const (
	// StrictTolerance is the relative difference under which two numbers are equal.
	StrictTolerance = 2e-3
	// LooseTolerance is the relative difference under which two numbers are close enough.
	LooseTolerance = 0.05
)

var (
	repeatedSpace = regexp.MustCompile(`[\s\p{Zs}]{2,}`)
	inchReplacer  = strings.NewReplacer("”", "in")
)

// IsEmpty reports whether v carries no information: the empty string, an
// absent value, zero, or NaN.
func IsEmpty(v model.Value) bool {
	switch v.Kind() {
	case model.KindString:
		return v.Text() == ""
	case model.KindInt, model.KindFloat:
		n := v.Number()
		return n == 0 || math.IsNaN(n)
	default:
		return true
	}
}

// AreEqual reports whether a and b are the same value: identical text after
// trimming, or numbers within StrictTolerance of the larger magnitude.
// Text never equals a number.
func AreEqual(a, b model.Value) bool {
	switch {
	case a.IsText() && b.IsText():
		return strings.TrimSpace(a.Text()) == strings.TrimSpace(b.Text())
	case a.IsNumber() && b.IsNumber():
		return withinTolerance(a.Number(), b.Number(), StrictTolerance)
	default:
		return false
	}
}

// AreCloseEnough reports whether a and b match loosely: text equal after
// normalization, or numbers within LooseTolerance of the larger magnitude.
func AreCloseEnough(a, b model.Value) bool {
	switch {
	case a.IsText() && b.IsText():
		return NormalizeText(a.Text()) == NormalizeText(b.Text())
	case a.IsNumber() && b.IsNumber():
		return withinTolerance(a.Number(), b.Number(), LooseTolerance)
	default:
		return false
	}
}

// NormalizeText maps a right double quote to "in", collapses whitespace runs,
// trims, and case-folds s.
func NormalizeText(s string) string {
	s = inchReplacer.Replace(s)
	s = repeatedSpace.ReplaceAllString(s, " ")
	// A Caser carries state, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(s))
}

// withinTolerance treats identical values as equal before measuring, so
// same-signed infinities match.
func withinTolerance(a, b, tol float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= tol*math.Max(math.Abs(a), math.Abs(b))
}
