// Package merge reconciles two footprint records of the same device model
// into one record, tracking which input each field came from and which
// fields needed a conflict decision.
package merge

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/sells-group/footprint-cli/internal/compare"
	"github.com/sells-group/footprint-cli/internal/model"
)

// Class is the outcome of comparing one field across the two records.
type Class string

const (
	ClassFirstOnly  Class = "first_only"
	ClassSecondOnly Class = "second_only"
	ClassBothEmpty  Class = "both_empty"
	ClassEqual      Class = "equal"
	ClassClose      Class = "close"
	ClassIgnored    Class = "ignored"
	ClassSources    Class = "sources"
	ClassConflict   Class = "conflict"
)

// ignoredFields hold tracking metadata whose differences never conflict.
var ignoredFields = map[string]bool{
	model.FieldAddedDate: true,
	model.FieldAddMethod: true,
	model.FieldComment:   true,
}

// Decision records how one field was classified and which side was kept.
type Decision struct {
	Field string
	Class Class
	Kept  model.Side
}

// Warning is a discrepancy that was resolved automatically but is worth a look.
type Warning struct {
	Field   string
	Class   Class
	First   model.Value
	Second  model.Value
	Message string
}

// Result is the outcome of Merge.
type Result struct {
	Merged     model.Record
	Provenance model.Provenance
	// Conflicts lists, in schema order, every field that needed escalation,
	// whichever side eventually won it.
	Conflicts []string
	// Resolution is the side chosen for the conflicts; empty when there were none.
	Resolution model.Side
	Decisions  []Decision
	Warnings   []Warning
}

// Merge reconciles first and second field by field. Value disagreements are
// never errors; the only failure is a Resolver error under PolicyInteractive.
func Merge(first, second model.Record, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	log := zap.L().With(zap.String("policy", string(opts.Policy)))

	fields := model.Schema()
	values := make([]model.Value, len(fields))
	decisions := make([]Decision, len(fields))
	res := &Result{Provenance: model.NewProvenance()}

	var conflicts []Conflict
	conflictIdx := make(map[string]int)

	for i, f := range fields {
		v1, v2 := first.Value(f), second.Value(f)
		class := classify(f.Name, v1, v2)

		switch class {
		case ClassConflict:
			conflictIdx[f.Name] = i
			conflicts = append(conflicts, Conflict{Field: f.Name, First: v1, Second: v2})
			continue
		case ClassFirstOnly:
			values[i] = v1
			res.Provenance.Attribute(f.Name, model.SideFirst)
		default:
			values[i] = v2
			res.Provenance.Attribute(f.Name, model.SideSecond)
		}
		decisions[i] = Decision{Field: f.Name, Class: class, Kept: sideOf(class)}

		if w, ok := warningFor(f.Name, class, v1, v2, opts.Verbosity); ok {
			log.Warn("merge: "+w.Message,
				zap.String("field", f.Name),
				zap.Stringer("first", v1),
				zap.Stringer("second", v2),
			)
			res.Warnings = append(res.Warnings, w)
		}
	}

	if len(conflicts) > 0 {
		choice, err := resolve(conflicts, first, second, opts)
		if err != nil {
			return nil, err
		}
		side := choice.Side()
		res.Resolution = side
		for _, c := range conflicts {
			i := conflictIdx[c.Field]
			if side == model.SideFirst {
				values[i] = c.First
			} else {
				values[i] = c.Second
			}
			decisions[i] = Decision{Field: c.Field, Class: ClassConflict, Kept: side}
			res.Provenance.Attribute(c.Field, side)
			res.Conflicts = append(res.Conflicts, c.Field)
		}
		log.Info("merge: conflicts resolved",
			zap.Strings("fields", res.Conflicts),
			zap.String("kept", string(side)),
		)
	}

	entries := make([]model.Entry, len(fields))
	for i, f := range fields {
		entries[i] = model.Entry{Field: f.Name, Value: values[i]}
	}
	merged, err := model.NewRecord(entries...)
	if err != nil {
		return nil, err
	}
	res.Merged = merged
	res.Decisions = decisions

	return res, nil
}

func resolve(conflicts []Conflict, first, second model.Record, opts Options) (Choice, error) {
	if opts.Policy == PolicyInteractive {
		return opts.Resolver.Resolve(conflicts, first, second)
	}
	if opts.Verbosity > 0 {
		if err := WriteConflictTable(opts.Out, conflicts, first); err != nil {
			return ChooseSecond, err
		}
	}
	return KeepSecond.Resolve(conflicts, first, second)
}

// classify places a field pair in exactly one Class. The checks run in
// precedence order; the first match wins.
func classify(field string, v1, v2 model.Value) Class {
	empty1, empty2 := compare.IsEmpty(v1), compare.IsEmpty(v2)
	switch {
	case !empty1 && empty2:
		return ClassFirstOnly
	case empty1 && !empty2:
		return ClassSecondOnly
	case empty1 && empty2:
		return ClassBothEmpty
	case compare.AreEqual(v1, v2):
		return ClassEqual
	case compare.AreCloseEnough(v1, v2):
		return ClassClose
	case ignoredFields[field]:
		return ClassIgnored
	case field == model.FieldSources:
		return ClassSources
	default:
		return ClassConflict
	}
}

func sideOf(class Class) model.Side {
	if class == ClassFirstOnly {
		return model.SideFirst
	}
	return model.SideSecond
}

func warningFor(field string, class Class, v1, v2 model.Value, verbosity int) (Warning, bool) {
	w := Warning{Field: field, Class: class, First: v1, Second: v2}
	switch class {
	case ClassClose:
		if verbosity < 1 {
			return Warning{}, false
		}
		w.Message = fmt.Sprintf("%s: %s and %s are considered close enough -> %s", field, v1, v2, v2)
	case ClassIgnored:
		if verbosity < 2 {
			return Warning{}, false
		}
		w.Message = fmt.Sprintf("ignore difference in field %s: %s <-> %s", field, v1, v2)
	case ClassSources:
		file1, file2 := sourceFiles(v1, v2)
		if verbosity < 2 && (verbosity < 1 || file1 == file2) {
			return Warning{}, false
		}
		w.Message = fmt.Sprintf("source urls are different: ignored %s, retained %s", v1, v2)
	default:
		return Warning{}, false
	}
	return w, true
}

var pdfName = regexp.MustCompile(`[^/]*\.pdf`)

// sourceFiles extracts the PDF file name from each sources value. When
// either side has none the two results are distinct placeholders.
func sourceFiles(v1, v2 model.Value) (string, string) {
	file1 := pdfName.FindString(v1.String())
	file2 := pdfName.FindString(v2.String())
	if file1 == "" || file2 == "" {
		return "1", "2"
	}
	return file1, file2
}
