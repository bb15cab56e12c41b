package merge

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/footprint-cli/internal/model"
)

// Report is the machine-readable summary of a merge written next to the
// merged row.
type Report struct {
	RunID      string          `json:"run_id" yaml:"run_id"`
	CreatedAt  time.Time       `json:"created_at" yaml:"created_at"`
	Policy     Policy          `json:"policy" yaml:"policy"`
	First      []string        `json:"first" yaml:"first"`
	Second     []string        `json:"second" yaml:"second"`
	Conflicts  []ReportValue   `json:"conflicts" yaml:"conflicts"`
	Resolution model.Side      `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	Warnings   []ReportWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Fields     []ReportField   `json:"fields" yaml:"fields"`
}

// ReportValue shows both input values of a conflicting field.
type ReportValue struct {
	Field  string `json:"field" yaml:"field"`
	First  string `json:"first" yaml:"first"`
	Second string `json:"second" yaml:"second"`
}

// ReportWarning is a Warning in report form.
type ReportWarning struct {
	Field   string `json:"field" yaml:"field"`
	Class   Class  `json:"class" yaml:"class"`
	Message string `json:"message" yaml:"message"`
}

// ReportField is a Decision in report form.
type ReportField struct {
	Field string     `json:"field" yaml:"field"`
	Class Class      `json:"class" yaml:"class"`
	Kept  model.Side `json:"kept" yaml:"kept"`
}

// NewReport builds the report of res. first and second are the merge inputs.
func NewReport(runID string, policy Policy, res *Result, first, second model.Record, now time.Time) Report {
	r := Report{
		RunID:      runID,
		CreatedAt:  now.UTC(),
		Policy:     policy,
		First:      res.Provenance.First.Names(),
		Second:     res.Provenance.Second.Names(),
		Conflicts:  make([]ReportValue, 0, len(res.Conflicts)),
		Resolution: res.Resolution,
		Fields:     make([]ReportField, 0, len(res.Decisions)),
	}
	for _, name := range res.Conflicts {
		v1, _ := first.Get(name)
		v2, _ := second.Get(name)
		r.Conflicts = append(r.Conflicts, ReportValue{Field: name, First: v1.String(), Second: v2.String()})
	}
	for _, w := range res.Warnings {
		r.Warnings = append(r.Warnings, ReportWarning{Field: w.Field, Class: w.Class, Message: w.Message})
	}
	for _, d := range res.Decisions {
		r.Fields = append(r.Fields, ReportField(d))
	}
	return r
}

// ReportFormat selects the report encoding.
type ReportFormat string

const (
	ReportYAML ReportFormat = "yaml"
	ReportJSON ReportFormat = "json"
)

// ParseReportFormat converts a config or flag value to a ReportFormat.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yaml", "yml":
		return ReportYAML, nil
	case "json":
		return ReportJSON, nil
	default:
		return "", eris.Errorf("merge: unknown report format %q", s)
	}
}

// Write encodes the report to w.
func (r Report) Write(w io.Writer, format ReportFormat) error {
	switch format {
	case ReportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return eris.Wrap(err, "merge: encode json report")
		}
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return eris.Wrap(err, "merge: encode yaml report")
		}
		if err := enc.Close(); err != nil {
			return eris.Wrap(err, "merge: close yaml encoder")
		}
	}
	return nil
}
