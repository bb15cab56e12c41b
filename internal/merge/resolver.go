package merge

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/footprint-cli/internal/model"
)

// Choice is the record picked for every conflicting field of one merge.
type Choice int

const (
	ChooseSecond Choice = iota
	ChooseFirst
)

// Side maps the choice to the provenance side it attributes fields to.
func (c Choice) Side() model.Side {
	if c == ChooseFirst {
		return model.SideFirst
	}
	return model.SideSecond
}

// Conflict is a field on which neither comparison settled the difference.
type Conflict struct {
	Field  string
	First  model.Value
	Second model.Value
}

// Resolver settles the conflicts of a merge with a single choice.
type Resolver interface {
	Resolve(conflicts []Conflict, first, second model.Record) (Choice, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(conflicts []Conflict, first, second model.Record) (Choice, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(conflicts []Conflict, first, second model.Record) (Choice, error) {
	return f(conflicts, first, second)
}

// KeepSecond always chooses the second record.
var KeepSecond Resolver = ResolverFunc(func([]Conflict, model.Record, model.Record) (Choice, error) {
	return ChooseSecond, nil
})

// Prompt shows the conflict table to an operator and reads one line. An "o"
// answer keeps the first record, anything else keeps the second.
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

// NewStdPrompt returns a Prompt on the process's standard streams.
func NewStdPrompt() *Prompt {
	return &Prompt{In: os.Stdin, Out: os.Stdout}
}

// Resolve implements Resolver.
func (p *Prompt) Resolve(conflicts []Conflict, first, second model.Record) (Choice, error) {
	if err := WriteConflictTable(p.Out, conflicts, first); err != nil {
		return ChooseSecond, err
	}
	if _, err := fmt.Fprintln(p.Out, "Press 'o' to keep the first column, or any other key to keep the second one..."); err != nil {
		return ChooseSecond, eris.Wrap(err, "merge: write prompt")
	}

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return ChooseSecond, eris.Wrap(err, "merge: read conflict choice")
	}
	if strings.TrimRight(line, "\r\n") == "o" {
		return ChooseFirst, nil
	}
	return ChooseSecond, nil
}

// WriteConflictTable prints the conflicting values side by side.
func WriteConflictTable(w io.Writer, conflicts []Conflict, first model.Record) error {
	manufacturer, _ := first.Get(model.FieldManufacturer)
	name, _ := first.Get(model.FieldName)

	var b strings.Builder
	fmt.Fprintf(&b, "CONFLICT detected when merging %s %s :\n", manufacturer, name)
	for _, c := range conflicts {
		fmt.Fprintf(&b, " | %25s | %30s -> %30s |\n", c.Field, c.First, c.Second)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "merge: write conflict table")
	}
	return nil
}
