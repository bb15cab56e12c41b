package merge

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/footprint-cli/internal/model"
)

func record(t *testing.T, entries ...model.Entry) model.Record {
	t.Helper()
	r, err := model.NewRecord(entries...)
	require.NoError(t, err)
	return r
}

func str(field, v string) model.Entry { return model.Entry{Field: field, Value: model.Str(v)} }
func num(field string, v float64) model.Entry { return model.Entry{Field: field, Value: model.Float(v)} }

func laptop(t *testing.T) model.Record {
	t.Helper()
	return record(t,
		str("manufacturer", "Dell"),
		str("name", "Latitude 5420"),
		str("category", "Laptop"),
		num("gwp_total", 310),
		num("lifetime", 4),
		model.Entry{Field: "number_cpu", Value: model.Int(1)},
		str("sources", "https://example.com/docs/latitude-5420.pdf"),
	)
}

// assertComplete checks every schema field appears in exactly one provenance
// set and in the merged record.
func assertComplete(t *testing.T, res *Result) {
	t.Helper()
	assert.Empty(t, res.Provenance.Missing())
	assert.Empty(t, res.Provenance.Overlap())
	assert.Equal(t, model.FieldNames(), res.Merged.Fields())
	assert.Len(t, res.Decisions, len(model.FieldNames()))
}

func get(t *testing.T, r model.Record, field string) model.Value {
	t.Helper()
	v, err := r.Get(field)
	require.NoError(t, err)
	return v
}

func TestMerge_EmptyPrecedence(t *testing.T) {
	t.Parallel()

	t.Run("second fills empty first", func(t *testing.T) {
		t.Parallel()
		res, err := Merge(record(t), record(t, str("category", "X")), Options{})
		require.NoError(t, err)
		assert.Equal(t, model.Str("X"), get(t, res.Merged, "category"))
		assert.True(t, res.Provenance.Second.Contains("category"))
		assertComplete(t, res)
	})

	t.Run("first kept when second empty", func(t *testing.T) {
		t.Parallel()
		res, err := Merge(record(t, str("category", "X")), record(t, str("category", "")), Options{})
		require.NoError(t, err)
		assert.Equal(t, model.Str("X"), get(t, res.Merged, "category"))
		assert.True(t, res.Provenance.First.Contains("category"))
		assert.False(t, res.Provenance.Second.Contains("category"))
		assertComplete(t, res)
	})

	t.Run("zero counts as empty", func(t *testing.T) {
		t.Parallel()
		res, err := Merge(record(t, num("weight", 1.4)), record(t, num("weight", 0)), Options{})
		require.NoError(t, err)
		assert.Equal(t, model.Float(1.4), get(t, res.Merged, "weight"))
		assert.True(t, res.Provenance.First.Contains("weight"))
	})

	t.Run("both empty keeps second", func(t *testing.T) {
		t.Parallel()
		res, err := Merge(record(t), record(t, num("weight", 0)), Options{})
		require.NoError(t, err)
		assert.Equal(t, model.Float(0), get(t, res.Merged, "weight"))
		assert.True(t, res.Provenance.Second.Contains("weight"))
		assert.True(t, res.Provenance.Second.Contains("comment"))
		assertComplete(t, res)
		assert.Len(t, res.Provenance.Second.Names(), len(model.FieldNames()))
	})
}

func TestMerge_Idempotent(t *testing.T) {
	t.Parallel()

	r := laptop(t)
	res, err := Merge(r, r, Options{Policy: PolicyKeepSecond})
	require.NoError(t, err)

	for _, name := range model.FieldNames() {
		assert.Equal(t, get(t, r, name), get(t, res.Merged, name), name)
	}
	assert.Empty(t, res.Provenance.First.Names())
	assert.Len(t, res.Provenance.Second.Names(), len(model.FieldNames()))
	assert.Empty(t, res.Conflicts)
	assert.Empty(t, res.Resolution)
	assert.Empty(t, res.Warnings)
	assertComplete(t, res)
}

func TestMerge_IdempotentNonFinite(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"inf", "-inf", "1e308"} {
		text := text
		t.Run(text, func(t *testing.T) {
			t.Parallel()
			r, err := model.FromText(map[string]string{"manufacturer": "Dell", "gwp_total": text})
			require.NoError(t, err)

			res, err := Merge(r, r, Options{Policy: PolicyKeepSecond})
			require.NoError(t, err)
			assert.Empty(t, res.Conflicts)
			assert.Equal(t, get(t, r, "gwp_total"), get(t, res.Merged, "gwp_total"))
			assertComplete(t, res)
		})
	}
}

func TestMerge_CloseEnough(t *testing.T) {
	t.Parallel()

	a := record(t, num("gwp_total", 100.0))
	b := record(t, num("gwp_total", 104.9))

	for _, verbosity := range []int{0, 1, 2} {
		res, err := Merge(a, b, Options{Verbosity: verbosity})
		require.NoError(t, err)

		assert.Equal(t, model.Float(104.9), get(t, res.Merged, "gwp_total"))
		assert.True(t, res.Provenance.Second.Contains("gwp_total"))
		assert.Empty(t, res.Conflicts)
		if verbosity == 0 {
			assert.Empty(t, res.Warnings)
			continue
		}
		require.Len(t, res.Warnings, 1, "verbosity %d", verbosity)
		assert.Equal(t, "gwp_total", res.Warnings[0].Field)
		assert.Equal(t, ClassClose, res.Warnings[0].Class)
		assert.Contains(t, res.Warnings[0].Message, "close enough")
	}
}

func TestMerge_ConflictKeepSecond(t *testing.T) {
	t.Parallel()

	a := record(t, str("manufacturer", "Dell"), str("category", "Laptop"))
	b := record(t, str("manufacturer", "Dell"), str("category", "Desktop"))

	var out bytes.Buffer
	res, err := Merge(a, b, Options{Policy: PolicyKeepSecond, Out: &out})
	require.NoError(t, err)

	assert.Equal(t, model.Str("Desktop"), get(t, res.Merged, "category"))
	assert.Equal(t, []string{"category"}, res.Conflicts)
	assert.Equal(t, model.SideSecond, res.Resolution)
	assert.True(t, res.Provenance.Second.Contains("category"))
	assert.Empty(t, out.String(), "no table without verbosity")
	assertComplete(t, res)

	res, err = Merge(a, b, Options{Policy: PolicyKeepSecond, Verbosity: 1, Out: &out})
	require.NoError(t, err)
	assert.Equal(t, []string{"category"}, res.Conflicts)
	assert.Contains(t, out.String(), "CONFLICT detected when merging Dell")
	assert.Contains(t, out.String(), "Laptop")
	assert.Contains(t, out.String(), "Desktop")
}

func TestMerge_InteractiveChoosesFirst(t *testing.T) {
	t.Parallel()

	a := record(t, str("category", "Laptop"), num("gwp_total", 300), str("name", "Latitude"))
	b := record(t, str("category", "Desktop"), num("gwp_total", 500), str("name", "Latitude"))

	resolver := &mockResolver{}
	resolver.On("Resolve", mock.MatchedBy(func(cs []Conflict) bool {
		return len(cs) == 2 && cs[0].Field == "category" && cs[1].Field == "gwp_total"
	}), a, b).Return(ChooseFirst, nil).Once()

	res, err := Merge(a, b, Options{Policy: PolicyInteractive, Resolver: resolver})
	require.NoError(t, err)
	resolver.AssertExpectations(t)

	assert.Equal(t, model.Str("Laptop"), get(t, res.Merged, "category"))
	assert.Equal(t, model.Float(300), get(t, res.Merged, "gwp_total"))
	assert.Equal(t, []string{"category", "gwp_total"}, res.Conflicts)
	assert.Equal(t, model.SideFirst, res.Resolution)
	assert.Equal(t, []string{"category", "gwp_total"}, res.Provenance.First.Names())
	assertComplete(t, res)
}

func TestMerge_InteractiveNotCalledWithoutConflicts(t *testing.T) {
	t.Parallel()

	resolver := &mockResolver{}
	r := laptop(t)
	_, err := Merge(r, r, Options{Policy: PolicyInteractive, Resolver: resolver})
	require.NoError(t, err)
	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestMerge_ResolverError(t *testing.T) {
	t.Parallel()

	a := record(t, str("category", "Laptop"))
	b := record(t, str("category", "Desktop"))
	boom := errors.New("boom")

	_, err := Merge(a, b, Options{
		Policy: PolicyInteractive,
		Resolver: ResolverFunc(func([]Conflict, model.Record, model.Record) (Choice, error) {
			return ChooseSecond, boom
		}),
	})
	assert.ErrorIs(t, err, boom)
}

func TestMerge_IgnoredFields(t *testing.T) {
	t.Parallel()

	a := record(t, str("added_date", "2021-01-01"), str("add_method", "manual"), str("comment", "first pass"))
	b := record(t, str("added_date", "2022-02-02"), str("add_method", "pdf"), str("comment", "second pass"))

	res, err := Merge(a, b, Options{Verbosity: 1})
	require.NoError(t, err)
	assert.Empty(t, res.Conflicts)
	assert.Empty(t, res.Warnings, "ignored fields only warn at verbosity 2")
	assert.Equal(t, model.Str("pdf"), get(t, res.Merged, "add_method"))

	res, err = Merge(a, b, Options{Verbosity: 2})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 3)
	for _, w := range res.Warnings {
		assert.Equal(t, ClassIgnored, w.Class)
	}
}

func TestMerge_Sources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		first     string
		second    string
		verbosity int
		warn      bool
	}{
		{"same file different host quiet", "https://a.com/x/report.pdf", "https://b.com/y/report.pdf", 1, false},
		{"same file verbose", "https://a.com/x/report.pdf", "https://b.com/y/report.pdf", 2, true},
		{"different files", "https://a.com/one.pdf", "https://a.com/two.pdf", 1, true},
		{"different files silent", "https://a.com/one.pdf", "https://a.com/two.pdf", 0, false},
		{"no pdf on one side", "https://a.com/page.html", "https://a.com/two.pdf", 1, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := record(t, str("sources", tt.first))
			b := record(t, str("sources", tt.second))

			res, err := Merge(a, b, Options{Verbosity: tt.verbosity})
			require.NoError(t, err)
			assert.Equal(t, model.Str(tt.second), get(t, res.Merged, "sources"))
			assert.True(t, res.Provenance.Second.Contains("sources"))
			assert.Empty(t, res.Conflicts)
			if tt.warn {
				require.Len(t, res.Warnings, 1)
				assert.Equal(t, ClassSources, res.Warnings[0].Class)
			} else {
				assert.Empty(t, res.Warnings)
			}
		})
	}
}

func TestMerge_MixedTypesConflict(t *testing.T) {
	t.Parallel()

	a := record(t, model.Entry{Field: "memory", Value: model.Str("16")})
	b := record(t, num("memory", 16))

	res, err := Merge(a, b, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"memory"}, res.Conflicts)
	assert.Equal(t, model.Float(16), get(t, res.Merged, "memory"))
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	a := record(t, str("category", "Laptop"), num("weight", 1.2))
	b := record(t, str("category", "Desktop"))
	before := a.Entries()

	_, err := Merge(a, b, Options{Policy: PolicyInteractive, Resolver: ResolverFunc(
		func([]Conflict, model.Record, model.Record) (Choice, error) { return ChooseFirst, nil },
	)})
	require.NoError(t, err)
	assert.Equal(t, before, a.Entries())
	assert.Equal(t, 1, b.Len())
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		field  string
		v1, v2 model.Value
		want   Class
	}{
		{"category", model.Str("a"), model.Empty(), ClassFirstOnly},
		{"category", model.Empty(), model.Str("a"), ClassSecondOnly},
		{"category", model.Empty(), model.Str(""), ClassBothEmpty},
		{"category", model.Str("a "), model.Str("a"), ClassEqual},
		{"category", model.Str("A"), model.Str("a"), ClassClose},
		{"comment", model.Str("x"), model.Str("y"), ClassIgnored},
		{"sources", model.Str("x"), model.Str("y"), ClassSources},
		{"category", model.Str("x"), model.Str("y"), ClassConflict},
		{"gwp_total", model.Float(1), model.Float(2), ClassConflict},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.want)+"/"+tt.field, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, classify(tt.field, tt.v1, tt.v2))
		})
	}
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Policy{
		"":            PolicyKeepSecond,
		"keep-second": PolicyKeepSecond,
		"keep2nd":     PolicyKeepSecond,
		"Interactive": PolicyInteractive,
	} {
		got, err := ParsePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePolicy("coin-flip")
	assert.Error(t, err)
}
