package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	name *string
	key  *string
}

func strPtr(s string) *string { return &s }

func TestCountBy(t *testing.T) {
	t.Run("counts every keyed record once", func(t *testing.T) {
		fks := []string{"Brazil", "Brazil", "Chad", "France"}
		counts := CountBy(fks, func(s string) (string, bool) { return s, true })

		assert.Equal(t, map[string]int{"Brazil": 2, "Chad": 1, "France": 1}, counts)
	})

	t.Run("skips records without a key and sums to N minus K", func(t *testing.T) {
		records := []record{
			{key: strPtr("Brazil")},
			{key: nil},
			{key: strPtr("Brazil")},
			{key: nil},
			{key: strPtr("Chad")},
		}

		counts := CountBy(records, func(r record) (string, bool) {
			if r.key == nil {
				return "", false
			}
			return *r.key, true
		})

		total := 0
		for _, n := range counts {
			total += n
		}
		assert.Equal(t, 3, total, "values must sum to N minus null-keyed rows")
		assert.Equal(t, 2, counts["Brazil"])
		assert.Equal(t, 1, counts["Chad"])
	})

	t.Run("duplicate keys accumulate rather than collapse", func(t *testing.T) {
		// Two answers for the same (country, question) pair are two rows.
		counts := CountBy([]string{"Kenya", "Kenya"}, func(s string) (string, bool) { return s, true })
		assert.Equal(t, 2, counts["Kenya"])
	})

	t.Run("empty input yields empty map", func(t *testing.T) {
		counts := CountBy(nil, func(s string) (string, bool) { return s, true })
		assert.Empty(t, counts)
	})
}

func TestFilterBySubstring(t *testing.T) {
	nameField := func(r record) *string { return r.name }

	records := []record{
		{name: strPtr("France")},
		{name: strPtr("Germany")},
		{name: nil},
	}

	t.Run("empty term returns input unchanged in order", func(t *testing.T) {
		out := FilterBySubstring(records, "", nameField)
		require.Len(t, out, 3)
		assert.Equal(t, records, out)
	})

	t.Run("whitespace-only term also passes everything through", func(t *testing.T) {
		out := FilterBySubstring(records, "   ", nameField)
		assert.Equal(t, records, out)
	})

	t.Run("match is case-insensitive", func(t *testing.T) {
		assert.Len(t, FilterBySubstring(records, "franc", nameField), 1)
		assert.Len(t, FilterBySubstring(records, "FRANC", nameField), 1)
		assert.Len(t, FilterBySubstring(records, "xyz", nameField), 0)
	})

	t.Run("nil fields never match", func(t *testing.T) {
		out := FilterBySubstring(records, "a", nameField)
		for _, r := range out {
			require.NotNil(t, r.name)
		}
	})

	t.Run("any matching field is enough", func(t *testing.T) {
		multi := []record{
			{name: strPtr("nothing"), key: strPtr("renewable targets")},
		}
		out := FilterBySubstring(multi, "renewable",
			func(r record) *string { return r.name },
			func(r record) *string { return r.key },
		)
		assert.Len(t, out, 1)
	})

	t.Run("preserves relative order of matches", func(t *testing.T) {
		ordered := []record{
			{name: strPtr("Argentina")},
			{name: strPtr("Armenia")},
			{name: strPtr("Austria")},
		}
		out := FilterBySubstring(ordered, "ar", nameField)
		require.Len(t, out, 2)
		assert.Equal(t, "Argentina", *out[0].name)
		assert.Equal(t, "Armenia", *out[1].name)
	})
}
