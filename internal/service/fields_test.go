package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starwars/internal/model"
)

func resultsByField(results []FieldResult) map[string]error {
	out := make(map[string]error, len(results))
	for _, r := range results {
		out[r.Field] = r.Err
	}
	return out
}

func TestFieldSchema_DecodeCharacter(t *testing.T) {
	c, results := characterFields.decode(map[string]any{
		"name":       "Luke Skywalker",
		"hair_color": "blond",
		"eye_color":  "blue",
		"gender":     "male",
		"height":     "172",
	})

	assert.Equal(t, model.Character{Name: "Luke Skywalker", HairColor: "blond", EyeColor: "blue", Gender: "male"}, c)

	byField := resultsByField(results)
	require.Len(t, byField, 5)
	assert.NoError(t, byField["name"])
	assert.ErrorIs(t, byField["height"], errFieldUnknown)
	assert.Empty(t, rejected(results, false))
	assert.Len(t, rejected(results, true), 1)
}

func TestFieldSchema_ReportsMissingAndMistyped(t *testing.T) {
	_, results := characterFields.decode(map[string]any{
		"name":      42.0,
		"eye_color": "  ",
		"gender":    nil,
	})

	byField := resultsByField(results)
	assert.ErrorIs(t, byField["name"], errFieldType)
	assert.ErrorIs(t, byField["eye_color"], errFieldBlank)
	assert.ErrorIs(t, byField["gender"], errFieldMissing)
	assert.ErrorIs(t, byField["hair_color"], errFieldMissing)

	assert.Equal(t, []string{"eye_color", "gender", "hair_color", "name"}, characterFields.missingRequired(results))
}

func TestFieldSchema_Lengths(t *testing.T) {
	_, results := characterFields.decode(map[string]any{
		"name":       "R2-D2",
		"hair_color": "a colour name that is much too long",
		"eye_color":  "red",
		"gender":     "n/a",
	})

	bad := rejected(results, false)
	require.Len(t, bad, 1)
	assert.Equal(t, "hair_color", bad[0].Field)
	assert.Contains(t, describe(bad), "longer than 20")
}

func TestIntField(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    int64
		wantErr bool
	}{
		{"json number", 12500.0, 12500, false},
		{"numeric string", "10465", 10465, false},
		{"grouped string", "7,200", 7200, false},
		{"json.Number", json.Number("118000"), 118000, false},
		{"int", 3, 3, false},
		{"fraction", 1.5, 0, true},
		{"unknown", "unknown", 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p model.Planet
			err := intField(func(p *model.Planet, v int64) { p.Diameter = v })(&p, tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, errFieldType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Diameter)
		})
	}
}

func TestTextField(t *testing.T) {
	parse := planetFields["population"].parse

	var p model.Planet
	require.NoError(t, parse(&p, 200000.0))
	require.NotNil(t, p.Population)
	assert.Equal(t, "200000", *p.Population)

	require.NoError(t, parse(&p, "unknown"))
	assert.Equal(t, "unknown", *p.Population)

	assert.ErrorIs(t, parse(&p, []any{"x"}), errFieldType)
}

func TestFieldSchema_OptionalNull(t *testing.T) {
	p, results := planetFields.decode(map[string]any{
		"name":       "Hoth",
		"climate":    "frozen",
		"terrain":    "tundra",
		"diameter":   "7200",
		"population": nil,
	})

	assert.Empty(t, rejected(results, true))
	assert.Nil(t, p.Population)
	assert.Equal(t, int64(7200), p.Diameter)
}
