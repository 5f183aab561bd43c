package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"starwars/internal/model"
)

var (
	errFieldMissing = errors.New("is required")
	errFieldUnknown = errors.New("is not a known field")
	errFieldType    = errors.New("has the wrong type")
	errFieldBlank   = errors.New("must not be blank")
)

// FieldResult is the outcome of decoding one input field. Err is nil when the
// field was accepted.
type FieldResult struct {
	Field string
	Err   error
}

func (r FieldResult) String() string {
	return fmt.Sprintf("%s %v", r.Field, r.Err)
}

type fieldParser[T any] func(entity *T, raw any) error

type fieldSpec[T any] struct {
	required bool
	parse    fieldParser[T]
}

// fieldSchema is the allow-list of input fields for an entity.
type fieldSchema[T any] map[string]fieldSpec[T]

func required[T any](p fieldParser[T]) fieldSpec[T] { return fieldSpec[T]{required: true, parse: p} }
func optional[T any](p fieldParser[T]) fieldSpec[T] { return fieldSpec[T]{parse: p} }

// decode applies every allow-listed field of raw to a zero T. It returns one
// result per input key plus one per missing required field, sorted by name.
func (s fieldSchema[T]) decode(raw map[string]any) (T, []FieldResult) {
	var entity T
	results := make([]FieldResult, 0, len(raw))

	for name, value := range raw {
		spec, ok := s[name]
		if !ok {
			results = append(results, FieldResult{Field: name, Err: errFieldUnknown})
			continue
		}
		if value == nil {
			if spec.required {
				results = append(results, FieldResult{Field: name, Err: errFieldMissing})
			} else {
				results = append(results, FieldResult{Field: name})
			}
			continue
		}
		results = append(results, FieldResult{Field: name, Err: spec.parse(&entity, value)})
	}

	for name, spec := range s {
		if !spec.required {
			continue
		}
		if _, ok := raw[name]; !ok {
			results = append(results, FieldResult{Field: name, Err: errFieldMissing})
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Field < results[j].Field })
	return entity, results
}

// rejected returns the failed results. Unknown fields are only reported when
// includeUnknown is set.
func rejected(results []FieldResult, includeUnknown bool) []FieldResult {
	var out []FieldResult
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		if errors.Is(r.Err, errFieldUnknown) && !includeUnknown {
			continue
		}
		out = append(out, r)
	}
	return out
}

// missingRequired lists the required fields whose result is a failure.
func (s fieldSchema[T]) missingRequired(results []FieldResult) []string {
	var names []string
	for _, r := range results {
		if r.Err != nil && s[r.Field].required {
			names = append(names, r.Field)
		}
	}
	return names
}

func describe(results []FieldResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

// stringField accepts a non-blank JSON string of at most maxLen characters.
func stringField[T any](maxLen int, set func(*T, string)) fieldParser[T] {
	return func(entity *T, raw any) error {
		s, ok := raw.(string)
		if !ok {
			return errFieldType
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return errFieldBlank
		}
		if utf8.RuneCountInString(s) > maxLen {
			return fmt.Errorf("is longer than %d characters", maxLen)
		}
		set(entity, s)
		return nil
	}
}

// textField accepts a string or a number, storing numbers in their decimal form.
func textField[T any](maxLen int, set func(*T, string)) fieldParser[T] {
	return func(entity *T, raw any) error {
		var s string
		switch v := raw.(type) {
		case string:
			s = strings.TrimSpace(v)
		case json.Number:
			s = v.String()
		case float64:
			s = strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			s = strconv.Itoa(v)
		case int64:
			s = strconv.FormatInt(v, 10)
		default:
			return errFieldType
		}
		if utf8.RuneCountInString(s) > maxLen {
			return fmt.Errorf("is longer than %d characters", maxLen)
		}
		set(entity, s)
		return nil
	}
}

// intField accepts a whole JSON number or a string holding one.
func intField[T any](set func(*T, int64)) fieldParser[T] {
	return func(entity *T, raw any) error {
		var n int64
		switch v := raw.(type) {
		case float64:
			if v != math.Trunc(v) || math.IsInf(v, 0) || v >= math.MaxInt64 || v < math.MinInt64 {
				return errFieldType
			}
			n = int64(v)
		case int:
			n = int64(v)
		case int64:
			n = v
		case json.Number:
			parsed, err := v.Int64()
			if err != nil {
				return errFieldType
			}
			n = parsed
		case string:
			parsed, err := strconv.ParseInt(strings.TrimSpace(strings.ReplaceAll(v, ",", "")), 10, 64)
			if err != nil {
				return errFieldType
			}
			n = parsed
		default:
			return errFieldType
		}
		set(entity, n)
		return nil
	}
}

var characterFields = fieldSchema[model.Character]{
	"name":       required(stringField(80, func(c *model.Character, v string) { c.Name = v })),
	"hair_color": required(stringField(20, func(c *model.Character, v string) { c.HairColor = v })),
	"eye_color":  required(stringField(40, func(c *model.Character, v string) { c.EyeColor = v })),
	"gender":     required(stringField(40, func(c *model.Character, v string) { c.Gender = v })),
}

var planetFields = fieldSchema[model.Planet]{
	"name":       required(stringField(80, func(p *model.Planet, v string) { p.Name = v })),
	"climate":    required(stringField(80, func(p *model.Planet, v string) { p.Climate = v })),
	"terrain":    required(stringField(80, func(p *model.Planet, v string) { p.Terrain = v })),
	"diameter":   required(intField(func(p *model.Planet, v int64) { p.Diameter = v })),
	"population": optional(textField(100, func(p *model.Planet, v string) { p.Population = &v })),
}
