package vision

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/vbonduro/plantid/internal/domain"
)

// ErrNoStructuredData means the response text held no usable plant record.
var ErrNoStructuredData = errors.New("no structured data found")

// ErrAmbiguousStructuredData means more than one JSON object was found and
// the extractor refused to guess. It wraps ErrNoStructuredData.
var ErrAmbiguousStructuredData = fmt.Errorf("%w: multiple JSON objects in response", ErrNoStructuredData)

// requiredPlantKeys must be present and truthy at the top level.
var requiredPlantKeys = []string{"name", "scientificName", "description", "careInstructions", "additionalInfo"}

// ExtractPlantInfo locates the single JSON object embedded in free-form model
// output and decodes it into a PlantInfo. Only top-level keys are checked for
// presence; nested fields are taken as decoded.
func ExtractPlantInfo(text string) (*domain.PlantInfo, error) {
	payload, err := extractObject(text)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoStructuredData, err)
	}
	for _, key := range requiredPlantKeys {
		raw, ok := fields[key]
		if !ok || !truthy(raw) {
			return nil, fmt.Errorf("%w: missing %s", ErrNoStructuredData, key)
		}
	}

	var info domain.PlantInfo
	if err := json.Unmarshal(payload, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoStructuredData, err)
	}
	return &info, nil
}

// extractObject returns the one candidate in text that parses as JSON.
func extractObject(text string) ([]byte, error) {
	var parsed [][]byte
	for _, c := range findJSONCandidates(text) {
		if json.Valid([]byte(c)) {
			parsed = append(parsed, []byte(c))
		}
	}

	switch len(parsed) {
	case 0:
		return nil, ErrNoStructuredData
	case 1:
		return parsed[0], nil
	default:
		return nil, ErrAmbiguousStructuredData
	}
}

// findJSONCandidates returns every top-level balanced {...} span in s.
// Quotes are only tracked inside braces so that stray quotation marks in
// surrounding prose cannot swallow an object. A '{' that never closes is
// treated as prose and scanning resumes right after it. Byte iteration is
// safe: ASCII delimiters never occur inside multi-byte UTF-8 sequences.
func findJSONCandidates(s string) []string {
	var candidates []string
	for pos := 0; pos < len(s); {
		found, unclosed := scanBalanced(s, pos)
		candidates = append(candidates, found...)
		if unclosed < 0 {
			break
		}
		pos = unclosed + 1
	}
	return candidates
}

// scanBalanced scans s from pos and returns the balanced spans it closed.
// If input ends inside a span, unclosed is that span's opening offset;
// otherwise it is -1.
func scanBalanced(s string, pos int) (candidates []string, unclosed int) {
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := pos; i < len(s); i++ {
		b := s[i]

		if depth > 0 && inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				candidates = append(candidates, s[start:i+1])
				start = -1
			}
		}
	}

	if depth > 0 {
		return candidates, start
	}
	return candidates, -1
}

// truthy mirrors loose truthiness for a raw JSON value: null, false, 0 and
// the empty string are false; objects and arrays are always true.
func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return false
	}
	switch v[0] {
	case 'n', 'f':
		return false
	case '"':
		var s string
		return json.Unmarshal(v, &s) == nil && s != ""
	case '{', '[', 't':
		return true
	default:
		f, err := strconv.ParseFloat(string(v), 64)
		return err == nil && f != 0
	}
}
