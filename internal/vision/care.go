package vision

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vbonduro/plantid/internal/domain"
)

var (
	// ErrInvalidCareGuide means the response was not a single JSON object.
	ErrInvalidCareGuide = errors.New("care guide is not valid JSON")
	// ErrIncompleteCareGuide means a care field was missing or empty.
	ErrIncompleteCareGuide = errors.New("care guide is missing fields")
)

// ParseCareInstructions decodes a care-guide response. The whole response
// must be one JSON object; only surrounding whitespace and a markdown code
// fence are tolerated.
func ParseCareInstructions(text string) (*domain.CareInstructions, error) {
	body := stripCodeFence(strings.TrimSpace(text))
	if body == "" {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidCareGuide)
	}

	dec := json.NewDecoder(strings.NewReader(body))
	var care domain.CareInstructions
	if err := dec.Decode(&care); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCareGuide, err)
	}
	if err := ensureEOF(dec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCareGuide, err)
	}

	if !care.Complete() {
		return nil, ErrIncompleteCareGuide
	}
	return &care, nil
}

// stripCodeFence removes a ```lang ... ``` wrapper if s is fenced.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	rest := s[3:]
	end := strings.LastIndex(rest, "```")
	if end == -1 {
		return s
	}
	content := rest[:end]
	// Drop the info string ("json") on the opening line.
	if idx := strings.Index(content, "\n"); idx != -1 {
		content = content[idx+1:]
	}
	return strings.TrimSpace(content)
}

func ensureEOF(dec *json.Decoder) error {
	var extra any
	if err := dec.Decode(&extra); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return errors.New("unexpected trailing content")
}
