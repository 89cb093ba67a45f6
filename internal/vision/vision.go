package vision

import (
	"context"
	"errors"
	"fmt"
)

// NotAPlantSentinel is the literal the model is told to answer with when the
// image holds no identifiable plant.
const NotAPlantSentinel = "NOT_A_PLANT"

// IdentifyPrompt is the shared prompt used by all backends for image
// identification.
const IdentifyPrompt = `Analyze this image and determine if it contains a plant. If it does, provide information in the following JSON format:
{
  "name": "Common plant name",
  "scientificName": "Scientific name",
  "description": "Brief description",
  "careInstructions": {
    "watering": "Watering frequency",
    "sunlight": "Sunlight needs",
    "soil": "Soil type",
    "temperature": "Temperature range"
  },
  "additionalInfo": {
    "nativeTo": "Native regions",
    "growthRate": "Growth rate",
    "toxicity": "Toxicity info"
  }
}
If the image does not contain a plant or if you cannot identify the plant with confidence, respond with "` + NotAPlantSentinel + `".`

// CarePrompt builds the care-guide prompt for plantName.
func CarePrompt(plantName string) string {
	return fmt.Sprintf(`Provide detailed care instructions for %q in the following JSON format:
{
  "watering": "Detailed watering instructions",
  "sunlight": "Specific light requirements",
  "soil": "Soil type and pH preferences",
  "temperature": "Temperature range and humidity needs"
}
Ensure the response is a valid JSON object with all fields filled.`, plantName)
}

// ErrNotConfigured is returned by a backend whose credentials were not
// supplied.
var ErrNotConfigured = errors.New("vision backend is not configured")

// Model is a generative model that answers a prompt, optionally with an
// image attached, with free-form text.
type Model interface {
	GenerateFromImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Unconfigured is a Model that fails every call with ErrNotConfigured. It
// stands in for a backend whose API key is missing so that the process still
// starts.
type Unconfigured struct {
	Backend string
}

func (u Unconfigured) GenerateFromImage(context.Context, string, []byte, string) (string, error) {
	return "", fmt.Errorf("%s: %w", u.Backend, ErrNotConfigured)
}

func (u Unconfigured) GenerateText(context.Context, string) (string, error) {
	return "", fmt.Errorf("%s: %w", u.Backend, ErrNotConfigured)
}
