package domain

// PlantInfo is the structured result of an identification request.
type PlantInfo struct {
	Name             string           `json:"name"`
	ScientificName   string           `json:"scientificName"`
	Description      string           `json:"description"`
	CareInstructions CareInstructions `json:"careInstructions"`
	AdditionalInfo   AdditionalInfo   `json:"additionalInfo"`
}

type CareInstructions struct {
	Watering    string `json:"watering"`
	Sunlight    string `json:"sunlight"`
	Soil        string `json:"soil"`
	Temperature string `json:"temperature"`
}

// Complete reports whether every field carries a value.
func (c CareInstructions) Complete() bool {
	return c.Watering != "" && c.Sunlight != "" && c.Soil != "" && c.Temperature != ""
}

type AdditionalInfo struct {
	NativeTo   string `json:"nativeTo"`
	GrowthRate string `json:"growthRate"`
	Toxicity   string `json:"toxicity"`
}

// Nursery is a garden centre normalised from a places search result.
// Distance is in kilometres and is 0 when no reference point was supplied.
// Rating keeps the upstream float32 so it encodes as sent (4.2, not
// 4.199999809265137).
type Nursery struct {
	Name     string  `json:"name"`
	Rating   float32 `json:"rating"`
	PlaceID  string  `json:"placeId"`
	Vicinity string  `json:"vicinity"`
	Distance float64 `json:"distance"`
}

// BuyLink points at a retailer's search page for a plant.
type BuyLink struct {
	Store string `json:"store"`
	URL   string `json:"url"`
}

// DefaultCareInstructions is returned whenever a care guide cannot be
// produced from the model response.
func DefaultCareInstructions() CareInstructions {
	return CareInstructions{
		Watering:    "General care: Water when top inch of soil feels dry",
		Sunlight:    "Moderate indirect light is usually safe",
		Soil:        "Well-draining potting mix",
		Temperature: "65-75°F (18-24°C)",
	}
}
