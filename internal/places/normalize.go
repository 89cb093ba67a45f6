package places

import (
	"fmt"

	"github.com/paulmach/orb"
	"googlemaps.github.io/maps"

	"github.com/vbonduro/plantid/internal/domain"
	"github.com/vbonduro/plantid/internal/geo"
)

// Normalize validates raw search results and maps them to nurseries. When
// origin is nil the distance is left at 0. A single invalid result rejects
// the whole payload.
func Normalize(results []maps.PlacesSearchResult, origin *orb.Point) ([]domain.Nursery, error) {
	nurseries := make([]domain.Nursery, 0, len(results))
	for i, place := range results {
		if err := validate(place); err != nil {
			return nil, fmt.Errorf("%w: result %d: %v", ErrMalformedPayload, i, err)
		}

		n := domain.Nursery{
			Name:     place.Name,
			Rating:   place.Rating,
			PlaceID:  place.PlaceID,
			Vicinity: place.Vicinity,
		}
		if origin != nil {
			loc := place.Geometry.Location
			n.Distance = geo.Haversine(*origin, geo.Point(loc.Lat, loc.Lng))
		}
		nurseries = append(nurseries, n)
	}
	return nurseries, nil
}

func validate(place maps.PlacesSearchResult) error {
	if place.PlaceID == "" {
		return fmt.Errorf("missing place_id")
	}
	if place.Name == "" {
		return fmt.Errorf("missing name for %s", place.PlaceID)
	}
	if place.Rating < 0 || place.Rating > 5 {
		return fmt.Errorf("rating %v out of range for %s", place.Rating, place.PlaceID)
	}
	loc := place.Geometry.Location
	return geo.ValidateCoords(loc.Lat, loc.Lng)
}
