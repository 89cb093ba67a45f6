// Package places finds garden centres through the Google Places and
// Geocoding APIs and normalises them into domain.Nursery records.
package places

import (
	"context"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"googlemaps.github.io/maps"

	"github.com/vbonduro/plantid/internal/domain"
	"github.com/vbonduro/plantid/internal/geo"
)

// SearchRadiusMeters is the fixed nearby-search radius (5 km).
const SearchRadiusMeters = 5000

// nurseryType is the Places type filter for plant nurseries.
const nurseryType = maps.PlaceType("garden_center")

var (
	// ErrNotConfigured is returned when no Places API key was supplied.
	ErrNotConfigured = errors.New("places API key is not configured")
	// ErrMalformedPayload is returned when an upstream result fails validation.
	ErrMalformedPayload = errors.New("malformed places payload")
	// ErrNoGeocodeResult is returned when a text query resolves to nothing.
	ErrNoGeocodeResult = errors.New("geocode returned no results")
)

// UpstreamError wraps a failed call to the Google Maps APIs.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("places %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// mapsAPI is the subset of *maps.Client the gateway calls.
type mapsAPI interface {
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

type Gateway struct {
	api     mapsAPI
	initErr error
}

// NewGateway builds a gateway. A missing key does not fail construction;
// every call then returns ErrNotConfigured. baseURL may be empty.
func NewGateway(apiKey, baseURL string) *Gateway {
	if apiKey == "" {
		return &Gateway{initErr: ErrNotConfigured}
	}

	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return &Gateway{initErr: fmt.Errorf("failed to create maps client: %w", err)}
	}
	return &Gateway{api: client}
}

// NearbyByCoordinate returns nurseries within SearchRadiusMeters of
// (lat, lng), each with its distance from that point in kilometres.
func (g *Gateway) NearbyByCoordinate(ctx context.Context, lat, lng float64) ([]domain.Nursery, error) {
	if g.initErr != nil {
		return nil, g.initErr
	}
	origin := geo.Point(lat, lng)
	return g.nearby(ctx, lat, lng, &origin)
}

// SearchByText geocodes query and returns nurseries around the first match.
// No reference point exists in this flow, so every distance is 0.
func (g *Gateway) SearchByText(ctx context.Context, query string) ([]domain.Nursery, error) {
	if g.initErr != nil {
		return nil, g.initErr
	}

	results, err := g.api.Geocode(ctx, &maps.GeocodingRequest{Address: query})
	if err != nil {
		return nil, &UpstreamError{Op: "geocode", Err: err}
	}
	if len(results) == 0 {
		return nil, &UpstreamError{Op: "geocode", Err: ErrNoGeocodeResult}
	}

	loc := results[0].Geometry.Location
	if err := geo.ValidateCoords(loc.Lat, loc.Lng); err != nil {
		return nil, &UpstreamError{Op: "geocode", Err: fmt.Errorf("%w: %v", ErrMalformedPayload, err)}
	}
	return g.nearby(ctx, loc.Lat, loc.Lng, nil)
}

func (g *Gateway) nearby(ctx context.Context, lat, lng float64, origin *orb.Point) ([]domain.Nursery, error) {
	resp, err := g.api.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: lat, Lng: lng},
		Radius:   SearchRadiusMeters,
		Type:     nurseryType,
	})
	if err != nil {
		return nil, &UpstreamError{Op: "nearby search", Err: err}
	}

	nurseries, err := Normalize(resp.Results, origin)
	if err != nil {
		return nil, &UpstreamError{Op: "nearby search", Err: err}
	}
	return nurseries, nil
}
