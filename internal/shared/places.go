package shared

// Place maps an internal property to its Google Place listing.
type Place struct {
	PlaceID string
	Name    string
}

// KnownPlaces is the static property -> Google Place registry used by the
// ingestor when fanning out Google Places syncs. Properties without an
// entry simply never receive Google reviews.
var KnownPlaces = map[string]Place{
	"2b-n1-a-29-shoreditch-heights":     {PlaceID: "ChIJyRJx9Z0cdkgRF8MmZ6vZ6_c", Name: "2B N1 A - 29 Shoreditch Heights"},
	"1b-s2-c-15-camden-lock-apartments": {PlaceID: "ChIJmRJx9Z0cdkgRF8MmZ6vZ6_d", Name: "1B S2 C - 15 Camden Lock Apartments"},
	"2b-e1-b-42-canary-wharf-tower":     {PlaceID: "ChIJnRJx9Z0cdkgRF8MmZ6vZ6_e", Name: "2B E1 B - 42 Canary Wharf Tower"},
}
