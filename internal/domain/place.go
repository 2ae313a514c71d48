package domain

// PlacePrediction is one autocomplete suggestion from the places lookup.
type PlacePrediction struct {
	PlaceID     string
	Description string
}

// PlaceDetails holds the fields used to pre-fill a new TravelRecord.
// Pointer fields are nil when the upstream did not supply them.
type PlaceDetails struct {
	PlaceExternalID string
	Title           string
	CountryCode     string
	City            string
	Latitude        *float64
	Longitude       *float64
}
