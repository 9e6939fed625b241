package models

import "testing"

func TestParseEmbeddedCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantLat float64
		wantLng float64
		wantOK  bool
	}{
		{
			name:    "arabic address with coordinates",
			address: "حي الشهداء (36.861900, 42.978800)",
			wantLat: 36.8619,
			wantLng: 42.9788,
			wantOK:  true,
		},
		{
			name:    "coordinates without spaces",
			address: "Main street (36.5,42.1)",
			wantLat: 36.5,
			wantLng: 42.1,
			wantOK:  true,
		},
		{
			name:    "negative coordinates",
			address: "somewhere south (-12.043333, -77.028333)",
			wantLat: -12.043333,
			wantLng: -77.028333,
			wantOK:  true,
		},
		{
			name:    "plain address",
			address: "23 Bakery Lane, Duhok",
			wantOK:  false,
		},
		{
			name:    "latitude out of range",
			address: "broken (91.5, 42.0)",
			wantOK:  false,
		},
		{
			name:    "longitude out of range",
			address: "broken (36.0, 181.0)",
			wantOK:  false,
		},
		{
			name:    "integers are not coordinates",
			address: "apartment (3, 4)",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, ok := ParseEmbeddedCoordinates(tt.address)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if loc.Latitude != tt.wantLat || loc.Longitude != tt.wantLng {
				t.Fatalf("got (%f, %f), want (%f, %f)", loc.Latitude, loc.Longitude, tt.wantLat, tt.wantLng)
			}
		})
	}
}

func TestDisplayAddress(t *testing.T) {
	withAddr := Location{Latitude: 36.8, Longitude: 42.9, Address: "Bakery Lane"}
	if got := withAddr.DisplayAddress(); got != "Bakery Lane" {
		t.Fatalf("expected stored address, got %q", got)
	}

	bare := Location{Latitude: 36.8619, Longitude: 42.9788}
	if got := bare.DisplayAddress(); got != "36.86190, 42.97880" {
		t.Fatalf("expected coordinate fallback, got %q", got)
	}
}
