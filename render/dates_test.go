package render

import (
	"testing"
	"time"
)

func TestFrenchDate(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC), "2 janvier 2025"},
		{time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC), "15 août 2024"},
		{time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC), "1 janvier 2025"},
		{time.Time{}, ""},
	}
	for _, tt := range tests {
		if got := FrenchDate(tt.in, paris); got != tt.want {
			t.Errorf("FrenchDate(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSiteDefaultsToParisTime(t *testing.T) {
	site := Site{}.WithDefaults()
	if got := site.Location.String(); got != "Europe/Paris" {
		t.Fatalf("Location = %q, want Europe/Paris", got)
	}
	late := time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC)
	if got := FrenchDate(late, site.Location); got != "1 janvier 2025" {
		t.Errorf("FrenchDate = %q", got)
	}
}
