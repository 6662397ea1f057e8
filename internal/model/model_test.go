package model

import "testing"

func TestValidatePositionOK(t *testing.T) {
	p := Position{Latitude: 22.5, Longitude: 69.0, Accuracy: 10}
	if err := p.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidatePositionEdges(t *testing.T) {
	cases := []Position{
		{Latitude: 90, Longitude: 180},
		{Latitude: -90, Longitude: -180},
		{Latitude: 0, Longitude: 0},
	}
	for _, p := range cases {
		if err := p.Validate(); err != nil {
			t.Errorf("Validate(%v): unexpected error %v", p, err)
		}
	}
}

func TestValidatePositionOutOfRange(t *testing.T) {
	cases := []Position{
		{Latitude: 90.01, Longitude: 0},
		{Latitude: -91, Longitude: 0},
		{Latitude: 0, Longitude: 180.5},
		{Latitude: 0, Longitude: -200},
	}
	for _, p := range cases {
		if err := p.Validate(); err == nil {
			t.Errorf("Validate(%v): expected error", p)
		}
	}
}
