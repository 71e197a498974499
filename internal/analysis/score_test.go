package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBandForScore(t *testing.T) {
	tests := []struct {
		name    string
		overall float64
		band    ScoreBand
	}{
		{name: "high score is green", overall: 85, band: BandGreen},
		{name: "green boundary is inclusive", overall: 80, band: BandGreen},
		{name: "mid score is orange", overall: 70, band: BandOrange},
		{name: "orange boundary is inclusive", overall: 60, band: BandOrange},
		{name: "low score is red", overall: 45, band: BandRed},
		{name: "zero is red", overall: 0, band: BandRed},
		{name: "just under green is orange", overall: 79.9, band: BandOrange},
		{name: "just under orange is red", overall: 59.9, band: BandRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.band, BandForScore(tt.overall))
		})
	}
}
