package raster

import (
	"encoding/json"
	"math"
	"testing"
)

func TestDetectScale(t *testing.T) {
	tests := []struct {
		max  float64
		want Scale
	}{
		{0.95, ScaleUnit},
		{1.0, ScaleUnit},
		{1.05, ScaleUnit},
		{1.06, ScalePercent},
		{87, ScalePercent},
		{0, ScalePercent},
	}

	for _, tt := range tests {
		if got := DetectScale(tt.max); got != tt.want {
			t.Errorf("DetectScale(%v): got %v, want %v", tt.max, got, tt.want)
		}
	}
}

func TestResolveScale_DeclaredWins(t *testing.T) {
	// A low-confidence percent grid whose maximum is below 1.05 would be
	// misread by detection; a declared scale avoids that.
	g, err := ConfidenceFromRows([][]float64{{0.4, 1.0}}, ScalePercent)
	if err != nil {
		t.Fatalf("ConfidenceFromRows failed: %v", err)
	}
	if g.ResolveScale() != ScalePercent {
		t.Errorf("declared scale ignored: got %v", g.ResolveScale())
	}

	g.Scale = ScaleUnknown
	if g.ResolveScale() != ScaleUnit {
		t.Errorf("detected scale: got %v, want unit", g.ResolveScale())
	}
}

func TestBandOf(t *testing.T) {
	tests := []struct {
		pct  float64
		want Band
	}{
		{-3, NoBand},
		{0, NoBand},
		{0.001, LowBand},
		{79.99, LowBand},
		{80, MediumBand},
		{89.99, MediumBand},
		{90, HighBand},
		{100, HighBand},
		{150, HighBand},
		{math.NaN(), NoBand},
	}

	for _, tt := range tests {
		if got := BandOf(tt.pct); got != tt.want {
			t.Errorf("BandOf(%v): got %v, want %v", tt.pct, got, tt.want)
		}
	}
}

func TestBandOf_ScaleInvariant(t *testing.T) {
	unit := []float64{0.05, 0.5, 0.79, 0.8, 0.85, 0.9, 0.95, 1.0}
	for _, v := range unit {
		fromUnit := BandOf(v * ScaleUnit.Factor())
		fromPercent := BandOf(v * 100 * ScalePercent.Factor())
		if fromUnit != fromPercent {
			t.Errorf("value %v: unit band %v, percent band %v", v, fromUnit, fromPercent)
		}
	}
}

func TestParseScale(t *testing.T) {
	tests := []struct {
		in      string
		want    Scale
		wantErr bool
	}{
		{"", ScaleUnknown, false},
		{"auto", ScaleUnknown, false},
		{"unit", ScaleUnit, false},
		{"Percent", ScalePercent, false},
		{"permille", ScaleUnknown, true},
	}

	for _, tt := range tests {
		got, err := ParseScale(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseScale(%q): err %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseScale(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestScale_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		S Scale `json:"scale"`
	}{ScaleUnit})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != `{"scale":"unit"}` {
		t.Errorf("got %s", b)
	}
}
