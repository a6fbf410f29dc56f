package rgb2spec

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultBands(t *testing.T) {
	b := DefaultBands()
	if len(b) != 31 {
		t.Fatalf("len(DefaultBands()) = %d, want 31", len(b))
	}
	if b[0] != 380 || b[30] != 680 {
		t.Errorf("DefaultBands() spans [%v, %v], want [380, 680]", b[0], b[30])
	}
	for i := 1; i < len(b); i++ {
		if b[i]-b[i-1] != 10 {
			t.Errorf("step at %d = %v, want 10", i, b[i]-b[i-1])
		}
	}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestNewBands(t *testing.T) {
	tests := []struct {
		name             string
		start, end, step float64
		wantLen          int
		wantErr          bool
	}{
		{"single", 550, 550, 10, 1, false},
		{"fractional step", 400, 401, 0.1, 11, false},
		{"end not on grid", 400, 415, 10, 2, false},
		{"zero step", 400, 700, 0, 0, true},
		{"negative step", 400, 700, -1, 0, true},
		{"inverted", 700, 400, 10, 0, true},
		{"nan", math.NaN(), 700, 10, 0, true},
		{"too many", 0, 1e9, 1, 0, true},
		{"int overflow", 0, 1e20, 1, 0, true},
		{"tiny step", 0, 1e300, 1e-10, 0, true},
		{"infinite span", -math.MaxFloat64, math.MaxFloat64, 1, 0, true},
		{"infinite end", 0, math.Inf(1), 1, 0, true},
		{"at limit", 0, MaxBands - 1, 1, MaxBands, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBands(tt.start, tt.end, tt.step)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBands) {
					t.Errorf("NewBands error = %v, want ErrInvalidBands", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBands failed: %v", err)
			}
			if len(b) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(b), tt.wantLen)
			}
		})
	}
}

func TestBands_Validate(t *testing.T) {
	tests := []struct {
		name string
		b    Bands
		ok   bool
	}{
		{"empty", Bands{}, false},
		{"decreasing", Bands{500, 400}, false},
		{"duplicate", Bands{500, 500}, false},
		{"negative", Bands{-1, 400}, false},
		{"inf", Bands{400, math.Inf(1)}, false},
		{"ok", Bands{400, 500, 600}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestModel_Spectrum(t *testing.T) {
	m := buildModel(t, smoothstepScale(6), smoothCoefficients)
	rgb := [3]float32{0.8, 0.3, 0.1}
	bands := DefaultBands()

	prefix := []float32{-1}
	got := m.Spectrum(rgb, bands, prefix)
	if len(got) != 1+len(bands) || got[0] != -1 {
		t.Fatalf("Spectrum did not append to dst: len=%d", len(got))
	}
	c := m.Fetch(rgb)
	for i, l := range bands {
		if want := float32(EvalPrecise(c, l)); got[i+1] != want {
			t.Errorf("band %v nm = %v, want %v", l, got[i+1], want)
		}
	}
}
