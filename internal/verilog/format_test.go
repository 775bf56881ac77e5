package verilog

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestHexBits(t *testing.T) {
	tests := []struct {
		in   float32
		want string
	}{
		{0, "0"},
		{1, "3f800000"},
		{2, "40000000"},
		{-1.5, "bfc00000"},
		{float32(math.Copysign(0, -1)), "80000000"},
		{math.SmallestNonzeroFloat32, "1"},
		{float32(math.Inf(1)), "7f800000"},
	}

	for _, tt := range tests {
		if got := HexBits(tt.in); got != tt.want {
			t.Errorf("HexBits(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestHexBits_RoundTrip(t *testing.T) {
	values := []float32{
		0,
		float32(math.Copysign(0, -1)),
		1,
		-100,
		99.99999,
		math.MaxFloat32,
		-math.MaxFloat32,
		math.SmallestNonzeroFloat32,
		float32(math.Inf(1)),
		float32(math.Inf(-1)),
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for range 10000 {
		values = append(values, math.Float32frombits(rng.Uint32()))
	}

	for _, f := range values {
		got, err := FromHexBits(HexBits(f))
		if err != nil {
			t.Fatalf("FromHexBits(HexBits(%v)): %v", f, err)
		}

		// Compare bits so NaN payloads and signed zeros count too.
		if math.Float32bits(got) != math.Float32bits(f) {
			t.Fatalf("round trip of %08x gave %08x", math.Float32bits(f), math.Float32bits(got))
		}
	}
}

func TestFromHexBits_AcceptsLiteralPrefix(t *testing.T) {
	got, err := FromHexBits("32'h3f800000")
	if err != nil {
		t.Fatalf("FromHexBits: %v", err)
	}

	if got != 1 {
		t.Errorf("FromHexBits = %v; want 1", got)
	}
}

func TestFromHexBits_Invalid(t *testing.T) {
	for _, in := range []string{"", "xyz", "1ffffffff", "0x3f800000"} {
		if _, err := FromHexBits(in); err == nil {
			t.Errorf("FromHexBits(%q) = nil error; want error", in)
		}
	}
}

func TestFormatScalar(t *testing.T) {
	tests := []struct {
		name  string
		array string
		value float32
		index int
		mode  Mode
		want  string
	}{
		{"hex zero", BiasArray, 0, 3, Hex, "test_bias[3] = '{32'h0};"},
		{"hex two", OutputArray, 2, 0, Hex, "test_output[0] = '{32'h40000000};"},
		{"float zero", BiasArray, 0, 3, Float, "test_bias[3] = '{0.0};"},
		{"float fraction", OutputArray, -1.5, 7, Float, "test_output[7] = '{-1.5};"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatScalar(tt.array, tt.value, tt.index, tt.mode); got != tt.want {
				t.Errorf("FormatScalar = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestFormatVector(t *testing.T) {
	tests := []struct {
		name   string
		values []float32
		start  int
		mode   Mode
		want   string
	}{
		{
			"hex pair",
			[]float32{1, 1},
			0,
			Hex,
			"test_input[0:1] = '{32'h3f800000, 32'h3f800000};",
		},
		{
			"hex offset",
			[]float32{1, -1.5, 0},
			6,
			Hex,
			"test_input[6:8] = '{32'h3f800000, 32'hbfc00000, 32'h0};",
		},
		{
			"single element keeps range form",
			[]float32{2},
			4,
			Hex,
			"test_input[4:4] = '{32'h40000000};",
		},
		{
			"float",
			[]float32{1, 0.25, -12.5},
			3,
			Float,
			"test_input[3:5] = '{1.0, 0.25, -12.5};",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatVector(InputArray, tt.values, tt.start, tt.mode); got != tt.want {
				t.Errorf("FormatVector = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestDecimal(t *testing.T) {
	tests := []struct {
		in   float32
		want string
	}{
		{1, "1.0"},
		{-100, "-100.0"},
		{0.1, "0.1"},
		{1e30, "1e+30"},
		{float32(math.Inf(1)), "+Inf"},
		{float32(math.NaN()), "NaN"},
	}

	for _, tt := range tests {
		if got := decimal(tt.in); got != tt.want {
			t.Errorf("decimal(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"hex", Hex, false},
		{"HEX", Hex, false},
		{" float ", Float, false},
		{"decimal", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseMode(%q) error = %v; wantErr %v", tt.in, err, tt.wantErr)
		}

		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMode(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}

	if Hex.String() != "hex" || Float.String() != "float" {
		t.Errorf("Mode.String() = %q/%q", Hex.String(), Float.String())
	}
}
