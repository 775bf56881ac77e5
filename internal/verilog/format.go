// Package verilog renders test vectors as Verilog array-literal assignments
// and writes them into an include header.
package verilog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Mode selects how values are rendered inside an array literal.
type Mode int

const (
	// Hex renders the raw IEEE-754 bits as a 32'h literal.
	Hex Mode = iota
	// Float renders a plain decimal. Debug only, not synthesizable.
	Float
)

func (m Mode) String() string {
	switch m {
	case Hex:
		return "hex"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hex":
		return Hex, nil
	case "float":
		return Float, nil
	default:
		return 0, fmt.Errorf("verilog: invalid mode %q (expected hex|float)", s)
	}
}

// HexBits returns the bit pattern of f as bare lowercase hex. There is no 0x
// prefix and no zero padding; Quartus rejects the prefix.
func HexBits(f float32) string {
	return strconv.FormatUint(uint64(math.Float32bits(f)), 16)
}

// FromHexBits parses the output of HexBits back into a float32.
func FromHexBits(s string) (float32, error) {
	bits, err := strconv.ParseUint(strings.TrimPrefix(s, "32'h"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("verilog: parse hex bits %q: %w", s, err)
	}
	return math.Float32frombits(uint32(bits)), nil
}

// FormatScalar renders name[index] = '{v};
func FormatScalar(name string, v float32, index int, mode Mode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d] = '{", name, index)
	b.WriteString(literal(v, mode))
	b.WriteString("};")
	return b.String()
}

// FormatVector renders name[start:end] = '{v0, v1, ...}; where end is the
// inclusive index of the last element. vs must not be empty.
func FormatVector(name string, vs []float32, start int, mode Mode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d:%d] = '{", name, start, start+len(vs)-1)
	for i, v := range vs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(literal(v, mode))
	}
	b.WriteString("};")
	return b.String()
}

func literal(v float32, mode Mode) string {
	if mode == Float {
		return decimal(v)
	}
	return "32'h" + HexBits(v)
}

// decimal is the shortest text that round-trips v, with ".0" on integral
// values so they still read as reals.
func decimal(v float32) string {
	s := strconv.FormatFloat(float64(v), 'g', -1, 32)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}
