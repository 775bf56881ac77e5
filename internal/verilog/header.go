package verilog

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/example/convtestgen/internal/testvec"
)

// Array names declared in the header.
const (
	InputArray   = "test_input"
	WeightsArray = "test_weights"
	BiasArray    = "test_bias"
	OutputArray  = "test_output"
)

const (
	debugBegin = "//############ DEBUG ############"
	debugEnd   = "//############ END DEBUG ############"
)

// Layout fixes the shape of the generated header.
type Layout struct {
	Guard        string
	VectorLength int
	NumTests     int
	Debug        bool
}

// HeaderWriter emits the header line by line. The first write error is kept
// and every later call becomes a no-op; check Err or the result of End.
type HeaderWriter struct {
	bw      *bufio.Writer
	layout  Layout
	n       int64
	err     error
	begun   bool
	ended   bool
	written int
}

func NewHeaderWriter(w io.Writer, layout Layout) *HeaderWriter {
	return &HeaderWriter{
		bw:     bufio.NewWriter(w),
		layout: layout,
	}
}

// Begin writes the header guard, the four array declarations and
// "initial begin".
func (hw *HeaderWriter) Begin() error {
	if hw.begun {
		return errors.New("verilog: Begin called twice")
	}
	hw.begun = true

	flat := hw.layout.VectorLength * hw.layout.NumTests
	hw.line("`ifndef " + hw.layout.Guard)
	hw.line("`define " + hw.layout.Guard)
	hw.line(declare(InputArray, flat))
	hw.line(declare(WeightsArray, flat))
	hw.line(declare(BiasArray, hw.layout.NumTests))
	hw.line(declare(OutputArray, hw.layout.NumTests))
	hw.line("initial begin")
	return hw.err
}

// WriteCase writes the assignments for test case index. Input and weights land
// at index*VectorLength; bias and output at index.
func (hw *HeaderWriter) WriteCase(index int, c testvec.Case) error {
	if hw.err != nil {
		return hw.err
	}
	if !hw.begun || hw.ended {
		return errors.New("verilog: WriteCase outside Begin/End")
	}
	if index < 0 || index >= hw.layout.NumTests {
		return fmt.Errorf("verilog: case index %d out of range [0, %d)", index, hw.layout.NumTests)
	}
	if len(c.Input) != hw.layout.VectorLength || len(c.Weights) != hw.layout.VectorLength {
		return fmt.Errorf(
			"verilog: case %d has %d inputs and %d weights, want %d",
			index,
			len(c.Input),
			len(c.Weights),
			hw.layout.VectorLength,
		)
	}

	hw.assignments(index, c, Hex)
	if hw.layout.Debug {
		hw.line(debugBegin)
		hw.assignments(index, c, Float)
		hw.line(debugEnd)
	}
	if hw.err == nil {
		hw.written++
	}
	return hw.err
}

// End closes the initial block and the header guard and flushes.
func (hw *HeaderWriter) End() error {
	if !hw.begun {
		return errors.New("verilog: End called before Begin")
	}
	if hw.ended {
		return errors.New("verilog: End called twice")
	}
	hw.ended = true

	hw.line("end")
	hw.line("`endif")
	if hw.err == nil {
		if err := hw.bw.Flush(); err != nil {
			hw.err = fmt.Errorf("verilog: flush: %w", err)
		}
	}
	return hw.err
}

func (hw *HeaderWriter) Err() error { return hw.err }

// BytesWritten counts bytes handed to the buffer, flushed or not.
func (hw *HeaderWriter) BytesWritten() int64 { return hw.n }

// CasesWritten counts cases accepted by WriteCase.
func (hw *HeaderWriter) CasesWritten() int { return hw.written }

func (hw *HeaderWriter) assignments(index int, c testvec.Case, mode Mode) {
	start := index * hw.layout.VectorLength
	hw.line(FormatVector(InputArray, c.Input, start, mode))
	hw.line(FormatVector(WeightsArray, c.Weights, start, mode))
	hw.line(FormatScalar(BiasArray, c.Bias, index, mode))
	hw.line(FormatScalar(OutputArray, c.Output, index, mode))
}

func (hw *HeaderWriter) line(s string) {
	if hw.err != nil {
		return
	}
	n, err := hw.bw.WriteString(s)
	hw.n += int64(n)
	if err == nil {
		err = hw.bw.WriteByte('\n')
		if err == nil {
			hw.n++
		}
	}
	if err != nil {
		hw.err = fmt.Errorf("verilog: write: %w", err)
	}
}

func declare(name string, size int) string {
	return fmt.Sprintf("reg [31:0] %s [%d];", name, size)
}
