// Package display implements the display task rendering menu screens
// into a text framebuffer presented on panels.
package display

import (
	"fmt"
	"strings"
)

// Framebuffer geometry in characters.
const (
	Rows = 5
	Cols = 18
)

// Frame is a text framebuffer.
type Frame struct {
	cells [Rows][Cols]byte
}

// NewFrame creates a blank Frame.
func NewFrame() *Frame {
	f := &Frame{}
	f.Clear()
	return f
}

// Clear blanks the frame.
func (f *Frame) Clear() {
	for r := range f.cells {
		for c := range f.cells[r] {
			f.cells[r][c] = ' '
		}
	}
}

// Print writes s at row, col. Text outside the frame is clipped and
// non-printable characters are replaced.
func (f *Frame) Print(row, col int, s string) {
	if row < 0 || row >= Rows {
		return
	}
	c := col
	for _, r := range s {
		if c >= Cols {
			break
		}
		if c >= 0 {
			ch := byte('?')
			if r >= 0x20 && r <= 0x7e {
				ch = byte(r)
			}
			f.cells[row][c] = ch
		}
		c++
	}
}

// Printf formats at row, col.
func (f *Frame) Printf(row, col int, format string, args ...interface{}) {
	f.Print(row, col, fmt.Sprintf(format, args...))
}

// ClearRow blanks a row from col to the end.
func (f *Frame) ClearRow(row, col int) {
	f.Print(row, col, strings.Repeat(" ", Cols))
}

// Line returns a row as string.
func (f *Frame) Line(row int) string {
	if row < 0 || row >= Rows {
		return ""
	}
	return string(f.cells[row][:])
}

// Lines returns all rows.
func (f *Frame) Lines() []string {
	lines := make([]string, Rows)
	for r := range lines {
		lines[r] = f.Line(r)
	}
	return lines
}

// String implements fmt.Stringer.
func (f *Frame) String() string {
	return strings.Join(f.Lines(), "\n")
}
