// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hev6502/hev6502/cpu"
	"github.com/pkg/errors"
)

func stringToBool(s string) (bool, error) {
	s = strings.ToLower(s)
	switch s {
	case "0", "false", "off":
		return false, nil
	case "1", "true", "on":
		return true, nil
	default:
		return false, errors.Errorf("invalid bool value '%s'", s)
	}
}

// Parse a numeric literal. A '$' or '0x' prefix selects hexadecimal and a
// '%' prefix selects binary. Unprefixed numbers are decimal unless
// 'hexMode' is set.
func parseNumber(s string, hexMode bool) (int, error) {
	base := 10
	if hexMode {
		base = 16
	}

	lit := strings.ToLower(s)
	neg := strings.HasPrefix(lit, "-")
	if neg {
		lit = lit[1:]
	}

	switch {
	case strings.HasPrefix(lit, "$"):
		base, lit = 16, lit[1:]
	case strings.HasPrefix(lit, "0x"):
		base, lit = 16, lit[2:]
	case strings.HasPrefix(lit, "%"):
		base, lit = 2, lit[1:]
	}

	v, err := strconv.ParseInt(lit, base, 32)
	if err != nil {
		return 0, errors.Errorf("invalid number '%s'", s)
	}
	if neg {
		v = -v
	}
	return int(v), nil
}

// Return a one-line description of the register contents.
func registerString(r *cpu.Registers) string {
	return fmt.Sprintf("A=%02X X=%02X Y=%02X PS=[%s] SP=%02X PC=%04X",
		r.A, r.X, r.Y, r.PS, r.SP, r.PC)
}

var hexString = "0123456789ABCDEF"

func addrToBuf(addr uint16, b []byte) {
	b[0] = hexString[(addr>>12)&0xf]
	b[1] = hexString[(addr>>8)&0xf]
	b[2] = hexString[(addr>>4)&0xf]
	b[3] = hexString[addr&0xf]
}

func byteToBuf(v byte, b []byte) {
	b[0] = hexString[(v>>4)&0xf]
	b[1] = hexString[v&0xf]
}

func toPrintableChar(v byte) byte {
	switch {
	case v >= 32 && v < 127:
		return v
	case v >= 160 && v < 255:
		return v - 128
	default:
		return '.'
	}
}

// Word-wrap 's' to lines of at most 'width' characters, indenting each
// line by 'indent' spaces.
func indentWrap(indent int, s string) string {
	const width = 79
	pad := strings.Repeat(" ", indent)

	var b strings.Builder
	n := 0
	for _, w := range strings.Fields(s) {
		switch {
		case n == 0:
			b.WriteString(pad)
			n = indent
		case n+1+len(w) > width:
			b.WriteString("\n")
			b.WriteString(pad)
			n = indent
		default:
			b.WriteString(" ")
			n++
		}
		b.WriteString(w)
		n += len(w)
	}
	return b.String()
}
