// This file is part of Sysdarft.
//
// Sysdarft is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Sysdarft is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Sysdarft.  If not, see <https://www.gnu.org/licenses/>.

// Package assembler turns assembly text into the byte stream the
// executor consumes. One instruction per line:
//
//	<mnemonic> [.<width>bit] <operand>, <operand>, ...
//
// Operands are wrapped in angle brackets and match the Target grammar:
// registers (%FER0), constants ($(2^32-1)) and memory references
// (*2&64($(255), %FER14, $(4))). The assembler is whitespace tolerant
// and case insensitive; semicolons introduce comments.
//
// The disassembly package is the exact inverse: for any line this
// package accepts, assembling the disassembled literal reproduces the
// same bytes.
package assembler

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/hardware/cpu/instructions"
)

// ExpressionError is the error pattern returned when a textual operand
// does not match any grammar branch or violates a sub-operand
// constraint.
const ExpressionError = "target expression error: %v"

// AssemblyError is the error pattern returned for line level problems:
// unknown mnemonics, missing or surplus width, wrong operand counts.
const AssemblyError = "assembly error: %v"

// AssembleInstruction assembles a single instruction line.
func AssembleInstruction(line string) ([]uint8, error) {
	mnemonic, width, operands, err := splitLine(line)
	if err != nil {
		return nil, err
	}

	defn, ok := instructions.LookupMnemonic(mnemonic)
	if !ok {
		return nil, curated.Errorf(AssemblyError,
			fmt.Sprintf("unknown mnemonic %q", mnemonic))
	}

	var widthByte uint8
	switch defn.Width {
	case instructions.Sized:
		if width == 0 {
			return nil, curated.Errorf(AssemblyError,
				fmt.Sprintf("%s requires a width", mnemonic))
		}
		widthByte = instructions.WidthByteFromBits(width)
		if widthByte == instructions.WidthNone {
			return nil, curated.Errorf(AssemblyError,
				fmt.Sprintf("bad width %d for %s", width, mnemonic))
		}
	case instructions.Unsized:
		if width != 0 {
			return nil, curated.Errorf(AssemblyError,
				fmt.Sprintf("%s does not take a width", mnemonic))
		}
		widthByte = instructions.WidthNone
	case instructions.Float:
		if width != 0 {
			return nil, curated.Errorf(AssemblyError,
				fmt.Sprintf("%s does not take a width", mnemonic))
		}
		widthByte = instructions.WidthFloat
	}

	if len(operands) != defn.Operands {
		return nil, curated.Errorf(AssemblyError,
			fmt.Sprintf("%s takes %d operands, not %d", mnemonic, defn.Operands, len(operands)))
	}

	b := []uint8{uint8(defn.Opcode), widthByte}

	// the width used for operand validation. unsized instructions treat
	// their operands as 64-bit.
	opWidth := widthByte
	if defn.Width == instructions.Unsized {
		opWidth = instructions.Width64
	}

	for _, operand := range operands {
		b, err = encodeOperand(b, operand, opWidth)
		if err != nil {
			return nil, err
		}
	}

	return b, nil
}

// Assemble a whole source text, one instruction per line. Blank lines
// and lines starting with a semicolon are skipped; a trailing comment is
// stripped.
func Assemble(src io.Reader) ([]uint8, error) {
	var out []uint8

	scanner := bufio.NewScanner(src)
	lineNum := 0
	for scanner.Scan() {
		lineNum++

		line := scanner.Text()
		if i := strings.Index(line, ";"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		b, err := AssembleInstruction(line)
		if err != nil {
			return nil, curated.Errorf(AssemblyError,
				fmt.Sprintf("line %d: %v", lineNum, err))
		}
		out = append(out, b...)
	}
	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf(AssemblyError, err)
	}

	return out, nil
}

// splitLine separates a line into mnemonic, width (in bits, zero if
// absent) and operand strings.
func splitLine(line string) (string, int, []string, error) {
	line = strings.TrimSpace(line)

	// mnemonic runs to the first space or the end of the line
	var head string
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		head = line[:i]
		line = strings.TrimSpace(line[i:])
	} else {
		head = line
		line = ""
	}
	mnemonic := strings.ToLower(head)

	// optional width directive
	width := 0
	if strings.HasPrefix(line, ".") {
		var directive string
		if i := strings.IndexAny(line, " \t"); i >= 0 {
			directive = line[:i]
			line = strings.TrimSpace(line[i:])
		} else {
			directive = line
			line = ""
		}

		switch strings.ToLower(directive) {
		case ".8bit":
			width = 8
		case ".16bit":
			width = 16
		case ".32bit":
			width = 32
		case ".64bit":
			width = 64
		default:
			return "", 0, nil, curated.Errorf(AssemblyError,
				fmt.Sprintf("bad width directive %q", directive))
		}
	}

	// operands are angle bracketed and comma separated. memory operands
	// contain commas of their own so only commas outside the brackets
	// separate operands.
	var operands []string
	var field strings.Builder
	depth := 0

	flush := func() error {
		f := strings.TrimSpace(field.String())
		field.Reset()
		if f == "" {
			return nil
		}
		if !strings.HasPrefix(f, "<") || !strings.HasSuffix(f, ">") {
			return curated.Errorf(ExpressionError,
				fmt.Sprintf("operand %q is not angle bracketed", f))
		}
		operands = append(operands, f[1:len(f)-1])
		return nil
	}

	for _, c := range line {
		switch c {
		case '<':
			depth++
			field.WriteRune(c)
		case '>':
			depth--
			field.WriteRune(c)
		case ',':
			if depth == 0 {
				if err := flush(); err != nil {
					return "", 0, nil, err
				}
			} else {
				field.WriteRune(c)
			}
		default:
			field.WriteRune(c)
		}
	}
	if err := flush(); err != nil {
		return "", 0, nil, err
	}

	return mnemonic, width, operands, nil
}
