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

package assembler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/hardware/cpu/instructions"
	"github.com/sysdarft/sysdarft/hardware/cpu/target"
	"github.com/sysdarft/sysdarft/hardware/registers"
)

// the grammar of the three operand forms. operand text is uppercased and
// stripped of spaces before matching.
var (
	registerPattern = regexp.MustCompile(`^%([A-Z]+[0-9]*)$`)
	constantPattern = regexp.MustCompile(`^\$\((.*)\)$`)
	memoryPattern   = regexp.MustCompile(`^\*(1|2|4|8|16)(?:&(8|16|32|64))?\((.*),(.*),(.*)\)$`)
)

// encodeOperand appends the binary encoding of one textual operand. The
// width argument is the width byte of the enclosing instruction; it is
// needed to validate the &w suffix on memory operands.
func encodeOperand(b []uint8, operand string, width uint8) ([]uint8, error) {
	operand = strings.ToUpper(strings.ReplaceAll(operand, " ", ""))

	if m := registerPattern.FindStringSubmatch(operand); m != nil {
		return encodeRegister(b, m[1])
	}

	if m := constantPattern.FindStringSubmatch(operand); m != nil {
		return encodeConstant(b, m[1])
	}

	if m := memoryPattern.FindStringSubmatch(operand); m != nil {
		return encodeMemory(b, m, width)
	}

	return nil, curated.Errorf(ExpressionError,
		fmt.Sprintf("%s does not match any operand form", operand))
}

func encodeRegister(b []uint8, name string) ([]uint8, error) {
	kind, idx, ok := registers.Parse(name)
	if !ok {
		return nil, curated.Errorf(ExpressionError,
			fmt.Sprintf("unrecognised register name %%%s", name))
	}
	return target.AppendRegister(b, kind, idx), nil
}

func encodeConstant(b []uint8, expr string) ([]uint8, error) {
	val, signed, err := evaluateConstant(expr)
	if err != nil {
		return nil, err
	}
	return target.AppendConstant(b, val, signed), nil
}

func encodeMemory(b []uint8, m []string, width uint8) ([]uint8, error) {
	ratio, _ := strconv.ParseUint(m[1], 10, 8)
	ratioBCD, ok := target.RatioByte(ratio)
	if !ok {
		return nil, curated.Errorf(ExpressionError,
			fmt.Sprintf("bad memory access ratio %s", m[1]))
	}

	// the optional &w suffix names the access width of the memory
	// operand. it must agree with the instruction width.
	if m[2] != "" {
		bits, _ := strconv.Atoi(m[2])
		if bits != instructions.WidthBits(width) {
			return nil, curated.Errorf(ExpressionError,
				fmt.Sprintf("memory access width &%s disagrees with instruction width %d",
					m[2], instructions.WidthBits(width)))
		}
	}

	b = target.AppendMemoryHeader(b, ratioBCD)

	// sub-operands are restricted to 64-bit registers and constants
	for _, sub := range m[3:6] {
		var err error

		if sm := registerPattern.FindStringSubmatch(sub); sm != nil {
			kind, idx, ok := registers.Parse(sm[1])
			if !ok || kind != registers.R64 {
				return nil, curated.Errorf(ExpressionError,
					fmt.Sprintf("not a 64-bit register: %s", sub))
			}
			b = target.AppendRegister(b, kind, idx)
			continue
		}

		if sm := constantPattern.FindStringSubmatch(sub); sm != nil {
			b, err = encodeConstant(b, sm[1])
			if err != nil {
				return nil, err
			}
			continue
		}

		return nil, curated.Errorf(ExpressionError,
			fmt.Sprintf("bad sub-operand %s inside memory operand", sub))
	}

	return b, nil
}
