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

package curated

import (
	"fmt"
	"strings"
)

// sentinel is the concrete error type of this package. It keeps the
// pattern it was created from so that the emulation can sort errors into
// the machine's fault taxonomy long after they were raised: the
// fetch/dispatch loop asks "is there a memory.Fault anywhere in here?"
// to pick an interrupt vector, the top level asks for cpu.Fault to pick
// an exit code, and the assembler's callers tell an operand grammar
// problem (ExpressionError) from a line level one (AssemblyError).
type sentinel struct {
	pattern string
	values  []interface{}
}

// Errorf creates a new curated error from a pattern and its values.
//
// The pattern serves double duty. It is a fmt format string, and it is
// the identity of the error: Is() and Has() compare patterns, nothing
// else. Packages that raise recognisable errors therefore export their
// patterns as constants (memory.Fault, interrupts.TableError, and so
// on) rather than exporting error values.
func Errorf(pattern string, values ...interface{}) error {
	return sentinel{
		pattern: pattern,
		values:  values,
	}
}

// Error implements the go language error interface.
//
// Formatting is deferred until this call: Errorf() stores the pattern
// and values as they are, which is what keeps the pattern comparable.
func (er sentinel) Error() string {
	s := fmt.Errorf(er.pattern, er.values...).Error()

	// a curated error wrapped in another with the same pattern repeats
	// its message head: "memory fault: memory fault: ...". collapse the
	// repeats, however deep the wrapping went, so each part of the
	// message appears once.
	for {
		i := strings.Index(s, ": ")
		if i < 0 {
			break
		}
		head := s[:i+2]
		if !strings.HasPrefix(s[i+2:], head) {
			break
		}
		s = s[i+2:]
	}

	return s
}

// IsAny checks if the error was created by this package.
func IsAny(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(sentinel)
	return ok
}

// Pattern returns the pattern the error was created with, or the empty
// string for errors foreign to this package. Useful in log messages;
// for control flow prefer Is() and Has().
func Pattern(err error) string {
	if er, ok := err.(sentinel); ok {
		return er.pattern
	}
	return ""
}

// Is checks if the error itself carries the specified pattern. Wrapped
// errors are not considered; for those, use Has().
func Is(err error, pattern string) bool {
	if err == nil {
		return false
	}
	if er, ok := err.(sentinel); ok {
		return er.pattern == pattern
	}
	return false
}

// Has checks if the specified pattern appears anywhere in the error
// chain. The chain is whatever curated errors were passed as values to
// Errorf(), to any depth.
func Has(err error, pattern string) bool {
	if err == nil {
		return false
	}

	er, ok := err.(sentinel)
	if !ok {
		return false
	}

	chain := []sentinel{er}
	for len(chain) > 0 {
		e := chain[len(chain)-1]
		chain = chain[:len(chain)-1]

		if e.pattern == pattern {
			return true
		}
		for _, v := range e.values {
			if w, ok := v.(sentinel); ok {
				chain = append(chain, w)
			}
		}
	}

	return false
}
