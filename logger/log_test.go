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

package logger

import (
	"strings"
	"testing"

	"github.com/sysdarft/sysdarft/test"
)

func TestLogger(t *testing.T) {
	l := newLogger(100)

	s := &strings.Builder{}
	l.write(s)
	test.Equate(t, s.String(), "")

	l.log("test", "this is a test")
	s.Reset()
	l.write(s)
	test.Equate(t, s.String(), "test: this is a test\n")

	l.logf("test2", "this is %s", "another test")
	s.Reset()
	l.write(s)
	test.Equate(t, s.String(), "test: this is a test\ntest2: this is another test\n")
}

func TestRepeats(t *testing.T) {
	l := newLogger(100)

	l.log("test", "same detail")
	l.log("test", "same detail")
	l.log("test", "same detail")

	s := &strings.Builder{}
	l.write(s)
	test.Equate(t, s.String(), "test: same detail (repeat x3)\n")
}

func TestTail(t *testing.T) {
	l := newLogger(100)

	l.log("test", "one")
	l.log("test", "two")
	l.log("test", "three")

	s := &strings.Builder{}
	l.tail(s, 2)
	test.Equate(t, s.String(), "test: two\ntest: three\n")

	// a tail longer than the log is capped
	s.Reset()
	l.tail(s, 100)
	test.Equate(t, s.String(), "test: one\ntest: two\ntest: three\n")
}
