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

package console_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sysdarft/sysdarft/assembler"
	"github.com/sysdarft/sysdarft/console"
	"github.com/sysdarft/sysdarft/hardware"
	"github.com/sysdarft/sysdarft/test"
)

// run a console session with scripted input, returning its output.
func session(t *testing.T, input string) string {
	t.Helper()

	m, err := hardware.NewMachine(0)
	test.DemandSuccess(t, err)

	output := &strings.Builder{}
	term := console.NewPlainTerminal(strings.NewReader(input), output)
	cns := console.NewConsole(m, term, nil)

	test.DemandSuccess(t, cns.Run())

	return output.String()
}

func TestQuit(t *testing.T) {
	out := session(t, "QUIT\n")
	test.Equate(t, strings.Contains(out, "(sysdarft)"), true)
}

func TestEOFQuits(t *testing.T) {
	// a closed input stream is an orderly quit
	session(t, "")
}

func TestUnknownCommand(t *testing.T) {
	out := session(t, "FROB\nQUIT\n")
	test.Equate(t, strings.Contains(out, "unknown command"), true)
}

func TestLoadStepRegisters(t *testing.T) {
	prog, err := assembler.AssembleInstruction("mov .64bit <%FER0>, <$(0xAB)>")
	test.DemandSuccess(t, err)

	path := filepath.Join(t.TempDir(), "prog.img")
	test.DemandSuccess(t, os.WriteFile(path, prog, 0644))

	out := session(t, strings.Join([]string{
		"LOAD " + path,
		"STEP",
		"REGISTERS",
		"QUIT",
	}, "\n")+"\n")

	test.Equate(t, strings.Contains(out, "loaded"), true)
	test.Equate(t, strings.Contains(out, "mov .64bit <%FER0>, <$(0xAB)>"), true)
	test.Equate(t, strings.Contains(out, "FER0 =00000000000000ab"), true)
}

func TestAssembleAndDisasm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.asm")
	src := "nop\nhlt\n"
	test.DemandSuccess(t, os.WriteFile(path, []byte(src), 0644))

	out := session(t, strings.Join([]string{
		"ASSEMBLE " + path,
		"DISASM 0xC1800 4",
		"RUN",
		"QUIT",
	}, "\n")+"\n")

	test.Equate(t, strings.Contains(out, "assembled 4 bytes"), true)
	test.Equate(t, strings.Contains(out, "nop"), true)
	test.Equate(t, strings.Contains(out, "hlt"), true)
	test.Equate(t, strings.Contains(out, "machine halted"), true)
}

func TestTabCompletion(t *testing.T) {
	cmds := console.NewCommands()

	// unique prefix completes
	test.Equate(t, cmds.Complete("RU"), "RUN")

	// cycling through candidates with a shared prefix
	cmds.Reset()
	first := cmds.Complete("RE")
	second := cmds.Complete(first)
	test.Equate(t, first, "REGISTERS")
	test.Equate(t, second, "RESET")

	// no candidates leaves the input alone
	cmds.Reset()
	test.Equate(t, cmds.Complete("ZZ"), "ZZ")

	// input with arguments is never completed
	cmds.Reset()
	test.Equate(t, cmds.Complete("LOAD file"), "LOAD file")
}
