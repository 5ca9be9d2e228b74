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

package console

import (
	"sort"
	"strings"
)

// the console command set. the help text is keyed by command name.
var commandHelp = map[string]string{
	"HELP":      "print this help, or help for a specific command",
	"LOAD":      "LOAD <file> [origin] - read an assembled image into memory",
	"ASSEMBLE":  "ASSEMBLE <file> [origin] - assemble a source file into memory",
	"RUN":       "start the executor; runs until halt or fault",
	"STEP":      "STEP [n] - execute the next n instructions (default 1)",
	"REGISTERS": "print the register file",
	"MEMORY":    "MEMORY <addr> [len] - hex dump of memory",
	"DISASM":    "DISASM <addr> <len> - disassemble a memory range",
	"INT":       "INT <n> - raise software interrupt n",
	"MODULE":    "MODULE <file> - load a Lua extension module",
	"VIZ":       "VIZ <file> - write a graph of the machine state in dot format",
	"LOG":       "print the most recent log entries",
	"PREFS":     "print the current preference values",
	"RESET":     "reset the machine",
	"QUIT":      "leave the console",
}

// Commands is the command set of the console. It implements the
// TabCompletion interface: repeated completion of the same input cycles
// through the matching commands.
type Commands struct {
	commands []string

	// tab completion state. stub is the input the current candidate
	// list was built from
	stub       string
	candidates []string
	idx        int
}

// NewCommands is the preferred method of initialisation for the
// Commands type.
func NewCommands() *Commands {
	cmds := &Commands{}
	for c := range commandHelp {
		cmds.commands = append(cmds.commands, c)
	}
	sort.Strings(cmds.commands)
	return cmds
}

// List returns the command names in alphabetical order.
func (cmds *Commands) List() []string {
	return cmds.commands
}

// Help returns the help text for a command. The bool return value is
// false if the command is unknown.
func (cmds *Commands) Help(command string) (string, bool) {
	h, ok := commandHelp[strings.ToUpper(command)]
	return h, ok
}

// Complete implements the TabCompletion interface. Only the command
// word is completed; input that already has arguments is returned
// unchanged.
func (cmds *Commands) Complete(input string) string {
	if strings.Contains(strings.TrimSpace(input), " ") {
		return input
	}

	// rebuild the candidate list when the input is not the result of
	// the previous completion
	if cmds.candidates == nil || strings.TrimSpace(input) != cmds.last() {
		cmds.stub = strings.ToUpper(strings.TrimSpace(input))
		cmds.candidates = nil
		cmds.idx = 0
		for _, c := range cmds.commands {
			if strings.HasPrefix(c, cmds.stub) {
				cmds.candidates = append(cmds.candidates, c)
			}
		}
	}

	if len(cmds.candidates) == 0 {
		return input
	}

	s := cmds.candidates[cmds.idx]
	cmds.idx = (cmds.idx + 1) % len(cmds.candidates)
	return s
}

// the candidate handed out by the previous call to Complete().
func (cmds *Commands) last() string {
	if cmds.candidates == nil || len(cmds.candidates) == 0 {
		return ""
	}
	i := cmds.idx - 1
	if i < 0 {
		i = len(cmds.candidates) - 1
	}
	return cmds.candidates[i]
}

// Reset implements the TabCompletion interface.
func (cmds *Commands) Reset() {
	cmds.stub = ""
	cmds.candidates = nil
	cmds.idx = 0
}
