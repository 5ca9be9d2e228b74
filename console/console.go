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

// Package console is the interactive shell of the emulator: a
// line-oriented REPL with history and tab completion, reading commands
// that load images, run or single-step the machine, and inspect its
// state.
package console

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/sysdarft/sysdarft/assembler"
	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/disassembly"
	"github.com/sysdarft/sysdarft/hardware"
	"github.com/sysdarft/sysdarft/hardware/registers"
	"github.com/sysdarft/sysdarft/logger"
	"github.com/sysdarft/sysdarft/modules"
	"github.com/sysdarft/sysdarft/prefs"
)

const prompt = "(sysdarft) "

// Console is the interactive shell.
type Console struct {
	m    *hardware.Machine
	term Terminal
	cmds *Commands

	mods *modules.Registry
	dsk  *prefs.Disk

	quit bool
}

// NewConsole is the preferred method of initialisation for the Console
// type. The prefs argument may be nil.
func NewConsole(m *hardware.Machine, term Terminal, dsk *prefs.Disk) *Console {
	cns := &Console{
		m:    m,
		term: term,
		cmds: NewCommands(),
		mods: modules.NewRegistry(),
		dsk:  dsk,
	}

	m.SetEventHandler(cns.mods.Event)
	term.RegisterTabCompletion(cns.cmds)

	return cns
}

// Run the console until the user quits. The returned error is nil for
// an orderly quit.
func (cns *Console) Run() error {
	if err := cns.term.Initialise(); err != nil {
		return err
	}
	defer cns.term.CleanUp()
	defer cns.mods.Close()

	for !cns.quit {
		line, err := cns.term.TermRead(prompt)
		if err != nil {
			if curated.Is(err, UserInterrupt) {
				cns.term.TermPrintLine(StyleFeedback, "use QUIT to leave the console")
				continue
			}
			if curated.Is(err, UserAbort) {
				return nil
			}
			return err
		}

		if err := cns.dispatch(line); err != nil {
			cns.term.TermPrintLine(StyleError, err.Error())
		}
	}

	return nil
}

func (cns *Console) dispatch(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	args := fields[1:]

	switch strings.ToUpper(fields[0]) {
	case "HELP":
		return cns.cmdHelp(args)
	case "LOAD":
		return cns.cmdLoad(args)
	case "ASSEMBLE":
		return cns.cmdAssemble(args)
	case "RUN":
		return cns.cmdRun()
	case "STEP":
		return cns.cmdStep(args)
	case "REGISTERS":
		return cns.cmdRegisters()
	case "MEMORY":
		return cns.cmdMemory(args)
	case "DISASM":
		return cns.cmdDisasm(args)
	case "INT":
		return cns.cmdInt(args)
	case "MODULE":
		return cns.cmdModule(args)
	case "VIZ":
		return cns.cmdViz(args)
	case "LOG":
		return cns.cmdLog()
	case "PREFS":
		return cns.cmdPrefs()
	case "RESET":
		cns.m.Reset()
		return nil
	case "QUIT":
		cns.quit = true
		return nil
	}

	return curated.Errorf("console: %v", fmt.Sprintf("unknown command %q", fields[0]))
}

// parse a numeric argument. accepts decimal and 0x prefixed hex.
func parseNum(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, curated.Errorf("console: %v", fmt.Sprintf("bad number %q", s))
	}
	return v, nil
}

func (cns *Console) cmdHelp(args []string) error {
	if len(args) > 0 {
		h, ok := cns.cmds.Help(args[0])
		if !ok {
			return curated.Errorf("console: %v", fmt.Sprintf("no help for %q", args[0]))
		}
		cns.term.TermPrintLine(StyleHelp, h)
		return nil
	}

	cns.term.TermPrintLine(StyleHelp, strings.Join(cns.cmds.List(), " "))
	return nil
}

func (cns *Console) cmdLoad(args []string) error {
	if len(args) < 1 {
		return curated.Errorf("console: %v", "LOAD requires a filename")
	}

	origin := uint64(0)
	if len(args) > 1 {
		var err error
		if origin, err = parseNum(args[1]); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return curated.Errorf(hardware.LoadError, err)
	}
	if err := cns.m.LoadProgram(data, origin); err != nil {
		return err
	}

	cns.term.TermPrintLine(StyleFeedback,
		fmt.Sprintf("loaded %d bytes from %s", len(data), args[0]))
	return nil
}

func (cns *Console) cmdAssemble(args []string) error {
	if len(args) < 1 {
		return curated.Errorf("console: %v", "ASSEMBLE requires a filename")
	}

	origin := uint64(0)
	if len(args) > 1 {
		var err error
		if origin, err = parseNum(args[1]); err != nil {
			return err
		}
	}

	f, err := os.Open(args[0])
	if err != nil {
		return curated.Errorf(hardware.LoadError, err)
	}
	defer f.Close()

	data, err := assembler.Assemble(f)
	if err != nil {
		return err
	}
	if err := cns.m.LoadProgram(data, origin); err != nil {
		return err
	}

	cns.term.TermPrintLine(StyleFeedback,
		fmt.Sprintf("assembled %d bytes from %s", len(data), args[0]))
	return nil
}

func (cns *Console) cmdRun() error {
	err := cns.m.Run(nil)
	if err != nil {
		return curated.Errorf("console: %v",
			fmt.Sprintf("%v (%s)", err, cns.m.FaultSummary()))
	}

	cns.term.TermPrintLine(StyleFeedback, "machine halted")
	return nil
}

func (cns *Console) cmdStep(args []string) error {
	n := uint64(1)
	if len(args) > 0 {
		var err error
		if n, err = parseNum(args[0]); err != nil {
			return err
		}
	}

	for i := uint64(0); i < n; i++ {
		if err := cns.m.Step(); err != nil {
			return err
		}
		cns.term.TermPrintLine(StyleFeedback, cns.m.CPU.LastResult.String())
	}

	return nil
}

func (cns *Console) cmdRegisters() error {
	p := func(s string) { cns.term.TermPrintLine(StyleFeedback, s) }

	line := strings.Builder{}
	for i := 0; i < registers.NumR64; i++ {
		v, _ := cns.m.Regs.Get(registers.R64, i)
		line.WriteString(fmt.Sprintf("FER%-2d=%016x ", i, v))
		if (i+1)%4 == 0 {
			p(strings.TrimRight(line.String(), " "))
			line.Reset()
		}
	}

	for _, bank := range []struct {
		kind registers.Kind
		num  int
	}{
		{registers.R32, registers.NumR32},
		{registers.R16, registers.NumR16},
		{registers.R8, registers.NumR8},
	} {
		line.Reset()
		for i := 0; i < bank.num; i++ {
			v, _ := cns.m.Regs.Get(bank.kind, i)
			line.WriteString(fmt.Sprintf("%s=%x ", registers.Name(bank.kind, i), v))
		}
		p(strings.TrimRight(line.String(), " "))
	}

	line.Reset()
	for _, idx := range []int{
		registers.IdxSP, registers.IdxSB, registers.IdxCB, registers.IdxDB,
		registers.IdxDP, registers.IdxEB, registers.IdxEP,
	} {
		v, _ := cns.m.Regs.Get(registers.R64, idx)
		line.WriteString(fmt.Sprintf("%s=%x ", registers.Name(registers.R64, idx), v))
	}
	p(strings.TrimRight(line.String(), " "))

	p(fmt.Sprintf("IP=%x FLAGS=%v", cns.m.Regs.IP(), cns.m.Regs.Flags()))
	return nil
}

func (cns *Console) cmdMemory(args []string) error {
	if len(args) < 1 {
		return curated.Errorf("console: %v", "MEMORY requires an address")
	}

	addr, err := parseNum(args[0])
	if err != nil {
		return err
	}

	length := uint64(64)
	if len(args) > 1 {
		if length, err = parseNum(args[1]); err != nil {
			return err
		}
	}

	data, err := cns.m.Mem.Read(addr, length)
	if err != nil {
		return err
	}

	for o := 0; o < len(data); o += 16 {
		line := strings.Builder{}
		line.WriteString(fmt.Sprintf("%08x  ", addr+uint64(o)))
		for i := o; i < o+16 && i < len(data); i++ {
			line.WriteString(fmt.Sprintf("%02x ", data[i]))
		}
		cns.term.TermPrintLine(StyleFeedback, strings.TrimRight(line.String(), " "))
	}

	return nil
}

func (cns *Console) cmdDisasm(args []string) error {
	if len(args) < 2 {
		return curated.Errorf("console: %v", "DISASM requires an address and a length")
	}

	addr, err := parseNum(args[0])
	if err != nil {
		return err
	}
	length, err := parseNum(args[1])
	if err != nil {
		return err
	}

	dsm, err := disassembly.FromMemory(cns.m.Mem, addr, length)
	if dsm != nil {
		for _, e := range dsm.Entries {
			cns.term.TermPrintLine(StyleFeedback, e.String())
		}
	}
	return err
}

func (cns *Console) cmdInt(args []string) error {
	if len(args) < 1 {
		return curated.Errorf("console: %v", "INT requires an interrupt number")
	}

	n, err := parseNum(args[0])
	if err != nil {
		return err
	}

	return cns.m.CPU.Interrupt(n)
}

func (cns *Console) cmdModule(args []string) error {
	if len(args) < 1 {
		return curated.Errorf("console: %v", "MODULE requires a filename")
	}

	mod, err := cns.mods.Load(args[0])
	if err != nil {
		return err
	}

	cns.term.TermPrintLine(StyleFeedback, fmt.Sprintf("loaded module %s", mod.Path))
	return nil
}

func (cns *Console) cmdViz(args []string) error {
	if len(args) < 1 {
		return curated.Errorf("console: %v", "VIZ requires a filename")
	}

	f, err := os.Create(args[0])
	if err != nil {
		return curated.Errorf("console: %v", err)
	}
	defer f.Close()

	memviz.Map(f, cns.m)
	cns.term.TermPrintLine(StyleFeedback, fmt.Sprintf("machine graph written to %s", args[0]))
	return nil
}

func (cns *Console) cmdLog() error {
	s := &strings.Builder{}
	logger.Tail(s, 20)
	for _, l := range strings.Split(strings.TrimRight(s.String(), "\n"), "\n") {
		if l != "" {
			cns.term.TermPrintLine(StyleFeedback, l)
		}
	}
	return nil
}

func (cns *Console) cmdPrefs() error {
	if cns.dsk == nil {
		return curated.Errorf("console: %v", "no preferences loaded")
	}
	for _, l := range strings.Split(strings.TrimRight(cns.dsk.String(), "\n"), "\n") {
		cns.term.TermPrintLine(StyleFeedback, l)
	}
	return nil
}
