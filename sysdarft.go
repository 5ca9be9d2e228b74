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

package main

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/sysdarft/sysdarft/console"
	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/disassembly"
	"github.com/sysdarft/sysdarft/display"
	"github.com/sysdarft/sysdarft/display/terminal"
	"github.com/sysdarft/sysdarft/gui/sdl"
	"github.com/sysdarft/sysdarft/hardware"
	"github.com/sysdarft/sysdarft/hardware/cpu"
	"github.com/sysdarft/sysdarft/logger"
	"github.com/sysdarft/sysdarft/modalflag"
	"github.com/sysdarft/sysdarft/performance"
	"github.com/sysdarft/sysdarft/prefs"
	"github.com/sysdarft/sysdarft/statsview"
	"github.com/sysdarft/sysdarft/wavwriter"
	"golang.org/x/term"
)

// exit codes for the top level process.
const (
	exitSuccess = 0
	exitConfig  = 1
	exitLoad    = 2
	exitRuntime = 3
)

const prefsFile = "sysdarft.prefs"

func main() {
	os.Exit(launch())
}

// exitCode classifies an error into a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}

	switch {
	case curated.Has(err, hardware.LoadError):
		return exitLoad
	case curated.Has(err, cpu.Fault):
		return exitRuntime
	}

	return exitConfig
}

func launch() int {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.AddSubModes("RUN", "DEBUG", "DISASM", "PERFORMANCE")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitSuccess
	case modalflag.ParseError:
		fmt.Fprintf(os.Stderr, "* error: %v\n", err)
		return exitConfig
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)
	case "DEBUG":
		err = debug(md)
	case "DISASM":
		err = disasm(md)
	case "PERFORMANCE":
		err = perform(md)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "* error in %s mode: %v\n", md.Mode(), err)
		return exitCode(err)
	}

	return exitSuccess
}

// loadPrefs reads the prefs file and registers the live values.
func loadPrefs(scale *prefs.Int, bell *prefs.String) (*prefs.Disk, error) {
	dsk := prefs.NewDisk(prefsFile)
	if err := dsk.Add("sdl.scale", scale); err != nil {
		return nil, err
	}
	if err := dsk.Add("bell.record", bell); err != nil {
		return nil, err
	}
	if err := dsk.Load(); err != nil {
		return nil, err
	}
	return dsk, nil
}

// newMachineFromArgs creates a machine and loads the image named on the
// command line.
func newMachineFromArgs(md *modalflag.Modes, memSize uint64) (*hardware.Machine, error) {
	if md.GetArg(0) == "" {
		return nil, curated.Errorf("no image file specified")
	}

	m, err := hardware.NewMachine(memSize)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(md.GetArg(0))
	if err != nil {
		return nil, curated.Errorf(hardware.LoadError, err)
	}
	if err := m.LoadProgram(data, 0); err != nil {
		return nil, err
	}

	return m, nil
}

func run(md *modalflag.Modes) error {
	md.NewMode()
	useSDL := md.AddBool("sdl", false, "present the display in an SDL window")
	memSize := md.AddUint64("mem", 0, "address space size in bytes (0 = default)")
	stats := md.AddBool("statsview", false, "run the statsview server")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	var scale prefs.Int
	var bell prefs.String
	if _, err := loadPrefs(&scale, &bell); err != nil {
		return err
	}

	m, err := newMachineFromArgs(md, *memSize)
	if err != nil {
		return err
	}

	if *stats {
		statsview.Launch(os.Stdout)
	}

	// bell recording
	if path := bell.Get().(string); path != "" {
		aw, werr := wavwriter.New(path)
		if werr != nil {
			return werr
		}
		defer func() {
			if cerr := aw.Close(); cerr != nil {
				logger.Logf("sysdarft", "%v", cerr)
			}
		}()
		m.Display.SetBellHandler(aw.Beep)
	}

	if *useSDL {
		return runSDL(m, float32(scale.Get().(int)))
	}
	return runTerminal(m)
}

// runTerminal presents the display on the controlling terminal. The
// executor runs on this thread; the render and input threads belong to
// the display package.
func runTerminal(m *hardware.Machine) error {
	input, err := terminal.NewInput()
	if err != nil {
		return err
	}
	defer input.CleanUp()

	ui := display.NewUI(m.Display, terminal.NewRenderer(nil), input)
	ui.Initialise()
	defer ui.Cleanup()

	return m.Run(nil)
}

// runSDL presents the display in an SDL window. SDL needs servicing on
// the main thread so the executor moves to a goroutine of its own.
func runSDL(m *hardware.Machine, scale float32) error {
	win, err := sdl.NewWindow(scale)
	if err != nil {
		return err
	}
	defer win.Destroy()

	ui := display.NewUI(m.Display, win, win)
	ui.Initialise()
	defer ui.Cleanup()

	var stop atomic.Bool
	done := make(chan error, 1)
	go func() {
		done <- m.Run(func() (bool, error) {
			return !stop.Load(), nil
		})
	}()

	for win.Service() {
		select {
		case err := <-done:
			return err
		default:
		}
	}

	// window closed. stop the executor and collect its result
	stop.Store(true)
	return <-done
}

func debug(md *modalflag.Modes) error {
	md.NewMode()
	memSize := md.AddUint64("mem", 0, "address space size in bytes (0 = default)")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	var scale prefs.Int
	var bell prefs.String
	dsk, err := loadPrefs(&scale, &bell)
	if err != nil {
		return err
	}

	m, err := hardware.NewMachine(*memSize)
	if err != nil {
		return err
	}

	// an image file is optional in the debugger
	if md.GetArg(0) != "" {
		data, rerr := os.ReadFile(md.GetArg(0))
		if rerr != nil {
			return curated.Errorf(hardware.LoadError, rerr)
		}
		if lerr := m.LoadProgram(data, 0); lerr != nil {
			return lerr
		}
	}

	var t console.Terminal
	if term.IsTerminal(int(os.Stdin.Fd())) {
		t = console.NewColorTerminal()
	} else {
		t = console.NewPlainTerminal(os.Stdin, os.Stdout)
	}

	return console.NewConsole(m, t, dsk).Run()
}

func disasm(md *modalflag.Modes) error {
	md.NewMode()
	origin := md.AddUint64("origin", 0, "address the image would be loaded at (0 = BIOS start)")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	if md.GetArg(0) == "" {
		return curated.Errorf("no image file specified")
	}

	data, err := os.ReadFile(md.GetArg(0))
	if err != nil {
		return curated.Errorf(hardware.LoadError, err)
	}

	if *origin == 0 {
		*origin = 0xc1800
	}

	dsm, err := disassembly.FromBytes(data, *origin)
	if dsm != nil {
		dsm.Write(os.Stdout)
	}
	return err
}

func perform(md *modalflag.Modes) error {
	md.NewMode()
	duration := md.AddString("duration", "5s", "run duration")
	profile := md.AddString("profile", "none", "run through the profiler (cpu|mem|all)")
	memSize := md.AddUint64("mem", 0, "address space size in bytes (0 = default)")
	stats := md.AddBool("statsview", false, "run the statsview server")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	prf, ok := performance.ParseProfile(*profile)
	if !ok {
		return curated.Errorf("bad profile %q", *profile)
	}

	m, err := newMachineFromArgs(md, *memSize)
	if err != nil {
		return err
	}

	if *stats {
		statsview.Launch(os.Stdout)
	}

	return performance.Check(os.Stdout, prf, m, *duration)
}
