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

// Package modules loads extension modules. Modules are Lua scripts with
// a fixed set of entry points:
//
//	initialize()           called once, at load time. required.
//	on_event(name, arg)    called on machine lifecycle events. optional.
//	finalize()             called when the module is unloaded. optional.
//
// A script that does not conform is rejected. There is no reflective
// call surface: the three entry points above are the entire module ABI.
package modules

import (
	"fmt"
	"sync"

	"github.com/sysdarft/sysdarft/curated"
	"github.com/sysdarft/sysdarft/logger"
	lua "github.com/yuin/gopher-lua"
)

// LoadError is the error pattern returned when a module file cannot be
// read or compiled.
const LoadError = "module load error: %v"

// ResolutionError is the error pattern returned when a module does not
// provide a required entry point, or an entry point fails.
const ResolutionError = "module resolution error: %v"

// Module is one loaded extension module.
type Module struct {
	Path  string
	state *lua.LState
}

// Registry owns the loaded modules. Lua states are not goroutine safe
// so all calls into the modules are serialised.
type Registry struct {
	crit    sync.Mutex
	modules []*Module
}

// NewRegistry is the preferred method of initialisation for the
// Registry type.
func NewRegistry() *Registry {
	return &Registry{}
}

// Load a module and run its initialize entry point.
func (reg *Registry) Load(path string) (*Module, error) {
	reg.crit.Lock()
	defer reg.crit.Unlock()

	state := lua.NewState()

	if err := state.DoFile(path); err != nil {
		state.Close()
		return nil, curated.Errorf(LoadError, err)
	}

	mod := &Module{Path: path, state: state}

	// initialize is the one required entry point
	fn := state.GetGlobal("initialize")
	if fn.Type() != lua.LTFunction {
		state.Close()
		return nil, curated.Errorf(ResolutionError,
			fmt.Sprintf("%s does not define initialize()", path))
	}

	if err := state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
		state.Close()
		return nil, curated.Errorf(ResolutionError, err)
	}

	reg.modules = append(reg.modules, mod)
	logger.Logf("modules", "loaded %s", path)

	return mod, nil
}

// Event forwards a machine lifecycle event to every loaded module that
// defines on_event. Errors are logged, not returned: a faulty module
// must not take the machine down.
func (reg *Registry) Event(name string, arg uint64) {
	reg.crit.Lock()
	defer reg.crit.Unlock()

	for _, mod := range reg.modules {
		fn := mod.state.GetGlobal("on_event")
		if fn.Type() != lua.LTFunction {
			continue
		}

		err := mod.state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true},
			lua.LString(name), lua.LNumber(arg))
		if err != nil {
			logger.Logf("modules", "%s: on_event: %v", mod.Path, err)
		}
	}
}

// Close unloads every module, running the finalize entry points where
// they exist.
func (reg *Registry) Close() {
	reg.crit.Lock()
	defer reg.crit.Unlock()

	for _, mod := range reg.modules {
		fn := mod.state.GetGlobal("finalize")
		if fn.Type() == lua.LTFunction {
			err := mod.state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
			if err != nil {
				logger.Logf("modules", "%s: finalize: %v", mod.Path, err)
			}
		}
		mod.state.Close()
	}

	reg.modules = nil
}

// Len returns the number of loaded modules.
func (reg *Registry) Len() int {
	reg.crit.Lock()
	defer reg.crit.Unlock()
	return len(reg.modules)
}
