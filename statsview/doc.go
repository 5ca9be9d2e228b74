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

// Package statsview serves live runtime statistics over HTTP while the
// emulator runs. It complements the performance package: PERFORMANCE
// mode answers "how many instructions per second", this package shows
// where the memory and goroutines went while that was happening.
//
// The underlying server is "github.com/go-echarts/statsview". It is
// only compiled in when the statsview build tag is given:
//
//	go build -tags statsview
//
// in which case the -statsview flag of the RUN and PERFORMANCE modes
// starts it, with graphs at
//
//	http://localhost:12660/debug/statsview
//
// and the plain pprof endpoints at /debug/pprof/ on the same port.
// Without the tag the package reduces to a stub whose Launch() explains
// itself and does nothing.
package statsview
