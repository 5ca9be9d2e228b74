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

// Package prefs is the configuration reader: typed live values backed
// by a plain text file of "key :: value" lines. Values registered with
// a Disk instance can be loaded, mutated and saved; unknown keys in the
// file are kept and written back so that several program versions can
// share one file.
package prefs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sysdarft/sysdarft/curated"
)

// Error is the error pattern for prefs failures.
const Error = "prefs: %v"

// the separator between key and value in the prefs file.
const separator = " :: "

// Disk connects preference values to a file on disk.
type Disk struct {
	path    string
	entries map[string]pref

	// unknown keys encountered during Load(), preserved by Save()
	orphans map[string]string
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) *Disk {
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
		orphans: make(map[string]string),
	}
}

// Add a preference value under a key.
func (dsk *Disk) Add(key string, p pref) error {
	if strings.Contains(key, separator) {
		return curated.Errorf(Error, fmt.Sprintf("bad key %q", key))
	}
	dsk.entries[key] = p
	return nil
}

// Load values from the prefs file. A missing file is not an error: the
// registered values keep their current state.
func (dsk *Disk) Load() error {
	f, err := os.Open(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return curated.Errorf(Error, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		i := strings.Index(line, separator)
		if i < 0 {
			return curated.Errorf(Error, fmt.Sprintf("bad line %q", line))
		}

		key := line[:i]
		val := line[i+len(separator):]

		if p, ok := dsk.entries[key]; ok {
			if err := p.Set(val); err != nil {
				return err
			}
		} else {
			dsk.orphans[key] = val
		}
	}
	if err := scanner.Err(); err != nil {
		return curated.Errorf(Error, err)
	}

	return nil
}

// Save values to the prefs file. Keys are written in a stable order.
func (dsk *Disk) Save() error {
	keys := make([]string, 0, len(dsk.entries)+len(dsk.orphans))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	for k := range dsk.orphans {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(k)
		s.WriteString(separator)
		if p, ok := dsk.entries[k]; ok {
			s.WriteString(p.String())
		} else {
			s.WriteString(dsk.orphans[k])
		}
		s.WriteString("\n")
	}

	if err := os.WriteFile(dsk.path, []byte(s.String()), 0644); err != nil {
		return curated.Errorf(Error, err)
	}

	return nil
}

// String returns the registered keys and their current values.
func (dsk *Disk) String() string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, separator, dsk.entries[k].String()))
	}
	return s.String()
}
