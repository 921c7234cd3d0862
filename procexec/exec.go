/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package procexec

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/launix-de/NonLockingReadMap"
)

// Config is the fixed configuration for the subprocess collaborator: the
// directory all argv[0]s must resolve under (spec.md §4.6: "the subprocess
// binary root is a fixed configured directory").
type Config struct {
	Root string
}

// Result is the triple the suspended caller is resumed with on child
// termination (spec.md §4.6).
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// entry is the pid-keyed registry record. The teacher's own hot-path
// visibility set (storage/transaction.go) reaches for
// NonLockingReadMap for the same reason this registry does: lookups happen
// from an async wait goroutine concurrently with new spawns from the
// caller, and spawns vastly outnumber the registry being walked in full.
type entry struct {
	pid  int
	done chan Result
}

// GetKey and ComputeSize must use value receivers: NonLockingReadMap's
// generic constraint is satisfied by entry itself (the map stores *entry
// internally but requires entry, not *entry, to implement KeyGetter).
func (e entry) GetKey() int       { return e.pid }
func (e entry) ComputeSize() uint { return 32 }

// Collaborator owns the pid registry for one configured root directory.
type Collaborator struct {
	cfg      Config
	registry NonLockingReadMap.NonLockingReadMap[entry, int]
}

func New(cfg Config) *Collaborator {
	return &Collaborator{cfg: cfg, registry: NonLockingReadMap.New[entry, int]()}
}

// Spawn validates argv, captures the child's stdout and stderr into buffers,
// sets a fixed minimal environment, starts the child, and registers it by
// pid. The child's stdin is not connected to the caller; it reads from the
// null device. It returns a channel the
// caller receives from to represent "task suspended until SIGCHLD" — the
// channel delivers exactly one Result, from a background goroutine that
// waits on the child and then resumes the caller (spec.md §4.6).
func (c *Collaborator) Spawn(argv []string) (<-chan Result, error) {
	if err := ValidateArgv(argv); err != nil {
		return nil, err
	}
	bin := filepath.Join(c.cfg.Root, argv[0])
	if rel, err := filepath.Rel(c.cfg.Root, bin); err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return nil, fmt.Errorf("procexec: %q escapes subprocess root %q", argv[0], c.cfg.Root)
	}

	cmd := exec.Command(bin, argv[1:]...)
	cmd.Env = []string{"PATH=/usr/bin:/bin"}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("procexec: start %q: %w", argv[0], err)
	}

	done := make(chan Result, 1)
	e := &entry{pid: cmd.Process.Pid, done: done}
	c.registry.Set(e)

	go func() {
		waitErr := cmd.Wait()
		exitCode := 0
		if waitErr != nil {
			if exitErr, isExit := waitErr.(*exec.ExitError); isExit {
				exitCode = exitErr.ExitCode()
			} else {
				exitCode = -1
			}
		}
		c.registry.Remove(e.pid)
		done <- Result{ExitCode: exitCode, Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
		close(done)
	}()

	return done, nil
}

// Lookup reports whether pid currently names a live child of this
// collaborator, for diagnostics.
func (c *Collaborator) Lookup(pid int) bool {
	return c.registry.Get(pid) != nil
}
