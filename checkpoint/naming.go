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
package checkpoint

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Config binds the canonical dump path and the process-lifetime generation
// counter for one running server. It is constructed explicitly and passed
// to Dump, not kept in a package global (spec.md §9).
type Config struct {
	Canonical    string        // the last successful snapshot's path, "D" in spec.md
	Unforked     bool          // build/run selects synchronous CHECKPOINT writes
	RetryBackoff time.Duration // defaults to 60s if zero

	mu         sync.Mutex
	generation uint64
}

func (c *Config) backoff() time.Duration {
	if c.RetryBackoff <= 0 {
		return 60 * time.Second
	}
	return c.RetryBackoff
}

// Generation reports the current generation counter, for tests.
func (c *Config) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// nextTempName implements the naming policy of spec.md §4.5: remove the
// prior checkpoint's orphaned temp name, then pick this attempt's name.
// PANIC dumps never advance the generation counter or touch the canonical
// name.
func (c *Config) nextTempName(reason Reason) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	prior := fmt.Sprintf("%s.#%d#", c.Canonical, c.generation)
	_ = os.Remove(prior)

	if reason == Panic {
		return c.Canonical + ".PANIC"
	}
	c.generation++
	return fmt.Sprintf("%s.#%d#", c.Canonical, c.generation)
}

// correlation ids tag each dump attempt's log lines, so repeated retries of
// a stuck SHUTDOWN dump read as distinct attempts (spec.md §9: "keep it
// observable"). Construction follows the teacher's own low-entropy-safe
// scheme (storage/fast_uuid.go) rather than crypto/rand, since a dump
// shouldn't block on system entropy.
var correlationCounter uint64

func newCorrelationID() uuid.UUID {
	ctr := atomic.AddUint64(&correlationCounter, 1)
	now := uint64(time.Now().UnixNano())
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], ctr)
	binary.LittleEndian.PutUint64(b[8:16], ctr^now^(now<<17))
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return uuid.UUID(b)
}
