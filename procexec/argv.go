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

// Package procexec is the sibling subprocess-exec collaborator (spec.md
// §4.6): it runs a configured binary with pipe-wired I/O and represents the
// caller's suspension until the child exits as a channel receive, the
// Go-idiomatic shape of "task suspended until SIGCHLD, then resumed with the
// triple". Grounded on the teacher's own subprocess launcher,
// storage/scan_helper.go's Estimator.
package procexec

import (
	"fmt"
	"strings"
)

// ValidateArgv rejects any argv element beginning with ".." or containing
// "/." anywhere (spec.md §4.6). It is checked against the literal path
// text, not filepath.Clean'd first — cleaning would silently collapse the
// very segments this rule exists to catch.
func ValidateArgv(argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("procexec: empty argv")
	}
	for _, a := range argv {
		if strings.HasPrefix(a, "..") {
			return fmt.Errorf("procexec: argument %q begins with .. ", a)
		}
		if strings.Contains(a, "/.") {
			return fmt.Errorf("procexec: argument %q contains a forbidden /. segment", a)
		}
	}
	return nil
}
