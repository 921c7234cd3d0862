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
package objdb

import "fmt"

func errNegativeCount(what string, n int64) error {
	return fmt.Errorf("negative %s count %d", what, n)
}

func errUnexpectedID(want, got Objid) error {
	return fmt.Errorf("object record id %v does not follow expected %v", got, want)
}

func errMalformedHeader(line string) error {
	return fmt.Errorf("malformed object record header %q", line)
}
