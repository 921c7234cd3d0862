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
package value

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DBIOFailed is the recoverable failure signal raised by the codec on any
// stream or parse error (spec.md §4.1, §7, §9). It unwinds through the
// nested Read*/Write* calls as a panic value; Catch is the single place
// that turns it back into a plain bool, the same shape the C original gets
// from a setjmp/longjmp catch-point.
type DBIOFailed struct {
	Err error
}

func (e DBIOFailed) Error() string { return "dbio_failed: " + e.Err.Error() }

func fail(err error) {
	panic(DBIOFailed{err})
}

// Fail raises the dbio_failed signal from outside this package (e.g. a
// record-format violation detected by the object codec). It shares the
// single catch point with the stream-level failures raised internally.
func Fail(err error) {
	fail(err)
}

// Catch recovers a DBIOFailed panic raised by fn and reports it as ok=false.
// Any other panic propagates unchanged — the codec only arms for its own
// signal.
func Catch(fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isDBIO := r.(DBIOFailed); isDBIO {
				ok = false
				return
			}
			panic(r)
		}
	}()
	fn()
	return true
}

// Context binds the process-wide input or output handle for one load or one
// dump. It is constructed explicitly by the orchestrator rather than held in
// package globals (spec.md §9): the single-threaded invariant makes globals
// work today but would break a future parallel checkpoint.
type Context struct {
	in     *bufio.Reader
	out    *bufio.Writer
	armed  bool // true once bound to an output stream (a "writer"), per spec.md §9
	nbytes int64
}

// NewReader binds r as the process-wide input handle for a load.
func NewReader(r io.Reader) *Context {
	return &Context{in: bufio.NewReaderSize(r, 64*1024)}
}

// NewWriter binds w as the process-wide output handle for a dump.
func NewWriter(w io.Writer) *Context {
	return &Context{out: bufio.NewWriterSize(w, 64*1024), armed: true}
}

// Armed reports whether this Context is bound to an output stream.
func (c *Context) Armed() bool { return c.armed }

// BytesWritten returns the number of bytes written so far, framing lines
// included, used by
// the checkpoint writer to log human-readable dump sizes.
func (c *Context) BytesWritten() int64 { return c.nbytes }

// Flush flushes the buffered writer. It must be called before fsync.
func (c *Context) Flush() {
	if err := c.out.Flush(); err != nil {
		fail(err)
	}
}

func (c *Context) readLineRaw() string {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\n")
		}
		fail(err)
	}
	return strings.TrimRight(line, "\n")
}

func (c *Context) writeLineRaw(s string) {
	n, err := c.out.WriteString(s)
	if err == nil {
		var m int
		m, err = c.out.WriteString("\n")
		n += m
	}
	c.nbytes += int64(n)
	if err != nil {
		fail(err)
	}
}

// ReadLine reads one raw, unframed text line (e.g. the database header).
func (c *Context) ReadLine() string { return c.readLineRaw() }

// WriteLine writes one raw, unframed text line.
func (c *Context) WriteLine(s string) { c.writeLineRaw(s) }

// ReadScanf reads one line and scans it with fmt.Sscanf's format, failing the
// load if the line doesn't match.
func (c *Context) ReadScanf(format string, args ...interface{}) {
	line := c.readLineRaw()
	if _, err := fmt.Sscanf(line, format, args...); err != nil {
		fail(fmt.Errorf("scanf %q against %q: %w", format, line, err))
	}
}

// ReadInt reads a signed integer occupying its own line.
func (c *Context) ReadInt() int64 {
	line := c.readLineRaw()
	i, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil {
		fail(fmt.Errorf("expected integer, got %q: %w", line, err))
	}
	return i
}

// WriteInt writes a signed integer on its own line.
func (c *Context) WriteInt(i int64) { c.writeLineRaw(strconv.FormatInt(i, 10)) }

// ReadObj reads an object reference occupying its own line.
func (c *Context) ReadObj() Objid { return Objid(c.ReadInt()) }

// WriteObj writes an object reference on its own line.
func (c *Context) WriteObj(o Objid) { c.WriteInt(int64(o)) }

// ReadString reads a length-prefixed string: the length on its own line,
// then that many raw bytes, then a trailing newline the writer adds for
// readability of the surrounding file.
func (c *Context) ReadString() string {
	n := c.ReadInt()
	if n < 0 {
		fail(fmt.Errorf("negative string length %d", n))
	}
	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(c.in, buf); err != nil {
			fail(err)
		}
	}
	// consume the writer's trailing newline
	if _, err := c.in.ReadByte(); err != nil {
		fail(err)
	}
	return string(buf)
}

// WriteString writes s length-prefixed followed by its raw bytes.
func (c *Context) WriteString(s string) {
	c.WriteInt(int64(len(s)))
	n, err := c.out.WriteString(s)
	c.nbytes += int64(n)
	if err != nil {
		fail(err)
	}
	c.writeLineRaw("")
}

// ReadInternedString and WriteInternedString use the identical wire format
// as ReadString/WriteString. The distinction spec.md §4.1 draws between
// "interned" and "ephemeral" strings is about which collaborator pools the
// returned Go string afterwards (the string-interning pool, out of scope
// here per spec.md §1) — the codec itself writes the same bytes either way.
func (c *Context) ReadInternedString() string    { return c.ReadString() }
func (c *Context) WriteInternedString(s string)  { c.WriteString(s) }

// ReadVar reads a tag-dispatched compound value.
func (c *Context) ReadVar() Var {
	switch Tag(c.ReadInt()) {
	case TagInt:
		return Int(c.ReadInt())
	case TagObj:
		return Obj(c.ReadObj())
	case TagStr:
		return Str(c.ReadString())
	case TagList:
		n := c.ReadInt()
		if n < 0 {
			fail(fmt.Errorf("negative list length %d", n))
		}
		items := make([]Var, n)
		for i := range items {
			items[i] = c.ReadVar()
		}
		return List(items)
	default:
		fail(fmt.Errorf("unknown var tag"))
		return Var{}
	}
}

// WriteVar writes a tag-dispatched compound value.
func (c *Context) WriteVar(v Var) {
	c.WriteInt(int64(v.Tag()))
	switch v.Tag() {
	case TagInt:
		c.WriteInt(v.AsInt())
	case TagObj:
		c.WriteObj(v.AsObj())
	case TagStr:
		c.WriteString(v.AsStr())
	case TagList:
		items := v.AsList()
		c.WriteInt(int64(len(items)))
		for _, e := range items {
			c.WriteVar(e)
		}
	}
}
