// Package partition decides which image rows each render worker processes.
//
// Two policies are available. Static splits the rows into one contiguous range
// per worker up front; the last worker absorbs the remainder of the division.
// Dynamic hands out one row at a time from a shared atomic cursor, so workers
// that finish cheap rows early keep claiming more.
//
// Both policies satisfy the same contract: across all workers every row in
// [0, height) is assigned exactly once.
package partition

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
)

// ErrUnknownPolicy is returned by ParsePolicy for unrecognized names.
var ErrUnknownPolicy = errors.New("partition: unknown policy")

// Policy selects the row assignment strategy.
type Policy int

const (
	Static Policy = iota
	Dynamic
)

// Policies lists every known policy.
var Policies = []Policy{Static, Dynamic}

// ParsePolicy maps "static" or "dynamic" (case-insensitive) to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "static":
		return Static, nil
	case "dynamic":
		return Dynamic, nil
	}
	return 0, fmt.Errorf("%w %q (want static or dynamic)", ErrUnknownPolicy, s)
}

// Valid reports whether p is one of the known policies.
func (p Policy) Valid() bool {
	return p == Static || p == Dynamic
}

func (p Policy) String() string {
	switch p {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// RowRange is the half-open row interval [Start, End).
type RowRange struct {
	Start int
	End   int
}

// Len returns the number of rows in r, or 0 when r is empty.
func (r RowRange) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Empty reports whether r holds no rows.
func (r RowRange) Empty() bool {
	return r.Len() == 0
}

// Source yields the row assignments of a single worker. A Source is used by
// one goroutine only.
type Source interface {
	// Next returns the next assignment, or false once the worker is done.
	Next() (RowRange, bool)
}

// Partitioner creates the per-worker sources of one render.
type Partitioner interface {
	Source(worker int) Source
}

// New returns the partitioner for policy over height rows and threads workers.
// height and threads must be positive.
func New(policy Policy, height, threads int) (Partitioner, error) {
	if height <= 0 {
		return nil, fmt.Errorf("partition: height %d must be positive", height)
	}
	if threads <= 0 {
		return nil, fmt.Errorf("partition: threads %d must be positive", threads)
	}
	switch policy {
	case Static:
		return staticPartitioner{height: height, threads: threads}, nil
	case Dynamic:
		return &dynamicPartitioner{height: height, cursor: new(Cursor)}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownPolicy, policy)
}

// =============================================================================
// Static
// =============================================================================

// StaticRange returns the rows of worker out of threads workers: an equal
// share of height/threads rows, with the last worker running to height.
// When threads > height the early workers get empty ranges.
func StaticRange(height, threads, worker int) RowRange {
	share := height / threads
	start := share * worker
	end := start + share
	if worker == threads-1 {
		end = height
	}
	return RowRange{Start: start, End: end}
}

type staticPartitioner struct {
	height  int
	threads int
}

func (p staticPartitioner) Source(worker int) Source {
	return &staticSource{r: StaticRange(p.height, p.threads, worker)}
}

type staticSource struct {
	r    RowRange
	done bool
}

func (s *staticSource) Next() (RowRange, bool) {
	if s.done || s.r.Empty() {
		return RowRange{}, false
	}
	s.done = true
	return s.r, true
}

// =============================================================================
// Dynamic
// =============================================================================

// Cursor is the shared next-row counter of the dynamic policy.
type Cursor struct {
	next atomic.Int64
}

// Claim atomically takes the next row index and advances the cursor.
// Indices beyond the last row mean no work is left.
func (c *Cursor) Claim() int {
	return int(c.next.Add(1) - 1)
}

// Peek returns the next index Claim would hand out.
func (c *Cursor) Peek() int {
	return int(c.next.Load())
}

type dynamicPartitioner struct {
	height int
	cursor *Cursor
}

func (p *dynamicPartitioner) Source(int) Source {
	return dynamicSource{height: p.height, cursor: p.cursor}
}

type dynamicSource struct {
	height int
	cursor *Cursor
}

func (s dynamicSource) Next() (RowRange, bool) {
	row := s.cursor.Claim()
	if row >= s.height {
		return RowRange{}, false
	}
	return RowRange{Start: row, End: row + 1}, true
}
