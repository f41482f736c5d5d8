package partition

import (
	"errors"
	"sync"
	"testing"
)

// =============================================================================
// Policy Tests
// =============================================================================

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"static", Static, false},
		{"dynamic", Dynamic, false},
		{"Dynamic", Dynamic, false},
		{" STATIC ", Static, false},
		{"", 0, true},
		{"guided", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownPolicy) {
				t.Errorf("ParsePolicy(%q) error = %v, want ErrUnknownPolicy", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestPolicy_String(t *testing.T) {
	if Static.String() != "static" || Dynamic.String() != "dynamic" {
		t.Errorf("String() = %q, %q", Static, Dynamic)
	}
	if Policy(7).Valid() {
		t.Error("Policy(7).Valid() = true")
	}
	if Policy(7).String() != "Policy(7)" {
		t.Errorf("Policy(7).String() = %q", Policy(7).String())
	}
}

func TestNew_Rejects(t *testing.T) {
	if _, err := New(Static, 0, 4); err == nil {
		t.Error("New(height=0) error = nil")
	}
	if _, err := New(Static, 10, 0); err == nil {
		t.Error("New(threads=0) error = nil")
	}
	if _, err := New(Policy(9), 10, 2); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("New(Policy(9)) error = %v, want ErrUnknownPolicy", err)
	}
}

// =============================================================================
// Static Tests
// =============================================================================

func TestStaticRange(t *testing.T) {
	tests := []struct {
		height, threads, worker int
		want                    RowRange
	}{
		{720, 4, 0, RowRange{0, 180}},
		{720, 4, 3, RowRange{540, 720}},
		{10, 3, 0, RowRange{0, 3}},
		{10, 3, 1, RowRange{3, 6}},
		{10, 3, 2, RowRange{6, 10}}, // last worker absorbs the remainder
		{2, 4, 0, RowRange{0, 0}},
		{2, 4, 3, RowRange{0, 2}},
		{1, 1, 0, RowRange{0, 1}},
	}
	for _, tt := range tests {
		got := StaticRange(tt.height, tt.threads, tt.worker)
		if got != tt.want {
			t.Errorf("StaticRange(%d, %d, %d) = %v, want %v", tt.height, tt.threads, tt.worker, got, tt.want)
		}
	}
}

func TestStatic_Completeness(t *testing.T) {
	for height := 1; height <= 40; height++ {
		for threads := 1; threads <= 50; threads++ {
			p, err := New(Static, height, threads)
			if err != nil {
				t.Fatalf("New(%d, %d) error = %v", height, threads, err)
			}
			seen := make([]int, height)
			for w := 0; w < threads; w++ {
				src := p.Source(w)
				for r, ok := src.Next(); ok; r, ok = src.Next() {
					for row := r.Start; row < r.End; row++ {
						seen[row]++
					}
				}
			}
			for row, n := range seen {
				if n != 1 {
					t.Fatalf("height=%d threads=%d: row %d assigned %d times", height, threads, row, n)
				}
			}
		}
	}
}

func TestStaticSource_SingleAssignment(t *testing.T) {
	p, _ := New(Static, 9, 3)
	src := p.Source(1)
	r, ok := src.Next()
	if !ok || r != (RowRange{3, 6}) {
		t.Fatalf("Next() = %v, %v; want [3,6), true", r, ok)
	}
	if _, ok := src.Next(); ok {
		t.Error("second Next() = true, want false")
	}
}

func TestStaticSource_EmptyRange(t *testing.T) {
	p, _ := New(Static, 2, 5)
	if r, ok := p.Source(0).Next(); ok {
		t.Errorf("Source(0).Next() = %v, true; want no work", r)
	}
}

// =============================================================================
// Dynamic Tests
// =============================================================================

func TestCursor_Claim(t *testing.T) {
	var c Cursor
	for want := 0; want < 5; want++ {
		if got := c.Claim(); got != want {
			t.Errorf("Claim() = %d, want %d", got, want)
		}
	}
	if c.Peek() != 5 {
		t.Errorf("Peek() = %d, want 5", c.Peek())
	}
}

func TestDynamic_SingleRowAssignments(t *testing.T) {
	p, _ := New(Dynamic, 3, 2)
	src := p.Source(0)
	for want := 0; want < 3; want++ {
		r, ok := src.Next()
		if !ok || r != (RowRange{want, want + 1}) {
			t.Fatalf("Next() = %v, %v; want [%d,%d)", r, ok, want, want+1)
		}
	}
	if _, ok := p.Source(1).Next(); ok {
		t.Error("Next() after exhaustion = true, want false")
	}
}

func TestDynamic_ConcurrentCompleteness(t *testing.T) {
	for _, tc := range []struct{ height, workers int }{
		{1, 1}, {7, 32}, {720, 8}, {1000, 64},
	} {
		p, err := New(Dynamic, tc.height, tc.workers)
		if err != nil {
			t.Fatal(err)
		}

		claims := make([][]int, tc.workers)
		var wg sync.WaitGroup
		for w := 0; w < tc.workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				src := p.Source(w)
				for r, ok := src.Next(); ok; r, ok = src.Next() {
					claims[w] = append(claims[w], r.Start)
				}
			}(w)
		}
		wg.Wait()

		seen := make([]int, tc.height)
		for _, rows := range claims {
			for _, row := range rows {
				seen[row]++
			}
		}
		for row, n := range seen {
			if n != 1 {
				t.Errorf("height=%d workers=%d: row %d claimed %d times", tc.height, tc.workers, row, n)
			}
		}
	}
}
