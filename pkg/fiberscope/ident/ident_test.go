package ident_test

import (
	"sort"
	"sync"
	"testing"

	"github.com/randalmurphal/fiberscope/pkg/fiberscope/ident"
)

func TestFiberIDsStartAtOneAndIncrease(t *testing.T) {
	g := ident.New()
	for want := int64(1); want <= 100; want++ {
		if got := g.NextFiberID(); got != want {
			t.Fatalf("NextFiberID = %d, want %d", got, want)
		}
	}
}

func TestDomainsAreIndependent(t *testing.T) {
	g := ident.New()
	g.NextFiberID()
	g.NextFiberID()
	g.NextFiberID()

	if got := g.NextTaskID(); got != 1 {
		t.Errorf("first NextTaskID = %d, want 1", got)
	}
	if got := g.NextFiberID(); got != 4 {
		t.Errorf("NextFiberID after task allocation = %d, want 4", got)
	}
}

func TestReset(t *testing.T) {
	g := ident.New()
	g.NextFiberID()
	g.NextTaskID()
	g.Reset()
	if got := g.NextFiberID(); got != 1 {
		t.Errorf("NextFiberID after reset = %d, want 1", got)
	}
	if got := g.NextTaskID(); got != 1 {
		t.Errorf("NextTaskID after reset = %d, want 1", got)
	}
}

func TestIsolatedGenerators(t *testing.T) {
	a, b := ident.New(), ident.New()
	a.NextFiberID()
	a.NextFiberID()
	if got := b.NextFiberID(); got != 1 {
		t.Errorf("fresh generator started at %d", got)
	}
}

func TestConcurrentUniqueness(t *testing.T) {
	const (
		workers = 8
		perWork = 500
	)
	g := ident.New()

	var mu sync.Mutex
	var wg sync.WaitGroup
	seen := make([]int64, 0, workers*perWork)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, perWork)
			for i := 0; i < perWork; i++ {
				local = append(local, g.NextFiberID())
			}
			mu.Lock()
			seen = append(seen, local...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(seen, func(i, j int) bool { return seen[i] < seen[j] })
	for i := 1; i < len(seen); i++ {
		if seen[i] == seen[i-1] {
			t.Fatalf("duplicate id %d", seen[i])
		}
	}
	if seen[0] != 1 || seen[len(seen)-1] != int64(workers*perWork) {
		t.Errorf("id range [%d, %d], want [1, %d]", seen[0], seen[len(seen)-1], workers*perWork)
	}
}
