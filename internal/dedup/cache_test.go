package dedup_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aishoubot/aishou/internal/dedup"
)

func TestShouldProcess_FirstAndRepeat(t *testing.T) {
	t.Parallel()

	cache, err := dedup.New(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cache.ShouldProcess("msg-1") {
		t.Fatal("first appearance should process")
	}
	if cache.ShouldProcess("msg-1") {
		t.Fatal("repeat appearance should not process")
	}
	if !cache.ShouldProcess("msg-2") {
		t.Fatal("distinct id should process")
	}
}

func TestCapacityNeverExceeded(t *testing.T) {
	t.Parallel()

	cache, err := dedup.New(1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 1500; i++ {
		cache.ShouldProcess(fmt.Sprintf("msg-%d", i))
	}
	if got := cache.Len(); got != 1000 {
		t.Fatalf("cache holds %d entries, want 1000", got)
	}
}

func TestFIFOEviction(t *testing.T) {
	t.Parallel()

	cache, err := dedup.New(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cache.ShouldProcess("a")
	cache.ShouldProcess("b")
	cache.ShouldProcess("c")

	// Re-checking must not refresh entries; eviction stays insertion-ordered.
	if cache.ShouldProcess("a") {
		t.Fatal("a should still be cached")
	}

	cache.ShouldProcess("d") // evicts a, the earliest insert

	if !cache.ShouldProcess("a") {
		t.Fatal("a should have been evicted first")
	}
	// a's re-insert evicted b; c and d survive.
	if cache.ShouldProcess("c") {
		t.Fatal("c should still be cached")
	}
	if cache.ShouldProcess("d") {
		t.Fatal("d should still be cached")
	}
}

func TestConcurrentShouldProcess_ExactlyOneWinner(t *testing.T) {
	t.Parallel()

	cache, err := dedup.New(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const goroutines = 32
	var (
		wins  atomic.Int32
		start sync.WaitGroup
		done  sync.WaitGroup
	)
	start.Add(1)
	for i := 0; i < goroutines; i++ {
		done.Add(1)
		go func() {
			defer done.Done()
			start.Wait()
			if cache.ShouldProcess("same-id") {
				wins.Add(1)
			}
		}()
	}
	start.Done()
	done.Wait()

	if got := wins.Load(); got != 1 {
		t.Fatalf("%d goroutines won the insert, want exactly 1", got)
	}
}
