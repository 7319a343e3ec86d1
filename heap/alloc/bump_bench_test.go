//go:build linux || darwin

package alloc

import (
	"testing"

	"github.com/joshuapare/segheap/heap/cell"
	"github.com/joshuapare/segheap/heap/storage"
	"github.com/joshuapare/segheap/internal/cells"
)

// benchResetBytes bounds how much a benchmark keeps mapped at once.
const benchResetBytes = 16 * storage.Size

func benchmarkAlloc(b *testing.B, sizeOf func(i int) uint32) {
	p := storage.NewMmapProvider()
	ba := NewBump(p)
	defer func() { _ = ba.Close() }()

	b.ResetTimer()
	b.ReportAllocs()

	for i := range b.N {
		if ba.Allocated() >= benchResetBytes {
			b.StopTimer()
			if err := ba.Close(); err != nil {
				b.Fatal(err)
			}
			ba = NewBump(p)
			b.StartTimer()
		}
		size := sizeOf(i)
		if _, err := ba.AllocCell(cells.EmptyVTable(size)); err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark_Bump_SmallCells benchmarks 16-128 byte cells.
func Benchmark_Bump_SmallCells(b *testing.B) {
	benchmarkAlloc(b, func(i int) uint32 { return uint32(16 + (i%8)*16) })
}

// Benchmark_Bump_MediumCells benchmarks 1-4 KiB cells, which seal segments
// more often.
func Benchmark_Bump_MediumCells(b *testing.B) {
	benchmarkAlloc(b, func(i int) uint32 { return uint32(1024 * (1 + i%4)) })
}

// Benchmark_Bump_Walk benchmarks walking a full segment of small cells.
func Benchmark_Bump_Walk(b *testing.B) {
	ba := NewBump(storage.NewMmapProvider(), WithMaxSegments(1))
	defer func() { _ = ba.Close() }()

	vt := cells.EmptyVTable(32)
	for {
		if _, err := ba.AllocCell(vt); err != nil {
			break
		}
	}

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		n := 0
		if err := ba.Walk(func(c *cell.Cell) bool {
			n++
			return true
		}); err != nil {
			b.Fatal(err)
		}
		if n == 0 {
			b.Fatal("walk visited no cells")
		}
	}
}
