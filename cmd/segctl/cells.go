package main

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/spf13/cobra"

	"github.com/joshuapare/segheap/heap/alloc"
	"github.com/joshuapare/segheap/heap/cell"
	"github.com/joshuapare/segheap/heap/storage"
	"github.com/joshuapare/segheap/internal/cells"
	"github.com/joshuapare/segheap/internal/logger"
)

func init() {
	rootCmd.AddCommand(newCellsCmd())
}

type cellsOptions struct {
	count       int
	seed        int64
	budget      uint64
	maxSegments int
	trim        bool
}

func newCellsCmd() *cobra.Command {
	var opts cellsOptions
	cmd := &cobra.Command{
		Use:   "cells",
		Short: "Build segments of random cells and walk them",
		Long: `The cells command bump-allocates a random mix of cells (empty cells,
external strings, string iterators, and pointer arrays), then walks every
segment and reports cells by kind.

With --budget the segments come from a limited provider, and allocation
stops cleanly once the budget is spent.

Example:
  segctl cells --count 10000
  segctl cells --budget 8388608 --trim --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runCells(opts)
			if err != nil {
				return err
			}
			return emitCells(res)
		},
	}
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1000, "Number of cells to allocate")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "Random seed for the cell mix")
	cmd.Flags().Uint64Var(&opts.budget, "budget", 0, "Byte budget for segment storage (0 = unlimited)")
	cmd.Flags().IntVar(&opts.maxSegments, "max-segments", 0, "Maximum number of segments (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.trim, "trim", false, "Mark the unused tail of the last segment unused")
	return cmd
}

type cellsResult struct {
	Requested     int            `json:"requested"`
	Placed        int            `json:"placed"`
	Exhausted     bool           `json:"exhausted"`
	Segments      int            `json:"segments"`
	Cells         int            `json:"cells"`
	Pointers      int            `json:"pointers"`
	Allocated     uint64         `json:"allocated_bytes"`
	FillerBytes   uint64         `json:"filler_bytes"`
	ExternalBytes uint64         `json:"external_bytes"`
	TrimmedBytes  uint64         `json:"trimmed_bytes"`
	ByKind        map[string]int `json:"by_kind"`
}

func runCells(opts cellsOptions) (res cellsResult, err error) {
	if opts.count < 0 {
		return res, fmt.Errorf("--count must not be negative, got %d", opts.count)
	}
	res.Requested = opts.count

	var p storage.Provider = storage.NewMmapProvider(storage.WithLogger(logger.L))
	if opts.budget > 0 {
		p = storage.NewLimited(p, uintptr(opts.budget))
	}
	ba := alloc.NewBump(p, alloc.WithLogger(logger.L), alloc.WithMaxSegments(opts.maxSegments))
	defer func() {
		if cerr := ba.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close allocator: %w", cerr)
		}
	}()

	rng := rand.New(rand.NewSource(opts.seed))
	var strs, all []*cell.Cell
	for range opts.count {
		c, err := placeRandom(ba, rng, strs, all)
		if errors.Is(err, alloc.ErrNoSpace) {
			logger.L.Info("allocation stopped", "placed", res.Placed, "err", err)
			res.Exhausted = true
			break
		}
		if err != nil {
			return res, err
		}
		if c.Is(&cells.ExtStringVT) {
			strs = append(strs, c)
		}
		all = append(all, c)
		res.Placed++
	}

	if opts.trim {
		n, err := ba.Trim()
		if err != nil {
			return res, err
		}
		res.TrimmedBytes = uint64(n)
	}

	st, err := ba.Stats()
	if err != nil {
		return res, fmt.Errorf("walk segments: %w", err)
	}
	res.Segments = st.Segments
	res.Cells = st.Cells
	res.FillerBytes = uint64(st.FillerBytes)
	res.Allocated = uint64(ba.Allocated())
	res.ExternalBytes = uint64(cells.ExternalBytes())
	res.ByKind = make(map[string]int, len(st.ByKind))
	for k, n := range st.ByKind {
		res.ByKind[k.String()] = n
	}

	err = ba.Walk(func(c *cell.Cell) bool {
		res.Pointers += len(cell.Pointers(c))
		return true
	})
	return res, err
}

// placeRandom allocates one cell of a random kind. Iterators and arrays
// reference earlier cells.
func placeRandom(ba *alloc.BumpAllocator, rng *rand.Rand, strs, all []*cell.Cell) (*cell.Cell, error) {
	switch rng.Intn(4) {
	case 1:
		mem, err := ba.Alloc(cells.ExtStringVT.Size)
		if err != nil {
			return nil, err
		}
		es, err := cells.NewExtString(mem, randomText(rng, 1+rng.Intn(64)))
		if err != nil {
			ba.Abandon(mem)
			return nil, err
		}
		return &es.Cell, nil

	case 2:
		if len(strs) == 0 {
			break
		}
		mem, err := ba.Alloc(cells.StringIteratorVT.Size)
		if err != nil {
			return nil, err
		}
		it, err := cells.NewStringIterator(mem, strs[rng.Intn(len(strs))])
		if err != nil {
			ba.Abandon(mem)
			return nil, err
		}
		return &it.Cell, nil

	case 3:
		capacity := uint32(1 + rng.Intn(16))
		mem, err := ba.Alloc(cells.ArrayStorageSize(capacity))
		if err != nil {
			return nil, err
		}
		arr, err := cells.NewArrayStorage(mem, capacity)
		if err != nil {
			ba.Abandon(mem)
			return nil, err
		}
		for n := rng.Intn(int(capacity) + 1); n > 0 && len(all) > 0; n-- {
			arr.Push(cell.PtrTo(all[rng.Intn(len(all))]))
		}
		return &arr.Cell, nil
	}

	size := uint32(cell.HeapAlign * (1 + rng.Intn(64)))
	mem, err := ba.Alloc(size)
	if err != nil {
		return nil, err
	}
	e, err := cells.NewEmpty(mem, size)
	if err != nil {
		ba.Abandon(mem)
		return nil, err
	}
	return &e.Cell, nil
}

func randomText(rng *rand.Rand, n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rng.Intn(len(letters))]
	}
	return string(b)
}

func emitCells(res cellsResult) error {
	return emit(res, func() {
		printInfo("\nCells:\n")
		printInfo("  Placed:         %d of %d\n", res.Placed, res.Requested)
		if res.Exhausted {
			printInfo("  Storage exhausted before all cells were placed\n")
		}
		printInfo("  Segments:       %d\n", res.Segments)
		printInfo("  Walked cells:   %d\n", res.Cells)
		printInfo("  Pointer fields: %d\n", res.Pointers)
		printInfo("  Allocated:      %d bytes\n", res.Allocated)
		printInfo("  Filler:         %d bytes\n", res.FillerBytes)
		printInfo("  External:       %d bytes\n", res.ExternalBytes)
		if res.TrimmedBytes > 0 {
			printInfo("  Trimmed:        %d bytes\n", res.TrimmedBytes)
		}

		kinds := make([]string, 0, len(res.ByKind))
		for k := range res.ByKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		printInfo("\nBy kind:\n")
		for _, k := range kinds {
			printInfo("  %-22s %d\n", k, res.ByKind[k])
		}
	})
}
