package main

import (
	"fmt"
	"unsafe"

	"github.com/spf13/cobra"

	"github.com/joshuapare/segheap/heap/storage"
	"github.com/joshuapare/segheap/internal/logger"
	"github.com/joshuapare/segheap/internal/oscompat"
)

func init() {
	rootCmd.AddCommand(newAlignCmd())
}

type alignOptions struct {
	rounds int
}

func newAlignCmd() *cobra.Command {
	var opts alignOptions
	cmd := &cobra.Command{
		Use:   "align",
		Short: "Check segment alignment with interleaved spacer mappings",
		Long: `The align command alternates segment allocations with anonymous spacer
mappings whose size grows from segment size + 1 MiB towards twice the
segment size, and checks that every segment is still self-aligned.

Example:
  segctl align
  segctl align --rounds 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runAlign(opts)
			if err != nil {
				return err
			}
			if err := emitAlign(res); err != nil {
				return err
			}
			if res.Misaligned > 0 {
				return fmt.Errorf("%d of %d segments misaligned", res.Misaligned, res.Segments)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.rounds, "rounds", 1, "Number of times to repeat the interleaved loop")
	return cmd
}

type alignResult struct {
	Segments   int      `json:"segments"`
	Misaligned int      `json:"misaligned"`
	Spacers    int      `json:"spacers"`
	Bases      []string `json:"bases,omitempty"`
}

func runAlign(opts alignOptions) (res alignResult, err error) {
	const mb = 1 << 20

	if opts.rounds < 1 {
		return res, fmt.Errorf("--rounds must be at least 1, got %d", opts.rounds)
	}

	p := storage.NewMmapProvider(storage.WithLogger(logger.L))

	type spacer struct {
		p    unsafe.Pointer
		size uintptr
	}
	var storages []*storage.AlignedStorage
	var spacers []spacer

	defer func() {
		for _, sp := range spacers {
			if ferr := oscompat.VMFree(sp.p, sp.size); ferr != nil && err == nil {
				err = ferr
			}
		}
		for _, s := range storages {
			if rerr := s.Release(); rerr != nil && err == nil {
				err = rerr
			}
		}
	}()

	for range opts.rounds {
		for space := uintptr(storage.Size + mb); space < 2*storage.Size; space += mb {
			s, err := storage.New(p)
			if err != nil {
				return res, fmt.Errorf("allocate segment: %w", err)
			}
			storages = append(storages, s)
			res.Segments++
			res.Bases = append(res.Bases, fmt.Sprintf("%#x", s.LowLim()))
			if s.LowLim()%storage.Size != 0 {
				res.Misaligned++
				logger.L.Warn("misaligned segment", "base", fmt.Sprintf("%#x", s.LowLim()))
			}

			sp, err := oscompat.VMAllocate(space)
			if err != nil {
				return res, fmt.Errorf("allocate spacer: %w", err)
			}
			spacers = append(spacers, spacer{sp, space})
			res.Spacers++
		}
	}
	return res, nil
}

func emitAlign(res alignResult) error {
	return emit(res, func() {
		printInfo("\nAlignment Check:\n")
		printInfo("  Segments:   %d\n", res.Segments)
		printInfo("  Spacers:    %d\n", res.Spacers)
		printInfo("  Misaligned: %d\n", res.Misaligned)
		for _, b := range res.Bases {
			printVerbose("    %s\n", b)
		}
	})
}
