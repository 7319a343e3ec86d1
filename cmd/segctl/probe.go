package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/segheap/heap/footprint"
	"github.com/joshuapare/segheap/heap/storage"
	"github.com/joshuapare/segheap/internal/logger"
	"github.com/joshuapare/segheap/internal/oscompat"
)

func init() {
	rootCmd.AddCommand(newProbeCmd())
}

type probeOptions struct {
	unusedPages int
}

func newProbeCmd() *cobra.Command {
	var opts probeOptions
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Measure resident pages before and after marking a segment unused",
		Long: `The probe command allocates one segment, touches every page, marks a
prefix of it unused, and reports the resident page count at each step.

By default the first half of the segment is marked unused.

Example:
  segctl probe
  segctl probe --unused-pages 256 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runProbe(opts)
			if err != nil {
				return err
			}
			return emitProbe(res)
		},
	}
	cmd.Flags().IntVar(&opts.unusedPages, "unused-pages", -1, "Pages to mark unused (default: half the segment)")
	return cmd
}

type probeResult struct {
	LowLim      string `json:"low_lim"`
	HiLim       string `json:"hi_lim"`
	TotalPages  int    `json:"total_pages"`
	UnusedPages int    `json:"unused_pages"`
	Initial     int    `json:"resident_initial"`
	Touched     int    `json:"resident_touched"`
	Marked      int    `json:"resident_marked"`
}

// Released returns how many resident pages marking unused gave back.
func (r probeResult) Released() int {
	return r.Touched - r.Marked
}

func runProbe(opts probeOptions) (probeResult, error) {
	if !footprint.Supported() {
		return probeResult{}, errors.New("resident page queries are not supported on this platform")
	}

	ps := uintptr(oscompat.PageSize())
	total := int(storage.Size / ps)
	unused := opts.unusedPages
	if unused < 0 {
		unused = total / 2
	}
	if unused > total {
		return probeResult{}, fmt.Errorf("--unused-pages %d exceeds the %d pages in a segment", unused, total)
	}

	s, err := storage.New(storage.NewMmapProvider(storage.WithLogger(logger.L)))
	if err != nil {
		return probeResult{}, fmt.Errorf("allocate segment: %w", err)
	}
	defer func() { _ = s.Release() }()

	lo, hi := s.LowLim(), s.HiLim()
	res := probeResult{
		LowLim:      fmt.Sprintf("%#x", lo),
		HiLim:       fmt.Sprintf("%#x", hi),
		TotalPages:  total,
		UnusedPages: unused,
	}

	measure := func(step string) (int, error) {
		n, err := footprint.Pages(lo, hi)
		if err != nil {
			return 0, fmt.Errorf("measure %s footprint: %w", step, err)
		}
		logger.L.Debug("footprint", "step", step, "resident", n)
		return n, nil
	}

	if res.Initial, err = measure("initial"); err != nil {
		return res, err
	}

	b := s.Bytes()
	for i := uintptr(0); i < uintptr(len(b)); i += ps {
		b[i] = 1
	}
	if res.Touched, err = measure("touched"); err != nil {
		return res, err
	}

	if err := s.MarkUnused(lo, lo+uintptr(unused)*ps); err != nil {
		return res, fmt.Errorf("mark unused: %w", err)
	}
	if res.Marked, err = measure("marked"); err != nil {
		return res, err
	}
	return res, nil
}

func emitProbe(res probeResult) error {
	return emit(res, func() {
		printInfo("\nSegment [%s, %s):\n", res.LowLim, res.HiLim)
		printInfo("  Pages:             %d\n", res.TotalPages)
		printInfo("  Resident initial:  %d\n", res.Initial)
		printInfo("  Resident touched:  %d\n", res.Touched)
		printInfo("  Marked unused:     %d\n", res.UnusedPages)
		printInfo("  Resident after:    %d\n", res.Marked)
		printInfo("  Released:          %d\n", res.Released())
		printVerbose("\nExpected release equals pages marked unused: %v\n", res.Released() == res.UnusedPages)
	})
}
