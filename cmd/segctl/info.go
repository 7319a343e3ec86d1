package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/segheap/heap/cell"
	"github.com/joshuapare/segheap/heap/footprint"
	"github.com/joshuapare/segheap/heap/storage"
	"github.com/joshuapare/segheap/internal/oscompat"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Report segment and page geometry",
		Long: `The info command prints the compile-time segment size, the platform
page size, whether resident-page queries work here, and the cell kinds.

Example:
  segctl info
  segctl info --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return emitInfo(collectInfo())
		},
	}
}

type infoResult struct {
	SegmentSize      uint64   `json:"segment_size"`
	LogSegmentSize   int      `json:"log_segment_size"`
	PageSize         int      `json:"page_size"`
	PagesPerSegment  int      `json:"pages_per_segment"`
	HeapAlign        int      `json:"heap_align"`
	FootprintSupport bool     `json:"footprint_supported"`
	Kinds            []string `json:"kinds"`
}

func collectInfo() infoResult {
	ps := oscompat.PageSize()
	res := infoResult{
		SegmentSize:      storage.Size,
		LogSegmentSize:   storage.LogSize,
		PageSize:         ps,
		PagesPerSegment:  storage.Size / ps,
		HeapAlign:        cell.HeapAlign,
		FootprintSupport: footprint.Supported(),
	}
	for _, k := range cell.Kinds() {
		res.Kinds = append(res.Kinds, k.String())
	}
	return res
}

func emitInfo(res infoResult) error {
	return emit(res, func() {
		printInfo("\nSegment Geometry:\n")
		printInfo("  Segment size:      %d bytes (2^%d)\n", res.SegmentSize, res.LogSegmentSize)
		printInfo("  Page size:         %d bytes\n", res.PageSize)
		printInfo("  Pages per segment: %d\n", res.PagesPerSegment)
		printInfo("  Cell alignment:    %d bytes\n", res.HeapAlign)
		printInfo("  Footprint queries: %v\n", res.FootprintSupport)
		printInfo("\nCell Kinds:\n")
		for i, k := range res.Kinds {
			printInfo("  %2d  %s\n", i, k)
		}
	})
}
