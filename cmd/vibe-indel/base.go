package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-indel/internal/chrom"
	"github.com/inodb/vibe-indel/internal/genome"
	"github.com/inodb/vibe-indel/internal/twobit"
)

func newBaseCmd(logger func() *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "base <region>",
		Short: "Print reference bases for a region",
		Long: `Print the bases of a region of the 2bit reference. The region is
<chrom>:<begin>[-<end>] with 1-based inclusive positions. Standard chromosome
names (chr1..chrY or 1..Y) are matched by number; any other name must match a
sequence name in the file exactly. The end is clamped to the sequence length.`,
		Example: `  vibe-indel base --twobit hg19.2bit chr7:140453136
  vibe-indel base --twobit hg19.2bit 17:7577000-7577100`,
		Args: usageArgs(cobra.ExactArgs(1)),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				"genome.twobit":      "twobit",
				"genome.buffer_size": "buffer-size",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requireTwoBit()
			if err != nil {
				return err
			}
			target, begin, end, err := parseRegion(args[0])
			if err != nil {
				return &usageError{err: err}
			}

			ref, err := genome.Load(path, target, begin, end, genome.Options{
				BufferSize: viper.GetInt("genome.buffer_size"),
				Logger:     logger(),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ref, ref.Sequence(ref.Begin(), ref.End()))
			return nil
		},
	}

	twoBitFlag(cmd.Flags())
	return cmd
}

// parseRegion parses "<chrom>:<begin>[-<end>]".
func parseRegion(s string) (twobit.Target, uint32, uint32, error) {
	i := strings.LastIndexByte(s, ':')
	if i <= 0 || i == len(s)-1 {
		return twobit.Target{}, 0, 0, fmt.Errorf("invalid region %q: expected <chrom>:<begin>[-<end>]", s)
	}

	name, span := s[:i], s[i+1:]
	beginStr, endStr, hasEnd := strings.Cut(span, "-")
	if !hasEnd {
		endStr = beginStr
	}

	begin, err := strconv.ParseUint(beginStr, 10, 32)
	if err != nil || begin == 0 {
		return twobit.Target{}, 0, 0, fmt.Errorf("invalid region %q: bad begin %q", s, beginStr)
	}
	end, err := strconv.ParseUint(endStr, 10, 32)
	if err != nil || end < begin {
		return twobit.Target{}, 0, 0, fmt.Errorf("invalid region %q: bad end %q", s, endStr)
	}

	target := twobit.ByName(name)
	if n := chrom.Lookup(name); n != 0 {
		target = twobit.ByChrom(n)
	}
	return target, uint32(begin), uint32(end), nil
}
