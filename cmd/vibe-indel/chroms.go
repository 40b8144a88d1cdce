package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-indel/internal/chrom"
	"github.com/inodb/vibe-indel/internal/twobit"
)

func newChromsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chroms",
		Short: "List the sequence names in the 2bit reference",
		Long: `List the sequence names in the 2bit reference in file order. The second
column is the chromosome number used for variant lookups, or "-" when the
name is not a standard human chromosome name.`,
		Args: usageArgs(cobra.NoArgs),
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

			names, err := twobit.ChromosomeNames(path, twobit.WithBufferSize(viper.GetInt("genome.buffer_size")))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range names {
				number := "-"
				if n := chrom.Lookup(name); n != 0 {
					number = fmt.Sprint(uint8(n))
				}
				fmt.Fprintf(out, "%s\t%s\n", name, number)
			}
			return nil
		},
	}

	twoBitFlag(cmd.Flags())
	return cmd
}
