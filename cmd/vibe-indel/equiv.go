package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-indel/internal/equiv"
	"github.com/inodb/vibe-indel/internal/output"
	"github.com/inodb/vibe-indel/internal/varfile"
	"github.com/inodb/vibe-indel/internal/variant"
)

func newEquivCmd(logger func() *zap.Logger) *cobra.Command {
	var (
		pairsFile  string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "equiv [<variant1> <variant2>]",
		Short: "Test whether variants are equivalent",
		Long: `Test whether two variants yield the same sequence. Variants are written as
<chrom>:<pos>.<ref>.<alt>, with "-" for the empty allele of an insertion or
deletion. With --pairs, every line of the file holds two variants; pairs are
compared in parallel and reported in input order.`,
		Example: `  vibe-indel equiv --twobit hg19.2bit chr1:100.-.AT chr1:103.-.TA
  vibe-indel equiv --twobit hg19.2bit --pairs pairs.txt.gz -o results.tsv`,
		Args: usageArgs(func(cmd *cobra.Command, args []string) error {
			if pairsFile != "" {
				return cobra.NoArgs(cmd, args)
			}
			if len(args) != 2 {
				return errors.New("expected two variants or --pairs")
			}
			return nil
		}),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				"genome.twobit":      "twobit",
				"genome.buffer_size": "buffer-size",
				"equiv.max_distance": "max-distance",
				"equiv.workers":      "workers",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requireTwoBit()
			if err != nil {
				return err
			}

			log := logger()
			defer log.Sync()

			checker := equiv.NewChecker(path)
			checker.SetLogger(log)
			checker.SetBufferSize(viper.GetInt("genome.buffer_size"))
			checker.SetMaxDistance(viper.GetUint32("equiv.max_distance"))

			out := cmd.OutOrStdout()
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			if pairsFile != "" {
				return runEquivPairs(checker, pairsFile, out, viper.GetInt("equiv.workers"), log)
			}
			return runEquivSingle(checker, args[0], args[1], out)
		},
	}

	twoBitFlag(cmd.Flags())
	cmd.Flags().StringVar(&pairsFile, "pairs", "", "File of variant pairs, one pair per line ('-' for stdin)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().Uint32("max-distance", 1000, "Largest distance between equivalent indels (config: equiv.max_distance)")
	cmd.Flags().Int("workers", 0, "Parallel workers for --pairs, 0 = number of CPUs (config: equiv.workers)")

	return cmd
}

func runEquivSingle(checker *equiv.Checker, spec1, spec2 string, out io.Writer) error {
	a, err := variant.Parse(spec1)
	if err != nil {
		return &usageError{err: err}
	}
	b, err := variant.Parse(spec2)
	if err != nil {
		return &usageError{err: err}
	}

	eq, err := checker.Equivalent(a, b)
	if err != nil {
		return err
	}

	w := output.NewPairWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.Write(a, b, eq); err != nil {
		return err
	}
	return w.Flush()
}

func runEquivPairs(checker *equiv.Checker, path string, out io.Writer, workers int, log *zap.Logger) error {
	src, err := varfile.NewPairReader(path)
	if err != nil {
		return err
	}
	defer src.Close()

	w := output.NewPairWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}

	n, err := checker.CheckAll(src, w, workers)
	if flushErr := w.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}

	log.Info("compared variant pairs", zap.Int("pairs", n), zap.String("input", path))
	return nil
}
