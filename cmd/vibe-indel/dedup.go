package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-indel/internal/duckdb"
	"github.com/inodb/vibe-indel/internal/output"
	"github.com/inodb/vibe-indel/internal/varfile"
	"github.com/inodb/vibe-indel/internal/variant"
)

func newDedupCmd(logger func() *zap.Logger) *cobra.Command {
	var (
		outputFile  string
		inputFormat string
		all         bool
	)

	cmd := &cobra.Command{
		Use:   "dedup [file...]",
		Short: "Deduplicate variants from one or more files",
		Long: `Read variants from files (or stdin when none are given, or for '-') and
write each distinct variant once, ordered by chromosome, position and
sequence. Input lines hold a single variant such as chr3.500.-.ACGT, or the
four columns chrom, pos, ref and alt. Files named *.vcf or *.vcf.gz are read
as VCF. Gzipped input is detected automatically.

With --db, variants are also stored in a DuckDB database. Files already loaded
with the same size and modification time are skipped.`,
		Example: `  vibe-indel dedup calls1.txt calls2.txt.gz
  vibe-indel dedup --db variants.duckdb calls/*.txt
  vibe-indel dedup --db variants.duckdb --all`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{"dedup.db": "db"})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			defer log.Sync()

			dbPath := viper.GetString("dedup.db")
			if all && dbPath == "" {
				return &usageError{err: errors.New("--all requires --db")}
			}
			if len(args) == 0 && !all {
				args = []string{"-"}
			}

			var store *duckdb.Store
			if dbPath != "" {
				var err error
				store, err = duckdb.Open(expandHome(dbPath))
				if err != nil {
					return err
				}
				defer store.Close()
			}

			cat := variant.NewCatalog()
			var sources []source
			for _, path := range args {
				format := inputFormat
				if format == "" {
					format = detectInputFormat(path)
				}
				src, err := loadVariants(cat, path, format, store, log)
				if err != nil {
					return err
				}
				if src != nil {
					sources = append(sources, *src)
				}
			}

			if store != nil {
				n, err := store.WriteCatalog(cat)
				if err != nil {
					return err
				}
				log.Info("stored variants", zap.Int64("new", n))

				for _, src := range sources {
					if err := store.RecordSource(src.fp, src.read); err != nil {
						return err
					}
				}

				if all {
					if cat, err = store.LoadCatalog(); err != nil {
						return err
					}
				}
			}

			out := cmd.OutOrStdout()
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return writeCatalog(cat, out)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "Input format: list, vcf (auto-detected if not specified)")
	cmd.Flags().String("db", "", "DuckDB database to store variants in (config: dedup.db)")
	cmd.Flags().BoolVar(&all, "all", false, "Write every variant stored in the database, not only those read")

	return cmd
}

// source is an input file to record once its variants are stored.
type source struct {
	fp   duckdb.FileFingerprint
	read int64
}

// loadVariants saves every variant of one input file into cat. When a store
// is given, files it has already recorded unchanged are skipped; otherwise
// the returned source identifies the file for recording.
func loadVariants(cat *variant.Catalog, path, format string, store *duckdb.Store, log *zap.Logger) (*source, error) {
	var fp duckdb.FileFingerprint
	if store != nil && path != "-" {
		var err error
		fp, err = duckdb.StatFile(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		loaded, err := store.SourceLoaded(fp)
		if err != nil {
			return nil, err
		}
		if loaded {
			log.Info("skipping unchanged input", zap.String("input", path))
			return nil, nil
		}
	}

	r, err := openVariants(path, format)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var read, distinct int64
	for {
		v, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if v == nil {
			break
		}
		read++
		if cat.Save(v) == v {
			distinct++
		}
	}
	if vr, ok := r.(*varfile.VCFReader); ok && vr.Skipped() > 0 {
		log.Warn("skipped VCF alleles that are not indels or substitutions",
			zap.String("input", path),
			zap.Int("skipped", vr.Skipped()))
	}
	log.Debug("read variants",
		zap.String("input", path),
		zap.Int64("read", read),
		zap.Int64("distinct", distinct))

	if store == nil || path == "-" {
		return nil, nil
	}
	return &source{fp: fp, read: read}, nil
}

// variantReader is implemented by the list and VCF readers.
type variantReader interface {
	Next() (*variant.Variant, error)
	Close() error
}

func openVariants(path, format string) (variantReader, error) {
	switch format {
	case "list":
		return varfile.NewReader(path)
	case "vcf":
		return varfile.NewVCFReader(path)
	}
	return nil, &usageError{err: fmt.Errorf("unknown input format %q", format)}
}

// detectInputFormat picks the reader for a path by its extension.
func detectInputFormat(path string) string {
	lowerPath := strings.ToLower(path)

	// Handle gzipped files
	lowerPath = strings.TrimSuffix(lowerPath, ".gz")

	if strings.HasSuffix(lowerPath, ".vcf") {
		return "vcf"
	}
	return "list"
}

func writeCatalog(cat *variant.Catalog, out io.Writer) error {
	w := output.NewVariantWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	for _, v := range cat.Variants() {
		if err := w.Write(v); err != nil {
			return fmt.Errorf("write variant: %w", err)
		}
	}
	return w.Flush()
}
