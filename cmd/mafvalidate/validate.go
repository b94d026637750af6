package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/mafvalidate/internal/batch"
	"github.com/inodb/mafvalidate/internal/duckdb"
	"github.com/inodb/mafvalidate/internal/maf"
	"github.com/inodb/mafvalidate/internal/output"
)

func newValidateCmd() *cobra.Command {
	var (
		reportPath string
		showAll    bool
	)

	cmd := &cobra.Command{
		Use:   "validate [flags] <file>...",
		Short: "Validate one or more MAF files",
		Long: `Validate MAF files and report the first violation found in each.

Files may be plain, gzip (bgzip) or xz compressed; use '-' for stdin.
A tab-delimited report of invalid files is written to stdout (or --report),
followed by a summary on stderr. The exit status is 1 if any file is invalid.`,
		Example: `  mafvalidate validate alignment.maf
  mafvalidate validate --test-chrom-names chr*.maf.gz
  mafvalidate validate --all --report report.tsv --cache ~/.mafvalidate/results.duckdb *.maf
  zcat big.maf.gz | mafvalidate validate -`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindValidateFlags(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runValidate(cmd, args, reportPath, showAll)
		},
	}

	cmd.Flags().Bool("test-chrom-names", false, `require every src field to contain a chromosome name, e.g. "s hg19.chr1 ..."`)
	cmd.Flags().Int("workers", 0, "number of files validated concurrently (default: number of CPUs)")
	cmd.Flags().String("cache", "", "DuckDB file recording results; unchanged files are not revalidated")
	cmd.Flags().StringVarP(&reportPath, "report", "o", "", "report file (default: stdout)")
	cmd.Flags().BoolVar(&showAll, "all", false, "include valid files in the report")

	return cmd
}

// bindValidateFlags lets flags override config file and environment values.
func bindValidateFlags(cmd *cobra.Command) error {
	return errors.Join(
		viper.BindPFlag("validate.test_chrom_names", cmd.Flags().Lookup("test-chrom-names")),
		viper.BindPFlag("validate.workers", cmd.Flags().Lookup("workers")),
		viper.BindPFlag("cache.path", cmd.Flags().Lookup("cache")),
	)
}

// workerCount reads validate.workers; 0 means one worker per CPU.
func workerCount() (int, error) {
	n, err := cast.ToIntE(viper.Get("validate.workers"))
	if err != nil {
		return 0, fmt.Errorf("invalid validate.workers value %q: %w", viper.GetString("validate.workers"), err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid validate.workers value %d: must not be negative", n)
	}
	return n, nil
}

func runValidate(cmd *cobra.Command, paths []string, reportPath string, showAll bool) error {
	opts := maf.Options{CheckChromNames: viper.GetBool("validate.test_chrom_names")}
	workers, err := workerCount()
	if err != nil {
		return err
	}

	var store *duckdb.Store
	if cachePath := viper.GetString("cache.path"); cachePath != "" {
		s, err := duckdb.Open(cachePath)
		if err != nil {
			return failed(fmt.Errorf("open result cache: %w", err))
		}
		defer s.Close()
		store = s
		logger.Debug("using result cache", zap.String("path", cachePath))
	}

	records := make([]batch.Record, len(paths))
	fingerprints := make([]*duckdb.FileFingerprint, len(paths))
	var pending []string
	var pendingIdx []int
	cached := 0

	for i, path := range paths {
		if store != nil && path != "-" {
			if fp, err := duckdb.StatFile(path); err == nil {
				fingerprints[i] = &fp
				rec, err := store.LookupFresh(fp, opts.CheckChromNames)
				if err != nil {
					logger.Warn("result cache lookup failed", zap.String("file", path), zap.Error(err))
				} else if rec != nil {
					logger.Debug("file unchanged, using cached result", zap.String("file", path))
					records[i] = *rec
					cached++
					continue
				}
			}
		}
		pending = append(pending, path)
		pendingIdx = append(pendingIdx, i)
	}

	pool := batch.NewPool(opts)
	pool.SetLogger(logger)

	var fresh []duckdb.StoredResult
	err = pool.ValidateAll(pending, workers, func(r batch.WorkResult) error {
		i := pendingIdx[r.Seq]
		rec := batch.NewRecord(r, opts)
		records[i] = rec

		if !rec.Valid && rec.Kind == 0 {
			logger.Warn("cannot read file", zap.String("file", r.Path), zap.Error(r.Err))
			return nil
		}
		if store != nil && fingerprints[i] != nil {
			fresh = append(fresh, duckdb.StoredResult{Fingerprint: *fingerprints[i], Record: rec})
		}
		return nil
	})
	if err != nil {
		return failed(err)
	}

	if store != nil {
		runID := uuid.NewString()
		if err := store.WriteResults(runID, fresh); err != nil {
			logger.Warn("cannot record results", zap.Error(err))
		} else {
			logger.Debug("recorded results",
				zap.String("run_id", runID),
				zap.Int("validated", len(fresh)),
				zap.Int("cached", cached))
		}
	}

	var out io.Writer = cmd.OutOrStdout()
	if reportPath != "" {
		f, err := os.Create(reportPath)
		if err != nil {
			return failed(fmt.Errorf("create report file: %w", err))
		}
		defer f.Close()
		out = f
	}

	rw := output.NewReportWriter(out, showAll)
	if err := rw.WriteHeader(); err != nil {
		return failed(fmt.Errorf("write report header: %w", err))
	}
	for _, rec := range records {
		if err := rw.Write(rec); err != nil {
			return failed(fmt.Errorf("write report: %w", err))
		}
	}
	if err := rw.Flush(); err != nil {
		return failed(fmt.Errorf("flush report: %w", err))
	}
	rw.WriteSummary(cmd.ErrOrStderr())

	summary := rw.Summary()
	if summary.Valid != summary.Total {
		return failed(fmt.Errorf("%d of %d files failed validation", summary.Total-summary.Valid, summary.Total))
	}
	return nil
}
