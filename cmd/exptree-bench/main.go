// Command exptree-bench drives a Tree[int64, int64] through a synthetic
// random workload and reports throughput and memory accounting. It is
// purely a caller of the public Tree surface -- no package here reaches
// into exptree's internals.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	exptree "github.com/leroycep/exptree"
	"github.com/leroycep/exptree/telemetry"
)

func main() {
	var (
		count       int64
		readFrac    float64
		seed        int64
		reportEvery int64
	)

	cmd := &cobra.Command{
		Use:   "exptree-bench",
		Short: "Runs a synthetic random workload against an exptree.Tree.",
	}
	cmd.Flags().Int64Var(&count, "count", 1_000_000, "Number of operations to perform.")
	cmd.Flags().Float64Var(&readFrac, "read-frac", 0.5, "Fraction of operations that are Get rather than Put.")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed.")
	cmd.Flags().Int64Var(&reportEvery, "report-every", 100_000, "Log a progress line every N operations.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return run(count, readFrac, seed, reportEvery)
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(count int64, readFrac float64, seed int64, reportEvery int64) error {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
	rec := telemetry.NewRecorder(prometheus.DefaultRegisterer, log)

	tree := exptree.New[int64, int64]()
	defer tree.Close()

	rng := rand.New(rand.NewSource(seed))
	keys := make([]int64, 0, count)

	log.Info().Int64("count", count).Float64("read_frac", readFrac).Msg("starting run")
	start := time.Now()
	since := start

	for i := int64(0); i < count; i++ {
		if len(keys) > 0 && rng.Float64() < readFrac {
			k := keys[rng.Intn(len(keys))]
			_, ok := tree.Get(k)
			rec.ObserveGet(ok)
		} else {
			k, v := rng.Int63(), rng.Int63()
			existed, err := tree.Put(k, v)
			rec.ObservePut(existed, err)
			if err != nil {
				return fmt.Errorf("put failed after %s ops: %w", humanize.Comma(i), err)
			}
			if !existed {
				keys = append(keys, k)
			}
		}
		telemetry.LogProgress(log, "run", i+1, reportEvery, &since)
	}

	telemetry.Sample(rec, tree)
	elapsed := time.Since(start)
	log.Info().
		Str("elapsed", elapsed.String()).
		Str("ops_per_sec", humanize.Comma(int64(float64(count)/elapsed.Seconds()))).
		Str("bytes_used", humanize.Bytes(uint64(tree.BytesUsed()))).
		Str("bytes_in_cache", humanize.Bytes(uint64(tree.BytesInCache()))).
		Msg("run complete")

	return nil
}
