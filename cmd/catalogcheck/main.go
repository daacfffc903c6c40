// Command catalogcheck probes an audio directory against the song catalog
// and reports missing files and duration drift. It exits 1 on any problem.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sacredrosary/rosary-server/internal/catalog"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("catalogcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dir := fs.String("audio-dir", ".", "directory holding the audio files")
	catalogPath := fs.String("catalog", "", "TOML song catalog (default: built-in)")
	timeout := fs.Duration("timeout", time.Minute, "overall probe timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	c := catalog.Default()
	if *catalogPath != "" {
		var err error
		if c, err = catalog.Load(*catalogPath); err != nil {
			fmt.Fprintf(stderr, "catalogcheck: %v\n", err)
			return 1
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	results, err := catalog.Probe(ctx, c, *dir)
	if err != nil {
		fmt.Fprintf(stderr, "catalogcheck: %v\n", err)
		return 1
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SONG\tNOMINAL\tMEASURED\tFORMAT\tSTATUS")
	failed := 0
	for _, r := range results {
		status := "ok"
		switch {
		case r.Missing:
			status = "missing"
		case r.Err != nil:
			status = "error: " + r.Err.Error()
		case r.Mismatch():
			status = "duration mismatch"
		}
		if !r.OK() {
			failed++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.SongID, r.Nominal, r.Measured.Round(time.Second), r.Format, status)
	}
	_ = w.Flush()

	if failed > 0 {
		fmt.Fprintf(stderr, "%d of %d songs have problems\n", failed, len(results))
		return 1
	}
	return 0
}
