// Package main prints bonding curve price tables so curve parameters
// can be inspected before launching a token.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"wybe-engine/internal/curve"
	"wybe-engine/internal/domain"
)

func main() {
	curves := flag.String("curves", "linear,quadratic,exponential,logarithmic", "Comma-separated curve types to print")
	maxSupply := flag.Float64("max-supply", 1_000_000, "Largest supply in the table")
	steps := flag.Int("steps", 10, "Number of supply steps")
	flag.Parse()

	var selected []domain.CurveType
	for _, raw := range strings.Split(*curves, ",") {
		ct, err := domain.ParseCurveType(strings.TrimSpace(raw))
		if err != nil {
			fmt.Fprintf(os.Stderr, "unknown curve type %q\n", raw)
			os.Exit(1)
		}
		selected = append(selected, ct)
	}
	if *steps < 1 || *maxSupply <= 0 {
		fmt.Fprintln(os.Stderr, "steps must be >= 1 and max-supply positive")
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprint(w, "supply")
	for _, ct := range selected {
		fmt.Fprintf(w, "\t%s", ct)
	}
	fmt.Fprintln(w)

	step := *maxSupply / float64(*steps)
	for i := 0; i <= *steps; i++ {
		supply := step * float64(i)
		fmt.Fprintf(w, "%.0f", supply)
		for _, ct := range selected {
			fmt.Fprintf(w, "\t%.8f", curve.Price(supply, ct))
		}
		fmt.Fprintln(w)
	}

	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "write table: %v\n", err)
		os.Exit(1)
	}
}
