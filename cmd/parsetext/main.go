// parsetext runs the text-pattern parser and rule engine over a saved OCR
// text dump and prints the enhanced invoice as JSON. Handy for tuning the
// line templates against a problem invoice without an OCR round-trip.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/HJantango/wild-octave-invoice/internal/enhance"
	"github.com/HJantango/wild-octave-invoice/internal/extract"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: parsetext <ocr-text-file>")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}

	parser := extract.NewTextParser(logger)
	inv := parser.ParseInvoice(string(data))

	enhancer := enhance.NewEnhancer(nil, enhance.NewRuleEngine(), 0, logger)
	inv.LineItems = enhancer.Enhance(context.Background(), inv.LineItems)
	inv.RecalcTotals()

	out, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
