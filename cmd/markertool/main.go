// markertool is a CLI utility for checking and preparing marker feeds.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Faultbox/wondermap/internal/assets"
	"github.com/Faultbox/wondermap/internal/engine/heightfield"
	"github.com/Faultbox/wondermap/internal/globe/marker"
)

const fetchTimeout = 30 * time.Second

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "list", "ls":
		cmdList(args)
	case "validate", "check":
		cmdValidate(args)
	case "probe":
		cmdProbe(args)
	case "resample":
		cmdResample(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`markertool - wonder map marker feed utility

Usage:
  markertool <command> [options]

Commands:
  list <feed>                          List markers
  validate <feed>                      Check titles, links and content URLs
  probe <feed>                         Fetch every content asset and report its kind
  resample <feed> <heightmap> [output] Rewrite z from a height-map image

Feeds and assets may be file paths or http(s) URLs.

Examples:
  markertool list data/markers.json
  markertool probe https://example.org/data/markers.json
  markertool resample data/markers.json relief.png data/markers.json`)
}

func fail(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", a...)
	os.Exit(1)
}

func loadFeed(source string) []marker.Record {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	records, err := marker.LoadFeed(ctx, source, http.DefaultClient)
	if err != nil {
		fail("%v", err)
	}
	return records
}

func cmdList(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: markertool list <feed>")
		os.Exit(1)
	}

	records := loadFeed(args[0])

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTITLE\tX\tY\tZ\tSCALE\tCONTENT")
	for i, r := range records {
		p := r.MapNormalizedPosition
		fmt.Fprintf(w, "%d\t%s\t%.4f\t%.4f\t%.4f\t%.2f\t%s\n", i, r.Title, p.X, p.Y, p.Z, r.ContentScale, r.ContentURL)
	}
	w.Flush()
	fmt.Printf("\nTotal: %d markers\n", len(records))
}

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: markertool validate <feed>")
		os.Exit(1)
	}

	records := loadFeed(args[0])
	problems := 0
	seen := make(map[string]int)
	for i, r := range records {
		var issues []string
		if strings.TrimSpace(r.Title) == "" {
			issues = append(issues, "empty title")
		}
		if prev, ok := seen[r.Title]; ok && r.Title != "" {
			issues = append(issues, fmt.Sprintf("duplicate of #%d", prev))
		}
		seen[r.Title] = i
		if r.URL == "" {
			issues = append(issues, "no url")
		}
		if r.ContentURL == "" {
			issues = append(issues, "no contentUrl (reveal disabled)")
		}
		for _, issue := range issues {
			fmt.Printf("#%d %q: %s\n", i, r.Title, issue)
		}
		problems += len(issues)
	}

	if problems > 0 {
		fmt.Printf("\n%d problem(s) in %d markers\n", problems, len(records))
		os.Exit(1)
	}
	fmt.Printf("OK: %d markers\n", len(records))
}

func cmdProbe(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: markertool probe <feed>")
		os.Exit(1)
	}

	source := args[0]
	records := loadFeed(source)
	failed := 0

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tKIND\tMIME\tSIZE\tSOURCE")
	for _, r := range records {
		if r.ContentURL == "" {
			continue
		}
		src := resolve(source, r.ContentURL)
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		data, err := assets.Fetch(ctx, http.DefaultClient, src, nil)
		cancel()
		if err != nil {
			failed++
			fmt.Fprintf(w, "%s\tERROR\t-\t-\t%s (%v)\n", r.Title, src, err)
			continue
		}
		kind, mime := assets.Detect(data)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Title, kind, mime, formatSize(int64(len(data))), src)
	}
	w.Flush()

	if failed > 0 {
		fmt.Printf("\n%d asset(s) failed\n", failed)
		os.Exit(1)
	}
}

func cmdResample(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: markertool resample <feed> <heightmap> [output]")
		os.Exit(1)
	}

	records := loadFeed(args[0])
	field, err := heightfield.Load(args[1], 512, 256)
	if err != nil {
		fail("%v", err)
	}

	out := marker.ResampleHeights(records, field)
	data, err := marker.EncodeFeed(out)
	if err != nil {
		fail("%v", err)
	}

	if len(args) < 3 {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(args[2], data, 0o644); err != nil {
		fail("writing %s: %v", args[2], err)
	}
	fmt.Printf("Resampled %d markers -> %s\n", len(out), args[2])
}

// resolve finds a content path relative to a local feed.
func resolve(feed, ref string) string {
	if strings.Contains(ref, "://") || filepath.IsAbs(ref) || strings.Contains(feed, "://") {
		return ref
	}
	return filepath.Join(filepath.Dir(feed), ref)
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
