package cmd

import (
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/degreeplan/internal/catalog"
	"github.com/papapumpkin/degreeplan/internal/planfile"
	"github.com/papapumpkin/degreeplan/internal/scrape"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <hierarchy.toml | url...>",
	Short: "Compile catalog pages into major requirement files",
	Long: `Fetches catalog pages, keeps the configured entry types, and compiles each
page's course tables into requirement groups. Every compiled major is
written to --out as TOML.

The argument is either a hierarchy file whose leaves are page URLs, or one
or more URLs. URLs are arranged by path like a hierarchy file, so they are
scraped in path order and a repeated path is scraped once.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().String("out", "majors", "directory for compiled major files")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	urls, err := scrapeTargets(args)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no catalog urls to scrape")
	}

	types := make([]catalog.EntryType, len(s.cfg.Scrape.EntryTypes))
	for i, t := range s.cfg.Scrape.EntryTypes {
		types[i] = catalog.EntryType(strings.ToLower(t))
	}
	runner := scrape.NewRunner(
		scrape.NewHTTPFetcher(s.cfg.Scrape.Timeout, s.cfg.Scrape.UserAgent),
		scrape.WithConcurrency(s.cfg.Scrape.Concurrency),
		scrape.WithEntryTypes(types...),
		scrape.WithLogger(s.log),
		scrape.WithTelemetry(s.emitter),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	summary := runner.Run(ctx, urls)

	for _, m := range summary.Majors() {
		path := filepath.Join(outDir, slug(m.Name)+".toml")
		if err := planfile.WriteMajor(path, m); err != nil {
			return err
		}
		s.printer.Info("wrote " + path)
	}
	s.printer.ScrapeSummary(summary)
	if len(summary.Ok) == 0 {
		return fmt.Errorf("no entries compiled")
	}
	return nil
}

// scrapeTargets expands a single hierarchy file into its leaf URLs, or
// arranges URL arguments into a hierarchy by path and flattens it.
func scrapeTargets(args []string) ([]string, error) {
	if len(args) == 1 && strings.HasSuffix(args[0], ".toml") {
		h, err := planfile.LoadHierarchy(args[0])
		if err != nil {
			return nil, err
		}
		return h.Flatten(), nil
	}
	urls := make([]*url.URL, len(args))
	for i, arg := range args {
		u, err := url.Parse(arg)
		if err != nil {
			return nil, err
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%q is not an absolute URL", arg)
		}
		urls[i] = u
	}
	h, err := catalog.BuildHierarchy(urls)
	if err != nil {
		return nil, err
	}
	return h.Flatten(), nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(name string) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if s == "" {
		return "major"
	}
	return s
}
