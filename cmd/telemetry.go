package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/degreeplan/internal/config"
	"github.com/papapumpkin/degreeplan/internal/telemetry"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry [file|dir]",
	Short: "View JSONL telemetry events from scrapes and evaluations",
	Long: `Reads and formats a JSONL telemetry file.

Without an argument, reads telemetry.path from the configuration. A
directory argument selects its most recently modified .jsonl file.
With --run, only events of that run id are shown.
With --follow (-f), watches the file for new events (like tail -f).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTelemetry,
}

func init() {
	telemetryCmd.Flags().String("run", "", "only show events of this run id")
	telemetryCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	rootCmd.AddCommand(telemetryCmd)
}

func runTelemetry(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetString("run")
	follow, _ := cmd.Flags().GetBool("follow")

	target := ""
	if len(args) == 1 {
		target = args[0]
	} else {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		target = cfg.Telemetry.Path
	}
	path, err := resolveTelemetryPath(target)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	defer f.Close()

	w := cmd.OutOrStdout()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		printEvent(w, line, runID)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("telemetry: read %s: %w", path, err)
	}

	if !follow {
		return nil
	}

	return tailFollow(w, f, path, runID)
}

// tailFollow watches the file for new data using fsnotify and prints new events.
func tailFollow(w io.Writer, f *os.File, path, runID string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("telemetry: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("telemetry: watch %s: %w", path, err)
	}

	reader := bufio.NewReader(f)
	for event := range watcher.Events {
		if event.Op&fsnotify.Write == 0 {
			continue
		}
		for {
			line, err := reader.ReadString('\n')
			line = strings.TrimSpace(line)
			if line != "" {
				printEvent(w, line, runID)
			}
			if err != nil {
				break
			}
		}
	}
	return nil
}

// printEvent decodes a JSONL line and prints a human-readable representation.
// Events of other runs are skipped when runID is set.
func printEvent(w io.Writer, line, runID string) {
	var evt telemetry.Event
	if err := json.Unmarshal([]byte(line), &evt); err != nil {
		fmt.Fprintf(w, "??? %s\n", line)
		return
	}
	if runID != "" && evt.RunID != runID {
		return
	}

	parts := []string{fmt.Sprintf("[%s]", evt.Timestamp.Format(time.TimeOnly)), evt.Kind}
	if evt.RunID != "" {
		parts = append(parts, "run="+evt.RunID)
	}
	if evt.EntryID != "" {
		parts = append(parts, "entry="+evt.EntryID)
	}
	if len(evt.Data) > 0 {
		parts = append(parts, formatDataMap(evt.Data))
	}

	fmt.Fprintln(w, strings.Join(parts, " "))
}

// formatDataMap formats a data map as key=value pairs sorted by key.
func formatDataMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, m[k])
	}
	return b.String()
}

// resolveTelemetryPath returns target when it is a file, or the most
// recently modified .jsonl file when it is a directory.
func resolveTelemetryPath(target string) (string, error) {
	if target == "" {
		return "", fmt.Errorf("telemetry: no file given and telemetry.path is not set")
	}
	info, err := os.Stat(target)
	if err != nil {
		return "", fmt.Errorf("telemetry: %w", err)
	}
	if !info.IsDir() {
		return target, nil
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return "", fmt.Errorf("telemetry: cannot read %s: %w", target, err)
	}

	var jsonlFiles []os.DirEntry
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			jsonlFiles = append(jsonlFiles, e)
		}
	}
	if len(jsonlFiles) == 0 {
		return "", fmt.Errorf("telemetry: no JSONL files in %s", target)
	}

	// Sort by modification time, most recent last.
	sort.Slice(jsonlFiles, func(i, j int) bool {
		fi, _ := jsonlFiles[i].Info()
		fj, _ := jsonlFiles[j].Info()
		return fi.ModTime().Before(fj.ModTime())
	})

	return filepath.Join(target, jsonlFiles[len(jsonlFiles)-1].Name()), nil
}
