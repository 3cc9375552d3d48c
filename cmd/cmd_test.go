package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/papapumpkin/degreeplan/internal/config"
	"github.com/papapumpkin/degreeplan/internal/course"
	"github.com/papapumpkin/degreeplan/internal/nupath"
	"github.com/papapumpkin/degreeplan/internal/planfile"
	"github.com/papapumpkin/degreeplan/internal/requirement"
	"github.com/papapumpkin/degreeplan/internal/schedule"
	"github.com/papapumpkin/degreeplan/internal/warning"
)

func taken(subject string, id int, nupaths ...string) course.Course {
	return course.Course{
		Ref:        course.Ref{Subject: subject, ClassID: id},
		CreditsMin: 4,
		CreditsMax: 4,
		NUPaths:    nupaths,
	}
}

func testPlan() *planfile.Plan {
	return &planfile.Plan{
		Major:         "Computer Science, BSCS",
		Concentration: "Systems",
		Transfer:      []course.Course{taken("MATH", 1341, "FQ")},
		Years: []schedule.Year{{
			Year: 1,
			Fall: schedule.Term{
				Season:  schedule.Fall,
				Year:    18,
				Status:  schedule.StatusClasses,
				Courses: []course.Course{taken("CS", 2500, "ND"), taken("CS", 1800)},
			},
			Spring:  schedule.Term{Season: schedule.Spring, Year: 19, Status: schedule.StatusClasses},
			Summer1: schedule.Term{Season: schedule.Summer1, Year: 19, Status: schedule.StatusInactive},
			Summer2: schedule.Term{Season: schedule.Summer2, Year: 19, Status: schedule.StatusInactive},
		}},
	}
}

func testMajor() *requirement.Major {
	return &requirement.Major{
		Name: "Computer Science, BSCS",
		Groups: []requirement.Group{
			{
				Name:         "Fundamentals",
				Type:         requirement.GroupAnd,
				Requirements: []requirement.Requirement{requirement.Course("CS", 2500), requirement.Course("CS", 1800)},
			},
		},
		Concentrations: []requirement.Concentration{{
			Name: "Systems",
			Groups: []requirement.Group{{
				Name:         "Systems Core",
				Type:         requirement.GroupAnd,
				Requirements: []requirement.Requirement{requirement.Course("CS", 3650)},
			}},
		}},
	}
}

func testSession() *session {
	return &session{
		cfg: config.Config{MaxDepth: 64, PrereqOrder: config.PrereqLenient},
		log: zap.NewNop(),
	}
}

func TestAudit_UsesPlanConcentration(t *testing.T) {
	t.Parallel()

	report, err := audit(testSession(), testPlan(), testMajor(), "", "")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if report.Concentration != "Systems" {
		t.Errorf("Concentration = %q, want Systems", report.Concentration)
	}
	if len(report.Result.Satisfied) != 1 || report.Result.Satisfied[0] != "Fundamentals" {
		t.Errorf("Satisfied = %v, want [Fundamentals]", report.Result.Satisfied)
	}
	if len(report.Result.Warnings) != 1 || report.Result.Warnings[0].RequirementGroup != "Systems Core" {
		t.Errorf("Warnings = %+v, want one for Systems Core", report.Result.Warnings)
	}
}

func TestAudit_NUPathCountsTransfers(t *testing.T) {
	t.Parallel()

	report, err := audit(testSession(), testPlan(), testMajor(), "", "")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if got := report.NUPath.Counts[nupath.Tag("FQ")]; got != 1 {
		t.Errorf("FQ count = %d, want 1 from transfer credit", got)
	}
	if got := report.NUPath.Counts[nupath.Tag("ND")]; got != 1 {
		t.Errorf("ND count = %d, want 1", got)
	}
}

func TestAudit_UnknownConcentration(t *testing.T) {
	t.Parallel()

	_, err := audit(testSession(), testPlan(), testMajor(), "Robotics", "")
	if err == nil {
		t.Fatal("expected error for unknown concentration")
	}
	if !strings.Contains(err.Error(), "Robotics") {
		t.Errorf("error %q should name the concentration", err)
	}
}

func TestAudit_SingleGroup(t *testing.T) {
	t.Parallel()

	report, err := audit(testSession(), testPlan(), testMajor(), "", "Systems Core")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(report.Result.Satisfied) != 0 {
		t.Errorf("Satisfied = %v, want none", report.Result.Satisfied)
	}
	if len(report.Result.Warnings) != 1 || report.Result.Warnings[0].RequirementGroup != "Systems Core" {
		t.Errorf("Warnings = %+v, want only Systems Core", report.Result.Warnings)
	}

	_, err = audit(testSession(), testPlan(), testMajor(), "", "Electives")
	if err == nil {
		t.Fatal("expected error for unknown group")
	}
	if !strings.Contains(err.Error(), "have: Fundamentals, Systems Core") {
		t.Errorf("error %q should list the available groups", err)
	}
}

func TestWarningOptions_MapsConfig(t *testing.T) {
	t.Parallel()

	s := testSession()
	s.cfg.Load.Fall = config.Band{Min: 8, Max: 20}
	s.cfg.Load.Coop = config.Band{Min: 0, Max: 4}
	s.cfg.Fillers = []string{"XXXX9999"}

	opts := s.warningOptions()
	if opts.Bands.Fall != (warning.Band{Min: 8, Max: 20}) {
		t.Errorf("Fall band = %+v", opts.Bands.Fall)
	}
	if opts.Bands.Coop != (warning.Band{Min: 0, Max: 4}) {
		t.Errorf("Coop band = %+v", opts.Bands.Coop)
	}
	if opts.Ordering != warning.Lenient {
		t.Errorf("Ordering = %q, want lenient", opts.Ordering)
	}
	if len(opts.Fillers) != 1 || opts.Fillers[0] != "XXXX9999" {
		t.Errorf("Fillers = %v", opts.Fillers)
	}
}

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"Computer Science, BSCS", "computer-science-bscs"},
		{"  Data Science & Biology  ", "data-science-biology"},
		{"!!!", "major"},
	}
	for _, tt := range tests {
		if got := slug(tt.name); got != tt.want {
			t.Errorf("slug(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestScrapeTargets(t *testing.T) {
	t.Parallel()

	urls := []string{"https://a.example/x", "https://a.example/y"}
	got, err := scrapeTargets(urls)
	if err != nil {
		t.Fatalf("scrapeTargets: %v", err)
	}
	if len(got) != 2 || got[0] != urls[0] {
		t.Errorf("urls passed through as %v", got)
	}

	got, err = scrapeTargets([]string{
		"https://a.example/ug/science/cs/",
		"https://a.example/ug/arts/music/",
		"https://a.example/ug/science/cs/",
	})
	if err != nil {
		t.Fatalf("scrapeTargets: %v", err)
	}
	if want := []string{"https://a.example/ug/arts/music/", "https://a.example/ug/science/cs/"}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	for _, bad := range [][]string{
		{"catalog/cs"},
		{"https://a.example/"},
		{"https://a.example/ug/cs", "https://a.example/ug/cs/systems"},
	} {
		if _, err := scrapeTargets(bad); err == nil {
			t.Errorf("scrapeTargets(%v) succeeded, want error", bad)
		}
	}

	path := filepath.Join(t.TempDir(), "hierarchy.toml")
	data := "[undergraduate]\nb = \"https://a.example/b\"\na = \"https://a.example/a\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = scrapeTargets([]string{path})
	if err != nil {
		t.Fatalf("scrapeTargets(hierarchy): %v", err)
	}
	want := []string{"https://a.example/a", "https://a.example/b"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPrintEvent(t *testing.T) {
	t.Parallel()

	line := `{"ts":"2026-02-15T10:00:00Z","kind":"entry_done","run_id":"r1","entry_id":"https://a.example/x","data":{"ok":true,"trace":["CLASSIFY"]}}`

	var buf bytes.Buffer
	printEvent(&buf, line, "")
	got := buf.String()
	for _, want := range []string{"[10:00:00]", "entry_done", "run=r1", "entry=https://a.example/x", "ok=true"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}

	buf.Reset()
	printEvent(&buf, line, "other-run")
	if buf.Len() != 0 {
		t.Errorf("event of another run printed: %q", buf.String())
	}

	buf.Reset()
	printEvent(&buf, "not json", "")
	if !strings.HasPrefix(buf.String(), "??? ") {
		t.Errorf("malformed line printed as %q", buf.String())
	}
}

func TestFormatDataMap_SortsKeys(t *testing.T) {
	t.Parallel()

	got := formatDataMap(map[string]any{"ok": 2, "failed": 1})
	if got != "failed=1 ok=2" {
		t.Errorf("formatDataMap = %q", got)
	}
}

func TestResolveTelemetryPath(t *testing.T) {
	t.Parallel()

	if _, err := resolveTelemetryPath(""); err == nil {
		t.Error("expected error for empty path")
	}

	dir := t.TempDir()
	older := filepath.Join(dir, "a.jsonl")
	newer := filepath.Join(dir, "b.jsonl")
	for _, p := range []string{older, newer, filepath.Join(dir, "notes.txt")} {
		if err := os.WriteFile(p, []byte("{}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	got, err := resolveTelemetryPath(dir)
	if err != nil {
		t.Fatalf("resolveTelemetryPath(dir): %v", err)
	}
	if got != newer {
		t.Errorf("got %s, want %s", got, newer)
	}

	got, err = resolveTelemetryPath(older)
	if err != nil || got != older {
		t.Errorf("resolveTelemetryPath(file) = %s, %v", got, err)
	}
}

func TestCourseChain(t *testing.T) {
	t.Parallel()
	withPrereq := func(c course.Course, e course.Expr) course.Course {
		c.Prereqs = &e
		return c
	}
	transfers := []course.Course{taken("MATH", 1341)}
	courses := append(transfers,
		taken("CS", 1800),
		taken("CS", 2500),
		withPrereq(taken("CS", 2510), course.And(course.Leaf("CS", 2500), course.Leaf("CS", 1800))),
		withPrereq(taken("CS", 3500), course.Leaf("CS", 2510)),
		withPrereq(taken("CS", 4500), course.Leaf("CS", 3500)),
	)
	g, err := warning.PrerequisiteGraph(courses)
	if err != nil {
		t.Fatal(err)
	}

	chain, err := courseChain(g, "CS3500", transfers)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"CS1800", "CS2500", "CS2510"}; !slices.Equal(chain.Prerequisites, want) {
		t.Errorf("Prerequisites = %v, want %v", chain.Prerequisites, want)
	}
	if want := []string{"CS4500"}; !slices.Equal(chain.Unlocks, want) {
		t.Errorf("Unlocks = %v, want %v", chain.Unlocks, want)
	}
	if want := []string{"CS1800", "CS2500"}; !slices.Equal(chain.Next, want) {
		t.Errorf("Next = %v, want %v", chain.Next, want)
	}

	leaf, err := courseChain(g, "CS4500", transfers)
	if err != nil {
		t.Fatal(err)
	}
	if len(leaf.Unlocks) != 0 || leaf.Unlocks == nil {
		t.Errorf("Unlocks = %#v, want empty non-nil", leaf.Unlocks)
	}
}
