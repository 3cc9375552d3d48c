package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papapumpkin/degreeplan/internal/course"
	"github.com/papapumpkin/degreeplan/internal/planfile"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local course store",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <courses.toml>...",
	Short: "Load course records into the course store",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCatalogImport,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <CODE>",
	Short: "Print one course from the course store",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

func init() {
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	store, _, err := s.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	for _, path := range args {
		courses, err := planfile.LoadCourses(path)
		if err != nil {
			return err
		}
		if err := store.Put(cmd.Context(), courses...); err != nil {
			return err
		}
		s.log.Debug("courses imported", zap.String("file", path), zap.Int("courses", len(courses)))
		s.printer.Info(fmt.Sprintf("%s: %d courses", path, len(courses)))
	}

	n, err := store.Count(cmd.Context())
	if err != nil {
		return err
	}
	s.printer.Success(fmt.Sprintf("course store %s holds %d courses", s.cfg.Catalog.DBPath, n))
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	ref, err := course.ParseCode(args[0])
	if err != nil {
		return err
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	store, lookup, err := s.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	c, err := lookup.FetchCourse(cmd.Context(), ref.Subject, ref.ClassID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%s is not in the course store", ref.Code())
	}
	s.printer.Course(*c)
	return nil
}
