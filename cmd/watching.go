package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/papapumpkin/degreeplan/internal/watch"
)

// runChecks runs check once and, when watching, again after every change to
// files until ctx is done. Outside watch mode the first error is returned.
func runChecks(ctx context.Context, s *session, watching bool, files []string, check func(context.Context) error) error {
	if err := check(ctx); err != nil {
		if !watching {
			return err
		}
		s.printer.Error(err.Error())
	}
	if !watching {
		return nil
	}

	w, err := watch.New(files...)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to watch %s: %w", strings.Join(files, ", "), err)
	}
	defer w.Stop()
	s.printer.Info(fmt.Sprintf("watching %s (ctrl-c to stop)", strings.Join(files, ", ")))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ch := <-w.Changes:
			if ch.Kind == watch.ChangeRemoved {
				s.printer.Error(fmt.Sprintf("%s was removed", ch.File))
				continue
			}
			s.printer.Refresh(ch.File)
			if err := check(ctx); err != nil {
				s.printer.Error(err.Error())
			}
		case err := <-w.Errors:
			s.log.Warn("watch error", zap.Error(err))
		}
	}
}
