package filesync

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mesh-intelligence/cfgsync/pkg/types"
)

// ConfigStore is the slice of the record mapper the syncer needs.
// *sqlite.Mapper[types.Config, *types.Config] satisfies it.
type ConfigStore interface {
	All(ctx context.Context) ([]types.Config, error)
	Update(ctx context.Context, id int64, column string, value any) (int64, error)
}

// Report lists the paths processed by a sync pass, in processing order.
type Report struct {
	Paths []string
}

// Syncer transfers config content between the store and the filesystem.
type Syncer struct {
	configs ConfigStore
	log     *slog.Logger
}

// New returns a Syncer over configs. A nil logger discards output.
func New(configs ConfigStore, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Syncer{configs: configs, log: logger}
}

// PushToFiles writes every stored config to its path, creating or
// truncating the file. The first failure aborts the pass; files already
// written stay written. The returned report lists the paths written before
// any failure. Filesystem failures wrap ErrIO.
func (s *Syncer) PushToFiles(ctx context.Context) (Report, error) {
	var report Report

	configs, err := s.configs.All(ctx)
	if err != nil {
		return report, fmt.Errorf("fetching configs: %w", err)
	}

	for _, c := range configs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := writeLines(c.Path, c.Data); err != nil {
			return report, fmt.Errorf("%w: writing config %d to %s: %w", types.ErrIO, c.ID, c.Path, err)
		}
		s.log.Debug("pushed config", "id", c.ID, "path", c.Path, "lines", len(c.Data))
		report.Paths = append(report.Paths, c.Path)
	}
	return report, nil
}

// PullFromFiles reads every tracked path and replaces the stored data with
// the file's current lines. The first missing or unreadable file aborts the
// pass; configs updated before it keep their new content.
func (s *Syncer) PullFromFiles(ctx context.Context) (Report, error) {
	var report Report

	configs, err := s.configs.All(ctx)
	if err != nil {
		return report, fmt.Errorf("fetching configs: %w", err)
	}

	for _, c := range configs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		lines, err := ReadLines(c.Path)
		if err != nil {
			return report, fmt.Errorf("config %d: %w", c.ID, err)
		}
		if _, err := s.configs.Update(ctx, c.ID, "data", types.EncodeLines(lines)); err != nil {
			return report, fmt.Errorf("storing config %d: %w", c.ID, err)
		}
		s.log.Debug("pulled config", "id", c.ID, "path", c.Path, "lines", len(lines))
		report.Paths = append(report.Paths, c.Path)
	}
	return report, nil
}

// ReadLines reads the whole file at path and splits it into lines.
// Failures wrap ErrIO.
func ReadLines(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", types.ErrIO, path, err)
	}
	return types.SplitLines(string(content)), nil
}

// writeLines truncates path and writes lines, each followed by a newline
// except the last. The last element is whatever followed the final newline
// of the file the lines were read from (empty for a newline-terminated
// file), so a push reproduces that file byte for byte.
func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for i, line := range lines {
		if i > 0 {
			if _, err := w.WriteString(types.LineSeparator); err != nil {
				f.Close()
				return err
			}
		}
		if _, err := w.WriteString(line); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
