package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/cfgsync/pkg/types"
)

// Record kinds in an export file.
const (
	kindVersion = "version"
	kindConfig  = "config"
)

// exportRecord is one line of an export file. Exactly one of Version and
// Config is set, matching Kind.
type exportRecord struct {
	Kind    string         `json:"kind"`
	Version *types.Version `json:"version,omitempty"`
	Config  *exportConfig  `json:"config,omitempty"`
}

// exportConfig carries Data in the column encoding so bytes that are not
// valid UTF-8 survive JSON.
type exportConfig struct {
	ID        int64  `json:"id"`
	VersionID int64  `json:"version_id"`
	Path      string `json:"path"`
	Data      string `json:"data"`
}

func newExportConfig(c types.Config) *exportConfig {
	return &exportConfig{ID: c.ID, VersionID: c.VersionID, Path: c.Path, Data: types.EncodeLines(c.Data)}
}

func (e *exportConfig) config() (types.Config, error) {
	lines, err := types.DecodeLines(e.Data)
	if err != nil {
		return types.Config{}, err
	}
	return types.Config{ID: e.ID, VersionID: e.VersionID, Path: e.Path, Data: lines}, nil
}

// ImportResult counts what Import did.
type ImportResult struct {
	Versions int // Version rows inserted.
	Configs  int // Config rows inserted.
	Skipped  int // Malformed lines, unknown kinds, and ids already present.
}

// Export writes every version and then every config to path as JSONL.
// The file is replaced atomically. Returns the number of records written.
func (b *Backend) Export(ctx context.Context, path string) (int, error) {
	versions, err := b.Versions()
	if err != nil {
		return 0, err
	}
	configs, err := b.Configs()
	if err != nil {
		return 0, err
	}

	allVersions, err := versions.All(ctx)
	if err != nil {
		return 0, err
	}
	allConfigs, err := configs.All(ctx)
	if err != nil {
		return 0, err
	}

	records := make([]json.RawMessage, 0, len(allVersions)+len(allConfigs))
	for i := range allVersions {
		raw, err := json.Marshal(exportRecord{Kind: kindVersion, Version: &allVersions[i]})
		if err != nil {
			return 0, fmt.Errorf("marshaling version %d: %w", allVersions[i].ID, err)
		}
		records = append(records, raw)
	}
	for i := range allConfigs {
		raw, err := json.Marshal(exportRecord{Kind: kindConfig, Config: newExportConfig(allConfigs[i])})
		if err != nil {
			return 0, fmt.Errorf("marshaling config %d: %w", allConfigs[i].ID, err)
		}
		records = append(records, raw)
	}

	if err := writeJSONL(path, records); err != nil {
		return 0, fmt.Errorf("%w: exporting to %s: %w", types.ErrIO, path, err)
	}
	b.log.Debug("exported store", "path", path, "records", len(records))
	return len(records), nil
}

// Import inserts the records of a JSONL export into the store, keeping
// their ids. Records that fail to decode, and records whose id already
// exists, are skipped and counted. Any other storage failure aborts the
// import and wraps ErrStorage; rows inserted before it stay inserted.
func (b *Backend) Import(ctx context.Context, path string) (ImportResult, error) {
	var result ImportResult

	versions, err := b.Versions()
	if err != nil {
		return result, err
	}
	configs, err := b.Configs()
	if err != nil {
		return result, err
	}

	records, skipped, err := readJSONL(path)
	if err != nil {
		return result, fmt.Errorf("%w: importing %s: %w", types.ErrIO, path, err)
	}
	result.Skipped = skipped

	for _, raw := range records {
		var rec exportRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			result.Skipped++
			continue
		}
		switch {
		case rec.Kind == kindVersion && rec.Version != nil:
			inserted, err := insertNew(ctx, versions, rec.Version, rec.Version.ID)
			if err != nil {
				return result, fmt.Errorf("importing %s: %w", path, err)
			}
			if !inserted {
				b.log.Warn("skipping version, id exists", "id", rec.Version.ID)
				result.Skipped++
				continue
			}
			result.Versions++
		case rec.Kind == kindConfig && rec.Config != nil:
			c, err := rec.Config.config()
			if err != nil {
				b.log.Warn("skipping config", "id", rec.Config.ID, "err", err)
				result.Skipped++
				continue
			}
			inserted, err := insertNew(ctx, configs, &c, c.ID)
			if err != nil {
				return result, fmt.Errorf("importing %s: %w", path, err)
			}
			if !inserted {
				b.log.Warn("skipping config, id exists", "id", c.ID)
				result.Skipped++
				continue
			}
			result.Configs++
		default:
			result.Skipped++
		}
	}

	b.log.Debug("imported store", "path", path,
		"versions", result.Versions, "configs", result.Configs, "skipped", result.Skipped)
	return result, nil
}

// insertNew creates e unless a row with id already exists. It reports
// whether a row was inserted.
func insertNew[T any, P record[T]](ctx context.Context, m *Mapper[T, P], e P, id int64) (bool, error) {
	_, err := m.Find(ctx, id)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, types.ErrNotFound):
		return false, err
	}
	if err := m.Create(ctx, e); err != nil {
		return false, err
	}
	return true, nil
}
