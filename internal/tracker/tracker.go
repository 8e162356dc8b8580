// Package tracker is the query and mutation layer of cfgsync. It adds,
// deletes, updates and lists configs and versions, and drives the file sync
// passes, on top of the record mappers in internal/sqlite.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/cfgsync/internal/filesync"
	"github.com/mesh-intelligence/cfgsync/internal/sqlite"
	"github.com/mesh-intelligence/cfgsync/pkg/types"
)

// Fields accepted by UpdateConfig assignments.
const (
	FieldPath    = "path"
	FieldVersion = "version"
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) { t.log = logger }
}

// WithHeaderStyle sets the function applied to version names in tree
// listings. The default leaves them unchanged.
func WithHeaderStyle(style func(string) string) Option {
	return func(t *Tracker) { t.header = style }
}

// Tracker runs cfgsync operations against an attached backend.
type Tracker struct {
	backend  *sqlite.Backend
	versions *sqlite.Mapper[types.Version, *types.Version]
	configs  *sqlite.Mapper[types.Config, *types.Config]
	syncer   *filesync.Syncer
	log      *slog.Logger
	header   func(string) string
}

// New returns a Tracker over b, which must be attached.
func New(b *sqlite.Backend, opts ...Option) (*Tracker, error) {
	versions, err := b.Versions()
	if err != nil {
		return nil, err
	}
	configs, err := b.Configs()
	if err != nil {
		return nil, err
	}

	t := &Tracker{
		backend:  b,
		versions: versions,
		configs:  configs,
		log:      slog.New(slog.DiscardHandler),
		header:   func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(t)
	}
	t.syncer = filesync.New(configs, t.log)
	return t, nil
}

// AddVersion creates a version with the next free id.
func (t *Tracker) AddVersion(ctx context.Context, name string) (types.Version, error) {
	if name == "" {
		return types.Version{}, fmt.Errorf("version name is required: %w", types.ErrAmbiguousInput)
	}
	id, err := t.versions.NextID(ctx)
	if err != nil {
		return types.Version{}, err
	}
	v := types.Version{ID: id, Name: name}
	if err := t.versions.Create(ctx, &v); err != nil {
		return types.Version{}, err
	}
	t.log.Info("added version", "id", v.ID, "name", v.Name)
	return v, nil
}

// AddConfig reads the file at path and stores it under the version named
// (or numbered) by version. The file is read before anything is written, so
// an unreadable file leaves the store untouched.
func (t *Tracker) AddConfig(ctx context.Context, path, version string) (types.Config, error) {
	if path == "" {
		return types.Config{}, fmt.Errorf("config path is required: %w", types.ErrAmbiguousInput)
	}
	lines, err := filesync.ReadLines(path)
	if err != nil {
		return types.Config{}, err
	}
	v, err := t.resolveVersion(ctx, version)
	if err != nil {
		return types.Config{}, err
	}
	id, err := t.configs.NextID(ctx)
	if err != nil {
		return types.Config{}, err
	}

	c := types.Config{ID: id, VersionID: v.ID, Path: path, Data: lines}
	if err := t.configs.Create(ctx, &c); err != nil {
		return types.Config{}, err
	}
	t.log.Info("added config", "id", c.ID, "path", c.Path, "version", v.Name)
	return c, nil
}

// resolveVersion finds a version by exact name, falling back to reading
// ident as a numeric id. When several versions share the name the lowest id
// wins. Returns ErrNotFound when nothing matches.
func (t *Tracker) resolveVersion(ctx context.Context, ident string) (types.Version, error) {
	if ident == "" {
		return types.Version{}, fmt.Errorf("version is required: %w", types.ErrAmbiguousInput)
	}
	matches, err := t.versionsNamed(ctx, ident)
	if err != nil {
		return types.Version{}, err
	}
	if len(matches) > 0 {
		if len(matches) > 1 {
			t.log.Warn("version name is ambiguous, using lowest id",
				"name", ident, "matches", len(matches), "id", matches[0].ID)
		}
		return matches[0], nil
	}
	if id, err := strconv.ParseInt(ident, 10, 64); err == nil {
		return t.versions.Find(ctx, id)
	}
	return types.Version{}, fmt.Errorf("version %q: %w", ident, types.ErrNotFound)
}

func (t *Tracker) versionsNamed(ctx context.Context, name string) ([]types.Version, error) {
	return t.versions.SelectWhere(ctx, "name = ?", name)
}

// ConfigSelector picks configs to delete. Exactly one field must be set.
type ConfigSelector struct {
	ID   int64  // Exact id; zero means unset.
	Path string // Exact path.
	Name string // Trailing part of the path; may match many configs.
}

// DeleteConfig removes the configs picked by sel and returns how many were
// removed. Deleting by name matches every path ending in sel.Name.
// Returns ErrAmbiguousInput unless exactly one selector field is set.
func (t *Tracker) DeleteConfig(ctx context.Context, sel ConfigSelector) (int64, error) {
	set := 0
	for _, ok := range []bool{sel.ID != 0, sel.Path != "", sel.Name != ""} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return 0, fmt.Errorf("exactly one of id, path or name is required: %w", types.ErrAmbiguousInput)
	}

	var (
		n   int64
		err error
	)
	switch {
	case sel.ID != 0:
		n, err = t.configs.Delete(ctx, "id", sqlite.OpEqual, sel.ID)
	case sel.Path != "":
		n, err = t.configs.Delete(ctx, "path", sqlite.OpEqual, sel.Path)
	default:
		n, err = t.configs.Delete(ctx, "path", sqlite.OpLike, "%"+escapeLike(sel.Name))
	}
	if err != nil {
		return 0, err
	}
	t.log.Info("deleted configs", "id", sel.ID, "path", sel.Path, "name", sel.Name, "count", n)
	return n, nil
}

// DeleteVersion removes every version with the given name. Configs pointing
// at those versions are left in place.
func (t *Tracker) DeleteVersion(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("version name is required: %w", types.ErrAmbiguousInput)
	}
	n, err := t.versions.Delete(ctx, "name", sqlite.OpEqual, name)
	if err != nil {
		return 0, err
	}
	t.log.Info("deleted versions", "name", name, "count", n)
	return n, nil
}

// UpdateVersionName renames every version called oldName.
// Returns ErrNoMatch if there is none.
func (t *Tracker) UpdateVersionName(ctx context.Context, oldName, newName string) (int, error) {
	if newName == "" {
		return 0, fmt.Errorf("new version name is required: %w", types.ErrAmbiguousInput)
	}
	matches, err := t.versionsNamed(ctx, oldName)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, fmt.Errorf("version %q: %w", oldName, types.ErrNoMatch)
	}
	for _, v := range matches {
		if _, err := t.versions.Update(ctx, v.ID, "name", newName); err != nil {
			return 0, err
		}
	}
	t.log.Info("renamed versions", "from", oldName, "to", newName, "count", len(matches))
	return len(matches), nil
}

// UpdateConfig applies assignment ("path=/new/path" or "version=name") to
// every config stored at oldPath under versionName, and returns how many
// were changed. Errors: ErrNotFound when either version name is unknown,
// ErrNoMatch when no config matches, ErrInvalidField for any other field or
// a malformed assignment.
func (t *Tracker) UpdateConfig(ctx context.Context, oldPath, versionName, assignment string) (int, error) {
	v, err := t.resolveVersion(ctx, versionName)
	if err != nil {
		return 0, err
	}
	matches, err := t.configs.SelectWhere(ctx, "path = ? AND version_id = ?", oldPath, v.ID)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, fmt.Errorf("config %q in version %q: %w", oldPath, versionName, types.ErrNoMatch)
	}

	field, value, err := parseAssignment(assignment)
	if err != nil {
		return 0, err
	}

	var (
		column   string
		newValue any
	)
	switch field {
	case FieldPath:
		column, newValue = "path", value
	case FieldVersion:
		target, err := t.resolveVersion(ctx, value)
		if err != nil {
			return 0, err
		}
		column, newValue = "version_id", target.ID
	}

	for _, c := range matches {
		if _, err := t.configs.Update(ctx, c.ID, column, newValue); err != nil {
			return 0, err
		}
	}
	t.log.Info("updated configs", "path", oldPath, "version", versionName,
		"field", field, "value", value, "count", len(matches))
	return len(matches), nil
}

// parseAssignment splits "field=value" and checks the field name.
func parseAssignment(assignment string) (string, string, error) {
	field, value, ok := strings.Cut(assignment, "=")
	field = strings.TrimSpace(field)
	if !ok || value == "" {
		return "", "", fmt.Errorf("assignment %q must have the form field=value: %w", assignment, types.ErrInvalidField)
	}
	if field != FieldPath && field != FieldVersion {
		return "", "", fmt.Errorf("field %q (allowed: %s, %s): %w", field, FieldPath, FieldVersion, types.ErrInvalidField)
	}
	return field, value, nil
}

// escapeLike escapes LIKE wildcards so s matches literally under ESCAPE '\'.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Push writes every stored config to its file.
func (t *Tracker) Push(ctx context.Context) (filesync.Report, error) {
	return t.syncer.PushToFiles(ctx)
}

// Pull reads every tracked file into the store.
func (t *Tracker) Pull(ctx context.Context) (filesync.Report, error) {
	return t.syncer.PullFromFiles(ctx)
}

// Export dumps the store to a JSONL file.
func (t *Tracker) Export(ctx context.Context, path string) (int, error) {
	return t.backend.Export(ctx, path)
}

// Import loads a JSONL dump into the store.
func (t *Tracker) Import(ctx context.Context, path string) (sqlite.ImportResult, error) {
	return t.backend.Import(ctx, path)
}
