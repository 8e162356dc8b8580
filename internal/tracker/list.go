package tracker

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/cfgsync/pkg/types"
)

// ListConfigsTree writes every config grouped under its version name.
// Groups appear in the order their first config was stored; configs within
// a group are in id order. Configs whose version no longer exists are
// grouped under "<missing version N>".
func (t *Tracker) ListConfigsTree(ctx context.Context, w io.Writer) error {
	configs, err := t.configs.All(ctx)
	if err != nil {
		return err
	}
	if len(configs) == 0 {
		_, err := fmt.Fprintln(w, "No configs in db")
		return err
	}

	versions, err := t.versions.All(ctx)
	if err != nil {
		return err
	}
	names := make(map[int64]string, len(versions))
	for _, v := range versions {
		names[v.ID] = v.Name
	}

	set := newGroupSet()
	for _, c := range configs {
		name, ok := names[c.VersionID]
		if !ok {
			name = fmt.Sprintf("<missing version %d>", c.VersionID)
		}
		set.add(name, c.Path)
	}
	return renderTree(w, set.groups(), t.header)
}

// ListSingleVersion writes the tree block for the version called name.
// Returns ErrNotFound if no version has that name.
func (t *Tracker) ListSingleVersion(ctx context.Context, w io.Writer, name string) error {
	versions, err := t.versionsNamed(ctx, name)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		return fmt.Errorf("version %q: %w", name, types.ErrNotFound)
	}

	ids := make([]any, len(versions))
	marks := make([]string, len(versions))
	for i, v := range versions {
		ids[i] = v.ID
		marks[i] = "?"
	}
	configs, err := t.configs.SelectWhere(ctx,
		"version_id IN ("+strings.Join(marks, ", ")+")", ids...)
	if err != nil {
		return err
	}
	if len(configs) == 0 {
		_, err := fmt.Fprintf(w, "No configs in version %s\n", name)
		return err
	}

	set := newGroupSet()
	for _, c := range configs {
		set.add(name, c.Path)
	}
	return renderTree(w, set.groups(), t.header)
}

// ListVersions writes one "id name" line per version in id order.
func (t *Tracker) ListVersions(ctx context.Context, w io.Writer) error {
	versions, err := t.versions.All(ctx)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		_, err := fmt.Fprintln(w, "No versions in db")
		return err
	}
	for _, v := range versions {
		if _, err := fmt.Fprintf(w, "%d %s\n", v.ID, v.Name); err != nil {
			return err
		}
	}
	return nil
}
