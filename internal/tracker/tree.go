package tracker

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Tree connectors.
const (
	branchMid  = "├──"
	branchLast = "└──"
	groupRule  = "================"
)

// group is one version block of a tree listing.
type group struct {
	name  string
	paths []string
}

// groupSet collects paths per version name, remembering the order in which
// names first appear.
type groupSet struct {
	order []string
	paths map[string][]string
}

func newGroupSet() *groupSet {
	return &groupSet{paths: make(map[string][]string)}
}

func (g *groupSet) add(name, path string) {
	if _, ok := g.paths[name]; !ok {
		g.order = append(g.order, name)
	}
	g.paths[name] = append(g.paths[name], path)
}

func (g *groupSet) groups() []group {
	out := make([]group, len(g.order))
	for i, name := range g.order {
		out[i] = group{name: name, paths: g.paths[name]}
	}
	return out
}

// treeItem renders one child line. The last item, including a lone item,
// uses the terminal connector.
func treeItem(index, total, shift int, item string) string {
	branch := branchMid
	if index == total-1 {
		branch = branchLast
	}
	return fmt.Sprintf("%s%s %s", strings.Repeat(" ", shift), branch, item)
}

// renderTree writes each group as a rule, a header line with the version
// name, and one indented child line per path. Children are indented one
// column past the end of the name.
func renderTree(w io.Writer, groups []group, header func(string) string) error {
	for _, g := range groups {
		if _, err := fmt.Fprintln(w, groupRule); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, header(g.name)); err != nil {
			return err
		}
		shift := utf8.RuneCountInString(g.name) + 1
		for i, p := range g.paths {
			if _, err := fmt.Fprintln(w, treeItem(i, len(g.paths), shift, p)); err != nil {
				return err
			}
		}
	}
	return nil
}
