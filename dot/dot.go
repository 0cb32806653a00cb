// Package dot renders composed cascade graphs for inspection: Graphviz DOT
// text via Export and a drawn ASCII tree via Tree. It walks compositions
// through their read-only Steps/Kind surface only, so it works on any
// Composition implementation.
package dot

import (
	"fmt"
	"strings"

	"github.com/m1gwings/treedrawer/tree"
	"github.com/petrijr/cascade/pkg/api"
)

// conditioned is implemented by compositions that carry a distinguished
// condition step outside their step list (Loop).
type conditioned interface {
	Condition() api.Step
}

// Export renders c as a Graphviz digraph. Nested compositions are walked
// recursively; serial and loop bodies become edge chains, parallel branches
// fan out from the composition node, and branch conditions carry labeled
// true/false edges.
func Export(c api.Composition) string {
	var b strings.Builder
	b.WriteString("digraph {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n")
	next := 0
	writeComp(&b, c, &next)
	b.WriteString("}\n")
	return b.String()
}

func writeComp(b *strings.Builder, c api.Composition, next *int) int {
	id := node(b, next, fmt.Sprintf("%s\\n(%s)", c.Name(), c.Kind()), "ellipse")

	switch c.Kind() {
	case api.KindBranch:
		steps := c.Steps()
		if len(steps) != 3 {
			return id
		}
		cid := writeStep(b, steps[0], next)
		edge(b, id, cid, "")
		edge(b, cid, writeStep(b, steps[1], next), "true")
		edge(b, cid, writeStep(b, steps[2], next), "false")
	case api.KindParallel:
		for _, st := range c.Steps() {
			edge(b, id, writeStep(b, st, next), "")
		}
	default:
		prev := id
		if lc, ok := c.(conditioned); ok {
			cid := writeStep(b, lc.Condition(), next)
			edge(b, id, cid, "")
			prev = cid
		}
		for _, st := range c.Steps() {
			sid := writeStep(b, st, next)
			edge(b, prev, sid, "")
			prev = sid
		}
		if c.Kind() == api.KindLoop && prev != id {
			edge(b, prev, id, "repeat")
		}
	}
	return id
}

func writeStep(b *strings.Builder, st api.Step, next *int) int {
	if st.Sub != nil {
		return writeComp(b, st.Sub, next)
	}
	return node(b, next, st.Name, "box")
}

func node(b *strings.Builder, next *int, label, shape string) int {
	id := *next
	*next++
	// Not %q: labels carry DOT escapes like \n that must pass through.
	fmt.Fprintf(b, "  n%d [label=\"%s\" shape=%s];\n", id, strings.ReplaceAll(label, `"`, `\"`), shape)
	return id
}

func edge(b *strings.Builder, from, to int, label string) {
	if label == "" {
		fmt.Fprintf(b, "  n%d -> n%d;\n", from, to)
		return
	}
	fmt.Fprintf(b, "  n%d -> n%d [label=%q];\n", from, to, label)
}

// Tree draws c as an ASCII tree, one node per composition or step.
func Tree(c api.Composition) string {
	t := tree.NewTree(tree.NodeString(compLabel(c)))
	addChildren(t, c)
	return t.String()
}

func addChildren(t *tree.Tree, c api.Composition) {
	steps := c.Steps()
	offset := 0
	if lc, ok := c.(conditioned); ok {
		t.AddChild(tree.NodeString(lc.Condition().Name + "?"))
		offset = 1
	}
	for i, st := range steps {
		if st.Sub != nil {
			t.AddChild(tree.NodeString(compLabel(st.Sub)))
			if child, err := t.Child(i + offset); err == nil {
				addChildren(child, st.Sub)
			}
			continue
		}
		t.AddChild(tree.NodeString(st.Name))
	}
}

func compLabel(c api.Composition) string {
	return fmt.Sprintf("%s (%s)", c.Name(), c.Kind())
}
