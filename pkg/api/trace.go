package api

import "strings"

// TraceEntry is one line of a rendered trace: a recorded call name and its
// nesting depth.
type TraceEntry struct {
	Name  string
	Depth int
}

type nodeKind uint8

const (
	nodeCall nodeKind = iota
	// nodeHead anchors the children of a composition. Head nodes are never
	// included in rendered traces.
	nodeHead
)

type traceNode struct {
	name    string
	kind    nodeKind
	child   int
	sibling int
}

// arena stores call-context nodes as an indexed slice. Parent/child/sibling
// relationships are indices, -1 meaning none. Node 0 is the root head.
type arena struct {
	nodes []traceNode
}

func newArena() *arena {
	return &arena{nodes: []traceNode{{kind: nodeHead, child: -1, sibling: -1}}}
}

func (a *arena) add(kind nodeKind, name string) int {
	a.nodes = append(a.nodes, traceNode{name: name, kind: kind, child: -1, sibling: -1})
	return len(a.nodes) - 1
}

// attach links idx under current: as the first child when current is a head
// that has none yet, otherwise at the end of the relevant sibling chain.
// Returns idx as the new current.
func (a *arena) attach(current, idx int) int {
	n := &a.nodes[current]
	at := &n.sibling
	if n.kind == nodeHead {
		at = &n.child
	}
	for *at != -1 {
		at = &a.nodes[*at].sibling
	}
	*at = idx
	return idx
}

// executionTrace walks the whole tree depth-first, children before siblings,
// skipping head nodes.
func (a *arena) executionTrace() []TraceEntry {
	var out []TraceEntry
	var walk func(i, depth int)
	walk = func(i, depth int) {
		for i != -1 {
			n := a.nodes[i]
			switch n.kind {
			case nodeCall:
				out = append(out, TraceEntry{Name: n.name, Depth: depth})
				if n.child != -1 {
					walk(n.child, depth+1)
				}
			default:
				if n.child != -1 {
					walk(n.child, depth)
				}
			}
			i = n.sibling
		}
	}
	walk(0, 0)
	return out
}

// backTrace walks only the most direct path from the root to the currently
// active frame: along each sibling chain, descending into the last node's
// child. Sibling compositions' bodies are omitted; depth increases only when
// descending into a child.
func (a *arena) backTrace() []TraceEntry {
	var out []TraceEntry
	depth := 0
	for i := 0; i != -1; {
		n := a.nodes[i]
		if n.kind == nodeCall {
			out = append(out, TraceEntry{Name: n.name, Depth: depth})
		}
		switch {
		case n.sibling != -1:
			i = n.sibling
		case n.child != -1:
			if n.kind == nodeCall {
				depth++
			}
			i = n.child
		default:
			i = -1
		}
	}
	return out
}

// FormatCallTree renders a trace root-first, indented by depth.
func FormatCallTree(entries []TraceEntry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat("  ", e.Depth))
		b.WriteString(e.Name)
	}
	return b.String()
}

// FormatStackTrace renders a trace most-recent-first, labeling each line
// "after X" when its depth is unchanged from the previous line and "in X"
// when the depth changed, mimicking a conventional stack trace.
func FormatStackTrace(entries []TraceEntry) string {
	var b strings.Builder
	prev := -1
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		if e.Depth == prev {
			b.WriteString("after ")
		} else {
			b.WriteString("in ")
		}
		b.WriteString(e.Name)
		prev = e.Depth
	}
	return b.String()
}
