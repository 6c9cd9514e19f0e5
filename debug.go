package thimble

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

type GraphInfo struct {
	Bindings []BindingInfo
}

type BindingInfo struct {
	Key          string
	Lifetime     string
	Dependencies []string
	Dependents   []string
	Cached       bool
}

// Graph snapshots the root scope's bindings in registration order.
func (c *Container) Graph() GraphInfo {
	g := c.engine.BuildGraph()
	root := c.engine.Root()

	bindings := make([]BindingInfo, 0, g.Size())
	for _, key := range g.Nodes() {
		info := BindingInfo{
			Key:          key,
			Lifetime:     "unknown",
			Dependencies: g.Dependencies(key),
			Dependents:   g.Dependents(key),
			Cached:       root.Cached(key),
		}

		if b, ok := root.Registry().Get(key); ok {
			if b.HasValue {
				info.Lifetime = "value"
			} else {
				info.Lifetime = b.Lifetime.String()
			}
		}

		bindings = append(bindings, info)
	}

	return GraphInfo{Bindings: bindings}
}

func (c *Container) PrintGraph() {
	c.FprintGraph(os.Stdout)
}

func (c *Container) FprintGraph(w io.Writer) {
	info := c.Graph()

	if len(info.Bindings) == 0 {
		_, _ = fmt.Fprintln(w, "(empty container)")
		return
	}

	for _, b := range info.Bindings {
		status := "○"
		if b.Cached {
			status = "●"
		}

		if len(b.Dependencies) == 0 {
			_, _ = fmt.Fprintf(w, "%s %s\n", status, b.Key)
		} else {
			_, _ = fmt.Fprintf(w, "%s %s ← %s\n", status, b.Key, strings.Join(b.Dependencies, ", "))
		}
	}
}

func (c *Container) SprintGraph() string {
	var sb strings.Builder
	c.FprintGraph(&sb)
	return sb.String()
}

func (c *Container) PrintGraphDOT() {
	c.FprintGraphDOT(os.Stdout)
}

func (c *Container) FprintGraphDOT(w io.Writer) {
	info := c.Graph()

	_, _ = fmt.Fprintln(w, "digraph dependencies {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, b := range info.Bindings {
		label := escapeLabel(b.Key)
		style := ""
		if b.Cached {
			style = ", style=filled, fillcolor=lightblue"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", b.Key, label, style)
	}

	_, _ = fmt.Fprintln(w)

	for _, b := range info.Bindings {
		for _, dep := range b.Dependencies {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", b.Key, dep)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (c *Container) SprintGraphDOT() string {
	var sb strings.Builder
	c.FprintGraphDOT(&sb)
	return sb.String()
}

// PrintBindings renders the root scope's bindings as a table.
func (c *Container) PrintBindings() {
	c.FprintBindings(os.Stdout)
}

func (c *Container) FprintBindings(w io.Writer) {
	info := c.Graph()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Key", "Lifetime", "Dependencies", "Cached"})

	for _, b := range info.Bindings {
		cached := ""
		if b.Cached {
			cached = "yes"
		}
		t.AppendRow(table.Row{
			b.Key,
			b.Lifetime,
			strings.Join(b.Dependencies, ", "),
			cached,
		})
	}

	t.Render()
}

func (c *Container) SprintBindings() string {
	var sb strings.Builder
	c.FprintBindings(&sb)
	return sb.String()
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "*", "")
	if idx := strings.LastIndex(s, "/"); idx != -1 {
		s = s[idx+1:]
	}
	return s
}
