package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type result struct {
	scenario  string
	framework string
	nsPerOp   float64
	bytesOp   int64
	allocsOp  int64
	runs      int
}

var benchLine = regexp.MustCompile(
	`^Benchmark(\w+?)_(\w+?)_(\w+)-\d+\s+\d+\s+([\d.]+) ns/op\s+(\d+) B/op\s+(\d+) allocs/op`,
)

func main() {
	dir := ".."
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	fmt.Println("running benchmarks, this takes a minute...")

	cmd := exec.Command("go", "test", "-bench=.", "-benchmem", "-count=3", "-benchtime=100ms")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		if exit, ok := err.(*exec.ExitError); ok {
			fmt.Fprintln(os.Stderr, string(exit.Stderr))
		}
		os.Exit(1)
	}

	byScenario := collect(output)

	scenarios := make([]string, 0, len(byScenario))
	for s := range byScenario {
		scenarios = append(scenarios, s)
	}
	sort.Strings(scenarios)

	for _, scenario := range scenarios {
		render(scenario, byScenario[scenario])
	}
}

// collect averages the repeated runs of each benchmark and groups them by
// scenario (the benchmark name without the framework suffix).
func collect(output []byte) map[string][]result {
	averaged := make(map[string]*result)

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		m := benchLine.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}

		ns, _ := strconv.ParseFloat(m[4], 64)
		bytesOp, _ := strconv.ParseInt(m[5], 10, 64)
		allocs, _ := strconv.ParseInt(m[6], 10, 64)

		key := m[1] + "_" + m[2] + "_" + m[3]
		r, ok := averaged[key]
		if !ok {
			r = &result{scenario: m[1] + "/" + m[2], framework: m[3]}
			averaged[key] = r
		}
		r.nsPerOp += ns
		r.bytesOp += bytesOp
		r.allocsOp += allocs
		r.runs++
	}

	byScenario := make(map[string][]result)
	for _, r := range averaged {
		n := float64(r.runs)
		byScenario[r.scenario] = append(byScenario[r.scenario], result{
			scenario:  r.scenario,
			framework: r.framework,
			nsPerOp:   r.nsPerOp / n,
			bytesOp:   int64(float64(r.bytesOp) / n),
			allocsOp:  int64(float64(r.allocsOp) / n),
		})
	}
	return byScenario
}

func render(scenario string, results []result) {
	sort.Slice(results, func(i, j int) bool { return results[i].nsPerOp < results[j].nsPerOp })
	fastest := results[0].nsPerOp

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.SetTitle(scenario)
	t.AppendHeader(table.Row{"Framework", "ns/op", "B/op", "allocs/op", "vs fastest"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	for i, r := range results {
		relative := "fastest"
		if i > 0 && fastest > 0 {
			relative = fmt.Sprintf("%.1fx", r.nsPerOp/fastest)
		}
		t.AppendRow(table.Row{
			r.framework,
			formatNs(r.nsPerOp),
			r.bytesOp,
			r.allocsOp,
			relative,
		})
	}

	t.Render()
	fmt.Println()
}

func formatNs(ns float64) string {
	switch {
	case ns >= 1_000_000:
		return fmt.Sprintf("%.2fms", ns/1_000_000)
	case ns >= 1_000:
		return fmt.Sprintf("%.2fµs", ns/1_000)
	default:
		return fmt.Sprintf("%.0fns", ns)
	}
}
