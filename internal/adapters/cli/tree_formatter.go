package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/industry-planner/internal/application/industry/queries"
)

// TreeFormatter renders a flattened step list as an indented production tree.
// Steps must be in pre-order, which is how expansion emits them.
type TreeFormatter struct {
	useColors bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors bool) *TreeFormatter {
	return &TreeFormatter{useColors: useColors}
}

// FormatTree renders every step with box-drawing prefixes derived from depth
func (f *TreeFormatter) FormatTree(steps []queries.StepDTO) string {
	if len(steps) == 0 {
		return "(no steps)"
	}

	var b strings.Builder
	// open[d] is true while the ancestor at depth d still has siblings below it
	var open []bool
	for i, st := range steps {
		last := isLastSibling(steps, i)
		if st.Depth == 0 {
			b.WriteString(f.formatLine(st))
			b.WriteString("\n")
			open = open[:0]
			continue
		}

		for len(open) < st.Depth {
			open = append(open, false)
		}
		open = open[:st.Depth]

		var prefix strings.Builder
		for d := 1; d < st.Depth; d++ {
			if open[d] {
				prefix.WriteString("│   ")
			} else {
				prefix.WriteString("    ")
			}
		}
		if last {
			prefix.WriteString("└── ")
		} else {
			prefix.WriteString("├── ")
		}
		open = append(open, !last)

		b.WriteString(prefix.String())
		b.WriteString(f.formatLine(st))
		b.WriteString("\n")
	}
	return b.String()
}

// isLastSibling reports whether no later step shares the parent of steps[i]
func isLastSibling(steps []queries.StepDTO, i int) bool {
	depth := steps[i].Depth
	for j := i + 1; j < len(steps); j++ {
		if steps[j].Depth < depth {
			return true
		}
		if steps[j].Depth == depth {
			return false
		}
	}
	return true
}

func (f *TreeFormatter) formatLine(st queries.StepDTO) string {
	if st.Leaf {
		status := "buy"
		if st.Purchased {
			status = "bought"
		}
		return fmt.Sprintf("%s x%d %s[%s]%s", st.ProductName, st.Quantity, f.color("\033[32m"), status, f.reset())
	}

	line := fmt.Sprintf("%s x%d %s[%s %d runs]%s", st.ProductName, st.Quantity, f.color("\033[33m"), st.Activity, st.Runs, f.reset())
	if st.SplitGroupID != "" {
		line += fmt.Sprintf(" part %d of %d runs", st.SplitIndex+1, st.TotalGroupRuns)
		if st.ManualSplit {
			line += " (manual)"
		}
	}
	if st.MatchedJobs > 0 {
		line += fmt.Sprintf(" jobs:%d active:%d delivered:%d", st.MatchedJobs, st.ActiveRuns, st.DeliveredRuns)
	}
	if len(st.SimilarJobs) > 0 {
		line += fmt.Sprintf(" %s(%d similar)%s", f.color("\033[31m"), len(st.SimilarJobs), f.reset())
	}
	return line
}

func (f *TreeFormatter) color(code string) string {
	if !f.useColors {
		return ""
	}
	return code
}

func (f *TreeFormatter) reset() string {
	return f.color("\033[0m")
}
