package report

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/harsample/internal/history"
	"github.com/studiowebux/harsample/internal/sampling"
	"github.com/studiowebux/harsample/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleName = lipgloss.NewStyle().Width(12)
	styleNum  = lipgloss.NewStyle().Width(9).Align(lipgloss.Right)
)

func row(name string, cols ...string) string {
	cells := []string{styleName.Render(name)}
	for _, c := range cols {
		cells = append(cells, styleNum.Render(c))
	}
	return "  " + lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// RenderSelection renders the per-category outcome of a selection
func RenderSelection(r *sampling.Report, dist sampling.Distribution) string {
	var sb strings.Builder

	sb.WriteString(styleTitle.Render("Content Type Distribution"))
	sb.WriteString("\n")
	sb.WriteString(styleSubtle.Render(row("category", "share", "entries", "quota", "selected")))
	sb.WriteString("\n")

	for _, stats := range r.Categories {
		share := fmt.Sprintf("%.0f%%", dist.Proportion(stats.Category)*100)
		line := row(stats.Category.String(),
			share,
			fmt.Sprintf("%d", stats.Bucket),
			fmt.Sprintf("%d", stats.Quota),
			fmt.Sprintf("%d", stats.Selected()),
		)
		if stats.Shortfall > 0 {
			line = styleWarning.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	for _, stats := range r.Categories {
		switch {
		case stats.Bucket == 0 && stats.Filled == 0:
			sb.WriteString(styleWarning.Render(fmt.Sprintf("No entries for category '%s', skipping", stats.Category)))
			sb.WriteString("\n")
		case stats.Shortfall > 0:
			sb.WriteString(styleWarning.Render(fmt.Sprintf("Only %d entries available for '%s' (wanted %d)", stats.Bucket, stats.Category, stats.Quota)))
			sb.WriteString("\n")
		}
	}

	if r.DeficitCount > 0 {
		sb.WriteString(fmt.Sprintf("Deficit of %d entries, filled %d randomly\n", r.DeficitCount, r.FillCount))
	}

	sb.WriteString(styleSuccess.Render(fmt.Sprintf("Selected %d entries", r.Total())))
	sb.WriteString("\n")
	return sb.String()
}

// RenderInspection summarizes an existing test case file by response content category
func RenderInspection(cases []types.TestCase) string {
	counts := make(map[sampling.Category]int)
	hosts := make(map[string]struct{})
	methods := make(map[string]int)
	withBodies := 0

	for i := range cases {
		tc := &cases[i]
		c := sampling.Categorize(sampling.PrimaryType(tc.ContentType()))
		counts[c]++
		hosts[tc.Request.Host] = struct{}{}
		methods[tc.Request.Method]++
		if tc.Request.Body != "" || tc.Response.Body != "" {
			withBodies++
		}
	}

	var sb strings.Builder
	sb.WriteString(styleTitle.Render(fmt.Sprintf("%d test cases", len(cases))))
	sb.WriteString("\n")
	sb.WriteString(styleSubtle.Render(row("category", "cases", "percent")))
	sb.WriteString("\n")
	for _, c := range sampling.Categories() {
		pct := 0.0
		if len(cases) > 0 {
			pct = float64(counts[c]) / float64(len(cases)) * 100
		}
		sb.WriteString(row(c.String(), fmt.Sprintf("%d", counts[c]), fmt.Sprintf("%.0f%%", pct)))
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Hosts: %d, with bodies: %d\n", len(hosts), withBodies))
	if len(methods) > 0 {
		parts := make([]string, 0, len(methods))
		for _, m := range slices.Sorted(maps.Keys(methods)) {
			parts = append(parts, fmt.Sprintf("%s=%d", m, methods[m]))
		}
		sb.WriteString("Methods: " + strings.Join(parts, " ") + "\n")
	}
	return sb.String()
}

// RenderRuns renders the history listing
func RenderRuns(runs []types.Run) string {
	if len(runs) == 0 {
		return styleSubtle.Render("No runs recorded") + "\n"
	}

	var sb strings.Builder
	for _, run := range runs {
		id := run.ID
		if len(id) > 8 {
			id = id[:8]
		}
		sb.WriteString(fmt.Sprintf("%s  %s  seed=%d limit=%d selected=%d  %s -> %s\n",
			styleTitle.Render(id),
			styleSubtle.Render(run.Timestamp.Format("2006-01-02 15:04:05")),
			run.Seed, run.Limit, run.Selected,
			strings.Join(run.Sources, ","),
			run.OutputPath,
		))
	}
	return sb.String()
}

// RenderRun renders one run with its categories
func RenderRun(run *types.Run) string {
	var sb strings.Builder
	sb.WriteString(styleTitle.Render("Run " + run.ID))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Time:     %s\n", run.Timestamp.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Sources:  %s\n", strings.Join(run.Sources, ", ")))
	sb.WriteString(fmt.Sprintf("Output:   %s (%s)\n", run.OutputPath, run.Format))
	sb.WriteString(fmt.Sprintf("Seed:     %d\n", run.Seed))
	sb.WriteString(fmt.Sprintf("Entries:  %d total, %d after filtering, %d selected, %d written\n",
		run.Total, run.Filtered, run.Selected, run.Written))
	if run.Deficit > 0 {
		sb.WriteString(fmt.Sprintf("Deficit:  %d\n", run.Deficit))
	}

	if len(run.Categories) > 0 {
		sb.WriteString(styleSubtle.Render(row("category", "share", "entries", "quota", "selected")))
		sb.WriteString("\n")
		for _, c := range run.Categories {
			line := row(c.Category,
				fmt.Sprintf("%.0f%%", c.Share*100),
				fmt.Sprintf("%d", c.Bucket),
				fmt.Sprintf("%d", c.Quota),
				fmt.Sprintf("%d", c.Selected),
			)
			if c.Shortfall > 0 {
				line = styleWarning.Render(line)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RenderBookmarks renders saved where-filter expressions
func RenderBookmarks(bookmarks []history.Bookmark) string {
	if len(bookmarks) == 0 {
		return styleSubtle.Render("No saved filters") + "\n"
	}

	var sb strings.Builder
	for _, b := range bookmarks {
		sb.WriteString(fmt.Sprintf("%s  %s  %s\n",
			styleTitle.Render(fmt.Sprintf("@%d", b.ID)),
			styleSubtle.Render(b.CreatedAt.Format("2006-01-02 15:04")),
			b.Expression,
		))
	}
	return sb.String()
}
