package tui

import (
	"fmt"
	"strings"

	"github.com/dset/arsavings/internal/cli"
	"github.com/dset/arsavings/internal/model"
	"github.com/dset/arsavings/internal/pipeline"
	"github.com/dset/arsavings/internal/tui/components"
	"github.com/dset/arsavings/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const assetRowsVisible = 12

func (a App) renderAssetsTab(cw int) string {
	t := theme.Active
	assets := a.catalog.Assets()
	sum := pipeline.Summarize(assets)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	okStyle := lipgloss.NewStyle().Foreground(t.Bill).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Models", Value: cli.FormatNumber(int64(sum.Models)), Note: fmt.Sprintf("%d parts", sum.Submeshes)},
		{Label: "Textures", Value: cli.FormatNumber(int64(sum.Textures))},
		{Label: "Files", Value: cli.FormatNumber(int64(a.files)), Note: fmt.Sprintf("%d reparsed, %d failed", a.reparsed, a.badFiles)},
		{Label: "Load time", Value: fmt.Sprintf("%.2fs", a.loadTime.Seconds()), Note: fmt.Sprintf("%d resources loaded", a.snap.loads)},
	}, cw))
	b.WriteString("\n")

	// Which model each asset mode will show
	var used strings.Builder
	for _, m := range model.Modes() {
		asset, ok := a.cfg.Assets.ForMode(m)
		if !ok {
			continue
		}
		fmt.Fprintf(&used, "%s ", labelStyle.Render(fmt.Sprintf("%-6s", titleCase(m.String()))))
		if info, found := a.catalog.Find(asset.File); found && info.Kind == model.AssetModel && len(info.Submeshes) > 0 {
			used.WriteString(okStyle.Render("● "))
			used.WriteString(valueStyle.Render(fmt.Sprintf("%s (%d parts)", info.Name, len(info.Submeshes))))
		} else {
			used.WriteString(warnStyle.Render("○ "))
			used.WriteString(valueStyle.Render(fmt.Sprintf("%s not found, using %d built-in parts", asset.File, asset.DefaultSubmeshes)))
		}
		used.WriteString("\n")
	}
	dir := a.assetsDir
	if dir == "" {
		dir = "(none)"
	}
	used.WriteString(labelStyle.Render("Assets directory: ") + valueStyle.Render(dir))
	if a.loadErr != nil {
		used.WriteString("\n" + warnStyle.Render("Load failed: "+a.loadErr.Error()))
	}
	b.WriteString(components.ContentCard("Scene assets", used.String(), cw))
	b.WriteString("\n")

	// Catalog listing
	var list strings.Builder
	if len(assets) == 0 {
		list.WriteString(labelStyle.Render("No .gltf, .glb, .png or .jpg files found."))
	} else {
		list.WriteString(labelStyle.Render(fmt.Sprintf("%-40s %-8s %-6s %8s %12s", "Name", "Kind", "Format", "Parts", "Size")))
		start := min(max(a.assetRow-assetRowsVisible/2, 0), max(len(assets)-assetRowsVisible, 0))
		end := min(start+assetRowsVisible, len(assets))
		for i := start; i < end; i++ {
			info := assets[i]
			size := ""
			if info.Width > 0 {
				size = fmt.Sprintf("%dx%d", info.Width, info.Height)
			}
			row := fmt.Sprintf("%-40s %-8s %-6s %8d %12s",
				truncStr(info.Name, 40), info.Kind, info.Format, len(info.Submeshes), size)
			list.WriteString("\n")
			if i == a.assetRow {
				list.WriteString(selStyle.Render(row))
			} else {
				list.WriteString(valueStyle.Render(row))
			}
		}
		if len(assets) > assetRowsVisible {
			list.WriteString("\n" + labelStyle.Render(fmt.Sprintf("%d of %d · [j/k] scroll", a.assetRow+1, len(assets))))
		}
	}
	b.WriteString(components.ContentCard("Catalog", list.String(), cw))

	return b.String()
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
