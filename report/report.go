// Package report renders evaluation results for humans: a text summary per
// classifier and a ROC curve plot.
package report

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/premlab/adoptml/feature"
	"github.com/premlab/adoptml/metrics"
	adoptmlErrors "github.com/premlab/adoptml/pkg/errors"
	"github.com/premlab/adoptml/search"
)

// Summary renders one classifier's evaluation as a text block.
func Summary(name string, r *metrics.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n", name)
	fmt.Fprintf(&b, "AUC:       %.4f\n", r.AUC)
	fmt.Fprintf(&b, "Precision: %.4f\n", r.Precision)
	fmt.Fprintf(&b, "Recall:    %.4f\n", r.Recall)
	fmt.Fprintf(&b, "F1:        %.4f\n", r.F1)
	b.WriteString(r.Confusion.String())
	return b.String()
}

// Leaderboard renders multiple named results sorted by descending AUC.
// Names tie-break alphabetically so the output is deterministic.
func Leaderboard(results map[string]*metrics.Result) string {
	type row struct {
		name string
		auc  float64
	}
	rows := make([]row, 0, len(results))
	for name, r := range results {
		rows = append(rows, row{name, r.AUC})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].auc != rows[j].auc {
			return rows[i].auc > rows[j].auc
		}
		return rows[i].name < rows[j].name
	})

	var b strings.Builder
	b.WriteString("model                 AUC\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-20s  %.4f\n", r.name, r.auc)
	}
	return b.String()
}

// FeatureRanking renders an information-gain ranking as a table.
func FeatureRanking(scores []feature.Score) string {
	var b strings.Builder
	b.WriteString("rank  feature                    gain\n")
	for i, s := range scores {
		fmt.Fprintf(&b, "%4d  %-25s  %.4f\n", i+1, s.Feature, s.Gain)
	}
	return b.String()
}

// SweepTable renders a feature-count sweep so the analyst can pick the knee
// of the curve.
func SweepTable(points []search.SweepPoint) string {
	var b strings.Builder
	b.WriteString("features  AUC\n")
	for _, p := range points {
		fmt.Fprintf(&b, "%8d  %.4f\n", p.K, p.AUC)
	}
	return b.String()
}

// SaveROCPlot writes the ROC curves of the given results to a PNG file,
// one line per classifier plus the chance diagonal.
func SaveROCPlot(results map[string]*metrics.Result, path string) error {
	p := plot.New()
	p.Title.Text = "ROC curves"
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		r := results[name]
		pts := make(plotter.XYs, len(r.ROC))
		for j, pt := range r.ROC {
			pts[j].X = pt.FPR
			pts[j].Y = pt.TPR
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return adoptmlErrors.Wrapf(err, "roc line for %s", name)
		}
		line.Width = vg.Points(1.5)
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s (AUC %.3f)", name, r.AUC), line)
	}

	diag, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return adoptmlErrors.Wrap(err, "chance diagonal")
	}
	diag.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(diag)

	p.Legend.Top = false
	p.Legend.Left = false

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return adoptmlErrors.Wrapf(err, "save roc plot to %s", path)
	}
	return nil
}
