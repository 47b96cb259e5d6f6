// pattern: Functional Core

// Package gauge turns a metrics sample into gauge rows. A row is shown only
// when the sample carries usable numbers for it; missing data is hidden,
// never drawn as zero.
package gauge

import (
	"fmt"
	"math"
	"strings"

	"opsdash/internal/config"
	"opsdash/internal/metrics"
)

const (
	mib = 1 << 20
	gib = 1 << 30
)

// Kind identifies a gauge row.
type Kind int

const (
	CPU Kind = iota
	RAM
	Disk
	Temperature
)

var labels = [...]string{CPU: "CPU", RAM: "RAM", Disk: "Disk", Temperature: "Temp"}

func (k Kind) String() string {
	return labels[k]
}

// Units selects the byte unit for each usage gauge.
type Units struct {
	RAM  string
	Disk string
}

// DefaultUnits shows RAM in megabytes and disk in gigabytes.
func DefaultUnits() Units {
	return Units{RAM: config.UnitMB, Disk: config.UnitGB}
}

// Row is the computed state of one gauge.
type Row struct {
	Kind    Kind
	Visible bool
	Fill    float64 // 0..1
	Percent int     // Fill*100 rounded
	Text    string
}

// Panel is the full gauge state for one sample.
type Panel struct {
	Rows      [4]Row
	Visible   bool
	Synthetic bool
}

// VisibleRows returns the rows to draw, in display order.
func (p Panel) VisibleRows() []Row {
	var rows []Row
	for _, r := range p.Rows {
		if r.Visible {
			rows = append(rows, r)
		}
	}
	return rows
}

// Hidden is the panel shown when no sample is usable.
func Hidden() Panel {
	var p Panel
	for k := range p.Rows {
		p.Rows[k].Kind = Kind(k)
	}
	return p
}

// Compute derives the panel for s. It is pure: equal inputs give equal panels.
func Compute(s metrics.Sample, u Units) Panel {
	p := Hidden()
	p.Rows[CPU] = cpuRow(s.CPUPercent)
	p.Rows[RAM] = usageRow(RAM, s.RAM, u.RAM)
	p.Rows[Disk] = usageRow(Disk, s.Disk, u.Disk)
	p.Rows[Temperature] = tempRow(s.TempCelsius)

	for _, r := range p.Rows {
		if r.Visible {
			p.Visible = true
			break
		}
	}
	return p
}

// FromResult computes the panel for a poll result.
func FromResult(r metrics.Result, u Units) Panel {
	if r.Hidden {
		return Hidden()
	}
	p := Compute(r.Sample, u)
	p.Synthetic = r.Synthetic
	return p
}

func cpuRow(cpu *float64) Row {
	v, ok := finite(cpu)
	if !ok {
		return Row{Kind: CPU}
	}
	fill := clamp01(v / 100)
	return Row{
		Kind:    CPU,
		Visible: true,
		Fill:    fill,
		Percent: percent(fill),
		Text:    fmt.Sprintf("%d%%", percent(fill)),
	}
}

func usageRow(kind Kind, u *metrics.Usage, unit string) Row {
	if u == nil {
		return Row{Kind: kind}
	}
	used, okUsed := finite(u.Used)
	total, okTotal := finite(u.Total)
	if !okUsed || !okTotal || total <= 0 {
		return Row{Kind: kind}
	}
	fill := clamp01(used / total)
	return Row{
		Kind:    kind,
		Visible: true,
		Fill:    fill,
		Percent: percent(fill),
		Text:    FormatBytes(used, unit) + "/" + FormatBytes(total, unit),
	}
}

func tempRow(temp *float64) Row {
	v, ok := finite(temp)
	if !ok {
		return Row{Kind: Temperature}
	}
	fill := clamp01(v / 100)
	return Row{
		Kind:    Temperature,
		Visible: true,
		Fill:    fill,
		Percent: percent(fill),
		Text:    fmt.Sprintf("%.1f°C", v),
	}
}

// FormatBytes renders bytes as whole megabytes or gigabytes (binary
// factors), e.g. "200MB" or "16GB".
func FormatBytes(v float64, unit string) string {
	if unit == config.UnitGB {
		return fmt.Sprintf("%.0fGB", math.Round(v/gib))
	}
	return fmt.Sprintf("%.0fMB", math.Round(v/mib))
}

// Bar draws a fill of width cells using block characters.
func Bar(fill float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := min(int(math.Round(clamp01(fill)*float64(width))), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func finite(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

func percent(fill float64) int {
	return int(math.Round(fill * 100))
}
