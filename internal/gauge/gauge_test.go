// pattern: Functional Core

package gauge

import (
	"math"
	"reflect"
	"testing"

	"opsdash/internal/config"
	"opsdash/internal/metrics"
)

func f(v float64) *float64 { return &v }

func TestCompute_CPUOnly(t *testing.T) {
	p := Compute(metrics.Sample{CPUPercent: f(55)}, DefaultUnits())

	if !p.Visible {
		t.Fatal("panel should be visible")
	}
	cpu := p.Rows[CPU]
	if !cpu.Visible || cpu.Text != "55%" || cpu.Percent != 55 || cpu.Fill != 0.55 {
		t.Errorf("cpu row = %+v", cpu)
	}
	for _, k := range []Kind{RAM, Disk, Temperature} {
		if p.Rows[k].Visible {
			t.Errorf("%v row should be hidden", k)
		}
	}
	if rows := p.VisibleRows(); len(rows) != 1 || rows[0].Kind != CPU {
		t.Errorf("VisibleRows() = %+v", rows)
	}
}

func TestCompute_RAMText(t *testing.T) {
	s := metrics.Sample{RAM: &metrics.Usage{Used: f(209715200), Total: f(536870912)}}
	p := Compute(s, DefaultUnits())

	ram := p.Rows[RAM]
	if !ram.Visible || ram.Text != "200MB/512MB" {
		t.Errorf("ram row = %+v, want text 200MB/512MB", ram)
	}
	if ram.Percent != 39 {
		t.Errorf("ram percent = %d, want 39", ram.Percent)
	}
	if p.Rows[CPU].Visible {
		t.Error("cpu row should be hidden")
	}
}

func TestCompute_DiskGB(t *testing.T) {
	s := metrics.Sample{Disk: &metrics.Usage{Used: f(100 * gib), Total: f(250.4 * gib)}}
	disk := Compute(s, DefaultUnits()).Rows[Disk]
	if disk.Text != "100GB/250GB" || disk.Percent != 40 {
		t.Errorf("disk row = %+v", disk)
	}

	ram := Compute(metrics.Sample{RAM: &metrics.Usage{Used: f(8 * gib), Total: f(16 * gib)}},
		Units{RAM: config.UnitGB, Disk: config.UnitGB}).Rows[RAM]
	if ram.Text != "8GB/16GB" {
		t.Errorf("ram in GB = %q", ram.Text)
	}
}

func TestCompute_Temperature(t *testing.T) {
	temp := Compute(metrics.Sample{TempCelsius: f(47.25)}, DefaultUnits()).Rows[Temperature]
	if !temp.Visible || temp.Text != "47.2°C" && temp.Text != "47.3°C" {
		t.Errorf("temp row = %+v", temp)
	}
	if temp.Percent != 47 {
		t.Errorf("temp percent = %d", temp.Percent)
	}

	hot := Compute(metrics.Sample{TempCelsius: f(130)}, DefaultUnits()).Rows[Temperature]
	if hot.Fill != 1 || hot.Text != "130.0°C" {
		t.Errorf("hot row = %+v", hot)
	}
}

func TestCompute_Clamping(t *testing.T) {
	p := Compute(metrics.Sample{
		CPUPercent: f(140),
		RAM:        &metrics.Usage{Used: f(-5), Total: f(10)},
	}, DefaultUnits())

	if p.Rows[CPU].Fill != 1 || p.Rows[CPU].Text != "100%" {
		t.Errorf("cpu row = %+v", p.Rows[CPU])
	}
	if p.Rows[RAM].Fill != 0 || p.Rows[RAM].Percent != 0 {
		t.Errorf("ram row = %+v", p.Rows[RAM])
	}
}

func TestCompute_HiddenRows(t *testing.T) {
	tests := []struct {
		name   string
		sample metrics.Sample
	}{
		{"empty", metrics.Sample{}},
		{"ram missing total", metrics.Sample{RAM: &metrics.Usage{Used: f(1)}}},
		{"ram zero total", metrics.Sample{RAM: &metrics.Usage{Used: f(1), Total: f(0)}}},
		{"disk negative total", metrics.Sample{Disk: &metrics.Usage{Used: f(1), Total: f(-1)}}},
		{"cpu NaN", metrics.Sample{CPUPercent: f(math.NaN())}},
		{"temp Inf", metrics.Sample{TempCelsius: f(math.Inf(1))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Compute(tt.sample, DefaultUnits())
			if p.Visible || len(p.VisibleRows()) != 0 {
				t.Errorf("panel = %+v, want hidden", p)
			}
		})
	}
}

func TestCompute_ZeroIsShown(t *testing.T) {
	p := Compute(metrics.Sample{CPUPercent: f(0)}, DefaultUnits())
	if !p.Rows[CPU].Visible || p.Rows[CPU].Text != "0%" {
		t.Errorf("cpu=0 should be shown as 0%%, got %+v", p.Rows[CPU])
	}
}

func TestCompute_Idempotent(t *testing.T) {
	s := metrics.Sample{CPUPercent: f(12), TempCelsius: f(40)}
	if !reflect.DeepEqual(Compute(s, DefaultUnits()), Compute(s, DefaultUnits())) {
		t.Error("Compute() should be deterministic")
	}
}

func TestFromResult(t *testing.T) {
	if FromResult(metrics.Result{Hidden: true, Sample: metrics.Sample{CPUPercent: f(1)}}, DefaultUnits()).Visible {
		t.Error("hidden result should hide the panel")
	}
	p := FromResult(metrics.Result{Synthetic: true, Sample: metrics.Sample{CPUPercent: f(1)}}, DefaultUnits())
	if !p.Visible || !p.Synthetic {
		t.Errorf("synthetic result panel = %+v", p)
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		fill  float64
		width int
		want  string
	}{
		{0, 4, "░░░░"},
		{0.5, 4, "██░░"},
		{1, 4, "████"},
		{2, 3, "███"},
		{0.5, 0, ""},
	}
	for _, tt := range tests {
		if got := Bar(tt.fill, tt.width); got != tt.want {
			t.Errorf("Bar(%v, %d) = %q, want %q", tt.fill, tt.width, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	if got := FormatBytes(1.5*mib, config.UnitMB); got != "2MB" {
		t.Errorf("FormatBytes(1.5MiB) = %q", got)
	}
	if got := FormatBytes(0, config.UnitGB); got != "0GB" {
		t.Errorf("FormatBytes(0) = %q", got)
	}
}
