// pattern: Functional Core

// Package metrics polls the server's system metrics and, when configured,
// substitutes a synthetic random walk while the server cannot be reached.
package metrics

import (
	"encoding/json"
	"math"
)

// Usage is a used/total pair in bytes. Either side may be absent.
type Usage struct {
	Used  *float64 `json:"used,omitempty"`
	Total *float64 `json:"total,omitempty"`
}

// Sample is one reading of /api/sys. Every field is optional; a nil field
// means the server did not report it, which is not the same as zero.
type Sample struct {
	CPUPercent  *float64 `json:"cpu,omitempty"`
	RAM         *Usage   `json:"ram,omitempty"`
	Disk        *Usage   `json:"disk,omitempty"`
	TempCelsius *float64 `json:"temp,omitempty"`
}

// UnmarshalJSON decodes leniently: any value that is not a finite number
// (strings, booleans, null, objects) is treated as absent rather than an
// error.
func (s *Sample) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Sample{
		CPUPercent:  number(raw["cpu"]),
		RAM:         usage(raw["ram"]),
		Disk:        usage(raw["disk"]),
		TempCelsius: number(raw["temp"]),
	}
	return nil
}

// Float returns a pointer to v, for building samples.
func Float(v float64) *float64 {
	return &v
}

func number(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	// json.Unmarshal leaves v untouched for a literal null.
	if string(raw) == "null" || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func usage(raw json.RawMessage) *Usage {
	if len(raw) == 0 {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil
	}
	u := &Usage{Used: number(fields["used"]), Total: number(fields["total"])}
	if u.Used == nil && u.Total == nil {
		return nil
	}
	return u
}
