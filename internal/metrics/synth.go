// pattern: Functional Core

package metrics

import (
	"math/rand/v2"
)

const (
	gib = 1 << 30

	cpuMin, cpuMax   = 2.0, 95.0
	tempMin, tempMax = 35.0, 75.0
	ramMinFrac       = 0.05
	ramMaxFrac       = 0.95
	diskMinFrac      = 0.05
	diskMaxFrac      = 0.98
)

// Synth produces a plausible sample stream by nudging each field of the
// previous synthetic sample by a small random step, clamped to realistic
// ranges.
type Synth struct {
	rng       *rand.Rand
	cpu       float64
	temp      float64
	ramUsed   float64
	ramTotal  float64
	diskUsed  float64
	diskTotal float64
}

// NewSynth creates a generator. A nil rng uses a randomly seeded source.
func NewSynth(rng *rand.Rand) *Synth {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Synth{
		rng:       rng,
		cpu:       25,
		temp:      48,
		ramUsed:   6 * gib,
		ramTotal:  16 * gib,
		diskUsed:  180 * gib,
		diskTotal: 512 * gib,
	}
}

// Next advances the walk one step and returns the new sample.
func (s *Synth) Next() Sample {
	s.cpu = clamp(s.cpu+s.step(6), cpuMin, cpuMax)
	s.temp = clamp(s.temp+s.step(1.5), tempMin, tempMax)
	s.ramUsed = clamp(s.ramUsed+s.step(0.03*s.ramTotal), ramMinFrac*s.ramTotal, ramMaxFrac*s.ramTotal)
	s.diskUsed = clamp(s.diskUsed+s.step(0.002*s.diskTotal), diskMinFrac*s.diskTotal, diskMaxFrac*s.diskTotal)

	return Sample{
		CPUPercent:  Float(s.cpu),
		RAM:         &Usage{Used: Float(s.ramUsed), Total: Float(s.ramTotal)},
		Disk:        &Usage{Used: Float(s.diskUsed), Total: Float(s.diskTotal)},
		TempCelsius: Float(s.temp),
	}
}

// step returns a uniform value in [-width, width).
func (s *Synth) step(width float64) float64 {
	return (s.rng.Float64()*2 - 1) * width
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
