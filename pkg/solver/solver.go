// Package solver matches continuous filter targets onto discrete preferred
// component values. Each search enumerates candidate pairs from an E-series
// window, evaluates feasibility and a ranking-metric tuple per pair, and
// reduces to a single winner under a deterministic comparator.
package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/aweijnitz/synth-calculators/internal/consts"
	"github.com/aweijnitz/synth-calculators/pkg/eseries"
	"github.com/aweijnitz/synth-calculators/pkg/sallenkey"
)

// ErrSolutionNotFound means every enumerated pair was infeasible. It is a
// legitimate empty-result state, not a bug.
var ErrSolutionNotFound = errors.New("no feasible component pair in search window")

// Target is the continuous specification a search tries to satisfy.
type Target struct {
	Fc       float64 // Cutoff frequency (Hz)
	Q        float64 // Quality factor; Sallen-Key pair search only
	Seed     float64 // Optional parts-bin value biasing c2 selection; 0 = none
	CapRatio float64 // Optional required c1/c2 ratio; 0 = unrestricted
	RPot     float64 // Pot track resistance (Ohm); equal-resistor variants only
}

// Bounds restricts which component magnitudes a search may propose.
type Bounds struct {
	Series eseries.Series
	CapMin float64 // F
	CapMax float64 // F
	ResMin float64 // Ohm
	ResMax float64 // Ohm
}

func DefaultBounds() Bounds {
	return Bounds{
		Series: eseries.E6,
		CapMin: consts.DefaultCapMin,
		CapMax: consts.DefaultCapMax,
		ResMin: consts.DefaultResMin,
		ResMax: consts.DefaultResMax,
	}
}

// Config carries the comparison epsilon and the tolerance band. Passed in
// explicitly so there is no hidden package state.
type Config struct {
	Epsilon   float64 // Metric tie tolerance, scaled by metric magnitude
	Tolerance float64 // Relative frequency error considered within spec
}

func DefaultConfig() Config {
	return Config{
		Epsilon:   consts.CompareEpsilon,
		Tolerance: consts.DefaultTolerance,
	}
}

// Candidate is one evaluated component pair with its derived electrical
// quantities and ranking metrics. Metrics are smaller-is-better and are
// compared in slice order.
type Candidate struct {
	C1, C2  float64
	R1, R2  float64 // Zero when resistors are fixed by the topology
	Fc, Q   float64
	Metrics []float64
}

// Result is the winning candidate plus its deviation from the target.
type Result struct {
	C1, C2 float64
	R1, R2 float64

	FcActual    float64
	QActual     float64
	FcDeviation float64 // (FcActual - target) / target, signed
	QDeviation  float64 // Zero when the variant has no Q target

	WithinTolerance bool
	Advisories      []string
	RunnersUp       []Candidate // Next-ranked candidates, for reporting
}

const maxRunnersUp = 9

// Solver runs the preferred-value searches under one Config.
type Solver struct {
	cfg Config
}

func New(cfg Config) *Solver {
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = consts.CompareEpsilon
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = consts.DefaultTolerance
	}
	return &Solver{cfg: cfg}
}

func (s *Solver) Config() Config { return s.cfg }

func (s *Solver) buildResult(t Target, ranked []Candidate) *Result {
	best := ranked[0]

	res := &Result{
		C1:       best.C1,
		C2:       best.C2,
		R1:       best.R1,
		R2:       best.R2,
		FcActual: best.Fc,
		QActual:  best.Q,
	}
	if t.Fc > 0 {
		res.FcDeviation = (best.Fc - t.Fc) / t.Fc
	}
	if t.Q > 0 && best.Q > 0 {
		res.QDeviation = (best.Q - t.Q) / t.Q
	}
	res.WithinTolerance = math.Abs(res.FcDeviation) <= s.cfg.Tolerance
	res.Advisories = sallenkey.Advisories(t.Fc, t.Q)

	n := len(ranked) - 1
	if n > maxRunnersUp {
		n = maxRunnersUp
	}
	if n > 0 {
		res.RunnersUp = append(res.RunnersUp, ranked[1:1+n]...)
	}
	return res
}

func validatePositive(name string, v float64) error {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s=%g (must be positive and finite)", sallenkey.ErrInvalidInput, name, v)
	}
	return nil
}

func validateOptional(name string, v float64) error {
	if v == 0 {
		return nil
	}
	return validatePositive(name, v)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
