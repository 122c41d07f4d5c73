package solver

import (
	"fmt"
	"math"
	"sort"

	"github.com/aweijnitz/synth-calculators/internal/consts"
	"github.com/aweijnitz/synth-calculators/pkg/eseries"
	"github.com/aweijnitz/synth-calculators/pkg/sallenkey"
)

// SolveComponentPair searches the full capacitor window for the pair that
// best realizes the target fc and Q through the Sallen-Key resistor solve.
// Target.CapRatio, when set, restricts the enumeration to pairs matching
// that ratio. Target.Seed, when set, biases c2 toward the seed's decade.
func (s *Solver) SolveComponentPair(t Target, b Bounds) (*Result, error) {
	if err := validatePositive("fc", t.Fc); err != nil {
		return nil, err
	}
	if err := validatePositive("q", t.Q); err != nil {
		return nil, err
	}
	if err := validateOptional("seed", t.Seed); err != nil {
		return nil, err
	}
	if err := validateOptional("capRatio", t.CapRatio); err != nil {
		return nil, err
	}

	caps, err := eseries.Values(b.Series, b.CapMin, b.CapMax)
	if err != nil {
		return nil, fmt.Errorf("capacitor window: %w", err)
	}

	var cands []Candidate
	for _, c1 := range caps {
		for _, c2 := range caps {
			if t.CapRatio > 0 {
				if math.Abs(c1/c2-t.CapRatio) > t.CapRatio*consts.RatioTolerance {
					continue
				}
			}
			if cand := evaluateSallenKeyPair(c1, c2, t, b); cand != nil {
				cands = append(cands, *cand)
			}
		}
	}
	if len(cands) == 0 {
		return nil, fmt.Errorf("%w: fc=%g q=%g over %s %g..%g F",
			ErrSolutionNotFound, t.Fc, t.Q, b.Series, b.CapMin, b.CapMax)
	}

	s.rank(cands)
	return s.buildResult(t, cands), nil
}

// SolveEqualResistor searches capacitor pairs for an equal-resistor stage
// whose resistance is a potentiometer at its midpoint (r = RPot/2). No
// resistor quadratic is involved; the frequency follows directly from the
// pair.
func (s *Solver) SolveEqualResistor(t Target, b Bounds) (*Result, error) {
	if err := validatePositive("fc", t.Fc); err != nil {
		return nil, err
	}
	if err := validatePositive("rPot", t.RPot); err != nil {
		return nil, err
	}
	if err := validateOptional("seed", t.Seed); err != nil {
		return nil, err
	}

	caps, err := eseries.Values(b.Series, b.CapMin, b.CapMax)
	if err != nil {
		return nil, fmt.Errorf("capacitor window: %w", err)
	}

	cands := evaluatePotPairs(caps, t)
	if len(cands) == 0 {
		return nil, fmt.Errorf("%w: fc=%g rPot=%g over %s %g..%g F",
			ErrSolutionNotFound, t.Fc, t.RPot, b.Series, b.CapMin, b.CapMax)
	}

	s.rank(cands)
	return s.buildResult(t, cands), nil
}

// PickCapsForTarget is the expanding-decade variant of the equal-resistor
// search, for dual-gang pot circuits. It starts from a one-decade window
// around the seed (or the capacitance implied by the target) and widens by
// a decade per side each pass until a candidate lands within tolerance or
// the full window has been covered. The best pair seen is always returned;
// Result.WithinTolerance reports whether it met the band.
func (s *Solver) PickCapsForTarget(t Target, b Bounds) (*Result, error) {
	if err := validatePositive("fc", t.Fc); err != nil {
		return nil, err
	}
	if err := validatePositive("rPot", t.RPot); err != nil {
		return nil, err
	}
	if err := validateOptional("seed", t.Seed); err != nil {
		return nil, err
	}
	if b.CapMin <= 0 || b.CapMax < b.CapMin {
		return nil, fmt.Errorf("capacitor window: %w: %g..%g", eseries.ErrInvalidRange, b.CapMin, b.CapMax)
	}

	center := t.Seed
	if center == 0 {
		// Geometric-mean capacitance that would hit the target exactly.
		center = 1 / (2 * math.Pi * (t.RPot / 2) * t.Fc)
	}
	center = math.Min(math.Max(center, b.CapMin), b.CapMax)

	var ranked []Candidate
	for width := 1.0; ; width += 2 {
		lo, hi := eseries.DecadeWindow(center, width)
		saturated := lo <= b.CapMin && hi >= b.CapMax
		lo = math.Max(lo, b.CapMin)
		hi = math.Min(hi, b.CapMax)

		caps, err := eseries.Values(b.Series, lo, hi)
		if err != nil {
			return nil, fmt.Errorf("capacitor window: %w", err)
		}

		ranked = evaluatePotPairs(caps, t)
		if len(ranked) > 0 {
			s.rank(ranked)
			if ranked[0].Metrics[0] <= s.cfg.Tolerance {
				return s.buildResult(t, ranked), nil
			}
		}
		if saturated {
			break
		}
	}

	if len(ranked) == 0 {
		return nil, fmt.Errorf("%w: fc=%g rPot=%g over %s %g..%g F",
			ErrSolutionNotFound, t.Fc, t.RPot, b.Series, b.CapMin, b.CapMax)
	}
	return s.buildResult(t, ranked), nil
}

func (s *Solver) rank(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return Compare(&cands[i], &cands[j], s.cfg) < 0
	})
}

// evaluateSallenKeyPair solves the resistor pair for one capacitor pair and
// scores it. Returns nil when the pair cannot realize the target.
//
// Metric order: log-domain frequency error, seed bias, resistor spread,
// then component sizes as the final tiebreak. The size keys are log10 of
// the capacitance so they live on the same scale as the other keys; a raw
// farad value would sit entirely inside the comparison tolerance.
func evaluateSallenKeyPair(c1, c2 float64, t Target, b Bounds) *Candidate {
	r1, r2, err := sallenkey.SolveResistors(t.Fc, t.Q, c1, c2)
	if err != nil {
		return nil
	}
	if r1 < b.ResMin || r2 > b.ResMax {
		return nil
	}

	fc := sallenkey.NaturalFrequency(r1, r2, c1, c2)
	q := sallenkey.QualityFactor(r1, r2, c1, c2)
	if !positiveFinite(fc) || !positiveFinite(q) {
		return nil
	}

	return &Candidate{
		C1: c1, C2: c2,
		R1: r1, R2: r2,
		Fc: fc, Q: q,
		Metrics: []float64{
			math.Abs(math.Log(fc / t.Fc)),
			seedBias(c2, t.Seed),
			r2 / r1, // SolveResistors returns r1 <= r2
			math.Log10(math.Max(c1, c2)),
			math.Log10(math.Min(c1, c2)),
		},
	}
}

// evaluatePotPairs scores every capacitor pair for an equal-resistor stage
// with r = RPot/2.
//
// Metric order: relative frequency error, seed bias, capacitor ratio, then
// log-domain component sizes.
func evaluatePotPairs(caps []float64, t Target) []Candidate {
	r := t.RPot / 2

	var cands []Candidate
	for _, c1 := range caps {
		for _, c2 := range caps {
			fc := 1 / (2 * math.Pi * r * math.Sqrt(c1*c2))
			if !positiveFinite(fc) {
				continue
			}
			cands = append(cands, Candidate{
				C1: c1, C2: c2,
				R1: r, R2: r,
				Fc: fc,
				Q:  0.5 * math.Sqrt(c1/c2),
				Metrics: []float64{
					math.Abs(fc-t.Fc) / t.Fc,
					seedBias(c2, t.Seed),
					math.Max(c1, c2) / math.Min(c1, c2),
					math.Log10(math.Max(c1, c2)),
					math.Log10(math.Min(c1, c2)),
				},
			})
		}
	}
	return cands
}

// seedBias is the log-decade distance from c2 to the caller's parts-bin
// seed. Zero when no seed was given, so it never outranks accuracy.
func seedBias(c2, seed float64) float64 {
	if seed <= 0 {
		return 0
	}
	return math.Abs(math.Log10(c2 / seed))
}
