// Package bode computes the small-signal frequency response of a solved
// unity-gain Sallen-Key low-pass stage by stamping its modified-nodal
// equations and sweeping the AC solve across frequency.
package bode

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/aweijnitz/synth-calculators/pkg/matrix"
)

// Stage is the component set of one unity-gain Sallen-Key low-pass stage.
type Stage struct {
	R1 float64 // Input resistor, in to mid (Ohm)
	R2 float64 // Mid to buffer + input (Ohm)
	C1 float64 // Feedback cap, mid to out (F)
	C2 float64 // Shunt cap, + input to ground (F)
}

// Response holds one sweep's magnitude/phase data.
type Response struct {
	Frequencies []float64 // Hz, ascending
	MagnitudeDB []float64
	PhaseDeg    []float64
}

// Node and branch indices of the stamped system. The op-amp buffer is a
// unity-gain VCVS: V(out) - V(plus) = 0.
const (
	nodeIn   = 1
	nodeMid  = 2
	nodePlus = 3
	nodeOut  = 4

	branchSource = 5
	branchBuffer = 6

	systemSize = 6
)

// Sweep solves the stage response at nPoints frequencies between fStart and
// fStop. sweepType is "DEC", "OCT" or "LIN", as in SPICE .AC cards.
func Sweep(st Stage, fStart, fStop float64, nPoints int, sweepType string) (*Response, error) {
	if st.R1 <= 0 || st.R2 <= 0 || st.C1 <= 0 || st.C2 <= 0 {
		return nil, fmt.Errorf("stage components must be positive: %+v", st)
	}
	if fStart <= 0 || fStop < fStart || nPoints < 2 {
		return nil, fmt.Errorf("invalid sweep: fStart=%g fStop=%g nPoints=%d", fStart, fStop, nPoints)
	}

	freqs, err := frequencyPoints(fStart, fStop, nPoints, sweepType)
	if err != nil {
		return nil, err
	}

	mat, err := matrix.New(systemSize)
	if err != nil {
		return nil, err
	}
	defer mat.Destroy()

	resp := &Response{
		Frequencies: freqs,
		MagnitudeDB: make([]float64, len(freqs)),
		PhaseDeg:    make([]float64, len(freqs)),
	}

	for i, freq := range freqs {
		mat.Clear()
		stamp(mat, st, freq)

		if err := mat.Solve(); err != nil {
			return nil, fmt.Errorf("solve error at f=%g: %v", freq, err)
		}

		h := mat.Solution(nodeOut)
		resp.MagnitudeDB[i] = 20 * math.Log10(cmplx.Abs(h))
		resp.PhaseDeg[i] = cmplx.Phase(h) * 180.0 / math.Pi
	}

	return resp, nil
}

func stamp(mat *matrix.ACMatrix, st Stage, freq float64) {
	omega := 2 * math.Pi * freq

	stampConductance(mat, nodeIn, nodeMid, 1/st.R1)
	stampConductance(mat, nodeMid, nodePlus, 1/st.R2)

	// C1 feedback, mid to out
	b1 := omega * st.C1
	mat.AddElement(nodeMid, nodeMid, 0, b1)
	mat.AddElement(nodeOut, nodeOut, 0, b1)
	mat.AddElement(nodeMid, nodeOut, 0, -b1)
	mat.AddElement(nodeOut, nodeMid, 0, -b1)

	// C2 shunt, plus to ground
	mat.AddElement(nodePlus, nodePlus, 0, omega*st.C2)

	// 1V AC source driving the input node
	mat.AddElement(nodeIn, branchSource, 1, 0)
	mat.AddElement(branchSource, nodeIn, 1, 0)
	mat.AddRHS(branchSource, 1, 0)

	// Unity buffer: KCL current injection at out, branch equation
	// V(out) - V(plus) = 0
	mat.AddElement(nodeOut, branchBuffer, 1, 0)
	mat.AddElement(branchBuffer, nodeOut, 1, 0)
	mat.AddElement(branchBuffer, nodePlus, -1, 0)
}

func stampConductance(mat *matrix.ACMatrix, n1, n2 int, g float64) {
	mat.AddElement(n1, n1, g, 0)
	mat.AddElement(n2, n2, g, 0)
	mat.AddElement(n1, n2, -g, 0)
	mat.AddElement(n2, n1, -g, 0)
}

func frequencyPoints(fStart, fStop float64, nPoints int, sweepType string) ([]float64, error) {
	freqs := make([]float64, nPoints)

	switch sweepType {
	case "DEC": // Decade
		logStart := math.Log10(fStart)
		logStop := math.Log10(fStop)
		step := (logStop - logStart) / float64(nPoints-1)
		for i := range nPoints {
			freqs[i] = math.Pow(10, logStart+float64(i)*step)
		}

	case "OCT": // Octave
		logStart := math.Log2(fStart)
		logStop := math.Log2(fStop)
		step := (logStop - logStart) / float64(nPoints-1)
		for i := range nPoints {
			freqs[i] = math.Pow(2, logStart+float64(i)*step)
		}

	case "LIN": // Linear
		step := (fStop - fStart) / float64(nPoints-1)
		for i := range nPoints {
			freqs[i] = fStart + float64(i)*step
		}

	default:
		return nil, fmt.Errorf("unknown sweep type %q", sweepType)
	}

	return freqs, nil
}

// At returns the magnitude (dB) at f, interpolated linearly in log
// frequency. f outside the swept range clamps to the nearest endpoint.
func (r *Response) At(f float64) float64 {
	n := len(r.Frequencies)
	if n == 0 {
		return math.NaN()
	}
	if f <= r.Frequencies[0] {
		return r.MagnitudeDB[0]
	}
	if f >= r.Frequencies[n-1] {
		return r.MagnitudeDB[n-1]
	}

	for i := 1; i < n; i++ {
		if r.Frequencies[i] < f {
			continue
		}
		lf0 := math.Log10(r.Frequencies[i-1])
		lf1 := math.Log10(r.Frequencies[i])
		t := (math.Log10(f) - lf0) / (lf1 - lf0)
		return r.MagnitudeDB[i-1] + t*(r.MagnitudeDB[i]-r.MagnitudeDB[i-1])
	}
	return r.MagnitudeDB[n-1]
}

// CutoffFrequency locates the -3.01 dB point relative to the passband
// level, interpolating between sweep points. Returns NaN when the sweep
// never crosses it.
func (r *Response) CutoffFrequency() float64 {
	if len(r.Frequencies) < 2 {
		return math.NaN()
	}

	threshold := r.MagnitudeDB[0] - 20*math.Log10(math.Sqrt2)
	for i := 1; i < len(r.MagnitudeDB); i++ {
		if r.MagnitudeDB[i] > threshold {
			continue
		}
		m0, m1 := r.MagnitudeDB[i-1], r.MagnitudeDB[i]
		if m1 == m0 {
			return r.Frequencies[i]
		}
		t := (threshold - m0) / (m1 - m0)
		lf0 := math.Log10(r.Frequencies[i-1])
		lf1 := math.Log10(r.Frequencies[i])
		return math.Pow(10, lf0+t*(lf1-lf0))
	}
	return math.NaN()
}

// CutoffDeviation is the signed relative error between the swept cutoff and
// a target cutoff.
func (r *Response) CutoffDeviation(fcTarget float64) float64 {
	return (r.CutoffFrequency() - fcTarget) / fcTarget
}
