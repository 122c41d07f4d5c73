package consts

// Preferred number mantissas per IEC 60063. One decade each.
var (
	E6Mantissas  = []float64{1.0, 1.5, 2.2, 3.3, 4.7, 6.8}
	E12Mantissas = []float64{1.0, 1.2, 1.5, 1.8, 2.2, 2.7, 3.3, 3.9, 4.7, 5.6, 6.8, 8.2}
	E24Mantissas = []float64{
		1.0, 1.1, 1.2, 1.3, 1.5, 1.6, 1.8, 2.0, 2.2, 2.4, 2.7, 3.0,
		3.3, 3.6, 3.9, 4.3, 4.7, 5.1, 5.6, 6.2, 6.8, 7.5, 8.2, 9.1,
	}
)

const (
	DefaultCapMin = 100e-12 // Smallest practical film/ceramic cap (F)
	DefaultCapMax = 10e-6   // Largest practical non-electrolytic cap (F)
	DefaultResMin = 100.0   // Below this op-amp output loading dominates (Ohm)
	DefaultResMax = 10e6    // Above this bias current and noise dominate (Ohm)

	CompareEpsilon   = 1e-9  // Metric comparison tolerance
	BoundaryEpsilon  = 1e-9  // Relative slack at series window edges
	DefaultTolerance = 0.02  // Relative frequency error considered "met"
	RatioTolerance   = 0.001 // Relative slack when matching a requested cap ratio

	SignificantDigits = 12 // Rounding applied before series dedupe
)
