package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aweijnitz/synth-calculators/pkg/bode"
	"github.com/aweijnitz/synth-calculators/pkg/calc"
	"github.com/aweijnitz/synth-calculators/pkg/eseries"
	"github.com/aweijnitz/synth-calculators/pkg/report"
	"github.com/aweijnitz/synth-calculators/pkg/solver"
	"github.com/aweijnitz/synth-calculators/pkg/util"
)

const usage = `Usage: synthcalc <command> [flags]

Commands:
  sallenkey   Pick preferred-value components for a Sallen-Key low-pass (--fc, --q)
  equalr      Pick capacitors for an equal-resistor pot stage (--fc, --rpot)
  potcaps     Expanding-window capacitor pick for a dual-gang pot (--fc, --rpot)
  sweep       Frequency response of a given stage (--r1 --r2 --c1 --c2)
  calc        One-step calculators: divider, rc, gain, parallel, led (--op)
  nearest     Snap a value to the nearest preferred series value (--value)

Component values accept SPICE suffixes: 4.7k, 220n, 10u, 1meg.
Run "synthcalc <command> --help" for command flags.`

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(log, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func run(log *zap.SugaredLogger, command string, args []string) error {
	flags := pflag.NewFlagSet(command, pflag.ExitOnError)

	flags.String("fc", "", "target cutoff frequency (Hz)")
	q := flags.Float64("q", 0.707, "target quality factor (sallenkey)")
	flags.String("seed", "", "parts-bin capacitor biasing c2 selection")
	ratio := flags.Float64("ratio", 0, "required c1/c2 ratio, 0 = unrestricted (sallenkey)")
	flags.String("rpot", "", "potentiometer track resistance (equalr, potcaps)")

	flags.String("series", "E6", "preferred value series: E6, E12 or E24")
	flags.String("cap-min", "100p", "capacitor window lower bound (F)")
	flags.String("cap-max", "10u", "capacitor window upper bound (F)")
	flags.String("res-min", "100", "resistor lower bound (Ohm)")
	flags.String("res-max", "10meg", "resistor upper bound (Ohm)")

	flags.String("r1", "", "stage resistor R1 (sweep)")
	flags.String("r2", "", "stage resistor R2 (sweep)")
	flags.String("c1", "", "stage capacitor C1 (sweep)")
	flags.String("c2", "", "stage capacitor C2 (sweep)")
	flags.String("fstart", "10", "sweep start frequency (Hz)")
	flags.String("fstop", "100k", "sweep stop frequency (Hz)")
	flags.Int("points", 61, "sweep point count")
	flags.String("sweep-type", "DEC", "sweep spacing: DEC, OCT or LIN")

	flags.String("op", "", "calculator: divider, rc, gain, parallel or led (calc)")
	flags.String("vin", "", "input voltage (calc divider)")
	flags.String("vout", "", "wanted output voltage (calc divider)")
	flags.String("r", "", "resistor (calc rc)")
	flags.String("cap", "", "capacitor (calc rc)")
	flags.String("rf", "", "feedback resistor (calc gain)")
	flags.String("rg", "", "ground-leg resistor, non-inverting (calc gain)")
	flags.String("rin", "", "input resistor, inverting (calc gain)")
	flags.String("resistors", "", "comma-separated values (calc parallel)")
	flags.String("vsupply", "", "supply voltage (calc led)")
	flags.String("vf", "", "LED forward voltage (calc led)")
	flags.String("current", "", "LED current (calc led)")
	flags.String("value", "", "value to snap (nearest)")

	xlsxFile := flags.String("xlsx", "", "save result workbook to this file")
	withSweep := flags.Bool("with-sweep", false, "print the winner's frequency response")
	cfgFile := flags.String("config", "", "config file overriding flag defaults")

	if err := flags.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return err
	}
	if *cfgFile != "" {
		v.SetConfigFile(*cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		log.Infow("loaded config", "file", v.ConfigFileUsed())
	}

	if command == "sweep" {
		return runSweep(v)
	}

	bounds, err := boundsFromConfig(v)
	if err != nil {
		return err
	}

	switch command {
	case "calc":
		out, err := calcOutput(v, bounds.Series)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	case "nearest":
		out, err := nearestOutput(v, bounds.Series)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}

	target := solver.Target{Q: *q, CapRatio: *ratio}
	if target.Fc, err = parseRequired(v, "fc"); err != nil {
		return err
	}
	if target.Seed, err = parseOptional(v, "seed"); err != nil {
		return err
	}

	s := solver.New(solver.DefaultConfig())

	var res *solver.Result
	switch command {
	case "sallenkey":
		res, err = s.SolveComponentPair(target, bounds)
	case "equalr", "potcaps":
		target.Q = 0
		if target.RPot, err = parseRequired(v, "rpot"); err != nil {
			return err
		}
		if command == "equalr" {
			res, err = s.SolveEqualResistor(target, bounds)
		} else {
			res, err = s.PickCapsForTarget(target, bounds)
		}
	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		return err
	}

	for _, note := range res.Advisories {
		log.Warnw("advisory", "note", note)
	}
	if !res.WithinTolerance {
		log.Warnw("best candidate misses the tolerance band",
			"deviation", res.FcDeviation, "tolerance", s.Config().Tolerance)
	}

	printResult(target, res)
	report.PrintCandidates(os.Stdout, res)

	if *withSweep {
		if err := printResponse(res, v); err != nil {
			return err
		}
	}
	if *xlsxFile != "" {
		if err := report.WriteXLSX(*xlsxFile, target, res); err != nil {
			return fmt.Errorf("xlsx save: %w", err)
		}
		log.Infow("workbook saved", "file", *xlsxFile)
	}

	return nil
}

func printResult(target solver.Target, res *solver.Result) {
	fmt.Println("\nBest component pair:")
	fmt.Printf("  C1 = %s\n", util.FormatCapacitance(res.C1))
	fmt.Printf("  C2 = %s\n", util.FormatCapacitance(res.C2))
	if res.R1 > 0 {
		fmt.Printf("  R1 = %s\n", util.FormatResistance(res.R1))
		fmt.Printf("  R2 = %s\n", util.FormatResistance(res.R2))
	}
	fmt.Printf("  fc = %s (target %s, %+.3f%%)\n",
		strings.TrimSpace(util.FormatFrequency(res.FcActual)),
		strings.TrimSpace(util.FormatFrequency(target.Fc)),
		res.FcDeviation*100)
	if target.Q > 0 {
		fmt.Printf("  Q  = %.4g (target %.4g, %+.3f%%)\n", res.QActual, target.Q, res.QDeviation*100)
	} else if res.QActual > 0 {
		fmt.Printf("  Q  = %.4g\n", res.QActual)
	}
	fmt.Println()
}

func printResponse(res *solver.Result, v *viper.Viper) error {
	fStart, err := parseRequired(v, "fstart")
	if err != nil {
		return err
	}
	fStop, err := parseRequired(v, "fstop")
	if err != nil {
		return err
	}

	stage := bode.Stage{R1: res.R1, R2: res.R2, C1: res.C1, C2: res.C2}
	resp, err := bode.Sweep(stage, fStart, fStop, v.GetInt("points"), v.GetString("sweep-type"))
	if err != nil {
		return err
	}

	printResponseTable(resp)
	return nil
}

func runSweep(v *viper.Viper) error {
	stage := bode.Stage{}
	var err error
	if stage.R1, err = parseRequired(v, "r1"); err != nil {
		return err
	}
	if stage.R2, err = parseRequired(v, "r2"); err != nil {
		return err
	}
	if stage.C1, err = parseRequired(v, "c1"); err != nil {
		return err
	}
	if stage.C2, err = parseRequired(v, "c2"); err != nil {
		return err
	}
	fStart, err := parseRequired(v, "fstart")
	if err != nil {
		return err
	}
	fStop, err := parseRequired(v, "fstop")
	if err != nil {
		return err
	}

	resp, err := bode.Sweep(stage, fStart, fStop, v.GetInt("points"), v.GetString("sweep-type"))
	if err != nil {
		return err
	}

	printResponseTable(resp)
	return nil
}

func printResponseTable(resp *bode.Response) {
	rows := make([][]string, len(resp.Frequencies))
	for i, f := range resp.Frequencies {
		rows[i] = []string{
			strings.TrimSpace(util.FormatFrequency(f)),
			fmt.Sprintf("%8.3f", resp.MagnitudeDB[i]),
			fmt.Sprintf("%6.1f", resp.PhaseDeg[i]),
		}
	}
	report.PrintTable(os.Stdout, "=== Frequency response ===",
		[]string{"Frequency", "Mag (dB)", "Phase (deg)"}, rows)
}

// calcOutput runs one closed-form calculator picked by --op. Solved
// component values are also snapped to the nearest preferred value of the
// configured series.
func calcOutput(v *viper.Viper, series eseries.Series) (string, error) {
	var b strings.Builder

	switch op := strings.ToLower(v.GetString("op")); op {
	case "divider":
		vin, err := parseRequired(v, "vin")
		if err != nil {
			return "", err
		}
		r1, err := parseRequired(v, "r1")
		if err != nil {
			return "", err
		}
		vout, err := parseOptional(v, "vout")
		if err != nil {
			return "", err
		}
		if vout > 0 {
			r2 := calc.VoltageDividerR2(vin, vout, r1)
			if math.IsNaN(r2) {
				return "", fmt.Errorf("divider: vout must sit between 0 and vin")
			}
			pick := nearestPreferred(series, r2)
			fmt.Fprintf(&b, "R2 = %s (nearest %s: %s, vout %.4g V)\n",
				util.FormatResistance(r2), series, util.FormatResistance(pick),
				calc.VoltageDividerOut(vin, r1, pick))
			break
		}
		r2, err := parseRequired(v, "r2")
		if err != nil {
			return "", err
		}
		out := calc.VoltageDividerOut(vin, r1, r2)
		if math.IsNaN(out) {
			return "", fmt.Errorf("divider: resistors must be positive")
		}
		fmt.Fprintf(&b, "vout = %.4g V\n", out)

	case "rc":
		r, err := parseOptional(v, "r")
		if err != nil {
			return "", err
		}
		c, err := parseOptional(v, "cap")
		if err != nil {
			return "", err
		}
		fc, err := parseOptional(v, "fc")
		if err != nil {
			return "", err
		}
		switch {
		case r > 0 && c > 0:
			fmt.Fprintf(&b, "fc = %s\n", strings.TrimSpace(util.FormatFrequency(calc.RCCutoff(r, c))))
		case fc > 0 && c > 0:
			need := calc.RCResistorForCutoff(fc, c)
			fmt.Fprintf(&b, "R = %s (nearest %s: %s)\n",
				util.FormatResistance(need), series,
				util.FormatResistance(nearestPreferred(series, need)))
		case fc > 0 && r > 0:
			need := calc.RCCapacitorForCutoff(fc, r)
			fmt.Fprintf(&b, "C = %s (nearest %s: %s)\n",
				util.FormatCapacitance(need), series,
				util.FormatCapacitance(nearestPreferred(series, need)))
		default:
			return "", fmt.Errorf("rc: give two of --r, --cap, --fc")
		}

	case "gain":
		rf, err := parseRequired(v, "rf")
		if err != nil {
			return "", err
		}
		rin, err := parseOptional(v, "rin")
		if err != nil {
			return "", err
		}
		if rin > 0 {
			g := calc.InvertingGain(rf, rin)
			if math.IsNaN(g) {
				return "", fmt.Errorf("gain: resistors must be positive")
			}
			fmt.Fprintf(&b, "inverting gain = %.4g\n", g)
			break
		}
		rg, err := parseRequired(v, "rg")
		if err != nil {
			return "", err
		}
		g := calc.NonInvertingGain(rf, rg)
		if math.IsNaN(g) {
			return "", fmt.Errorf("gain: resistors must be positive")
		}
		fmt.Fprintf(&b, "non-inverting gain = %.4g\n", g)

	case "parallel":
		raw := v.GetString("resistors")
		if raw == "" {
			return "", fmt.Errorf("--resistors is required")
		}
		var rs []float64
		for _, part := range strings.Split(raw, ",") {
			val, err := util.ParseValue(strings.TrimSpace(part))
			if err != nil {
				return "", fmt.Errorf("--resistors: %w", err)
			}
			rs = append(rs, val)
		}
		total := calc.ParallelResistance(rs...)
		if math.IsNaN(total) {
			return "", fmt.Errorf("parallel: resistors must be positive")
		}
		fmt.Fprintf(&b, "parallel = %s\n", util.FormatResistance(total))

	case "led":
		vs, err := parseRequired(v, "vsupply")
		if err != nil {
			return "", err
		}
		vf, err := parseRequired(v, "vf")
		if err != nil {
			return "", err
		}
		current, err := parseRequired(v, "current")
		if err != nil {
			return "", err
		}
		need := calc.LEDSeriesResistor(vs, vf, current)
		if math.IsNaN(need) {
			return "", fmt.Errorf("led: supply must exceed the forward voltage")
		}
		fmt.Fprintf(&b, "R = %s (nearest %s: %s)\n",
			util.FormatResistance(need), series,
			util.FormatResistance(nearestPreferred(series, need)))

	default:
		return "", fmt.Errorf("unknown calculator %q; want divider, rc, gain, parallel or led", op)
	}

	return b.String(), nil
}

func nearestOutput(v *viper.Viper, series eseries.Series) (string, error) {
	value, err := parseRequired(v, "value")
	if err != nil {
		return "", err
	}
	pick := nearestPreferred(series, value)
	if math.IsNaN(pick) {
		return "", fmt.Errorf("no %s value near %g", series, value)
	}
	return fmt.Sprintf("nearest %s value to %.4g: %.4g (%+.2f%%)\n",
		series, value, pick, (pick/value-1)*100), nil
}

// nearestPreferred snaps value to the configured series within a window of
// one decade either side.
func nearestPreferred(series eseries.Series, value float64) float64 {
	lo, hi := eseries.DecadeWindow(value, 2)
	vals, err := eseries.Values(series, lo, hi)
	if err != nil {
		return math.NaN()
	}
	return eseries.Nearest(vals, value)
}

func boundsFromConfig(v *viper.Viper) (solver.Bounds, error) {
	bounds := solver.DefaultBounds()

	switch name := strings.ToUpper(v.GetString("series")); name {
	case "E6":
		bounds.Series = eseries.E6
	case "E12":
		bounds.Series = eseries.E12
	case "E24":
		bounds.Series = eseries.E24
	default:
		return bounds, fmt.Errorf("unknown series %q", name)
	}

	var err error
	if bounds.CapMin, err = parseRequired(v, "cap-min"); err != nil {
		return bounds, err
	}
	if bounds.CapMax, err = parseRequired(v, "cap-max"); err != nil {
		return bounds, err
	}
	if bounds.ResMin, err = parseRequired(v, "res-min"); err != nil {
		return bounds, err
	}
	if bounds.ResMax, err = parseRequired(v, "res-max"); err != nil {
		return bounds, err
	}
	return bounds, nil
}

func parseRequired(v *viper.Viper, key string) (float64, error) {
	raw := v.GetString(key)
	if raw == "" {
		return 0, fmt.Errorf("--%s is required", key)
	}
	value, err := util.ParseValue(raw)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", key, err)
	}
	return value, nil
}

func parseOptional(v *viper.Viper, key string) (float64, error) {
	raw := v.GetString(key)
	if raw == "" {
		return 0, nil
	}
	value, err := util.ParseValue(raw)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", key, err)
	}
	return value, nil
}
