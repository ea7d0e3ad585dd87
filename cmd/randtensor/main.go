// Package main provides the randtensor CLI.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	"github.com/born-ml/randtensor/random"
	"github.com/born-ml/randtensor/tensor"
)

const version = "v0.0.1-dev"

func main() {
	// Global flags (-v, -logtostderr, ...) come before the command.
	klog.InitFlags(nil)
	flag.Usage = func() { usage(flag.CommandLine.Output()) }
	flag.Parse()
	defer klog.Flush()

	args := flag.Args()
	if len(args) == 0 {
		usage(os.Stdout)
		return
	}

	var err error
	switch args[0] {
	case "version":
		fmt.Printf("randtensor %s\n", version)
	case "multinomial":
		err = runMultinomial(os.Stdout, args[1:])
	case "fill":
		err = runFill(os.Stdout, args[1:])
	default:
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		klog.Errorf("%s: %v", args[0], err)
		klog.Flush()
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "randtensor - random tensor fills and multinomial sampling")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Usage: randtensor [klog flags] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version       Show version")
	fmt.Fprintln(w, "  multinomial   Sample category indices (-probs, -rows, -n, -replacement, -seed, -load-state, -save-state)")
	fmt.Fprintln(w, "  fill          Fill a tensor (-dist, -shape, -dtype, -a, -b, -seed, -load-state, -save-state)")
}

func runMultinomial(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("multinomial", flag.ContinueOnError)
	probsFlag := fs.String("probs", "", "Comma-separated probabilities, row-major")
	rows := fs.Int("rows", 1, "Number of rows the probabilities are split into")
	n := fs.Int("n", 1, "Samples per row")
	replacement := fs.Bool("replacement", false, "Sample with replacement")
	seed := fs.Int64("seed", -1, "Generator seed (-1 = clock)")
	load := fs.String("load-state", "", "Resume the generator from a saved state file (overrides -seed)")
	save := fs.String("save-state", "", "Save the generator state to this file afterwards")
	if err := fs.Parse(args); err != nil {
		return err
	}

	probs, err := parseFloats(*probsFlag)
	if err != nil {
		return err
	}
	if *rows <= 0 || len(probs)%*rows != 0 {
		return fmt.Errorf("%d probabilities cannot be split into %d rows", len(probs), *rows)
	}

	shape := tensor.Shape{len(probs)}
	if *rows > 1 {
		shape = tensor.Shape{*rows, len(probs) / *rows}
	}
	dist, err := tensor.FromSlice(probs, shape)
	if err != nil {
		return err
	}
	defer dist.Release()

	gen, err := newGenerator(*seed, *load)
	if err != nil {
		return err
	}
	klog.Infof("sampling %d per row from %v", *n, shape)

	out, err := random.Multinomial(gen, dist, *n, *replacement)
	if err != nil {
		return err
	}
	defer out.Release()

	if err := printRows(w, out); err != nil {
		return err
	}
	return saveState(*save, gen)
}

func runFill(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("fill", flag.ContinueOnError)
	dist := fs.String("dist", "uniform", "random|uniform|normal|exponential|cauchy|lognormal|geometric|bernoulli")
	shapeFlag := fs.String("shape", "2,3", "Comma-separated dimensions")
	dtypeFlag := fs.String("dtype", "float64", "Element kind")
	a := fs.Float64("a", 0, "First distribution parameter (low, mean, lambda, median, p)")
	b := fs.Float64("b", 1, "Second distribution parameter (high, stdv, sigma)")
	seed := fs.Int64("seed", -1, "Generator seed (-1 = clock)")
	load := fs.String("load-state", "", "Resume the generator from a saved state file (overrides -seed)")
	save := fs.String("save-state", "", "Save the generator state to this file afterwards")
	if err := fs.Parse(args); err != nil {
		return err
	}

	shape, err := tensor.ParseShape(*shapeFlag)
	if err != nil {
		return err
	}
	dtype, err := tensor.ParseDataType(*dtypeFlag)
	if err != nil {
		return err
	}
	t, err := tensor.NewRaw(shape, dtype)
	if err != nil {
		return err
	}
	defer t.Release()

	gen, err := newGenerator(*seed, *load)
	if err != nil {
		return err
	}
	klog.Infof("filling %s %v with %s", dtype, shape, *dist)

	switch *dist {
	case "random":
		err = random.FillRandom(gen, t)
	case "uniform":
		err = random.FillUniform(gen, t, *a, *b)
	case "normal":
		err = random.FillNormal(gen, t, *a, *b)
	case "exponential":
		err = random.FillExponential(gen, t, *a)
	case "cauchy":
		err = random.FillCauchy(gen, t, *a, *b)
	case "lognormal":
		err = random.FillLogNormal(gen, t, *a, *b)
	case "geometric":
		err = random.FillGeometric(gen, t, *a)
	case "bernoulli":
		err = random.FillBernoulli(gen, t, *a)
	default:
		err = fmt.Errorf("unknown distribution %q", *dist)
	}
	if err != nil {
		return err
	}

	if err := printRows(w, t); err != nil {
		return err
	}
	return saveState(*save, gen)
}

// newGenerator seeds a generator, or restores it from statePath when set.
func newGenerator(seed int64, statePath string) (*random.Generator, error) {
	gen := random.NewGeneratorFromConfig(random.Config{Seed: seed})
	if statePath == "" {
		klog.V(1).Infof("generator seed %d", gen.InitialSeed())
		return gen, nil
	}
	if err := random.LoadRNGState(statePath, gen); err != nil {
		return nil, err
	}
	klog.V(1).Infof("generator state loaded from %s", statePath)
	return gen, nil
}

func saveState(path string, gen *random.Generator) error {
	if path == "" {
		return nil
	}
	return random.SaveRNGState(path, gen)
}

func parseFloats(text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no probabilities given")
	}
	fields := strings.Split(text, ",")
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid probability %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}

// printRows prints t one row (last dimension) per line.
func printRows(w io.Writer, t *tensor.RawTensor) error {
	shape := t.Shape()
	width := 1
	if len(shape) > 0 {
		width = shape[len(shape)-1]
	}
	format := byte('g')
	if !t.DType().IsFloat() {
		format = 'f'
	}

	values := t.Float64s()
	for start := 0; start < len(values); start += width {
		parts := make([]string, 0, width)
		for _, v := range values[start : start+width] {
			parts = append(parts, strconv.FormatFloat(v, format, -1, 64))
		}
		if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}
