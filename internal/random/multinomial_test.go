package random

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/randtensor/internal/rng"
	"github.com/born-ml/randtensor/internal/tensor"
)

// scriptedSource replays fixed uniform draws; everything else comes from
// the embedded generator.
type scriptedSource struct {
	*rng.Generator
	uniforms []float64
}

func newScripted(uniforms ...float64) *scriptedSource {
	return &scriptedSource{Generator: rng.New(0), uniforms: uniforms}
}

func (s *scriptedSource) Uniform(a, b float64) float64 {
	u := s.uniforms[0]
	s.uniforms = s.uniforms[1:]
	return a + u*(b-a)
}

func mustFromSlice[T tensor.DType](t *testing.T, data []T, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return raw
}

func rowOf(t *testing.T, samples *tensor.RawTensor, row int) []int64 {
	t.Helper()
	r, err := samples.Select(0, row)
	require.NoError(t, err)
	defer r.Release()
	return tensor.Values[int64](r)
}

func TestMultinomialInverseCDF(t *testing.T) {
	probs := mustFromSlice(t, []float64{0.2, 0.3, 0.5}, tensor.Shape{3})
	src := newScripted(0.1, 0.2, 0.21, 0.5, 0.50001, 0.99)

	out, err := Multinomial(src, probs, 6, true)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{6}, out.Shape())
	assert.Equal(t, tensor.Int64, out.DType())
	// Ties at a cumulative boundary resolve to the smaller index.
	assert.Equal(t, []int64{0, 0, 1, 1, 2, 2}, tensor.Values[int64](out))
}

func TestMultinomialWithoutReplacementRenormalizes(t *testing.T) {
	probs := mustFromSlice(t, []float64{1, 1, 1, 1}, tensor.Shape{4})
	src := newScripted(0.3, 0.3, 0.3, 0.3)

	out, err := Multinomial(src, probs, 4, false)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 0, 2, 3}, tensor.Values[int64](out))
}

func TestMultinomialOneHotRow(t *testing.T) {
	probs := mustFromSlice(t, []float64{0, 1, 0}, tensor.Shape{3})

	for _, u := range []float64{1e-12, 0.25, 0.5, 0.999999} {
		out, err := Multinomial(newScripted(u), probs, 1, false)
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, tensor.Values[int64](out), "u = %v", u)
	}

	out, err := Multinomial(rng.New(7), probs, 100, true)
	require.NoError(t, err)
	for _, idx := range tensor.Values[int64](out) {
		require.Equal(t, int64(1), idx)
	}
}

func TestMultinomialRedrawsZeroUniform(t *testing.T) {
	probs := mustFromSlice(t, []float64{0, 1}, tensor.Shape{2})
	src := newScripted(0, 0.5)

	out, err := Multinomial(src, probs, 1, true)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, tensor.Values[int64](out))
	assert.Empty(t, src.uniforms)
}

func TestMultinomialIndicesInRange(t *testing.T) {
	gen := rng.New(1)
	probs, err := tensor.NewRaw(tensor.Shape{5, 13}, tensor.Float64)
	require.NoError(t, err)
	require.NoError(t, FillUniform(gen, probs, 0, 1))

	for _, replacement := range []bool{true, false} {
		out, err := Multinomial(gen, probs, 13, replacement)
		require.NoError(t, err)
		assert.Equal(t, tensor.Shape{5, 13}, out.Shape())
		for _, idx := range tensor.Values[int64](out) {
			require.GreaterOrEqual(t, idx, int64(0))
			require.Less(t, idx, int64(13))
		}
	}
}

func TestMultinomialWithoutReplacementDistinct(t *testing.T) {
	gen := rng.New(2)
	probs, err := tensor.NewRaw(tensor.Shape{4, 20}, tensor.Float32)
	require.NoError(t, err)
	require.NoError(t, FillUniform(gen, probs, 0.01, 1))

	out, err := Multinomial(gen, probs, 7, false)
	require.NoError(t, err)
	for row := 0; row < 4; row++ {
		seen := map[int64]bool{}
		for _, idx := range rowOf(t, out, row) {
			require.False(t, seen[idx], "row %d repeats index %d", row, idx)
			seen[idx] = true
		}
	}
}

func TestMultinomialFullDrawIsPermutation(t *testing.T) {
	probs := mustFromSlice(t, []float64{1, 1, 1, 1}, tensor.Shape{4})

	for seed := uint64(0); seed < 20; seed++ {
		out, err := Multinomial(rng.New(seed), probs, 4, false)
		require.NoError(t, err)

		got := tensor.Values[int64](out)
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		require.Equal(t, []int64{0, 1, 2, 3}, got, "seed %d", seed)
	}
}

func TestMultinomialDeterministic(t *testing.T) {
	probs := mustFromSlice(t, []float64{0.1, 0.4, 0.2, 0.3, 0.05, 0.6}, tensor.Shape{2, 3})

	a, err := Multinomial(rng.New(99), probs, 8, true)
	require.NoError(t, err)
	b, err := Multinomial(rng.New(99), probs, 8, true)
	require.NoError(t, err)
	assert.Equal(t, tensor.Values[int64](a), tensor.Values[int64](b))
}

func TestMultinomialScaleInvariant(t *testing.T) {
	base := []float64{0.1, 0.4, 0.2, 0.3, 0.05, 0.6, 0.2, 0.15}
	scaled := make([]float64, len(base))
	for i, p := range base {
		scaled[i] = 8 * p
	}

	for _, replacement := range []bool{true, false} {
		a, err := Multinomial(rng.New(5), mustFromSlice(t, base, tensor.Shape{2, 4}), 4, replacement)
		require.NoError(t, err)
		b, err := Multinomial(rng.New(5), mustFromSlice(t, scaled, tensor.Shape{2, 4}), 4, replacement)
		require.NoError(t, err)
		assert.Equal(t, tensor.Values[int64](a), tensor.Values[int64](b))
	}
}

func TestMultinomialStridedInput(t *testing.T) {
	rowsMajor := []float64{0.1, 0.4, 0.2, 0.3, 0.05, 0.6}
	// Same distribution stored column-major, viewed through a transpose.
	colMajor := mustFromSlice(t, []float64{0.1, 0.3, 0.4, 0.05, 0.2, 0.6}, tensor.Shape{3, 2})
	transposed := colMajor.Transpose(0, 1)
	defer transposed.Release()

	a, err := Multinomial(rng.New(3), mustFromSlice(t, rowsMajor, tensor.Shape{2, 3}), 3, false)
	require.NoError(t, err)
	b, err := Multinomial(rng.New(3), transposed, 3, false)
	require.NoError(t, err)
	assert.Equal(t, tensor.Values[int64](a), tensor.Values[int64](b))

	// The input is left untouched.
	assert.Equal(t, []float64{0.1, 0.3, 0.4, 0.05, 0.2, 0.6}, tensor.Values[float64](colMajor))
}

func TestMultinomialInto(t *testing.T) {
	probs := mustFromSlice(t, []float64{0.2, 0.3, 0.5, 0.5, 0.5, 0}, tensor.Shape{2, 3})

	// Output written through a transposed view of a [2, 2] buffer.
	buf, err := tensor.NewRaw(tensor.Shape{2, 2}, tensor.Int64)
	require.NoError(t, err)
	out := buf.Transpose(0, 1)
	defer out.Release()

	src := newScripted(0.1, 0.6, 0.4, 0.9)
	require.NoError(t, MultinomialInto(src, out, probs, 2, true))
	assert.Equal(t, []int64{0, 2, 0, 1}, tensor.Values[int64](out))
	assert.Equal(t, []int64{0, 0, 2, 1}, tensor.Values[int64](buf))

	wrong, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Int64)
	require.NoError(t, err)
	err = MultinomialInto(rng.New(0), wrong, probs, 2, true)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMultinomialFrequencies(t *testing.T) {
	probs := mustFromSlice(t, []float64{0.1, 0.2, 0.7}, tensor.Shape{3})
	const n = 30000

	out, err := Multinomial(rng.New(11), probs, n, true)
	require.NoError(t, err)

	counts := make([]float64, 3)
	for _, idx := range tensor.Values[int64](out) {
		counts[idx]++
	}
	assert.InDelta(t, 0.1, counts[0]/n, 0.015)
	assert.InDelta(t, 0.2, counts[1]/n, 0.015)
	assert.InDelta(t, 0.7, counts[2]/n, 0.015)
}

func TestMultinomialErrors(t *testing.T) {
	probs := mustFromSlice(t, []float64{0.5, 0.5, 0, 0}, tensor.Shape{4})

	tests := []struct {
		name        string
		probs       *tensor.RawTensor
		nSample     int
		replacement bool
		want        error
	}{
		{"zero samples", probs, 0, true, ErrInvalidArgument},
		{"negative samples", probs, -3, false, ErrInvalidArgument},
		{"too many without replacement", probs, 5, false, ErrInvalidArgument},
		{"all zero row", mustFromSlice(t, []float64{0, 0, 0}, tensor.Shape{3}), 1, true, ErrInvalidDistribution},
		{"negative sum", mustFromSlice(t, []float64{-1, 0.5}, tensor.Shape{2}), 1, true, ErrInvalidDistribution},
		{"zero second row", mustFromSlice(t, []float64{1, 2, 0, 0}, tensor.Shape{2, 2}), 1, true, ErrInvalidDistribution},
		{"mass exhausted", probs, 3, false, ErrInvalidDistribution},
		{"integer kind", mustFromSlice(t, []int32{1, 2}, tensor.Shape{2}), 1, true, ErrInvalidArgument},
		{"rank 3", mustFromSlice(t, []float64{1, 2}, tensor.Shape{1, 1, 2}), 1, true, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Multinomial(rng.New(0), tt.probs, tt.nSample, tt.replacement)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMultinomialAllowsMoreSamplesWithReplacement(t *testing.T) {
	probs := mustFromSlice(t, []float64{0.5, 0.5, 0, 0}, tensor.Shape{4})

	out, err := Multinomial(rng.New(0), probs, 10, true)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{10}, out.Shape())

	// Exactly as many draws as positive categories still works.
	out, err = Multinomial(rng.New(0), probs, 2, false)
	require.NoError(t, err)
	got := tensor.Values[int64](out)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	assert.Equal(t, []int64{0, 1}, got)
}

func TestMultinomialWithoutReplacementDrawsNearOne(t *testing.T) {
	const u = 0.9999999
	for _, p := range []float32{0.00011438108, 0.12812445, 0.31327352, 0.5, 0.99} {
		probs := mustFromSlice(t, []float32{p, 1 - p}, tensor.Shape{2})

		out, err := Multinomial(newScripted(u, u), probs, 2, false)
		require.NoError(t, err, "p = %v", p)
		assert.ElementsMatch(t, []int64{0, 1}, tensor.Values[int64](out), "p = %v", p)
	}
}

func TestMultinomialWithoutReplacementDistinctUnderExtremeDraws(t *testing.T) {
	gen := rng.New(12)
	draws := []float64{0.9999999, 0.99999999, 1 - 1.0/(1<<32), 0.5, 1e-9, 0.9999999}

	for _, dtype := range []tensor.DataType{tensor.Float32, tensor.Float64} {
		probs := newTensor(t, dtype, 16, 6)
		require.NoError(t, FillUniform(gen, probs, 0.001, 1))

		scripted := make([]float64, 0, 16*len(draws))
		for row := 0; row < 16; row++ {
			scripted = append(scripted, draws...)
		}
		out, err := Multinomial(newScripted(scripted...), probs, 6, false)
		require.NoError(t, err, "dtype %s", dtype)

		for row := 0; row < 16; row++ {
			assert.ElementsMatch(t, []int64{0, 1, 2, 3, 4, 5}, rowOf(t, out, row), "dtype %s row %d", dtype, row)
		}
	}
}

func TestMultinomialIntoFailsOnLaterRow(t *testing.T) {
	probs := mustFromSlice(t, []float64{0.25, 0.75, 0, 0}, tensor.Shape{2, 2})
	out, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Int64)
	require.NoError(t, err)

	err = MultinomialInto(rng.New(13), out, probs, 3, true)
	assert.ErrorIs(t, err, ErrInvalidDistribution)

	// The valid first row was already sampled before the failure.
	for _, idx := range rowOf(t, out, 0) {
		require.Contains(t, []int64{0, 1}, idx)
	}
}
