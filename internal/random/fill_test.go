package random

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/randtensor/internal/rng"
	"github.com/born-ml/randtensor/internal/tensor"
)

func newTensor(t *testing.T, dtype tensor.DataType, shape ...int) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, dtype)
	require.NoError(t, err)
	return raw
}

func TestFillRandomRanges(t *testing.T) {
	tests := []struct {
		dtype tensor.DataType
		max   float64
	}{
		{tensor.Uint8, 255},
		{tensor.Int8, 127},
		{tensor.Int16, 32767},
		{tensor.Int32, math.MaxInt32},
		{tensor.Int64, math.MaxInt64},
		{tensor.Float32, 1 << 24},
		{tensor.Float64, 1 << 24},
	}

	gen := rng.New(21)
	for _, tt := range tests {
		t.Run(tt.dtype.String(), func(t *testing.T) {
			raw := newTensor(t, tt.dtype, 64, 32)
			require.NoError(t, FillRandom(gen, raw))

			distinct := map[float64]bool{}
			for _, v := range raw.Float64s() {
				require.GreaterOrEqual(t, v, 0.0)
				require.LessOrEqual(t, v, tt.max)
				require.Equal(t, math.Trunc(v), v)
				distinct[v] = true
			}
			assert.Greater(t, len(distinct), 1)
		})
	}
}

func TestFillRandomReducesRawDraws(t *testing.T) {
	a := rng.New(8)
	b := rng.New(8)

	raw := newTensor(t, tensor.Int16, 3, 5)
	require.NoError(t, FillRandom(a, raw))

	for _, v := range tensor.Values[int16](raw) {
		require.Equal(t, int16(b.Random()%32768), v)
	}
}

func TestFillVisitsEachLogicalElementOnce(t *testing.T) {
	storage := tensor.NewStorage(tensor.Int64, 5)
	defer storage.Release()

	// Six logical elements over five storage slots, two of them aliased.
	view, err := tensor.NewView(storage, 0, tensor.Shape{3, 2}, []int{1, 2})
	require.NoError(t, err)
	defer view.Release()

	a := rng.New(4)
	b := rng.New(4)
	require.NoError(t, FillRandom(a, view))

	for i := 0; i < view.NumElements(); i++ {
		b.Random()
	}
	assert.Equal(t, b.State(), a.State())
}

func TestFillStridedViewLeavesOtherElements(t *testing.T) {
	raw := newTensor(t, tensor.Int32, 3, 4)
	cols, err := raw.Narrow(1, 1, 2)
	require.NoError(t, err)
	defer cols.Release()

	require.NoError(t, FillBernoulli(rng.New(0), cols.Transpose(0, 1), 1))

	assert.Equal(t, []int32{
		0, 1, 1, 0,
		0, 1, 1, 0,
		0, 1, 1, 0,
	}, tensor.Values[int32](raw))
}

func TestFillBernoulliExtremes(t *testing.T) {
	gen := rng.New(5)

	raw := newTensor(t, tensor.Int16, 10, 10)
	require.NoError(t, FillBernoulli(gen, raw, 0))
	for _, v := range tensor.Values[int16](raw) {
		require.Equal(t, int16(0), v)
	}

	require.NoError(t, FillBernoulli(gen, raw, 1))
	for _, v := range tensor.Values[int16](raw) {
		require.Equal(t, int16(1), v)
	}
}

func TestFillGeometricAllKinds(t *testing.T) {
	gen := rng.New(6)
	for _, dtype := range []tensor.DataType{tensor.Uint8, tensor.Int8, tensor.Int32, tensor.Float32, tensor.Float64} {
		raw := newTensor(t, dtype, 50)
		require.NoError(t, FillGeometric(gen, raw, 0.3))
		for _, v := range raw.Float64s() {
			require.GreaterOrEqual(t, v, 1.0, "dtype %s", dtype)
		}
	}
}

func TestFillNormalMoments(t *testing.T) {
	raw := newTensor(t, tensor.Float64, 100, 200)
	require.NoError(t, FillNormal(rng.New(7), raw, -1, 0.5))

	mean, std := stat.MeanStdDev(raw.Float64s(), nil)
	assert.InDelta(t, -1.0, mean, 0.02)
	assert.InDelta(t, 0.5, std, 0.02)
}

func TestFillUniformFloat32(t *testing.T) {
	raw := newTensor(t, tensor.Float32, 40, 40)
	require.NoError(t, FillUniform(rng.New(8), raw, 2, 3))

	xs := raw.Float64s()
	for _, v := range xs {
		require.GreaterOrEqual(t, v, 2.0)
		require.LessOrEqual(t, v, 3.0)
	}
	assert.InDelta(t, 2.5, stat.Mean(xs, nil), 0.05)
}

func TestFillExponentialCauchyLogNormal(t *testing.T) {
	gen := rng.New(9)

	exp := newTensor(t, tensor.Float64, 5000)
	require.NoError(t, FillExponential(gen, exp, 2))
	assert.InDelta(t, 0.5, stat.Mean(exp.Float64s(), nil), 0.05)

	cauchy := newTensor(t, tensor.Float32, 100)
	require.NoError(t, FillCauchy(gen, cauchy, 0, 1))

	logNormal := newTensor(t, tensor.Float64, 5000)
	require.NoError(t, FillLogNormal(gen, logNormal, 1, 0.2))
	for _, v := range logNormal.Float64s() {
		require.Greater(t, v, 0.0)
	}
	assert.InDelta(t, 1.0, stat.Mean(logNormal.Float64s(), nil), 0.02)
}

func TestFillFloatOnlyRejectsIntegerKinds(t *testing.T) {
	gen := rng.New(10)
	raw := newTensor(t, tensor.Int32, 4)

	assert.ErrorIs(t, FillUniform(gen, raw, 0, 1), ErrInvalidArgument)
	assert.ErrorIs(t, FillNormal(gen, raw, 0, 1), ErrInvalidArgument)
	assert.ErrorIs(t, FillExponential(gen, raw, 1), ErrInvalidArgument)
	assert.ErrorIs(t, FillCauchy(gen, raw, 0, 1), ErrInvalidArgument)
	assert.ErrorIs(t, FillLogNormal(gen, raw, 1, 1), ErrInvalidArgument)
}

func TestFillRejectsBadParameters(t *testing.T) {
	gen := rng.New(10)
	raw := newTensor(t, tensor.Float64, 4)

	assert.ErrorIs(t, FillNormal(gen, raw, 0, 0), ErrInvalidArgument)
	assert.ErrorIs(t, FillExponential(gen, raw, -1), ErrInvalidArgument)
	assert.ErrorIs(t, FillLogNormal(gen, raw, 0, 1), ErrInvalidArgument)
	assert.ErrorIs(t, FillGeometric(gen, raw, 1), ErrInvalidArgument)
	assert.ErrorIs(t, FillGeometric(gen, raw, 0), ErrInvalidArgument)
	assert.ErrorIs(t, FillBernoulli(gen, raw, 1.5), ErrInvalidArgument)
	assert.ErrorIs(t, FillCauchy(gen, raw, math.NaN(), 1), ErrInvalidArgument)

	// Rejected calls draw nothing.
	fresh := rng.New(10)
	assert.Equal(t, fresh.State(), gen.State())
}
