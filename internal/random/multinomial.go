package random

import (
	"math"
	"sort"

	"k8s.io/klog/v2"

	"github.com/born-ml/randtensor/internal/metrics"
	"github.com/born-ml/randtensor/internal/tensor"
)

// Multinomial draws nSample category indices from every row of probDist.
//
// probDist is a float tensor of shape [categories] or [rows, categories];
// rows need not sum to one but must have a positive sum. The result is a new
// Int64 tensor of shape [nSample] or [rows, nSample] holding zero-based
// indices in draw order. Without replacement, a category is drawn at most
// once per row, which requires nSample <= categories.
//
// Errors: ErrInvalidArgument for a bad nSample, rank or kind,
// ErrInvalidDistribution for a row whose sum is not positive.
func Multinomial(src Source, probDist *tensor.RawTensor, nSample int, withReplacement bool) (*tensor.RawTensor, error) {
	if err := checkMultinomialArgs(probDist, nSample, withReplacement); err != nil {
		return nil, err
	}

	shape := tensor.Shape{nSample}
	if probDist.Dim() == 2 {
		shape = tensor.Shape{probDist.Size(0), nSample}
	}
	out, err := tensor.NewRaw(shape, tensor.Int64)
	if err != nil {
		return nil, err
	}

	if err := MultinomialInto(src, out, probDist, nSample, withReplacement); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}

// MultinomialInto is Multinomial writing into a caller-owned Int64 tensor of
// shape [nSample] (rank-1 probDist) or [rows, nSample]. out may be strided.
// On error the contents of out are unspecified: rows sampled before the
// failing one may already have been written.
func MultinomialInto(src Source, out, probDist *tensor.RawTensor, nSample int, withReplacement bool) error {
	if err := checkMultinomialArgs(probDist, nSample, withReplacement); err != nil {
		return err
	}

	want := tensor.Shape{nSample}
	if probDist.Dim() == 2 {
		want = tensor.Shape{probDist.Size(0), nSample}
	}
	if out.DType() != tensor.Int64 || !out.Shape().Equal(want) {
		return reject("multinomial", ErrInvalidArgument, "output must be int64 of shape %v, got %s of shape %v",
			want, out.DType(), out.Shape())
	}

	// A rank-1 distribution is processed as a single row.
	prob2d, err := asRows(probDist)
	if err != nil {
		return err
	}
	defer prob2d.Release()
	out2d, err := asRows(out)
	if err != nil {
		return err
	}
	defer out2d.Release()

	klog.V(2).Infof("random: multinomial rows=%d categories=%d samples=%d replacement=%v",
		prob2d.Size(0), prob2d.Size(1), nSample, withReplacement)

	switch probDist.DType() {
	case tensor.Float32:
		err = multinomial[float32](src, out2d, prob2d, nSample, withReplacement)
	default:
		err = multinomial[float64](src, out2d, prob2d, nSample, withReplacement)
	}
	if err != nil {
		return err
	}

	metrics.SamplesDrawn.WithLabelValues(metrics.Replacement(withReplacement)).
		Add(float64(prob2d.Size(0) * nSample))
	return nil
}

func checkMultinomialArgs(probDist *tensor.RawTensor, nSample int, withReplacement bool) error {
	if !probDist.DType().IsFloat() {
		return reject("multinomial", ErrInvalidArgument, "probability distribution must be float, got %s",
			probDist.DType())
	}
	if d := probDist.Dim(); d != 1 && d != 2 {
		return reject("multinomial", ErrInvalidArgument, "probability distribution must have 1 or 2 dimensions, got %d", d)
	}
	if nSample <= 0 {
		return reject("multinomial", ErrInvalidArgument, "cannot sample n_sample <= 0 samples (got %d)", nSample)
	}
	nCategories := probDist.Size(probDist.Dim() - 1)
	if !withReplacement && nSample > nCategories {
		return reject("multinomial", ErrInvalidArgument,
			"cannot sample %d > %d categories without replacement", nSample, nCategories)
	}
	return nil
}

// asRows returns a rank-2 view of t; a rank-1 tensor becomes a single row.
func asRows(t *tensor.RawTensor) (*tensor.RawTensor, error) {
	if t.Dim() == 2 {
		return t.Clone(), nil
	}
	return t.View(t.Offset(), tensor.Shape{1, t.Size(0)}, []int{0, t.Strides()[0]})
}

// openUniform draws u in (0, 1).
func openUniform(src Source) float64 {
	u := src.Uniform(0, 1)
	for u <= 0 {
		u = src.Uniform(0, 1)
	}
	return u
}

// cumulate stores the prefix sums of weights in cum and returns the total.
func cumulate(cum, weights []float64) float64 {
	var sum float64
	for j, w := range weights {
		sum += w
		cum[j] = sum
	}
	return sum
}

func multinomial[T floatKind](src Source, out, probDist *tensor.RawTensor, nSample int, withReplacement bool) error {
	nDist, nCategories := probDist.Size(0), probDist.Size(1)
	prob := tensor.Data[T](probDist.Storage())
	pStride := probDist.Strides()
	samples := tensor.Data[int64](out.Storage())
	sStride := out.Strides()

	// Row weights and their cumulative distribution, rebuilt for every row.
	// Both are kept in float64 whatever the input kind.
	scratch, err := tensor.NewRaw(tensor.Shape{2, nCategories}, tensor.Float64)
	if err != nil {
		return err
	}
	defer scratch.Release()
	buf := tensor.Data[float64](scratch.Storage())
	weights, cum := buf[:nCategories], buf[nCategories:]

	for i := 0; i < nDist; i++ {
		rowBase := probDist.Offset() + i*pStride[0]
		for j := range weights {
			weights[j] = float64(prob[rowBase+j*pStride[1]])
		}
		total := cumulate(cum, weights)
		if !(total > 0) || math.IsInf(total, 1) {
			return reject("multinomial", ErrInvalidDistribution, "row %d sums to %v", i, total)
		}
		klog.V(4).Infof("random: multinomial row %d sum=%v", i, total)

		outBase := out.Offset() + i*sStride[0]
		for d := 0; d < nSample; d++ {
			// Comparing u*total against the raw prefix sums is the inverse CDF
			// of the normalized row. u < 1 keeps target <= cum[last].
			target := openUniform(src) * total

			// Smallest idx with cum[idx] >= target. A category of zero weight
			// has cum[idx] == cum[idx-1] and is never selected.
			idx := sort.Search(nCategories, func(k int) bool {
				return cum[k] >= target
			})
			samples[outBase+d*sStride[1]] = int64(idx)

			if withReplacement {
				continue
			}

			// Remove the drawn category exactly and rebuild the prefix sums.
			weights[idx] = 0
			total = cumulate(cum, weights)
			if !(total > 0) {
				if d == nSample-1 {
					break
				}
				return reject("multinomial", ErrInvalidDistribution,
					"row %d has only %d categories with positive probability, %d requested without replacement",
					i, d+1, nSample)
			}
		}
	}
	return nil
}
