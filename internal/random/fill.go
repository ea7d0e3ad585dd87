package random

import (
	"math"
	"unsafe"

	"golang.org/x/exp/constraints"
	"k8s.io/klog/v2"

	"github.com/born-ml/randtensor/internal/metrics"
	"github.com/born-ml/randtensor/internal/tensor"
)

type integerKind interface {
	tensor.DType
	constraints.Integer
}

type floatKind interface {
	tensor.DType
	constraints.Float
}

// floatRandomRange bounds FillRandom for both float kinds: every value in
// [0, 2^24] is exactly representable in a float32 mantissa.
const floatRandomRange = 1<<24 + 1

// fill writes gen() to every logical element of t.
func fill[T tensor.DType](t *tensor.RawTensor, gen func() T) {
	data := tensor.Data[T](t.Storage())
	t.ForEach(func(addr int) {
		data[addr] = gen()
	})
}

// randomRange returns max(T)+1.
func randomRange[T integerKind]() uint64 {
	bits := unsafe.Sizeof(T(0)) * 8
	if T(0)-1 > 0 {
		return 1 << bits
	}
	return 1 << (bits - 1)
}

func fillRandomInteger[T integerKind](src Source, t *tensor.RawTensor) {
	m := randomRange[T]()
	fill(t, func() T { return T(src.Random() % m) })
}

func fillRandomFloat[T floatKind](src Source, t *tensor.RawTensor) {
	fill(t, func() T { return T(src.Random() % floatRandomRange) })
}

func fillInt64[T tensor.DType](t *tensor.RawTensor, draw func() int64) {
	fill(t, func() T { return T(draw()) })
}

func fillFloat64[T floatKind](t *tensor.RawTensor, draw func() float64) {
	fill(t, func() T { return T(draw()) })
}

// fillAnyKind writes draw() converted to the element kind of t.
func fillAnyKind(t *tensor.RawTensor, draw func() int64) {
	switch t.DType() {
	case tensor.Uint8:
		fillInt64[uint8](t, draw)
	case tensor.Int8:
		fillInt64[int8](t, draw)
	case tensor.Int16:
		fillInt64[int16](t, draw)
	case tensor.Int32:
		fillInt64[int32](t, draw)
	case tensor.Int64:
		fillInt64[int64](t, draw)
	case tensor.Float32:
		fillInt64[float32](t, draw)
	case tensor.Float64:
		fillInt64[float64](t, draw)
	}
}

// fillFloatKind writes draw() to a float tensor, rejecting integer kinds.
func fillFloatKind(op string, t *tensor.RawTensor, draw func() float64) error {
	switch t.DType() {
	case tensor.Float32:
		fillFloat64[float32](t, draw)
	case tensor.Float64:
		fillFloat64[float64](t, draw)
	default:
		return reject(op, ErrInvalidArgument, "%s is only defined for float tensors, got %s", op, t.DType())
	}
	return nil
}

func filled(op string, t *tensor.RawTensor) {
	n := t.NumElements()
	metrics.ElementsFilled.WithLabelValues(op, t.DType().String()).Add(float64(n))
	klog.V(4).Infof("random: %s filled %d %s elements", op, n, t.DType())
}

// FillRandom fills t with raw draws reduced to the range of its kind:
// [0, 255] for uint8, [0, max] for the signed kinds and [0, 2^24] for both
// float kinds.
func FillRandom(src Source, t *tensor.RawTensor) error {
	switch t.DType() {
	case tensor.Uint8:
		fillRandomInteger[uint8](src, t)
	case tensor.Int8:
		fillRandomInteger[int8](src, t)
	case tensor.Int16:
		fillRandomInteger[int16](src, t)
	case tensor.Int32:
		fillRandomInteger[int32](src, t)
	case tensor.Int64:
		fillRandomInteger[int64](src, t)
	case tensor.Float32:
		fillRandomFloat[float32](src, t)
	case tensor.Float64:
		fillRandomFloat[float64](src, t)
	default:
		return reject("random", ErrInvalidArgument, "unsupported dtype %s", t.DType())
	}
	filled("random", t)
	return nil
}

// FillGeometric fills t with geometric draws, 0 < p < 1.
func FillGeometric(src Source, t *tensor.RawTensor, p float64) error {
	if !(p > 0 && p < 1) {
		return reject("geometric", ErrInvalidArgument, "geometric p must be in (0, 1), got %v", p)
	}
	fillAnyKind(t, func() int64 { return src.Geometric(p) })
	filled("geometric", t)
	return nil
}

// FillBernoulli fills t with 0/1 draws that are 1 with probability p.
func FillBernoulli(src Source, t *tensor.RawTensor, p float64) error {
	if !(p >= 0 && p <= 1) {
		return reject("bernoulli", ErrInvalidArgument, "bernoulli p must be in [0, 1], got %v", p)
	}
	fillAnyKind(t, func() int64 {
		if src.Bernoulli(p) {
			return 1
		}
		return 0
	})
	filled("bernoulli", t)
	return nil
}

// FillUniform fills a float tensor with values uniform in [a, b).
func FillUniform(src Source, t *tensor.RawTensor, a, b float64) error {
	if err := fillFloatKind("uniform", t, func() float64 { return src.Uniform(a, b) }); err != nil {
		return err
	}
	filled("uniform", t)
	return nil
}

// FillNormal fills a float tensor with normal draws.
func FillNormal(src Source, t *tensor.RawTensor, mean, stdv float64) error {
	if !(stdv > 0) {
		return reject("normal", ErrInvalidArgument, "normal stdv must be > 0, got %v", stdv)
	}
	if err := fillFloatKind("normal", t, func() float64 { return src.Normal(mean, stdv) }); err != nil {
		return err
	}
	filled("normal", t)
	return nil
}

// FillExponential fills a float tensor with exponential draws.
func FillExponential(src Source, t *tensor.RawTensor, lambda float64) error {
	if !(lambda > 0) {
		return reject("exponential", ErrInvalidArgument, "exponential lambda must be > 0, got %v", lambda)
	}
	if err := fillFloatKind("exponential", t, func() float64 { return src.Exponential(lambda) }); err != nil {
		return err
	}
	filled("exponential", t)
	return nil
}

// FillCauchy fills a float tensor with Cauchy draws.
func FillCauchy(src Source, t *tensor.RawTensor, median, sigma float64) error {
	if math.IsNaN(median) || math.IsNaN(sigma) {
		return reject("cauchy", ErrInvalidArgument, "cauchy parameters must not be NaN")
	}
	if err := fillFloatKind("cauchy", t, func() float64 { return src.Cauchy(median, sigma) }); err != nil {
		return err
	}
	filled("cauchy", t)
	return nil
}

// FillLogNormal fills a float tensor with log-normal draws whose own mean
// and standard deviation are mean and stdv.
func FillLogNormal(src Source, t *tensor.RawTensor, mean, stdv float64) error {
	if !(mean > 0 && stdv > 0) {
		return reject("log_normal", ErrInvalidArgument, "log-normal mean and stdv must be > 0, got %v and %v", mean, stdv)
	}
	if err := fillFloatKind("log_normal", t, func() float64 { return src.LogNormal(mean, stdv) }); err != nil {
		return err
	}
	filled("log_normal", t)
	return nil
}
