package random

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/randtensor/internal/metrics"
	"github.com/born-ml/randtensor/internal/rng"
	"github.com/born-ml/randtensor/internal/tensor"
)

// StateSize is the number of elements of a serialized generator state:
// the twister words followed by the offset and the remaining count.
const StateSize = rng.StateWords + 2

// GetRNGState returns the state of src as a new Int64 tensor of StateSize
// elements.
func GetRNGState(src Source) (*tensor.RawTensor, error) {
	out, err := tensor.NewRaw(tensor.Shape{StateSize}, tensor.Int64)
	if err != nil {
		return nil, err
	}
	if err := WriteRNGState(src, out); err != nil {
		out.Release()
		return nil, err
	}
	return out, nil
}

// WriteRNGState stores the state of src into t, an Int64 tensor of exactly
// StateSize elements of any shape or layout.
func WriteRNGState(src Source, t *tensor.RawTensor) error {
	if err := checkStateTensor(t); err != nil {
		return err
	}

	s := src.State()
	data := tensor.Data[int64](t.Storage())
	k := 0
	t.ForEach(func(addr int) {
		switch {
		case k < rng.StateWords:
			data[addr] = int64(s.Words[k])
		case k == rng.StateWords:
			data[addr] = s.Offset
		default:
			data[addr] = s.Left
		}
		k++
	})
	return nil
}

// SetRNGState replaces the state of src with the one serialized in t.
func SetRNGState(src Source, t *tensor.RawTensor) error {
	if err := checkStateTensor(t); err != nil {
		return err
	}

	values := tensor.Values[int64](t)
	var s rng.State
	for i := 0; i < rng.StateWords; i++ {
		s.Words[i] = uint64(values[i])
	}
	s.Offset = values[rng.StateWords]
	s.Left = values[rng.StateWords+1]

	if err := src.SetState(s); err != nil {
		metrics.Failures.WithLabelValues("set_rng_state", "invalid_state").Inc()
		return errors.Wrap(err, "cannot restore generator state")
	}
	klog.V(2).Infof("random: generator state restored (offset=%d left=%d)", s.Offset, s.Left)
	return nil
}

func checkStateTensor(t *tensor.RawTensor) error {
	if t.NumElements() != StateSize {
		return reject("rng_state", ErrInvalidArgument, "state should have %d elements, got %d", StateSize, t.NumElements())
	}
	if t.DType() != tensor.Int64 {
		return reject("rng_state", ErrInvalidArgument, "state must be int64, got %s", t.DType())
	}
	return nil
}
