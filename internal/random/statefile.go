package random

import (
	"k8s.io/klog/v2"

	"github.com/born-ml/randtensor/internal/serialization"
	"github.com/born-ml/randtensor/internal/tensor"
)

// StateTensorName is the tensor name under which SaveRNGState stores the
// generator state.
const StateTensorName = "rng_state"

// SaveRNGState writes the state of src to a .rts file at path.
func SaveRNGState(path string, src Source) error {
	state, err := GetRNGState(src)
	if err != nil {
		return err
	}
	defer state.Release()

	meta := map[string]string{"generator": "mt19937"}
	if err := serialization.WriteFile(path, map[string]*tensor.RawTensor{StateTensorName: state}, meta); err != nil {
		return err
	}
	klog.V(2).Infof("random: generator state saved to %s", path)
	return nil
}

// LoadRNGState restores the state of src from a file written by SaveRNGState.
// src is left unchanged on error.
func LoadRNGState(path string, src Source) error {
	state, err := serialization.ReadTensor(path, StateTensorName)
	if err != nil {
		return err
	}
	defer state.Release()
	return SetRNGState(src, state)
}
