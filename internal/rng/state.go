package rng

import "github.com/pkg/errors"

// ErrInvalidState is returned when a State cannot be loaded into a Generator.
var ErrInvalidState = errors.New("invalid generator state")

// State is a full snapshot of a Generator: the twister words, the index of
// the next word to hand out (Offset) and the number of draws left before
// the words are regenerated (Left).
type State struct {
	Words  [StateWords]uint64
	Offset int64
	Left   int64
}

// State returns a snapshot of the generator.
func (g *Generator) State() State {
	return State{
		Words:  g.state,
		Offset: int64(g.next),
		Left:   int64(g.left),
	}
}

// SetState replaces the generator state with s.
func (g *Generator) SetState(s State) error {
	if s.Left < 1 || s.Left > StateWords {
		return errors.Wrapf(ErrInvalidState, "left %d outside [1, %d]", s.Left, StateWords)
	}
	if s.Offset < 0 || s.Offset+s.Left > StateWords+1 {
		return errors.Wrapf(ErrInvalidState, "offset %d with %d left overruns %d words",
			s.Offset, s.Left, StateWords)
	}
	for i, w := range s.Words {
		if w > wordMask {
			return errors.Wrapf(ErrInvalidState, "word %d does not fit in 32 bits", i)
		}
	}

	g.state = s.Words
	g.next = int(s.Offset)
	g.left = int(s.Left)
	return nil
}
