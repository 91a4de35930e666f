package presets

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ivlev/choreo/internal/formation"
)

// ErrNotImplemented marks a registered source with no backend yet.
var ErrNotImplemented = errors.New("coordinate source not implemented")

// Source produces at most count stage positions. Its output is untrusted:
// callers clamp and truncate before assigning it.
type Source interface {
	Coordinates(ctx context.Context, count int) ([]formation.Position, error)
}

// PresetSource wraps a catalogue generator.
type PresetSource struct {
	Name  string
	Scale float64
}

func (s PresetSource) Coordinates(ctx context.Context, count int) ([]formation.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Generate(s.Name, count, s.Scale)
}

// Scatter bounds on both axes.
const (
	ScatterMin = 20.0
	ScatterMax = 80.0
)

// ScatterSource places performers uniformly at random in the middle of the
// stage.
type ScatterSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewScatterSource seeds from the clock when seed is 0.
func NewScatterSource(seed int64) *ScatterSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &ScatterSource{rnd: rand.New(rand.NewSource(seed))}
}

func (s *ScatterSource) Coordinates(ctx context.Context, count int) ([]formation.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if count < 0 {
		count = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	span := ScatterMax - ScatterMin
	out := make([]formation.Position, count)
	for i := range out {
		out[i] = formation.Position{
			X: ScatterMin + s.rnd.Float64()*span,
			Y: ScatterMin + s.rnd.Float64()*span,
		}
	}
	return out, nil
}

// NewSource creates a coordinate source based on the specified variant.
// preset and scale only apply to the preset variant.
func NewSource(variant, preset string, scale float64) (Source, error) {
	switch variant {
	case "preset", "":
		if _, ok := Lookup(preset); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
		}
		return PresetSource{Name: preset, Scale: scale}, nil
	case "scatter":
		return NewScatterSource(0), nil
	case "ai":
		return nil, fmt.Errorf("ai: %w", ErrNotImplemented)
	default:
		return nil, fmt.Errorf("unknown coordinate source: %s", variant)
	}
}
