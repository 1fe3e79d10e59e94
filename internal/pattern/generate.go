package pattern

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ballet-labs/vacballet/internal/domain"
)

// crazySeed fixes the pseudorandom source for the spin pattern so that
// identical arguments reproduce identical choreography.
const crazySeed = 0x5eed

// Lissajous defaults, matching the classic 3:2 curve.
const (
	lissajousA     = 3
	lissajousB     = 2
	lissajousDelta = math.Pi / 2
)

// Spec names a generator and its numeric parameters. Size is the radius or
// half-extent in millimetres, already clamped by the caller. Steps of zero
// selects the generator's default.
type Spec struct {
	Name   string
	Center domain.Point
	Size   int
	Steps  int
}

// Names lists the known pattern names, in CLI display order.
// "shuffle" picks one of the others at random.
func Names() []string {
	return []string{"circle", "square", "eight", "lissajous", "spin", "shuffle"}
}

// Known reports whether name is a recognized pattern. Used to reject
// configuration errors before any transport interaction.
func Known(name string) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Generate produces the waypoint sequence for spec. It validates the
// pattern name and step-count preconditions before any point is computed,
// so configuration errors surface synchronously and never reach the
// transport.
func Generate(spec Spec) ([]domain.Point, error) {
	name := spec.Name
	if name == "shuffle" {
		names := Names()
		name = names[rand.Intn(len(names)-1)] // exclude shuffle itself
	}

	switch name {
	case "circle":
		steps := defaultSteps(spec.Steps, DefaultCircleSteps)
		if steps < 1 {
			return nil, fmt.Errorf("%w: circle needs at least 1 step", domain.ErrInvalidConfig)
		}
		return Circle(spec.Center, spec.Size, steps), nil

	case "square":
		return Square(spec.Center, spec.Size), nil

	case "eight":
		steps := defaultSteps(spec.Steps, DefaultEightSteps)
		if steps < 2 {
			return nil, fmt.Errorf("%w: figure eight needs at least 2 steps", domain.ErrInvalidConfig)
		}
		return FigureEight(spec.Center, spec.Size, steps), nil

	case "lissajous":
		steps := defaultSteps(spec.Steps, DefaultLissajousSteps)
		if steps < 1 {
			return nil, fmt.Errorf("%w: lissajous needs at least 1 step", domain.ErrInvalidConfig)
		}
		// The classic 800/600 amplitude pairing: ay is 3/4 of ax.
		return Lissajous(spec.Center, spec.Size, spec.Size*3/4, lissajousA, lissajousB, lissajousDelta, steps), nil

	case "spin":
		steps := defaultSteps(spec.Steps, DefaultSpinSteps)
		if steps < 1 {
			return nil, fmt.Errorf("%w: spin needs at least 1 step", domain.ErrInvalidConfig)
		}
		rng := rand.New(rand.NewSource(crazySeed))
		return SpinCrazy(spec.Center, spec.Size, steps, rng), nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPattern, spec.Name)
}

func defaultSteps(steps, fallback int) int {
	if steps == 0 {
		return fallback
	}
	return steps
}
