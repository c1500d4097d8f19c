// Package noise generates the independent Gaussian perturbations the
// optimizer adds to its nominal control sequence each iteration (spec
// §4.2). Sampling is backed by gonum's distuv.Normal, one distribution per
// control axis, all drawing from one source seeded from the generator's
// seed so a given seed reproduces the same exploration noise across runs — the same
// seed-owns-the-stream idea as the teacher's experiment.Config.Seed.
package noise

import (
	"github.com/IhabMohamed/mppic/internal/mppi"
	"github.com/IhabMohamed/mppic/internal/tensor"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Generator produces (B, T, U) Gaussian samples with per-axis standard
// deviation from Settings.SamplingStd.
type Generator struct {
	seed        uint64
	dists       []distuv.Normal
	scratch     *tensor.Array3
	holonomic   bool
	controlDims int
}

// New creates a Generator seeded from seed. A zero seed still produces a
// deterministic (if unremarkable) stream, matching Go's usual rand
// semantics rather than falling back to wall-clock entropy.
func New(seed uint64) *Generator {
	return &Generator{seed: seed}
}

// Reset reallocates the scratch buffer if the (batch, time) shape or the
// holonomic layout changed, and rebuilds the per-axis distributions from
// the current sampling_std. Must be called before the first Generate and
// again any time Settings changes.
func (g *Generator) Reset(s mppi.Settings, holonomic bool) {
	controlDims := 2
	if holonomic {
		controlDims = 3
	}
	g.holonomic = holonomic
	g.controlDims = controlDims
	if g.scratch == nil {
		g.scratch = tensor.NewArray3(s.BatchSize, s.TimeSteps, controlDims)
	} else {
		g.scratch.ResizeIfNeeded(s.BatchSize, s.TimeSteps, controlDims)
	}

	rng := rand.New(rand.NewSource(g.seed))

	stds := []float64{s.SamplingStd.Vx, s.SamplingStd.Vy, s.SamplingStd.Wz}
	if !holonomic {
		stds = []float64{s.SamplingStd.Vx, s.SamplingStd.Wz}
	}
	g.dists = make([]distuv.Normal, controlDims)
	for i, std := range stds {
		g.dists[i] = distuv.Normal{Mu: 0, Sigma: std, Src: rng}
	}
}

// Generate fills and returns the internal (B, T, U) scratch buffer with
// fresh Gaussian samples. The returned array is only valid until the next
// call to Generate or Reset.
func (g *Generator) Generate() *tensor.Array3 {
	for b := 0; b < g.scratch.Batch; b++ {
		for t := 0; t < g.scratch.Time; t++ {
			cell := g.scratch.Cell(b, t)
			for u := 0; u < g.controlDims; u++ {
				cell[u] = g.dists[u].Rand()
			}
		}
	}
	return g.scratch
}
