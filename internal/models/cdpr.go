// Package models provides the mechanical systems used as integration
// payloads: cable-suspended platforms and reference oscillators.
package models

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"cablesim/internal/algebra"
	"cablesim/internal/dynamo"
)

// PointMassCDPR is a cable-driven platform reduced to a point mass: M
// winches at fixed world anchors pull the platform through elastic cables.
// Cables only pull; a slack cable exerts no force. The system is
// conservative, so the energy is available for drift metrics.
type PointMassCDPR struct {
	Anchors     *mat.Dense // 3×M winch positions, world frame
	RestLengths []float64  // unstretched cable lengths
	Stiffness   float64    // spring constant per cable
	PlatformM   float64    // platform mass
	Gravity     float64
}

// NewPointMassCDPR builds the default four-cable suspension: anchors on the
// corners of a 2×2 m square at 2 m height, 1 m rest lengths.
func NewPointMassCDPR() *PointMassCDPR {
	anchors := mat.NewDense(3, 4, []float64{
		-1, 1, 1, -1,
		-1, -1, 1, 1,
		2, 2, 2, 2,
	})
	return &PointMassCDPR{
		Anchors:     anchors,
		RestLengths: []float64{1, 1, 1, 1},
		Stiffness:   100.0,
		PlatformM:   5.0,
		Gravity:     9.81,
	}
}

func (c *PointMassCDPR) Dim() int { return 3 }

func (c *PointMassCDPR) Mass() *dynamo.Mass { return dynamo.ScalarMass(c.PlatformM) }

// Force returns the net cable and gravity force on the platform at position
// x. Velocities do not enter: the model is undamped.
func (c *PointMassCDPR) Force(t float64, x, v dynamo.State) dynamo.State {
	_, m := c.Anchors.Dims()

	// Cable vectors from the platform to each anchor, as columns.
	cables := mat.NewDense(3, m, nil)
	lengths := make([]float64, m)
	for i := 0; i < m; i++ {
		for k := 0; k < 3; k++ {
			cables.Set(k, i, c.Anchors.At(k, i)-x[k])
		}
		lengths[i] = math.Hypot(math.Hypot(cables.At(0, i), cables.At(1, i)), cables.At(2, i))
	}

	unit := algebra.NormalizeColumns(cables)

	f := dynamo.State{0, 0, -c.PlatformM * c.Gravity}
	for i := 0; i < m; i++ {
		stretch := lengths[i] - c.RestLengths[i]
		if stretch <= 0 {
			continue
		}
		tension := c.Stiffness * stretch
		for k := 0; k < 3; k++ {
			f[k] += tension * unit.At(k, i)
		}
	}
	return f
}

// Energy is the total mechanical energy: kinetic, gravitational and the
// elastic energy of every taut cable.
func (c *PointMassCDPR) Energy(x, v dynamo.State) float64 {
	_, m := c.Anchors.Dims()

	ke := 0.0
	for _, vi := range v {
		ke += vi * vi
	}
	ke *= 0.5 * c.PlatformM

	pe := c.PlatformM * c.Gravity * x[2]

	for i := 0; i < m; i++ {
		dx := c.Anchors.At(0, i) - x[0]
		dy := c.Anchors.At(1, i) - x[1]
		dz := c.Anchors.At(2, i) - x[2]
		stretch := math.Sqrt(dx*dx+dy*dy+dz*dz) - c.RestLengths[i]
		if stretch > 0 {
			pe += 0.5 * c.Stiffness * stretch * stretch
		}
	}

	return ke + pe
}
