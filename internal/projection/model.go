// Package projection resamples slant-plane SAR rasters onto the ground plane.
//
// Complex SAR imagery is formed in the slant plane spanned by the row and
// column unit vectors of the SICD grid, which looks foreshortened compared
// with a map. Each ground-plane output cell is projected along the sensor
// line of sight onto the slant plane and filled from the nearest slant
// sample.
package projection

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/holmesv3/nitf-viz/internal/sicd"
)

// Tolerances for degenerate geometry.
const (
	minVectorNorm  = 1e-9
	minSinAngle    = 1e-6 // |u × v| of unit vectors
	minLOSIncident = 1e-6 // |l · n_g| of line of sight and ground normal

	// minLOSElevation is sin(1°): a line of sight closer than this to the
	// slant plane is replaced by the slant normal.
	minLOSElevation = 0.01745

	maxCondition = 1e8 // Gram matrix condition number
)

// ProjectionError reports sensor geometry that cannot define a projection.
type ProjectionError struct {
	Reason string
}

func (e *ProjectionError) Error() string {
	return "ground projection: " + e.Reason
}

func projectionError(format string, args ...any) *ProjectionError {
	return &ProjectionError{Reason: fmt.Sprintf(format, args...)}
}

// Model maps between ground-plane and slant-plane displacements from the
// scene centre point (SCP), in metres.
type Model struct {
	SCP r3.Vector

	RowUVect r3.Vector // slant row direction
	ColUVect r3.Vector // slant column direction
	Normal   r3.Vector // slant plane normal

	GroundNormal r3.Vector
	GroundRow    r3.Vector // slant row direction projected onto the ground plane
	GroundCol    r3.Vector // slant column direction projected onto the ground plane

	LOS r3.Vector // unit projection direction: towards the sensor, or the slant normal

	// Inverses of the Gram matrices [[u·u, u·v], [v·u, v·v]] of the slant
	// and ground bases.
	slantInv  *mat.Dense
	groundInv *mat.Dense
}

// NewModel builds the projection model for md.
func NewModel(md *sicd.Metadata) (*Model, error) {
	if md == nil {
		return nil, projectionError("no SICD metadata")
	}
	u, err := unit("row unit vector", md.RowUVect)
	if err != nil {
		return nil, err
	}
	v, err := unit("column unit vector", md.ColUVect)
	if err != nil {
		return nil, err
	}
	if u.Cross(v).Norm() < minSinAngle {
		return nil, projectionError("row and column unit vectors are collinear")
	}
	n := md.SlantNormal()

	ng := sicd.GeodeticNormal(md.SCPLLH)

	// A line of sight lying in the slant plane (as it does when the plane
	// is formed from the range vector) cannot carry points onto it; the
	// projection is then taken along the slant normal.
	los := n
	if md.HasARP {
		if los, err = unit("line of sight", md.ARP.Sub(md.SCP)); err != nil {
			return nil, err
		}
		if math.Abs(los.Dot(n)) < minLOSElevation {
			los = n
		}
	}
	if math.Abs(los.Dot(ng)) < minLOSIncident {
		return nil, projectionError("line of sight is parallel to the ground plane")
	}

	// Ground axes are the slant axes carried along the line of sight onto
	// the ground plane, scaled to unit length. They keep the skew of the
	// slant grid, so coincident planes map onto themselves.
	gRow, err := unit("ground row direction", alongLOS(u, los, ng))
	if err != nil {
		return nil, err
	}
	gCol, err := unit("ground column direction", alongLOS(v, los, ng))
	if err != nil {
		return nil, err
	}

	slantInv, err := gramInverse("slant", u, v)
	if err != nil {
		return nil, err
	}
	groundInv, err := gramInverse("ground", gRow, gCol)
	if err != nil {
		return nil, err
	}

	return &Model{
		SCP:          md.SCP,
		RowUVect:     u,
		ColUVect:     v,
		Normal:       n,
		GroundNormal: ng,
		GroundRow:    gRow,
		GroundCol:    gCol,
		LOS:          los,
		slantInv:     slantInv,
		groundInv:    groundInv,
	}, nil
}

// alongLOS moves p along l until it meets the plane through the origin
// with normal n.
func alongLOS(p, l, n r3.Vector) r3.Vector {
	return p.Sub(l.Mul(p.Dot(n) / l.Dot(n)))
}

// gramInverse inverts the Gram matrix of the basis (u, v).
func gramInverse(name string, u, v r3.Vector) (*mat.Dense, error) {
	gram := mat.NewDense(2, 2, []float64{
		u.Dot(u), u.Dot(v),
		v.Dot(u), v.Dot(v),
	})
	if c := mat.Cond(gram, 2); math.IsInf(c, 0) || c > maxCondition {
		return nil, projectionError("%s basis is ill-conditioned (condition number %g)", name, c)
	}
	var inv mat.Dense
	if err := inv.Inverse(gram); err != nil {
		return nil, projectionError("%s basis cannot be inverted: %v", name, err)
	}
	return &inv, nil
}

func unit(name string, v r3.Vector) (r3.Vector, error) {
	n := v.Norm()
	if n < minVectorNorm || math.IsNaN(n) || math.IsInf(n, 0) {
		return r3.Vector{}, projectionError("%s has zero length", name)
	}
	return v.Mul(1 / n), nil
}

// GroundToSlant maps a ground-plane displacement (along GroundRow and
// GroundCol, metres) to slant-plane coordinates (along RowUVect and
// ColUVect, metres) by projecting along the line of sight.
func (m *Model) GroundToSlant(gr, gc float64) (sr, sc float64) {
	d := m.GroundRow.Mul(gr).Add(m.GroundCol.Mul(gc))
	return solve(m.slantInv, alongLOS(d, m.LOS, m.Normal), m.RowUVect, m.ColUVect)
}

// SlantToGround is the inverse of GroundToSlant: it projects a slant-plane
// displacement along the line of sight onto the ground plane.
func (m *Model) SlantToGround(sr, sc float64) (gr, gc float64) {
	p := m.RowUVect.Mul(sr).Add(m.ColUVect.Mul(sc))
	return solve(m.groundInv, alongLOS(p, m.LOS, m.GroundNormal), m.GroundRow, m.GroundCol)
}

// solve finds a, b with d = a·u + b·v for d in the plane of u and v, given
// the inverse Gram matrix of the basis.
func solve(inv *mat.Dense, d, u, v r3.Vector) (a, b float64) {
	du, dv := d.Dot(u), d.Dot(v)
	a = inv.At(0, 0)*du + inv.At(0, 1)*dv
	b = inv.At(1, 0)*du + inv.At(1, 1)*dv
	return a, b
}
