package nitfviz

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
)

// sceneFootprint returns the ground outline of what f renders, in lon/lat.
//
// The SICD image corners are used when md has them. Otherwise a single
// segment's IGEOLO corners are returned as they are, and several segments
// give the bounding box of all their corners. Nil when no corners are known.
func sceneFootprint(f *File, md *Metadata) orb.Polygon {
	if md != nil && len(md.Footprint) > 0 {
		return md.Footprint
	}
	var found []orb.Polygon
	for _, seg := range f.Images {
		if len(seg.Footprint) > 0 {
			found = append(found, seg.Footprint)
		}
	}
	switch len(found) {
	case 0:
		return nil
	case 1:
		return found[0]
	}
	b := found[0].Bound()
	for _, fp := range found[1:] {
		b = b.Union(fp.Bound())
	}
	return b.ToPolygon()
}

// FootprintWKT formats a footprint as well-known text, "POLYGON EMPTY"
// when it is nil.
func FootprintWKT(p orb.Polygon) string {
	return wkt.MarshalString(p)
}
