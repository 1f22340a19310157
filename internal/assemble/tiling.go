package assemble

import (
	"image"

	"github.com/dhconnelly/rtreego"

	"github.com/holmesv3/nitf-viz/internal/parser"
)

// tile is one segment placed in the assembled grid.
type tile struct {
	seg  *parser.ImageSegment
	rect image.Rectangle // X = column, Y = row, origin at the minimum location
}

// Bounds method for rtreego.Spatial interface.
func (t *tile) Bounds() rtreego.Rect {
	point := rtreego.Point{float64(t.rect.Min.X), float64(t.rect.Min.Y)}
	lengths := []float64{float64(t.rect.Dx()), float64(t.rect.Dy())}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// layout places segments relative to their minimum location and checks that
// they tile a rows × cols grid exactly.
//
// Every tile must lie inside the grid and no two tiles may share a pixel;
// with both holding, the tiles cover the grid exactly when their areas sum
// to its area. Overlap candidates come from an R-tree query, and touching
// edges, which the query also reports, are told apart by the intersection
// area.
func layout(segments []*parser.ImageSegment, rows, cols int) ([]*tile, error) {
	minRow, minCol := segments[0].Location.Row, segments[0].Location.Col
	for _, seg := range segments[1:] {
		minRow = min(minRow, seg.Location.Row)
		minCol = min(minCol, seg.Location.Col)
	}

	extent := image.Rect(0, 0, cols, rows)
	tree := rtreego.NewTree(2, 25, 50)
	tiles := make([]*tile, len(segments))
	var area int64
	for i, seg := range segments {
		origin := image.Pt(seg.Location.Col-minCol, seg.Location.Row-minRow)
		t := &tile{seg: seg, rect: image.Rectangle{Min: origin, Max: origin.Add(image.Pt(seg.Cols, seg.Rows))}}
		if !t.rect.In(extent) {
			return nil, assemblyError("image segment %d at rows %d-%d, cols %d-%d lies outside the %dx%d image",
				seg.Index, t.rect.Min.Y, t.rect.Max.Y-1, t.rect.Min.X, t.rect.Max.X-1, rows, cols)
		}
		tiles[i] = t
		tree.Insert(t)
		area += int64(seg.Rows) * int64(seg.Cols)
	}

	for _, t := range tiles {
		for _, hit := range tree.SearchIntersect(t.Bounds()) {
			other := hit.(*tile)
			if other == t {
				continue
			}
			if overlap := t.rect.Intersect(other.rect); !overlap.Empty() {
				return nil, assemblyError("image segments %d and %d overlap by %dx%d pixels",
					t.seg.Index, other.seg.Index, overlap.Dy(), overlap.Dx())
			}
		}
	}

	if want := int64(rows) * int64(cols); area != want {
		return nil, assemblyError("segments cover %d of %d pixels", area, want)
	}
	return tiles, nil
}
