package sicd

import (
	"bytes"
	"encoding/xml"
	"math"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/paulmach/orb"
)

// collinearityTolerance is the smallest |u × v| accepted for the normalised
// row and column unit vectors.
const collinearityTolerance = 1e-6

// Extract decodes a SICD descriptor.
//
// An absent payload (nil or empty) yields (nil, nil): the file simply has no
// complex metadata. A payload that is present but unusable yields a
// *MetadataError.
func Extract(payload []byte) (*Metadata, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, nil
	}
	payload = bytes.TrimPrefix(payload, []byte("\ufeff"))

	var doc xmlSICD
	dec := xml.NewDecoder(bytes.NewReader(payload))
	if err := dec.Decode(&doc); err != nil {
		return nil, &MetadataError{Reason: "malformed XML", Err: err}
	}
	if doc.XMLName.Local != "SICD" {
		return nil, invalid("", "root element is %q, not SICD", doc.XMLName.Local)
	}

	md := &Metadata{
		Version:       strings.TrimPrefix(doc.XMLName.Space, "urn:SICD:"),
		CollectorName: strings.TrimSpace(doc.CollectionInfo.CollectorName),
		CoreName:      strings.TrimSpace(doc.CollectionInfo.CoreName),
		GrazeAng:      doc.SCPCOA.GrazeAng,
		TwistAng:      doc.SCPCOA.TwistAng,
	}
	if md.Version == doc.XMLName.Space {
		md.Version = ""
	}

	if err := decodeImageData(&doc.ImageData, md); err != nil {
		return nil, err
	}
	if err := decodeGeoData(&doc.GeoData, md); err != nil {
		return nil, err
	}
	if err := decodeGrid(&doc.Grid, md); err != nil {
		return nil, err
	}
	if arp := doc.SCPCOA.ARPPos; arp != nil {
		v, err := vector("SCPCOA/ARPPos", arp)
		if err != nil {
			return nil, err
		}
		md.ARP, md.HasARP = v, true
	}
	return md, nil
}

func decodeImageData(x *xmlImageData, md *Metadata) error {
	if x.PixelType == nil {
		return missing("ImageData/PixelType")
	}
	md.PixelType = PixelType(strings.TrimSpace(*x.PixelType))
	if !md.PixelType.Valid() {
		return invalid("ImageData/PixelType", "unknown pixel type %q", md.PixelType)
	}

	if x.NumRows == nil {
		return missing("ImageData/NumRows")
	}
	if x.NumCols == nil {
		return missing("ImageData/NumCols")
	}
	md.NumRows, md.NumCols = *x.NumRows, *x.NumCols
	if md.NumRows <= 0 || md.NumCols <= 0 {
		return invalid("ImageData/NumRows", "image extent %dx%d is empty", md.NumRows, md.NumCols)
	}
	md.FirstRow, md.FirstCol = x.FirstRow, x.FirstCol

	if x.SCPPixel != nil {
		md.SCPPixel = Pixel{Row: x.SCPPixel.Row, Col: x.SCPPixel.Col}
	} else {
		md.SCPPixel = Pixel{Row: md.FirstRow + md.NumRows/2, Col: md.FirstCol + md.NumCols/2}
	}

	if x.AmpTable != nil {
		if len(x.AmpTable.Amplitudes) != AmpTableSize {
			return invalid("ImageData/AmpTable", "%d entries, want %d", len(x.AmpTable.Amplitudes), AmpTableSize)
		}
		md.AmpTable = make([]float64, AmpTableSize)
		seen := make([]bool, AmpTableSize)
		for _, a := range x.AmpTable.Amplitudes {
			if a.Index < 0 || a.Index >= AmpTableSize || seen[a.Index] {
				return invalid("ImageData/AmpTable", "bad or repeated index %d", a.Index)
			}
			if math.IsNaN(a.Value) || math.IsInf(a.Value, 0) {
				return invalid("ImageData/AmpTable", "non-finite amplitude at index %d", a.Index)
			}
			seen[a.Index] = true
			md.AmpTable[a.Index] = a.Value
		}
	}
	return nil
}

func decodeGeoData(x *xmlGeoData, md *Metadata) error {
	// ECF is authoritative; a descriptor carrying only LLH gets its ECF
	// position from the ellipsoid.
	switch {
	case x.SCP.ECF != nil:
		scp, err := vector("GeoData/SCP/ECF", x.SCP.ECF)
		if err != nil {
			return err
		}
		md.SCP = scp
		if x.SCP.LLH != nil {
			md.SCPLLH = LLH{Lat: x.SCP.LLH.Lat, Lon: x.SCP.LLH.Lon, HAE: x.SCP.LLH.HAE}
		} else {
			md.SCPLLH = ECFToGeodetic(scp)
		}
	case x.SCP.LLH != nil:
		llh := LLH{Lat: x.SCP.LLH.Lat, Lon: x.SCP.LLH.Lon, HAE: x.SCP.LLH.HAE}
		if !(math.Abs(llh.Lat) <= 90) || !(math.Abs(llh.Lon) <= 360) || math.IsNaN(llh.HAE) || math.IsInf(llh.HAE, 0) {
			return invalid("GeoData/SCP/LLH", "position %+v is out of range", llh)
		}
		md.SCP, md.SCPLLH = GeodeticToECF(llh), llh
	default:
		return missing("GeoData/SCP/ECF")
	}
	if md.SCP.Norm() == 0 {
		return invalid("GeoData/SCP/ECF", "scene centre point is at the Earth's centre")
	}

	if x.ImageCorners != nil && len(x.ImageCorners.ICP) == 4 {
		ring := make(orb.Ring, 0, 5)
		for _, c := range x.ImageCorners.ICP {
			ring = append(ring, orb.Point{c.Lon, c.Lat})
		}
		ring = append(ring, ring[0])
		md.Footprint = orb.Polygon{ring}
	}
	return nil
}

func decodeGrid(x *xmlGrid, md *Metadata) error {
	var err error
	if md.RowUVect, md.RowSS, err = dirParam("Grid/Row", &x.Row); err != nil {
		return err
	}
	if md.ColUVect, md.ColSS, err = dirParam("Grid/Col", &x.Col); err != nil {
		return err
	}
	if md.RowUVect.Cross(md.ColUVect).Norm() <= collinearityTolerance {
		return invalid("Grid/Col/UVectECF", "row and column unit vectors are collinear")
	}
	return nil
}

// dirParam decodes a Grid/Row or Grid/Col block into a normalised unit
// vector and a positive sample spacing.
func dirParam(path string, x *xmlDirParam) (r3.Vector, float64, error) {
	if x.UVectECF == nil {
		return r3.Vector{}, 0, missing(path + "/UVectECF")
	}
	u, err := vector(path+"/UVectECF", x.UVectECF)
	if err != nil {
		return r3.Vector{}, 0, err
	}
	n := u.Norm()
	if n < 1e-12 {
		return r3.Vector{}, 0, invalid(path+"/UVectECF", "zero-length unit vector")
	}
	if x.SS == nil {
		return r3.Vector{}, 0, missing(path + "/SS")
	}
	ss := *x.SS
	if !(ss > 0) || math.IsInf(ss, 0) {
		return r3.Vector{}, 0, invalid(path+"/SS", "sample spacing %g is not positive", ss)
	}
	return u.Mul(1 / n), ss, nil
}

// vector converts an X/Y/Z element, requiring all three finite components.
func vector(path string, x *xmlXYZ) (r3.Vector, error) {
	if x.X == nil || x.Y == nil || x.Z == nil {
		return r3.Vector{}, invalid(path, "X, Y and Z are all required")
	}
	v := r3.Vector{X: *x.X, Y: *x.Y, Z: *x.Z}
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return r3.Vector{}, invalid(path, "non-finite component")
		}
	}
	return v, nil
}
