package nitftest

import (
	"fmt"
	"math"
	"strings"
)

// Vec is an ECF vector in metres or a unit direction.
type Vec [3]float64

// SICD describes the fields of a SICD XML descriptor that fixtures vary.
type SICD struct {
	Version   string // namespace version, default 1.2.1
	PixelType string
	NumRows   int
	NumCols   int
	FirstRow  int
	FirstCol  int
	SCPRow    int
	SCPCol    int
	AmpTable  []float64

	SCP    Vec
	SCPLLH *[3]float64 // lat, lon (degrees), HAE (metres)
	ARP    *Vec

	RowUVect Vec
	ColUVect Vec
	RowSS    float64
	ColSS    float64

	Graze, Twist float64
	Corners      [][2]float64 // lat, lon

	CollectorName string
	CoreName      string

	// Omit lists element names (e.g. "Row/UVectECF", "PixelType") left out of
	// the document.
	Omit []string
}

// EarthRadius is the WGS-84 semi-major axis.
const EarthRadius = 6378137.0

// GroundPlaneSICD returns a descriptor whose slant plane coincides with the
// ground plane at (0°N, 0°E): rows run north and columns run east, with the
// sensor directly overhead. Slant and ground geometry are then identical.
func GroundPlaneSICD(rows, cols int) SICD {
	arp := Vec{EarthRadius + 10000, 0, 0}
	return SICD{
		PixelType:     "RE32F_IM32F",
		NumRows:       rows,
		NumCols:       cols,
		SCPRow:        rows / 2,
		SCPCol:        cols / 2,
		SCP:           Vec{EarthRadius, 0, 0},
		SCPLLH:        &[3]float64{0, 0, 0},
		ARP:           &arp,
		RowUVect:      Vec{0, 0, 1},
		ColUVect:      Vec{0, 1, 0},
		RowSS:         1,
		ColSS:         1,
		Graze:         90,
		CollectorName: "NITFTEST",
		CoreName:      "GROUNDPLANE",
	}
}

// TiltedSICD returns a descriptor for a side-looking collection: the slant
// plane is the ground plane rotated about the row (north) axis by
// 90° − graze, and the sensor sits along the slant normal.
func TiltedSICD(rows, cols int, grazeDeg float64) SICD {
	s := GroundPlaneSICD(rows, cols)
	tilt := (90 - grazeDeg) * math.Pi / 180
	// Column direction tilts from east towards up.
	s.ColUVect = Vec{math.Sin(tilt), math.Cos(tilt), 0}
	// Slant normal is row × col; the sensor looks down it from above.
	n := cross(s.RowUVect, s.ColUVect)
	arp := Vec{s.SCP[0] - 10000*n[0], s.SCP[1] - 10000*n[1], s.SCP[2] - 10000*n[2]}
	s.ARP = &arp
	s.Graze = grazeDeg
	s.CoreName = "TILTED"
	return s
}

func cross(a, b Vec) Vec {
	return Vec{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (s SICD) omitted(name string) bool {
	for _, o := range s.Omit {
		if o == name {
			return true
		}
	}
	return false
}

// XML renders the descriptor.
func (s SICD) XML() []byte {
	version := s.Version
	if version == "" {
		version = "1.2.1"
	}
	var b strings.Builder
	el := func(name, format string, args ...any) {
		if s.omitted(name) {
			return
		}
		fmt.Fprintf(&b, format, args...)
	}
	xyz := func(tag string, v Vec) string {
		return fmt.Sprintf("<%s><X>%g</X><Y>%g</Y><Z>%g</Z></%s>", tag, v[0], v[1], v[2], tag)
	}

	fmt.Fprintf(&b, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<SICD xmlns=\"urn:SICD:%s\">\n", version)

	b.WriteString("<CollectionInfo>")
	el("CollectorName", "<CollectorName>%s</CollectorName>", s.CollectorName)
	el("CoreName", "<CoreName>%s</CoreName>", s.CoreName)
	b.WriteString("<Classification>UNCLASSIFIED</Classification></CollectionInfo>\n")

	b.WriteString("<ImageData>")
	el("PixelType", "<PixelType>%s</PixelType>", s.PixelType)
	if len(s.AmpTable) > 0 {
		fmt.Fprintf(&b, "<AmpTable size=\"%d\">", len(s.AmpTable))
		for i, a := range s.AmpTable {
			fmt.Fprintf(&b, "<Amplitude index=\"%d\">%g</Amplitude>", i, a)
		}
		b.WriteString("</AmpTable>")
	}
	el("NumRows", "<NumRows>%d</NumRows>", s.NumRows)
	el("NumCols", "<NumCols>%d</NumCols>", s.NumCols)
	fmt.Fprintf(&b, "<FirstRow>%d</FirstRow><FirstCol>%d</FirstCol>", s.FirstRow, s.FirstCol)
	fmt.Fprintf(&b, "<FullImage><NumRows>%d</NumRows><NumCols>%d</NumCols></FullImage>", s.NumRows, s.NumCols)
	el("SCPPixel", "<SCPPixel><Row>%d</Row><Col>%d</Col></SCPPixel>", s.SCPRow, s.SCPCol)
	b.WriteString("</ImageData>\n")

	b.WriteString("<GeoData><EarthModel>WGS_84</EarthModel><SCP>")
	el("SCP/ECF", "%s", xyz("ECF", s.SCP))
	if s.SCPLLH != nil {
		fmt.Fprintf(&b, "<LLH><Lat>%g</Lat><Lon>%g</Lon><HAE>%g</HAE></LLH>", s.SCPLLH[0], s.SCPLLH[1], s.SCPLLH[2])
	}
	b.WriteString("</SCP>")
	if len(s.Corners) > 0 {
		b.WriteString("<ImageCorners>")
		labels := []string{"1:FRFC", "2:FRLC", "3:LRLC", "4:LRFC"}
		for i, c := range s.Corners {
			fmt.Fprintf(&b, "<ICP index=\"%s\"><Lat>%g</Lat><Lon>%g</Lon></ICP>", labels[i%4], c[0], c[1])
		}
		b.WriteString("</ImageCorners>")
	}
	b.WriteString("</GeoData>\n")

	b.WriteString("<Grid><ImagePlane>SLANT</ImagePlane><Type>RGAZIM</Type><Row>")
	el("Row/UVectECF", "%s", xyz("UVectECF", s.RowUVect))
	el("Row/SS", "<SS>%g</SS>", s.RowSS)
	b.WriteString("<ImpRespWid>1</ImpRespWid><Sgn>-1</Sgn></Row><Col>")
	el("Col/UVectECF", "%s", xyz("UVectECF", s.ColUVect))
	el("Col/SS", "<SS>%g</SS>", s.ColSS)
	b.WriteString("<ImpRespWid>1</ImpRespWid><Sgn>-1</Sgn></Col></Grid>\n")

	b.WriteString("<SCPCOA>")
	if s.ARP != nil {
		b.WriteString(xyz("ARPPos", *s.ARP))
	}
	fmt.Fprintf(&b, "<GrazeAng>%g</GrazeAng><TwistAng>%g</TwistAng>", s.Graze, s.Twist)
	b.WriteString("</SCPCOA>\n</SICD>\n")
	return []byte(b.String())
}

// MetadataDES wraps a descriptor in an XML_DATA_CONTENT data extension.
func (s SICD) MetadataDES() DES {
	return DES{ID: "XML_DATA_CONTENT", UserSub: nil, Data: s.XML()}
}
