package sicd

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/holmesv3/nitf-viz/internal/nitftest"
)

func TestExtractAbsent(t *testing.T) {
	for _, payload := range [][]byte{nil, {}, []byte(" \n\t ")} {
		md, err := Extract(payload)
		if md != nil || err != nil {
			t.Errorf("Extract(%q) = %v, %v; want nil, nil", payload, md, err)
		}
	}
}

func TestExtract(t *testing.T) {
	fixture := nitftest.GroundPlaneSICD(100, 80)
	fixture.FirstRow, fixture.FirstCol = 10, 20
	fixture.SCPRow, fixture.SCPCol = 60, 55
	fixture.RowUVect = nitftest.Vec{0, 0, 2} // not normalised in the file
	fixture.RowSS, fixture.ColSS = 0.5, 0.75
	fixture.Twist = -1.5
	fixture.Corners = [][2]float64{{1, 2}, {1, 3}, {0, 3}, {0, 2}}

	md, err := Extract(fixture.XML())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := &Metadata{
		Version:       "1.2.1",
		CollectorName: "NITFTEST",
		CoreName:      "GROUNDPLANE",
		PixelType:     PixelTypeRE32F,
		NumRows:       100,
		NumCols:       80,
		FirstRow:      10,
		FirstCol:      20,
		SCPPixel:      Pixel{Row: 60, Col: 55},
		SCP:           r3.Vector{X: nitftest.EarthRadius},
		SCPLLH:        LLH{},
		RowUVect:      r3.Vector{Z: 1},
		ColUVect:      r3.Vector{Y: 1},
		RowSS:         0.5,
		ColSS:         0.75,
		ARP:           r3.Vector{X: nitftest.EarthRadius + 10000},
		HasARP:        true,
		GrazeAng:      90,
		TwistAng:      -1.5,
	}
	if diff := cmp.Diff(want, md, cmpopts.IgnoreFields(Metadata{}, "Footprint")); diff != "" {
		t.Errorf("Metadata mismatch (-want +got):\n%s", diff)
	}
	if len(md.Footprint) != 1 || len(md.Footprint[0]) != 5 || md.Footprint[0][1][0] != 3 {
		t.Errorf("Footprint = %v", md.Footprint)
	}
	if n := md.SlantNormal(); n.Sub(r3.Vector{X: -1}).Norm() > 1e-12 {
		t.Errorf("SlantNormal() = %v, want (-1,0,0)", n)
	}
}

func TestExtractDefaults(t *testing.T) {
	fixture := nitftest.GroundPlaneSICD(11, 7)
	fixture.Omit = []string{"SCPPixel"}
	fixture.SCPLLH = nil
	fixture.ARP = nil
	fixture.Version = "0.4.0"

	md, err := Extract(fixture.XML())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if md.SCPPixel != (Pixel{Row: 5, Col: 3}) {
		t.Errorf("SCPPixel = %+v, want image centre", md.SCPPixel)
	}
	if md.HasARP {
		t.Errorf("HasARP = true without ARPPos")
	}
	if math.Abs(md.SCPLLH.Lat) > 1e-9 || math.Abs(md.SCPLLH.Lon) > 1e-9 || math.Abs(md.SCPLLH.HAE) > 1e-6 {
		t.Errorf("SCPLLH derived from ECF = %+v, want origin", md.SCPLLH)
	}
	if md.Version != "0.4.0" {
		t.Errorf("Version = %q", md.Version)
	}
	if md.Footprint != nil {
		t.Errorf("Footprint = %v, want nil", md.Footprint)
	}
}

func TestExtractAmpTable(t *testing.T) {
	fixture := nitftest.GroundPlaneSICD(4, 4)
	fixture.PixelType = "AMP8I_PHS8I"
	fixture.AmpTable = make([]float64, AmpTableSize)
	for i := range fixture.AmpTable {
		fixture.AmpTable[i] = float64(i) * 2
	}
	md, err := Extract(fixture.XML())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if md.Amplitude(200) != 400 {
		t.Errorf("Amplitude(200) = %g, want 400", md.Amplitude(200))
	}
	if md.PixelType.BitsPerComponent() != 8 {
		t.Errorf("BitsPerComponent() = %d", md.PixelType.BitsPerComponent())
	}

	md.AmpTable = nil
	if md.Amplitude(200) != 200 {
		t.Errorf("Amplitude without table = %g, want 200", md.Amplitude(200))
	}
}

func TestExtractSCPFromLLH(t *testing.T) {
	fixture := nitftest.GroundPlaneSICD(10, 10)
	fixture.Omit = []string{"SCP/ECF"}
	fixture.SCPLLH = &[3]float64{34.5, -117.25, 812.3}

	md, err := Extract(fixture.XML())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := LLH{Lat: 34.5, Lon: -117.25, HAE: 812.3}
	if md.SCPLLH != want {
		t.Errorf("SCPLLH = %+v, want %+v", md.SCPLLH, want)
	}
	if d := md.SCP.Sub(GeodeticToECF(want)).Norm(); d > 1e-6 {
		t.Errorf("SCP = %v is %g m from the LLH position", md.SCP, d)
	}
	if got := ECFToGeodetic(md.SCP); math.Abs(got.Lat-34.5) > 1e-9 || math.Abs(got.HAE-812.3) > 1e-4 {
		t.Errorf("SCP converts back to %+v", got)
	}
}

func TestExtractErrors(t *testing.T) {
	base := func() nitftest.SICD { return nitftest.GroundPlaneSICD(10, 10) }
	tests := []struct {
		name  string
		xml   func() []byte
		field string
	}{
		{"malformed", func() []byte { return []byte("<SICD><ImageData>") }, ""},
		{"not xml", func() []byte { return []byte("hello") }, ""},
		{"wrong root", func() []byte { return []byte("<SIDD><ImageData/></SIDD>") }, ""},
		{"missing pixel type", func() []byte { s := base(); s.Omit = []string{"PixelType"}; return s.XML() }, "ImageData/PixelType"},
		{"unknown pixel type", func() []byte { s := base(); s.PixelType = "RE64F_IM64F"; return s.XML() }, "ImageData/PixelType"},
		{"missing rows", func() []byte { s := base(); s.Omit = []string{"NumRows"}; return s.XML() }, "ImageData/NumRows"},
		{"missing cols", func() []byte { s := base(); s.Omit = []string{"NumCols"}; return s.XML() }, "ImageData/NumCols"},
		{"zero rows", func() []byte { s := base(); s.NumRows = 0; return s.XML() }, "ImageData/NumRows"},
		{"missing SCP", func() []byte { s := base(); s.Omit = []string{"SCP/ECF"}; s.SCPLLH = nil; return s.XML() }, "GeoData/SCP/ECF"},
		{"SCP LLH out of range", func() []byte {
			s := base()
			s.Omit = []string{"SCP/ECF"}
			s.SCPLLH = &[3]float64{95, 0, 0}
			return s.XML()
		}, "GeoData/SCP/LLH"},
		{"SCP at origin", func() []byte { s := base(); s.SCP = nitftest.Vec{}; return s.XML() }, "GeoData/SCP/ECF"},
		{"missing row vector", func() []byte { s := base(); s.Omit = []string{"Row/UVectECF"}; return s.XML() }, "Grid/Row/UVectECF"},
		{"zero col vector", func() []byte { s := base(); s.ColUVect = nitftest.Vec{}; return s.XML() }, "Grid/Col/UVectECF"},
		{"collinear vectors", func() []byte { s := base(); s.ColUVect = nitftest.Vec{0, 0, -3}; return s.XML() }, "Grid/Col/UVectECF"},
		{"missing row spacing", func() []byte { s := base(); s.Omit = []string{"Row/SS"}; return s.XML() }, "Grid/Row/SS"},
		{"negative col spacing", func() []byte { s := base(); s.ColSS = -1; return s.XML() }, "Grid/Col/SS"},
		{"short amp table", func() []byte { s := base(); s.AmpTable = []float64{1, 2, 3}; return s.XML() }, "ImageData/AmpTable"},
		{"partial vector", func() []byte {
			return []byte(strings.Replace(string(base().XML()), "<UVectECF><X>0</X>", "<UVectECF>", 1))
		}, "Grid/Row/UVectECF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, err := Extract(tt.xml())
			if err == nil {
				t.Fatalf("Extract() = %+v, want error", md)
			}
			var me *MetadataError
			if !errors.As(err, &me) {
				t.Fatalf("error %T is not a *MetadataError", err)
			}
			if me.Field != tt.field {
				t.Errorf("Field = %q, want %q (%v)", me.Field, tt.field, err)
			}
		})
	}
}

func TestGeodeticRoundTrip(t *testing.T) {
	points := []LLH{
		{Lat: 0, Lon: 0, HAE: 0},
		{Lat: 34.5, Lon: -117.25, HAE: 812.3},
		{Lat: -71.2, Lon: 165.8, HAE: -40},
		{Lat: 89.9, Lon: 10, HAE: 2000},
	}
	for _, p := range points {
		got := ECFToGeodetic(GeodeticToECF(p))
		if math.Abs(got.Lat-p.Lat) > 1e-9 || math.Abs(got.Lon-p.Lon) > 1e-9 || math.Abs(got.HAE-p.HAE) > 1e-4 {
			t.Errorf("round trip of %+v = %+v", p, got)
		}
		n := GeodeticNormal(p)
		if math.Abs(n.Norm()-1) > 1e-12 {
			t.Errorf("GeodeticNormal(%+v) has length %g", p, n.Norm())
		}
	}

	pole := ECFToGeodetic(r3.Vector{Z: SemiMinorAxis + 10})
	if math.Abs(pole.Lat-90) > 1e-12 || math.Abs(pole.HAE-10) > 1e-6 {
		t.Errorf("north pole = %+v", pole)
	}
}

func BenchmarkExtract(b *testing.B) {
	payload := nitftest.GroundPlaneSICD(4096, 4096).XML()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Extract(payload); err != nil {
			b.Fatal(err)
		}
	}
}
