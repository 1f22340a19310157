package parser

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
)

// parseFootprint decodes the four IGEOLO corner coordinates into a closed polygon.
//
// Corners are stored first row/first column, first row/last column, last
// row/last column, last row/first column, 15 characters each. Geographic
// ('G') corners are ddmmssXdddmmssY; decimal ('D') corners are
// ±dd.ddd±ddd.ddd. UTM and MGRS corners ('U', 'N', 'S') carry no geodetic
// datum conversion here and yield a nil footprint.
func parseFootprint(icords, igeolo string) (orb.Polygon, error) {
	if icords != "G" && icords != "D" {
		return nil, nil
	}
	if len(igeolo) != 60 {
		return nil, fmt.Errorf("expected 60 characters, got %d", len(igeolo))
	}

	ring := make(orb.Ring, 0, 5)
	for i := 0; i < 4; i++ {
		corner := igeolo[i*15 : (i+1)*15]
		var lat, lon float64
		var err error
		if icords == "G" {
			lat, err = parseDMS(corner[:7], 2, 'N', 'S')
			if err == nil {
				lon, err = parseDMS(corner[7:], 3, 'E', 'W')
			}
		} else {
			lat, err = strconv.ParseFloat(corner[:7], 64)
			if err == nil {
				lon, err = strconv.ParseFloat(corner[7:], 64)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("corner %d %q: %w", i+1, corner, err)
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("corner %d out of range: lat=%f lon=%f", i+1, lat, lon)
		}
		ring = append(ring, orb.Point{lon, lat})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}, nil
}

// parseDMS parses degrees (degWidth digits), minutes, seconds and a hemisphere letter.
func parseDMS(s string, degWidth int, pos, neg byte) (float64, error) {
	if len(s) != degWidth+5 {
		return 0, fmt.Errorf("bad DMS length %d", len(s))
	}
	deg, err := strconv.Atoi(s[:degWidth])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(s[degWidth : degWidth+2])
	if err != nil {
		return 0, err
	}
	sec, err := strconv.Atoi(s[degWidth+2 : degWidth+4])
	if err != nil {
		return 0, err
	}
	if minutes >= 60 || sec >= 60 {
		return 0, fmt.Errorf("minutes/seconds out of range in %q", s)
	}
	v := float64(deg) + float64(minutes)/60 + float64(sec)/3600
	switch s[degWidth+4] {
	case pos:
		return v, nil
	case neg:
		return -v, nil
	default:
		return 0, fmt.Errorf("bad hemisphere %q", s[degWidth+4])
	}
}
