package sicd

import "encoding/xml"

// Element layout of the SICD descriptor, limited to the fields Extract reads.
// Required scalar elements are pointers so absence can be told apart from zero.

type xmlSICD struct {
	XMLName        xml.Name
	CollectionInfo xmlCollectionInfo `xml:"CollectionInfo"`
	ImageData      xmlImageData      `xml:"ImageData"`
	GeoData        xmlGeoData        `xml:"GeoData"`
	Grid           xmlGrid           `xml:"Grid"`
	SCPCOA         xmlSCPCOA         `xml:"SCPCOA"`
}

type xmlCollectionInfo struct {
	CollectorName string `xml:"CollectorName"`
	CoreName      string `xml:"CoreName"`
}

type xmlImageData struct {
	PixelType *string      `xml:"PixelType"`
	AmpTable  *xmlAmpTable `xml:"AmpTable"`
	NumRows   *int         `xml:"NumRows"`
	NumCols   *int         `xml:"NumCols"`
	FirstRow  int          `xml:"FirstRow"`
	FirstCol  int          `xml:"FirstCol"`
	SCPPixel  *xmlRowCol   `xml:"SCPPixel"`
}

type xmlAmpTable struct {
	Size       int            `xml:"size,attr"`
	Amplitudes []xmlAmplitude `xml:"Amplitude"`
}

type xmlAmplitude struct {
	Index int     `xml:"index,attr"`
	Value float64 `xml:",chardata"`
}

type xmlRowCol struct {
	Row int `xml:"Row"`
	Col int `xml:"Col"`
}

type xmlGeoData struct {
	SCP struct {
		ECF *xmlXYZ `xml:"ECF"`
		LLH *xmlLLH `xml:"LLH"`
	} `xml:"SCP"`
	ImageCorners *struct {
		ICP []xmlLatLon `xml:"ICP"`
	} `xml:"ImageCorners"`
}

type xmlXYZ struct {
	X *float64 `xml:"X"`
	Y *float64 `xml:"Y"`
	Z *float64 `xml:"Z"`
}

type xmlLLH struct {
	Lat float64 `xml:"Lat"`
	Lon float64 `xml:"Lon"`
	HAE float64 `xml:"HAE"`
}

type xmlLatLon struct {
	Index string  `xml:"index,attr"`
	Lat   float64 `xml:"Lat"`
	Lon   float64 `xml:"Lon"`
}

type xmlGrid struct {
	Row xmlDirParam `xml:"Row"`
	Col xmlDirParam `xml:"Col"`
}

type xmlDirParam struct {
	UVectECF *xmlXYZ  `xml:"UVectECF"`
	SS       *float64 `xml:"SS"`
}

type xmlSCPCOA struct {
	ARPPos   *xmlXYZ `xml:"ARPPos"`
	GrazeAng float64 `xml:"GrazeAng"`
	TwistAng float64 `xml:"TwistAng"`
}
