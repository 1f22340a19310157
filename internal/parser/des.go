package parser

import (
	"bytes"
	"strconv"
)

// DESIDs whose data is an XML metadata document. SICD products use
// XML_DATA_CONTENT; files written before that DES was registered use SICD_XML.
var xmlExtensionIDs = map[string]bool{
	"XML_DATA_CONTENT": true,
	"SICD_XML":         true,
}

// parseExtensionSubheader decodes a data extension subheader.
//
// Reference: MIL-STD-2500C Table A-8.
func parseExtensionSubheader(sub []byte, base int) (*DataExtension, error) {
	r := newFieldReader(sub, base)
	ext := &DataExtension{}

	deAt := r.pos()
	de, err := r.str("DE", 2)
	if err != nil {
		return nil, err
	}
	if de != "DE" {
		return nil, r.invalid("DE", deAt, ErrInvalidField, "expected \"DE\", got "+strconv.Quote(de))
	}
	if ext.ID, err = r.str("DESID", 25); err != nil {
		return nil, err
	}
	if ext.Version, err = r.int("DESVER", 2); err != nil {
		return nil, err
	}
	if ext.Classification, err = r.readSecurity("DES"); err != nil {
		return nil, err
	}
	if ext.ID == "TRE_OVERFLOW" {
		if err := r.skip("DESOFLW", 6+3); err != nil { // DESOFLW, DESITEM
			return nil, err
		}
	}
	shl, err := r.int("DESSHL", 4)
	if err != nil {
		return nil, err
	}
	if ext.UserSubheader, err = r.bytes("DESSHF", shl); err != nil {
		return nil, err
	}
	if r.remaining() != 0 {
		return nil, r.invalid("LDSH", base, ErrLength,
			"subheader declares "+strconv.Itoa(len(sub))+" bytes but fields occupy "+strconv.Itoa(r.offset))
	}
	return ext, nil
}

// isXMLExtension reports whether a data extension carries an XML document.
func isXMLExtension(ext *DataExtension) bool {
	if !xmlExtensionIDs[ext.ID] {
		return false
	}
	body := bytes.TrimLeft(ext.Data, " \t\r\n\ufeff")
	return len(body) > 0 && body[0] == '<'
}
