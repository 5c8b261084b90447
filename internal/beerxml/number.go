package beerxml

import (
	"encoding/xml"
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)

// Number is a leniently decoded numeric element. Only the leading numeric
// token of the text is used, so "13.6 SRM" decodes to 13.6. Empty or
// non-numeric text decodes to zero.
type Number float64

// Float returns n as a float64.
func (n Number) Float() float64 { return float64(n) }

// UnmarshalXML implements xml.Unmarshaler.
func (n *Number) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	*n = Number(ParseNumber(s))
	return nil
}

// ParseNumber returns the leading numeric value of s, or zero.
func ParseNumber(s string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// FirstToken returns the first whitespace separated token of a display
// field, dropping trailing units such as "SG".
func FirstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
