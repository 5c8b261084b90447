// Package render turns a parsed recipe into the display values and HTML
// fragment embedded in a host page.
package render

import (
	"path"
	"strings"
)

// Options selects units and the sections included in a fragment.
type Options struct {
	// Source is the document URL, used for the download link.
	Source string `json:"recipe,omitempty"`

	Metric       bool `json:"metric"`
	MetricHops   bool `json:"mhop"`
	Download     bool `json:"download"`
	Style        bool `json:"style"`
	Mash         bool `json:"mash"`
	Misc         bool `json:"misc"`
	Fermentation bool `json:"fermentation"`
}

// DefaultOptions shows US units with every section but fermentation.
func DefaultOptions() Options {
	return Options{
		Download: true,
		Style:    true,
		Mash:     true,
		Misc:     true,
	}
}

// Flags encodes the display choices compactly, e.g.
// "us.download.style.mash.misc", for use in cache keys.
func (o Options) Flags() string {
	parts := make([]string, 0, 7)
	if o.Metric {
		parts = append(parts, "metric")
	} else {
		parts = append(parts, "us")
	}
	flag := func(on bool, name string) {
		if on {
			parts = append(parts, name)
		}
	}
	flag(o.MetricHops, "mhop")
	flag(o.Download, "download")
	flag(o.Style, "style")
	flag(o.Mash, "mash")
	flag(o.Misc, "misc")
	flag(o.Fermentation, "fermentation")
	return strings.Join(parts, ".")
}

// FileName is the base name of a document URL without its extension,
// "bowie-brown" for ".../bowie-brown.xml".
func FileName(source string) string {
	p := source
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
