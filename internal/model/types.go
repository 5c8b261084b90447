// Package model defines request and job types shared by the HTTP layer and
// the cache warming queue.
package model

import (
	"time"

	"github.com/fairyhunter13/beerxml-recipe-service/internal/render"
)

// WarmRequest is the body of POST /recipes/warm. Omitted options fall back
// to the configured display defaults.
type WarmRequest struct {
	Recipe       string `json:"recipe"`
	Scope        string `json:"scope,omitempty"`
	Cache        *int   `json:"cache,omitempty"`
	Metric       *bool  `json:"metric,omitempty"`
	MetricHops   *bool  `json:"mhop,omitempty"`
	Download     *bool  `json:"download,omitempty"`
	Style        *bool  `json:"style,omitempty"`
	Mash         *bool  `json:"mash,omitempty"`
	Misc         *bool  `json:"misc,omitempty"`
	Fermentation *bool  `json:"fermentation,omitempty"`
}

// Apply overlays the options set in the request onto defaults.
func (w WarmRequest) Apply(defaults render.Options) render.Options {
	o := defaults
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&o.Metric, w.Metric)
	set(&o.MetricHops, w.MetricHops)
	set(&o.Download, w.Download)
	set(&o.Style, w.Style)
	set(&o.Mash, w.Mash)
	set(&o.Misc, w.Misc)
	set(&o.Fermentation, w.Fermentation)
	return o
}

// WarmJob is a queued request to pre-render a recipe into the cache.
type WarmJob struct {
	URL      string
	Scope    string
	TTL      time.Duration
	Options  render.Options
	Sequence uint64
}
