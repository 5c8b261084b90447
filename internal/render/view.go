package render

import (
	"strings"

	"github.com/fairyhunter13/beerxml-recipe-service/internal/beerxml"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/units"
)

// View holds every display value of a recipe card. Optional sections are
// nil or empty when disabled by Options or absent from the recipe.
type View struct {
	Details      Details           `json:"details"`
	Style        *StyleView        `json:"style,omitempty"`
	Fermentables []FermentableLine `json:"fermentables"`
	Hops         []HopLine         `json:"hops,omitempty"`
	Miscs        []MiscLine        `json:"miscs,omitempty"`
	Yeasts       []YeastLine       `json:"yeasts,omitempty"`
	Mash         *MashView         `json:"mash,omitempty"`
	Fermentation []StageLine       `json:"fermentation,omitempty"`
	Notes        []string          `json:"notes,omitempty"`
	Download     *Download         `json:"download,omitempty"`
}

type Details struct {
	Style      string         `json:"style"`
	BatchSize  units.Quantity `json:"batch_size"`
	Type       string         `json:"type"`
	IBU        float64        `json:"ibu"`
	SRM        float64        `json:"srm"`
	OG         string         `json:"og"`
	FG         string         `json:"fg"`
	ABV        string         `json:"abv"`
	Efficiency float64        `json:"efficiency"`
	BoilTime   units.Quantity `json:"boil_time"`
}

type StyleView struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	OG       string `json:"og_range"`
	FG       string `json:"fg_range"`
	IBU      string `json:"ibu_range"`
	SRM      string `json:"srm_range"`
	Carb     string `json:"carb_range"`
	ABV      string `json:"abv_range"`
}

type FermentableLine struct {
	Name   string         `json:"name"`
	Amount units.Quantity `json:"amount"`
	// Percentage is nil when the bill weighs nothing.
	Percentage *float64 `json:"percentage,omitempty"`
}

type HopLine struct {
	Name   string         `json:"name"`
	Amount units.Quantity `json:"amount"`
	Alpha  float64        `json:"alpha"`
	Use    string         `json:"use"`
	Time   units.Quantity `json:"time"`
}

type MiscLine struct {
	Name   string         `json:"name"`
	Amount string         `json:"amount"`
	Type   string         `json:"type"`
	Use    string         `json:"use"`
	Time   units.Quantity `json:"time"`
}

type YeastLine struct {
	Name       string `json:"name"`
	ProductID  string `json:"product_id,omitempty"`
	Laboratory string `json:"laboratory"`
}

type MashView struct {
	PH    float64        `json:"ph"`
	Steps []MashStepLine `json:"steps"`
}

type MashStepLine struct {
	Name     string         `json:"name"`
	StepTemp units.Quantity `json:"step_temp"`
	StepTime units.Quantity `json:"step_time"`
	Volume   units.Quantity `json:"volume"`
	// InfuseTemp is nil when the document carries no readable value.
	InfuseTemp *units.Quantity `json:"infuse_temp,omitempty"`
}

type StageLine struct {
	Name string         `json:"name"`
	Time units.Quantity `json:"time"`
	Temp units.Quantity `json:"temp"`
}

type Download struct {
	Href     string `json:"href"`
	FileName string `json:"file_name"`
}

// BuildView computes the display values of r under opts.
func BuildView(r *beerxml.Recipe, opts Options) View {
	v := View{
		Details:      details(r, opts),
		Fermentables: fermentables(r.Fermentables, opts.Metric),
	}
	if opts.Style && r.Style != nil {
		v.Style = style(r.Style)
	}
	for _, h := range r.Hops {
		v.Hops = append(v.Hops, hop(h, opts.Metric || opts.MetricHops))
	}
	if opts.Misc {
		for _, m := range r.Miscs {
			v.Miscs = append(v.Miscs, misc(m, opts.Metric))
		}
	}
	for _, y := range r.Yeasts {
		v.Yeasts = append(v.Yeasts, YeastLine{Name: y.Name, ProductID: y.ProductID, Laboratory: y.Laboratory})
	}
	if opts.Mash && len(r.Mash.Steps) > 0 {
		v.Mash = mash(r.Mash, opts.Metric)
	}
	if opts.Fermentation {
		for _, st := range beerxml.FermentationStages(*r) {
			v.Fermentation = append(v.Fermentation, StageLine{
				Name: st.Name,
				Time: units.Quantity{Value: units.Round(st.Age, 0), Unit: units.Days},
				Temp: units.Temperature(st.Temp, units.ScaleCelsius, opts.Metric),
			})
		}
	}
	if r.Notes != "" {
		v.Notes = strings.Split(strings.ReplaceAll(r.Notes, "\r\n", "\n"), "\n")
	}
	if opts.Download && opts.Source != "" {
		v.Download = &Download{Href: opts.Source, FileName: FileName(opts.Source)}
	}
	return v
}

func details(r *beerxml.Recipe, opts Options) Details {
	d := Details{
		BatchSize:  units.Volume(r.BatchSize.Float(), opts.Metric, 1),
		Type:       r.Type,
		IBU:        r.IBU.Float(),
		SRM:        units.Round(r.EstColor.Float(), 1),
		OG:         beerxml.FirstToken(r.EstOG),
		FG:         beerxml.FirstToken(r.EstFG),
		ABV:        r.EstABV,
		Efficiency: units.Round(r.Efficiency.Float(), 1),
		BoilTime:   units.Quantity{Value: units.Round(r.BoilTime.Float(), 0), Unit: units.Minute},
	}
	if r.Style != nil {
		d.Style = r.Style.Name
	}
	return d
}

func style(s *beerxml.Style) *StyleView {
	return &StyleView{
		Name:     s.Name,
		Category: strings.TrimSpace(s.CategoryNumber + " " + s.StyleLetter),
		OG:       span(s.OGMin, s.OGMax, 3),
		FG:       span(s.FGMin, s.FGMax, 3),
		IBU:      span(s.IBUMin, s.IBUMax, 1),
		SRM:      span(s.ColorMin, s.ColorMax, 1),
		Carb:     span(s.CarbMin, s.CarbMax, 1),
		ABV:      span(s.ABVMin, s.ABVMax, 1),
	}
}

func span(lo, hi beerxml.Number, places int32) string {
	return units.FormatNumber(units.Round(lo.Float(), places)) + " - " +
		units.FormatNumber(units.Round(hi.Float(), places))
}

func fermentables(fs []beerxml.Fermentable, metric bool) []FermentableLine {
	total := beerxml.TotalWeight(fs)
	out := make([]FermentableLine, 0, len(fs))
	for _, f := range fs {
		line := FermentableLine{
			Name:   f.Name,
			Amount: units.FermentableWeights.Convert(f.Amount.Float(), metric),
		}
		if pct, err := beerxml.PercentageOfTotal(f, total); err == nil {
			pct = units.Round(pct, 1)
			line.Percentage = &pct
		}
		out = append(out, line)
	}
	return out
}

func hop(h beerxml.Hop, metric bool) HopLine {
	return HopLine{
		Name:   h.Name,
		Amount: units.HopWeights.Convert(h.Amount.Float(), metric),
		Alpha:  units.Round(h.Alpha.Float(), 1),
		Use:    h.Use,
		Time:   units.Time(h.Time.Float()),
	}
}

func misc(m beerxml.Misc, metric bool) MiscLine {
	amount := m.DisplayAmount
	if amount == "" {
		amount = units.MiscAmount(m.Amount.Float(), metric).String()
	}
	return MiscLine{
		Name:   m.Name,
		Amount: amount,
		Type:   m.Type,
		Use:    m.Use,
		Time:   units.Time(m.Time.Float()),
	}
}

func mash(m beerxml.Mash, metric bool) *MashView {
	mv := &MashView{PH: units.Round(m.PH.Float(), 1)}
	volumeDigits := int32(2)
	if metric {
		volumeDigits = 1
	}
	for _, st := range m.Steps {
		line := MashStepLine{
			Name:     st.Name,
			StepTemp: units.Temperature(st.StepTemp.Float(), units.ScaleCelsius, metric),
			StepTime: units.Quantity{Value: units.Round(st.StepTime.Float(), 0), Unit: units.Minute},
			Volume:   units.Volume(st.InfuseAmount.Float(), metric, volumeDigits),
		}
		if t, scale, ok := units.ParseTemperature(st.InfuseTemp); ok {
			q := units.Temperature(t, scale, metric)
			line.InfuseTemp = &q
		}
		mv.Steps = append(mv.Steps, line)
	}
	return mv
}
