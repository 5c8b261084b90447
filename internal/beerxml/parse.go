package beerxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

const recipeElement = "RECIPE"

// Parse decodes the first recipe of a BeerXML document. The RECIPE element
// may be the document root or sit under a RECIPES container.
func Parse(doc []byte) (*Recipe, error) {
	return ParseReader(bytes.NewReader(doc))
}

// ParseReader is Parse over a stream.
func ParseReader(r io.Reader) (*Recipe, error) {
	recipes, err := decode(r, 1)
	if err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// ParseAll decodes every recipe of a document in document order.
func ParseAll(doc []byte) ([]Recipe, error) {
	return decode(bytes.NewReader(doc), 0)
}

// decode walks the whole token stream so that a malformed tail still fails
// the document. At most limit recipes are decoded; zero means all.
func decode(r io.Reader, limit int) ([]Recipe, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel

	var out []Recipe
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Offset: d.InputOffset(), Err: err}
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != recipeElement {
			continue
		}
		if limit > 0 && len(out) >= limit {
			if err := d.Skip(); err != nil {
				return nil, &ParseError{Offset: d.InputOffset(), Err: err}
			}
			continue
		}
		var rec Recipe
		if err := d.DecodeElement(&rec, &se); err != nil {
			return nil, &ParseError{Offset: d.InputOffset(), Err: err}
		}
		rec.normalize()
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil, &ParseError{Err: ErrNoRecipe}
	}
	return out, nil
}

// normalize trims text fields and clamps negative amounts to zero.
func (r *Recipe) normalize() {
	trim(&r.Name, &r.Type, &r.Brewer, &r.EstOG, &r.EstFG, &r.EstABV)
	r.Notes = strings.TrimSpace(r.Notes)
	r.TasteNotes = strings.TrimSpace(r.TasteNotes)
	clamp(&r.BatchSize, &r.BoilSize, &r.BoilTime, &r.FermentationStages)
	clamp(&r.PrimaryAge, &r.SecondaryAge, &r.TertiaryAge)

	if r.Style != nil {
		s := r.Style
		trim(&s.Name, &s.Category, &s.CategoryNumber, &s.StyleLetter, &s.StyleGuide)
	}
	for i := range r.Fermentables {
		f := &r.Fermentables[i]
		trim(&f.Name, &f.Type)
		clamp(&f.Amount)
	}
	for i := range r.Hops {
		h := &r.Hops[i]
		trim(&h.Name, &h.Use, &h.Form)
		clamp(&h.Amount, &h.Alpha, &h.Time)
	}
	for i := range r.Miscs {
		m := &r.Miscs[i]
		trim(&m.Name, &m.Type, &m.Use, &m.DisplayAmount)
		clamp(&m.Amount, &m.Time)
	}
	for i := range r.Yeasts {
		y := &r.Yeasts[i]
		trim(&y.Name, &y.Type, &y.Form, &y.Laboratory, &y.ProductID)
	}
	trim(&r.Mash.Name)
	for i := range r.Mash.Steps {
		st := &r.Mash.Steps[i]
		trim(&st.Name, &st.Type, &st.InfuseTemp)
		clamp(&st.StepTime, &st.InfuseAmount)
	}
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func clamp(fields ...*Number) {
	for _, f := range fields {
		if *f < 0 {
			*f = 0
		}
	}
}
