// Package beerxml parses BeerXML 1.0 recipe documents into typed values and
// computes the derived figures a recipe card needs.
//
// Documents found in the wild are of uneven quality, so decoding is
// lenient: unknown elements are ignored, missing numbers are zero, and
// numbers followed by a unit ("13.6 SRM") keep their leading value. A
// document that is not XML, or that has no RECIPE element, is rejected as
// a whole with a *ParseError.
package beerxml

// Recipe is a single RECIPE record. All quantities use BeerXML base units:
// liters, kilograms, minutes, days and degrees Celsius.
type Recipe struct {
	Name       string `xml:"NAME" json:"name"`
	Type       string `xml:"TYPE" json:"type"`
	Brewer     string `xml:"BREWER" json:"brewer,omitempty"`
	BatchSize  Number `xml:"BATCH_SIZE" json:"batch_size"`
	BoilSize   Number `xml:"BOIL_SIZE" json:"boil_size"`
	BoilTime   Number `xml:"BOIL_TIME" json:"boil_time"`
	Efficiency Number `xml:"EFFICIENCY" json:"efficiency"`
	EstColor   Number `xml:"EST_COLOR" json:"est_color"`
	IBU        Number `xml:"IBU" json:"ibu"`

	// Display fields, kept as written ("1.052 SG", "5.4 %").
	EstOG  string `xml:"EST_OG" json:"est_og"`
	EstFG  string `xml:"EST_FG" json:"est_fg"`
	EstABV string `xml:"EST_ABV" json:"est_abv"`

	Notes      string `xml:"NOTES" json:"notes,omitempty"`
	TasteNotes string `xml:"TASTE_NOTES" json:"taste_notes,omitempty"`

	FermentationStages Number `xml:"FERMENTATION_STAGES" json:"fermentation_stages"`
	PrimaryAge         Number `xml:"PRIMARY_AGE" json:"primary_age"`
	PrimaryTemp        Number `xml:"PRIMARY_TEMP" json:"primary_temp"`
	SecondaryAge       Number `xml:"SECONDARY_AGE" json:"secondary_age"`
	SecondaryTemp      Number `xml:"SECONDARY_TEMP" json:"secondary_temp"`
	TertiaryAge        Number `xml:"TERTIARY_AGE" json:"tertiary_age"`
	TertiaryTemp       Number `xml:"TERTIARY_TEMP" json:"tertiary_temp"`

	Style        *Style        `xml:"STYLE" json:"style,omitempty"`
	Fermentables []Fermentable `xml:"FERMENTABLES>FERMENTABLE" json:"fermentables"`
	Hops         []Hop         `xml:"HOPS>HOP" json:"hops"`
	Miscs        []Misc        `xml:"MISCS>MISC" json:"miscs"`
	Yeasts       []Yeast       `xml:"YEASTS>YEAST" json:"yeasts"`
	Mash         Mash          `xml:"MASH" json:"mash"`
}

// Style is the beer style a recipe targets.
type Style struct {
	Name           string `xml:"NAME" json:"name"`
	Category       string `xml:"CATEGORY" json:"category,omitempty"`
	CategoryNumber string `xml:"CATEGORY_NUMBER" json:"category_number"`
	StyleLetter    string `xml:"STYLE_LETTER" json:"style_letter"`
	StyleGuide     string `xml:"STYLE_GUIDE" json:"style_guide,omitempty"`
	OGMin          Number `xml:"OG_MIN" json:"og_min"`
	OGMax          Number `xml:"OG_MAX" json:"og_max"`
	FGMin          Number `xml:"FG_MIN" json:"fg_min"`
	FGMax          Number `xml:"FG_MAX" json:"fg_max"`
	IBUMin         Number `xml:"IBU_MIN" json:"ibu_min"`
	IBUMax         Number `xml:"IBU_MAX" json:"ibu_max"`
	ColorMin       Number `xml:"COLOR_MIN" json:"color_min"`
	ColorMax       Number `xml:"COLOR_MAX" json:"color_max"`
	CarbMin        Number `xml:"CARB_MIN" json:"carb_min"`
	CarbMax        Number `xml:"CARB_MAX" json:"carb_max"`
	ABVMin         Number `xml:"ABV_MIN" json:"abv_min"`
	ABVMax         Number `xml:"ABV_MAX" json:"abv_max"`
}

// Fermentable is a grain, sugar or extract addition. Its share of the
// grist is derived with PercentageOfTotal.
type Fermentable struct {
	Name   string `xml:"NAME" json:"name"`
	Type   string `xml:"TYPE" json:"type,omitempty"`
	Amount Number `xml:"AMOUNT" json:"amount"`
	Color  Number `xml:"COLOR" json:"color"`
}

// Hop is a hop addition.
type Hop struct {
	Name   string `xml:"NAME" json:"name"`
	Amount Number `xml:"AMOUNT" json:"amount"`
	Alpha  Number `xml:"ALPHA" json:"alpha"`
	Use    string `xml:"USE" json:"use"`
	Time   Number `xml:"TIME" json:"time"`
	Form   string `xml:"FORM" json:"form,omitempty"`
}

// Misc is a non-fermentable, non-hop addition such as finings or spices.
type Misc struct {
	Name          string `xml:"NAME" json:"name"`
	Type          string `xml:"TYPE" json:"type"`
	Use           string `xml:"USE" json:"use"`
	Time          Number `xml:"TIME" json:"time"`
	Amount        Number `xml:"AMOUNT" json:"amount"`
	DisplayAmount string `xml:"DISPLAY_AMOUNT" json:"display_amount,omitempty"`
}

// Yeast is a yeast or bacteria culture.
type Yeast struct {
	Name       string `xml:"NAME" json:"name"`
	Type       string `xml:"TYPE" json:"type,omitempty"`
	Form       string `xml:"FORM" json:"form,omitempty"`
	Laboratory string `xml:"LABORATORY" json:"laboratory"`
	ProductID  string `xml:"PRODUCT_ID" json:"product_id,omitempty"`
}

// Mash is the mash profile. Steps keep document order.
type Mash struct {
	Name  string     `xml:"NAME" json:"name,omitempty"`
	PH    Number     `xml:"PH" json:"ph"`
	Steps []MashStep `xml:"MASH_STEPS>MASH_STEP" json:"steps"`
}

// MashStep is one rest of a mash profile. InfuseTemp is a display field
// holding a value and unit, e.g. "159 F".
type MashStep struct {
	Name         string `xml:"NAME" json:"name"`
	Type         string `xml:"TYPE" json:"type,omitempty"`
	StepTemp     Number `xml:"STEP_TEMP" json:"step_temp"`
	StepTime     Number `xml:"STEP_TIME" json:"step_time"`
	InfuseAmount Number `xml:"INFUSE_AMOUNT" json:"infuse_amount"`
	InfuseTemp   string `xml:"INFUSE_TEMP" json:"infuse_temp,omitempty"`
}

// FermentationStage is one row of the fermentation schedule.
type FermentationStage struct {
	Name string  `json:"name"`
	Age  float64 `json:"age"`
	Temp float64 `json:"temp"`
}
