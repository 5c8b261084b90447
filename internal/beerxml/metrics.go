package beerxml

import "fmt"

// TotalWeight sums the amounts of a fermentable bill in kilograms.
func TotalWeight(fs []Fermentable) float64 {
	var total float64
	for _, f := range fs {
		total += f.Amount.Float()
	}
	return total
}

// PercentageOfTotal returns the unrounded share of f in a bill weighing
// total kilograms. A zero total yields ErrDivideByZero; callers guard on an
// empty bill before asking.
func PercentageOfTotal(f Fermentable, total float64) (float64, error) {
	if total == 0 {
		return 0, ErrDivideByZero
	}
	return f.Amount.Float() / total * 100, nil
}

// FermentationStages lists the primary, secondary and tertiary stages the
// recipe declares. Stages one and two are emitted for any count at or
// above their number, the tertiary stage only for a count of exactly
// three, so a count of four yields two stages.
//
// TODO: decide whether counts above three should include the tertiary
// stage once a document producer emitting them is known.
func FermentationStages(r Recipe) []FermentationStage {
	n := r.FermentationStages.Float()
	var out []FermentationStage
	if n >= 1 {
		out = append(out, stage(1, r.PrimaryAge, r.PrimaryTemp))
	}
	if n >= 2 {
		out = append(out, stage(2, r.SecondaryAge, r.SecondaryTemp))
	}
	if n == 3 {
		out = append(out, stage(3, r.TertiaryAge, r.TertiaryTemp))
	}
	return out
}

func stage(n int, age, temp Number) FermentationStage {
	return FermentationStage{
		Name: fmt.Sprintf("Stage #%d", n),
		Age:  age.Float(),
		Temp: temp.Float(),
	}
}
