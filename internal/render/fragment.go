package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/fairyhunter13/beerxml-recipe-service/internal/beerxml"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/units"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var tmpl = template.Must(template.New("beerxml").
	Funcs(template.FuncMap{"num": units.FormatNumber}).
	ParseFS(templateFS, "templates/*.tmpl"))

// Fragment renders the HTML fragment of r. Text from the document is
// escaped by html/template.
func Fragment(r *beerxml.Recipe, opts Options) (string, error) {
	return FragmentFromView(BuildView(r, opts))
}

// FragmentFromView renders an already built view.
func FragmentFromView(v View) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "recipe", v); err != nil {
		return "", fmt.Errorf("render recipe: %w", err)
	}
	return buf.String(), nil
}
