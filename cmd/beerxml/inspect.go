package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/beerxml-recipe-service/internal/beerxml"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/config"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/render"
)

type inspected struct {
	Recipe beerxml.Recipe `json:"recipe"`
	View   render.View    `json:"view"`
}

func newInspectCmd(cfg config.Config) *cobra.Command {
	var (
		flags  displayFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "inspect <file-or-url>",
		Short: "Summarize every recipe in a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd, cfg)
			defer cancel()
			doc, err := readSource(ctx, cfg, args[0])
			if err != nil {
				return err
			}
			all, err := beerxml.ParseAll(doc)
			if err != nil {
				return err
			}
			opts := flags.options(args[0])
			out := make([]inspected, 0, len(all))
			for i := range all {
				out = append(out, inspected{Recipe: all[i], View: render.BuildView(&all[i], opts)})
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			for _, it := range out {
				if err := summarize(cmd.OutOrStdout(), it); err != nil {
					return err
				}
			}
			return nil
		},
	}
	bindDisplayFlags(cmd, &flags, cfg.Display)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print recipes and display values as JSON")
	return cmd
}

func summarize(w io.Writer, it inspected) error {
	d := it.View.Details
	_, err := fmt.Fprintf(w, "%s (%s)\n  batch %s, boil %s, OG %s, FG %s, ABV %s, IBU %v, SRM %v\n",
		it.Recipe.Name, d.Style, d.BatchSize, d.BoilTime, d.OG, d.FG, d.ABV, d.IBU, d.SRM)
	if err != nil {
		return err
	}
	for _, f := range it.View.Fermentables {
		pct := ""
		if f.Percentage != nil {
			pct = fmt.Sprintf(" (%v%%)", *f.Percentage)
		}
		if _, err := fmt.Fprintf(w, "  - %s%s %s\n", f.Amount, pct, f.Name); err != nil {
			return err
		}
	}
	for _, h := range it.View.Hops {
		if _, err := fmt.Fprintf(w, "  * %s %s %v%% %s %s\n", h.Amount, h.Name, h.Alpha, h.Use, h.Time); err != nil {
			return err
		}
	}
	return nil
}
