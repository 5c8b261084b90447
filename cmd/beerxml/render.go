package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/beerxml-recipe-service/internal/beerxml"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/config"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/render"
)

func newRenderCmd(cfg config.Config) *cobra.Command {
	var flags displayFlags
	cmd := &cobra.Command{
		Use:   "render <file-or-url>",
		Short: "Print the HTML fragment of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd, cfg)
			defer cancel()
			doc, err := readSource(ctx, cfg, args[0])
			if err != nil {
				return err
			}
			recipe, err := beerxml.Parse(doc)
			if err != nil {
				return err
			}
			html, err := render.Fragment(recipe, flags.options(args[0]))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
			return err
		},
	}
	bindDisplayFlags(cmd, &flags, cfg.Display)
	return cmd
}
