package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/catalog"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/machine"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/ui"
)

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog <file>",
		Short: "Load a recipe catalog and show the resulting machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			c, err := catalog.Load(path)
			if err != nil {
				return err
			}
			svc := machine.New(nil, nil, nil)
			if err := svc.Seed(cmd.Context(), c); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.SuccessMsg("%s: %d recipes loaded", path, len(c.Recipes)))
			fmt.Fprintln(out, ui.RecipeTable(svc.Recipes()))
			fmt.Fprintln(out, ui.Muted("Inventory"))
			fmt.Fprint(out, svc.Report())
			return nil
		},
	}
}
