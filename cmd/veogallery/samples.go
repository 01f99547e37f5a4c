package main

import (
	"fmt"

	"github.com/maraval/veogallery/internal/gallery"
	"github.com/maraval/veogallery/internal/metadata"
	"github.com/spf13/cobra"
)

func newSamplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "samples",
		Short: "List the curated sample videos",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Sample Videos:")
			for _, v := range gallery.Samples() {
				fmt.Fprintf(out, "  %-28s %s\n", v.ID, v.Title)
			}
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List supported Veo and refiner models",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Veo Models:")
			for _, m := range metadata.VeoModels {
				marker := ""
				if m.ID == metadata.DefaultVeoModel {
					marker = " (default)"
				}
				fmt.Fprintf(out, "  %-35s %s%s\n", m.ID, m.Label, marker)
			}
			fmt.Fprintln(out, "Refiner Models:")
			for _, m := range metadata.RefinerModels {
				marker := ""
				if m.ID == metadata.DefaultRefinerModel {
					marker = " (default)"
				}
				fmt.Fprintf(out, "  %-35s %s%s\n", m.ID, m.Label, marker)
			}
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
