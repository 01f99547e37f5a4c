package main

import (
	"fmt"

	"github.com/maraval/veogallery/internal/favorites"
	"github.com/maraval/veogallery/internal/gallery"
	"github.com/spf13/cobra"
)

func newFavoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage the favorites list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFavoritesList(cmd)
		},
	}
	cmd.SetUsageTemplate(envUsageTemplate)
	cmd.AddCommand(
		newFavoritesListCmd(),
		newFavoritesToggleCmd(),
	)
	return cmd
}

func newFavoritesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show favorited video IDs (default if no action given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFavoritesList(cmd)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func newFavoritesToggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <video-id>",
		Short: "Add or remove a video from favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFavoritesToggle(cmd, args[0])
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func openFavoritesStore() (*favorites.Store, error) {
	path, err := favorites.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate favorites file: %w", err)
	}
	return favorites.Load(favorites.NewFileBackend(path)), nil
}

func runFavoritesList(cmd *cobra.Command) error {
	store, err := openFavoritesStore()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	ids := store.IDs()
	if len(ids) == 0 {
		fmt.Fprintln(out, "No favorites yet.")
		return nil
	}
	titles := map[string]string{}
	for _, v := range gallery.Samples() {
		titles[v.ID] = v.Title
	}
	fmt.Fprintln(out, "Favorites:")
	for _, id := range ids {
		if title, ok := titles[id]; ok {
			fmt.Fprintf(out, "  %-28s %s\n", id, title)
		} else {
			fmt.Fprintf(out, "  %s\n", id)
		}
	}
	return nil
}

func runFavoritesToggle(cmd *cobra.Command, id string) error {
	store, err := openFavoritesStore()
	if err != nil {
		return err
	}
	if store.Toggle(id) {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites.\n", id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from favorites.\n", id)
	}
	return nil
}
