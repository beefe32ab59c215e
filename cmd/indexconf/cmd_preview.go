package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iw2rmb/indexconf/internal/preview"
	"github.com/iw2rmb/indexconf/internal/schedulepage"
)

func newPreviewCmd(a *app) *cobra.Command {
	var (
		selectable bool
		expand     bool
		pageSize   int
	)
	cmd := &cobra.Command{
		Use:   "preview <batch-spec-id>",
		Short: "Browse the changesets a batch spec apply would touch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := preview.NewList(cmd.Context(), preview.NewClient(a.client()), args[0], preview.ListOptions{
				Theme:              a.theme(),
				SelectionEnabled:   selectable,
				ExpandDescriptions: expand,
				PageSize:           pageSize,
				Logger:             a.logger,
			})
			final, err := a.run(cmd.Context(), list)
			if err != nil {
				return fmt.Errorf("running preview: %w", err)
			}
			if lm, ok := final.(preview.ListModel); ok {
				for _, id := range lm.Selected() {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&selectable, "select", false, "enable selection; selected changeset spec ids are printed on exit")
	cmd.Flags().BoolVar(&expand, "expand", false, "show full changeset descriptions")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "previews fetched per request")
	return cmd
}

func newScheduleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <repository-id>",
		Short: "Show a repository's index schedule configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.run(cmd.Context(), schedulepage.New(args[0], a.theme(), a.telemetry()))
			return err
		},
	}
}
