package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iw2rmb/indexconf/internal/configpage"
	"github.com/iw2rmb/indexconf/internal/indexconfig"
)

// maxConcurrentGets bounds parallel reads in get.
const maxConcurrentGets = 4

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <repository-id>",
		Short: "Edit a repository's index configuration interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl := configpage.NewController(cmd.Context(), a.store(), args[0], a.logger)
			defer ctrl.Close()

			page := configpage.New(ctrl, configpage.Options{Theme: a.theme(), Telemetry: a.telemetry()})
			if _, err := a.run(cmd.Context(), page); err != nil {
				return fmt.Errorf("running editor: %w", err)
			}
			return nil
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	var inferred bool
	cmd := &cobra.Command{
		Use:   "get <repository-id>...",
		Short: "Print stored and inferred index configuration",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.store()
			docs := make([]indexconfig.Document, len(args))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(maxConcurrentGets)
			for i, id := range args {
				g.Go(func() error {
					doc, err := store.GetConfiguration(ctx, id)
					if err != nil {
						return fmt.Errorf("repository %s: %w", id, err)
					}
					docs[i] = doc
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, id := range args {
				if len(args) > 1 {
					fmt.Fprintf(out, "# repository %s\n", id)
				}
				if inferred {
					fmt.Fprintln(out, docs[i].Inferred)
					continue
				}
				fmt.Fprintf(out, "## configuration\n%s\n## inferred configuration\n%s\n", docs[i].Stored, docs[i].Inferred)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&inferred, "inferred", false, "print only the inferred configuration")
	return cmd
}

func newSetCmd(a *app) *cobra.Command {
	var (
		file   string
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "set <repository-id> --file <path|->",
		Short: "Save a repository's index configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			if problems := indexconfig.Validate(content); len(problems) > 0 {
				printProblems(cmd.ErrOrStderr(), problems)
				if strict {
					return fmt.Errorf("%d validation problems", len(problems))
				}
			}
			if err := a.store().UpdateConfiguration(cmd.Context(), args[0], content); err != nil {
				return fmt.Errorf("saving index configuration: %w", err)
			}
			a.logger.Info("index configuration saved", zap.String("repo", args[0]), zap.Int("bytes", len(content)))
			fmt.Fprintln(cmd.OutOrStdout(), "Saved")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "configuration file, - for stdin")
	cmd.Flags().BoolVar(&strict, "strict", false, "refuse to save content with validation problems")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newValidateCmd(*app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path|->",
		Short: "Check an index configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			problems := indexconfig.Validate(content)
			if len(problems) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "OK")
				return nil
			}
			printProblems(cmd.OutOrStdout(), problems)
			return fmt.Errorf("%d validation problems", len(problems))
		},
	}
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "" {
		return "", errors.New("no input given")
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func printProblems(w io.Writer, problems []indexconfig.Problem) {
	for _, p := range problems {
		fmt.Fprintln(w, p.String())
	}
}
