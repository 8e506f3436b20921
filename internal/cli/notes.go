package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"quicknotes/internal/domain"
	"quicknotes/internal/errs"
)

func newListCmd(e *env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			notes, err := a.Notes().List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(notes)
			}
			if len(notes) == 0 {
				mutedColor.Fprintln(out, "No notes yet.")
				return nil
			}
			for _, n := range notes {
				printNoteLine(out, n)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print notes as JSON")
	return cmd
}

func newAddCmd(e *env) *cobra.Command {
	var heading, text string
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a note",
		Example: `  quicknotes add --heading Groceries --text "Milk, eggs"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			n, err := a.Notes().CreateNote(cmd.Context(), domain.Note{Heading: heading, Text: text})
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Created note %d (%s)", n.ID, n.Heading)
			return nil
		},
	}
	cmd.Flags().StringVar(&heading, "heading", "", "single-word heading")
	cmd.Flags().StringVar(&text, "text", "", "note body")
	return cmd
}

func newEditCmd(e *env) *cobra.Command {
	var heading, text string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Replace a note's heading and/or text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("heading") && !cmd.Flags().Changed("text") {
				return errs.New(errs.InvalidArgument, "nothing to change: pass --heading and/or --text")
			}
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			n, err := a.Notes().Find(cmd.Context(), id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("heading") {
				n.Heading = heading
			}
			if cmd.Flags().Changed("text") {
				n.Text = text
			}
			if err := a.Notes().Save(cmd.Context(), n); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Saved note %d (%s)", n.ID, n.Heading)
			return nil
		},
	}
	cmd.Flags().StringVar(&heading, "heading", "", "new single-word heading")
	cmd.Flags().StringVar(&text, "text", "", "new note body")
	return cmd
}

func newRmCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			n, err := a.Notes().Find(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := a.Notes().Remove(cmd.Context(), n); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Deleted note %d (%s)", n.ID, n.Heading)
			return nil
		},
	}
}

func newShowCmd(e *env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print one note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			n, err := a.Notes().Find(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.Notes().Select(n)

			if asJSON {
				data, err := json.MarshalIndent(n, "", "  ")
				if err != nil {
					return fmt.Errorf("encode note: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			printNote(cmd.OutOrStdout(), n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the note as JSON")
	return cmd
}
