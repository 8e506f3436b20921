package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"quicknotes/internal/errs"
	"quicknotes/internal/service"
)

func newExportCmd(e *env) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every note as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" && output != "" {
				format = formatFromPath(output)
			}
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return errs.Wrap(errs.InvalidArgument, "could not create "+output, err)
				}
				defer f.Close()
				w = f
			}
			if err := a.Notes().Export(cmd.Context(), w, format); err != nil {
				return err
			}
			if output != "" {
				success(cmd.ErrOrStderr(), "Exported notes to %s", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default from --output extension, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func newImportCmd(e *env) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create notes from a JSON or YAML export",
		Long: `import reads notes written by export. Notes whose id already exists are
skipped, notes that fail validation are counted and skipped, and notes
without an id get a new one. Use - to read standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				format = formatFromPath(path)
			}

			var r io.Reader = cmd.InOrStdin()
			if path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return errs.Wrap(errs.NotFound, "could not open "+path, err)
				}
				defer f.Close()
				r = f
			}

			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.Notes().Import(cmd.Context(), r, format)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Imported %d note(s), skipped %d existing, %d invalid", res.Created, res.Skipped, res.Invalid)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default from file extension)")
	return cmd
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return service.FormatYAML
	default:
		return service.FormatJSON
	}
}

func newBackupCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a backup of the SQLite database now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			path, err := a.Backup(cmd.Context())
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Backup written to %s", path)
			return nil
		},
	}
}

