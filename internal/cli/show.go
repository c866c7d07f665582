package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/streamrule/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "show <rule-id>",
		Short:         "Print one rule from a catalog",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite rule catalog (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(ctx context.Context, opts *ShowOptions, id string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openCatalog(opts.Database)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStoreFailed, err.Error())
	}
	defer closeCatalog(st)

	rec, err := st.ReadRule(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return outputCommandError(formatter, ErrCodeRuleNotFound, fmt.Sprintf("rule %s not found", id))
	}
	if err != nil {
		return outputCommandError(formatter, ErrCodeStoreFailed, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(rec)
	}

	fmt.Fprintf(formatter.Writer, "# %s (arity %d)\n", rec.ID, rec.Arity)
	fmt.Fprintf(formatter.Writer, "# compilation %s, seq %d\n", rec.CompilationID, rec.Seq)
	fmt.Fprint(formatter.Writer, rec.Rendered)
	return nil
}

// statFile reports a missing or non-regular catalog path.
func statFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("catalog %s: is a directory", path)
	}
	return info, nil
}
