package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/streamrule/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
	Package  string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the rules in a catalog",
		Long: `List the compiled rules recorded in a catalog, in compilation order.
Use --package to restrict the listing to one constraint package.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite rule catalog (required)")
	cmd.Flags().StringVar(&opts.Package, "package", "", "only list rules of this package")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runList(ctx context.Context, opts *ListOptions, cmd *cobra.Command) error {
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

	records, err := st.ListRules(ctx, opts.Package)
	if err != nil {
		return outputCommandError(formatter, ErrCodeStoreFailed, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(formatter.Writer, "No rules recorded")
		return nil
	}
	for _, rec := range records {
		fmt.Fprintf(formatter.Writer, "%s  %s  arity=%d\n", shortID(rec.ID), rec.QualifiedName(), rec.Arity)
	}
	return nil
}

// openCatalog opens an existing catalog. A missing file is an error rather
// than an empty catalog, so a mistyped --db path is reported.
func openCatalog(path string) (*store.Store, error) {
	if _, err := statFile(path); err != nil {
		return nil, err
	}
	return store.Open(path)
}

func closeCatalog(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// shortID abbreviates a rule ID for text output.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// indent prefixes every non-empty line of s.
func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var sb strings.Builder
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			sb.WriteString(prefix)
		}
		sb.WriteString(line)
	}
	return sb.String()
}
