package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/streamrule/internal/compiler"
	"github.com/roach88/streamrule/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output   string // output file path
	Database string // rule catalog path
}

// CompilationResult holds the rules produced by one compile run.
type CompilationResult struct {
	CompilationID string             `json:"compilation_id"`
	Rules         []store.RuleRecord `json:"rules"`
	Inserted      int                `json:"inserted,omitempty"` // new catalog rows, with --db
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <path>",
		Short: "Compile CUE constraints to rule item lists",
		Long: `Compile CUE constraint definitions to ordered rule item lists.

<path> is a .cue file or a directory holding a CUE package. Each
constraint is validated, lowered to a rule and identified by the hash of
its canonical form. With --db the rules are recorded in a catalog.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite rule catalog")

	return cmd
}

func runCompile(ctx context.Context, opts *CompileOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadConstraints(path, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCommandError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputCommandError(formatter, ErrCodeGeneric, loadErrors[0].Error())
	}
	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, path)

	if verrs := compiler.ValidateAll(loadResult.Constraints); len(verrs) > 0 {
		return outputValidationErrors(formatter, verrs)
	}

	rules, err := compiler.LowerAll(loadResult.Constraints)
	if err != nil {
		return outputCommandError(formatter, ErrCodeLowerFailed, err.Error())
	}

	result := &CompilationResult{
		CompilationID: uuid.Must(uuid.NewV7()).String(),
		Rules:         make([]store.RuleRecord, 0, len(rules)),
	}
	for i, r := range rules {
		rec, err := store.NewRuleRecord(r, result.CompilationID, int64(i+1))
		if err != nil {
			return outputCommandError(formatter, ErrCodeLowerFailed, err.Error())
		}
		formatter.VerboseLog("Compiled %s: arity %d, %d item(s)", rec.QualifiedName(), r.Arity, len(r.Items))
		result.Rules = append(result.Rules, rec)
	}
	slog.Info("compiled constraints",
		"path", path,
		"compilation_id", result.CompilationID,
		"rules", len(result.Rules))

	if opts.Database != "" {
		inserted, err := recordRules(ctx, opts.Database, result.Rules)
		if err != nil {
			return outputCommandError(formatter, ErrCodeStoreFailed, err.Error())
		}
		result.Inserted = inserted
	}

	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputCompileSuccess(formatter, result, opts)
}

// recordRules writes every record to the catalog at dbPath and returns how
// many were new.
func recordRules(ctx context.Context, dbPath string, records []store.RuleRecord) (inserted int, err error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	for _, rec := range records {
		ok, err := st.WriteRule(ctx, rec)
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}
	slog.Debug("recorded rules", "db", dbPath, "inserted", inserted, "total", len(records))
	return inserted, nil
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, opts *CompileOptions) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s Compiled %d rule(s)\n\n", okMark(), len(result.Rules))

	for _, rec := range result.Rules {
		fmt.Fprintf(w, "  %s: arity %d, id %s\n", rec.QualifiedName(), rec.Arity, shortID(rec.ID))
		if formatter.Verbose {
			fmt.Fprintln(w)
			fmt.Fprint(w, indent(rec.Rendered, "    "))
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w)

	if opts.Database != "" {
		fmt.Fprintf(w, "Recorded %d new rule(s) in %s\n", result.Inserted, opts.Database)
	}
	if opts.Output != "" {
		fmt.Fprintf(w, "Wrote compiled rules to %s\n", opts.Output)
	}

	return nil
}

// outputCommandError outputs a single command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputCompileErrors outputs multiple compilation errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{
				Code:    code,
				Message: message,
			}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Compilation errors are command-level errors (exit code 2)
		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintf(formatter.Writer, "%s Compilation failed\n\n", failMark())

	for _, err := range errs {
		code, message := parseCompileError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	// Compilation errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseCompileError extracts error code and message from an error.
func parseCompileError(err error) (string, string) {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return MapFieldToErrorCode(compileErr.Field), compileErr.Message
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// writeResultToFile writes the compilation result as indented JSON.
// (canonical JSON without indentation is used only for hashing)
func writeResultToFile(result *CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
