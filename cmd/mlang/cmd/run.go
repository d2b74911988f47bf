package cmd

import (
	"fmt"
	"os"

	"github.com/mlang-dev/mlang/pkg/mlang"
	"github.com/spf13/cobra"
)

var (
	evalExpr     string
	manifestPath string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a guest-language program",
	Long: `Execute a program from a file or an inline expression.

Examples:
  # Run a script file
  mlang run script.gl

  # Evaluate an inline program
  mlang run -e "int main() { return 0; }"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().StringVar(&manifestPath, "manifest", "mlang.yaml", "host manifest file (recursion limit, verbosity)")
}

func runScript(_ *cobra.Command, args []string) error {
	var input, filename string
	switch {
	case evalExpr != "":
		input, filename = evalExpr, "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	m, err := loadManifest(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to read manifest %s: %w", manifestPath, err)
	}
	if verbose || m.Verbose {
		fmt.Fprintf(os.Stderr, "running %s\n", filename)
	}

	options := []mlang.Option{mlang.WithOutput(os.Stdout)}
	if m.MaxCallDepth > 0 {
		options = append(options, mlang.WithMaxCallDepth(m.MaxCallDepth))
	}
	engine, err := mlang.New(options...)
	if err != nil {
		return err
	}

	result, err := engine.Eval(input)
	if err != nil {
		for _, d := range result.Diagnostics {
			fmt.Fprintln(os.Stderr, d.Format(true))
		}
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}
