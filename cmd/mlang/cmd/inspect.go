package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mlang-dev/mlang/pkg/mlang"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Dump a program's declared types and functions as JSON",
	Long: `Build a program without running it and print every type and
function visible afterward — primitives, host registrations, and
whatever the program itself declares — as a JSON document other tools
can query (e.g. with gjson) without decoding the whole tree by hand.`,
	Args: cobra.MaximumNArgs(1),
	RunE: inspectScript,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "inspect inline code instead of reading from file")
}

func inspectScript(_ *cobra.Command, args []string) error {
	var input string
	switch {
	case evalExpr != "":
		input = evalExpr
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	engine, err := mlang.New()
	if err != nil {
		return err
	}
	dump, err := engine.Inspect(input)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}
