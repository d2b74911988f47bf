// Command mlang is a thin sample host around pkg/mlang: run a script file
// or an inline expression, or inspect what one declares.
package main

import (
	"fmt"
	"os"

	"github.com/mlang-dev/mlang/cmd/mlang/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
