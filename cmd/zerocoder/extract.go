package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/biswatma/zerocoder/pkg/cli"
	"github.com/biswatma/zerocoder/pkg/extract"
)

var extractFlags struct {
	strategy bool
}

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract the HTML document from model output",
	Long: `Run the HTML extractor over saved model output and print the document.

The input is read from file, or from standard input when no file is given.
Markdown fences, leading prose and trailing commentary are stripped the same
way the server does for buffered engines.`,
	Example: `  zerocoder extract response.txt
  cat response.txt | zerocoder extract --strategy`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVar(&extractFlags.strategy, "strategy", false, "print the extraction strategy to stderr")
}

func runExtract(cmd *cobra.Command, args []string) error {
	var input io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return cli.NewCommandError("extract", err)
		}
		defer f.Close()
		input = f
	}

	data, err := io.ReadAll(input)
	if err != nil {
		return cli.NewCommandError("extract", fmt.Errorf("failed to read input: %w", err))
	}

	res := extract.Extract(string(data))
	if extractFlags.strategy {
		fmt.Fprintf(cmd.ErrOrStderr(), "strategy: %s\n", res.Strategy)
	}
	if res.HTML != "" {
		fmt.Fprintln(cmd.OutOrStdout(), res.HTML)
	}
	return nil
}
