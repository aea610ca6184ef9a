// ZeroCoder is a thin proxy that turns a prompt into a single HTML document.
//
// It forwards the prompt to one of several LLM engines (gemini, lmstudio,
// openrouter), streams the output back to the browser over Server-Sent
// Events and extracts the HTML document from what the model wrote.
//
// Usage:
//
//	# Start the server with defaults (listens on 0.0.0.0:3000)
//	zerocoder run
//
//	# Start with a configuration file
//	zerocoder run --config /etc/zerocoder/config.yaml
//
//	# Run the HTML extractor on saved model output
//	zerocoder extract response.txt --strategy
//
//	# Inspect the generation audit trail
//	zerocoder audit query --engine gemini --since 24h
//
//	# Show version information
//	zerocoder version
package main

import (
	"fmt"
	"os"

	"github.com/biswatma/zerocoder/pkg/cli"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}
