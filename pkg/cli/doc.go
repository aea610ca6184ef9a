// Package cli holds helpers shared by the zerocoder commands: typed command
// errors and their exit codes, text/JSON/CSV output formatting and
// signal-driven shutdown contexts.
//
//	ctx, stop := cli.SignalContext(context.Background())
//	defer stop()
//
//	f := cli.NewFormatter(cli.FormatJSON)
//	if err := f.FormatTo(os.Stdout, result); err != nil {
//	    return err
//	}
package cli
