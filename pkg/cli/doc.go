/*
Package cli provides command-line helpers shared by the enginevisor commands.

Output Formatting:

Commands that print a result accept --output text|json:

	format, err := cli.ParseOutputFormat(output)
	if err != nil {
		return err
	}
	return cli.Print(cmd.OutOrStdout(), format, result)

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
	// ctx is cancelled on the first signal

Errors:

ConfigError and CommandError carry the failing field or command so the entry
point can print one line and exit non-zero.
*/
package cli
