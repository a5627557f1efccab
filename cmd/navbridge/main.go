package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	naverrors "github.com/vango-dev/navbridge/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		naverrors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &configFlags{}

	rootCmd := &cobra.Command{
		Use:   "navbridge",
		Short: "Route tables and navigation bridge for mobile-UI hosts",
		Long: `navbridge compiles nested page/tab/sub-route tables and decides, for
every navigation intent a host raises, whether the host should handle it
or the application should resolve it itself.

Commands:
  • routes    print the compiled route tree
  • resolve   resolve URLs against the route table
  • simulate  replay navigation intents through the bridge
  • serve     run the HTTP/WebSocket bridge server`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags.register(rootCmd)

	rootCmd.AddCommand(
		routesCmd(flags),
		resolveCmd(flags),
		simulateCmd(flags),
		serveCmd(flags),
		versionCmd(),
	)

	return rootCmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
