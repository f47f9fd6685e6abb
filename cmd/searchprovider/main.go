package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "searchprovider",
		Short: "Knowledge app search provider for the desktop shell",
		Long: `searchprovider exports search and content metadata providers for
installed knowledge apps on D-Bus. Each app is served under the provider's
object path at a child node named after its escaped app id.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newLabelCommand())
	return rootCmd
}
