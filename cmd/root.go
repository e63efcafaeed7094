// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/spf13/cobra"
)

var configFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ipxplorer",
	Short: "Interactive reference for the IPv4 and IPv6 packet headers",
	Long: `ipxplorer serves an interactive reference that explains the IPv4 and IPv6
packet headers and where they sit in the OSI model.

Pages:
  /v/ipv4         story, header structure, OSI model and integration views
  /v/ipv6         header structure, OSI model and integration views
  /v/ipv4-simple  header structure with a single detail panel`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (defaults and IPXPLORER_* env vars when empty)")
}
