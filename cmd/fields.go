package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ipxplorer/internal/config"
	"ipxplorer/internal/models"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields <variant>",
	Short: "Print the header fields of a page variant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		reg, err := buildRegistry(cfg)
		if err != nil {
			return err
		}
		v, err := reg.Get(args[0])
		if err != nil {
			return err
		}
		return printFields(cmd.OutOrStdout(), v.Dataset.Title, v.Dataset.Fields)
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}

func printFields(out io.Writer, title string, fields []models.HeaderField) error {
	fmt.Fprintln(out, title)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tWIDTH\tEXAMPLE\tDESCRIPTION")
	for _, f := range fields {
		example := f.Example
		if example == "" {
			example = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Name, f.BitWidth, example, f.Description)
	}
	return tw.Flush()
}
