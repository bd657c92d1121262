package commands

import (
	"bufio"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/baxromumarov/congress-tracker/internal/xmltree"
)

var (
	convertCompact bool
	convertOutput  string
)

func init() {
	convertCmd.Flags().BoolVar(&convertCompact, "compact", false, "Write compact JSON instead of indented JSON")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output file (default: stdout)")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert [file.xml]",
	Short: "Converts an XML document to its normalized JSON form.",
	Long: `Converts an XML document to JSON. Attributes become an
{"attributes", "text"} pair, repeated children with the same tag become
a list of single-key objects and element order is kept. Reads stdin when
no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		v, err := xmltree.Parse(bufio.NewReader(in))
		if err != nil {
			return err
		}

		var out io.Writer = cmd.OutOrStdout()
		if convertOutput != "" {
			f, err := os.Create(convertOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		indent := xmltree.DefaultIndent
		if convertCompact {
			indent = ""
		}
		if err := xmltree.Encode(out, v, indent); err != nil {
			return err
		}
		_, err = io.WriteString(out, "\n")
		return err
	},
}
