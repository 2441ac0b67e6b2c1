// Package globals holds the output flags every lucro command shares.
package globals

import "github.com/spf13/cobra"

// Flags are the root-level output flags.
type Flags struct {
	// Output is the format name: table, wide, json or yaml
	Output  string
	Quiet   bool
	Verbose bool
	NoColor bool
}

// AddFlags registers the output flags on the root command. --format and
// --fmt are hidden aliases of --output.
func AddFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}
	pf := cmd.PersistentFlags()

	pf.StringVarP(&flags.Output, "output", "o", "", "Output format: table, wide, json, yaml (default table on a terminal, json otherwise)")
	for _, alias := range []string{"format", "fmt"} {
		pf.StringVar(&flags.Output, alias, "", "")
		_ = pf.MarkHidden(alias)
	}
	pf.BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress informational messages")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Verbose output (debug logs and wide tables)")
	pf.BoolVar(&flags.NoColor, "no-color", false, "Disable colored log output")

	return flags
}

// Parse reads the output flags from the root of cmd's hierarchy.
func Parse(cmd *cobra.Command) (*Flags, error) {
	root := cmd.Root()
	pf := root.PersistentFlags()

	output, err := pf.GetString("output")
	if err != nil {
		return nil, err
	}
	quiet, _ := pf.GetBool("quiet")
	verbose, _ := pf.GetBool("verbose")
	noColor, _ := pf.GetBool("no-color")

	return &Flags{
		Output:  output,
		Quiet:   quiet,
		Verbose: verbose,
		NoColor: noColor,
	}, nil
}
