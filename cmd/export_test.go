package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ResetFlags puts every flag back to its default so tests can call Execute
// repeatedly on the shared root command.
func ResetFlags() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}
