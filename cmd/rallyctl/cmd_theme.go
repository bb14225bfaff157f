package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kidandcat/rallypoint/internal/prefs"
)

func init() {
	rootCmd.AddCommand(themeCmd)
}

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the colour theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(prefs.Light), string(prefs.Dark), "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := prefs.LoadTheme(rt.store)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			fmt.Fprintln(rt.out, current)
			return nil
		}
		next := current.Toggle()
		if args[0] != "toggle" {
			t, ok := prefs.ParseTheme(args[0])
			if !ok {
				return fmt.Errorf("unknown theme %q", args[0])
			}
			next = t
		}
		if err := prefs.SaveTheme(rt.store, next); err != nil {
			return err
		}
		fmt.Fprintln(rt.out, next)
		return nil
	},
}
