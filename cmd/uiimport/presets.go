package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gnana997/uiimport/pkg/config"
)

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in library presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			presets, err := config.Presets()
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Preset", "Library", "Directory", "Style"})
			for _, name := range config.PresetNames() {
				r := presets[name]
				dir := "lib"
				if r.LibraryDirectory != nil {
					dir = *r.LibraryDirectory
				}
				style := "true"
				if r.Style != nil {
					style = fmt.Sprint(r.Style)
				}
				t.AppendRow(table.Row{name, r.LibraryName, dir, style})
			}
			t.Render()
			return nil
		},
	}
}
