package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"geoplot/internal/job"
	"geoplot/internal/tui"
)

var viewFlags plotFlags

func init() {
	viewFlags.register(viewCmd)
}

var viewCmd = &cobra.Command{
	Use:   "view [FILE]",
	Short: "Browse and plot files in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadConfig(cmd, &viewFlags)
		if err != nil {
			return err
		}
		var inputs []job.Input
		if len(args) == 1 && viewFlags.region == "auto" {
			in, err := job.Open(args[0])
			if err != nil {
				return err
			}
			inputs = append(inputs, in)
		}
		j, err := newJob(f, &viewFlags, inputs)
		if err != nil {
			return err
		}
		var m tui.Model
		if len(args) == 1 {
			m = tui.NewWithPath(j, args[0])
		} else {
			m = tui.New(j)
		}
		_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
		return err
	},
}
