package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"overtime-ui/console"
	"overtime-ui/viewsync"
)

func (a *app) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the current month, target progress and history",
		RunE: func(cmd *cobra.Command, args []string) error {
			controller, err := a.controller(a.client())
			if err != nil {
				return err
			}
			controller.Refresh(cmd.Context(), console.NewRenderer(cmd.OutOrStdout()))
			return nil
		},
	}
}

func (a *app) saveCommand() *cobra.Command {
	var (
		date     string
		clockOut string
		leave    bool
		edit     bool
		yes      bool
	)
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Record a clock-out time or a leave day",
		RunE: func(cmd *cobra.Command, args []string) error {
			controller, err := a.controller(a.client())
			if err != nil {
				return err
			}
			out := console.NewRenderer(cmd.OutOrStdout())
			prompter := console.NewPrompter(os.Stdin, cmd.OutOrStdout(), yes)
			if date == "" {
				date = controller.Env().Today
			}

			s := controller.NewSession()
			if edit {
				s, err = console.Run(cmd.Context(), controller, s, viewsync.NewCommand(viewsync.CmdEdit, "date", date), out, prompter)
				if err != nil {
					return err
				}
				if !s.Editing() {
					return nil
				}
			}
			submit := viewsync.NewCommand(viewsync.CmdSubmit,
				"date", date,
				"is_leave", strconv.FormatBool(leave),
			)
			if clockOut != "" {
				submit.Payload["clock_out"] = clockOut
			}
			_, err = console.Run(cmd.Context(), controller, s, submit, out, prompter)
			return err
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "record date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&clockOut, "clock-out", "", "clock-out time, HH:MM")
	cmd.Flags().BoolVar(&leave, "leave", false, "mark the day as leave")
	cmd.Flags().BoolVar(&edit, "edit", false, "update the existing record for the date")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "answer yes to confirmations")
	return cmd
}

func (a *app) deleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete DATE",
		Short: "Delete the record for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			controller, err := a.controller(a.client())
			if err != nil {
				return err
			}
			_, err = console.Run(cmd.Context(), controller, controller.NewSession(),
				viewsync.NewCommand(viewsync.CmdDelete, "date", args[0]),
				console.NewRenderer(cmd.OutOrStdout()),
				console.NewPrompter(os.Stdin, cmd.OutOrStdout(), yes))
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}
