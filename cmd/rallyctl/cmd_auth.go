package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kidandcat/rallypoint/internal/panels"
	"github.com/kidandcat/rallypoint/internal/session"
)

func init() {
	loginCmd.Flags().StringP("password", "p", "", "password (read from stdin when omitted)")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and remember the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			password = strings.TrimRight(line, "\r\n")
		}
		form := panels.NewLoginForm(panels.Deps{Client: rt.client, Log: rt.log})
		_, err := form.Submit(cmd.Context(), args[0], password, nil)
		return rt.report(err, form.Alerts)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session.Logout(cmd.Context(), rt.client, rt.log, "")
		rt.forgetSession()
		fmt.Fprintln(rt.out, "Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who the stored session belongs to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := session.Probe(cmd.Context(), rt.client, rt.log)
		if !s.Authenticated {
			fmt.Fprintln(rt.out, "Not logged in.")
			return nil
		}
		role := "guest"
		if s.IsOrganizer() {
			role = "organizer"
		}
		fmt.Fprintf(rt.out, "%s (%s)\n", s.Username(), role)
		return nil
	},
}
