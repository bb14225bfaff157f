package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kidandcat/rallypoint/internal/panels"
)

func init() {
	friendsAddCmd.Flags().String("username", "", "their username")
	friendsAddCmd.Flags().String("email", "", "their email")

	rootCmd.AddCommand(friendsCmd)
	friendsCmd.AddCommand(friendsListCmd, friendsRequestsCmd, friendsApproveCmd, friendsDeclineCmd, friendsAddCmd)
}

var friendsCmd = &cobra.Command{
	Use:   "friends",
	Short: "Manage friends and friend requests",
}

var friendsListCmd = &cobra.Command{
	Use:   "list [filter]",
	Short: "List your friends",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := panels.NewFriends(rt.deps(cmd.Context()))
		p.Load(cmd.Context())
		if len(args) == 1 {
			p.Filter(args[0])
		}
		v := p.Snapshot()
		switch v.FriendsState {
		case panels.Empty:
			fmt.Fprintln(rt.out, "No friends yet.")
		case panels.Ready:
			for _, f := range v.Friends {
				fmt.Fprintln(rt.out, f.Name)
			}
			if len(v.Friends) != v.Total {
				fmt.Fprintf(rt.out, "(%d of %d shown)\n", len(v.Friends), v.Total)
			}
		}
		printAlerts(rt.out, p.FriendsAlerts)
		if v.FriendsState == panels.Unavailable {
			return errReported
		}
		return nil
	},
}

var friendsRequestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List incoming friend requests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := panels.NewFriends(rt.deps(cmd.Context()))
		p.Load(cmd.Context())
		v := p.Snapshot()
		switch v.IncomingState {
		case panels.Empty:
			fmt.Fprintln(rt.out, "No pending requests.")
		case panels.Ready:
			for _, r := range v.Incoming {
				fmt.Fprintf(rt.out, "%d\t%s\n", r.ID, r.Name)
			}
		}
		printAlerts(rt.out, p.IncomingAlerts)
		if v.IncomingState == panels.Unavailable {
			return errReported
		}
		return nil
	},
}

var friendsApproveCmd = &cobra.Command{
	Use:   "approve <request-id>",
	Short: "Accept a friend request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		p := panels.NewFriends(rt.deps(cmd.Context()))
		err = p.Approve(cmd.Context(), id)
		return rt.report(err, p.IncomingAlerts)
	},
}

var friendsDeclineCmd = &cobra.Command{
	Use:   "decline <request-id>",
	Short: "Decline a friend request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		p := panels.NewFriends(rt.deps(cmd.Context()))
		err = p.Decline(cmd.Context(), id)
		return rt.report(err, p.IncomingAlerts)
	},
}

var friendsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Send a friend request by username or email",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		p := panels.NewFriends(rt.deps(cmd.Context()))
		err := p.Send(cmd.Context(), username, email)
		return rt.report(err, p.SendAlerts)
	},
}
