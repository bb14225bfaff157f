package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kidandcat/rallypoint/internal/api"
	"github.com/kidandcat/rallypoint/internal/panels"
)

func init() {
	eventsListCmd.Flags().Bool("mine", false, "only events you organize")
	eventsAnnounceCmd.Flags().String("title", "", "announcement title")
	eventsAnnounceCmd.Flags().String("body", "", "announcement message")

	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListCmd, eventsShowCmd, eventsRSVPCmd, eventsDeleteCmd, eventsAnnounceCmd)
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Browse and manage events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List upcoming events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mine, _ := cmd.Flags().GetBool("mine")
		d := rt.deps(cmd.Context())
		if mine {
			p := panels.NewMyEvents(d)
			err := p.Load(cmd.Context())
			v := p.Snapshot()
			printCards(rt.out, v.State, v.Cards, "You haven't created any events yet.")
			return rt.report(err, p.Alerts)
		}
		p := panels.NewEvents(d)
		err := p.Load(cmd.Context())
		v := p.Snapshot()
		printCards(rt.out, v.State, v.Cards, "No upcoming events.")
		return rt.report(err, p.Alerts)
	},
}

var eventsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		p := panels.NewEvents(rt.deps(cmd.Context()))
		if err := p.Load(cmd.Context()); err != nil {
			return rt.report(err, p.Alerts)
		}
		if !p.Select(id) {
			return fmt.Errorf("event %d not found", id)
		}
		d := p.Snapshot().Detail
		w := tabwriter.NewWriter(rt.out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Title:\t%s\n", d.Title)
		fmt.Fprintf(w, "When:\t%s\n", d.Schedule)
		fmt.Fprintf(w, "Where:\t%s\n", d.Location)
		if d.Address != "" {
			fmt.Fprintf(w, "Address:\t%s\n", d.Address)
		}
		fmt.Fprintf(w, "Map:\t%s\n", d.MapLink)
		if d.Organizer != "" {
			fmt.Fprintf(w, "Organizer:\t%s\n", d.Organizer)
		}
		if d.Perks != "" {
			fmt.Fprintf(w, "Perks:\t%s\n", d.Perks)
		}
		fmt.Fprintf(w, "RSVPs:\t%s\n", d.Counts())
		if d.MyRSVP != "" {
			fmt.Fprintf(w, "You:\t%s\n", d.MyRSVP.Label())
		}
		w.Flush()
		fmt.Fprintf(rt.out, "\n%s\n", d.Summary)
		return nil
	},
}

var eventsRSVPCmd = &cobra.Command{
	Use:       "rsvp <id> <going|maybe|not_going>",
	Short:     "Answer an invitation",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(api.RSVPGoing), string(api.RSVPMaybe), string(api.RSVPNotGoing)},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		p := panels.NewEvents(rt.deps(cmd.Context()))
		err = p.RSVP(cmd.Context(), id, api.RSVPStatus(args[1]))
		return rt.report(err, p.Alerts)
	},
}

var eventsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an event you organize",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		p := panels.NewMyEvents(rt.deps(cmd.Context()))
		err = p.Delete(cmd.Context(), id)
		return rt.report(err, p.Alerts)
	},
}

var eventsAnnounceCmd = &cobra.Command{
	Use:   "announce <id>",
	Short: "Send an announcement to an event's attendees",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		body, _ := cmd.Flags().GetString("body")
		p := panels.NewManage(rt.deps(cmd.Context()), id)
		err = p.Announce(cmd.Context(), title, body)
		return rt.report(err, p.AnnounceAlerts)
	},
}

func printCards(out io.Writer, state panels.ListState, cards []panels.EventCard, empty string) {
	switch state {
	case panels.Empty:
		fmt.Fprintln(out, empty)
		return
	case panels.Ready:
	default:
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tWHEN\tWHERE\tRSVPS")
	for _, c := range cards {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Title, c.Schedule, c.Location, c.Counts())
	}
	w.Flush()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
