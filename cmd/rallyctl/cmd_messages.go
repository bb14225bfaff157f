package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kidandcat/rallypoint/internal/panels"
)

func init() {
	rootCmd.AddCommand(messagesCmd)
	messagesCmd.AddCommand(messagesListCmd, messagesShowCmd, messagesSendCmd)
}

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Read and send direct messages",
}

var messagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := panels.NewMessages(rt.deps(cmd.Context()))
		err := p.Load(cmd.Context())
		v := p.Snapshot()
		switch v.State {
		case panels.Empty:
			fmt.Fprintln(rt.out, "No conversations yet.")
		case panels.Ready:
			w := tabwriter.NewWriter(rt.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tWITH\tLAST\tWHEN\tUNREAD")
			for _, c := range v.Conversations {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", c.ID, c.Name, c.Preview, c.When, c.Unread)
			}
			w.Flush()
		}
		return rt.report(err, p.Alerts)
	},
}

var messagesShowCmd = &cobra.Command{
	Use:   "show <conversation-id>",
	Short: "Print a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openConversation(cmd, args[0])
		if err != nil {
			return err
		}
		printThread(p.Snapshot())
		return nil
	},
}

var messagesSendCmd = &cobra.Command{
	Use:   "send <conversation-id> <text...>",
	Short: "Send a message",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openConversation(cmd, args[0])
		if err != nil {
			return err
		}
		err = p.Send(cmd.Context(), strings.Join(args[1:], " "))
		return rt.report(err, p.Alerts)
	},
}

func openConversation(cmd *cobra.Command, arg string) (*panels.Messages, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	p := panels.NewMessages(rt.deps(cmd.Context()))
	if err := p.Load(cmd.Context()); err != nil {
		return nil, rt.report(err, p.Alerts)
	}
	if err := p.Open(cmd.Context(), id); err != nil {
		return nil, fmt.Errorf("open conversation %d: %w", id, err)
	}
	return p, nil
}

func printThread(v panels.MessagesView) {
	if v.Current == nil {
		return
	}
	fmt.Fprintf(rt.out, "Conversation with %s\n\n", v.Current.Name)
	if len(v.Thread) == 0 {
		fmt.Fprintln(rt.out, "No messages yet")
		return
	}
	for _, b := range v.Thread {
		who := v.Current.Name
		if b.Own {
			who = "you"
		}
		fmt.Fprintf(rt.out, "%-12s %s  (%s)\n", who+":", b.Text, b.When)
	}
}
