// cmd/estate-cli/chat.go
package main

import (
	"bufio"
	"fmt"
	"strings"

	"estate-client/internal/chat"

	"github.com/spf13/cobra"
)

func (c *cli) chatCommand() *cobra.Command {
	var (
		sessionID string
		history   bool
	)
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Ask the property assistant; without a message, start an interactive chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			greeting := c.app.Config.Chat.Greeting

			var w *chat.Widget
			if sessionID != "" {
				w = chat.Resume(c.app.API, sessionID, greeting, c.app.Logger)
				if err := w.LoadHistory(ctx); err != nil {
					return err
				}
			} else {
				w = chat.New(c.app.API, greeting, c.app.Logger)
			}

			if history {
				msgs := w.Messages()
				return c.emit(msgs, func() {
					for _, m := range msgs {
						c.printChatMessage(m)
					}
				})
			}

			if len(args) > 0 {
				bot, err := w.Send(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				return c.emit(map[string]interface{}{"sessionId": w.SessionID(), "reply": bot}, func() {
					c.printChatMessage(bot)
					fmt.Fprintf(c.out, "\n(continue with --session %s)\n", w.SessionID())
				})
			}

			for _, m := range w.Messages() {
				c.printChatMessage(m)
			}
			fmt.Fprintln(c.out, "Type a message, /reset for a new conversation, or /quit to leave.")

			in := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(c.out, "> ")
				if !in.Scan() {
					break
				}
				line := strings.TrimSpace(in.Text())
				switch line {
				case "":
					continue
				case "/quit", "/exit":
					return nil
				case "/reset":
					w.Reset()
					c.printChatMessage(w.Messages()[0])
					continue
				}
				bot, err := w.Send(ctx, line)
				if err != nil {
					fmt.Fprintf(c.out, "bot> %s\n", chat.FallbackReply)
					continue
				}
				c.printChatMessage(bot)
			}
			return in.Err()
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "resume an earlier conversation")
	cmd.Flags().BoolVar(&history, "history", false, "print the conversation and exit")
	return cmd
}
