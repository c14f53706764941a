package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/newthinker/chatrelay/internal/chat"
	"github.com/newthinker/chatrelay/internal/config"
	"github.com/newthinker/chatrelay/internal/logger"
	"github.com/spf13/cobra"
)

var askStream bool

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send one message and print the answer",
	Long: `Send one message through the same pipeline the server uses and print
the answer. The message is read from the arguments, or from stdin when none
are given.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVarP(&askStream, "stream", "s", false, "print tokens as they arrive")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	message := strings.Join(args, " ")
	if message == "" {
		data, err := readAll(cmd)
		if err != nil {
			return fmt.Errorf("reading message: %w", err)
		}
		message = strings.TrimSpace(data)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	svc := newChatService(config.NewProviderResolver(), log, nil)
	return ask(ctx, cmd, svc, message, askStream)
}

func ask(ctx context.Context, cmd *cobra.Command, svc *chat.Service, message string, stream bool) error {
	out := cmd.OutOrStdout()

	if !stream {
		resp, err := svc.Chat(ctx, message)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, resp.Answer)
		return nil
	}

	for ev := range svc.ChatStream(ctx, message) {
		switch ev.Type {
		case chat.EventToken:
			fmt.Fprint(out, ev.Text)
		case chat.EventDone:
			fmt.Fprintln(out)
		case chat.EventError:
			fmt.Fprintln(out)
			return errors.New(ev.Text)
		}
	}
	return nil
}

func readAll(cmd *cobra.Command) (string, error) {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
