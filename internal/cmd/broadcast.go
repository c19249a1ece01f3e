package cmd

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/botwire/botwire/internal/api"
	"github.com/botwire/botwire/internal/iocontext"
	"github.com/botwire/botwire/internal/payloads"
	"github.com/botwire/botwire/internal/types"
	"github.com/botwire/botwire/internal/validation"
)

// broadcastResult is one line of broadcast output.
type broadcastResult struct {
	Chat      string               `json:"chat"`
	OK        bool                 `json:"ok"`
	MessageID int                  `json:"message_id,omitempty"`
	Error     *api.StructuredError `json:"error,omitempty"`
}

func newBroadcastCmd() *cobra.Command {
	var opts sendOptions
	var chats []string
	var chatsFile string
	var concurrency int64
	var progress bool

	cmd := &cobra.Command{
		Use:   "broadcast <text|->",
		Short: "Send one message to many chats concurrently",
		Long: strings.TrimSpace(`
Send the same text to every chat given with --chat or listed in --chats-file
(one chat per line, # starts a comment). Sends run concurrently over a single
connection pool; a failure in one chat does not stop the others.

The command exits non-zero when any send failed.
`),
		Example: strings.TrimSpace(`
  botctl broadcast "Maintenance at 22:00 UTC" --chat 111 --chat 222 --chat @news
  botctl broadcast - --chats-file subscribers.txt --concurrency 8 -o jsonl < notice.txt
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			if chatsFile == "-" && args[0] == "-" {
				return fmt.Errorf("text and --chats-file cannot both be read from stdin")
			}
			text, err := readText(cmd, args[0])
			if err != nil {
				return err
			}
			if err := validation.ValidateMessageText(text); err != nil {
				return err
			}
			mode, err := opts.validate()
			if err != nil {
				return err
			}
			if concurrency < 1 {
				return fmt.Errorf("--concurrency must be >= 1")
			}

			targets := append([]string(nil), chats...)
			if chatsFile != "" {
				data, err := iocontext.ReadArg(cmd.Context(), "@"+chatsFile)
				if err != nil {
					return err
				}
				targets = append(targets, parseChatList(data)...)
			}
			if len(targets) == 0 {
				return fmt.Errorf("at least one --chat or --chats-file is required")
			}
			ids := make([]types.ChatID, len(targets))
			for i, t := range targets {
				if ids[i], err = parseChatArg(t); err != nil {
					return err
				}
			}

			base := payloads.NewSendMessage(types.ChatID{}, text)
			if mode != "" {
				base = base.ParseMode(mode)
			}
			if opts.thread > 0 {
				base = base.MessageThread(opts.thread)
			}
			if cmd.Flags().Changed("silent") {
				base = base.Silent(opts.silent)
			}
			if cmd.Flags().Changed("protect") {
				base = base.Protect(opts.protect)
			}

			bot, err := getBot(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			errOut := iocontext.GetIO(cmd.Context()).ErrOut
			results := runBulkOperation(ctx, ids, concurrency, progress, errOut,
				func(ctx context.Context, chat types.ChatID) (types.Message, error) {
					p := base
					p.ChatID = chat
					return p.Send(ctx, bot)
				})

			out := make([]broadcastResult, len(results))
			for i, r := range results {
				out[i] = broadcastResult{Chat: r.Key.String(), OK: r.Success}
				if r.Success {
					out[i].MessageID = r.Data.MessageID
				} else {
					out[i].Error = api.StructuredErrorFromError(r.Error)
				}
			}

			if err := render(cmd, out, func(w io.Writer) error {
				tw := newTabWriter(w)
				_, _ = fmt.Fprintln(tw, "CHAT\tSTATUS\tDETAIL")
				for _, r := range out {
					if r.OK {
						_, _ = fmt.Fprintf(tw, "%s\tsent\tmessage %d\n", r.Chat, r.MessageID)
					} else {
						_, _ = fmt.Fprintf(tw, "%s\tfailed\t%s\n", r.Chat, r.Error.Message)
					}
				}
				return tw.Flush()
			}); err != nil {
				return err
			}

			success, failure := countResults(results)
			if failure > 0 {
				return &handledError{
					err:      fmt.Errorf("broadcast: %d of %d sends failed", failure, success+failure),
					exitCode: exitGeneric,
				}
			}
			return nil
		}),
	}
	opts.register(cmd)
	cmd.Flags().StringArrayVar(&chats, "chat", nil, "Target chat ID or @username (repeatable)")
	cmd.Flags().StringVar(&chatsFile, "chats-file", "", "File with one chat per line ('-' for stdin)")
	cmd.Flags().Int64Var(&concurrency, "concurrency", DefaultConcurrency, "Maximum sends in flight")
	cmd.Flags().BoolVar(&progress, "progress", false, "Report progress on stderr")
	return cmd
}

// parseChatList splits a chat list file into entries, skipping blank lines
// and # comments.
func parseChatList(data []byte) []string {
	var chats []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			chats = append(chats, line)
		}
	}
	return chats
}
