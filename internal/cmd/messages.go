package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/botwire/botwire/internal/payloads"
	"github.com/botwire/botwire/internal/types"
	"github.com/botwire/botwire/internal/validation"
)

func newMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "me",
		Aliases: []string{"whoami"},
		Short:   "Show the bot's own account (getMe)",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			bot, err := getBot(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			me, err := payloads.NewGetMe().Send(ctx, bot)
			if err != nil {
				return err
			}
			return render(cmd, me, func(out io.Writer) error {
				w := newTabWriter(out)
				_, _ = fmt.Fprintf(w, "ID:\t%d\n", me.ID)
				_, _ = fmt.Fprintf(w, "Name:\t%s\n", userLabel(me))
				_, _ = fmt.Fprintf(w, "Joins groups:\t%t\n", me.CanJoinGroups)
				_, _ = fmt.Fprintf(w, "Reads all group messages:\t%t\n", me.CanReadAllGroupMessages)
				_, _ = fmt.Fprintf(w, "Inline queries:\t%t\n", me.SupportsInlineQueries)
				return w.Flush()
			})
		}),
	}
}

type sendOptions struct {
	parseMode string
	silent    bool
	protect   bool
	replyTo   int
	thread    int
}

func (o *sendOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.parseMode, "parse-mode", "", "Entity parsing: HTML, MarkdownV2 or Markdown")
	cmd.Flags().BoolVar(&o.silent, "silent", false, "Send without notification")
	cmd.Flags().BoolVar(&o.protect, "protect", false, "Protect the content from forwarding and saving")
	cmd.Flags().IntVar(&o.replyTo, "reply-to", 0, "Message ID to reply to")
	cmd.Flags().IntVar(&o.thread, "thread", 0, "Forum topic (message thread) ID")
}

func (o *sendOptions) validate() (types.ParseMode, error) {
	if o.replyTo < 0 {
		return "", fmt.Errorf("--reply-to must be a positive message ID")
	}
	if o.thread < 0 {
		return "", fmt.Errorf("--thread must be a positive topic ID")
	}
	return parseParseMode(o.parseMode)
}

func newSendCmd() *cobra.Command {
	var opts sendOptions
	var noPreview bool

	cmd := &cobra.Command{
		Use:   "send <chat> <text|->",
		Short: "Send a text message (sendMessage)",
		Long: strings.TrimSpace(`
Send a text message. <chat> is a numeric chat ID or a public @username.
Pass "-" as the text to read it from stdin.
`),
		Example: strings.TrimSpace(`
  botctl send 123456789 "Deploy finished"
  botctl send @mychannel "<b>Release</b> v1.2" --parse-mode HTML --silent
  git log -1 --format=%B | botctl send -100123456 -
`),
		Args: cobra.MinimumNArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			chat, err := parseChatArg(args[0])
			if err != nil {
				return err
			}
			text, err := readText(cmd, strings.Join(args[1:], " "))
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

			p := payloads.NewSendMessage(chat, text)
			if mode != "" {
				p = p.ParseMode(mode)
			}
			if opts.thread > 0 {
				p = p.MessageThread(opts.thread)
			}
			if opts.replyTo > 0 {
				p = p.ReplyTo(opts.replyTo)
			}
			if cmd.Flags().Changed("silent") {
				p = p.Silent(opts.silent)
			}
			if cmd.Flags().Changed("protect") {
				p = p.Protect(opts.protect)
			}
			if cmd.Flags().Changed("no-preview") {
				p = p.DisablePreview(noPreview)
			}

			bot, err := getBot(cmd)
			if err != nil {
				return err
			}
			if done, err := previewCall(cmd, bot, p); done {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			msg, err := p.Send(ctx, bot)
			if err != nil {
				return err
			}
			return render(cmd, msg, func(out io.Writer) error { return printMessage(out, msg) })
		}),
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&noPreview, "no-preview", false, "Disable link previews")
	return cmd
}

func newForwardCmd() *cobra.Command {
	var silent, protect bool

	cmd := &cobra.Command{
		Use:   "forward <to-chat> (<from-chat> <message-id> | <message-link>)",
		Short: "Forward a message (forwardMessage)",
		Example: strings.TrimSpace(`
  botctl forward 123456789 @mychannel 42
  botctl forward 123456789 https://t.me/mychannel/42
`),
		Args: cobra.RangeArgs(2, 3),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			to, err := parseChatArg(args[0])
			if err != nil {
				return err
			}
			from, messageID, err := parseMessageRef(args[1:])
			if err != nil {
				return err
			}

			p := payloads.NewForwardMessage(to, from, messageID)
			if cmd.Flags().Changed("silent") {
				p = p.Silent(silent)
			}
			if cmd.Flags().Changed("protect") {
				p = p.Protect(protect)
			}

			bot, err := getBot(cmd)
			if err != nil {
				return err
			}
			if done, err := previewCall(cmd, bot, p); done {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			msg, err := p.Send(ctx, bot)
			if err != nil {
				return err
			}
			return render(cmd, msg, func(out io.Writer) error { return printMessage(out, msg) })
		}),
	}
	cmd.Flags().BoolVar(&silent, "silent", false, "Forward without notification")
	cmd.Flags().BoolVar(&protect, "protect", false, "Protect the forwarded copy")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete (<chat> <message-id> | <message-link>)",
		Aliases: []string{"rm"},
		Short:   "Delete a message (deleteMessage)",
		Example: strings.TrimSpace(`
  botctl delete @mychannel 42
  botctl delete https://t.me/c/1234567890/42 --dry-run
`),
		Args: cobra.RangeArgs(1, 2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			chat, messageID, err := parseMessageRef(args)
			if err != nil {
				return err
			}
			p := payloads.NewDeleteMessage(chat, messageID)

			bot, err := getBot(cmd)
			if err != nil {
				return err
			}
			if done, err := previewCall(cmd, bot, p); done {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			ok, err := p.Send(ctx, bot)
			if err != nil {
				return err
			}
			return render(cmd, map[string]any{"deleted": ok, "message_id": messageID}, func(out io.Writer) error {
				_, err := fmt.Fprintf(out, "Deleted message %d from %s\n", messageID, chat)
				return err
			})
		}),
	}
}
