package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/botwire/botwire/internal/payloads"
	"github.com/botwire/botwire/internal/validation"
)

func newWebhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "webhook",
		Aliases: []string{"wh"},
		Short:   "Manage the bot's webhook",
	}
	cmd.AddCommand(newWebhookSetCmd())
	cmd.AddCommand(newWebhookDeleteCmd())
	cmd.AddCommand(newWebhookInfoCmd())
	return cmd
}

func newWebhookSetCmd() *cobra.Command {
	var (
		ip             string
		maxConnections int
		allowed        []string
		dropPending    bool
		secret         string
	)

	cmd := &cobra.Command{
		Use:   "set <url>",
		Short: "Point the bot's updates at an HTTPS URL (setWebhook)",
		Long: strings.TrimSpace(`
Point the bot's updates at an HTTPS URL. The platform only delivers to ports
443, 80, 88 and 8443.
`),
		Example: strings.TrimSpace(`
  botctl webhook set https://bot.example.com/hook --secret-token "$HOOK_SECRET"
  botctl webhook set https://bot.example.com/hook --allowed-updates message,callback_query --drop-pending
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			url := strings.TrimSpace(args[0])
			if err := validation.ValidateWebhookURL(url); err != nil {
				return fmt.Errorf("invalid webhook URL: %w", err)
			}
			if cmd.Flags().Changed("max-connections") && (maxConnections < 1 || maxConnections > 100) {
				return fmt.Errorf("--max-connections must be between 1 and 100")
			}

			p := payloads.NewSetWebhook(url)
			if ip != "" {
				p = p.IP(ip)
			}
			if maxConnections > 0 {
				p = p.MaxConnections(maxConnections)
			}
			if cmd.Flags().Changed("allowed-updates") {
				p = p.AllowedUpdates(allowed...)
			}
			if dropPending {
				p = p.DropPending(true)
			}
			if secret != "" {
				p = p.SecretToken(secret)
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

			ok, err := p.Send(ctx, bot)
			if err != nil {
				return err
			}
			return render(cmd, map[string]any{"ok": ok, "url": url}, func(out io.Writer) error {
				_, err := fmt.Fprintf(out, "Webhook set to %s\n", url)
				return err
			})
		}),
	}
	cmd.Flags().StringVar(&ip, "ip", "", "Fixed IP address to deliver to instead of resolving the host")
	cmd.Flags().IntVar(&maxConnections, "max-connections", 0, "Maximum simultaneous deliveries (1-100)")
	cmd.Flags().StringSliceVar(&allowed, "allowed-updates", nil, "Update types to receive (comma-separated)")
	cmd.Flags().BoolVar(&dropPending, "drop-pending", false, "Drop updates queued before the change")
	cmd.Flags().StringVar(&secret, "secret-token", "", "Value sent in the X-Telegram-Bot-Api-Secret-Token header")
	return cmd
}

func newWebhookDeleteCmd() *cobra.Command {
	var dropPending bool

	cmd := &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm"},
		Short:   "Remove the webhook (deleteWebhook)",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			p := payloads.NewDeleteWebhook()
			if dropPending {
				p = p.DropPending(true)
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

			ok, err := p.Send(ctx, bot)
			if err != nil {
				return err
			}
			return render(cmd, map[string]any{"ok": ok}, func(out io.Writer) error {
				_, err := fmt.Fprintln(out, "Webhook removed")
				return err
			})
		}),
	}
	cmd.Flags().BoolVar(&dropPending, "drop-pending", false, "Drop updates queued before the change")
	return cmd
}

func newWebhookInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the webhook status (getWebhookInfo)",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			bot, err := getBot(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			info, err := payloads.NewGetWebhookInfo().Send(ctx, bot)
			if err != nil {
				return err
			}
			return render(cmd, info, func(out io.Writer) error {
				if info.URL == "" {
					_, err := fmt.Fprintf(out, "No webhook set (%d pending updates)\n", info.PendingUpdateCount)
					return err
				}
				w := newTabWriter(out)
				_, _ = fmt.Fprintf(w, "URL:\t%s\n", info.URL)
				_, _ = fmt.Fprintf(w, "Pending updates:\t%d\n", info.PendingUpdateCount)
				if info.IPAddress != "" {
					_, _ = fmt.Fprintf(w, "IP address:\t%s\n", info.IPAddress)
				}
				if info.MaxConnections > 0 {
					_, _ = fmt.Fprintf(w, "Max connections:\t%d\n", info.MaxConnections)
				}
				if len(info.AllowedUpdates) > 0 {
					_, _ = fmt.Fprintf(w, "Allowed updates:\t%s\n", strings.Join(info.AllowedUpdates, ", "))
				}
				if info.LastErrorDate > 0 {
					at := time.Unix(info.LastErrorDate, 0).UTC().Format(time.RFC3339)
					_, _ = fmt.Fprintf(w, "Last error:\t%s at %s\n", info.LastErrorMessage, at)
				}
				return w.Flush()
			})
		}),
	}
}
