package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/botwire/botwire/internal/api"
	"github.com/botwire/botwire/internal/config"
	"github.com/botwire/botwire/internal/debug"
	"github.com/botwire/botwire/internal/dryrun"
	"github.com/botwire/botwire/internal/iocontext"
	"github.com/botwire/botwire/internal/outfmt"
	"github.com/botwire/botwire/internal/types"
	"github.com/botwire/botwire/internal/urlparse"
	"github.com/botwire/botwire/internal/validation"
)

// getJQQuery returns the jq query from --jq or --query flags.
// --jq takes precedence over --query for consistency with gh CLI.
func getJQQuery() string {
	if flags.JQ != "" {
		return flags.JQ
	}
	return flags.Query
}

// resolveConfig merges the global flags with the environment and profiles.
func resolveConfig() (config.ClientConfig, error) {
	return config.Resolve(config.Overrides{
		Token:   flags.Token,
		APIURL:  flags.APIURL,
		Proxy:   flags.Proxy,
		Profile: flags.Profile,
	})
}

// getBot builds the Bot for this invocation. Logging is reconfigured so the
// resolved token never reaches stderr.
func getBot(cmd *cobra.Command) (api.Bot, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return api.Bot{}, err
	}
	setupLogging(cmd, cfg.Token)
	bot, err := cfg.Bot()
	if err != nil {
		return api.Bot{}, err
	}
	return bot.WithUserAgent(api.DefaultUserAgent + "/" + version), nil
}

// setupLogging points slog at the command's stderr, redacting secrets.
func setupLogging(cmd *cobra.Command, secrets ...string) {
	errOut := iocontext.GetIO(cmd.Context()).ErrOut
	slog.SetDefault(debug.NewLogger(errOut, flags.Debug, secrets...))
}

// cmdContext returns the command context bounded by --timeout.
func cmdContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if flags.Timeout > 0 {
		return context.WithTimeout(ctx, flags.Timeout)
	}
	return context.WithCancel(ctx)
}

// newTabWriter creates a tabwriter for text output
func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}

// render writes v as structured output when requested, otherwise calls text.
func render(cmd *cobra.Command, v any, text func(out io.Writer) error) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	f := outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
	if f.Structured() {
		return f.Output(v)
	}
	if text == nil {
		return outfmt.WriteJSON(ioStreams.Out, v)
	}
	return text(ioStreams.Out)
}

// printJSON outputs data as JSON with optional query/template filtering
func printJSON(cmd *cobra.Command, v any) error {
	ioStreams := iocontext.GetIO(cmd.Context())
	if outfmt.GetTemplate(cmd.Context()) != "" {
		return outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut).Output(v)
	}
	return outfmt.WriteJSONFiltered(ioStreams.Out, v, outfmt.GetQuery(cmd.Context()), outfmt.IsCompact(cmd.Context()))
}

// printJSONErr writes a JSON value to stderr.
func printJSONErr(cmd *cobra.Command, v any) error {
	return outfmt.WriteJSON(iocontext.GetIO(cmd.Context()).ErrOut, v)
}

func printMessage(out io.Writer, m types.Message) error {
	_, err := fmt.Fprintf(out, "Sent message %d to %s\n", m.MessageID, chatLabel(m.Chat))
	return err
}

func chatLabel(c types.Chat) string {
	switch {
	case c.Title != "":
		return fmt.Sprintf("%s (%d)", c.Title, c.ID)
	case c.Username != "":
		return fmt.Sprintf("@%s (%d)", c.Username, c.ID)
	default:
		return strconv.FormatInt(c.ID, 10)
	}
}

func userLabel(u types.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if u.Username != "" {
		return fmt.Sprintf("%s (@%s)", name, u.Username)
	}
	return name
}

func parseChatArg(s string) (types.ChatID, error) {
	id, err := types.ParseChatID(s)
	if err != nil {
		return types.ChatID{}, fmt.Errorf("invalid chat %q: %w", s, err)
	}
	return id, nil
}

// parseMessageRef accepts either "<chat> <message-id>" or a single t.me
// message link.
func parseMessageRef(args []string) (types.ChatID, int, error) {
	if len(args) == 1 {
		if !urlparse.IsMessageLink(args[0]) {
			return types.ChatID{}, 0, fmt.Errorf("invalid message reference %q: must be a t.me link or <chat> <message-id>", args[0])
		}
		link, err := urlparse.Parse(args[0])
		if err != nil {
			return types.ChatID{}, 0, err
		}
		return link.Chat, link.MessageID, nil
	}
	chat, err := parseChatArg(args[0])
	if err != nil {
		return types.ChatID{}, 0, err
	}
	messageID, err := parseIntArg(args[1], "message ID")
	if err != nil {
		return types.ChatID{}, 0, err
	}
	return chat, messageID, nil
}

// previewCall prints what p would send when --dry-run is set and reports
// whether the caller should stop there.
func previewCall(cmd *cobra.Command, bot api.Bot, p api.Payload) (bool, error) {
	if !dryrun.IsEnabled(cmd.Context()) {
		return false, nil
	}
	method := p.MethodName()
	endpoint := api.RedactToken(bot.MethodURL(method).String(), bot.Token())
	preview, err := dryrun.New(method, endpoint, p)
	if err != nil {
		return true, err
	}
	if bot.Endpoint().IsCustom() {
		preview.Warn("custom API server %s", bot.Endpoint())
	}
	if isJSON(cmd) {
		return true, printJSON(cmd, preview)
	}
	return true, preview.Write(iocontext.GetIO(cmd.Context()).Out)
}

func parseParseMode(s string) (types.ParseMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "html":
		return types.ParseModeHTML, nil
	case "markdownv2", "mdv2":
		return types.ParseModeMarkdownV2, nil
	case "markdown", "md":
		return types.ParseModeMarkdown, nil
	default:
		return "", fmt.Errorf("invalid --parse-mode %q: must be HTML, MarkdownV2 or Markdown", s)
	}
}

// readText returns s, or stdin when s is "-".
func readText(cmd *cobra.Command, s string) (string, error) {
	if s != "-" {
		return s, nil
	}
	data, err := iocontext.ReadArg(cmd.Context(), "@-")
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func parseIntArg(s, label string) (int, error) {
	return validation.ParsePositiveInt(s, label)
}

// errAlreadyHandled is a sentinel error indicating the error was already printed to stderr.
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() []error {
	return []error{errAlreadyHandled, e.err}
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		if isJSON(cmd) {
			_ = printJSONErr(cmd, api.StructuredErrorFromError(err))
		} else {
			_, _ = fmt.Fprint(iocontext.GetIO(cmd.Context()).ErrOut, HandleError(err))
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}
