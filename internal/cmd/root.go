package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/botwire/botwire/internal/config"
	"github.com/botwire/botwire/internal/debug"
	"github.com/botwire/botwire/internal/dryrun"
	"github.com/botwire/botwire/internal/iocontext"
	"github.com/botwire/botwire/internal/outfmt"
	"github.com/botwire/botwire/internal/validation"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output       string
	JSON         bool
	Compact      bool
	Query        string
	JQ           string
	Template     string
	Debug        bool
	DryRun       bool
	Quiet        bool
	AllowPrivate bool
	Timeout      time.Duration

	Token   string
	APIURL  string
	Proxy   string
	Profile string
	EnvFile string
}

// flags holds the global command flags. It is reset at the start of every
// Execute call; reading it outside a command's RunE sees stale values.
var flags rootFlags

func defaultFlags() rootFlags {
	return rootFlags{
		Output:       defaultOutput(),
		AllowPrivate: parseBoolEnv("BOTCTL_ALLOW_PRIVATE"),
	}
}

func defaultOutput() string {
	if value := strings.TrimSpace(os.Getenv("BOTCTL_OUTPUT")); value != "" {
		return value
	}
	return "text"
}

func parseBoolEnv(key string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && value
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	flags = defaultFlags()

	root := &cobra.Command{
		Use:   "botctl",
		Short: "Command-line client for the Telegram Bot API",
		Long: strings.TrimSpace(`
botctl calls Telegram Bot API methods with a bot token taken from --token,
the BOT_TOKEN environment variable, or a profile saved with 'botctl auth login'.
`),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if flags.EnvFile != "" {
				if err := config.LoadEnvFile(flags.EnvFile, true); err != nil {
					return err
				}
			}

			if flags.JSON {
				if cmd.Flags().Changed("output") && flags.Output != "json" {
					return fmt.Errorf("--json conflicts with --output %s", flags.Output)
				}
				flags.Output = "json"
			}
			mode, err := outfmt.Parse(strings.TrimSpace(flags.Output))
			if err != nil {
				return err
			}
			ctx = outfmt.WithMode(ctx, mode)
			ctx = outfmt.WithCompact(ctx, flags.Compact)

			if q := getJQQuery(); q != "" {
				ctx = outfmt.WithQuery(ctx, q)
			}
			if flags.Template != "" {
				tmpl, err := iocontext.ReadArg(ctx, flags.Template)
				if err != nil {
					return fmt.Errorf("--template: %w", err)
				}
				ctx = outfmt.WithTemplate(ctx, string(tmpl))
			}

			if flags.Timeout < 0 {
				return fmt.Errorf("--timeout must be >= 0")
			}

			streams := *iocontext.GetIO(ctx)
			if flags.Quiet {
				streams.ErrOut = io.Discard
			}
			ctx = iocontext.WithIO(ctx, &streams)
			cmd.SetOut(streams.Out)
			cmd.SetErr(streams.ErrOut)

			validation.SetAllowPrivate(flags.AllowPrivate)

			ctx = debug.WithDebug(ctx, flags.Debug)
			ctx = dryrun.WithDryRun(ctx, flags.DryRun)
			cmd.SetContext(ctx)
			setupLogging(cmd, flags.Token)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)
	streams := iocontext.GetIO(ctx)
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.Token, "token", "", "Bot token (env BOT_TOKEN)")
	pf.StringVar(&flags.APIURL, "api-url", "", "Bot API server base URL (env BOT_API_URL)")
	pf.StringVar(&flags.Proxy, "proxy", "", "Proxy URL: http, https or socks5 (env BOT_PROXY)")
	pf.StringVar(&flags.Profile, "profile", "", "Saved profile to use (env BOTCTL_PROFILE)")
	pf.StringVar(&flags.EnvFile, "env-file", "", "Load environment variables from a .env file")
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl (env BOTCTL_OUTPUT)")
	pf.BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.StringVarP(&flags.Query, "query", "q", "", "jq expression to filter JSON output")
	pf.StringVar(&flags.JQ, "jq", "", "Alias for --query")
	pf.StringVar(&flags.Template, "template", "", "Go template (or @path) rendered against the JSON result")
	pf.DurationVar(&flags.Timeout, "timeout", 0, "Overall deadline for the command (0 uses the client timeouts)")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Print the request a command would send without sending it")
	pf.BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output on stderr")
	pf.BoolVar(&flags.AllowPrivate, "allow-private", flags.AllowPrivate, "Allow private/localhost webhook URLs (unsafe)")

	root.AddCommand(newMeCmd())
	root.AddCommand(newSendCmd())
	root.AddCommand(newSendPhotoCmd())
	root.AddCommand(newSendDocumentCmd())
	root.AddCommand(newSendAlbumCmd())
	root.AddCommand(newForwardCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newBroadcastCmd())
	root.AddCommand(newProfilePhotosCmd())
	root.AddCommand(newFileCmd())
	root.AddCommand(newWebhookCmd())
	root.AddCommand(newCallCmd())
	root.AddCommand(newMethodsCmd())
	root.AddCommand(newAuthCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(streams.ErrOut, enhanceUnknownError(err, root, targetCmd))
		}
		return err
	}
	return nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		if unknown := extractQuoted(msg); unknown != "" {
			var names []string
			for _, c := range root.Commands() {
				if c.IsAvailableCommand() {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		if unknown := extractFlag(msg); unknown != "" {
			target := targetCmd
			if target == nil {
				target = root
			}
			seen := make(map[string]bool)
			var names []string
			add := func(fs *pflag.FlagSet) {
				fs.VisitAll(func(f *pflag.Flag) {
					if name := "--" + f.Name; !seen[name] {
						seen[name] = true
						names = append(names, name)
					}
				})
			}
			add(target.Flags())
			add(target.InheritedFlags())
			help := strings.TrimSpace(target.CommandPath()) + " --help"
			if suggestion := suggestFlag(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, help)
			}
			return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, help)
		}
	}

	return msg
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name (e.g., "--foo") from an error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		return ""
	}
	rest := s[idx:]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimRight(rest, ".,;:!?\"'")
}
