package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/botwire/botwire/internal/api"
	"github.com/botwire/botwire/internal/config"
	"github.com/botwire/botwire/internal/iocontext"
	"github.com/botwire/botwire/internal/payloads"
	"github.com/botwire/botwire/internal/validation"
)

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"au"},
		Short:   "Manage bot credentials",
		Long:    "Store bot tokens in your OS keychain under named profiles.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthListCmd())
	cmd.AddCommand(newAuthUseCmd())

	return cmd
}

// newAuthLoginCmd creates the auth login command
func newAuthLoginCmd() *cobra.Command {
	var (
		token    string
		apiURL   string
		proxy    string
		profile  string
		envFile  string
		noVerify bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save a bot token",
		Long: strings.TrimSpace(`
Save a bot token securely to your OS keychain and make its profile current.

The token is checked with getMe before it is saved unless --no-verify is set.
Use --api-url for a self-hosted Bot API server and --proxy to reach the
platform through an HTTP or SOCKS5 proxy.
`),
		Example: strings.TrimSpace(`
  botctl auth login --token 123456:ABC-DEF
  botctl auth login --token "$STAGING_TOKEN" --profile staging
  botctl auth login --env-file .env
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				envVars, err := loadAuthEnvFile(envFile)
				if err != nil {
					return err
				}
				if token == "" {
					token = strings.TrimSpace(envVars["BOT_TOKEN"])
				}
				if apiURL == "" {
					apiURL = strings.TrimSpace(envVars["BOT_API_URL"])
				}
				if proxy == "" {
					proxy = strings.TrimSpace(envVars["BOT_PROXY"])
				}
				if !cmd.Flags().Changed("profile") {
					if p := strings.TrimSpace(envVars["BOTCTL_PROFILE"]); p != "" {
						profile = p
					}
				}
			}

			token = strings.TrimSpace(token)
			if token == "" {
				return fmt.Errorf("--token is required (or --env-file with BOT_TOKEN)")
			}
			apiURL = strings.TrimSuffix(strings.TrimSpace(apiURL), "/")
			if apiURL != "" {
				if err := validation.ValidateAPIURL(apiURL); err != nil {
					return fmt.Errorf("invalid API URL: %w", err)
				}
			}

			cfg := config.ClientConfig{Token: token, APIURL: apiURL, Proxy: proxy, Profile: profile}
			out := iocontext.GetIO(cmd.Context()).Out

			var me string
			if !noVerify {
				bot, err := cfg.Bot()
				if err != nil {
					return err
				}
				ctx, cancel := cmdContext(cmd)
				defer cancel()
				user, err := payloads.NewGetMe().Send(ctx, bot.WithUserAgent(api.DefaultUserAgent+"/"+version))
				if err != nil {
					return fmt.Errorf("token check failed: %w", err)
				}
				me = userLabel(user)
			}

			if err := config.SaveProfile(profile, config.Profile{Token: token, APIURL: apiURL, Proxy: proxy}); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			if isJSON(cmd) {
				payload := map[string]any{
					"saved":   true,
					"profile": profile,
					"token":   api.MaskToken(token),
				}
				if me != "" {
					payload["bot"] = me
				}
				return printJSON(cmd, payload)
			}
			_, _ = fmt.Fprintln(out, "Credentials saved.")
			if me != "" {
				_, _ = fmt.Fprintf(out, "  Bot: %s\n", me)
			}
			_, _ = fmt.Fprintf(out, "  Token: %s\n", api.MaskToken(token))
			if apiURL != "" {
				_, _ = fmt.Fprintf(out, "  API URL: %s\n", apiURL)
			}
			_, _ = fmt.Fprintf(out, "  Profile: %s\n", profile)
			return nil
		}),
	}

	cmd.Flags().StringVar(&token, "token", "", "Bot token from @BotFather")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "Bot API server base URL")
	cmd.Flags().StringVar(&proxy, "proxy", "", "Proxy URL (http, https or socks5)")
	cmd.Flags().StringVar(&profile, "profile", "default", "Profile name to save credentials under")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load BOT_* values from a .env file")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Save without checking the token")

	return cmd
}

func loadAuthEnvFile(path string) (map[string]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("--env-file requires a file path")
	}

	envVars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read --env-file %q: %w", path, err)
	}

	return envVars, nil
}

// newAuthStatusCmd creates the auth status command
func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which credentials are in use",
		Long:  "Display the credentials the next command would use. The token is masked.",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			out := iocontext.GetIO(cmd.Context()).Out
			cfg, err := resolveConfig()
			if err != nil {
				if errors.Is(err, config.ErrNotConfigured) || errors.Is(err, config.ErrMissingToken) {
					if isJSON(cmd) {
						return printJSON(cmd, map[string]any{
							"authenticated": false,
							"message":       "Not authenticated. Run 'botctl auth login' or set BOT_TOKEN.",
						})
					}
					_, _ = fmt.Fprintln(out, "Not authenticated.")
					_, _ = fmt.Fprintln(out, "Run 'botctl auth login' or set BOT_TOKEN.")
					return nil
				}
				return err
			}

			apiURL := cfg.APIURL
			if apiURL == "" {
				apiURL = api.DefaultAPIURL
			}

			if isJSON(cmd) {
				payload := map[string]any{
					"authenticated": true,
					"token":         api.MaskToken(cfg.Token),
					"api_url":       apiURL,
					"source":        cfg.Source,
				}
				if cfg.Source == "profile" {
					payload["profile"] = cfg.Profile
				}
				if cfg.Proxy != "" {
					payload["proxy"] = cfg.Proxy
				}
				return printJSON(cmd, payload)
			}

			_, _ = fmt.Fprintln(out, "Authenticated")
			_, _ = fmt.Fprintf(out, "  Token: %s\n", api.MaskToken(cfg.Token))
			_, _ = fmt.Fprintf(out, "  API URL: %s\n", apiURL)
			if cfg.Proxy != "" {
				_, _ = fmt.Fprintf(out, "  Proxy: %s\n", cfg.Proxy)
			}
			if cfg.Source == "profile" {
				_, _ = fmt.Fprintf(out, "  Profile: %s\n", cfg.Profile)
			}
			_, _ = fmt.Fprintf(out, "  Source: %s\n", cfg.Source)
			return nil
		}),
	}
}

// newAuthLogoutCmd creates the auth logout command
func newAuthLogoutCmd() *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Long:  "Delete a stored profile from your OS keychain.",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			out := iocontext.GetIO(cmd.Context()).Out
			if profile == "" {
				current, err := config.CurrentProfile()
				if err != nil {
					return err
				}
				profile = current
			}

			names, err := config.ListProfiles()
			if err != nil {
				return err
			}
			if !slices.Contains(names, profile) {
				_, _ = fmt.Fprintf(out, "No credentials stored for profile %s.\n", profile)
				return nil
			}

			if err := config.DeleteProfile(profile); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}
			_, _ = fmt.Fprintf(out, "Profile %s removed.\n", profile)
			return nil
		}),
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Profile name to remove (defaults to current)")
	return cmd
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored profiles",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			names, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, err := config.CurrentProfile()
			if err != nil {
				return err
			}

			type profileRow struct {
				Name    string `json:"name"`
				Current bool   `json:"current"`
			}
			rows := make([]profileRow, len(names))
			for i, n := range names {
				rows[i] = profileRow{Name: n, Current: n == current}
			}
			return render(cmd, rows, func(out io.Writer) error {
				if len(rows) == 0 {
					_, err := fmt.Fprintln(out, "No profiles stored.")
					return err
				}
				for _, r := range rows {
					marker := " "
					if r.Current {
						marker = "*"
					}
					if _, err := fmt.Fprintf(out, "%s %s\n", marker, r.Name); err != nil {
						return err
					}
				}
				return nil
			})
		}),
	}
}

func newAuthUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Switch the current profile",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			names, err := config.ListProfiles()
			if err != nil {
				return err
			}
			if !slices.Contains(names, name) {
				msg := fmt.Sprintf("profile %q not found", name)
				if near := suggestCommand(name, names); near != "" {
					msg += fmt.Sprintf(" (did you mean %q?)", near)
				}
				return errors.New(msg)
			}
			if err := config.SetCurrentProfile(name); err != nil {
				return err
			}
			ioStreams := iocontext.GetIO(cmd.Context())
			_, _ = fmt.Fprintf(ioStreams.Out, "Now using profile %s.\n", name)
			if envTokenSet() {
				_, _ = fmt.Fprintln(ioStreams.ErrOut, "Note: BOT_TOKEN is set and takes precedence over stored profiles.")
			}
			return nil
		}),
	}
}

// envTokenSet reports whether BOT_TOKEN overrides stored profiles.
func envTokenSet() bool {
	return strings.TrimSpace(os.Getenv("BOT_TOKEN")) != ""
}
