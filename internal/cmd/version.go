package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/botwire/botwire/internal/api"
	"github.com/botwire/botwire/internal/update"
)

// version is set at build time via ldflags
var version = "dev"

// newUpdateChecker is replaced in tests.
var newUpdateChecker = func() *update.Checker {
	return update.NewChecker(api.DefaultUserAgent + "/" + version)
}

func newVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			info := map[string]any{
				"version": version,
				"go":      runtime.Version(),
			}
			var result *update.Result
			if check {
				ctx, cancel := cmdContext(cmd)
				defer cancel()
				var err error
				if result, err = newUpdateChecker().Check(ctx, version); err != nil {
					return err
				}
				info["update"] = result
			}

			return render(cmd, info, func(out io.Writer) error {
				_, _ = fmt.Fprintf(out, "botctl version %s (%s)\n", version, runtime.Version())
				if result == nil {
					return nil
				}
				if !result.Available {
					_, err := fmt.Fprintf(out, "Up to date (latest %s)\n", result.Latest)
					return err
				}
				_, _ = fmt.Fprintf(out, "\nUpdate available: %s -> %s\n", result.Current, result.Latest)
				_, err := fmt.Fprintf(out, "Download: %s\n", result.URL)
				return err
			})
		}),
	}
	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub for a newer release")
	return cmd
}
