package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/botwire/botwire/internal/iocontext"
	"github.com/botwire/botwire/internal/outfmt"
	"github.com/botwire/botwire/internal/payloads"
)

func newProfilePhotosCmd() *cobra.Command {
	var offset, limit int

	cmd := &cobra.Command{
		Use:   "profile-photos <user-id>",
		Short: "List a user's profile pictures (getUserProfilePhotos)",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || userID <= 0 {
				return fmt.Errorf("invalid user ID %q: must be a positive integer", args[0])
			}
			if offset < 0 {
				return fmt.Errorf("--offset must be >= 0")
			}
			if limit < 0 || limit > 100 {
				return fmt.Errorf("--limit must be between 1 and 100")
			}

			p := payloads.NewGetUserProfilePhotos(userID)
			if offset > 0 {
				p = p.Offset(offset)
			}
			if limit > 0 {
				p = p.Limit(limit)
			}

			bot, err := getBot(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			photos, err := p.Send(ctx, bot)
			if err != nil {
				return err
			}

			ioStreams := iocontext.GetIO(cmd.Context())
			f := outfmt.NewFormatter(cmd.Context(), ioStreams.Out, ioStreams.ErrOut)
			if f.Structured() {
				return f.Output(photos)
			}
			if len(photos.Photos) == 0 {
				f.Empty("No profile photos")
				return nil
			}
			f.StartTable("#", "SIZE", "FILE ID")
			for i, sizes := range photos.Photos {
				if len(sizes) == 0 {
					continue
				}
				largest := sizes[len(sizes)-1]
				f.Row(strconv.Itoa(offset+i+1), fmt.Sprintf("%dx%d", largest.Width, largest.Height), largest.FileID)
			}
			if err := f.EndTable(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(ioStreams.ErrOut, "%d of %d photos\n", len(photos.Photos), photos.TotalCount)
			return nil
		}),
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of photos to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum photos to return (1-100, default 100)")
	return cmd
}

func newFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "file <file-id>",
		Short: "Show download information for a file (getFile)",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			bot, err := getBot(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			file, err := payloads.NewGetFile(args[0]).Send(ctx, bot)
			if err != nil {
				return err
			}
			return render(cmd, file, func(out io.Writer) error {
				w := newTabWriter(out)
				_, _ = fmt.Fprintf(w, "File ID:\t%s\n", file.FileID)
				_, _ = fmt.Fprintf(w, "Unique ID:\t%s\n", file.FileUniqueID)
				_, _ = fmt.Fprintf(w, "Size:\t%d\n", file.FileSize)
				_, _ = fmt.Fprintf(w, "Path:\t%s\n", file.FilePath)
				return w.Flush()
			})
		}),
	}
}
