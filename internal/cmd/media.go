package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/botwire/botwire/internal/iocontext"
	"github.com/botwire/botwire/internal/payloads"
	"github.com/botwire/botwire/internal/types"
	"github.com/botwire/botwire/internal/validation"
)

const fileArgHelp = `<file> is a local path, an http(s) URL the platform fetches itself, or the
file_id of a file already on the platform. Pass "-" to upload stdin.`

// parseFileArg interprets a command-line file reference. "-" uploads stdin
// under name.
func parseFileArg(cmd *cobra.Command, s, name string) types.InputFile {
	if s == "-" {
		return types.FileFromReader(name, iocontext.GetIO(cmd.Context()).In)
	}
	return types.ParseInputFile(s)
}

func newSendPhotoCmd() *cobra.Command {
	var opts sendOptions
	var caption, filename string
	var spoiler bool

	cmd := &cobra.Command{
		Use:   "send-photo <chat> <file>",
		Short: "Send a photo (sendPhoto)",
		Long:  "Send a photo.\n\n" + fileArgHelp,
		Example: strings.TrimSpace(`
  botctl send-photo 123456789 ./chart.png --caption "Weekly stats"
  botctl send-photo @mychannel https://example.com/cat.jpg
  curl -s https://example.com/cat.jpg | botctl send-photo 123456789 - --filename cat.jpg
`),
		Args: cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			chat, err := parseChatArg(args[0])
			if err != nil {
				return err
			}
			if err := validation.ValidateCaption(caption); err != nil {
				return err
			}
			mode, err := opts.validate()
			if err != nil {
				return err
			}

			p := payloads.NewSendPhoto(chat, parseFileArg(cmd, args[1], filename))
			if caption != "" {
				p = p.Caption(caption)
			}
			if mode != "" {
				p = p.ParseMode(mode)
			}
			if spoiler {
				p = p.Spoiler(true)
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

			bot, err := getBot(cmd)
			if err != nil {
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
	cmd.Flags().StringVar(&caption, "caption", "", "Photo caption")
	cmd.Flags().StringVar(&filename, "filename", "photo.jpg", "File name used when uploading stdin")
	cmd.Flags().BoolVar(&spoiler, "spoiler", false, "Cover the photo with a spoiler animation")
	return cmd
}

func newSendDocumentCmd() *cobra.Command {
	var opts sendOptions
	var caption, filename, thumb string
	var noDetect bool

	cmd := &cobra.Command{
		Use:     "send-document <chat> <file>",
		Aliases: []string{"send-file"},
		Short:   "Send a general file (sendDocument)",
		Long:    "Send a general file.\n\n" + fileArgHelp,
		Args:    cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			chat, err := parseChatArg(args[0])
			if err != nil {
				return err
			}
			if err := validation.ValidateCaption(caption); err != nil {
				return err
			}
			mode, err := opts.validate()
			if err != nil {
				return err
			}

			p := payloads.NewSendDocument(chat, parseFileArg(cmd, args[1], filename))
			if thumb != "" {
				if thumb == "-" && args[1] == "-" {
					return fmt.Errorf("--thumb and the document cannot both be read from stdin")
				}
				p = p.Thumb(parseFileArg(cmd, thumb, "thumb.jpg"))
			}
			if caption != "" {
				p = p.Caption(caption)
			}
			if mode != "" {
				p = p.ParseMode(mode)
			}
			if noDetect {
				p = p.DisableDetection(true)
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

			bot, err := getBot(cmd)
			if err != nil {
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
	cmd.Flags().StringVar(&caption, "caption", "", "Document caption")
	cmd.Flags().StringVar(&filename, "filename", "document", "File name used when uploading stdin")
	cmd.Flags().StringVar(&thumb, "thumb", "", "Thumbnail image (path, URL or file_id)")
	cmd.Flags().BoolVar(&noDetect, "no-detect", false, "Disable server-side content type detection")
	return cmd
}

var albumMediaTypes = map[string]func(types.InputFile) types.InputMedia{
	types.MediaPhoto:    types.NewInputMediaPhoto,
	types.MediaVideo:    types.NewInputMediaVideo,
	types.MediaDocument: types.NewInputMediaDocument,
	types.MediaAudio:    types.NewInputMediaAudio,
}

func newSendAlbumCmd() *cobra.Command {
	var opts sendOptions
	var mediaType, caption string

	cmd := &cobra.Command{
		Use:   "send-album <chat> <file> <file>...",
		Short: "Send 2-10 files as one album (sendMediaGroup)",
		Long: strings.TrimSpace(`
Send 2-10 files as one album. Every <file> is a local path, an http(s) URL or
a file_id. The caption is attached to the first item.
`),
		Example: strings.TrimSpace(`
  botctl send-album 123456789 a.jpg b.jpg c.jpg --caption "Trip"
  botctl send-album 123456789 report.pdf data.csv --type document
`),
		Args: cobra.MinimumNArgs(3),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			chat, err := parseChatArg(args[0])
			if err != nil {
				return err
			}
			files := args[1:]
			if err := validation.ValidateMediaGroupSize(len(files)); err != nil {
				return err
			}
			if err := validation.ValidateCaption(caption); err != nil {
				return err
			}
			newMedia, ok := albumMediaTypes[strings.ToLower(mediaType)]
			if !ok {
				return fmt.Errorf("invalid --type %q: must be photo, video, document or audio", mediaType)
			}
			mode, err := opts.validate()
			if err != nil {
				return err
			}

			media := make([]types.InputMedia, len(files))
			for i, f := range files {
				if f == "-" {
					return fmt.Errorf("albums cannot be read from stdin")
				}
				media[i] = newMedia(types.ParseInputFile(f))
			}
			if caption != "" {
				media[0] = media[0].WithCaption(caption, mode)
			}

			p := payloads.NewSendMediaGroup(chat, media)
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

			bot, err := getBot(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			msgs, err := p.Send(ctx, bot)
			if err != nil {
				return err
			}
			return render(cmd, msgs, func(out io.Writer) error {
				ids := make([]string, len(msgs))
				for i, m := range msgs {
					ids[i] = fmt.Sprint(m.MessageID)
				}
				label := chat.String()
				if len(msgs) > 0 {
					label = chatLabel(msgs[0].Chat)
				}
				_, err := fmt.Fprintf(out, "Sent album of %d to %s (messages %s)\n", len(msgs), label, strings.Join(ids, ", "))
				return err
			})
		}),
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&mediaType, "type", types.MediaPhoto, "Media type of every item: photo, video, document or audio")
	cmd.Flags().StringVar(&caption, "caption", "", "Caption for the first item")
	return cmd
}
