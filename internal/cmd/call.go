package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/botwire/botwire/internal/api"
	"github.com/botwire/botwire/internal/dryrun"
	"github.com/botwire/botwire/internal/iocontext"
	"github.com/botwire/botwire/internal/payloads"
	"github.com/botwire/botwire/internal/resolve"
	"github.com/botwire/botwire/internal/types"
	"github.com/botwire/botwire/internal/validation"
)

func newCallCmd() *cobra.Command {
	var (
		fields    []string
		rawFields []string
		uploads   []string
		body      string
	)

	cmd := &cobra.Command{
		Use:   "call <method>",
		Short: "Call any Bot API method",
		Long: strings.TrimSpace(`
Call any Bot API method and print the raw result.

Parameters are built from, in order:
  -d/--data     a JSON object (literal, @file or @- for stdin)
  -f/--field    key=value, sent as a string
  -F/--raw-field key=value, where value is parsed as JSON

With -u/--upload field=path the request is sent as multipart/form-data and
the file is read from disk. Method names are matched case-insensitively
against the known catalogue; unknown names are sent as given.
`),
		Example: strings.TrimSpace(`
  botctl call getMe
  botctl call sendChatAction -f chat_id=123456789 -f action=typing
  botctl call sendPoll -F chat_id=123456789 -f question=Lunch? -F 'options=["Pizza","Sushi"]'
  botctl call sendVoice -f chat_id=123456789 -u voice=./note.ogg
  botctl call setMyCommands -d @commands.json
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			method := strings.TrimSpace(args[0])
			if err := validation.ValidateMethodName(method); err != nil {
				return err
			}
			catalogue := payloads.PlatformMethods()
			if canonical, ok := resolve.Canonical(method, catalogue); ok {
				method = canonical
			}

			var data []byte
			if body != "" {
				var err error
				if data, err = iocontext.ReadArg(cmd.Context(), body); err != nil {
					return err
				}
				if err := validation.ValidateJSONPayload(string(data)); err != nil {
					return err
				}
			}
			params, err := buildRequestBody(data, fields, rawFields)
			if err != nil {
				return err
			}

			bot, err := getBot(cmd)
			if err != nil {
				return err
			}
			if dryrun.IsEnabled(cmd.Context()) {
				return previewUploadCall(cmd, bot, method, params, uploads)
			}
			ctx, cancel := cmdContext(cmd)
			defer cancel()

			var result json.RawMessage
			if len(uploads) > 0 {
				p, err := buildMultipartCall(method, params, uploads)
				if err != nil {
					return err
				}
				result, err = p.Send(ctx, bot)
				if err != nil {
					return withMethodSuggestion(err, method, catalogue)
				}
			} else {
				result, err = api.NewRawPayload(method, params).Send(ctx, bot)
				if err != nil {
					return withMethodSuggestion(err, method, catalogue)
				}
			}
			return printJSON(cmd, result)
		}),
	}
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "Add a string parameter (key=value)")
	cmd.Flags().StringArrayVarP(&rawFields, "raw-field", "F", nil, "Add a JSON parameter (key=json)")
	cmd.Flags().StringArrayVarP(&uploads, "upload", "u", nil, "Upload a local file (field=path)")
	cmd.Flags().StringVarP(&body, "data", "d", "", "JSON object of parameters (literal, @file or @-)")
	return cmd
}

// buildRequestBody merges a JSON object with string and JSON fields. Fields
// override keys from the object.
func buildRequestBody(data []byte, fields, rawFields []string) (map[string]any, error) {
	body := make(map[string]any)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("failed to parse --data JSON: %w", err)
		}
	}

	for _, field := range fields {
		key, value, err := parseField(field)
		if err != nil {
			return nil, err
		}
		body[key] = value
	}
	for _, field := range rawFields {
		key, value, err := parseRawField(field)
		if err != nil {
			return nil, err
		}
		body[key] = value
	}
	return body, nil
}

// parseField parses a key=value field with a string value.
func parseField(field string) (string, string, error) {
	key, value, ok := strings.Cut(field, "=")
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid field format %q: must be key=value", field)
	}
	return key, value, nil
}

// parseRawField parses a key=value field where value is JSON
func parseRawField(field string) (string, any, error) {
	key, raw, ok := strings.Cut(field, "=")
	if !ok || key == "" {
		return "", nil, fmt.Errorf("invalid raw field format %q: must be key=value", field)
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return "", nil, fmt.Errorf("invalid JSON in raw field %q: %w", key, err)
	}
	return key, value, nil
}

// buildMultipartCall turns parameters and field=path uploads into a multipart
// payload. Parameters are emitted in key order so requests are reproducible.
func buildMultipartCall(method string, params map[string]any, uploads []string) (api.RawMultipartPayload, error) {
	p := api.NewRawMultipartPayload(method)
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		p = p.With(k, params[k])
	}
	for _, u := range uploads {
		name, path, ok := strings.Cut(u, "=")
		if !ok || name == "" || path == "" {
			return p, fmt.Errorf("invalid upload %q: must be field=path", u)
		}
		if _, dup := params[name]; dup {
			return p, fmt.Errorf("upload field %q is also set as a parameter", name)
		}
		p = p.With(name, types.FileFromPath(path))
	}
	return p, nil
}

// previewUploadCall previews a call. Uploads are shown as attach markers; the
// files are not opened.
func previewUploadCall(cmd *cobra.Command, bot api.Bot, method string, params map[string]any, uploads []string) error {
	shown := make(map[string]any, len(params)+len(uploads))
	for k, v := range params {
		shown[k] = v
	}
	for _, u := range uploads {
		name, path, ok := strings.Cut(u, "=")
		if !ok || name == "" || path == "" {
			return fmt.Errorf("invalid upload %q: must be field=path", u)
		}
		shown[name] = "<file " + path + ">"
	}
	_, err := previewCall(cmd, bot, api.NewRawPayload(method, shown))
	return err
}

// unknownMethodError is an API error for a method name the platform does not
// know, carrying close catalogue names.
type unknownMethodError struct {
	err         error
	suggestions []string
}

func (e *unknownMethodError) Error() string {
	return fmt.Sprintf("%v (did you mean %s?)", e.err, strings.Join(e.suggestions, ", "))
}

func (e *unknownMethodError) Unwrap() error { return e.err }

// withMethodSuggestion adds a "did you mean" hint when the platform rejected
// an unknown method name.
func withMethodSuggestion(err error, method string, catalogue []string) error {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusNotFound {
		return err
	}
	if slices.Contains(catalogue, method) {
		return err
	}
	suggestions := suggestMethods(method, catalogue)
	if len(suggestions) == 0 {
		return err
	}
	return &unknownMethodError{err: err, suggestions: suggestions}
}

func newMethodsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "methods [filter]",
		Short: "List Bot API methods",
		Long: strings.TrimSpace(`
List the methods with a typed command in this build. With --all, list the
whole Bot API catalogue usable through "botctl call". A filter argument
ranks the list by fuzzy match.
`),
		Args: cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			names := payloads.Methods()
			if all {
				names = payloads.PlatformMethods()
			}
			if len(args) == 1 {
				names = resolve.Suggest(args[0], names, len(names))
			}
			return render(cmd, names, func(out io.Writer) error {
				if !all {
					for _, n := range names {
						if _, err := fmt.Fprintln(out, n); err != nil {
							return err
						}
					}
					return nil
				}
				w := newTabWriter(out)
				_, _ = fmt.Fprintln(w, "METHOD\tCOMMAND")
				for _, n := range names {
					typed := "call"
					if payloads.IsKnownMethod(n) {
						typed = "typed"
					}
					_, _ = fmt.Fprintf(w, "%s\t%s\n", n, typed)
				}
				return w.Flush()
			})
		}),
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include methods without a typed command")
	return cmd
}
