package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSendPhotoUploadsLocalFile(t *testing.T) {
	api := setupBotAPI(t)
	api.OK("sendPhoto", testMessage)
	path := writeTempFile(t, "chart.png", "\x89PNG\r\n\x1a\nfake")

	res := runCLI(t, "", "send-photo", "777", path, "--caption", "Weekly", "--spoiler")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Sent message 42")

	call := api.Last()
	assert.True(t, strings.HasPrefix(call.ContentType, "multipart/form-data"))
	assert.Equal(t, []string{"777"}, call.Form["chat_id"])
	assert.Equal(t, []string{"Weekly"}, call.Form["caption"])
	assert.Equal(t, []string{"true"}, call.Form["has_spoiler"])
	assert.Equal(t, "chart.png", call.Files["photo"])
}

func TestSendPhotoByURLIsNotUploaded(t *testing.T) {
	api := setupBotAPI(t)
	api.OK("sendPhoto", testMessage)

	res := runCLI(t, "", "send-photo", "777", "https://example.com/cat.jpg")
	require.NoError(t, res.err)

	call := api.Last()
	assert.Equal(t, []string{"https://example.com/cat.jpg"}, call.Form["photo"])
	assert.Empty(t, call.Files)
}

func TestSendPhotoFromStdin(t *testing.T) {
	api := setupBotAPI(t)
	api.OK("sendPhoto", testMessage)

	res := runCLI(t, "GIF89a-data", "send-photo", "777", "-", "--filename", "cat.gif")
	require.NoError(t, res.err)
	assert.Equal(t, "cat.gif", api.Last().Files["photo"])
}

func TestSendDocumentWithThumb(t *testing.T) {
	api := setupBotAPI(t)
	api.OK("sendDocument", testMessage)
	doc := writeTempFile(t, "report.pdf", "%PDF-1.4 fake")
	thumb := writeTempFile(t, "thumb.jpg", "\xff\xd8\xff fake")

	res := runCLI(t, "", "send-file", "777", doc, "--thumb", thumb, "--no-detect")
	require.NoError(t, res.err)

	call := api.Last()
	assert.Equal(t, "report.pdf", call.Files["document"])
	assert.Equal(t, "thumb.jpg", call.Files["thumbnail"])
	assert.Equal(t, []string{"true"}, call.Form["disable_content_type_detection"])
}

func TestSendDocumentRejectsDoubleStdin(t *testing.T) {
	setupBotAPI(t)

	res := runCLI(t, "x", "send-document", "777", "-", "--thumb", "-")
	require.Error(t, res.err)
	assert.Contains(t, res.errOut, "cannot both be read from stdin")
}

func TestSendAlbum(t *testing.T) {
	api := setupBotAPI(t)
	api.OK("sendMediaGroup", `[`+testMessage+`,`+strings.Replace(testMessage, `"message_id":42`, `"message_id":43`, 1)+`]`)
	local := writeTempFile(t, "a.jpg", "\xff\xd8\xff fake")

	res := runCLI(t, "", "send-album", "777", local, "AgACAgIAAxkBAAI", "--caption", "Trip")
	require.NoError(t, res.err)
	assert.Contains(t, res.out, "Sent album of 2")
	assert.Contains(t, res.out, "42, 43")

	call := api.Last()
	require.Len(t, call.Form["media"], 1)
	var media []map[string]any
	require.NoError(t, json.Unmarshal([]byte(call.Form["media"][0]), &media))
	require.Len(t, media, 2)
	assert.Equal(t, "photo", media[0]["type"])
	assert.Equal(t, "Trip", media[0]["caption"])
	assert.True(t, strings.HasPrefix(media[0]["media"].(string), "attach://"))
	assert.Equal(t, "AgACAgIAAxkBAAI", media[1]["media"])
	assert.Len(t, call.Files, 1)
}

func TestSendAlbumValidation(t *testing.T) {
	setupBotAPI(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"too many", append([]string{"send-album", "777"}, strings.Split("a b c d e f g h i j k", " ")...), "an album needs"},
		{"bad type", []string{"send-album", "777", "a", "b", "--type", "sticker"}, "invalid --type"},
		{"stdin", []string{"send-album", "777", "a", "-"}, "cannot be read from stdin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			require.Error(t, res.err)
			assert.Contains(t, res.errOut, tt.want)
		})
	}
}
