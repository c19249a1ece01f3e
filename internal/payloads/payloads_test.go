package payloads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botwire/botwire/internal/api"
	"github.com/botwire/botwire/internal/types"
)

const testToken = "42:test-token"

type request struct {
	method string
	json   map[string]any
	parts  []string
	values map[string]string
}

// newTestBot serves every call with the given result and records requests.
func newTestBot(t *testing.T, result string) (api.Bot, *[]request) {
	t.Helper()
	var requests []request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := request{method: r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:], values: map[string]string{}}
		body, _ := io.ReadAll(r.Body)
		mediaType, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mediaType == "multipart/form-data" {
			reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
			for {
				p, err := reader.NextPart()
				if err != nil {
					break
				}
				data, _ := io.ReadAll(p)
				req.parts = append(req.parts, p.FormName())
				req.values[p.FormName()] = string(data)
			}
		} else {
			_ = json.Unmarshal(body, &req.json)
		}
		requests = append(requests, req)
		_, _ = w.Write([]byte(`{"ok":true,"result":` + result + `}`))
	}))
	t.Cleanup(server.Close)

	u, _ := url.Parse(server.URL)
	return api.WithClient(testToken, server.Client()).SetAPIURL(u), &requests
}

func TestMethodsSorted(t *testing.T) {
	m := Methods()
	assert.True(t, sort.StringsAreSorted(m))
	assert.Contains(t, m, "sendMediaGroup")

	m[0] = "mutated"
	assert.NotEqual(t, "mutated", Methods()[0])

	assert.True(t, IsKnownMethod("SENDMESSAGE"))
	assert.False(t, IsKnownMethod("sendMesage"))
}

func TestMethodNamesMatchCatalogue(t *testing.T) {
	names := []string{
		NewGetMe().MethodName(),
		NewSendMessage(types.ID(1), "").MethodName(),
		NewForwardMessage(types.ID(1), types.ID(2), 3).MethodName(),
		NewDeleteMessage(types.ID(1), 2).MethodName(),
		NewGetUserProfilePhotos(1).MethodName(),
		NewGetFile("x").MethodName(),
		NewSetWebhook("https://x").MethodName(),
		NewDeleteWebhook().MethodName(),
		NewGetWebhookInfo().MethodName(),
		NewSendPhoto(types.ID(1), types.FileFromID("x")).MethodName(),
		NewSendDocument(types.ID(1), types.FileFromID("x")).MethodName(),
		NewSendMediaGroup(types.ID(1), nil).MethodName(),
	}
	sort.Strings(names)
	assert.Equal(t, Methods(), names)
}

func TestGetMe(t *testing.T) {
	bot, requests := newTestBot(t, `{"id":42,"is_bot":true,"first_name":"Test","username":"test_bot"}`)

	me, err := NewGetMe().Send(context.Background(), bot)
	require.NoError(t, err)

	assert.Equal(t, int64(42), me.ID)
	assert.True(t, me.IsBot)
	assert.Equal(t, "test_bot", me.Username)
	require.Len(t, *requests, 1)
	assert.Equal(t, "getMe", (*requests)[0].method)
	assert.Empty(t, (*requests)[0].json)
}

func TestSendMessage_OmitsUnsetOptionals(t *testing.T) {
	data, err := json.Marshal(NewSendMessage(types.ID(42), "hi"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"chat_id":42,"text":"hi"}`, string(data))
	assert.NotContains(t, string(data), "null")
}

func TestSendMessage_SettersReturnCopies(t *testing.T) {
	base := NewSendMessage(types.Username("news"), "hi")
	configured := base.ParseMode(types.ParseModeMarkdownV2).Silent(true).ReplyTo(9).MessageThread(3)

	baseJSON, _ := json.Marshal(base)
	assert.JSONEq(t, `{"chat_id":"@news","text":"hi"}`, string(baseJSON))

	data, err := json.Marshal(configured)
	require.NoError(t, err)
	assert.JSONEq(t, `{"chat_id":"@news","text":"hi","parse_mode":"MarkdownV2","disable_notification":true,"reply_to_message_id":9,"message_thread_id":3}`, string(data))
}

func TestSendMessage_FalseOptionalIsSent(t *testing.T) {
	data, err := json.Marshal(NewSendMessage(types.ID(1), "x").DisablePreview(false))
	require.NoError(t, err)
	assert.JSONEq(t, `{"chat_id":1,"text":"x","disable_web_page_preview":false}`, string(data))
}

func TestSendMessage_RoundTrip(t *testing.T) {
	bot, requests := newTestBot(t, `{"message_id":5,"date":1700000000,"chat":{"id":42,"type":"private"},"text":"hi"}`)

	msg, err := NewSendMessage(types.ID(42), "hi").Protect(true).AllowWithoutReply(true).Send(context.Background(), bot)
	require.NoError(t, err)

	assert.Equal(t, 5, msg.MessageID)
	assert.Equal(t, int64(42), msg.Chat.ID)
	assert.Equal(t, "hi", msg.Text)
	req := (*requests)[0]
	assert.Equal(t, "sendMessage", req.method)
	assert.Equal(t, true, req.json["protect_content"])
	assert.Equal(t, true, req.json["allow_sending_without_reply"])
}

func TestForwardAndDelete(t *testing.T) {
	bot, requests := newTestBot(t, `true`)

	ok, err := NewDeleteMessage(types.ID(1), 77).Send(context.Background(), bot)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"chat_id": float64(1), "message_id": float64(77)}, (*requests)[0].json)

	data, err := json.Marshal(NewForwardMessage(types.ID(1), types.Username("src"), 5).Silent(true))
	require.NoError(t, err)
	assert.JSONEq(t, `{"chat_id":1,"from_chat_id":"@src","message_id":5,"disable_notification":true}`, string(data))
}

func TestGetUserProfilePhotos(t *testing.T) {
	bot, requests := newTestBot(t, `{"total_count":1,"photos":[[{"file_id":"a","file_unique_id":"b","width":160,"height":160}]]}`)

	photos, err := NewGetUserProfilePhotos(7).Offset(0).Limit(1).Send(context.Background(), bot)
	require.NoError(t, err)

	assert.Equal(t, 1, photos.TotalCount)
	require.Len(t, photos.Photos, 1)
	assert.Equal(t, "a", photos.Photos[0][0].FileID)
	assert.Equal(t, map[string]any{"user_id": float64(7), "offset": float64(0), "limit": float64(1)}, (*requests)[0].json)
}

func TestGetFile(t *testing.T) {
	bot, _ := newTestBot(t, `{"file_id":"a","file_unique_id":"b","file_path":"photos/file_1.jpg"}`)

	f, err := NewGetFile("a").Send(context.Background(), bot)
	require.NoError(t, err)
	assert.Equal(t, "photos/file_1.jpg", f.FilePath)
}

func TestWebhookPayloads(t *testing.T) {
	data, err := json.Marshal(NewSetWebhook("https://example.com/hook").MaxConnections(40).AllowedUpdates("message").DropPending(true).SecretToken("s3"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"https://example.com/hook","max_connections":40,"allowed_updates":["message"],"drop_pending_updates":true,"secret_token":"s3"}`, string(data))

	data, err = json.Marshal(NewDeleteWebhook())
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	bot, _ := newTestBot(t, `{"url":"","has_custom_certificate":false,"pending_update_count":3}`)
	info, err := NewGetWebhookInfo().Send(context.Background(), bot)
	require.NoError(t, err)
	assert.Equal(t, 3, info.PendingUpdateCount)
}

func TestSendPhoto_PartOrder(t *testing.T) {
	bot, requests := newTestBot(t, `{"message_id":1,"date":0,"chat":{"id":1,"type":"private"}}`)

	_, err := NewSendPhoto(types.ID(1), types.FileFromBytes("p.jpg", []byte("jpeg"))).
		ReplyTo(4).
		Caption("look").
		Send(context.Background(), bot)
	require.NoError(t, err)

	req := (*requests)[0]
	assert.Equal(t, "sendPhoto", req.method)
	assert.Equal(t, []string{"chat_id", "photo", "caption", "reply_to_message_id"}, req.parts)
	assert.Equal(t, "jpeg", req.values["photo"])
	assert.Equal(t, "4", req.values["reply_to_message_id"])
}

func TestSendDocument_Thumbnail(t *testing.T) {
	bot, requests := newTestBot(t, `{"message_id":1,"date":0,"chat":{"id":1,"type":"private"}}`)

	_, err := NewSendDocument(types.ID(1), types.FileFromURL("https://example.com/a.pdf")).
		Thumb(types.FileFromBytes("t.jpg", []byte("thumb"))).
		Send(context.Background(), bot)
	require.NoError(t, err)

	req := (*requests)[0]
	assert.Equal(t, []string{"chat_id", "document", "thumbnail"}, req.parts)
	assert.Equal(t, "https://example.com/a.pdf", req.values["document"])
	assert.Equal(t, "thumb", req.values["thumbnail"])
}

func TestSendMediaGroup(t *testing.T) {
	bot, requests := newTestBot(t, `[{"message_id":1,"date":0,"chat":{"id":1,"type":"private"},"media_group_id":"g"},{"message_id":2,"date":0,"chat":{"id":1,"type":"private"},"media_group_id":"g"}]`)

	a := types.FileFromBytes("a.jpg", []byte("A"))
	b := types.FileFromBytes("b.jpg", []byte("B"))
	msgs, err := NewSendMediaGroup(types.ID(1), []types.InputMedia{
		types.NewInputMediaPhoto(a),
		types.NewInputMediaPhoto(b).WithCaption("second", ""),
	}).Silent(true).Send(context.Background(), bot)
	require.NoError(t, err)

	require.Len(t, msgs, 2)
	assert.Equal(t, "g", msgs[1].MediaGroupID)

	req := (*requests)[0]
	assert.Equal(t, []string{"chat_id", "media", a.AttachID(), b.AttachID(), "disable_notification"}, req.parts)
	assert.Equal(t, "A", req.values[a.AttachID()])

	var media []map[string]any
	require.NoError(t, json.Unmarshal([]byte(req.values["media"]), &media))
	assert.Equal(t, "attach://"+b.AttachID(), media[1]["media"])
	assert.Equal(t, "second", media[1]["caption"])
}

func TestSendPhoto_MissingFile(t *testing.T) {
	bot, requests := newTestBot(t, `true`)

	_, err := NewSendPhoto(types.ID(1), types.FileFromPath("/no/such/file.jpg")).Send(context.Background(), bot)

	var formErr *api.FormError
	require.True(t, errors.As(err, &formErr))
	assert.Equal(t, "photo", formErr.Field)
	assert.Empty(t, *requests)
}

func TestPlatformMethodsCoverTypedPayloads(t *testing.T) {
	all := PlatformMethods()
	assert.True(t, sort.StringsAreSorted(all))
	for _, m := range Methods() {
		assert.Contains(t, all, m)
	}
	assert.Contains(t, all, "sendChatAction")
	assert.False(t, IsKnownMethod("sendChatAction"))
}
