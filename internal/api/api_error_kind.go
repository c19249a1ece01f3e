package api

import "strings"

// APIErrorKind classifies well-known API error descriptions.
type APIErrorKind string

const (
	KindUnknown                 APIErrorKind = "unknown"
	KindInvalidToken            APIErrorKind = "invalid_token"
	KindBotBlocked              APIErrorKind = "bot_blocked"
	KindBotKicked               APIErrorKind = "bot_kicked"
	KindUserDeactivated         APIErrorKind = "user_deactivated"
	KindChatNotFound            APIErrorKind = "chat_not_found"
	KindUserNotFound            APIErrorKind = "user_not_found"
	KindMessageNotModified      APIErrorKind = "message_not_modified"
	KindMessageToEditNotFound   APIErrorKind = "message_to_edit_not_found"
	KindMessageToDeleteNotFound APIErrorKind = "message_to_delete_not_found"
	KindMessageCantBeDeleted    APIErrorKind = "message_cant_be_deleted"
	KindMessageTextEmpty        APIErrorKind = "message_text_empty"
	KindWrongFileID             APIErrorKind = "wrong_file_id"
	KindTooManyRequests         APIErrorKind = "too_many_requests"
	KindMigrateToChat           APIErrorKind = "migrate_to_chat"
	KindWebhookConflict         APIErrorKind = "webhook_conflict"
	KindGetUpdatesConflict      APIErrorKind = "terminated_by_other_get_updates"
)

// Matched against the lowercased description, first match wins.
var apiErrorPrefixes = []struct {
	prefix string
	kind   APIErrorKind
}{
	{"unauthorized", KindInvalidToken},
	{"not found", KindInvalidToken},
	{"forbidden: bot was blocked by the user", KindBotBlocked},
	{"forbidden: bot was kicked", KindBotKicked},
	{"forbidden: user is deactivated", KindUserDeactivated},
	{"bad request: chat not found", KindChatNotFound},
	{"bad request: user not found", KindUserNotFound},
	{"bad request: message is not modified", KindMessageNotModified},
	{"bad request: message to edit not found", KindMessageToEditNotFound},
	{"bad request: message to delete not found", KindMessageToDeleteNotFound},
	{"bad request: message can't be deleted", KindMessageCantBeDeleted},
	{"bad request: message text is empty", KindMessageTextEmpty},
	{"bad request: wrong file identifier", KindWrongFileID},
	{"bad request: wrong file_id", KindWrongFileID},
	{"too many requests", KindTooManyRequests},
	{"bad request: group chat was upgraded to a supergroup chat", KindMigrateToChat},
	{"conflict: can't use getupdates method while webhook is active", KindWebhookConflict},
	{"conflict: terminated by other getupdates request", KindGetUpdatesConflict},
}

// ClassifyAPIError maps an error code and description to an APIErrorKind.
func ClassifyAPIError(code int, description string) APIErrorKind {
	desc := strings.ToLower(strings.TrimSpace(description))
	for _, p := range apiErrorPrefixes {
		if strings.HasPrefix(desc, p.prefix) {
			return p.kind
		}
	}
	if code == 429 {
		return KindTooManyRequests
	}
	return KindUnknown
}
