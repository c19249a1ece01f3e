package payloads

import "slices"

// platformMethods is the Bot API method catalogue, including methods without
// a typed payload here. The call command resolves names against it.
var platformMethods = []string{
	"addStickerToSet", "answerCallbackQuery", "answerInlineQuery",
	"answerPreCheckoutQuery", "answerShippingQuery", "answerWebAppQuery",
	"approveChatJoinRequest", "banChatMember", "banChatSenderChat",
	"close", "closeForumTopic", "closeGeneralForumTopic", "copyMessage",
	"copyMessages", "createChatInviteLink", "createForumTopic",
	"createInvoiceLink", "createNewStickerSet", "declineChatJoinRequest",
	"deleteChatPhoto", "deleteChatStickerSet", "deleteForumTopic",
	"deleteMessage", "deleteMessages", "deleteMyCommands",
	"deleteStickerFromSet", "deleteStickerSet", "deleteWebhook",
	"editChatInviteLink", "editForumTopic", "editGeneralForumTopic",
	"editMessageCaption", "editMessageLiveLocation", "editMessageMedia",
	"editMessageReplyMarkup", "editMessageText", "exportChatInviteLink",
	"forwardMessage", "forwardMessages", "getChat", "getChatAdministrators",
	"getChatMember", "getChatMemberCount", "getChatMenuButton",
	"getCustomEmojiStickers", "getFile", "getForumTopicIconStickers",
	"getGameHighScores", "getMe", "getMyCommands",
	"getMyDefaultAdministratorRights", "getMyDescription", "getMyName",
	"getMyShortDescription", "getStickerSet", "getUpdates",
	"getUserChatBoosts", "getUserProfilePhotos", "getWebhookInfo",
	"hideGeneralForumTopic", "leaveChat", "logOut", "pinChatMessage",
	"promoteChatMember", "reopenForumTopic", "reopenGeneralForumTopic",
	"restrictChatMember", "revokeChatInviteLink", "sendAnimation",
	"sendAudio", "sendChatAction", "sendContact", "sendDice",
	"sendDocument", "sendGame", "sendInvoice", "sendLocation",
	"sendMediaGroup", "sendMessage", "sendPhoto", "sendPoll",
	"sendSticker", "sendVenue", "sendVideo", "sendVideoNote", "sendVoice",
	"setChatAdministratorCustomTitle", "setChatDescription",
	"setChatMenuButton", "setChatPermissions", "setChatPhoto",
	"setChatStickerSet", "setChatTitle", "setCustomEmojiStickerSetThumbnail",
	"setGameScore", "setMessageReaction", "setMyCommands",
	"setMyDefaultAdministratorRights", "setMyDescription", "setMyName",
	"setMyShortDescription", "setPassportDataErrors", "setStickerEmojiList",
	"setStickerKeywords", "setStickerMaskPosition", "setStickerPositionInSet",
	"setStickerSetThumbnail", "setStickerSetTitle", "setWebhook",
	"stopMessageLiveLocation", "stopPoll", "unbanChatMember",
	"unbanChatSenderChat", "unhideGeneralForumTopic", "unpinAllChatMessages",
	"unpinAllForumTopicMessages", "unpinAllGeneralForumTopicMessages",
	"unpinChatMessage", "uploadStickerFile",
}

// PlatformMethods returns every Bot API method name known to this build,
// sorted. It is a superset of Methods.
func PlatformMethods() []string {
	out := slices.Clone(platformMethods)
	slices.Sort(out)
	return out
}
