package types

// InputMedia is one element of a media group.
type InputMedia struct {
	Type      string     `json:"type"`
	Media     InputFile  `json:"media"`
	Caption   string     `json:"caption,omitempty"`
	ParseMode ParseMode  `json:"parse_mode,omitempty"`
	Thumbnail *InputFile `json:"thumbnail,omitempty"`
}

const (
	MediaPhoto    = "photo"
	MediaVideo    = "video"
	MediaDocument = "document"
	MediaAudio    = "audio"
)

func NewInputMediaPhoto(f InputFile) InputMedia    { return InputMedia{Type: MediaPhoto, Media: f} }
func NewInputMediaVideo(f InputFile) InputMedia    { return InputMedia{Type: MediaVideo, Media: f} }
func NewInputMediaDocument(f InputFile) InputMedia { return InputMedia{Type: MediaDocument, Media: f} }
func NewInputMediaAudio(f InputFile) InputMedia    { return InputMedia{Type: MediaAudio, Media: f} }

// WithCaption returns a copy with the caption and parse mode set.
func (m InputMedia) WithCaption(caption string, mode ParseMode) InputMedia {
	m.Caption = caption
	m.ParseMode = mode
	return m
}

// WithThumbnail returns a copy with a thumbnail attached.
func (m InputMedia) WithThumbnail(f InputFile) InputMedia {
	m.Thumbnail = &f
	return m
}
