package payloads

import (
	"context"

	"github.com/botwire/botwire/internal/api"
	"github.com/botwire/botwire/internal/types"
)

// GetUserProfilePhotos lists a user's profile pictures.
type GetUserProfilePhotos struct {
	api.JSON[types.UserProfilePhotos] `json:"-"`

	UserID      int64 `json:"user_id"`
	OffsetValue *int  `json:"offset,omitempty"`
	LimitValue  *int  `json:"limit,omitempty"`
}

func NewGetUserProfilePhotos(userID int64) GetUserProfilePhotos {
	return GetUserProfilePhotos{UserID: userID}
}

func (GetUserProfilePhotos) MethodName() string { return "getUserProfilePhotos" }

// Offset skips the first n photos.
func (p GetUserProfilePhotos) Offset(n int) GetUserProfilePhotos {
	p.OffsetValue = ptr(n)
	return p
}

// Limit caps the number of photos returned (1-100).
func (p GetUserProfilePhotos) Limit(n int) GetUserProfilePhotos {
	p.LimitValue = ptr(n)
	return p
}

func (p GetUserProfilePhotos) Send(ctx context.Context, b api.Bot) (types.UserProfilePhotos, error) {
	return api.ExecuteJSON[types.UserProfilePhotos](ctx, b, p)
}

// GetFile prepares a file for download and returns its file_path.
type GetFile struct {
	api.JSON[types.File] `json:"-"`

	FileID string `json:"file_id"`
}

func NewGetFile(fileID string) GetFile {
	return GetFile{FileID: fileID}
}

func (GetFile) MethodName() string { return "getFile" }

func (p GetFile) Send(ctx context.Context, b api.Bot) (types.File, error) {
	return api.ExecuteJSON[types.File](ctx, b, p)
}
