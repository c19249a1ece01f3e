package types

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type inputFileKind int

const (
	inputFileNone inputFileKind = iota
	inputFileID
	inputFileURL
	inputFilePath
	inputFileBytes
	inputFileReader
)

const attachScheme = "attach://"

// InputFile is a file to send: a file_id already stored on the platform, an
// HTTP URL the platform fetches itself, or content uploaded with the request.
//
// Uploads carry an attach id so they can be referenced from JSON-encoded
// fields (for example InputMedia) as attach://<id>.
type InputFile struct {
	kind   inputFileKind
	value  string
	name   string
	data   []byte
	reader io.Reader
	attach string
}

// FileFromID references a file already stored on the platform.
func FileFromID(fileID string) InputFile {
	return InputFile{kind: inputFileID, value: fileID}
}

// FileFromURL references a file the platform downloads itself.
func FileFromURL(rawURL string) InputFile {
	return InputFile{kind: inputFileURL, value: rawURL}
}

// FileFromPath uploads the file at path. The file is read when the request is built.
func FileFromPath(path string) InputFile {
	return InputFile{kind: inputFilePath, value: path, name: filepath.Base(path), attach: newAttachID()}
}

// FileFromBytes uploads data under the given file name.
func FileFromBytes(name string, data []byte) InputFile {
	return InputFile{kind: inputFileBytes, name: name, data: data, attach: newAttachID()}
}

// FileFromReader uploads everything read from r. The reader is consumed by the
// first request that sends the file.
func FileFromReader(name string, r io.Reader) InputFile {
	return InputFile{kind: inputFileReader, name: name, reader: r, attach: newAttachID()}
}

// ParseInputFile interprets s as an http(s) URL, an existing local path, or
// otherwise a file_id.
func ParseInputFile(s string) InputFile {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return FileFromURL(s)
	}
	if info, err := os.Stat(s); err == nil && !info.IsDir() {
		return FileFromPath(s)
	}
	return FileFromID(s)
}

func newAttachID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsZero reports whether the file was never set.
func (f InputFile) IsZero() bool {
	return f.kind == inputFileNone
}

// NeedsUpload reports whether the file content travels with the request.
func (f InputFile) NeedsUpload() bool {
	switch f.kind {
	case inputFilePath, inputFileBytes, inputFileReader:
		return true
	default:
		return false
	}
}

// AttachID returns the id used in attach:// references. Empty unless NeedsUpload.
func (f InputFile) AttachID() string {
	return f.attach
}

// FileName returns the name sent in the part's Content-Disposition header.
func (f InputFile) FileName() string {
	if f.name != "" {
		return f.name
	}
	return "file"
}

// FormValue returns the text form of the file: the file_id or URL, or an
// attach:// reference for uploads.
func (f InputFile) FormValue() string {
	if f.NeedsUpload() {
		return attachScheme + f.attach
	}
	return f.value
}

func (f InputFile) String() string {
	switch f.kind {
	case inputFileID:
		return "file_id:" + f.value
	case inputFileURL:
		return "url:" + f.value
	case inputFilePath:
		return "path:" + f.value
	case inputFileBytes, inputFileReader:
		return "upload:" + f.FileName()
	default:
		return ""
	}
}

// Read returns the upload content. It fails for files that are not uploads.
func (f InputFile) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch f.kind {
	case inputFilePath:
		data, err := os.ReadFile(f.value)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.value, err)
		}
		return data, nil
	case inputFileBytes:
		return f.data, nil
	case inputFileReader:
		if f.reader == nil {
			return nil, errors.New("nil reader")
		}
		data, err := io.ReadAll(f.reader)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.FileName(), err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%s is not an upload", f)
	}
}

func (f InputFile) MarshalJSON() ([]byte, error) {
	if f.IsZero() {
		return nil, errors.New("input file is not set")
	}
	return json.Marshal(f.FormValue())
}
