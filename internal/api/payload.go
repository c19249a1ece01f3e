package api

// Payload is implemented by every remote operation.
type Payload interface {
	// MethodName is the wire name of the operation, e.g. "sendMessage".
	MethodName() string
}

// JSONPayload is a Payload sent as a JSON body whose result decodes into O.
// Implementations embed JSON[O].
type JSONPayload[O any] interface {
	Payload
	jsonOutput(*O)
}

// MultipartPayload is a Payload sent as multipart/form-data whose result
// decodes into O. Implementations embed Multipart[O].
type MultipartPayload[O any] interface {
	Payload
	multipartOutput(*O)
}

// JSON marks a payload as JSON-encoded with output type O. Embed it with a
// `json:"-"` tag:
//
//	type GetMe struct {
//		api.JSON[types.User] `json:"-"`
//	}
type JSON[O any] struct{}

func (JSON[O]) jsonOutput(*O) {}

// Multipart marks a payload as multipart-encoded with output type O.
type Multipart[O any] struct{}

func (Multipart[O]) multipartOutput(*O) {}

// FormValuer is implemented by values with a dedicated multipart text form.
type FormValuer interface {
	FormValue() string
}
