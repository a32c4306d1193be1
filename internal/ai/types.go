package ai

type Capability string

const (
	CapabilityText          Capability = "text"
	CapabilityImageGenerate Capability = "image_generate"
	CapabilityImageEdit     Capability = "image_edit"
	CapabilityTranscribe    Capability = "transcribe"
)

// Part is one fragment of a request payload: either text or a binary
// blob with a MIME type, never both.
type Part struct {
	Text string
	Data []byte
	MIME string
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func BlobPart(data []byte, mime string) Part {
	return Part{Data: data, MIME: mime}
}

// Request is built fresh for every dispatch and not retained.
type Request struct {
	Capability Capability
	Parts      []Part
}

func NewTextRequest(prompt string) Request {
	return Request{
		Capability: CapabilityText,
		Parts:      []Part{TextPart(prompt)},
	}
}

func NewVisionRequest(prompt string, image []byte, mime string) Request {
	return Request{
		Capability: CapabilityText,
		Parts:      []Part{TextPart(prompt), BlobPart(image, mime)},
	}
}

func NewTranscribeRequest(prompt string, audio []byte, mime string) Request {
	return Request{
		Capability: CapabilityTranscribe,
		Parts:      []Part{TextPart(prompt), BlobPart(audio, mime)},
	}
}

func NewImageGenerateRequest(prompt string) Request {
	return Request{
		Capability: CapabilityImageGenerate,
		Parts:      []Part{TextPart(prompt)},
	}
}

func NewImageEditRequest(prompt string, image []byte, mime string) Request {
	return Request{
		Capability: CapabilityImageEdit,
		Parts:      []Part{BlobPart(image, mime), TextPart(prompt)},
	}
}

type ResultKind int

const (
	// ResultEmpty means the call succeeded but produced no usable
	// content, e.g. the output was silently filtered.
	ResultEmpty ResultKind = iota
	ResultText
	ResultImage
)

// Result is the normalized response of a single model call.
type Result struct {
	Kind  ResultKind
	Text  string
	Image []byte
	MIME  string
}
