package generation

// ResultKind tags a Result.
type ResultKind int

const (
	KindImage ResultKind = iota + 1
	KindText
)

func (k ResultKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindText:
		return "text"
	default:
		return ""
	}
}

// Result is either an image reference or a text reply, never both.
type Result struct {
	Kind    ResultKind
	Payload string
}

func ImageResult(url string) Result {
	return Result{Kind: KindImage, Payload: url}
}

func TextResult(content string) Result {
	return Result{Kind: KindText, Payload: content}
}

// Image returns the image reference and whether the result holds one.
func (r Result) Image() (string, bool) {
	return r.Payload, r.Kind == KindImage
}

// Text returns the text reply and whether the result holds one.
func (r Result) Text() (string, bool) {
	return r.Payload, r.Kind == KindText
}
