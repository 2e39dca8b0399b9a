package providers

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrNotDataURI = errors.New("not a base64 data URI")

// DataURI encodes data as a data:<mime>;base64,<payload> reference.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI decodes a base64 data URI. Media type parameters other than
// ";base64" are dropped.
func ParseDataURI(uri string) (*Image, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, ErrNotDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, ErrNotDataURI
	}

	params := strings.Split(meta, ";")
	if params[len(params)-1] != "base64" {
		return nil, ErrNotDataURI
	}
	mimeType := strings.ToLower(strings.TrimSpace(params[0]))
	if mimeType == "" {
		mimeType = "text/plain"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// browsers occasionally drop padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, errors.Join(ErrNotDataURI, err)
		}
	}
	return &Image{MIMEType: mimeType, Data: data}, nil
}

// DecodedLen reports the decoded size of a base64 data URI without decoding it.
func DecodedLen(uri string) int {
	_, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return 0
	}
	return base64.RawStdEncoding.DecodedLen(len(strings.TrimRight(payload, "=")))
}
