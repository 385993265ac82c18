package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/mmcdole/gofeed"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Parser decodes RSS 2.0 documents into RawDocument. Atom and JSON feeds
// are rejected with a FormatError.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Run(data []byte) (*RawDocument, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &FormatError{Reason: "empty document"}
	}

	switch feedType := gofeed.DetectFeedType(bytes.NewReader(data)); feedType {
	case gofeed.FeedTypeAtom:
		return nil, &FormatError{Reason: "unsupported feed type atom"}
	case gofeed.FeedTypeJSON:
		return nil, &FormatError{Reason: "unsupported feed type json"}
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	// No AutoClose: HTMLAutoClose treats <link> as a void element.
	decoder.Strict = false
	decoder.Entity = xml.HTMLEntity
	decoder.CharsetReader = charsetReader

	var doc RawDocument
	if err := decoder.Decode(&doc); err != nil {
		var unexpected xml.UnmarshalError
		if errors.As(err, &unexpected) || errors.Is(err, io.EOF) {
			return nil, &FormatError{Reason: err.Error()}
		}
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	doc.stripDefaultSpace()
	return &doc, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}
