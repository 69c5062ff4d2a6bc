package io

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ReadJSON decodes a layout file from r. It accepts a bare widget array or a
// [Document] object. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	dec := json.NewDecoder(br)
	doc := &Document{}
	switch first {
	case '[':
		if err := dec.Decode(&doc.Widgets); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	case '{':
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	default:
		return nil, fmt.Errorf("decode: want a widget array or a layout object, got %q", first)
	}

	for i, w := range doc.Widgets {
		if w.W < 0 || w.H < 0 {
			return nil, fmt.Errorf("widget %d (%s): negative size %dx%d", i, w.ID, w.W, w.H)
		}
	}
	return doc, nil
}

// ImportJSON reads the layout file at path.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	doc, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return 0, errors.New("empty input")
		}
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}
