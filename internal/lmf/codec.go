package lmf

import (
	"bytes"
	"encoding/xml"
	"io"
)

const header = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Decode parses a WN-LMF 1.4 document into a typed tree.
func Decode(r io.Reader) (*LexicalResource, error) {
	var doc LexicalResource
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode serializes a typed tree back to a WN-LMF 1.4 document, prefixed
// with the standard XML declaration.
func Encode(w io.Writer, doc *LexicalResource) error {
	if _, err := w.Write([]byte(header)); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := w.Write([]byte("\n"))
	return err
}

// EncodeBytes is a convenience wrapper returning the serialized document as
// a byte slice, for callers that need the full document in memory (the
// exporter's re-parse check decodes it back).
func EncodeBytes(doc *LexicalResource) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
