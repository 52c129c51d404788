package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// archivePaths are checked in order before falling back to any *conversations.json entry.
var archivePaths = []string{
	"conversations.json",
	"data/conversations.json",
	"chatgpt/conversations.json",
}

// DecodeUpload returns the conversations.json payload for an uploaded file.
// Zip archives are searched for the conversations file; anything else is
// treated as the JSON document itself.
func DecodeUpload(raw []byte, filename string) ([]byte, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".zip") {
		return raw, nil
	}

	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, &FormatError{Reason: "unreadable ZIP export", Err: err}
	}

	f := findConversations(zr)
	if f == nil {
		return nil, &FormatError{Reason: "missing conversations file", Err: ErrNoConversations}
	}

	rc, err := f.Open()
	if err != nil {
		return nil, &FormatError{Reason: "open " + f.Name, Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &FormatError{Reason: "read " + f.Name, Err: err}
	}
	return data, nil
}

// Parse decodes an uploaded export (zip or JSON) and parses its messages.
func Parse(raw []byte, filename, timezone string) ([]Message, error) {
	// Resolve the timezone first so config errors win over format errors.
	if _, err := LoadLocation(timezone); err != nil {
		return nil, err
	}
	payload, err := DecodeUpload(raw, filename)
	if err != nil {
		return nil, err
	}
	msgs, err := ParseConversations(payload, timezone)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return msgs, nil
}

func findConversations(zr *zip.Reader) *zip.File {
	byName := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		byName[f.Name] = f
	}
	for _, p := range archivePaths {
		if f, ok := byName[p]; ok {
			return f
		}
	}
	for _, f := range zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), "conversations.json") {
			return f
		}
	}
	return nil
}
