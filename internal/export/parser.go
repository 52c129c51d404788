package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"
)

// object is a loosely decoded JSON object. Fields are decoded one at a time so a
// single badly typed field never rejects the whole node.
type object map[string]json.RawMessage

// LoadLocation resolves a named timezone, returning a ConfigError for unknown names.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ConfigError{Key: "timezone", Value: name, Err: errors.New("timezone is required")}
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &ConfigError{Key: "timezone", Value: name, Err: err}
	}
	return loc, nil
}

// ParseConversations turns a decoded conversations.json payload into a flat list of messages.
//
// The payload is either a list of conversation objects or an object holding that
// list under "conversations". Messages without a numeric create_time or without
// text are dropped. Order across and within conversations is not guaranteed.
func ParseConversations(payload []byte, timezone string) ([]Message, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, err
	}

	list, err := conversationList(payload)
	if err != nil {
		return nil, err
	}

	var out []Message
	for _, raw := range list {
		conv, ok := decodeObject(raw)
		if !ok {
			continue
		}
		out = append(out, messagesFromConversation(conv, loc)...)
	}
	return out, nil
}

func conversationList(payload []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, &FormatError{Reason: "empty payload"}
	}

	switch trimmed[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, &FormatError{Reason: "invalid JSON", Err: err}
		}
		return list, nil
	case '{':
		var wrapper object
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, &FormatError{Reason: "invalid JSON", Err: err}
		}
		inner, ok := wrapper["conversations"]
		if !ok || !isJSONList(inner) {
			return nil, &FormatError{Reason: "expected a list of conversations"}
		}
		var list []json.RawMessage
		if err := json.Unmarshal(inner, &list); err != nil {
			return nil, &FormatError{Reason: "invalid conversations list", Err: err}
		}
		return list, nil
	default:
		if !json.Valid(trimmed) {
			return nil, &FormatError{Reason: "invalid JSON"}
		}
		return nil, &FormatError{Reason: "expected a list of conversations"}
	}
}

func messagesFromConversation(conv object, loc *time.Location) []Message {
	convID := scalarString(conv["id"])
	title := scalarString(conv["title"])
	if title == "" {
		title = UntitledConversation
	}

	var mapping object
	if err := json.Unmarshal(conv["mapping"], &mapping); err != nil {
		return nil
	}

	var msgs []Message
	for _, rawNode := range mapping {
		node, ok := decodeObject(rawNode)
		if !ok {
			continue
		}
		msg, ok := decodeObject(node["message"])
		if !ok || len(msg) == 0 {
			// Structural nodes (the tree root, branch points) carry no message.
			continue
		}

		text := extractText(msg["content"])
		if text == "" {
			continue
		}

		createdAt, ok := unixTime(msg["create_time"], loc)
		if !ok {
			continue
		}

		msgs = append(msgs, Message{
			ConversationID:    convID,
			ConversationTitle: title,
			MessageID:         scalarString(msg["id"]),
			Role:              extractRole(msg["author"]),
			CreatedAt:         createdAt,
			Text:              text,
		})
	}
	return msgs
}

// extractText flattens message content. It understands a "parts" list of strings
// or {"text": ...} objects, and otherwise a direct "text" or "value" string.
func extractText(raw json.RawMessage) string {
	content, ok := decodeObject(raw)
	if !ok {
		return ""
	}

	if rawParts, ok := content["parts"]; ok && isJSONList(rawParts) {
		var parts []json.RawMessage
		if err := json.Unmarshal(rawParts, &parts); err != nil {
			return ""
		}
		var out []string
		for _, p := range parts {
			var s string
			if err := json.Unmarshal(p, &s); err == nil {
				if s != "" {
					out = append(out, s)
				}
				continue
			}
			if part, ok := decodeObject(p); ok {
				var txt string
				if err := json.Unmarshal(part["text"], &txt); err == nil && txt != "" {
					out = append(out, txt)
				}
			}
		}
		return strings.TrimSpace(strings.Join(out, "\n"))
	}

	for _, key := range []string{"text", "value"} {
		var s string
		if err := json.Unmarshal(content[key], &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func extractRole(raw json.RawMessage) string {
	author, ok := decodeObject(raw)
	if !ok {
		return RoleUnknown
	}
	var role string
	if err := json.Unmarshal(author["role"], &role); err != nil || role == "" {
		return RoleUnknown
	}
	return normaliseRole(role)
}

// unixTime reads a numeric seconds-since-epoch value. Strings, nulls, other
// shapes and out-of-range numbers are rejected so the caller drops the message.
func unixTime(raw json.RawMessage, loc *time.Location) (time.Time, bool) {
	var secs float64
	if len(raw) == 0 || raw[0] == '"' || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, false
	}
	if err := json.Unmarshal(raw, &secs); err != nil {
		return time.Time{}, false
	}
	if math.IsNaN(secs) || secs < minUnix || secs > maxUnix {
		return time.Time{}, false
	}
	whole, frac := math.Modf(secs)
	t := time.Unix(int64(whole), int64(frac*1e9)).In(loc)
	if y := t.Year(); y < 1 || y > 9999 {
		return time.Time{}, false
	}
	return t, true
}

// Timestamps outside years 1..9999 are rejected. Millisecond epochs land here.
var (
	minUnix = float64(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).Unix())
	maxUnix = float64(time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC).Unix())
)

func decodeObject(raw json.RawMessage) (object, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var obj object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// scalarString renders strings as-is and numbers by their literal; anything else is "".
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func isJSONList(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
