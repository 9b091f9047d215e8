package feed

import (
	"encoding/base64"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// cursorPayload is the wire shape of a pagination cursor. It carries
// only chronological position; ranking never leaks into cursors.
type cursorPayload struct {
	T  string `json:"t"`
	ID string `json:"id"`
}

// EncodeCursor serializes a (timestamp, id) keyset position as an opaque
// URL-safe token.
func EncodeCursor(t time.Time, id string) string {
	payload := cursorPayload{
		T:  t.UTC().Format(time.RFC3339Nano),
		ID: id,
	}
	data, _ := json.Marshal(payload)
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeCursor reverses EncodeCursor. Invalidity is signaled as a value,
// never a panic: any token not produced by EncodeCursor yields ok=false.
func DecodeCursor(token string) (time.Time, string, bool) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", false
	}

	var payload cursorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return time.Time{}, "", false
	}

	t, err := time.Parse(time.RFC3339Nano, payload.T)
	if err != nil {
		return time.Time{}, "", false
	}

	id, err := uuid.Parse(payload.ID)
	if err != nil {
		return time.Time{}, "", false
	}

	return t, id.String(), true
}
