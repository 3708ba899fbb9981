package pkg

import (
	"crypto/sha1" //nolint: gosec // mandated by the WebSocket handshake
	"encoding/base64"
)

// websocketGUID is the fixed GUID from RFC 6455 section 1.3.
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// GenerateAcceptKey - computes the Sec-WebSocket-Accept value for a
// client's Sec-WebSocket-Key.
func GenerateAcceptKey(key string) string {
	hash := sha1.Sum([]byte(key + websocketGUID)) //nolint: gosec // mandated by the WebSocket handshake
	return base64.StdEncoding.EncodeToString(hash[:])
}
