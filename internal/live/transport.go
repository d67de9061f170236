package live

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// TranscriptionPart is a partial transcript fragment from the service.
type TranscriptionPart struct {
	Text string `json:"text"`
}

// ServerMessage is one inbound message on the live connection. Any subset of
// the fields may be present.
type ServerMessage struct {
	InputTranscription  *TranscriptionPart `json:"inputTranscription,omitempty"`
	OutputTranscription *TranscriptionPart `json:"outputTranscription,omitempty"`
	TurnComplete        bool               `json:"turnComplete,omitempty"`
	// Audio is base64 PCM16 at 24kHz mono.
	Audio string `json:"audio,omitempty"`
}

// Transport is a bidirectional streaming connection to the voice service.
type Transport interface {
	Send(ctx context.Context, frame AudioFrame) error
	Receive(ctx context.Context) (ServerMessage, error)
	Close() error
}

// Dialer opens a Transport. The token is the short-lived scoped credential
// minted by the backend; the raw upstream key never reaches a session.
type Dialer interface {
	Dial(ctx context.Context, url, token string) (Transport, error)
}

// WebsocketDialer connects over a websocket.
type WebsocketDialer struct{}

func (WebsocketDialer) Dial(ctx context.Context, url, token string) (Transport, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return &wsTransport{conn: conn}, nil
}

// wsTransport serializes all writes: gorilla/websocket allows at most one
// concurrent writer, and teardown sends a close frame while the send loop
// may still be mid-frame.
type wsTransport struct {
	writeMu sync.Mutex
	conn    *websocket.Conn
}

func (t *wsTransport) Send(ctx context.Context, frame AudioFrame) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetWriteDeadline(deadline)
	}
	return t.conn.WriteJSON(frame)
}

func (t *wsTransport) Receive(ctx context.Context) (ServerMessage, error) {
	var msg ServerMessage
	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetReadDeadline(deadline)
	}
	err := t.conn.ReadJSON(&msg)
	return msg, err
}

func (t *wsTransport) Close() error {
	t.writeMu.Lock()
	_ = t.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	t.writeMu.Unlock()
	return t.conn.Close()
}
