package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gorilla/websocket"

	"tradesim-lab/internal/domain"
)

// TickMessage is the JSON wire format for one tick on the websocket stream.
type TickMessage struct {
	Symbol      string  `json:"symbol"`
	TimestampMs int64   `json:"timestamp_ms"`
	Price       float64 `json:"price"`
	Volume      float64 `json:"volume"`
}

// Tick converts the message to a validated domain tick.
func (m TickMessage) Tick() (domain.Tick, error) {
	return domain.NewTick(m.Symbol, m.TimestampMs, m.Price, m.Volume)
}

// MessageFromTick converts a domain tick to its wire format.
func MessageFromTick(t domain.Tick) TickMessage {
	return TickMessage{
		Symbol:      t.Symbol,
		TimestampMs: t.TimestampMs,
		Price:       t.Price,
		Volume:      t.Volume,
	}
}

// WSFeed streams ticks from a websocket tick server. A normal close from the
// server ends the feed with io.EOF. Messages that do not decode into a valid
// tick are counted and skipped.
type WSFeed struct {
	conn    *websocket.Conn
	skipped int
}

// DialWS connects to a tick server at the given ws:// or wss:// URL.
func DialWS(ctx context.Context, url string) (*WSFeed, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ws feed: dial %s: %w", url, err)
	}
	return &WSFeed{conn: conn}, nil
}

// Next reads the next tick from the stream.
func (f *WSFeed) Next(ctx context.Context) (domain.Tick, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.Tick{}, err
		}

		_, data, err := f.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return domain.Tick{}, io.EOF
			}
			return domain.Tick{}, fmt.Errorf("ws feed: read: %w", err)
		}

		var msg TickMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			f.skipped++
			continue
		}
		tick, err := msg.Tick()
		if err != nil {
			f.skipped++
			continue
		}
		return tick, nil
	}
}

// Skipped returns the number of undecodable messages dropped so far.
func (f *WSFeed) Skipped() int { return f.skipped }

// Close closes the underlying connection.
func (f *WSFeed) Close() error {
	return f.conn.Close()
}

var _ Feed = (*WSFeed)(nil)
