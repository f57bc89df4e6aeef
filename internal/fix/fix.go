// Package fix decodes FIX-style tag=value messages into domain types.
// Messages use either the standard SOH (0x01) field delimiter or the
// human-readable '|' form common in logs and fixtures.
package fix

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tradesim-lab/internal/domain"
)

// Decoding errors.
var (
	ErrEmptyMessage      = errors.New("fix: empty message")
	ErrMalformedField    = errors.New("fix: malformed field")
	ErrMissingTag        = errors.New("fix: missing tag")
	ErrBadValue          = errors.New("fix: bad value")
	ErrUnexpectedMsgType = errors.New("fix: unexpected message type")
)

// Tags used by this decoder.
const (
	TagMsgType      = 35
	TagClOrdID      = 11
	TagSymbol       = 55
	TagSide         = 54
	TagOrderQty     = 38
	TagPrice        = 44
	TagTransactTime = 60
	TagMDEntryPx    = 270
	TagMDEntrySize  = 271
	TagSendingTime  = 52
)

// Message type values.
const (
	MsgTypeNewOrderSingle = "D"
	MsgTypeMarketData     = "W"
)

// Message is a parsed FIX message. Repeated tags keep the last value.
type Message struct {
	fields map[int]string
}

// Parse splits a raw FIX message into tag/value fields. Both SOH and '|'
// delimiters are accepted; a trailing delimiter is allowed.
func Parse(raw string) (Message, error) {
	delim := "\x01"
	if !strings.Contains(raw, delim) {
		delim = "|"
	}

	fields := make(map[int]string)
	for _, part := range strings.Split(raw, delim) {
		if part == "" {
			continue
		}
		tagStr, value, ok := strings.Cut(part, "=")
		if !ok {
			return Message{}, fmt.Errorf("%w: %q", ErrMalformedField, part)
		}
		tag, err := strconv.Atoi(tagStr)
		if err != nil {
			return Message{}, fmt.Errorf("%w: tag %q", ErrMalformedField, tagStr)
		}
		fields[tag] = value
	}
	if len(fields) == 0 {
		return Message{}, ErrEmptyMessage
	}
	return Message{fields: fields}, nil
}

// Get returns the raw value of a tag.
func (m Message) Get(tag int) (string, bool) {
	v, ok := m.fields[tag]
	return v, ok
}

// MsgType returns the value of tag 35, empty if absent.
func (m Message) MsgType() string {
	return m.fields[TagMsgType]
}

func (m Message) required(tag int) (string, error) {
	v, ok := m.fields[tag]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrMissingTag, tag)
	}
	return v, nil
}

func (m Message) requiredInt(tag int) (int64, error) {
	raw, err := m.required(tag)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: tag %d: %q", ErrBadValue, tag, raw)
	}
	return v, nil
}

func (m Message) requiredFloat(tag int) (float64, error) {
	raw, err := m.required(tag)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: tag %d: %q", ErrBadValue, tag, raw)
	}
	return v, nil
}

// NewOrderSingle is a decoded 35=D message.
type NewOrderSingle struct {
	ClOrdID        string
	Symbol         string
	Side           domain.Side
	Quantity       int64
	Price          float64
	TransactTimeMs int64
}

// Order constructs a domain order in the NEW state from the decoded fields.
func (n NewOrderSingle) Order() (*domain.Order, error) {
	return domain.NewOrder(n.ClOrdID, n.Symbol, n.Side, n.Quantity, n.Price, n.TransactTimeMs)
}

// DecodeNewOrder decodes a 35=D (NewOrderSingle) message. Side uses the FIX
// encoding: 1 for buy, 2 for sell. TransactTime (60) carries epoch
// milliseconds.
func DecodeNewOrder(raw string) (NewOrderSingle, error) {
	msg, err := Parse(raw)
	if err != nil {
		return NewOrderSingle{}, err
	}
	if mt := msg.MsgType(); mt != MsgTypeNewOrderSingle {
		return NewOrderSingle{}, fmt.Errorf("%w: %q, want %q", ErrUnexpectedMsgType, mt, MsgTypeNewOrderSingle)
	}

	clOrdID, err := msg.required(TagClOrdID)
	if err != nil {
		return NewOrderSingle{}, err
	}
	symbol, err := msg.required(TagSymbol)
	if err != nil {
		return NewOrderSingle{}, err
	}
	sideRaw, err := msg.required(TagSide)
	if err != nil {
		return NewOrderSingle{}, err
	}
	var side domain.Side
	switch sideRaw {
	case "1":
		side = domain.SideBuy
	case "2":
		side = domain.SideSell
	default:
		return NewOrderSingle{}, fmt.Errorf("%w: tag %d: %q", ErrBadValue, TagSide, sideRaw)
	}
	qty, err := msg.requiredInt(TagOrderQty)
	if err != nil {
		return NewOrderSingle{}, err
	}
	price, err := msg.requiredFloat(TagPrice)
	if err != nil {
		return NewOrderSingle{}, err
	}
	transactMs, err := msg.requiredInt(TagTransactTime)
	if err != nil {
		return NewOrderSingle{}, err
	}

	return NewOrderSingle{
		ClOrdID:        clOrdID,
		Symbol:         symbol,
		Side:           side,
		Quantity:       qty,
		Price:          price,
		TransactTimeMs: transactMs,
	}, nil
}

// DecodeMarketData decodes a 35=W (market data snapshot) message into a
// tick. Tag 270 carries the price, 271 the size and 52 the timestamp in
// epoch milliseconds.
func DecodeMarketData(raw string) (domain.Tick, error) {
	msg, err := Parse(raw)
	if err != nil {
		return domain.Tick{}, err
	}
	if mt := msg.MsgType(); mt != MsgTypeMarketData {
		return domain.Tick{}, fmt.Errorf("%w: %q, want %q", ErrUnexpectedMsgType, mt, MsgTypeMarketData)
	}

	symbol, err := msg.required(TagSymbol)
	if err != nil {
		return domain.Tick{}, err
	}
	price, err := msg.requiredFloat(TagMDEntryPx)
	if err != nil {
		return domain.Tick{}, err
	}
	size, err := msg.requiredFloat(TagMDEntrySize)
	if err != nil {
		return domain.Tick{}, err
	}
	sendingMs, err := msg.requiredInt(TagSendingTime)
	if err != nil {
		return domain.Tick{}, err
	}

	return domain.NewTick(symbol, sendingMs, price, size)
}
