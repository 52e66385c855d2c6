package relay

import (
	"context"
	"fmt"
)

// MessageTypeContractID tags a payload hop on the in-process channel.
const MessageTypeContractID = "ContractID"

// Message is the in-process transport frame.
type Message struct {
	Type string  `json:"type"`
	Data Payload `json:"data"`
}

// Channel is an explicit in-process relay handle, scoped to one swap
// session. Both parties must hold the same Channel; there is no ambient
// process-wide channel.
type Channel struct {
	ch chan Message
}

// NewChannel creates a channel for one swap session.
func NewChannel() *Channel {
	return &Channel{ch: make(chan Message, 1)}
}

// Send relays a payload to the other party.
func (c *Channel) Send(ctx context.Context, payload Payload) error {
	if err := payload.Validate(false); err != nil {
		return err
	}

	select {
	case c.ch <- Message{Type: MessageTypeContractID, Data: payload}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive blocks until a payload arrives or ctx is done.
func (c *Channel) Receive(ctx context.Context) (*Payload, error) {
	select {
	case msg := <-c.ch:
		if msg.Type != MessageTypeContractID {
			return nil, fmt.Errorf("%w: unknown message type %q", ErrMissingRelayData, msg.Type)
		}
		if err := msg.Data.Validate(false); err != nil {
			return nil, err
		}
		return &msg.Data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
