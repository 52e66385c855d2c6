// Package relay carries partially-signed swap state between parties over an
// untrusted, asynchronous channel: either a shareable link or an in-process
// message channel. Receivers must validate the payload and re-derive the
// swap terms from the embedded transaction themselves; the payload's only
// job is transport.
package relay

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrMissingRelayData means a received payload lacks a required field.
var ErrMissingRelayData = errors.New("relay payload is missing required fields")

// Link query parameter names
const (
	paramXDR       = "xdr"
	paramContract  = "contractId"
	paramFootprint = "creatorFootprint"
	paramAccount   = "account"
)

// Payload is the cross-party handoff unit. It is created once per hop,
// transmitted verbatim, consumed once, and never persisted.
type Payload struct {
	// BaseTxXDR is the base64 envelope of the transaction as of this hop.
	BaseTxXDR string `json:"baseTx"`
	// ContractID of the swap contract under authorization.
	ContractID string `json:"contractID"`
	// FootprintXDR is the creator's original footprint, base64, carried
	// verbatim through every hop for final reattachment.
	FootprintXDR string `json:"creatorFootprint"`
	// Recipient is the account expected to act on this hop. Empty on the
	// final hop back to the creator.
	Recipient string `json:"account,omitempty"`
}

// Validate checks that all required fields are present.
func (p *Payload) Validate(requireRecipient bool) error {
	switch {
	case p.BaseTxXDR == "":
		return fmt.Errorf("%w: transaction", ErrMissingRelayData)
	case p.ContractID == "":
		return fmt.Errorf("%w: contract id", ErrMissingRelayData)
	case p.FootprintXDR == "":
		return fmt.Errorf("%w: creator footprint", ErrMissingRelayData)
	case requireRecipient && p.Recipient == "":
		return fmt.Errorf("%w: recipient account", ErrMissingRelayData)
	}
	return nil
}

// Link renders the payload as a shareable URL on the given base.
func (p *Payload) Link(base string) (string, error) {
	if err := p.Validate(false); err != nil {
		return "", err
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid link base %q: %w", base, err)
	}

	q := u.Query()
	q.Set(paramXDR, p.BaseTxXDR)
	q.Set(paramContract, p.ContractID)
	q.Set(paramFootprint, p.FootprintXDR)
	if p.Recipient != "" {
		q.Set(paramAccount, p.Recipient)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// ParseLink is the inverse of Link. The recipient parameter is optional
// here; hops that require it call Validate(true) afterwards.
func ParseLink(raw string) (*Payload, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: unparsable link", ErrMissingRelayData)
	}

	q := u.Query()
	p := &Payload{
		BaseTxXDR:    q.Get(paramXDR),
		ContractID:   q.Get(paramContract),
		FootprintXDR: q.Get(paramFootprint),
		Recipient:    q.Get(paramAccount),
	}
	if err := p.Validate(false); err != nil {
		return nil, err
	}
	return p, nil
}
