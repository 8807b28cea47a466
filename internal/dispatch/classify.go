// Package dispatch classifies raw feed frames into typed events and
// routes them to registered handlers.
package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pumpstream/internal/domain"
)

// ErrMalformedFrame is returned when a frame lacks a recognized event
// discriminator or the required fields for its type. Malformed frames
// are logged and dropped, never fatal.
var ErrMalformedFrame = errors.New("malformed frame")

// rawMessage mirrors the feed's flat JSON message shape. Trade and
// creation events share the txType discriminator; server messages carry
// only message/type.
type rawMessage struct {
	TxType          string  `json:"txType"`
	Mint            string  `json:"mint"`
	Signature       string  `json:"signature"`
	TraderPublicKey string  `json:"traderPublicKey"`
	TokenAmount     float64 `json:"tokenAmount"`
	SolAmount       float64 `json:"solAmount"`
	TokensInPool    float64 `json:"tokensInPool"`
	SolInPool       float64 `json:"solInPool"`
	MarketCapSol    float64 `json:"marketCapSol"`
	Pool            string  `json:"pool"`
	Name            string  `json:"name"`
	Symbol          string  `json:"symbol"`
	URI             string  `json:"uri"`
	Message         string  `json:"message"`
	Type            string  `json:"type"`
}

// Classify parses a raw inbound frame into a typed event.
// Returns ErrMalformedFrame for unparseable or incomplete frames.
func Classify(raw []byte) (domain.Event, error) {
	var msg rawMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	// Server acknowledgements and server-side errors have no txType.
	if msg.TxType == "" {
		if msg.Message == "" {
			return nil, fmt.Errorf("%w: no event discriminator", ErrMalformedFrame)
		}
		return &domain.ServerAck{
			Message: msg.Message,
			IsError: msg.Type == "error",
		}, nil
	}

	switch msg.TxType {
	case "create":
		if msg.Mint == "" {
			return nil, fmt.Errorf("%w: create event without mint", ErrMalformedFrame)
		}
		return &domain.TokenCreated{
			Mint:       msg.Mint,
			Name:       msg.Name,
			Symbol:     msg.Symbol,
			URI:        msg.URI,
			Pool:       msg.Pool,
			ReceivedAt: time.Now().UnixMilli(),
		}, nil

	case "buy", "sell":
		if msg.Mint == "" || msg.Signature == "" {
			return nil, fmt.Errorf("%w: trade event without mint or signature", ErrMalformedFrame)
		}
		return &domain.TokenTrade{
			Signature:       msg.Signature,
			Mint:            msg.Mint,
			TraderPublicKey: msg.TraderPublicKey,
			Side:            domain.Side(msg.TxType),
			TokenAmount:     msg.TokenAmount,
			SOLAmount:       msg.SolAmount,
			TokensInPool:    msg.TokensInPool,
			SOLInPool:       msg.SolInPool,
			MarketCapSOL:    msg.MarketCapSol,
			Pool:            msg.Pool,
			ReceivedAt:      time.Now().UnixMilli(),
		}, nil

	default:
		return nil, fmt.Errorf("%w: unrecognized txType %q", ErrMalformedFrame, msg.TxType)
	}
}
