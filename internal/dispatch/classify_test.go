package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpstream/internal/domain"
)

func TestClassify_TradeEvent(t *testing.T) {
	raw := []byte(`{
		"signature": "5gW1abc",
		"mint": "MINT_A",
		"traderPublicKey": "TRADER_1",
		"txType": "buy",
		"tokenAmount": 1000000.5,
		"solAmount": 0.75,
		"tokensInPool": 900000000,
		"solInPool": 31.2,
		"marketCapSol": 34.7,
		"pool": "pump"
	}`)

	event, err := Classify(raw)
	require.NoError(t, err)

	trade, ok := event.(*domain.TokenTrade)
	require.True(t, ok, "expected TokenTrade, got %T", event)
	assert.Equal(t, "5gW1abc", trade.Signature)
	assert.Equal(t, "MINT_A", trade.Mint)
	assert.Equal(t, "TRADER_1", trade.TraderPublicKey)
	assert.Equal(t, domain.SideBuy, trade.Side)
	assert.Equal(t, 0.75, trade.SOLAmount)
	assert.Equal(t, 34.7, trade.MarketCapSOL)
	assert.Greater(t, trade.ReceivedAt, int64(0))
	// Count is attached downstream, at processing time.
	assert.Zero(t, trade.TrackedCountAtEvent)
}

func TestClassify_SellEvent(t *testing.T) {
	raw := []byte(`{"signature":"sig1","mint":"MINT_B","txType":"sell","solAmount":1.5}`)

	event, err := Classify(raw)
	require.NoError(t, err)

	trade := event.(*domain.TokenTrade)
	assert.Equal(t, domain.SideSell, trade.Side)
}

func TestClassify_CreateEvent(t *testing.T) {
	raw := []byte(`{
		"txType": "create",
		"mint": "MINT_NEW",
		"name": "Test Token",
		"symbol": "TST",
		"uri": "https://example.invalid/meta.json",
		"pool": "pump"
	}`)

	event, err := Classify(raw)
	require.NoError(t, err)

	created, ok := event.(*domain.TokenCreated)
	require.True(t, ok, "expected TokenCreated, got %T", event)
	assert.Equal(t, "MINT_NEW", created.Mint)
	assert.Equal(t, "Test Token", created.Name)
	assert.Equal(t, "TST", created.Symbol)
}

func TestClassify_ServerAck(t *testing.T) {
	event, err := Classify([]byte(`{"message":"Successfully subscribed to token trades"}`))
	require.NoError(t, err)

	ack, ok := event.(*domain.ServerAck)
	require.True(t, ok)
	assert.False(t, ack.IsError)
	assert.Contains(t, ack.Message, "Successfully subscribed")
}

func TestClassify_ServerError(t *testing.T) {
	event, err := Classify([]byte(`{"type":"error","message":"invalid key"}`))
	require.NoError(t, err)

	ack := event.(*domain.ServerAck)
	assert.True(t, ack.IsError)
}

func TestClassify_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `not json at all`},
		{"empty object", `{}`},
		{"unknown txType", `{"txType":"burn","mint":"MINT_A"}`},
		{"create without mint", `{"txType":"create","name":"x"}`},
		{"trade without signature", `{"txType":"buy","mint":"MINT_A"}`},
		{"trade without mint", `{"txType":"sell","signature":"sig"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify([]byte(tt.raw))
			assert.ErrorIs(t, err, ErrMalformedFrame)
		})
	}
}
