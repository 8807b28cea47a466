package pumpportal

// DefaultEndpoint is the public PumpPortal data feed.
const DefaultEndpoint = "wss://pumpportal.fun/api/data"

// Control methods accepted by the feed.
const (
	MethodSubscribeNewToken     = "subscribeNewToken"
	MethodUnsubscribeNewToken   = "unsubscribeNewToken"
	MethodSubscribeTokenTrade   = "subscribeTokenTrade"
	MethodUnsubscribeTokenTrade = "unsubscribeTokenTrade"
)

// ControlFrame is an outbound subscribe/unsubscribe message.
// The feed is fire-and-forget: no per-frame acknowledgement is sent
// beyond a free-form confirmation message.
type ControlFrame struct {
	Method string   `json:"method"`
	Keys   []string `json:"keys,omitempty"`
}

// SubscribeNewToken subscribes to the token creation stream.
func SubscribeNewToken() ControlFrame {
	return ControlFrame{Method: MethodSubscribeNewToken}
}

// UnsubscribeNewToken unsubscribes from the token creation stream.
func UnsubscribeNewToken() ControlFrame {
	return ControlFrame{Method: MethodUnsubscribeNewToken}
}

// SubscribeTokenTrade subscribes to trade events for the given mints.
func SubscribeTokenTrade(keys []string) ControlFrame {
	return ControlFrame{Method: MethodSubscribeTokenTrade, Keys: keys}
}

// UnsubscribeTokenTrade unsubscribes from trade events for the given mints.
func UnsubscribeTokenTrade(keys []string) ControlFrame {
	return ControlFrame{Method: MethodUnsubscribeTokenTrade, Keys: keys}
}
