package backfill

// MessageType is the queue message type for backfill jobs.
const MessageType = "candles.backfill"

// JobPayload describes one historical range to rebuild. Start is unix seconds;
// the external service fills from Start up to now.
type JobPayload struct {
	Exchange string `json:"exchange"`
	Symbol   string `json:"symbol"`
	Period   string `json:"period"`
	Start    int64  `json:"start"`
}
