package model

// ProcessedEvent marks an external pool event as consumed. Its existence is
// the dedup signal; documents are never mutated after insert.
type ProcessedEvent struct {
	EventID     string `bson:"_id"`
	BlockHeight uint64 `bson:"block_height"`
}

func NewProcessedEvent(eventID string, blockHeight uint64) *ProcessedEvent {
	return &ProcessedEvent{
		EventID:     eventID,
		BlockHeight: blockHeight,
	}
}
