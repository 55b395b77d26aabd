package client

import (
	"github.com/automoto/ballguys-mp/shared/gamemath"
)

const predictionBufferSize = 64

// InputRecord stores an intent alongside the predicted position after applying it.
type InputRecord struct {
	Sequence  uint32
	Intent    any
	Predicted gamemath.Vec3
}

// PredictionBuffer is a ring buffer that stores recent intents and their
// predicted outcomes for server reconciliation.
type PredictionBuffer struct {
	history [predictionBufferSize]InputRecord
	nextSeq uint32
}

// Store saves an intent and the resulting predicted position.
func (pb *PredictionBuffer) Store(seq uint32, intent any, predicted gamemath.Vec3) {
	pb.history[seq%predictionBufferSize] = InputRecord{
		Sequence:  seq,
		Intent:    intent,
		Predicted: predicted,
	}
	pb.nextSeq = seq + 1
}

// Get retrieves a stored record by sequence number. Returns false if not found
// or if the slot has been overwritten.
func (pb *PredictionBuffer) Get(seq uint32) (InputRecord, bool) {
	record := pb.history[seq%predictionBufferSize]
	if record.Sequence != seq || record.Intent == nil {
		return InputRecord{}, false
	}
	return record, true
}

// NextSeq returns the next expected sequence number.
func (pb *PredictionBuffer) NextSeq() uint32 {
	return pb.nextSeq
}

// Unacknowledged returns the stored intents the server has not confirmed yet.
func (pb *PredictionBuffer) Unacknowledged(lastAcked uint32) []InputRecord {
	var results []InputRecord
	for seq := lastAcked + 1; seq < pb.nextSeq; seq++ {
		if record, ok := pb.Get(seq); ok {
			results = append(results, record)
		}
	}
	return results
}

// PredictionError returns the distance between what was predicted after seq
// and where the server put the avatar. ok is false when seq is not stored.
func (pb *PredictionBuffer) PredictionError(seq uint32, server gamemath.Vec3) (float64, bool) {
	record, ok := pb.Get(seq)
	if !ok {
		return 0, false
	}
	return record.Predicted.Sub(server).Len(), true
}
