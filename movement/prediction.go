package movement

import (
	"iter"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/predmove/assert"
	"github.com/oomph-ac/predmove/game"
)

// PredictionData is the client-side prediction buffer: saved moves awaiting acknowledgement in capture
// order, plus the allocator that supplies them.
type PredictionData struct {
	// MaxMoveDeltaTime bounds the delta time of a combined move.
	MaxMoveDeltaTime float32
	// MaxSavedMoveCount is the number of unacknowledged moves kept before the oldest are dropped.
	MaxSavedMoveCount int

	// CurrentTimestamp is the timestamp of the most recent move.
	CurrentTimestamp float32

	// PendingMove is a move held back so that the next one may combine with it.
	PendingMove *SavedMove
	// LastAckedMove is the most recent move the server acknowledged.
	LastAckedMove *SavedMove

	savedMoves *orderedmap.OrderedMap[float32, *SavedMove]
	pool       sync.Pool
}

// NewPredictionData returns an empty prediction buffer using the default limits.
func NewPredictionData() *PredictionData {
	return &PredictionData{
		MaxMoveDeltaTime:  game.MaxMoveDeltaTime,
		MaxSavedMoveCount: game.MaxSavedMoveCount,
		savedMoves:        orderedmap.NewOrderedMap[float32, *SavedMove](),
		pool: sync.Pool{
			New: func() any {
				return &SavedMove{}
			},
		},
	}
}

// AllocateNewMove returns a cleared saved move owned by the caller until it is passed to FreeMove.
func (pd *PredictionData) AllocateNewMove() *SavedMove {
	m := pd.pool.Get().(*SavedMove)
	m.Clear()
	return m
}

// FreeMove clears m and returns it to the pool.
func (pd *PredictionData) FreeMove(m *SavedMove) {
	if m == nil {
		return
	}
	m.Clear()
	pd.pool.Put(m)
}

// UpdateTimestamp advances the client clock by dt and returns the new timestamp. Timestamps are float32
// seconds since the session started and are never reset: past about 72 hours a 1/60 s step no longer
// advances the clock exactly, and AddMove panics once a step rounds away to nothing.
func (pd *PredictionData) UpdateTimestamp(dt float32) float32 {
	pd.CurrentTimestamp += dt
	return pd.CurrentTimestamp
}

// AddMove appends m to the buffer. Timestamps must strictly increase. If the buffer is full the oldest
// moves are freed and AddMove returns true.
func (pd *PredictionData) AddMove(m *SavedMove) (dropped bool) {
	assert.IsTrue(m != nil, game.ErrorInternalNilMove)
	if back := pd.savedMoves.Back(); back != nil {
		assert.IsTrue(m.Timestamp > back.Key, game.ErrorStaleMove, m.Timestamp, back.Key)
	}
	pd.savedMoves.Set(m.Timestamp, m)

	for pd.MaxSavedMoveCount > 0 && pd.savedMoves.Len() > pd.MaxSavedMoveCount {
		front := pd.savedMoves.Front()
		pd.savedMoves.Delete(front.Key)
		if pd.PendingMove == front.Value {
			pd.PendingMove = nil
		}
		pd.FreeMove(front.Value)
		dropped = true
	}
	return dropped
}

// RemoveMove removes the move with the given timestamp from the buffer without freeing it.
func (pd *PredictionData) RemoveMove(timestamp float32) (*SavedMove, bool) {
	m, ok := pd.savedMoves.Get(timestamp)
	if !ok {
		return nil, false
	}
	pd.savedMoves.Delete(timestamp)
	return m, true
}

// FindMove returns the buffered move with the given timestamp.
func (pd *PredictionData) FindMove(timestamp float32) (*SavedMove, bool) {
	return pd.savedMoves.Get(timestamp)
}

// AckMove retires every move up to and including timestamp. The move with exactly that timestamp, if
// buffered, becomes the LastAckedMove; the others are freed.
func (pd *PredictionData) AckMove(timestamp float32) {
	for el := pd.savedMoves.Front(); el != nil; el = pd.savedMoves.Front() {
		if el.Key > timestamp {
			break
		}
		pd.savedMoves.Delete(el.Key)
		if pd.PendingMove == el.Value {
			pd.PendingMove = nil
		}
		if el.Key == timestamp {
			pd.FreeMove(pd.LastAckedMove)
			pd.LastAckedMove = el.Value
			continue
		}
		pd.FreeMove(el.Value)
	}
}

// Moves yields the buffered moves in capture order.
func (pd *PredictionData) Moves() iter.Seq[*SavedMove] {
	return func(yield func(*SavedMove) bool) {
		for el := pd.savedMoves.Front(); el != nil; el = el.Next() {
			if !yield(el.Value) {
				return
			}
		}
	}
}

// Len returns the number of buffered moves.
func (pd *PredictionData) Len() int {
	return pd.savedMoves.Len()
}

// Reset frees every buffered move, including the last acknowledged one.
func (pd *PredictionData) Reset() {
	for el := pd.savedMoves.Front(); el != nil; el = pd.savedMoves.Front() {
		pd.savedMoves.Delete(el.Key)
		pd.FreeMove(el.Value)
	}
	pd.FreeMove(pd.LastAckedMove)
	pd.PendingMove = nil
	pd.LastAckedMove = nil
	pd.CurrentTimestamp = 0
}
