// Package msgqueue buffers outbound protocol responses, decoupling the
// service handlers producing them from the transport draining them.
package msgqueue

import (
	"context"
	"sync"
)

// QueuedMessage is an encoded protocol message addressed to a peer.
type QueuedMessage struct {
	PeerPubkey string
	Data       []byte
}

// MessageQueue is an unbounded FIFO of outbound messages. Enqueue never
// blocks and never drops; a single queue keeps per-peer send order intact.
type MessageQueue struct {
	mu       sync.Mutex
	messages []QueuedMessage
	notify   chan struct{}
	closed   bool
}

// NewMessageQueue creates a new message queue
func NewMessageQueue() *MessageQueue {
	return &MessageQueue{
		notify: make(chan struct{}, 1),
	}
}

// Enqueue appends a message addressed to the given peer. No-op once the
// queue is closed.
func (mq *MessageQueue) Enqueue(peerPubkey string, data []byte) {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.closed {
		return
	}
	mq.messages = append(mq.messages, QueuedMessage{PeerPubkey: peerPubkey, Data: data})
	mq.signal()
}

// signal wakes a waiting consumer. Callers must hold mu.
func (mq *MessageQueue) signal() {
	select {
	case mq.notify <- struct{}{}:
	default:
	}
}

// NextMessage blocks until the next message is available or context is
// cancelled. Messages still queued when the queue closes remain drainable.
func (mq *MessageQueue) NextMessage(ctx context.Context) (QueuedMessage, error) {
	for {
		mq.mu.Lock()
		if len(mq.messages) > 0 {
			msg := mq.messages[0]
			mq.messages = mq.messages[1:]
			if len(mq.messages) > 0 {
				mq.signal()
			}
			mq.mu.Unlock()
			return msg, nil
		}
		closed := mq.closed
		mq.mu.Unlock()

		if closed {
			return QueuedMessage{}, context.Canceled
		}

		select {
		case <-mq.notify:
		case <-ctx.Done():
			return QueuedMessage{}, ctx.Err()
		}
	}
}

// GetAndClearPendingMessages returns all pending messages without blocking
func (mq *MessageQueue) GetAndClearPendingMessages() []QueuedMessage {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	messages := mq.messages
	mq.messages = nil
	return messages
}

// Close closes the message queue
func (mq *MessageQueue) Close() {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if !mq.closed {
		mq.closed = true
		mq.signal()
	}
}
