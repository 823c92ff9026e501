package transport

import (
	"context"
	"testing"
	"time"

	"github.com/flokiorg/lokilsp/lnclient"
)

// Mock LNClient for testing
type mockLNClient struct {
	sendCalls      []sendCall
	msgChan        chan lnclient.CustomMessage
	errChan        chan error
	shouldFailSend bool
}

type sendCall struct {
	peerPubkey string
	msgType    uint32
	data       []byte
}

func newMockLNClient() *mockLNClient {
	return &mockLNClient{
		sendCalls: []sendCall{},
		msgChan:   make(chan lnclient.CustomMessage, 10),
		errChan:   make(chan error, 1),
	}
}

func (m *mockLNClient) SendCustomMessage(ctx context.Context, peerPubkey string, msgType uint32, data []byte) error {
	if m.shouldFailSend {
		return context.Canceled
	}
	m.sendCalls = append(m.sendCalls, sendCall{peerPubkey, msgType, data})
	return nil
}

func (m *mockLNClient) SubscribeCustomMessages(ctx context.Context) (<-chan lnclient.CustomMessage, <-chan error, error) {
	return m.msgChan, m.errChan, nil
}

func (m *mockLNClient) GetInfo(ctx context.Context) (*lnclient.NodeInfo, error) { return nil, nil }
func (m *mockLNClient) GetPubkey() string                                       { return "" }
func (m *mockLNClient) ListPeers(ctx context.Context) ([]lnclient.PeerDetails, error) {
	return nil, nil
}
func (m *mockLNClient) Shutdown() error { return nil }

func TestSendCustomMessage(t *testing.T) {
	mockLN := newMockLNClient()
	transport := NewLNDTransport(mockLN)

	err := transport.SendCustomMessage(context.Background(), "peer1", 51610, []byte("hello"))
	if err != nil {
		t.Fatalf("SendCustomMessage failed: %v", err)
	}

	if len(mockLN.sendCalls) != 1 {
		t.Fatalf("Expected 1 send call, got %d", len(mockLN.sendCalls))
	}
	if mockLN.sendCalls[0].peerPubkey != "peer1" {
		t.Errorf("Expected peer1, got %s", mockLN.sendCalls[0].peerPubkey)
	}
	if mockLN.sendCalls[0].msgType != 51610 {
		t.Errorf("Expected type 51610, got %d", mockLN.sendCalls[0].msgType)
	}
}

func TestSendCustomMessage_TooLarge(t *testing.T) {
	mockLN := newMockLNClient()
	transport := NewLNDTransport(mockLN)

	data := make([]byte, 65536)
	err := transport.SendCustomMessage(context.Background(), "peer1", 51610, data)
	if err == nil {
		t.Fatal("Expected error for oversized message")
	}
	if len(mockLN.sendCalls) != 0 {
		t.Errorf("Expected no send calls, got %d", len(mockLN.sendCalls))
	}
}

func TestSubscribeCustomMessages(t *testing.T) {
	mockLN := newMockLNClient()
	transport := NewLNDTransport(mockLN)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgChan, _, err := transport.SubscribeCustomMessages(ctx)
	if err != nil {
		t.Fatalf("SubscribeCustomMessages failed: %v", err)
	}

	mockLN.msgChan <- lnclient.CustomMessage{
		PeerPubkey: "peer1",
		Type:       51610,
		Data:       []byte("incoming"),
	}

	select {
	case msg := <-msgChan:
		if msg.PeerPubkey != "peer1" {
			t.Errorf("Expected peer1, got %s", msg.PeerPubkey)
		}
		if string(msg.Data) != "incoming" {
			t.Errorf("Expected incoming, got %s", msg.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for message")
	}
}

func TestSubscribeCustomMessages_ChannelClosesWithSource(t *testing.T) {
	mockLN := newMockLNClient()
	transport := NewLNDTransport(mockLN)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgChan, _, err := transport.SubscribeCustomMessages(ctx)
	if err != nil {
		t.Fatalf("SubscribeCustomMessages failed: %v", err)
	}

	close(mockLN.msgChan)

	select {
	case _, ok := <-msgChan:
		if ok {
			t.Fatal("Expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for channel close")
	}
}
