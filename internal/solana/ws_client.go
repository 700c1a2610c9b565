package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// WSConfig configures WSWatcher behavior.
type WSConfig struct {
	// HandshakeTimeout bounds the WebSocket dial.
	HandshakeTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
		PingInterval:     30 * time.Second,
	}
}

// WSWatcher implements ConfirmationWatcher using a signatureSubscribe
// subscription over gorilla/websocket. Subscriptions are one-shot: the
// node fires a single notification at confirmed commitment and cancels
// the subscription itself. The watcher does not reconnect; a dropped
// connection fails pending waits and the client falls back to the caller
// retrying the batch.
type WSWatcher struct {
	endpoint string
	config   WSConfig

	conn      *websocket.Conn
	writeMu   sync.Mutex
	closed    atomic.Bool
	requestID atomic.Uint64

	// pendingSubs maps request ID to channel waiting for subscription ID
	pendingSubs   map[uint64]chan int64
	pendingSubsMu sync.Mutex

	// subs maps subscription ID to channel receiving the notification result
	subs   map[int64]chan error
	subsMu sync.Mutex

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWSWatcher dials the endpoint and starts the read loop.
func NewWSWatcher(ctx context.Context, endpoint string, config *WSConfig) (*WSWatcher, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}

	dialer := websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}

	w := &WSWatcher{
		endpoint:    endpoint,
		config:      cfg,
		conn:        conn,
		pendingSubs: make(map[uint64]chan int64),
		subs:        make(map[int64]chan error),
		done:        make(chan struct{}),
	}

	w.wg.Add(2)
	go w.readLoop()
	go w.pingLoop()

	return w, nil
}

// Compile-time interface check.
var _ ConfirmationWatcher = (*WSWatcher)(nil)

type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type wsMessage struct {
	ID     uint64          `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *wsError        `json:"error,omitempty"`
	Params *wsNotifyParams `json:"params,omitempty"`
}

type wsError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *wsError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

type wsNotifyParams struct {
	Subscription int64 `json:"subscription"`
	Result       struct {
		Value struct {
			Err interface{} `json:"err"`
		} `json:"value"`
	} `json:"result"`
}

// WaitForSignature subscribes to the signature and blocks until the node
// reports it confirmed, it fails on-chain, or ctx is done.
func (w *WSWatcher) WaitForSignature(ctx context.Context, signature string) error {
	if w.closed.Load() {
		return fmt.Errorf("watcher is closed")
	}

	reqID := w.requestID.Add(1)
	subCh := make(chan int64, 1)

	w.pendingSubsMu.Lock()
	w.pendingSubs[reqID] = subCh
	w.pendingSubsMu.Unlock()

	defer func() {
		w.pendingSubsMu.Lock()
		delete(w.pendingSubs, reqID)
		w.pendingSubsMu.Unlock()
	}()

	req := wsRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  "signatureSubscribe",
		Params: []interface{}{
			signature,
			map[string]string{"commitment": "confirmed"},
		},
	}
	if err := w.write(req); err != nil {
		return err
	}

	var subID int64
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.done:
		return fmt.Errorf("watcher connection closed")
	case subID = <-subCh:
	}

	resultCh := make(chan error, 1)
	w.subsMu.Lock()
	w.subs[subID] = resultCh
	w.subsMu.Unlock()

	defer func() {
		w.subsMu.Lock()
		delete(w.subs, subID)
		w.subsMu.Unlock()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.done:
		return fmt.Errorf("watcher connection closed")
	case err := <-resultCh:
		return err
	}
}

// Close closes the WebSocket connection and stops the loops.
func (w *WSWatcher) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		// Already closed, by us or by a read failure. Make sure the
		// connection is torn down and the loops have drained.
		_ = w.conn.Close()
		w.wg.Wait()
		return nil
	}
	close(w.done)
	err := w.conn.Close()
	w.wg.Wait()
	return err
}

func (w *WSWatcher) write(v interface{}) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	w.conn.SetWriteDeadline(time.Now().Add(w.config.WriteTimeout))
	if err := w.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("websocket write: %w", err)
	}
	return nil
}

func (w *WSWatcher) readLoop() {
	defer w.wg.Done()

	for {
		var msg wsMessage
		if err := w.conn.ReadJSON(&msg); err != nil {
			if w.closed.CompareAndSwap(false, true) {
				close(w.done)
			}
			return
		}

		switch {
		case msg.Method == "signatureNotification" && msg.Params != nil:
			w.dispatchNotification(msg.Params)
		case msg.ID != 0:
			w.dispatchSubReply(&msg)
		}
	}
}

// dispatchSubReply routes a subscription confirmation to the waiter that
// issued the request.
func (w *WSWatcher) dispatchSubReply(msg *wsMessage) {
	w.pendingSubsMu.Lock()
	ch, ok := w.pendingSubs[msg.ID]
	w.pendingSubsMu.Unlock()
	if !ok {
		return
	}

	if msg.Error != nil {
		// Waiter times out via its ctx; nothing to deliver.
		return
	}

	var subID int64
	if err := json.Unmarshal(msg.Result, &subID); err != nil {
		return
	}

	select {
	case ch <- subID:
	default:
	}
}

func (w *WSWatcher) dispatchNotification(params *wsNotifyParams) {
	w.subsMu.Lock()
	ch, ok := w.subs[params.Subscription]
	w.subsMu.Unlock()
	if !ok {
		return
	}

	var result error
	if params.Result.Value.Err != nil {
		result = fmt.Errorf("transaction failed on-chain: %v", params.Result.Value.Err)
	}

	select {
	case ch <- result:
	default:
	}
}

func (w *WSWatcher) pingLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.writeMu.Lock()
			w.conn.SetWriteDeadline(time.Now().Add(w.config.WriteTimeout))
			_ = w.conn.WriteMessage(websocket.PingMessage, nil)
			w.writeMu.Unlock()
		}
	}
}
