package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/trungthanhnguyenn/lumir/internal/domain"
	"github.com/trungthanhnguyenn/lumir/internal/idhash"
	"github.com/trungthanhnguyenn/lumir/internal/observability"
)

// TailConfig configures the WebSocket ledger tail.
type TailConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultTailConfig returns default tail configuration.
func DefaultTailConfig() TailConfig {
	return TailConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// tradeEvent is the wire frame a broker feed pushes per closed trade.
type tradeEvent struct {
	Symbol       string   `json:"symbol"`
	Side         string   `json:"side"`
	CloseTimeMs  int64    `json:"close_time_ms"`
	NetProfit    float64  `json:"net_profit"`
	Commission   float64  `json:"commission"`
	Swap         float64  `json:"swap"`
	ProfitGross  *float64 `json:"profit_gross,omitempty"`
	BalanceAfter *float64 `json:"balance_after,omitempty"`
	Pips         *float64 `json:"pips,omitempty"`
	Volume       *float64 `json:"volume,omitempty"`
}

// Tail streams closed trades from a WebSocket ledger feed. It owns the
// connection, reconnects with exponential backoff, and never drops an
// event: the output channel send blocks.
type Tail struct {
	endpoint string
	ledgerID string
	config   TailConfig

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	// seq disambiguates trades sharing a close timestamp.
	seq int

	out  chan *domain.TradeRecord
	done chan struct{}
	wg   sync.WaitGroup

	logger *log.Logger
}

// NewTail connects to the feed endpoint and starts reading. Trades
// arrive on Trades() until Close or a context cancellation via Run.
func NewTail(ctx context.Context, endpoint, ledgerID string, config *TailConfig) (*Tail, error) {
	cfg := DefaultTailConfig()
	if config != nil {
		cfg = *config
	}

	t := &Tail{
		endpoint: endpoint,
		ledgerID: ledgerID,
		config:   cfg,
		out:      make(chan *domain.TradeRecord, 1024),
		done:     make(chan struct{}),
		logger:   log.New(log.Writer(), "[tail] ", log.LstdFlags|log.Lshortfile),
	}

	if err := t.connect(ctx); err != nil {
		return nil, err
	}

	t.wg.Add(1)
	go t.readLoop()

	t.wg.Add(1)
	go t.pingLoop()

	return t, nil
}

// Trades returns the channel of decoded trade records. Closed on Close.
func (t *Tail) Trades() <-chan *domain.TradeRecord {
	return t.out
}

// connect establishes the WebSocket connection.
func (t *Tail) connect(ctx context.Context) error {
	t.connMu.Lock()
	defer t.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, t.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	t.conn = conn
	return nil
}

// Close closes the connection and the trades channel.
func (t *Tail) Close() error {
	if t.closed.Swap(true) {
		return nil // Already closed
	}

	close(t.done)

	t.connMu.Lock()
	if t.conn != nil {
		t.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		t.conn.Close()
	}
	t.connMu.Unlock()

	t.wg.Wait()
	close(t.out)
	return nil
}

// readLoop reads frames and dispatches decoded trades.
func (t *Tail) readLoop() {
	defer t.wg.Done()

	reconnectDelay := t.config.ReconnectDelay

	for !t.closed.Load() {
		t.connMu.Lock()
		conn := t.conn
		t.connMu.Unlock()

		if conn == nil {
			select {
			case <-t.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(t.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if t.closed.Load() {
				return
			}

			t.logger.Printf("read error, reconnecting in %s: %v", reconnectDelay, err)
			t.reconnect(reconnectDelay)

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > t.config.MaxReconnectDelay {
				reconnectDelay = t.config.MaxReconnectDelay
			}
			continue
		}

		// Reset delay on successful read
		reconnectDelay = t.config.ReconnectDelay

		t.handleMessage(message)
	}
}

// reconnect waits and re-dials. Failures fall back to the read loop,
// which retries with a longer delay.
func (t *Tail) reconnect(delay time.Duration) {
	if t.closed.Load() {
		return
	}

	t.connMu.Lock()
	if t.conn != nil {
		t.conn.Close()
		t.conn = nil
	}
	t.connMu.Unlock()

	select {
	case <-t.done:
		return
	case <-time.After(delay):
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	observability.DefaultMetrics.TailReconnects.Inc()
	if err := t.connect(ctx); err != nil {
		t.logger.Printf("reconnect failed: %v", err)
	}
}

// handleMessage decodes one frame. Malformed frames are logged and
// skipped; a bad event must not kill the feed.
func (t *Tail) handleMessage(message []byte) {
	var ev tradeEvent
	if err := json.Unmarshal(message, &ev); err != nil {
		t.logger.Printf("skipping malformed frame: %v", err)
		return
	}
	if ev.Symbol == "" || ev.CloseTimeMs == 0 {
		t.logger.Printf("skipping incomplete frame: symbol=%q close_time_ms=%d", ev.Symbol, ev.CloseTimeMs)
		return
	}

	side, ok := sideLabels[strings.ToLower(strings.TrimSpace(ev.Side))]
	if !ok {
		t.logger.Printf("skipping frame with unrecognized side %q", ev.Side)
		return
	}

	rec := &domain.TradeRecord{
		LedgerID:     t.ledgerID,
		Symbol:       ev.Symbol,
		Side:         side,
		CloseTime:    time.UnixMilli(ev.CloseTimeMs).UTC(),
		NetProfit:    ev.NetProfit,
		Commission:   ev.Commission,
		Swap:         ev.Swap,
		ProfitGross:  ev.ProfitGross,
		BalanceAfter: ev.BalanceAfter,
		Pips:         ev.Pips,
		Volume:       ev.Volume,
	}
	rec.TradeID = idhash.ComputeTradeID(t.ledgerID, ev.Symbol, ev.CloseTimeMs, t.seq)
	t.seq++

	// Block until we can send - never drop events
	select {
	case t.out <- rec:
		observability.DefaultMetrics.TailQueueDepth.Set(float64(len(t.out)))
	case <-t.done:
	}
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (t *Tail) pingLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.connMu.Lock()
			if t.conn != nil {
				t.conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout))
				if err := t.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Reader will notice the dead connection and reconnect
				}
			}
			t.connMu.Unlock()
		}
	}
}
