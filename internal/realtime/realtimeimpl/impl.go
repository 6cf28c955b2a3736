package realtimeimpl

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/elixir/internal/observability"
	"github.com/orgball2608/elixir/internal/realtime"
	"github.com/orgball2608/elixir/pkg/logger"
	"github.com/orgball2608/elixir/pkg/retry"
)

// Listener serves subscriptions from postgres LISTEN/NOTIFY. Each
// subscription owns one connection taken out of the pool.
type Listener struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func New(pool *pgxpool.Pool, log logger.Logger) *Listener {
	return &Listener{
		pool:   pool,
		logger: log.WithComponent("Realtime"),
	}
}

var _ realtime.Client = (*Listener)(nil)

type subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

func (l *Listener) Subscribe(ctx context.Context, table string, kind realtime.EventKind, handler realtime.Handler) (realtime.Subscription, error) {
	conn, err := l.listen(ctx)
	if err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go l.run(subCtx, conn, table, kind, handler, sub.done)

	l.logger.Info("Realtime subscription opened", "table", table, "kind", kind)
	return sub, nil
}

func (l *Listener) listen(ctx context.Context) (*pgx.Conn, error) {
	pooled, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire listen connection: %w", err)
	}
	// LISTEN state must never go back to the pool.
	conn := pooled.Hijack()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{realtime.Channel}.Sanitize()); err != nil {
		conn.Close(context.Background())
		return nil, fmt.Errorf("failed to listen on %s: %w", realtime.Channel, err)
	}
	return conn, nil
}

func (l *Listener) run(ctx context.Context, conn *pgx.Conn, table string, kind realtime.EventKind, handler realtime.Handler, done chan<- struct{}) {
	defer close(done)

	for {
		err := l.consume(ctx, conn, table, kind, handler)
		conn.Close(context.Background())
		if ctx.Err() != nil {
			l.logger.Info("Realtime subscription closed", "table", table, "kind", kind)
			return
		}

		l.logger.Warn("Realtime connection lost", "table", table, "error", err)
		err = retry.Do(ctx, l.logger, "realtime.listen", func() error {
			c, err := l.listen(ctx)
			if err != nil {
				return err
			}
			conn = c
			return nil
		}, retry.ReconnectConfig())
		if err != nil {
			l.logger.Info("Realtime subscription gave up reconnecting", "table", table, "error", err)
			return
		}
	}
}

func (l *Listener) consume(ctx context.Context, conn *pgx.Conn, table string, kind realtime.EventKind, handler realtime.Handler) error {
	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		dispatch(l.logger, n.Payload, table, kind, handler)
	}
}

func dispatch(log logger.Logger, payload string, table string, kind realtime.EventKind, handler realtime.Handler) bool {
	ev, err := realtime.Decode(payload)
	if err != nil {
		log.Warn("Dropping realtime notification", "error", err)
		return false
	}
	observability.RealtimeEventsTotal.WithLabelValues(ev.Table, string(ev.Kind)).Inc()

	if !ev.Matches(table, kind) {
		return false
	}
	handler(ev)
	return true
}
