package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/bigkaa/symds-dashboard/internal/domain/model"
)

// executedQuery - запрос, полученный mockExecutor.
type executedQuery struct {
	query  string
	params []any
}

// mockExecutor - потокобезопасный мок repository.Executor.
// queryFn решает, что вернуть; все вызовы записываются.
type mockExecutor struct {
	mu      sync.Mutex
	calls   []executedQuery
	queryFn func(query string, params []any) ([]model.Row, error)
}

func (m *mockExecutor) Query(_ context.Context, query string, args ...any) ([]model.Row, error) {
	m.mu.Lock()
	m.calls = append(m.calls, executedQuery{query: query, params: args})
	m.mu.Unlock()

	if m.queryFn != nil {
		return m.queryFn(query, args)
	}
	return nil, nil
}

// find возвращает первый записанный запрос, содержащий все фрагменты.
func (m *mockExecutor) find(fragments ...string) (executedQuery, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
next:
	for _, c := range m.calls {
		for _, f := range fragments {
			if !strings.Contains(c.query, f) {
				continue next
			}
		}
		return c, true
	}
	return executedQuery{}, false
}

func (m *mockExecutor) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockNodeRepo - мок NodeReader, ConfigReader и ChannelReader.
type mockNodeRepo struct {
	nodesFn          func(ctx context.Context) ([]model.Row, error)
	heartbeatsFn     func(ctx context.Context) ([]model.Row, error)
	syncStatsFn      func(ctx context.Context) ([]model.Row, error)
	nodeGroupsFn     func(ctx context.Context) ([]model.Row, error)
	channelsFn       func(ctx context.Context) ([]model.Row, error)
	triggersFn       func(ctx context.Context) ([]model.Row, error)
	uniqueChannelsFn func(ctx context.Context) ([]model.Row, error)
}

func call(ctx context.Context, fn func(ctx context.Context) ([]model.Row, error)) ([]model.Row, error) {
	if fn != nil {
		return fn(ctx)
	}
	return nil, nil
}

func (m *mockNodeRepo) Nodes(ctx context.Context) ([]model.Row, error) {
	return call(ctx, m.nodesFn)
}

func (m *mockNodeRepo) NodeHeartbeats(ctx context.Context) ([]model.Row, error) {
	return call(ctx, m.heartbeatsFn)
}

func (m *mockNodeRepo) SyncBatchStats(ctx context.Context) ([]model.Row, error) {
	return call(ctx, m.syncStatsFn)
}

func (m *mockNodeRepo) NodeGroups(ctx context.Context) ([]model.Row, error) {
	return call(ctx, m.nodeGroupsFn)
}

func (m *mockNodeRepo) Channels(ctx context.Context) ([]model.Row, error) {
	return call(ctx, m.channelsFn)
}

func (m *mockNodeRepo) Triggers(ctx context.Context) ([]model.Row, error) {
	return call(ctx, m.triggersFn)
}

func (m *mockNodeRepo) UniqueChannels(ctx context.Context) ([]model.Row, error) {
	return call(ctx, m.uniqueChannelsFn)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }
