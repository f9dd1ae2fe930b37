package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// MockClickHouseConn implements driver.Conn for testing
type MockClickHouseConn struct {
	driver.Conn

	mu        sync.Mutex
	Batches   []*MockBatch
	Execs     []string
	SendErr   error
	PrepErr   error
	PrepQuery string
}

func (m *MockClickHouseConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PrepQuery = query
	if m.PrepErr != nil {
		return nil, m.PrepErr
	}
	b := &MockBatch{sendErr: m.SendErr}
	m.Batches = append(m.Batches, b)
	return b, nil
}

func (m *MockClickHouseConn) Exec(ctx context.Context, query string, args ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Execs = append(m.Execs, query)
	return nil
}

// SentRows returns every row appended to a batch that was sent.
func (m *MockClickHouseConn) SentRows() [][]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows [][]interface{}
	for _, b := range m.Batches {
		if b.sent {
			rows = append(rows, b.rows...)
		}
	}
	return rows
}

// MockBatch implements driver.Batch
type MockBatch struct {
	rows    [][]interface{}
	sent    bool
	sendErr error
}

func (m *MockBatch) IsSent() bool {
	return m.sent
}

func (m *MockBatch) Rows() int {
	return len(m.rows)
}

func (m *MockBatch) Append(v ...interface{}) error {
	if len(v) != 9 {
		return errors.New("unexpected column count")
	}
	m.rows = append(m.rows, v)
	return nil
}

func (m *MockBatch) AppendStruct(v interface{}) error {
	return nil
}

func (m *MockBatch) Column(int) driver.BatchColumn {
	return nil
}

func (m *MockBatch) Send() error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = true
	return nil
}

func (m *MockBatch) Flush() error {
	return nil
}

func (m *MockBatch) Abort() error {
	return nil
}
