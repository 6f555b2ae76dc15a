package graph

import (
	"context"
	"sync"
)

// MemoryClient is an in-memory implementation of the Client interface used to
// exercise store logic without a running graph database.
type MemoryClient struct {
	mu           sync.Mutex
	statements   []Statement
	readResults  []Result
	writeResults []Result
	err          error
	connectivity error
}

// Statement captures one cypher statement executed against the client.
type Statement struct {
	Kind   string // "read" or "write"
	Query  string
	Params map[string]any
}

// NewMemoryClient instantiates an empty in-memory client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// WithError configures the client to return the provided error for all
// subsequent read and write calls.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return the supplied error.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// PushReadResult queues a result returned by the next ExecuteRead call.
func (m *MemoryClient) PushReadResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readResults = append(m.readResults, res)
}

// PushWriteResult queues a result returned by the next ExecuteWrite call.
func (m *MemoryClient) PushWriteResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeResults = append(m.writeResults, res)
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	return m.execute("write", cypher, params)
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	return m.execute("read", cypher, params)
}

func (m *MemoryClient) execute(kind, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Result{}, m.err
	}

	m.statements = append(m.statements, Statement{
		Kind:   kind,
		Query:  cypher,
		Params: cloneParams(params),
	})

	queue := &m.readResults
	if kind == "write" {
		queue = &m.writeResults
	}
	if len(*queue) == 0 {
		return Result{}, nil
	}
	res := (*queue)[0]
	*queue = (*queue)[1:]
	return res, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	return nil
}

// Statements returns a snapshot of every statement executed so far.
func (m *MemoryClient) Statements() []Statement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Statement(nil), m.statements...)
}

// WriteStatements returns the subset of executed statements issued as writes.
func (m *MemoryClient) WriteStatements() []Statement {
	var writes []Statement
	for _, st := range m.Statements() {
		if st.Kind == "write" {
			writes = append(writes, st)
		}
	}
	return writes
}

func cloneParams(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
