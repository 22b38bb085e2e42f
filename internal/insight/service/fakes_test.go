package service

import (
	"context"
	"sync"

	"golang-stock-insight/internal/entity"
	"golang-stock-insight/internal/insight/dto"
)

// fakeAI routes every completion through a single function so tests can
// script responses per prompt.
type fakeAI struct {
	mu       sync.Mutex
	calls    int
	complete func(prompt string, images [][]byte) (string, error)
}

func (f *fakeAI) Complete(_ context.Context, prompt string, images [][]byte) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.complete(prompt, images)
}

func (f *fakeAI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeDirectory struct {
	stocks []entity.StockBasic
	err    error
}

func (f *fakeDirectory) ListStocks(context.Context) ([]entity.StockBasic, error) {
	return f.stocks, f.err
}

type fakeSearch struct {
	docs []dto.SearchDocument
	err  error
}

func (f *fakeSearch) Search(_ context.Context, _ string, _, _ string, _ int) ([]dto.SearchDocument, error) {
	return f.docs, f.err
}
