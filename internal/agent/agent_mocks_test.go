package agent

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"dinemate/internal/core/application/usecases/commands"
	"dinemate/internal/core/domain/model/menu"
	"dinemate/internal/core/domain/model/order"
	"dinemate/internal/core/ports"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/mock"
)

// scriptedClient replays a fixed sequence of model responses and records
// every request it receives.
type scriptedClient struct {
	mu       sync.Mutex
	script   []func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	requests []openai.ChatCompletionRequest
}

func (c *scriptedClient) CreateChatCompletion(
	_ context.Context,
	req openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = append(c.requests, req)
	if len(c.script) == 0 {
		return openai.ChatCompletionResponse{}, errors.New("unscripted model call")
	}

	next := c.script[0]
	c.script = c.script[1:]
	return next(req)
}

func textResponse(content string) func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: content,
				}},
			},
		}, nil
	}
}

func toolResponse(callID, name, args string) func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{
					Role: openai.ChatMessageRoleAssistant,
					ToolCalls: []openai.ToolCall{{
						ID:   callID,
						Type: openai.ToolTypeFunction,
						Function: openai.FunctionCall{
							Name:      name,
							Arguments: args,
						},
					}},
				}},
			},
		}, nil
	}
}

func failingResponse(err error) func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, err
	}
}

type stubMenuRepository struct {
	catalog menu.Catalog
	err     error
}

func (s stubMenuRepository) Load(context.Context) (menu.Catalog, error) {
	if s.err != nil {
		return menu.Catalog{}, s.err
	}
	return s.catalog, nil
}

// countingMenuRepository records how many times the menu store is hit.
type countingMenuRepository struct {
	catalog menu.Catalog
	loads   int
}

func (s *countingMenuRepository) Load(context.Context) (menu.Catalog, error) {
	s.loads++
	return s.catalog, nil
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order, expected order.Status) error {
	args := m.Called(ctx, o, expected)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if o, ok := args.Get(0).(*order.Order); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) GetByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if orders, ok := args.Get(0).([]*order.Order); ok {
		return orders, args.Error(1)
	}
	return nil, args.Error(1)
}

// assigningOrderRepository hands out sequential IDs like the real store.
type assigningOrderRepository struct {
	mu     sync.Mutex
	nextID int64
}

func (r *assigningOrderRepository) Add(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return o.AssignID(r.nextID)
}

func (r *assigningOrderRepository) Update(context.Context, *order.Order, order.Status) error {
	return nil
}

func (r *assigningOrderRepository) Get(context.Context, int64) (*order.Order, error) {
	return nil, errors.New("not implemented")
}

func (r *assigningOrderRepository) GetByStatus(context.Context, order.Status) ([]*order.Order, error) {
	return nil, errors.New("not implemented")
}

// nopUoW satisfies the unit of work without a database.
type nopUoW struct {
	repo ports.OrderRepository
}

func (u nopUoW) Begin(context.Context) error            { return nil }
func (u nopUoW) Commit(context.Context) error           { return nil }
func (u nopUoW) Rollback(context.Context) error         { return nil }
func (u nopUoW) OrderRepository() ports.OrderRepository { return u.repo }

type nopUoWFactory struct {
	repo ports.OrderRepository
}

func (f nopUoWFactory) Create() commands.OrderUoW {
	return nopUoW{repo: f.repo}
}

func testCatalog() menu.Catalog {
	catalog, err := menu.NewCatalog(map[string]float64{
		"burger": 8.50,
		"fries":  3.00,
		"coke":   2.25,
	})
	if err != nil {
		panic(err)
	}
	return catalog
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
