package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "dinemate/internal/adapters/in/http"
	"dinemate/internal/agent"
	"dinemate/internal/core/application/usecases/commands"
	"dinemate/internal/core/application/usecases/queries"
	"dinemate/internal/core/domain/model/menu"
	"dinemate/internal/core/domain/model/order"
	"dinemate/internal/core/domain/services"
	"dinemate/internal/core/ports"
	"dinemate/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient replays canned model responses in order.
type scriptedClient struct {
	script []func(req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	calls  int
}

func (c *scriptedClient) CreateChatCompletion(
	_ context.Context,
	req openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	if c.calls >= len(c.script) {
		return openai.ChatCompletionResponse{}, errors.New("unexpected model call")
	}
	step := c.script[c.calls]
	c.calls++
	return step(req)
}

func textReply(text string) func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: text,
				}},
			},
		}, nil
	}
}

func failingReply() func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, errors.New("connection refused")
	}
}

type stubMenuRepository struct {
	catalog menu.Catalog
	err     error
}

func (s *stubMenuRepository) Load(context.Context) (menu.Catalog, error) {
	return s.catalog, s.err
}

// memOrderRepository holds orders in memory keyed by ID.
type memOrderRepository struct {
	orders map[int64]*order.Order
}

func newMemOrderRepository(orders ...*order.Order) *memOrderRepository {
	repo := &memOrderRepository{orders: make(map[int64]*order.Order)}
	for _, o := range orders {
		repo.orders[o.ID()] = o
	}
	return repo
}

func (r *memOrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	id := int64(len(r.orders) + 1)
	if err := aggregate.AssignID(id); err != nil {
		return err
	}
	r.orders[id] = aggregate
	return nil
}

func (r *memOrderRepository) Update(_ context.Context, aggregate *order.Order, _ order.Status) error {
	if _, ok := r.orders[aggregate.ID()]; !ok {
		return errs.NewObjectNotFoundError("order", aggregate.ID())
	}
	r.orders[aggregate.ID()] = aggregate
	return nil
}

func (r *memOrderRepository) Get(_ context.Context, id int64) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return o, nil
}

func (r *memOrderRepository) GetByStatus(_ context.Context, status order.Status) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range r.orders {
		if o.Status() == status {
			out = append(out, o)
		}
	}
	return out, nil
}

type nopUoW struct {
	orders ports.OrderRepository
}

func (u *nopUoW) Begin(context.Context) error            { return nil }
func (u *nopUoW) Commit(context.Context) error           { return nil }
func (u *nopUoW) Rollback(context.Context) error         { return nil }
func (u *nopUoW) OrderRepository() ports.OrderRepository { return u.orders }

type nopUoWFactory struct {
	orders ports.OrderRepository
}

func (f *nopUoWFactory) Create() commands.OrderUoW { return &nopUoW{orders: f.orders} }

func testCatalog(t *testing.T) menu.Catalog {
	t.Helper()
	catalog, err := menu.NewCatalog(map[string]float64{
		"burger": 8.50,
		"fries":  3.00,
	})
	require.NoError(t, err)
	return catalog
}

func testServer(t *testing.T, client agent.LLMClient, menuRepo ports.MenuRepository, orders ports.OrderRepository) *httpadapter.Server {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	uowFactory := &nopUoWFactory{orders: orders}
	policy := services.NewWindowPolicy(10 * time.Minute)

	registry := agent.NewRegistry(
		menuRepo,
		commands.NewConfirmOrderCommandHandler(uowFactory, menuRepo, 40*time.Minute),
		commands.NewModifyOrderCommandHandler(uowFactory, menuRepo, policy),
		commands.NewCancelOrderCommandHandler(uowFactory, policy),
		queries.NewCheckOrderStatusQueryHandler(nil, 40*time.Minute),
		queries.NewGetOrderDetailsQueryHandler(nil),
	)

	orchestrator := agent.NewOrchestrator(agent.OrchestratorConfig{
		Logger:     logger,
		Client:     client,
		Model:      "gpt-4o",
		Registry:   registry,
		Sessions:   agent.NewSessionStore(),
		Summarizer: agent.NewSummarizer(logger, client, "gpt-4o", 0, 0),
	})

	return httpadapter.NewServer(
		orchestrator,
		menuRepo,
		commands.NewAdvanceOrderStatusCommandHandler(uowFactory),
		queries.NewGetKitchenOrdersQueryHandler(nil),
		queries.NewGetOrderDetailsQueryHandler(nil),
	)
}

func doRequest(t *testing.T, server *httpadapter.Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	server.RegisterRoutes(e)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func pendingOrder(t *testing.T, id int64) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(id, map[string]int{"burger": 1}, 8.50, order.Pending, time.Now().UTC())
	require.NoError(t, err)
	return o
}

func TestChat_NewSessionGetsID(t *testing.T) {
	client := &scriptedClient{script: []func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error){
		textReply("Welcome to DineMate! What can I get you?"),
	}}
	server := testServer(t, client, &stubMenuRepository{catalog: testCatalog(t)}, newMemOrderRepository())

	rec := doRequest(t, server, http.MethodPost, "/api/v1/chat", `{"message":"hi"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp httpadapter.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "Welcome to DineMate! What can I get you?", resp.Reply)
}

func TestChat_ReusesProvidedSession(t *testing.T) {
	client := &scriptedClient{script: []func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error){
		textReply("first"),
		textReply("second"),
	}}
	server := testServer(t, client, &stubMenuRepository{catalog: testCatalog(t)}, newMemOrderRepository())

	rec := doRequest(t, server, http.MethodPost, "/api/v1/chat", `{"message":"hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var first httpadapter.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	rec = doRequest(t, server, http.MethodPost, "/api/v1/chat",
		`{"session_id":"`+first.SessionID+`","message":"one burger please"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var second httpadapter.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "second", second.Reply)
}

func TestChat_EmptyMessage(t *testing.T) {
	server := testServer(t, &scriptedClient{}, &stubMenuRepository{catalog: testCatalog(t)}, newMemOrderRepository())

	rec := doRequest(t, server, http.MethodPost, "/api/v1/chat", `{"message":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_InvalidSessionID(t *testing.T) {
	server := testServer(t, &scriptedClient{}, &stubMenuRepository{catalog: testCatalog(t)}, newMemOrderRepository())

	rec := doRequest(t, server, http.MethodPost, "/api/v1/chat", `{"session_id":"not-a-uuid","message":"hi"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_ModelUnavailable(t *testing.T) {
	client := &scriptedClient{script: []func(openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error){
		failingReply(),
	}}
	server := testServer(t, client, &stubMenuRepository{catalog: testCatalog(t)}, newMemOrderRepository())

	rec := doRequest(t, server, http.MethodPost, "/api/v1/chat", `{"message":"hi"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetMenu(t *testing.T) {
	server := testServer(t, &scriptedClient{}, &stubMenuRepository{catalog: testCatalog(t)}, newMemOrderRepository())

	rec := doRequest(t, server, http.MethodGet, "/api/v1/menu", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 8.50, resp["menu"]["burger"])
	assert.Equal(t, 3.00, resp["menu"]["fries"])
}

func TestGetMenu_Unavailable(t *testing.T) {
	menuRepo := &stubMenuRepository{err: menu.ErrCatalogUnavailable}
	server := testServer(t, &scriptedClient{}, menuRepo, newMemOrderRepository())

	rec := doRequest(t, server, http.MethodGet, "/api/v1/menu", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdvanceOrderStatus_Success(t *testing.T) {
	orders := newMemOrderRepository(pendingOrder(t, 1))
	server := testServer(t, &scriptedClient{}, &stubMenuRepository{catalog: testCatalog(t)}, orders)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/orders/1/status", `{"status":"Preparing"}`)

	require.Equal(t, http.StatusNoContent, rec.Code)

	updated, err := orders.Get(t.Context(), 1)
	require.NoError(t, err)
	assert.Equal(t, order.Preparing, updated.Status())
}

func TestAdvanceOrderStatus_NotFound(t *testing.T) {
	server := testServer(t, &scriptedClient{}, &stubMenuRepository{catalog: testCatalog(t)}, newMemOrderRepository())

	rec := doRequest(t, server, http.MethodPost, "/api/v1/orders/99/status", `{"status":"Preparing"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdvanceOrderStatus_BackwardMoveConflicts(t *testing.T) {
	ready, err := order.RestoreOrder(1, map[string]int{"burger": 1}, 8.50, order.Ready, time.Now().UTC())
	require.NoError(t, err)
	server := testServer(t, &scriptedClient{}, &stubMenuRepository{catalog: testCatalog(t)}, newMemOrderRepository(ready))

	rec := doRequest(t, server, http.MethodPost, "/api/v1/orders/1/status", `{"status":"Preparing"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdvanceOrderStatus_UnknownStatus(t *testing.T) {
	server := testServer(t, &scriptedClient{}, &stubMenuRepository{catalog: testCatalog(t)}, newMemOrderRepository(pendingOrder(t, 1)))

	rec := doRequest(t, server, http.MethodPost, "/api/v1/orders/1/status", `{"status":"Vaporized"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdvanceOrderStatus_InvalidID(t *testing.T) {
	server := testServer(t, &scriptedClient{}, &stubMenuRepository{catalog: testCatalog(t)}, newMemOrderRepository())

	rec := doRequest(t, server, http.MethodPost, "/api/v1/orders/abc/status", `{"status":"Preparing"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrder_InvalidID(t *testing.T) {
	server := testServer(t, &scriptedClient{}, &stubMenuRepository{catalog: testCatalog(t)}, newMemOrderRepository())

	rec := doRequest(t, server, http.MethodGet, "/api/v1/orders/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetKitchenOrders_UnknownStatus(t *testing.T) {
	server := testServer(t, &scriptedClient{}, &stubMenuRepository{catalog: testCatalog(t)}, newMemOrderRepository())

	rec := doRequest(t, server, http.MethodGet, "/api/v1/orders?status=Nope", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
