// Package http exposes the chat and kitchen surfaces over HTTP.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"dinemate/internal/agent"
	"dinemate/internal/core/application/usecases/commands"
	"dinemate/internal/core/application/usecases/queries"
	"dinemate/internal/core/domain/model/kernel"
	"dinemate/internal/core/domain/model/menu"
	"dinemate/internal/core/domain/model/order"
	"dinemate/internal/core/ports"
	"dinemate/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and the application layer.
// The chat endpoint fronts the dialogue orchestrator; the kitchen endpoints
// talk to command and query handlers directly.
type Server struct {
	orchestrator *agent.Orchestrator
	menuRepo     ports.MenuRepository

	// Command handlers
	advanceOrderStatusHandler commands.AdvanceOrderStatusCommandHandler

	// Query handlers
	getKitchenOrdersHandler queries.GetKitchenOrdersQueryHandler
	getOrderDetailsHandler  queries.GetOrderDetailsQueryHandler
}

// NewServer creates a new HTTP server with the required handlers.
func NewServer(
	orchestrator *agent.Orchestrator,
	menuRepo ports.MenuRepository,
	advanceOrderStatusHandler commands.AdvanceOrderStatusCommandHandler,
	getKitchenOrdersHandler queries.GetKitchenOrdersQueryHandler,
	getOrderDetailsHandler queries.GetOrderDetailsQueryHandler,
) *Server {
	return &Server{
		orchestrator:              orchestrator,
		menuRepo:                  menuRepo,
		advanceOrderStatusHandler: advanceOrderStatusHandler,
		getKitchenOrdersHandler:   getKitchenOrdersHandler,
		getOrderDetailsHandler:    getOrderDetailsHandler,
	}
}

// RegisterRoutes attaches all endpoints to the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/chat", s.Chat)
	e.GET("/api/v1/menu", s.GetMenu)
	e.GET("/api/v1/orders", s.GetKitchenOrders)
	e.GET("/api/v1/orders/:id", s.GetOrder)
	e.POST("/api/v1/orders/:id/status", s.AdvanceOrderStatus)
}

// Error is the uniform error body for all endpoints.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ChatRequest is one user turn. SessionID is optional: a blank one starts
// a new conversation and the assigned ID comes back in the response.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse carries the assistant's reply for one turn.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// Order is the kitchen-facing view of an order.
type Order struct {
	ID         int64          `json:"id"`
	Items      map[string]int `json:"items"`
	TotalPrice float64        `json:"total_price"`
	Status     string         `json:"status"`
	PlacedAt   time.Time      `json:"placed_at"`
}

// StatusUpdate asks to move an order to a new lifecycle status.
type StatusUpdate struct {
	Status string `json:"status"`
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}

// Chat handles POST /api/v1/chat - one conversation turn with the assistant.
func (s *Server) Chat(ctx echo.Context) error {
	var req ChatRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	var sessionID kernel.UUID
	if req.SessionID == "" {
		sessionID = kernel.NewUUID()
	} else {
		var err error
		sessionID, err = kernel.UUIDFromString(req.SessionID)
		if err != nil {
			return errorJSON(ctx, http.StatusBadRequest, "Invalid session ID")
		}
	}

	reply, err := s.orchestrator.HandleMessage(ctx.Request().Context(), sessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, agent.ErrMessageIsRequired):
			return errorJSON(ctx, http.StatusBadRequest, "Message is required")
		case errors.Is(err, agent.ErrDialogueUnavailable):
			return errorJSON(ctx, http.StatusServiceUnavailable, "Dialogue service is unavailable, please retry")
		default:
			return errorJSON(ctx, http.StatusInternalServerError, "Failed to process message")
		}
	}

	return ctx.JSON(http.StatusOK, ChatResponse{
		SessionID: sessionID.String(),
		Reply:     reply,
	})
}

// GetMenu handles GET /api/v1/menu - the current catalog with prices.
func (s *Server) GetMenu(ctx echo.Context) error {
	catalog, err := s.menuRepo.Load(ctx.Request().Context())
	if err != nil {
		if errors.Is(err, menu.ErrCatalogUnavailable) {
			return errorJSON(ctx, http.StatusServiceUnavailable, "Menu is unavailable")
		}
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to load menu")
	}

	return ctx.JSON(http.StatusOK, map[string]map[string]float64{"menu": catalog.Items()})
}

// GetKitchenOrders handles GET /api/v1/orders?status=Pending - the kitchen board.
func (s *Server) GetKitchenOrders(ctx echo.Context) error {
	status, err := order.ParseStatus(ctx.QueryParam("status"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Unknown order status")
	}

	query, err := queries.NewGetKitchenOrdersQuery(status)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	orders, err := s.getKitchenOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve orders")
	}

	response := make([]Order, len(orders))
	for i, o := range orders {
		response[i] = Order{
			ID:         o.ID,
			Items:      o.Items,
			TotalPrice: o.TotalPrice,
			Status:     o.Status.String(),
			PlacedAt:   o.PlacedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:id - a single order's details.
func (s *Server) GetOrder(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order ID")
	}

	query, err := queries.NewGetOrderDetailsQuery(id)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	details, err := s.getOrderDetailsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errorJSON(ctx, http.StatusNotFound, "Order not found")
		}
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve order")
	}

	return ctx.JSON(http.StatusOK, Order{
		ID:         details.ID,
		Items:      details.Items,
		TotalPrice: details.TotalPrice,
		Status:     details.Status.String(),
		PlacedAt:   details.PlacedAt,
	})
}

// AdvanceOrderStatus handles POST /api/v1/orders/:id/status - kitchen progress.
func (s *Server) AdvanceOrderStatus(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order ID")
	}

	var req StatusUpdate
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Unknown order status")
	}

	cmd, err := commands.NewAdvanceOrderStatusCommand(id, target)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.advanceOrderStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		switch {
		case errors.Is(err, errs.ErrObjectNotFound):
			return errorJSON(ctx, http.StatusNotFound, "Order not found")
		case errors.Is(err, order.ErrInvalidTransition), errors.Is(err, ports.ErrOrderConflict):
			return errorJSON(ctx, http.StatusConflict, err.Error())
		default:
			return errorJSON(ctx, http.StatusInternalServerError, "Failed to update order status")
		}
	}

	return ctx.NoContent(http.StatusNoContent)
}
