package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dinemate/internal/core/application/usecases/commands"
	"dinemate/internal/core/application/usecases/queries"
	"dinemate/internal/core/domain/model/cart"
	"dinemate/internal/core/domain/model/menu"
	"dinemate/internal/core/ports"

	"github.com/sashabaranov/go-openai"
)

// ErrUnknownTool is returned when the model requests a tool outside the
// registry. The set of tools is closed: nothing else is callable.
var ErrUnknownTool = errors.New("unknown tool")

// Registry maps the model-facing tool names onto domain operations.
// Every tool result is a JSON payload; domain failures come back as
// {"error": ...} payloads so the model can relay them instead of aborting
// the turn.
type Registry struct {
	menuRepo       ports.MenuRepository
	confirmHandler commands.ConfirmOrderCommandHandler
	modifyHandler  commands.ModifyOrderCommandHandler
	cancelHandler  commands.CancelOrderCommandHandler
	statusHandler  queries.CheckOrderStatusQueryHandler
	detailsHandler queries.GetOrderDetailsQueryHandler
}

// NewRegistry wires the ordering tools to their domain handlers.
func NewRegistry(
	menuRepo ports.MenuRepository,
	confirmHandler commands.ConfirmOrderCommandHandler,
	modifyHandler commands.ModifyOrderCommandHandler,
	cancelHandler commands.CancelOrderCommandHandler,
	statusHandler queries.CheckOrderStatusQueryHandler,
	detailsHandler queries.GetOrderDetailsQueryHandler,
) *Registry {
	return &Registry{
		menuRepo:       menuRepo,
		confirmHandler: confirmHandler,
		modifyHandler:  modifyHandler,
		cancelHandler:  cancelHandler,
		statusHandler:  statusHandler,
		detailsHandler: detailsHandler,
	}
}

// Definitions returns the tool schemas advertised to the model.
func (r *Registry) Definitions() []openai.Tool {
	mk := func(name, description, params string) openai.Tool {
		return openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        name,
				Description: description,
				Parameters:  json.RawMessage(params),
			},
		}
	}

	itemsMap := `{"type":"object","properties":{"items":{"type":"object","additionalProperties":{"type":"integer"},"description":"item name to quantity"}},"required":["items"]}`
	orderID := `{"type":"object","properties":{"order_id":{"type":"integer"}},"required":["order_id"]}`
	empty := `{"type":"object","properties":{}}`

	return []openai.Tool{
		mk("fetchMenu", "Get the full menu with prices, freshly loaded from the store. Use when the customer asks for the menu or wants current prices.", empty),
		mk("validateItems", "Check availability and unit prices for a list of item names. Unavailable items come back with a null price.",
			`{"type":"object","properties":{"items":{"type":"array","items":{"type":"string"}}},"required":["items"]}`),
		mk("addToCart", "Add items with quantities to the cart. Available items are added even when others are not.", itemsMap),
		mk("updateCart", "Set the quantity of an item already in the cart. Quantity 0 removes it.",
			`{"type":"object","properties":{"item":{"type":"string"},"quantity":{"type":"integer"}},"required":["item","quantity"]}`),
		mk("removeFromCart", "Remove an item from the cart.",
			`{"type":"object","properties":{"item":{"type":"string"}},"required":["item"]}`),
		mk("replaceInCart", "Replace one cart item with another menu item, keeping the quantity.",
			`{"type":"object","properties":{"old_item":{"type":"string"},"new_item":{"type":"string"}},"required":["old_item","new_item"]}`),
		mk("confirmOrder", "Place the order from the current cart. Returns the order ID, total and estimated ready time.", empty),
		mk("modifyOrder", "Replace the full item list of a placed order. Only allowed shortly after placement.",
			`{"type":"object","properties":{"order_id":{"type":"integer"},"items":{"type":"object","additionalProperties":{"type":"integer"}}},"required":["order_id","items"]}`),
		mk("cancelOrder", "Cancel a placed order. Only allowed shortly after placement.", orderID),
		mk("checkStatus", "Get the status, estimated ready time and delay flag of an order.", orderID),
		mk("getOrderDetails", "Get the full contents of an order: items, total, status.", orderID),
	}
}

// Execute runs one tool call against the given session. The caller must hold
// the session lock. Domain failures are encoded into the returned payload;
// the error return is reserved for broken invocations (unknown tool,
// malformed arguments) and infrastructure faults.
func (r *Registry) Execute(ctx context.Context, sess *Session, name, args string) (string, error) {
	switch name {
	case "fetchMenu":
		return r.fetchMenu(ctx, sess)
	case "validateItems":
		return r.validateItems(ctx, sess, args)
	case "addToCart":
		return r.addToCart(ctx, sess, args)
	case "updateCart":
		return r.updateCart(ctx, sess, args)
	case "removeFromCart":
		return r.removeFromCart(ctx, sess, args)
	case "replaceInCart":
		return r.replaceInCart(ctx, sess, args)
	case "confirmOrder":
		return r.confirmOrder(ctx, sess)
	case "modifyOrder":
		return r.modifyOrder(ctx, args)
	case "cancelOrder":
		return r.cancelOrder(ctx, args)
	case "checkStatus":
		return r.checkStatus(ctx, args)
	case "getOrderDetails":
		return r.getOrderDetails(ctx, args)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
}

func payload(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func errorPayload(err error) (string, error) {
	return payload(map[string]string{"error": err.Error()})
}

// catalog serves the conversation's cached menu, hitting the store only on
// the first use. fetchMenu is the explicit refresh path; everything else
// validates against the cache.
func (r *Registry) catalog(ctx context.Context, sess *Session) (menu.Catalog, error) {
	if cached, ok := sess.MenuCache(); ok {
		return cached, nil
	}

	catalog, err := r.menuRepo.Load(ctx)
	if err != nil {
		return menu.Catalog{}, err
	}
	sess.CacheMenu(catalog)
	return catalog, nil
}

func (r *Registry) fetchMenu(ctx context.Context, sess *Session) (string, error) {
	catalog, err := r.menuRepo.Load(ctx)
	if err != nil {
		return errorPayload(err)
	}

	sess.CacheMenu(catalog)
	return payload(map[string]any{"menu": catalog.Items()})
}

func (r *Registry) validateItems(ctx context.Context, sess *Session, args string) (string, error) {
	var req struct {
		Items []string `json:"items"`
	}
	if err := json.Unmarshal([]byte(args), &req); err != nil {
		return "", err
	}

	catalog, err := r.catalog(ctx, sess)
	if err != nil {
		return errorPayload(err)
	}
	return payload(map[string]any{"prices": catalog.PricesFor(req.Items)})
}

func (r *Registry) addToCart(ctx context.Context, sess *Session, args string) (string, error) {
	var req struct {
		Items map[string]int `json:"items"`
	}
	if err := json.Unmarshal([]byte(args), &req); err != nil {
		return "", err
	}

	catalog, err := r.catalog(ctx, sess)
	if err != nil {
		return errorPayload(err)
	}
	return payload(sess.Cart().Add(req.Items, catalog))
}

func (r *Registry) updateCart(ctx context.Context, sess *Session, args string) (string, error) {
	var req struct {
		Item     string `json:"item"`
		Quantity int    `json:"quantity"`
	}
	if err := json.Unmarshal([]byte(args), &req); err != nil {
		return "", err
	}

	catalog, err := r.catalog(ctx, sess)
	if err != nil {
		return errorPayload(err)
	}

	snapshot, err := sess.Cart().Update(req.Item, req.Quantity, catalog)
	if err != nil {
		return errorPayload(err)
	}
	return payload(snapshot)
}

func (r *Registry) removeFromCart(ctx context.Context, sess *Session, args string) (string, error) {
	var req struct {
		Item string `json:"item"`
	}
	if err := json.Unmarshal([]byte(args), &req); err != nil {
		return "", err
	}

	catalog, err := r.catalog(ctx, sess)
	if err != nil {
		return errorPayload(err)
	}

	snapshot, err := sess.Cart().Remove(req.Item, catalog)
	if err != nil {
		return errorPayload(err)
	}
	return payload(snapshot)
}

func (r *Registry) replaceInCart(ctx context.Context, sess *Session, args string) (string, error) {
	var req struct {
		OldItem string `json:"old_item"`
		NewItem string `json:"new_item"`
	}
	if err := json.Unmarshal([]byte(args), &req); err != nil {
		return "", err
	}

	catalog, err := r.catalog(ctx, sess)
	if err != nil {
		return errorPayload(err)
	}

	snapshot, err := sess.Cart().Replace(req.OldItem, req.NewItem, catalog)
	if err != nil {
		return errorPayload(err)
	}
	return payload(snapshot)
}

func (r *Registry) confirmOrder(ctx context.Context, sess *Session) (string, error) {
	if sess.Cart().IsEmpty() {
		return errorPayload(cart.ErrEmptyCart)
	}

	cmd, err := commands.NewConfirmOrderCommand(sess.Cart().Items())
	if err != nil {
		return errorPayload(err)
	}

	result, err := r.confirmHandler.Handle(ctx, cmd)
	if err != nil {
		return errorPayload(err)
	}

	placed := result.Order
	sess.RecordConfirmedOrder(placed.ID(), placed.TotalPrice())
	sess.Cart().Clear()

	return payload(map[string]any{
		"order_id":           placed.ID(),
		"items":              placed.Items(),
		"total_price":        placed.TotalPrice(),
		"status":             placed.Status().String(),
		"estimated_ready_by": result.EstimatedReadyBy.Format(time.RFC3339),
	})
}

func (r *Registry) modifyOrder(ctx context.Context, args string) (string, error) {
	var req struct {
		OrderID int64          `json:"order_id"`
		Items   map[string]int `json:"items"`
	}
	if err := json.Unmarshal([]byte(args), &req); err != nil {
		return "", err
	}

	cmd, err := commands.NewModifyOrderCommand(req.OrderID, req.Items)
	if err != nil {
		return errorPayload(err)
	}

	result, err := r.modifyHandler.Handle(ctx, cmd)
	if err != nil {
		return errorPayload(err)
	}

	return payload(map[string]any{
		"order_id":    result.Order.ID(),
		"items":       result.Order.Items(),
		"total_price": result.Order.TotalPrice(),
		"status":      result.Order.Status().String(),
	})
}

func (r *Registry) cancelOrder(ctx context.Context, args string) (string, error) {
	var req struct {
		OrderID int64 `json:"order_id"`
	}
	if err := json.Unmarshal([]byte(args), &req); err != nil {
		return "", err
	}

	cmd, err := commands.NewCancelOrderCommand(req.OrderID)
	if err != nil {
		return errorPayload(err)
	}

	if err = r.cancelHandler.Handle(ctx, cmd); err != nil {
		return errorPayload(err)
	}

	return payload(map[string]any{"order_id": req.OrderID, "canceled": true})
}

func (r *Registry) checkStatus(ctx context.Context, args string) (string, error) {
	var req struct {
		OrderID int64 `json:"order_id"`
	}
	if err := json.Unmarshal([]byte(args), &req); err != nil {
		return "", err
	}

	query, err := queries.NewCheckOrderStatusQuery(req.OrderID)
	if err != nil {
		return errorPayload(err)
	}

	resp, err := r.statusHandler.Handle(ctx, query)
	if err != nil {
		return errorPayload(err)
	}

	out := map[string]any{
		"order_id": resp.ID,
		"status":   resp.Status.String(),
		"delayed":  resp.Delayed,
	}
	if resp.EstimatedReadyBy != nil {
		out["estimated_ready_by"] = resp.EstimatedReadyBy.Format(time.RFC3339)
	}
	return payload(out)
}

func (r *Registry) getOrderDetails(ctx context.Context, args string) (string, error) {
	var req struct {
		OrderID int64 `json:"order_id"`
	}
	if err := json.Unmarshal([]byte(args), &req); err != nil {
		return "", err
	}

	query, err := queries.NewGetOrderDetailsQuery(req.OrderID)
	if err != nil {
		return errorPayload(err)
	}

	resp, err := r.detailsHandler.Handle(ctx, query)
	if err != nil {
		return errorPayload(err)
	}

	return payload(map[string]any{
		"order_id":    resp.ID,
		"items":       resp.Items,
		"total_price": resp.TotalPrice,
		"status":      resp.Status.String(),
		"placed_at":   resp.PlacedAt.Format(time.RFC3339),
	})
}
