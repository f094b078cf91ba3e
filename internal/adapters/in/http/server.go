// Package http exposes the COD fulfillment operations over a JSON API.
// It coordinates between HTTP handlers and application use cases, mapping
// application-level errors to HTTP status codes.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"codship/internal/core/application/usecases/commands"
	"codship/internal/core/application/usecases/queries"
	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/order"
	"codship/internal/pkg/errs"
)

// RequestValidator adapts go-playground/validator to echo's Validator interface.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates the echo request validator.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// Server implements the HTTP handlers for the fulfillment API.
type Server struct {
	createOrderHandler     commands.CreateOrderCommandHandler
	allocatePartnerHandler commands.AllocatePartnerCommandHandler
	updateStageHandler     commands.UpdateStageCommandHandler
	cancelOrderHandler     commands.CancelOrderCommandHandler
	fallbackHandler        commands.FallbackCommandHandler

	trackingStatusHandler queries.GetTrackingStatusQueryHandler
	reportHandler         queries.GenerateReportQueryHandler
	getOrdersHandler      queries.GetOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	allocatePartnerHandler commands.AllocatePartnerCommandHandler,
	updateStageHandler commands.UpdateStageCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	fallbackHandler commands.FallbackCommandHandler,
	trackingStatusHandler queries.GetTrackingStatusQueryHandler,
	reportHandler queries.GenerateReportQueryHandler,
	getOrdersHandler queries.GetOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		allocatePartnerHandler: allocatePartnerHandler,
		updateStageHandler:     updateStageHandler,
		cancelOrderHandler:     cancelOrderHandler,
		fallbackHandler:        fallbackHandler,
		trackingStatusHandler:  trackingStatusHandler,
		reportHandler:          reportHandler,
		getOrdersHandler:       getOrdersHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewRequestValidator()

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetOrders)
	api.POST("/orders/:orderId/allocate", s.AllocatePartner)
	api.PUT("/orders/:orderId/stage", s.UpdateStage)
	api.POST("/orders/:orderId/cancel", s.CancelOrder)
	api.POST("/orders/:orderId/fallback", s.Fallback)
	api.GET("/orders/:orderId/tracking", s.GetTrackingStatus)
	api.GET("/reports", s.GenerateReport)
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, ErrorResponse{Code: code, Message: message})
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	Reference string  `json:"reference" validate:"required"`
	CODAmount float64 `json:"codAmount" validate:"required,gt=0"`
	Customer  struct {
		Name  string `json:"name" validate:"required"`
		Phone string `json:"phone" validate:"required"`
		Email string `json:"email" validate:"omitempty,email"`
	} `json:"customer" validate:"required"`
	Address struct {
		Region  string `json:"region" validate:"required"`
		City    string `json:"city"`
		Street  string `json:"street"`
		Details string `json:"details"`
		Notes   string `json:"notes"`
	} `json:"address" validate:"required"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order data: "+err.Error())
	}

	region, err := kernel.NewRegion(req.Address.Region)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid region: "+err.Error())
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		req.Reference,
		order.Customer{Name: req.Customer.Name, Phone: req.Customer.Phone, Email: req.Customer.Email},
		order.Address{
			Region:  region,
			City:    req.Address.City,
			Street:  req.Address.Street,
			Details: req.Address.Details,
			Notes:   req.Address.Notes,
		},
		req.CODAmount,
	)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorJSON(ctx, http.StatusConflict, "Failed to create order: "+handleErr.Error())
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": orderID.String()})
}

// AllocationResponse is the body returned by the allocate and fallback endpoints.
type AllocationResponse struct {
	OrderID   string  `json:"orderId"`
	PartnerID string  `json:"partnerId"`
	Partner   string  `json:"partner"`
	Score     float64 `json:"score"`
	Reason    string  `json:"reason"`
	Status    string  `json:"status"`
}

// AllocatePartner handles POST /api/v1/orders/:orderId/allocate.
func (s *Server) AllocatePartner(ctx echo.Context) error {
	orderID, err := pathOrderID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	cmd, err := commands.NewAllocatePartnerCommand(orderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := s.allocatePartnerHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrOrderNotFound):
			return errorJSON(ctx, http.StatusNotFound, "Order not found")
		case errors.Is(err, commands.ErrNoPartnersAvailable):
			return errorJSON(ctx, http.StatusUnprocessableEntity, "No partners cover the order's region")
		case errors.Is(err, commands.ErrAllocationConflict):
			return errorJSON(ctx, http.StatusConflict, "Allocation conflict, retry later")
		default:
			return errorJSON(ctx, http.StatusInternalServerError, "Failed to allocate partner")
		}
	}

	return ctx.JSON(http.StatusOK, AllocationResponse{
		OrderID:   orderID.String(),
		PartnerID: result.Partner.ID().String(),
		Partner:   result.Partner.Name(),
		Score:     result.Record.Score,
		Reason:    result.Record.Reason,
		Status:    string(result.Record.Status),
	})
}

// UpdateStageRequest is the body of PUT /api/v1/orders/:orderId/stage.
type UpdateStageRequest struct {
	Stage   string          `json:"stage" validate:"required"`
	Data    json.RawMessage `json:"data"`
	AgentID string          `json:"agentId"`
}

// UpdateStageResponse is the body returned by the stage update endpoint.
type UpdateStageResponse struct {
	Stage     string    `json:"stage"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpdateStage handles PUT /api/v1/orders/:orderId/stage.
func (s *Server) UpdateStage(ctx echo.Context) error {
	orderID, err := pathOrderID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var req UpdateStageRequest
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}
	if err = ctx.Validate(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid stage data: "+err.Error())
	}

	stage, err := order.ParseStage(req.Stage)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Unknown stage: "+req.Stage)
	}

	var data order.StageData
	if len(req.Data) > 0 && string(req.Data) != "null" {
		data, err = order.UnmarshalStageData(stage, req.Data)
		if err != nil {
			return errorJSON(ctx, http.StatusBadRequest, "Invalid stage payload: "+err.Error())
		}
	}

	cmd, err := commands.NewUpdateStageCommand(orderID, stage, data, req.AgentID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := s.updateStageHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrOrderNotFound):
			return errorJSON(ctx, http.StatusNotFound, "Order not found")
		case errors.Is(err, errs.ErrValueIsInvalid),
			errors.Is(err, errs.ErrValueIsRequired),
			errors.Is(err, errs.ErrValueIsOutOfRange):
			return errorJSON(ctx, http.StatusBadRequest, err.Error())
		default:
			return errorJSON(ctx, http.StatusInternalServerError, "Failed to update stage")
		}
	}

	return ctx.JSON(http.StatusOK, UpdateStageResponse{
		Stage:     result.Stage.String(),
		Status:    result.Status.String(),
		UpdatedAt: result.UpdatedAt,
	})
}

// CancelOrderRequest is the body of POST /api/v1/orders/:orderId/cancel.
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathOrderID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var req CancelOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}
	if err = ctx.Validate(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Cancellation reason is required")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, req.Reason)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		switch {
		case errors.Is(err, commands.ErrOrderNotFound):
			return errorJSON(ctx, http.StatusNotFound, "Order not found")
		case errors.Is(err, order.ErrOrderIsTerminal):
			return errorJSON(ctx, http.StatusConflict, "Order is already in a terminal state")
		default:
			return errorJSON(ctx, http.StatusInternalServerError, "Failed to cancel order")
		}
	}

	return ctx.NoContent(http.StatusNoContent)
}

// FallbackRequest is the body of POST /api/v1/orders/:orderId/fallback.
type FallbackRequest struct {
	OriginalPartnerID string `json:"originalPartnerId" validate:"required,uuid"`
	Reason            string `json:"reason" validate:"required"`
}

// Fallback handles POST /api/v1/orders/:orderId/fallback.
func (s *Server) Fallback(ctx echo.Context) error {
	orderID, err := pathOrderID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var req FallbackRequest
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}
	if err = ctx.Validate(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid fallback data: "+err.Error())
	}

	originalPartnerID, err := kernel.UUIDFromString(req.OriginalPartnerID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid partner id")
	}

	cmd, err := commands.NewFallbackCommand(orderID, originalPartnerID, req.Reason)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := s.fallbackHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrOrderNotFound):
			return errorJSON(ctx, http.StatusNotFound, "Order not found")
		case errors.Is(err, commands.ErrNoAlternativeAvailable):
			return errorJSON(ctx, http.StatusUnprocessableEntity, "No alternative partner available")
		default:
			return errorJSON(ctx, http.StatusInternalServerError, "Failed to reassign order")
		}
	}

	return ctx.JSON(http.StatusOK, AllocationResponse{
		OrderID:   orderID.String(),
		PartnerID: result.NewPartner.ID().String(),
		Partner:   result.NewPartner.Name(),
		Score:     result.Record.Score,
		Reason:    result.Reason,
		Status:    string(result.Record.Status),
	})
}

// GetTrackingStatus handles GET /api/v1/orders/:orderId/tracking.
func (s *Server) GetTrackingStatus(ctx echo.Context) error {
	orderID, err := pathOrderID(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	query, err := queries.NewGetTrackingStatusQuery(orderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := s.trackingStatusHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errorJSON(ctx, http.StatusNotFound, "Order not found")
		}
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to load tracking status")
	}

	return ctx.JSON(http.StatusOK, trackingStatusJSON(result))
}

// GenerateReport handles GET /api/v1/reports?from=...&to=...
func (s *Server) GenerateReport(ctx echo.Context) error {
	from, err := time.Parse(time.RFC3339, ctx.QueryParam("from"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid 'from' date, expected RFC 3339")
	}
	to, err := time.Parse(time.RFC3339, ctx.QueryParam("to"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid 'to' date, expected RFC 3339")
	}

	query, err := queries.NewGenerateReportQuery(from, to)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := s.reportHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to generate report")
	}

	return ctx.JSON(http.StatusOK, result)
}

// GetOrdersRequest is the query string of GET /api/v1/orders.
type GetOrdersRequest struct {
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
	Status string `query:"status"`
	Stage  string `query:"stage"`
}

// GetOrders handles GET /api/v1/orders.
func (s *Server) GetOrders(ctx echo.Context) error {
	var req GetOrdersRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid query parameters")
	}

	query, err := queries.NewGetOrdersQuery(req.Limit, req.Offset, req.Status, req.Stage)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := s.getOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to list orders")
	}

	response := make([]OrderListItem, len(result))
	for i, row := range result {
		item := OrderListItem{
			ID:           row.ID.String(),
			Reference:    row.Reference,
			CustomerName: row.CustomerName,
			Region:       row.Region,
			CODAmount:    row.CODAmount,
			Stage:        row.Stage,
			Status:       row.Status,
			CreatedAt:    row.CreatedAt,
		}
		if row.PartnerID != nil {
			id := row.PartnerID.String()
			item.PartnerID = &id
		}
		response[i] = item
	}

	return ctx.JSON(http.StatusOK, response)
}

// OrderListItem is one row of the order listing response.
type OrderListItem struct {
	ID           string    `json:"id"`
	Reference    string    `json:"reference"`
	CustomerName string    `json:"customerName"`
	Region       string    `json:"region"`
	CODAmount    float64   `json:"codAmount"`
	Stage        string    `json:"stage"`
	Status       string    `json:"status"`
	PartnerID    *string   `json:"partnerId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TrackingStatusResponse is the body of the tracking endpoint.
type TrackingStatusResponse struct {
	Order        OrderListItem   `json:"order"`
	TrackingLogs []TrackingLog   `json:"trackingLogs"`
	Timeline     []TimelineEvent `json:"timeline"`
}

// TrackingLog is one raw tracking log row in the response.
type TrackingLog struct {
	Stage       string    `json:"stage"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	AgentID     string    `json:"agentId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TimelineEvent is one merged timeline entry in the response.
type TimelineEvent struct {
	Source      string    `json:"source"`
	Stage       string    `json:"stage"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

func trackingStatusJSON(result queries.GetTrackingStatusQueryResponse) TrackingStatusResponse {
	response := TrackingStatusResponse{
		Order: OrderListItem{
			ID:        result.Order.ID.String(),
			Reference: result.Order.Reference,
			CODAmount: result.Order.CODAmount,
			Stage:     result.Order.Stage,
			Status:    result.Order.Status,
			CreatedAt: result.Order.CreatedAt,
		},
		TrackingLogs: make([]TrackingLog, len(result.TrackingLogs)),
		Timeline:     make([]TimelineEvent, len(result.Timeline)),
	}
	if result.Order.PartnerID != nil {
		id := result.Order.PartnerID.String()
		response.Order.PartnerID = &id
	}

	for i, log := range result.TrackingLogs {
		response.TrackingLogs[i] = TrackingLog{
			Stage:       log.Stage,
			Status:      log.Status,
			Description: log.Description,
			AgentID:     log.AgentID,
			CreatedAt:   log.CreatedAt,
		}
	}
	for i, event := range result.Timeline {
		response.Timeline[i] = TimelineEvent{
			Source:      event.Source,
			Stage:       event.Stage,
			Description: event.Description,
			Timestamp:   event.Timestamp,
		}
	}

	return response
}

func pathOrderID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("orderId"))
}
