package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadline/telecrm-api/internal/core/domain"
	"github.com/leadline/telecrm-api/internal/core/ports"
)

// CallHandler handles call recording and call history endpoints.
type CallHandler struct {
	service ports.CallService
}

func NewCallHandler(service ports.CallService) *CallHandler {
	return &CallHandler{service: service}
}

// Record handles POST /v1/leads/:id/calls.
//
// @Summary      Record a call against a lead
// @Tags         calls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Lead id"
// @Param        body  body      recordCallRequest  true  "Call outcome"
// @Success      201   {object}  recordCallResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/leads/{id}/calls [post]
func (h *CallHandler) Record(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req recordCallRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	detail, err := h.service.RecordCall(c.Request().Context(), ports.RecordCallInput{
		Identity:           id,
		LeadID:             c.Param("id"),
		Status:             req.Status,
		ConnectedResponse:  req.ConnectedResponse,
		NotConnectedReason: req.NotConnectedReason,
		DurationSeconds:    req.DurationSeconds,
		Notes:              req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRecordCallResponse(detail))
}

// ListForLead handles GET /v1/leads/:id/calls.
//
// @Summary      List the calls recorded against a lead
// @Tags         calls
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Lead id"
// @Param        page   query     int     false  "Page number (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200    {object}  listCallsResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/leads/{id}/calls [get]
func (h *CallHandler) ListForLead(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.ListLeadCalls(c.Request().Context(), ports.ListLeadCallsInput{
		Identity: id,
		LeadID:   c.Param("id"),
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListCallsResponse(result))
}

// ListConnected handles GET /v1/calls/connected.
//
// @Summary      List connected calls
// @Tags         calls
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  listCallsResponse
// @Router       /v1/calls/connected [get]
func (h *CallHandler) ListConnected(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	result, err := h.service.ListConnectedCalls(c.Request().Context(), ports.ListConnectedCallsInput{
		Identity: id,
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListCallsResponse(result))
}

// --- Mappers ---

func toCallResponse(call *domain.Call) callResponse {
	return callResponse{
		ID:                 call.ID,
		LeadID:             call.LeadID,
		UserID:             call.UserID,
		Status:             string(call.Status),
		ConnectedResponse:  string(call.ConnectedResponse),
		NotConnectedReason: string(call.NotConnectedReason),
		DurationSeconds:    call.DurationSeconds,
		Notes:              call.Notes,
		CreatedAt:          call.CreatedAt.UTC(),
	}
}

func toRecordCallResponse(d *ports.CallDetail) recordCallResponse {
	return recordCallResponse{
		Call: toCallResponse(d.Call),
		Lead: leadSummaryResponse{
			ID:      d.Lead.ID,
			Name:    d.Lead.Name,
			Company: d.Lead.Company,
			Phone:   d.Lead.Phone,
			Status:  d.Lead.Status,
		},
		User: userSummaryResponse{
			ID:       d.User.ID,
			Name:     d.User.Name,
			Username: d.User.Username,
		},
		LeadStatusChanged: d.LeadStatusChanged,
	}
}

func toListCallsResponse(r *ports.ListCallsResult) listCallsResponse {
	items := make([]callItemResponse, len(r.Items))
	for i, item := range r.Items {
		items[i] = callItemResponse{
			Call: toCallResponse(item.Call),
			User: userSummaryResponse{
				ID:       item.User.ID,
				Name:     item.User.Name,
				Username: item.User.Username,
			},
		}
	}
	return listCallsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}
