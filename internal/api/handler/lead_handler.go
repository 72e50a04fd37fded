package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/leadline/telecrm-api/internal/core/domain"
	"github.com/leadline/telecrm-api/internal/core/ports"
)

// LeadHandler handles HTTP requests for lead operations.
type LeadHandler struct {
	service ports.LeadService
}

func NewLeadHandler(service ports.LeadService) *LeadHandler {
	return &LeadHandler{service: service}
}

// Create handles POST /v1/leads.
//
// @Summary      Create a new lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLeadRequest  true  "Lead details"
// @Success      201   {object}  leadResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/leads [post]
func (h *LeadHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createLeadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	lead, err := h.service.CreateLead(c.Request().Context(), toCreateLeadInput(req, id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toLeadResponse(lead))
}

// Get handles GET /v1/leads/:id.
//
// @Summary      Get a lead by id
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lead id"
// @Success      200  {object}  leadResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/leads/{id} [get]
func (h *LeadHandler) Get(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	lead, err := h.service.GetLead(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLeadResponse(lead))
}

// List handles GET /v1/leads with optional filters and pagination.
//
// @Summary      List leads
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by status"
// @Param        source     query     string  false  "Filter by source"
// @Param        search     query     string  false  "Match against name, company or phone"
// @Param        date_from  query     string  false  "Created on or after (RFC 3339)"
// @Param        date_to    query     string  false  "Created before (RFC 3339)"
// @Param        page       query     int     false  "Page number (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Success      200        {object}  listLeadsResponse
// @Failure      400        {object}  errorResponse
// @Router       /v1/leads [get]
func (h *LeadHandler) List(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	dateFrom, err := queryTime(c, "date_from")
	if err != nil {
		return err
	}
	dateTo, err := queryTime(c, "date_to")
	if err != nil {
		return err
	}

	result, err := h.service.ListLeads(c.Request().Context(), ports.ListLeadsInput{
		Identity: id,
		Status:   c.QueryParam("status"),
		Source:   c.QueryParam("source"),
		Search:   c.QueryParam("search"),
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Page:     queryInt(c, "page"),
		Limit:    queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListLeadsResponse(result))
}

// Update handles PUT /v1/leads/:id.
//
// @Summary      Update a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Lead id"
// @Param        body  body      updateLeadRequest  true  "Fields to change"
// @Success      200   {object}  leadResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/leads/{id} [put]
func (h *LeadHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateLeadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	lead, err := h.service.UpdateLead(c.Request().Context(), toUpdateLeadInput(req, id, c.Param("id")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLeadResponse(lead))
}

// Delete handles DELETE /v1/leads/:id. Deleting a lead also removes its calls.
//
// @Summary      Delete a lead and its call history
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Lead id"
// @Success      204  "no content"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/leads/{id} [delete]
func (h *LeadHandler) Delete(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteLead(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Meta handles GET /v1/leads/meta, the fixed source and status vocabularies.
//
// @Summary      Lead form vocabularies
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  leadMetaResponse
// @Router       /v1/leads/meta [get]
func (h *LeadHandler) Meta(c echo.Context) error {
	sources := make([]string, len(domain.LeadSources))
	for i, s := range domain.LeadSources {
		sources[i] = string(s)
	}
	statuses := make([]string, len(domain.LeadStatuses))
	for i, s := range domain.LeadStatuses {
		statuses[i] = string(s)
	}
	return c.JSON(http.StatusOK, leadMetaResponse{Sources: sources, Statuses: statuses})
}

// --- Query parameter helpers ---

// queryInt parses an integer query parameter, treating absence or garbage as
// zero; the service layer applies defaults and caps.
func queryInt(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.QueryParam(name))
	return n
}

// queryTime parses an RFC 3339 timestamp or a bare "2006-01-02" date.
func queryTime(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, name+" must be an RFC 3339 timestamp or a date")
}
