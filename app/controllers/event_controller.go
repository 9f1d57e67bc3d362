package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/shashikala/app/resources"
	"github.com/shashiranjanraj/shashikala/app/services"
	"github.com/shashiranjanraj/shashikala/pkg/ctx"
	"github.com/shashiranjanraj/shashikala/pkg/resource"
)

type EventController struct {
	service *services.EventService
}

// GET /api/events
func (ec *EventController) Index(c *ctx.Context) {
	page, ok := c.Page()
	if !ok {
		return
	}
	items, p, err := ec.service.List(c.Context(), page)
	if err != nil {
		respondError(c, "Listing events", err)
		return
	}
	c.List(resource.Collection(items, resources.NewEvent), p)
}

// POST /api/events
func (ec *EventController) Store(c *ctx.Context) {
	var in services.EventInput
	if !c.DecodeJSON(&in) {
		return
	}
	ev, err := ec.service.Create(c.Context(), in)
	if err != nil {
		respondError(c, "Creating event", err)
		return
	}
	c.Message(http.StatusCreated, "Event created successfully", map[string]any{"id": ev.ID})
}

// GET /api/events/{event_id}
func (ec *EventController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("event_id")
	if !ok {
		return
	}
	ev, err := ec.service.Get(c.Context(), id)
	if err != nil {
		respondError(c, "Loading event", err)
		return
	}
	c.JSON(http.StatusOK, resources.NewEvent(*ev))
}

// Update changes only the fields present in the body.
// PUT /api/events/{event_id}
func (ec *EventController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("event_id")
	if !ok {
		return
	}
	var in services.EventUpdate
	if !c.DecodeJSON(&in) {
		return
	}
	if err := ec.service.Update(c.Context(), id, in); err != nil {
		respondError(c, "Updating event", err)
		return
	}
	c.Message(http.StatusOK, "Event updated successfully")
}

// DELETE /api/events/{event_id}
func (ec *EventController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("event_id")
	if !ok {
		return
	}
	if err := ec.service.Delete(c.Context(), id); err != nil {
		respondError(c, "Deleting event", err)
		return
	}
	c.Message(http.StatusOK, "Event deleted successfully")
}
