package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fitexperts/experts-api/internal/core/ports"
)

// ProgramHandler handles HTTP requests for program listings.
type ProgramHandler struct {
	service ports.ProgramService
}

func NewProgramHandler(service ports.ProgramService) *ProgramHandler {
	return &ProgramHandler{service: service}
}

// Create handles POST /api/programs.
//
// @Summary      Create a program
// @Tags         programs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProgramRequest  true  "Program"
// @Success      201   {object}  domain.Program
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/programs [post]
func (h *ProgramHandler) Create(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}

	var req createProgramRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	program, err := h.service.Create(c.Request().Context(), actor,
		toProgramInput(req.Name, req.Description, req.Duration, req.Price, req.Highlights, req.FAQs))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, program)
}

// Get handles GET /api/programs/:id.
//
// @Summary      Get a program
// @Tags         programs
// @Produce      json
// @Param        id   path      string  true  "Program id"
// @Success      200  {object}  domain.Program
// @Failure      404  {object}  errorResponse
// @Router       /api/programs/{id} [get]
func (h *ProgramHandler) Get(c echo.Context) error {
	program, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, program)
}

// ListByExpert handles GET /api/programs/expert/:id.
//
// @Summary      List an expert's programs
// @Tags         programs
// @Produce      json
// @Param        id   path      string  true  "Expert id"
// @Success      200  {object}  programListResponse
// @Router       /api/programs/expert/{id} [get]
func (h *ProgramHandler) ListByExpert(c echo.Context) error {
	programs, err := h.service.ListByExpert(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, programListResponse{Programs: programs, Count: len(programs)})
}

// Update handles PUT /api/programs/:id.
//
// @Summary      Update a program
// @Tags         programs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Program id"
// @Param        body  body      updateProgramRequest  true  "Fields to change"
// @Success      200   {object}  domain.Program
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/programs/{id} [put]
func (h *ProgramHandler) Update(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}

	var req updateProgramRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	program, err := h.service.Update(c.Request().Context(), actor, c.Param("id"),
		toProgramInput(req.Name, req.Description, req.Duration, req.Price, req.Highlights, req.FAQs))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, program)
}

// Delete handles DELETE /api/programs/:id.
//
// @Summary      Delete a program
// @Tags         programs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Program id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/programs/{id} [delete]
func (h *ProgramHandler) Delete(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "program removed"})
}
