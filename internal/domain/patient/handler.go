package patient

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/patients/internal/platform/auth"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.GET("/patients/:id", h.GetPatient)

	// Writes need the registrar role; admin passes every role check.
	writeGroup := api.Group("", auth.RequireRole(auth.RoleRegistrar))
	writeGroup.POST("/patients", h.CreatePatient)
	writeGroup.PUT("/patients/:id", h.UpdatePatient)
	writeGroup.DELETE("/patients/:id", h.DeletePatient)
}

func (h *Handler) ListPatients(c echo.Context) error {
	patients := h.store.GetAll(c.Request().Context())

	sortBy := c.QueryParam("sort_by")
	order, err := ParseSortOrder(c.QueryParam("order"))
	if err != nil {
		return httpError(err)
	}
	if sortBy == "" {
		return c.JSON(http.StatusOK, patients)
	}

	field, err := ParseSortField(sortBy)
	if err != nil {
		return httpError(err)
	}
	sorted, err := Sort(patients, field, order)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sorted)
}

func (h *Handler) GetPatient(c echo.Context) error {
	p, err := h.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var req CreatePatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid request body")
	}
	p, err := req.ToPatient()
	if err != nil {
		return httpError(err)
	}
	created, err := h.store.Insert(c.Request().Context(), p)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	var u Update
	if err := c.Bind(&u); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid request body")
	}
	p, err := h.store.Update(c.Request().Context(), c.Param("id"), u)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	if err := h.store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// httpError maps store and validation failures onto response codes. Anything
// unrecognised is a storage failure and is reported without its details.
func httpError(err error) error {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, echo.Map{
			"message": ve.Error(),
			"field":   ve.Field,
		})
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "patient id already exists")
	case errors.Is(err, ErrInvalidArgument):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}
