package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/franciscosanchezn/pizza-store/internal/models"
	"github.com/franciscosanchezn/pizza-store/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PizzaController handles HTTP requests related to pizzas
type PizzaController interface {
	// ListPizzas retrieves all pizzas
	ListPizzas(c *gin.Context)
	// GetPizza retrieves a pizza by its ID
	GetPizza(c *gin.Context)
	// CreatePizza creates a new pizza
	CreatePizza(c *gin.Context)
	// UpdatePizza replaces an existing pizza
	UpdatePizza(c *gin.Context)
	// DeletePizza deletes a pizza by its ID
	DeletePizza(c *gin.Context)
}

type controller struct {
	service services.PizzaService
	log     logrus.FieldLogger
}

// NewPizzaController creates a new instance of PizzaController
func NewPizzaController(service services.PizzaService, log logrus.FieldLogger) PizzaController {
	return &controller{service: service, log: log.WithField("component", "pizza_controller")}
}

// ListPizzas godoc
// @Summary List pizzas
// @Description Get every pizza, ordered by id
// @Tags pizzas
// @Produce json
// @Success 200 {array} models.Pizza
// @Failure 500 {object} models.APIError
// @Router /pizzas [get]
func (c *controller) ListPizzas(ctx *gin.Context) {
	c.log.Info("Listing pizzas")
	pizzas, err := c.service.ListPizzas(ctx.Request.Context())
	if err != nil {
		c.fail(ctx, err, "Failed to retrieve pizzas")
		return
	}
	if len(pizzas) == 0 {
		c.log.Info("No pizzas stored")
	}
	c.log.WithField("count", len(pizzas)).Info("Pizzas listed")
	ctx.JSON(http.StatusOK, pizzas)
}

// GetPizza godoc
// @Summary Get pizza by ID
// @Description Get a single pizza by its ID
// @Tags pizzas
// @Produce json
// @Param id path int true "Pizza ID"
// @Success 200 {object} models.Pizza
// @Failure 400 {object} models.APIError
// @Failure 404 "Pizza not found"
// @Router /pizzas/{id} [get]
func (c *controller) GetPizza(ctx *gin.Context) {
	id, ok := c.pizzaID(ctx)
	if !ok {
		return
	}

	log := c.log.WithField("id", id)
	log.Info("Fetching pizza")
	pizza, err := c.service.GetPizza(ctx.Request.Context(), id)
	if err != nil {
		c.fail(ctx, err, "Failed to retrieve pizza")
		return
	}
	log.Info("Pizza found")
	ctx.JSON(http.StatusOK, pizza)
}

// CreatePizza godoc
// @Summary Create a new pizza
// @Description Create a pizza; the id is assigned by the server
// @Tags pizzas
// @Accept json
// @Produce json
// @Param pizza body models.Pizza true "Pizza object"
// @Success 201 {object} models.Pizza
// @Header 201 {string} Location "URL of the created pizza"
// @Failure 400 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Router /pizzas [post]
func (c *controller) CreatePizza(ctx *gin.Context) {
	var pizza models.Pizza
	if err := ctx.ShouldBindJSON(&pizza); err != nil {
		c.log.WithError(err).Warn("Rejected pizza body")
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrPizzaInvalidData, "Invalid request body"))
		return
	}

	c.log.WithFields(logrus.Fields{"name": pizza.Name, "description": pizza.Description}).Info("Creating pizza")
	created, err := c.service.CreatePizza(ctx.Request.Context(), pizza)
	if err != nil {
		c.fail(ctx, err, "Failed to create pizza")
		return
	}

	c.log.WithField("id", created.ID).Info("Pizza created")
	ctx.Header("Location", strings.TrimSuffix(ctx.Request.URL.Path, "/")+"/"+strconv.Itoa(created.ID))
	ctx.JSON(http.StatusCreated, created)
}

// UpdatePizza godoc
// @Summary Replace a pizza
// @Description Replace name and description of a pizza; the body id must match the path id
// @Tags pizzas
// @Accept json
// @Produce json
// @Param id path int true "Pizza ID"
// @Param pizza body models.Pizza true "Pizza object"
// @Success 204 "Updated"
// @Failure 400 {object} models.APIError
// @Failure 404 "Pizza not found"
// @Failure 500 {object} models.APIError
// @Router /pizzas/{id} [put]
func (c *controller) UpdatePizza(ctx *gin.Context) {
	id, ok := c.pizzaID(ctx)
	if !ok {
		return
	}

	var pizza models.Pizza
	if err := ctx.ShouldBindJSON(&pizza); err != nil {
		c.log.WithError(err).WithField("id", id).Warn("Rejected pizza body")
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrPizzaInvalidData, "Invalid request body"))
		return
	}

	log := c.log.WithField("id", id)
	log.Info("Updating pizza")
	if err := c.service.UpdatePizza(ctx.Request.Context(), id, pizza); err != nil {
		c.fail(ctx, err, "Failed to update pizza")
		return
	}
	log.Info("Pizza updated")
	ctx.Status(http.StatusNoContent)
}

// DeletePizza godoc
// @Summary Delete a pizza
// @Description Delete a pizza by its ID and return its last value
// @Tags pizzas
// @Produce json
// @Param id path int true "Pizza ID"
// @Success 200 {object} models.Pizza
// @Failure 400 {object} models.APIError
// @Failure 404 "Pizza not found"
// @Failure 500 {object} models.APIError
// @Router /pizzas/{id} [delete]
func (c *controller) DeletePizza(ctx *gin.Context) {
	id, ok := c.pizzaID(ctx)
	if !ok {
		return
	}

	log := c.log.WithField("id", id)
	log.Info("Deleting pizza")
	deleted, err := c.service.DeletePizza(ctx.Request.Context(), id)
	if err != nil {
		c.fail(ctx, err, "Failed to delete pizza")
		return
	}
	log.Info("Pizza deleted")
	ctx.JSON(http.StatusOK, deleted)
}

// pizzaID parses the :id path parameter, answering 400 when it is not an integer
func (c *controller) pizzaID(ctx *gin.Context) (int, bool) {
	raw := ctx.Param("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		c.log.WithField("id", raw).Warn("Invalid pizza ID format")
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrPizzaInvalidID, "Invalid pizza ID format"))
		return 0, false
	}
	return id, true
}

// fail maps a service error onto the response
func (c *controller) fail(ctx *gin.Context, err error, message string) {
	log := c.log.WithError(err).WithField("path", ctx.Request.URL.Path)
	switch {
	case errors.Is(err, services.ErrPizzaNotFound):
		log.Warn("Pizza not found")
		ctx.Status(http.StatusNotFound)
	case errors.Is(err, services.ErrIDMismatch):
		log.Warn("Pizza ID in body does not match path")
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrPizzaIDMismatch, "Pizza ID in body does not match path"))
	case errors.Is(err, services.ErrConcurrentUpdate):
		log.Error("Concurrent update detected")
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrConflict, message))
	default:
		log.Error(message)
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, message))
	}
}
