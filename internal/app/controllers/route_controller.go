package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/buspass/internal/app/models/dto"
	"github.com/yigit/buspass/internal/app/services"
	"github.com/yigit/buspass/internal/middleware"
	"github.com/yigit/buspass/internal/pkg/apperrors"
)

// RouteController handles the bus route screens
type RouteController struct {
	routeService services.RouteService
}

// NewRouteController creates a new RouteController
func NewRouteController(routeService services.RouteService) *RouteController {
	return &RouteController{routeService: routeService}
}

// ListRoutes shows every route
func (c *RouteController) ListRoutes(ctx *gin.Context) {
	routes, err := c.routeService.ListRoutes(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	render(ctx, http.StatusOK, "bus_routes.html", gin.H{
		"Title":  "Bus Routes",
		"Routes": routes,
	})
}

// AddRoutePage shows an empty add-route form
func (c *RouteController) AddRoutePage(ctx *gin.Context) {
	render(ctx, http.StatusOK, "add_route.html", gin.H{
		"Title": "Add Bus Route",
		"Form":  dto.RouteForm{},
	})
}

// AddRoute handles the add-route form
func (c *RouteController) AddRoute(ctx *gin.Context) {
	var form dto.RouteForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleError(ctx, apperrors.NewBadRequestError("malformed form submission"))
		return
	}

	result, err := c.routeService.CreateRoute(ctx.Request.Context(), form)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}
	if !result.Succeeded() {
		renderForm(ctx, http.StatusOK, "add_route.html", gin.H{
			"Title": "Add Bus Route",
			"Form":  form,
		}, result.Errors)
		return
	}

	redirect(ctx, result)
}
