package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/buspass/internal/app/models"
	"github.com/yigit/buspass/internal/app/models/dto"
	"github.com/yigit/buspass/internal/app/repositories"
	"github.com/yigit/buspass/internal/metrics"
)

const MsgRouteAdded = "Bus route added successfully."

// RouteService handles bus routes
type RouteService interface {
	ListRoutes(ctx context.Context) ([]*models.Route, error)
	CreateRoute(ctx context.Context, form dto.RouteForm) (dto.FormResult, error)
}

type routeService struct {
	routeRepo repositories.IRouteRepository
	logger    zerolog.Logger
}

// NewRouteService creates a new RouteService
func NewRouteService(routeRepo repositories.IRouteRepository, logger zerolog.Logger) RouteService {
	return &routeService{routeRepo: routeRepo, logger: logger}
}

func (s *routeService) ListRoutes(ctx context.Context) ([]*models.Route, error) {
	routes, err := s.routeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing routes: %w", err)
	}
	return routes, nil
}

func (s *routeService) CreateRoute(ctx context.Context, form dto.RouteForm) (dto.FormResult, error) {
	in, errs := ValidateRouteForm(form)
	if errs.HasErrors() {
		return dto.Invalid(errs), nil
	}

	route := &models.Route{
		Name:          in.Name,
		StartLocation: in.StartLocation,
		EndLocation:   in.EndLocation,
		DriverName:    in.DriverName,
		Capacity:      in.Capacity,
	}
	if _, err := s.routeRepo.Create(ctx, route); err != nil {
		return dto.FormResult{}, fmt.Errorf("error creating route: %w", err)
	}

	metrics.RoutesCreated.Inc()
	s.logger.Info().Int64("routeID", route.ID).Str("routeName", route.Name).Msg("Bus route created")
	return dto.RedirectTo("/bus_routes/", MsgRouteAdded), nil
}
