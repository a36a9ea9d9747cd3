package services

import (
	"github.com/yigit/buspass/internal/app/repositories"
	"github.com/yigit/buspass/internal/pkg/auth"
	"github.com/yigit/buspass/internal/pkg/helpers"
	"github.com/yigit/buspass/internal/pkg/logger"
	"github.com/yigit/buspass/internal/pkg/passdoc"
)

// Services holds all the service instances
type Services struct {
	StudentService StudentService
	RouteService   RouteService
	BusPassService BusPassService
	ReceiptService ReceiptService
	AuthService    AuthService
}

// Dependencies are the collaborators shared by the services
type Dependencies struct {
	Repositories *repositories.Repositories
	Sessions     repositories.SessionStore
	JWTService   *auth.JWTService
	CSRFSecret   string
	Clock        helpers.Clock
	Receipt      passdoc.Options
}

// NewServices initializes all services
func NewServices(deps Dependencies) *Services {
	repos := deps.Repositories
	return &Services{
		StudentService: NewStudentService(repos.StudentRepository, repos.RouteRepository, logger.With("student_service")),
		RouteService:   NewRouteService(repos.RouteRepository, logger.With("route_service")),
		BusPassService: NewBusPassService(repos.BusPassRepository, repos.StudentRepository, deps.Clock, logger.With("bus_pass_service")),
		ReceiptService: NewReceiptService(repos.StudentRepository, repos.BusPassRepository, deps.Clock, deps.Receipt, logger.With("receipt_service")),
		AuthService:    NewAuthService(repos.UserRepository, deps.Sessions, deps.JWTService, deps.CSRFSecret, logger.With("auth_service")),
	}
}
