package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	RouteRepository   *RouteRepository
	StudentRepository *StudentRepository
	BusPassRepository *BusPassRepository
	UserRepository    *UserRepository
	SessionRepository *SessionRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		RouteRepository:   NewRouteRepository(db),
		StudentRepository: NewStudentRepository(db),
		BusPassRepository: NewBusPassRepository(db),
		UserRepository:    NewUserRepository(db),
		SessionRepository: NewSessionRepository(db),
	}
}
