package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/buspass/internal/app/models"
	"github.com/yigit/buspass/internal/app/repositories"
	"github.com/yigit/buspass/internal/pkg/apperrors"
	"github.com/yigit/buspass/internal/testutil/testdb"
)

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRepositories(t *testing.T) {
	pg := testdb.SetupSharedPostgres(t)
	repos := repositories.NewRepositories(pg.Pool)
	ctx := context.Background()

	newRoute := func(t *testing.T, name string) *models.Route {
		t.Helper()
		r := &models.Route{Name: name, StartLocation: "Campus", EndLocation: "City", Capacity: 40}
		_, err := repos.RouteRepository.Create(ctx, r)
		require.NoError(t, err)
		return r
	}
	newStudent := func(t *testing.T, name, roll, email string, routeID *int64) *models.Student {
		t.Helper()
		s := &models.Student{Name: name, RollNumber: roll, Email: email, RouteID: routeID}
		_, err := repos.StudentRepository.Create(ctx, s)
		require.NoError(t, err)
		return s
	}

	t.Run("route create get list", func(t *testing.T) {
		testdb.ResetAll(t, pg.Pool)

		r := &models.Route{Name: "R2", StartLocation: "Hostel", EndLocation: "Station", DriverName: ptr("Ravi"), Capacity: 52}
		id, err := repos.RouteRepository.Create(ctx, r)
		require.NoError(t, err)
		assert.Positive(t, id)
		newRoute(t, "R1")

		got, err := repos.RouteRepository.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Ravi", got.Driver())
		assert.Equal(t, 52, got.Capacity)

		all, err := repos.RouteRepository.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "R1", all[0].Name)

		_, err = repos.RouteRepository.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, apperrors.ErrRouteNotFound)
	})

	t.Run("capacity must be positive", func(t *testing.T) {
		testdb.ResetAll(t, pg.Pool)
		_, err := repos.RouteRepository.Create(ctx, &models.Route{Name: "X", StartLocation: "a", EndLocation: "b", Capacity: 0})
		assert.Error(t, err)
	})

	t.Run("roll number is unique", func(t *testing.T) {
		testdb.ResetAll(t, pg.Pool)
		newStudent(t, "Alice", "A1", "a@x.com", nil)

		_, err := repos.StudentRepository.Create(ctx, &models.Student{Name: "Other", RollNumber: "A1", Email: "o@x.com"})
		assert.ErrorIs(t, err, apperrors.ErrRollNumberExists)

		exists, err := repos.StudentRepository.ExistsByRollNumber(ctx, "A1")
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = repos.StudentRepository.ExistsByRollNumber(ctx, "B2")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("unknown route is rejected", func(t *testing.T) {
		testdb.ResetAll(t, pg.Pool)
		_, err := repos.StudentRepository.Create(ctx, &models.Student{Name: "N", RollNumber: "N1", Email: "n@x.com", RouteID: ptr(int64(77))})
		assert.ErrorIs(t, err, apperrors.ErrRouteNotFound)
	})

	t.Run("search is case-insensitive across fields", func(t *testing.T) {
		testdb.ResetAll(t, pg.Pool)
		route := newRoute(t, "R1")
		newStudent(t, "Alice Smith", "CS-001", "alice@uni.edu", &route.ID)
		newStudent(t, "Bob", "ME-100", "bob@mail.com", nil)
		newStudent(t, "Carol", "cs_7", "carol@UNI.edu", nil)

		cases := map[string]int{
			"alice":  1,
			"cs-":    1,
			"UNI.ED": 2,
			"":       3,
			"zzz":    0,
			"_":      1,
			"%":      0,
		}
		for q, want := range cases {
			total, err := repos.StudentRepository.Count(ctx, q)
			require.NoError(t, err)
			assert.EqualValues(t, want, total, "count for %q", q)

			found, err := repos.StudentRepository.Search(ctx, q, 0, 10)
			require.NoError(t, err)
			assert.Len(t, found, want, "search for %q", q)
		}

		found, err := repos.StudentRepository.Search(ctx, "ALICE", 0, 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		require.NotNil(t, found[0].Route)
		assert.Equal(t, "R1", found[0].Route.Name)
	})

	t.Run("search pages in insertion order", func(t *testing.T) {
		testdb.ResetAll(t, pg.Pool)
		for i := 1; i <= 23; i++ {
			newStudent(t, fmt.Sprintf("Student %02d", i), fmt.Sprintf("R%02d", i), fmt.Sprintf("s%02d@x.com", i), nil)
		}

		page2, err := repos.StudentRepository.Search(ctx, "", 10, 10)
		require.NoError(t, err)
		require.Len(t, page2, 10)
		assert.Equal(t, "R11", page2[0].RollNumber)
		assert.Equal(t, "R20", page2[9].RollNumber)

		page3, err := repos.StudentRepository.Search(ctx, "", 20, 10)
		require.NoError(t, err)
		assert.Len(t, page3, 3)
	})

	t.Run("deleting a route clears the student reference", func(t *testing.T) {
		testdb.ResetAll(t, pg.Pool)
		route := newRoute(t, "R1")
		s := newStudent(t, "Alice", "A1", "a@x.com", &route.ID)

		require.NoError(t, repos.RouteRepository.Delete(ctx, route.ID))

		got, err := repos.StudentRepository.GetByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Nil(t, got.RouteID)
		assert.Nil(t, got.Route)

		assert.ErrorIs(t, repos.RouteRepository.Delete(ctx, route.ID), apperrors.ErrRouteNotFound)
	})

	t.Run("passes order, uniqueness and cascade", func(t *testing.T) {
		testdb.ResetAll(t, pg.Pool)
		s := newStudent(t, "Alice", "A1", "a@x.com", nil)

		older := &models.BusPass{StudentID: s.ID, IssueDate: date(2026, 1, 1), ExpiryDate: date(2026, 6, 30), PassNumber: "AAAA0001", IsActive: true}
		newer := &models.BusPass{StudentID: s.ID, IssueDate: date(2026, 7, 1), ExpiryDate: date(2026, 12, 31), PassNumber: "AAAA0002", IsActive: true}
		_, err := repos.BusPassRepository.Create(ctx, older)
		require.NoError(t, err)
		_, err = repos.BusPassRepository.Create(ctx, newer)
		require.NoError(t, err)

		latest, err := repos.BusPassRepository.LatestForStudent(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "AAAA0002", latest.PassNumber)
		assert.Equal(t, date(2026, 12, 31), latest.ExpiryDate)

		all, err := repos.BusPassRepository.ListForStudent(ctx, s.ID)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "AAAA0001", all[1].PassNumber)

		dup := &models.BusPass{StudentID: s.ID, IssueDate: date(2026, 7, 1), ExpiryDate: date(2026, 8, 1), PassNumber: "AAAA0002", IsActive: true}
		_, err = repos.BusPassRepository.Create(ctx, dup)
		assert.ErrorIs(t, err, apperrors.ErrPassNumberExists)

		bad := &models.BusPass{StudentID: s.ID, IssueDate: date(2026, 7, 1), ExpiryDate: date(2026, 7, 1), PassNumber: "BBBB0001", IsActive: true}
		_, err = repos.BusPassRepository.Create(ctx, bad)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

		require.NoError(t, repos.StudentRepository.Delete(ctx, s.ID))
		remaining, err := repos.BusPassRepository.ListForStudent(ctx, s.ID)
		require.NoError(t, err)
		assert.Empty(t, remaining)

		_, err = repos.BusPassRepository.LatestForStudent(ctx, s.ID)
		assert.ErrorIs(t, err, apperrors.ErrPassNotFound)
	})

	t.Run("users and sessions", func(t *testing.T) {
		testdb.ResetAll(t, pg.Pool)
		u := &models.User{Username: "office", PasswordHash: "hash", IsActive: true}
		_, err := repos.UserRepository.Create(ctx, u)
		require.NoError(t, err)

		_, err = repos.UserRepository.Create(ctx, &models.User{Username: "office", PasswordHash: "x", IsActive: true})
		assert.ErrorIs(t, err, apperrors.ErrUsernameExists)

		got, err := repos.UserRepository.GetByUsername(ctx, "office")
		require.NoError(t, err)
		assert.Nil(t, got.LastLoginAt)
		require.NoError(t, repos.UserRepository.UpdateLastLogin(ctx, u.ID, time.Now()))
		got, err = repos.UserRepository.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.NotNil(t, got.LastLoginAt)

		live := &models.Session{ID: uuid.NewString(), UserID: u.ID, ExpiresAt: time.Now().Add(time.Hour)}
		require.NoError(t, repos.SessionRepository.Create(ctx, live))
		assert.NoError(t, repos.SessionRepository.Check(ctx, live.ID))

		stale := &models.Session{ID: uuid.NewString(), UserID: u.ID, ExpiresAt: time.Now().Add(-time.Minute)}
		require.NoError(t, repos.SessionRepository.Create(ctx, stale))
		assert.ErrorIs(t, repos.SessionRepository.Check(ctx, stale.ID), apperrors.ErrSessionExpired)

		require.NoError(t, repos.SessionRepository.Revoke(ctx, live.ID))
		assert.ErrorIs(t, repos.SessionRepository.Check(ctx, live.ID), apperrors.ErrSessionRevoked)
		assert.ErrorIs(t, repos.SessionRepository.Check(ctx, uuid.NewString()), apperrors.ErrSessionInvalid)

		deleted, err := repos.SessionRepository.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, deleted)
	})
}
