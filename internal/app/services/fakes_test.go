package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/buspass/internal/app/models"
	"github.com/yigit/buspass/internal/pkg/apperrors"
)

type fakeRouteRepo struct {
	routes []*models.Route
	err    error
}

func (f *fakeRouteRepo) Create(_ context.Context, r *models.Route) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	r.ID = int64(len(f.routes) + 1)
	f.routes = append(f.routes, r)
	return r.ID, nil
}

func (f *fakeRouteRepo) GetByID(_ context.Context, id int64) (*models.Route, error) {
	for _, r := range f.routes {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperrors.ErrRouteNotFound
}

func (f *fakeRouteRepo) List(context.Context) ([]*models.Route, error) {
	return f.routes, f.err
}

func (f *fakeRouteRepo) Delete(context.Context, int64) error { return nil }

type fakeStudentRepo struct {
	students  []*models.Student
	createErr error
}

func (f *fakeStudentRepo) Create(_ context.Context, s *models.Student) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	s.ID = int64(len(f.students) + 1)
	f.students = append(f.students, s)
	return s.ID, nil
}

func (f *fakeStudentRepo) GetByID(_ context.Context, id int64) (*models.Student, error) {
	for _, s := range f.students {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentRepo) ExistsByRollNumber(_ context.Context, roll string) (bool, error) {
	for _, s := range f.students {
		if s.RollNumber == roll {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentRepo) match(query string) []*models.Student {
	q := strings.ToLower(query)
	out := []*models.Student{}
	for _, s := range f.students {
		if q == "" ||
			strings.Contains(strings.ToLower(s.Name), q) ||
			strings.Contains(strings.ToLower(s.RollNumber), q) ||
			strings.Contains(strings.ToLower(s.Email), q) {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeStudentRepo) Count(_ context.Context, query string) (int64, error) {
	return int64(len(f.match(query))), nil
}

func (f *fakeStudentRepo) Search(_ context.Context, query string, offset uint64, limit int) ([]*models.Student, error) {
	all := f.match(query)
	if int(offset) >= len(all) {
		return []*models.Student{}, nil
	}
	end := int(offset) + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeStudentRepo) ListAll(context.Context) ([]*models.Student, error) {
	out := append([]*models.Student(nil), f.students...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStudentRepo) Delete(context.Context, int64) error { return nil }

type fakePassRepo struct {
	passes []*models.BusPass
	// createErrs are returned by successive Create calls before succeeding
	createErrs []error
	attempts   []string
}

func (f *fakePassRepo) Create(_ context.Context, p *models.BusPass) (int64, error) {
	f.attempts = append(f.attempts, p.PassNumber)
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		return 0, err
	}
	p.ID = int64(len(f.passes) + 1)
	f.passes = append(f.passes, p)
	return p.ID, nil
}

func (f *fakePassRepo) LatestForStudent(ctx context.Context, studentID int64) (*models.BusPass, error) {
	all, _ := f.ListForStudent(ctx, studentID)
	if len(all) == 0 {
		return nil, apperrors.ErrPassNotFound
	}
	return all[0], nil
}

func (f *fakePassRepo) ListForStudent(_ context.Context, studentID int64) ([]*models.BusPass, error) {
	out := []*models.BusPass{}
	for _, p := range f.passes {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].IssueDate.Equal(out[j].IssueDate) {
			return out[i].IssueDate.After(out[j].IssueDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

type fakeUserRepo struct {
	users      map[string]*models.User
	lastLogins map[int64]time.Time
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) (int64, error) {
	if _, ok := f.users[u.Username]; ok {
		return 0, apperrors.ErrUsernameExists
	}
	u.ID = int64(len(f.users) + 1)
	f.users[u.Username] = u
	return u.ID, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	_, ok := f.users[username]
	return ok, nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	f.lastLogins[id] = at
	return nil
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	now      func() time.Time
}

func newFakeSessionStore(now func() time.Time) *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*models.Session{}, now: now}
}

func (f *fakeSessionStore) Create(_ context.Context, s *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionStore) Check(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	switch {
	case !ok:
		return apperrors.ErrSessionInvalid
	case s.Revoked:
		return apperrors.ErrSessionRevoked
	case !s.ExpiresAt.After(f.now()):
		return apperrors.ErrSessionExpired
	}
	return nil
}

func (f *fakeSessionStore) Revoke(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[id]; ok {
		s.Revoked = true
	}
	return nil
}
