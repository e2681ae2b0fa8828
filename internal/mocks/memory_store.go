package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklink-api/internal/domain"
	"github.com/phrazzld/tasklink-api/internal/store"
)

// MemoryUserStore implements store.UserStore in memory. Passwords are
// "hashed" by prefixing them with "hashed:".
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User

	// Err, when set, is returned by every method.
	Err error
}

var _ store.UserStore = (*MemoryUserStore)(nil)

// NewMemoryUserStore returns an empty store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[uuid.UUID]domain.User)}
}

// Create implements store.UserStore.
func (s *MemoryUserStore) Create(_ context.Context, user *domain.User) error {
	if s.Err != nil {
		return s.Err
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := user.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	if user.Password != "" {
		user.HashedPassword = "hashed:" + user.Password
		user.Password = ""
	}
	s.users[user.ID] = *user
	return nil
}

// GetByID implements store.UserStore.
func (s *MemoryUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

// GetByEmail implements store.UserStore.
func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// MemoryTaskStore implements store.TaskStore in memory.
type MemoryTaskStore struct {
	mu         sync.Mutex
	nextTaskID int64
	nextListID int64
	tasks      map[int64]domain.Task
	lists      []domain.TaskList

	// Err, when set, is returned by every method.
	Err error
}

var _ store.TaskStore = (*MemoryTaskStore)(nil)

// NewMemoryTaskStore returns an empty store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: make(map[int64]domain.Task)}
}

// CreateInDefaultList implements store.TaskStore.
func (s *MemoryTaskStore) CreateInDefaultList(_ context.Context, task *domain.Task, defaultListName string) error {
	if s.Err != nil {
		return s.Err
	}
	if err := task.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	listID := int64(0)
	for _, l := range s.lists {
		if l.OwnerID == task.AssigneeID {
			listID = l.ID
			break
		}
	}
	if listID == 0 {
		s.nextListID++
		listID = s.nextListID
		s.lists = append(s.lists, domain.TaskList{
			ID:        listID,
			Name:      defaultListName,
			OwnerID:   task.AssigneeID,
			CreatedAt: time.Now().UTC(),
		})
	}

	s.nextTaskID++
	task.ID = s.nextTaskID
	task.ListID = listID
	s.tasks[task.ID] = *task
	return nil
}

// ListByAssignee implements store.TaskStore.
func (s *MemoryTaskStore) ListByAssignee(_ context.Context, assignee uuid.UUID) ([]domain.Task, error) {
	return s.filter(func(t domain.Task) bool { return t.AssigneeID == assignee })
}

// ListOverdue implements store.TaskStore.
func (s *MemoryTaskStore) ListOverdue(_ context.Context, now time.Time) ([]domain.Task, error) {
	return s.filter(func(t domain.Task) bool { return t.IsOverdue(now) })
}

// ListsByOwner returns the lists owned by owner, for test assertions.
func (s *MemoryTaskStore) ListsByOwner(_ context.Context, owner uuid.UUID) ([]domain.TaskList, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.TaskList{}
	for _, l := range s.lists {
		if l.OwnerID == owner {
			out = append(out, l)
		}
	}
	return out, nil
}

// Complete implements store.TaskStore.
func (s *MemoryTaskStore) Complete(_ context.Context, id int64, assignee uuid.UUID) (*domain.Task, bool, error) {
	if s.Err != nil {
		return nil, false, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok || t.AssigneeID != assignee {
		return nil, false, store.ErrTaskNotFound
	}
	if t.Completed {
		return &t, false, nil
	}
	t.Completed = true
	s.tasks[id] = t
	return &t, true, nil
}

// Put stores task as-is, bypassing list assignment. Tests use it to seed
// completed or overdue tasks.
func (s *MemoryTaskStore) Put(task domain.Task) domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task.ID == 0 {
		s.nextTaskID++
		task.ID = s.nextTaskID
	} else if task.ID > s.nextTaskID {
		s.nextTaskID = task.ID
	}
	s.tasks[task.ID] = task
	return task
}

func (s *MemoryTaskStore) filter(keep func(domain.Task) bool) ([]domain.Task, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []domain.Task{}
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Deadline.Equal(out[j].Deadline) {
			return out[i].Deadline.Before(out[j].Deadline)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// MemoryIdentityLinkStore implements store.IdentityLinkStore in memory.
type MemoryIdentityLinkStore struct {
	mu     sync.Mutex
	byUser map[uuid.UUID]domain.IdentityLink

	// Err, when set, is returned by every method.
	Err error
}

var _ store.IdentityLinkStore = (*MemoryIdentityLinkStore)(nil)

// NewMemoryIdentityLinkStore returns an empty store.
func NewMemoryIdentityLinkStore() *MemoryIdentityLinkStore {
	return &MemoryIdentityLinkStore{byUser: make(map[uuid.UUID]domain.IdentityLink)}
}

// Upsert implements store.IdentityLinkStore.
func (s *MemoryIdentityLinkStore) Upsert(_ context.Context, link *domain.IdentityLink) (domain.LinkResult, error) {
	if s.Err != nil {
		return "", s.Err
	}
	if err := domain.ValidateExternalID(link.ExternalID); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, l := range s.byUser {
		if l.ExternalID == link.ExternalID && userID != link.UserID {
			return "", store.ErrExternalIDTaken
		}
	}

	now := time.Now().UTC()
	existing, ok := s.byUser[link.UserID]
	switch {
	case !ok:
		link.CreatedAt, link.UpdatedAt = now, now
		s.byUser[link.UserID] = *link
		return domain.LinkCreated, nil
	case existing.ExternalID == link.ExternalID:
		*link = existing
		return domain.LinkUnchanged, nil
	default:
		existing.ExternalID = link.ExternalID
		existing.UpdatedAt = now
		s.byUser[link.UserID] = existing
		*link = existing
		return domain.LinkUpdated, nil
	}
}

// GetByExternalID implements store.IdentityLinkStore.
func (s *MemoryIdentityLinkStore) GetByExternalID(_ context.Context, externalID int64) (*domain.IdentityLink, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.byUser {
		if l.ExternalID == externalID {
			return &l, nil
		}
	}
	return nil, store.ErrIdentityLinkNotFound
}

// GetByUserID implements store.IdentityLinkStore.
func (s *MemoryIdentityLinkStore) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.IdentityLink, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.byUser[userID]
	if !ok {
		return nil, store.ErrIdentityLinkNotFound
	}
	return &l, nil
}

// Len returns the number of stored links.
func (s *MemoryIdentityLinkStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byUser)
}
