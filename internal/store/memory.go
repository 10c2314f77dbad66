package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Store used for local runs and tests.
type Memory struct {
	mu      sync.RWMutex
	seq     int
	users   map[int]User
	boards  map[int]Board
	members map[int]map[int]Member // board -> user -> member
	lists   map[int]List
	cards   map[int]Card
	invites map[int]Invite
	events  []Event
}

func NewMemory() *Memory {
	return &Memory{
		users:   map[int]User{},
		boards:  map[int]Board{},
		members: map[int]map[int]Member{},
		lists:   map[int]List{},
		cards:   map[int]Card{},
		invites: map[int]Invite{},
	}
}

func (m *Memory) next() int {
	m.seq++
	return m.seq
}

func (m *Memory) CreateUser(_ context.Context, email, passwordHash string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = strings.ToLower(email)
	for _, u := range m.users {
		if u.Email == email {
			return User{}, ErrConflict
		}
	}
	u := User{ID: m.next(), Email: email, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	m.users[u.ID] = u
	return u, nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *Memory) UserByID(_ context.Context, id int) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) CreateBoard(_ context.Context, ownerID int, title, description string) (Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	b := Board{ID: m.next(), Title: title, Description: description, OwnerID: ownerID, CreatedAt: now}
	m.boards[b.ID] = b
	m.members[b.ID] = map[int]Member{
		ownerID: {BoardID: b.ID, UserID: ownerID, Email: m.users[ownerID].Email, Role: RoleOwner, JoinedAt: now},
	}
	b.Role = RoleOwner
	return b, nil
}

func (m *Memory) BoardsForUser(_ context.Context, userID int) ([]Board, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	boards := []Board{}
	for id, members := range m.members {
		if mem, ok := members[userID]; ok {
			b := m.boards[id]
			b.Role = mem.Role
			boards = append(boards, b)
		}
	}
	sort.Slice(boards, func(i, j int) bool { return boards[i].ID > boards[j].ID })
	return boards, nil
}

func (m *Memory) Board(_ context.Context, id int) (Board, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.boards[id]
	if !ok {
		return Board{}, ErrNotFound
	}
	return b, nil
}

func (m *Memory) UpdateBoard(_ context.Context, id int, title, description string) (Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.boards[id]
	if !ok {
		return Board{}, ErrNotFound
	}
	b.Title, b.Description = title, description
	m.boards[id] = b
	return b, nil
}

func (m *Memory) DeleteBoard(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.boards[id]; !ok {
		return ErrNotFound
	}
	delete(m.boards, id)
	delete(m.members, id)
	for lid, l := range m.lists {
		if l.BoardID == id {
			delete(m.lists, lid)
		}
	}
	for cid, c := range m.cards {
		if c.BoardID == id {
			delete(m.cards, cid)
		}
	}
	for iid, inv := range m.invites {
		if inv.BoardID == id {
			delete(m.invites, iid)
		}
	}
	return nil
}

func (m *Memory) MemberRole(_ context.Context, boardID, userID int) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mem, ok := m.members[boardID][userID]
	if !ok {
		return "", ErrNotFound
	}
	return mem.Role, nil
}

func (m *Memory) Members(_ context.Context, boardID int) ([]Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	members := []Member{}
	for _, mem := range m.members[boardID] {
		members = append(members, mem)
	}
	sort.Slice(members, func(i, j int) bool {
		if !members[i].JoinedAt.Equal(members[j].JoinedAt) {
			return members[i].JoinedAt.Before(members[j].JoinedAt)
		}
		return members[i].UserID < members[j].UserID
	})
	return members, nil
}

func (m *Memory) AddMember(_ context.Context, boardID, userID int, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.boards[boardID]; !ok {
		return ErrNotFound
	}
	if _, ok := m.members[boardID][userID]; ok {
		return ErrConflict
	}
	m.members[boardID][userID] = Member{
		BoardID:  boardID,
		UserID:   userID,
		Email:    m.users[userID].Email,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	return nil
}

func (m *Memory) RemoveMember(_ context.Context, boardID, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.members[boardID][userID]; !ok {
		return ErrNotFound
	}
	delete(m.members[boardID], userID)
	return nil
}

func (m *Memory) CreateList(_ context.Context, boardID int, title string) (List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.boards[boardID]; !ok {
		return List{}, ErrNotFound
	}
	pos := 0
	for _, l := range m.lists {
		if l.BoardID == boardID && l.Position >= pos {
			pos = l.Position + 1
		}
	}
	l := List{ID: m.next(), BoardID: boardID, Title: title, Position: pos, CreatedAt: time.Now().UTC()}
	m.lists[l.ID] = l
	return l, nil
}

func (m *Memory) Lists(_ context.Context, boardID int) ([]List, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lists := []List{}
	for _, l := range m.lists {
		if l.BoardID == boardID {
			lists = append(lists, l)
		}
	}
	sort.Slice(lists, func(i, j int) bool {
		if lists[i].Position != lists[j].Position {
			return lists[i].Position < lists[j].Position
		}
		return lists[i].ID < lists[j].ID
	})
	return lists, nil
}

func (m *Memory) List(_ context.Context, id int) (List, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.lists[id]
	if !ok {
		return List{}, ErrNotFound
	}
	return l, nil
}

func (m *Memory) UpdateList(_ context.Context, id int, title string, position int) (List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.lists[id]
	if !ok {
		return List{}, ErrNotFound
	}
	l.Title, l.Position = title, position
	m.lists[id] = l
	return l, nil
}

func (m *Memory) DeleteList(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lists[id]; !ok {
		return ErrNotFound
	}
	delete(m.lists, id)
	for cid, c := range m.cards {
		if c.ListID == id {
			delete(m.cards, cid)
		}
	}
	return nil
}

func (m *Memory) CreateCard(_ context.Context, c Card) (Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lists[c.ListID]; !ok {
		return Card{}, ErrNotFound
	}
	pos := 0
	for _, other := range m.cards {
		if other.ListID == c.ListID && other.Position >= pos {
			pos = other.Position + 1
		}
	}
	now := time.Now().UTC()
	c.ID = m.next()
	c.Position = pos
	c.CreatedAt, c.UpdatedAt = now, now
	if c.Labels == nil {
		c.Labels = []string{}
	}
	m.cards[c.ID] = c
	return c, nil
}

func (m *Memory) Cards(_ context.Context, boardID int) ([]Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cards := []Card{}
	for _, c := range m.cards {
		if c.BoardID == boardID {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		a, b := cards[i], cards[j]
		if a.ListID != b.ListID {
			return a.ListID < b.ListID
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.ID < b.ID
	})
	return cards, nil
}

func (m *Memory) Card(_ context.Context, id int) (Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.cards[id]
	if !ok {
		return Card{}, ErrNotFound
	}
	return c, nil
}

func (m *Memory) UpdateCard(_ context.Context, c Card) (Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.cards[c.ID]
	if !ok {
		return Card{}, ErrNotFound
	}
	cur.Title, cur.Description, cur.DueDate = c.Title, c.Description, c.DueDate
	cur.Labels = c.Labels
	if cur.Labels == nil {
		cur.Labels = []string{}
	}
	cur.UpdatedAt = time.Now().UTC()
	m.cards[c.ID] = cur
	return cur, nil
}

func (m *Memory) MoveCard(_ context.Context, id, listID, position int) (Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.cards[id]
	if !ok {
		return Card{}, ErrNotFound
	}
	c.ListID, c.Position = listID, position
	c.UpdatedAt = time.Now().UTC()
	m.cards[id] = c
	return c, nil
}

func (m *Memory) DeleteCard(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cards[id]; !ok {
		return ErrNotFound
	}
	delete(m.cards, id)
	return nil
}

func (m *Memory) CreateInvite(_ context.Context, inv Invite) (Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inv.Email = strings.ToLower(inv.Email)
	for _, other := range m.invites {
		if other.BoardID == inv.BoardID && other.Email == inv.Email && other.Status == InvitePending {
			return Invite{}, ErrConflict
		}
	}
	inv.ID = m.next()
	inv.Status = InvitePending
	inv.BoardTitle = m.boards[inv.BoardID].Title
	inv.CreatedAt = time.Now().UTC()
	m.invites[inv.ID] = inv
	return inv, nil
}

func (m *Memory) PendingInvites(_ context.Context, email string) ([]Invite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	email = strings.ToLower(email)
	invites := []Invite{}
	for _, inv := range m.invites {
		if inv.Email == email && inv.Status == InvitePending {
			invites = append(invites, inv)
		}
	}
	sort.Slice(invites, func(i, j int) bool { return invites[i].ID > invites[j].ID })
	return invites, nil
}

func (m *Memory) Invite(_ context.Context, id int) (Invite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inv, ok := m.invites[id]
	if !ok {
		return Invite{}, ErrNotFound
	}
	return inv, nil
}

func (m *Memory) SetInviteStatus(_ context.Context, id int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inv, ok := m.invites[id]
	if !ok {
		return ErrNotFound
	}
	inv.Status = status
	m.invites[id] = inv
	return nil
}

func (m *Memory) LogEvent(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.SourceEventKey != "" {
		for _, prev := range m.events {
			if prev.SourceEventKey == e.SourceEventKey {
				return nil
			}
		}
	}
	m.events = append(m.events, e)
	return nil
}

// Events returns a copy of the logged analytics events.
func (m *Memory) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]Event(nil), m.events...)
}
