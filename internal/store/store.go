// Package store persists users, boards, lists, cards and invites.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"

	InvitePending  = "pending"
	InviteAccepted = "accepted"
	InviteDeclined = "declined"
)

var roleRank = map[string]int{RoleMember: 1, RoleAdmin: 2, RoleOwner: 3}

// AtLeast reports whether role grants at least the rights of min.
func AtLeast(role, min string) bool {
	return roleRank[role] > 0 && roleRank[role] >= roleRank[min]
}

// ValidInviteRole reports whether role may be granted through an invite.
func ValidInviteRole(role string) bool {
	return role == RoleMember || role == RoleAdmin
}

type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Board struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     int       `json:"owner_id"`
	Role        string    `json:"role,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Member struct {
	BoardID  int       `json:"board_id"`
	UserID   int       `json:"user_id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type List struct {
	ID        int       `json:"id"`
	BoardID   int       `json:"board_id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

type Card struct {
	ID          int        `json:"id"`
	BoardID     int        `json:"board_id"`
	ListID      int        `json:"list_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Position    int        `json:"position"`
	DueDate     *time.Time `json:"due_date"`
	Labels      []string   `json:"labels"`
	CreatedBy   int        `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Invite struct {
	ID         int       `json:"id"`
	BoardID    int       `json:"board_id"`
	BoardTitle string    `json:"board_title,omitempty"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	InvitedBy  int       `json:"invited_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// Event is one product analytics record.
type Event struct {
	Name           string
	Time           time.Time
	UserID         int
	SessionID      string
	Platform       string
	AppVersion     string
	DeviceLocale   string
	SourceEventKey string
	Properties     []byte
}

type Store interface {
	CreateUser(ctx context.Context, email, passwordHash string) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	UserByID(ctx context.Context, id int) (User, error)

	// CreateBoard also makes ownerID the board's owner member.
	CreateBoard(ctx context.Context, ownerID int, title, description string) (Board, error)
	BoardsForUser(ctx context.Context, userID int) ([]Board, error)
	Board(ctx context.Context, id int) (Board, error)
	UpdateBoard(ctx context.Context, id int, title, description string) (Board, error)
	DeleteBoard(ctx context.Context, id int) error

	// MemberRole returns ErrNotFound when userID is not on the board.
	MemberRole(ctx context.Context, boardID, userID int) (string, error)
	Members(ctx context.Context, boardID int) ([]Member, error)
	AddMember(ctx context.Context, boardID, userID int, role string) error
	RemoveMember(ctx context.Context, boardID, userID int) error

	CreateList(ctx context.Context, boardID int, title string) (List, error)
	Lists(ctx context.Context, boardID int) ([]List, error)
	List(ctx context.Context, id int) (List, error)
	UpdateList(ctx context.Context, id int, title string, position int) (List, error)
	DeleteList(ctx context.Context, id int) error

	CreateCard(ctx context.Context, c Card) (Card, error)
	Cards(ctx context.Context, boardID int) ([]Card, error)
	Card(ctx context.Context, id int) (Card, error)
	UpdateCard(ctx context.Context, c Card) (Card, error)
	MoveCard(ctx context.Context, id, listID, position int) (Card, error)
	DeleteCard(ctx context.Context, id int) error

	// CreateInvite returns ErrConflict when a pending invite for the same
	// board and email exists.
	CreateInvite(ctx context.Context, inv Invite) (Invite, error)
	PendingInvites(ctx context.Context, email string) ([]Invite, error)
	Invite(ctx context.Context, id int) (Invite, error)
	SetInviteStatus(ctx context.Context, id int, status string) error

	LogEvent(ctx context.Context, e Event) error
}

var (
	_ Store = (*Postgres)(nil)
	_ Store = (*Memory)(nil)
)
