package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
)

// Postgres implements Store on top of lib/pq.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// mapErr turns driver errors into store sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrConflict
	}
	return err
}

func requireAffected(res sql.Result, err error) error {
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ----------------------
//        USERS
// ----------------------

func (p *Postgres) CreateUser(ctx context.Context, email, passwordHash string) (User, error) {
	u := User{Email: strings.ToLower(email), PasswordHash: passwordHash}
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, u.Email, passwordHash).Scan(&u.ID, &u.CreatedAt)
	return u, mapErr(err)
}

func (p *Postgres) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := p.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users WHERE email = $1
	`, strings.ToLower(email)).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, mapErr(err)
}

func (p *Postgres) UserByID(ctx context.Context, id int) (User, error) {
	var u User
	err := p.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, mapErr(err)
}

// ----------------------
//        BOARDS
// ----------------------

func (p *Postgres) CreateBoard(ctx context.Context, ownerID int, title, description string) (Board, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return Board{}, err
	}
	defer func() { _ = tx.Rollback() }()

	b := Board{Title: title, Description: description, OwnerID: ownerID, Role: RoleOwner}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO boards (title, description, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, title, description, ownerID).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return Board{}, mapErr(err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO board_members (board_id, user_id, role)
		VALUES ($1, $2, $3)
	`, b.ID, ownerID, RoleOwner); err != nil {
		return Board{}, mapErr(err)
	}

	return b, tx.Commit()
}

func (p *Postgres) BoardsForUser(ctx context.Context, userID int) ([]Board, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT b.id, b.title, b.description, b.owner_id, m.role, b.created_at
		FROM boards b
		JOIN board_members m ON m.board_id = b.id
		WHERE m.user_id = $1
		ORDER BY b.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := []Board{}
	for rows.Next() {
		var b Board
		if err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.OwnerID, &b.Role, &b.CreatedAt); err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func (p *Postgres) Board(ctx context.Context, id int) (Board, error) {
	var b Board
	err := p.db.QueryRowContext(ctx, `
		SELECT id, title, description, owner_id, created_at
		FROM boards WHERE id = $1
	`, id).Scan(&b.ID, &b.Title, &b.Description, &b.OwnerID, &b.CreatedAt)
	return b, mapErr(err)
}

func (p *Postgres) UpdateBoard(ctx context.Context, id int, title, description string) (Board, error) {
	var b Board
	err := p.db.QueryRowContext(ctx, `
		UPDATE boards SET title = $1, description = $2
		WHERE id = $3
		RETURNING id, title, description, owner_id, created_at
	`, title, description, id).Scan(&b.ID, &b.Title, &b.Description, &b.OwnerID, &b.CreatedAt)
	return b, mapErr(err)
}

func (p *Postgres) DeleteBoard(ctx context.Context, id int) error {
	return requireAffected(p.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id))
}

// ----------------------
//        MEMBERS
// ----------------------

func (p *Postgres) MemberRole(ctx context.Context, boardID, userID int) (string, error) {
	var role string
	err := p.db.QueryRowContext(ctx, `
		SELECT role FROM board_members
		WHERE board_id = $1 AND user_id = $2
	`, boardID, userID).Scan(&role)
	return role, mapErr(err)
}

func (p *Postgres) Members(ctx context.Context, boardID int) ([]Member, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT m.board_id, m.user_id, u.email, m.role, m.joined_at
		FROM board_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.board_id = $1
		ORDER BY m.joined_at
	`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.BoardID, &m.UserID, &m.Email, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (p *Postgres) AddMember(ctx context.Context, boardID, userID int, role string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO board_members (board_id, user_id, role)
		VALUES ($1, $2, $3)
	`, boardID, userID, role)
	return mapErr(err)
}

func (p *Postgres) RemoveMember(ctx context.Context, boardID, userID int) error {
	return requireAffected(p.db.ExecContext(ctx, `
		DELETE FROM board_members WHERE board_id = $1 AND user_id = $2
	`, boardID, userID))
}

// ----------------------
//         LISTS
// ----------------------

func (p *Postgres) CreateList(ctx context.Context, boardID int, title string) (List, error) {
	l := List{BoardID: boardID, Title: title}
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO lists (board_id, title, position)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position), -1) + 1 FROM lists WHERE board_id = $1))
		RETURNING id, position, created_at
	`, boardID, title).Scan(&l.ID, &l.Position, &l.CreatedAt)
	return l, mapErr(err)
}

func (p *Postgres) Lists(ctx context.Context, boardID int) ([]List, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, board_id, title, position, created_at
		FROM lists WHERE board_id = $1
		ORDER BY position, id
	`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []List{}
	for rows.Next() {
		var l List
		if err := rows.Scan(&l.ID, &l.BoardID, &l.Title, &l.Position, &l.CreatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

func (p *Postgres) List(ctx context.Context, id int) (List, error) {
	var l List
	err := p.db.QueryRowContext(ctx, `
		SELECT id, board_id, title, position, created_at
		FROM lists WHERE id = $1
	`, id).Scan(&l.ID, &l.BoardID, &l.Title, &l.Position, &l.CreatedAt)
	return l, mapErr(err)
}

func (p *Postgres) UpdateList(ctx context.Context, id int, title string, position int) (List, error) {
	var l List
	err := p.db.QueryRowContext(ctx, `
		UPDATE lists SET title = $1, position = $2
		WHERE id = $3
		RETURNING id, board_id, title, position, created_at
	`, title, position, id).Scan(&l.ID, &l.BoardID, &l.Title, &l.Position, &l.CreatedAt)
	return l, mapErr(err)
}

func (p *Postgres) DeleteList(ctx context.Context, id int) error {
	return requireAffected(p.db.ExecContext(ctx, `DELETE FROM lists WHERE id = $1`, id))
}

// ----------------------
//         CARDS
// ----------------------

const cardColumns = `id, board_id, list_id, title, description, position, due_date, labels,
	COALESCE(created_by, 0), created_at, updated_at`

func scanCard(row interface{ Scan(...any) error }) (Card, error) {
	var (
		c   Card
		due sql.NullTime
	)
	err := row.Scan(
		&c.ID,
		&c.BoardID,
		&c.ListID,
		&c.Title,
		&c.Description,
		&c.Position,
		&due,
		pq.Array(&c.Labels),
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return Card{}, mapErr(err)
	}
	if due.Valid {
		c.DueDate = &due.Time
	}
	if c.Labels == nil {
		c.Labels = []string{}
	}
	return c, nil
}

func (p *Postgres) CreateCard(ctx context.Context, c Card) (Card, error) {
	if c.Labels == nil {
		c.Labels = []string{}
	}
	return scanCard(p.db.QueryRowContext(ctx, `
		INSERT INTO cards (board_id, list_id, title, description, position, due_date, labels, created_by)
		VALUES ($1, $2, $3, $4,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM cards WHERE list_id = $2),
			$5, $6, NULLIF($7, 0))
		RETURNING `+cardColumns,
		c.BoardID, c.ListID, c.Title, c.Description, c.DueDate, pq.Array(c.Labels), c.CreatedBy,
	))
}

func (p *Postgres) Cards(ctx context.Context, boardID int) ([]Card, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards WHERE board_id = $1
		ORDER BY list_id, position, id
	`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (p *Postgres) Card(ctx context.Context, id int) (Card, error) {
	return scanCard(p.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id))
}

func (p *Postgres) UpdateCard(ctx context.Context, c Card) (Card, error) {
	if c.Labels == nil {
		c.Labels = []string{}
	}
	return scanCard(p.db.QueryRowContext(ctx, `
		UPDATE cards
		SET title = $1, description = $2, due_date = $3, labels = $4, updated_at = now()
		WHERE id = $5
		RETURNING `+cardColumns,
		c.Title, c.Description, c.DueDate, pq.Array(c.Labels), c.ID,
	))
}

func (p *Postgres) MoveCard(ctx context.Context, id, listID, position int) (Card, error) {
	return scanCard(p.db.QueryRowContext(ctx, `
		UPDATE cards
		SET list_id = $1, position = $2, updated_at = now()
		WHERE id = $3
		RETURNING `+cardColumns,
		listID, position, id,
	))
}

func (p *Postgres) DeleteCard(ctx context.Context, id int) error {
	return requireAffected(p.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id))
}

// ----------------------
//        INVITES
// ----------------------

func (p *Postgres) CreateInvite(ctx context.Context, inv Invite) (Invite, error) {
	inv.Email = strings.ToLower(inv.Email)
	inv.Status = InvitePending
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO invites (board_id, email, role, status, invited_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, inv.BoardID, inv.Email, inv.Role, inv.Status, inv.InvitedBy).Scan(&inv.ID, &inv.CreatedAt)
	return inv, mapErr(err)
}

func (p *Postgres) PendingInvites(ctx context.Context, email string) ([]Invite, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT i.id, i.board_id, b.title, i.email, i.role, i.status, i.invited_by, i.created_at
		FROM invites i
		JOIN boards b ON b.id = i.board_id
		WHERE i.email = $1 AND i.status = $2
		ORDER BY i.id DESC
	`, strings.ToLower(email), InvitePending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invites := []Invite{}
	for rows.Next() {
		var inv Invite
		if err := rows.Scan(&inv.ID, &inv.BoardID, &inv.BoardTitle, &inv.Email, &inv.Role, &inv.Status, &inv.InvitedBy, &inv.CreatedAt); err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (p *Postgres) Invite(ctx context.Context, id int) (Invite, error) {
	var inv Invite
	err := p.db.QueryRowContext(ctx, `
		SELECT i.id, i.board_id, b.title, i.email, i.role, i.status, i.invited_by, i.created_at
		FROM invites i
		JOIN boards b ON b.id = i.board_id
		WHERE i.id = $1
	`, id).Scan(&inv.ID, &inv.BoardID, &inv.BoardTitle, &inv.Email, &inv.Role, &inv.Status, &inv.InvitedBy, &inv.CreatedAt)
	return inv, mapErr(err)
}

func (p *Postgres) SetInviteStatus(ctx context.Context, id int, status string) error {
	return requireAffected(p.db.ExecContext(ctx, `UPDATE invites SET status = $1 WHERE id = $2`, status, id))
}

// ----------------------
//       ANALYTICS
// ----------------------

// LogEvent inserts one analytics row. A duplicate source_event_key is ignored.
func (p *Postgres) LogEvent(ctx context.Context, e Event) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO analytics_events (
			event_name, event_time,
			user_id, session_id,
			platform, app_version, device_locale,
			source_event_key,
			properties
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb)
		ON CONFLICT (source_event_key) DO NOTHING
	`, e.Name, e.Time,
		e.UserID, nullIfEmpty(e.SessionID),
		e.Platform, e.AppVersion, nullIfEmpty(e.DeviceLocale),
		nullIfEmpty(e.SourceEventKey),
		string(e.Properties),
	)
	return err
}

func nullIfEmpty(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
