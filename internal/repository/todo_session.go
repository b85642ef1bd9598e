package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-todo-service/internal/model"
)

// TodoStore hands out one Session per request. Request handlers never share
// a transaction: each acquires a session, defers Rollback, and commits as an
// explicit pipeline step.
type TodoStore struct {
	pool *pgxpool.Pool
}

func NewTodoStore(pool *pgxpool.Pool) *TodoStore {
	return &TodoStore{pool: pool}
}

func (s *TodoStore) Begin(ctx context.Context) (*Session, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin todo session: %w", err)
	}
	return &Session{pool: s.pool, tx: tx}, nil
}

// querier is the subset of pgx shared by a transaction and the pool. A
// Session reads through its transaction while it is open and through the
// pool after commit, so a post-commit Refresh observes the committed row.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Session is a scoped transactional handle to the todo table.
type Session struct {
	pool      *pgxpool.Pool
	tx        pgx.Tx
	committed bool
}

func (s *Session) conn() querier {
	if s.committed {
		return s.pool
	}
	return s.tx
}

// Get fetches a todo by id. A missing row is not an error: it returns
// (nil, nil) so callers decide what absence means.
func (s *Session) Get(ctx context.Context, id int64) (*model.Todo, error) {
	var t model.Todo
	err := s.conn().QueryRow(ctx,
		`SELECT itemid, title, description, completed FROM todos WHERE itemid = $1`, id).
		Scan(&t.ItemID, &t.Title, &t.Description, &t.Completed)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get todo %d: %w", id, err)
	}
	return &t, nil
}

// Save inserts the todo when it has no id yet, otherwise updates it in
// place. On insert the assigned id is written back into the entity.
func (s *Session) Save(ctx context.Context, todo *model.Todo) error {
	if todo.ItemID == 0 {
		err := s.conn().QueryRow(ctx,
			`INSERT INTO todos (title, description, completed) VALUES ($1, $2, $3) RETURNING itemid`,
			todo.Title, todo.Description, todo.Completed).Scan(&todo.ItemID)
		if err != nil {
			return fmt.Errorf("insert todo: %w", err)
		}
		return nil
	}

	tag, err := s.conn().Exec(ctx,
		`UPDATE todos SET title = $2, description = $3, completed = $4 WHERE itemid = $1`,
		todo.ItemID, todo.Title, todo.Description, todo.Completed)
	if err != nil {
		return fmt.Errorf("update todo %d: %w", todo.ItemID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update todo %d: %w", todo.ItemID, model.ErrTodoNotFound)
	}
	return nil
}

// Refresh re-reads the entity by id, overwriting every field.
func (s *Session) Refresh(ctx context.Context, todo *model.Todo) error {
	err := s.conn().QueryRow(ctx,
		`SELECT itemid, title, description, completed FROM todos WHERE itemid = $1`, todo.ItemID).
		Scan(&todo.ItemID, &todo.Title, &todo.Description, &todo.Completed)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("refresh todo %d: %w", todo.ItemID, model.ErrTodoNotFound)
	}
	if err != nil {
		return fmt.Errorf("refresh todo %d: %w", todo.ItemID, err)
	}
	return nil
}

func (s *Session) Delete(ctx context.Context, todo *model.Todo) error {
	tag, err := s.conn().Exec(ctx, `DELETE FROM todos WHERE itemid = $1`, todo.ItemID)
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", todo.ItemID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete todo %d: %w", todo.ItemID, model.ErrTodoNotFound)
	}
	return nil
}

func (s *Session) Commit(ctx context.Context) error {
	if err := s.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit todo session: %w", err)
	}
	s.committed = true
	return nil
}

// Rollback releases the session. It is deferred on every request path; after
// a successful Commit it is a no-op.
func (s *Session) Rollback(ctx context.Context) {
	if s.committed {
		return
	}
	if err := s.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.Warn("todo session rollback failed", "error", err)
	}
}
