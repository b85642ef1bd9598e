package service

import (
	"context"

	"go-todo-service/internal/cache"
	"go-todo-service/internal/model"
	"go-todo-service/internal/result"
	"go-todo-service/pkg/apierror"
)

// TodoSession is the scoped transactional handle a single request works
// through. Implemented by repository.Session.
type TodoSession interface {
	Get(ctx context.Context, id int64) (*model.Todo, error)
	Save(ctx context.Context, todo *model.Todo) error
	Refresh(ctx context.Context, todo *model.Todo) error
	Delete(ctx context.Context, todo *model.Todo) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context)
}

// BeginFunc opens a fresh session. Every operation acquires its own and
// defers Rollback, so a failed commit never leaks uncommitted writes.
type BeginFunc func(ctx context.Context) (TodoSession, error)

// errNotFound is injected at NotNil sites; the unwrap boundary maps it to
// 404 while every unanticipated failure falls through to 500.
var errNotFound = apierror.NotFound("Not found!")

// TodoService sequences persistence steps for each CRUD operation through a
// result pipeline: the first failing step short-circuits the rest.
type TodoService struct {
	begin BeginFunc
	cache *cache.TodoCache
}

func NewTodoService(begin BeginFunc, todoCache *cache.TodoCache) *TodoService {
	return &TodoService{begin: begin, cache: todoCache}
}

func (s *TodoService) Get(ctx context.Context, id int64) (*model.Todo, error) {
	if todo, ok := s.cache.Lookup(ctx, id); ok {
		return todo, nil
	}

	sess, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Rollback(ctx)

	todo, err := result.
		Do(func() (*model.Todo, error) { return sess.Get(ctx, id) }).
		NotNil(errNotFound).
		Unwrap()
	if err != nil {
		return nil, err
	}

	s.cache.Store(ctx, todo)
	return todo, nil
}

func (s *TodoService) Create(ctx context.Context, item model.Item) (*model.Todo, error) {
	todo := &model.Todo{Title: item.Title, Description: item.Description}
	if err := todo.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Rollback(ctx)

	created, err := result.Ok(todo).
		BindSideEffect(func(t *model.Todo) error { return sess.Save(ctx, t) }).
		SideEffect(func() error { return sess.Commit(ctx) }).
		BindSideEffect(func(t *model.Todo) error { return sess.Refresh(ctx, t) }).
		Unwrap()
	if err != nil {
		return nil, err
	}

	s.cache.Store(ctx, created)
	return created, nil
}

// Update applies a partial patch: only fields present in the payload
// overwrite the stored entity.
func (s *TodoService) Update(ctx context.Context, patch model.TodoPatch) (*model.Todo, error) {
	sess, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Rollback(ctx)

	updated, err := result.
		Do(func() (*model.Todo, error) { return sess.Get(ctx, patch.ItemID) }).
		NotNil(errNotFound).
		BindSideEffect(func(t *model.Todo) error { patch.Apply(t); return t.Validate() }).
		BindSideEffect(func(t *model.Todo) error { return sess.Save(ctx, t) }).
		SideEffect(func() error { return sess.Commit(ctx) }).
		BindSideEffect(func(t *model.Todo) error { return sess.Refresh(ctx, t) }).
		Unwrap()
	if err != nil {
		return nil, err
	}

	s.cache.Store(ctx, updated)
	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, id int64) (model.Message, error) {
	sess, err := s.begin(ctx)
	if err != nil {
		return model.Message{}, err
	}
	defer sess.Rollback(ctx)

	deleted := result.
		Do(func() (*model.Todo, error) { return sess.Get(ctx, id) }).
		NotNil(errNotFound).
		BindSideEffect(func(t *model.Todo) error { return sess.Delete(ctx, t) }).
		SideEffect(func() error { return sess.Commit(ctx) })

	msg, err := result.Replace(deleted, model.Message{Message: "Successfully Deleted"}).Unwrap()
	if err != nil {
		return model.Message{}, err
	}

	s.cache.Invalidate(ctx, id)
	return msg, nil
}
