package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"go-todo-service/internal/model"
	"go-todo-service/pkg/apierror"
)

// fakeSession is an in-memory TodoSession that records the order of store
// calls and can be told to fail at a named step.
type fakeSession struct {
	todos      map[int64]model.Todo
	nextID     int64
	calls      []string
	failOn     map[string]error
	committed  bool
	rolledBack bool
}

func newFakeSession(seed ...model.Todo) *fakeSession {
	s := &fakeSession{
		todos:  map[int64]model.Todo{},
		nextID: 1,
		failOn: map[string]error{},
	}
	for _, todo := range seed {
		s.todos[todo.ItemID] = todo
		if todo.ItemID >= s.nextID {
			s.nextID = todo.ItemID + 1
		}
	}
	return s
}

func (s *fakeSession) step(name string) error {
	s.calls = append(s.calls, name)
	return s.failOn[name]
}

func (s *fakeSession) Get(_ context.Context, id int64) (*model.Todo, error) {
	if err := s.step("get"); err != nil {
		return nil, err
	}
	todo, ok := s.todos[id]
	if !ok {
		return nil, nil
	}
	return &todo, nil
}

func (s *fakeSession) Save(_ context.Context, todo *model.Todo) error {
	if err := s.step("save"); err != nil {
		return err
	}
	if todo.ItemID == 0 {
		todo.ItemID = s.nextID
		s.nextID++
	}
	s.todos[todo.ItemID] = *todo
	return nil
}

func (s *fakeSession) Refresh(_ context.Context, todo *model.Todo) error {
	if err := s.step("refresh"); err != nil {
		return err
	}
	stored, ok := s.todos[todo.ItemID]
	if !ok {
		return model.ErrTodoNotFound
	}
	*todo = stored
	return nil
}

func (s *fakeSession) Delete(_ context.Context, todo *model.Todo) error {
	if err := s.step("delete"); err != nil {
		return err
	}
	delete(s.todos, todo.ItemID)
	return nil
}

func (s *fakeSession) Commit(context.Context) error {
	if err := s.step("commit"); err != nil {
		return err
	}
	s.committed = true
	return nil
}

func (s *fakeSession) Rollback(context.Context) {
	s.rolledBack = true
}

func newTestTodoService(sess *fakeSession) *TodoService {
	return NewTodoService(func(context.Context) (TodoSession, error) {
		return sess, nil
	}, nil)
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.HTTPStatus)
}

func TestGetReturnsStoredTodo(t *testing.T) {
	t.Parallel()

	sess := newFakeSession(model.Todo{ItemID: 1, Title: "A", Description: "B"})
	svc := newTestTodoService(sess)

	todo, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, &model.Todo{ItemID: 1, Title: "A", Description: "B"}, todo)
	require.True(t, sess.rolledBack, "read-only session is released via rollback")
}

func TestGetMissingIsNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestTodoService(newFakeSession())

	_, err := svc.Get(context.Background(), 9999)
	requireStatus(t, err, 404)
}

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	t.Parallel()

	sess := newFakeSession()
	svc := newTestTodoService(sess)

	todo, err := svc.Create(context.Background(), model.Item{Title: "x", Description: "y"})
	require.NoError(t, err)
	require.NotZero(t, todo.ItemID)
	require.Equal(t, "x", todo.Title)
	require.Equal(t, "y", todo.Description)
	require.False(t, todo.Completed)
	require.Equal(t, []string{"save", "commit", "refresh"}, sess.calls)
	require.True(t, sess.committed)
}

func TestCreateRejectsInvalidInputBeforeTouchingStore(t *testing.T) {
	t.Parallel()

	sess := newFakeSession()
	svc := newTestTodoService(sess)

	_, err := svc.Create(context.Background(), model.Item{Title: ""})
	require.ErrorIs(t, err, model.ErrInvalidInput)
	require.Empty(t, sess.calls)
}

func TestCreateSaveFailureSkipsCommit(t *testing.T) {
	t.Parallel()

	boom := errors.New("insert failed")
	sess := newFakeSession()
	sess.failOn["save"] = boom
	svc := newTestTodoService(sess)

	_, err := svc.Create(context.Background(), model.Item{Title: "x"})
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"save"}, sess.calls)
	require.False(t, sess.committed)
}

func TestCreateCommitFailureSkipsRefresh(t *testing.T) {
	t.Parallel()

	boom := errors.New("commit failed")
	sess := newFakeSession()
	sess.failOn["commit"] = boom
	svc := newTestTodoService(sess)

	_, err := svc.Create(context.Background(), model.Item{Title: "x"})
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"save", "commit"}, sess.calls)
	require.True(t, sess.rolledBack)
}

func TestUpdateAppliesPartialPatch(t *testing.T) {
	t.Parallel()

	sess := newFakeSession(model.Todo{ItemID: 1, Title: "A", Description: "B", Completed: false})
	svc := newTestTodoService(sess)

	completed := true
	todo, err := svc.Update(context.Background(), model.TodoPatch{ItemID: 1, Completed: &completed})
	require.NoError(t, err)
	require.Equal(t, &model.Todo{ItemID: 1, Title: "A", Description: "B", Completed: true}, todo)
	require.Equal(t, []string{"get", "save", "commit", "refresh"}, sess.calls)
}

func TestUpdateMissingIsNotFoundAndStopsPipeline(t *testing.T) {
	t.Parallel()

	sess := newFakeSession()
	svc := newTestTodoService(sess)

	completed := true
	_, err := svc.Update(context.Background(), model.TodoPatch{ItemID: 42, Completed: &completed})
	requireStatus(t, err, 404)
	require.Equal(t, []string{"get"}, sess.calls, "nothing runs after the not-found failure")
}

func TestUpdateRejectsInvalidPatchedEntity(t *testing.T) {
	t.Parallel()

	sess := newFakeSession(model.Todo{ItemID: 1, Title: "A"})
	svc := newTestTodoService(sess)

	empty := ""
	_, err := svc.Update(context.Background(), model.TodoPatch{ItemID: 1, Title: &empty})
	require.ErrorIs(t, err, model.ErrInvalidInput)
	require.Equal(t, []string{"get"}, sess.calls)
}

func TestDeleteReturnsMessage(t *testing.T) {
	t.Parallel()

	sess := newFakeSession(model.Todo{ItemID: 1, Title: "A"})
	svc := newTestTodoService(sess)

	msg, err := svc.Delete(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, model.Message{Message: "Successfully Deleted"}, msg)
	require.Equal(t, []string{"get", "delete", "commit"}, sess.calls)
	require.Empty(t, sess.todos)
}

func TestDeleteMissingIsNotFound(t *testing.T) {
	t.Parallel()

	sess := newFakeSession()
	svc := newTestTodoService(sess)

	_, err := svc.Delete(context.Background(), 1)
	requireStatus(t, err, 404)
	require.Equal(t, []string{"get"}, sess.calls)
}

func TestBeginFailurePropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("pool exhausted")
	svc := NewTodoService(func(context.Context) (TodoSession, error) {
		return nil, boom
	}, nil)

	_, err := svc.Get(context.Background(), 1)
	require.ErrorIs(t, err, boom)
}
