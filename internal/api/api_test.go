package api

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/repository/sqlite"
	"todo/internal/services"
	"todo/internal/services/mocks"
	"todo/internal/state"
)

type notice struct {
	title     string
	message   string
	retryable bool
}

// recordingListener keeps every callback for later assertions.
type recordingListener struct {
	mu      sync.Mutex
	lists   [][]domain.Task
	notices []notice
}

func (l *recordingListener) OnTasksChanged(tasks []domain.Task) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lists = append(l.lists, tasks)
}

func (l *recordingListener) OnError(title, message string, retryable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, notice{title, message, retryable})
}

func (l *recordingListener) lastList() []domain.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.lists) == 0 {
		return nil
	}
	return l.lists[len(l.lists)-1]
}

func (l *recordingListener) noticeCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.notices)
}

func setupTestAPI(t *testing.T) API {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	service := services.NewTaskServiceWithStore(store, nil, nil)
	t.Cleanup(func() { service.Close() })
	return New(context.Background(), state.New(service))
}

func textsOf(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Text
	}
	return out
}

func TestAPI_CreateUpdateDelete(t *testing.T) {
	a := setupTestAPI(t)

	a.RequestCreate("first")
	require.NoError(t, a.Wait())
	a.RequestCreate("second")
	require.NoError(t, a.Wait())
	assert.Equal(t, []string{"second", "first"}, textsOf(a.Tasks()))

	first := a.Tasks()[1]
	a.RequestUpdate(first.WithCompleted(true))
	require.NoError(t, a.Wait())
	assert.True(t, a.Tasks()[1].IsCompleted)

	a.RequestDelete(first)
	require.NoError(t, a.Wait())
	assert.Equal(t, []string{"second"}, textsOf(a.Tasks()))

	a.RequestDelete(first)
	assert.NoError(t, a.Wait(), "deleting an absent task is a no-op")
	assert.Nil(t, a.Snapshot().Notice)
}

func TestAPI_WaitReturnsFirstFailure(t *testing.T) {
	a := setupTestAPI(t)

	a.RequestCreate("ok")
	a.RequestCreate("   ")
	err := a.Wait()

	assert.ErrorIs(t, err, errors.ErrValidationFailed)
	assert.Len(t, a.Tasks(), 1)
	notice := a.Snapshot().Notice
	require.NotNil(t, notice)
	assert.Equal(t, "Failed to create task", notice.Title)

	a.DismissError()
	assert.Nil(t, a.Snapshot().Notice)
	assert.NoError(t, a.Wait(), "a drained wait has nothing to report")
}

func TestAPI_Editors(t *testing.T) {
	a := setupTestAPI(t)

	editor := a.RequestNew()
	editor.SetText("drafted")
	a.RequestCommit(editor)
	require.NoError(t, a.Wait())
	require.Len(t, a.Tasks(), 1)

	blank := a.RequestNew()
	a.RequestCommit(blank)
	require.NoError(t, a.Wait())
	assert.Len(t, a.Tasks(), 1, "blank drafts are discarded")

	open := a.RequestOpen(a.Tasks()[0])
	open.SetText("edited")
	a.RequestCommit(open)
	require.NoError(t, a.Wait())
	assert.Equal(t, "edited", a.Tasks()[0].Text)
}

func TestAPI_RefreshAndRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockTaskService(ctrl)
	task := domain.Task{ID: "a", Text: "A", CreatedAt: time.Now(), StorageKey: 1}
	gomock.InOrder(
		service.EXPECT().GetTasks(gomock.Any()).Return(nil, errors.NewStoreUnavailableError("open store", nil)),
		service.EXPECT().GetTasks(gomock.Any()).Return([]domain.Task{task}, nil),
	)
	a := New(context.Background(), state.New(service))
	listener := &recordingListener{}
	stop := a.Bind(listener)
	defer stop()

	a.RequestRefresh()
	assert.ErrorIs(t, a.Wait(), errors.ErrStoreUnavailable)
	require.Eventually(t, func() bool { return listener.noticeCount() == 1 }, time.Second, 5*time.Millisecond)

	listener.mu.Lock()
	got := listener.notices[0]
	listener.mu.Unlock()
	assert.Equal(t, notice{"Failed to get tasks", "The task store could not be opened. Please try again.", true}, got)

	a.RequestRetry()
	require.NoError(t, a.Wait())
	assert.Equal(t, []string{"A"}, textsOf(a.Tasks()))
	require.Eventually(t, func() bool { return len(listener.lastList()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, listener.noticeCount(), "retry raised no new notice")
}

func TestBind(t *testing.T) {
	a := setupTestAPI(t)
	a.RequestCreate("existing")
	require.NoError(t, a.Wait())

	listener := &recordingListener{}
	stop := a.Bind(listener)

	require.Eventually(t, func() bool { return len(listener.lastList()) == 1 }, time.Second, 5*time.Millisecond,
		"current list is delivered on bind")

	a.RequestCreate("new")
	require.NoError(t, a.Wait())
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"new", "existing"}, textsOf(listener.lastList()))
	}, time.Second, 5*time.Millisecond)

	a.RequestCreate("")
	assert.Error(t, a.Wait())
	require.Eventually(t, func() bool { return listener.noticeCount() == 1 }, time.Second, 5*time.Millisecond)

	stop()
	stop()

	listener.mu.Lock()
	seen := len(listener.lists)
	listener.mu.Unlock()

	a.RequestCreate("after stop")
	require.NoError(t, a.Wait())
	time.Sleep(20 * time.Millisecond)

	listener.mu.Lock()
	defer listener.mu.Unlock()
	assert.Equal(t, seen, len(listener.lists), "no callbacks after stop")
}

func TestBind_StandingNotice(t *testing.T) {
	a := setupTestAPI(t)
	a.RequestCreate("")
	require.Error(t, a.Wait())
	require.NotNil(t, a.Snapshot().Notice)

	listener := &recordingListener{}
	stop := a.Bind(listener)

	a.RequestCreate(" ")
	require.Error(t, a.Wait())
	stop()

	assert.Equal(t, 1, listener.noticeCount(), "only the notice raised after binding is reported")
}
