// internal/job/runner_test.go
package job

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commit-scorer/internal/collector"
	custom_errors "commit-scorer/internal/errors"
	"commit-scorer/internal/model"
)

type blockingCollector struct {
	release chan struct{}
	result  collector.Result
	err     error
}

func (b *blockingCollector) Collect(ctx context.Context, _ collector.Request) (collector.Result, error) {
	select {
	case <-b.release:
	case <-ctx.Done():
		return collector.Result{}, ctx.Err()
	}
	return b.result, b.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func validRequest() collector.Request {
	return collector.Request{
		Credentials: model.Credentials{Username: "user", Password: "secret"},
		ProjectKey:  "PROJ",
		RepoName:    "repo",
		Branch:      "main",
		Since:       "2024-01-01",
		Until:       "2024-02-01",
	}
}

func TestRunner(t *testing.T) {
	t.Run("starts idle", func(t *testing.T) {
		r := NewRunner(context.Background(), &blockingCollector{}, newTestLogger())
		status := r.Status()
		assert.Equal(t, StateIdle, status.State)
		assert.False(t, status.IsRunning)
	})

	t.Run("rejects a second job while one is running", func(t *testing.T) {
		c := &blockingCollector{
			release: make(chan struct{}),
			result:  collector.Result{Found: 3, Saved: 2, Message: "Analysis finished. Found 3 commits. Added to database: 2."},
		}
		r := NewRunner(context.Background(), c, newTestLogger())

		done, err := r.Start(validRequest())
		require.NoError(t, err)
		assert.Equal(t, StateRunning, r.Status().State)

		_, err = r.Start(validRequest())
		assert.ErrorIs(t, err, custom_errors.ErrCollectionRunning)

		close(c.release)
		<-done

		status := r.Status()
		assert.Equal(t, StateCompleted, status.State)
		assert.False(t, status.IsRunning)
		assert.Equal(t, 3, status.Found)
		assert.Equal(t, 2, status.Saved)
		assert.Equal(t, c.result.Message, status.Message)
		require.NotNil(t, status.FinishedAt)
		require.NotNil(t, status.Params)
		assert.Empty(t, status.Params.Credentials.Password)
	})

	t.Run("records failures and accepts the next job", func(t *testing.T) {
		c := &blockingCollector{release: make(chan struct{}), err: errors.New("store unavailable")}
		close(c.release)
		r := NewRunner(context.Background(), c, newTestLogger())

		done, err := r.Start(validRequest())
		require.NoError(t, err)
		<-done

		status := r.Status()
		assert.Equal(t, StateFailed, status.State)
		assert.Contains(t, status.Message, "store unavailable")

		done, err = r.Start(validRequest())
		require.NoError(t, err)
		<-done
	})

	t.Run("rejects invalid requests without changing state", func(t *testing.T) {
		r := NewRunner(context.Background(), &blockingCollector{}, newTestLogger())
		req := validRequest()
		req.Until = "not a date"

		_, err := r.Start(req)

		var dateErr *custom_errors.ErrInvalidDate
		assert.ErrorAs(t, err, &dateErr)
		assert.Equal(t, StateIdle, r.Status().State)
	})

	t.Run("cancelling the context stops a running job", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		r := NewRunner(ctx, &blockingCollector{release: make(chan struct{})}, newTestLogger())

		_, err := r.Start(validRequest())
		require.NoError(t, err)
		cancel()

		assert.Eventually(t, func() bool {
			return r.Status().State == StateFailed
		}, time.Second, 10*time.Millisecond)
		r.Wait()
	})
}
