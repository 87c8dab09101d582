// internal/job/scheduler_test.go
package job

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commit-scorer/internal/collector"
	custom_errors "commit-scorer/internal/errors"
	"commit-scorer/internal/model"
)

type recordingSubmitter struct {
	requests []collector.Request
	reject   map[string]error
}

func (r *recordingSubmitter) Start(req collector.Request) (<-chan struct{}, error) {
	if err := r.reject[req.RepoName]; err != nil {
		return nil, err
	}
	r.requests = append(r.requests, req)
	done := make(chan struct{})
	close(done)
	return done, nil
}

func TestParseTargets(t *testing.T) {
	t.Run("valid targets", func(t *testing.T) {
		targets, err := ParseTargets([]string{"PROJ/repo", " PROJ/other@develop ", ""})
		require.NoError(t, err)
		assert.Equal(t, []Target{
			{ProjectKey: "PROJ", RepoName: "repo", Branch: collector.AllBranches},
			{ProjectKey: "PROJ", RepoName: "other", Branch: "develop"},
		}, targets)
	})

	for _, bad := range []string{"PROJ", "PROJ/", "/repo", "a/b/c", "PROJ/repo@"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := ParseTargets([]string{bad})
			var formatErr *custom_errors.ErrInvalidTargetFormat
			require.ErrorAs(t, err, &formatErr)
			assert.Equal(t, bad, formatErr.Target)
		})
	}
}

func TestScheduler_RunCycle(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	creds := model.Credentials{Username: "bot", Password: "secret"}

	submitter := &recordingSubmitter{reject: map[string]error{"busy": custom_errors.ErrCollectionRunning}}
	s, err := NewScheduler(submitter, newTestLogger(), []string{"PROJ/repo", "PROJ/busy", "PROJ/other@main"}, time.Hour, since, creds)
	require.NoError(t, err)
	s.now = func() time.Time { return now }

	s.runCycle(context.Background())

	require.Len(t, submitter.requests, 2)
	first := submitter.requests[0]
	assert.Equal(t, "repo", first.RepoName)
	assert.Equal(t, collector.AllBranches, first.Branch)
	assert.Equal(t, "2024-01-01T00:00:00Z", first.Since)
	assert.Equal(t, "2024-03-01T12:00:00Z", first.Until)
	assert.Equal(t, creds, first.Credentials)
	assert.Equal(t, "main", submitter.requests[1].Branch)
}

func TestScheduler_StartDisabled(t *testing.T) {
	submitter := &recordingSubmitter{}
	s, err := NewScheduler(submitter, newTestLogger(), nil, time.Hour, time.Now(), model.Credentials{Username: "u", Password: "p"})
	require.NoError(t, err)

	s.Start(context.Background()) // returns immediately

	assert.Empty(t, submitter.requests)
}

func TestScheduler_StartStopsOnCancel(t *testing.T) {
	submitter := &recordingSubmitter{}
	s, err := NewScheduler(submitter, newTestLogger(), []string{"PROJ/repo"}, time.Hour, time.Now(), model.Credentials{Username: "u", Password: "p"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(finished)
	}()

	cancel()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}
