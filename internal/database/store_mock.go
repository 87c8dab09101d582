// internal/database/store_mock.go
package database

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store for testing.
type MockStore struct {
	mock.Mock
}

var _ Store = &MockStore{} // Compile-time check

// ExecTx implements the Store interface by running fn against the same mock.
func (m *MockStore) ExecTx(_ context.Context, fn func(Store) error) error {
	return fn(m)
}

func (m *MockStore) CommitExists(ctx context.Context, sha string) (bool, error) {
	args := m.Called(ctx, sha)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) CreateCommit(ctx context.Context, arg CreateCommitParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func (m *MockStore) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(Project), args.Error(1)
}

func (m *MockStore) CreateRepository(ctx context.Context, arg CreateRepositoryParams) (Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(Repository), args.Error(1)
}

func (m *MockStore) GetCommit(ctx context.Context, sha string) (Commit, error) {
	args := m.Called(ctx, sha)
	return args.Get(0).(Commit), args.Error(1)
}

func (m *MockStore) GetCommitSummary(ctx context.Context) (GetCommitSummaryRow, error) {
	args := m.Called(ctx)
	return args.Get(0).(GetCommitSummaryRow), args.Error(1)
}

func (m *MockStore) GetCommitsByRepoID(ctx context.Context, repositoryID int64) ([]Commit, error) {
	args := m.Called(ctx, repositoryID)
	return args.Get(0).([]Commit), args.Error(1)
}

func (m *MockStore) GetProject(ctx context.Context, key string) (Project, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(Project), args.Error(1)
}

func (m *MockStore) GetRepository(ctx context.Context, id int64) (Repository, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Repository), args.Error(1)
}

func (m *MockStore) GetTopNCommitAuthors(ctx context.Context, limit int32) ([]GetTopNCommitAuthorsRow, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]GetTopNCommitAuthorsRow), args.Error(1)
}

func (m *MockStore) ListCommits(ctx context.Context, arg ListCommitsParams) ([]Commit, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]Commit), args.Error(1)
}
