// internal/model/models.go
package model

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"math/big"
	"strings"
	"time"
)

// repositoryIDSpace bounds derived repository identifiers.
const repositoryIDSpace = 1_000_000_000

// Credentials authenticate against the remote source-control API.
type Credentials struct {
	Username string
	Password string
}

// Empty reports whether either half of the credentials is missing.
func (c Credentials) Empty() bool {
	return c.Username == "" || c.Password == ""
}

// Redacted drops the password.
func (c Credentials) Redacted() Credentials {
	return Credentials{Username: c.Username}
}

// Project is a remote project as stored locally.
type Project struct {
	Key         string
	Name        string
	Description string
}

// Repository belongs to exactly one Project.
type Repository struct {
	ID         int64
	Name       string
	ProjectKey string
}

// RepositoryID derives the stable identifier of a repository from its project key and name.
// The same logical repository always maps to the same id without asking the remote system.
func RepositoryID(projectKey, repoName string) int64 {
	sum := sha1.Sum([]byte(projectKey + "/" + repoName))
	n, _ := new(big.Int).SetString(hex.EncodeToString(sum[:]), 16)
	return n.Mod(n, big.NewInt(repositoryIDSpace)).Int64()
}

// RemoteProject is a lightweight project record returned by the remote API.
type RemoteProject struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Identifier returns the name the remote API uses in project paths.
func (p RemoteProject) Identifier() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Key
}

// RemoteRepository is a lightweight repository record returned by the remote API.
type RemoteRepository struct {
	Name string `json:"name"`
}

// Branch is a lightweight branch record returned by the remote API.
type Branch struct {
	Name string `json:"name"`
}

// Author identifies who wrote a commit.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CommitSummary is one entry of a paginated commit listing.
type CommitSummary struct {
	Hash      string `json:"hash"`
	Message   string `json:"message"`
	Author    Author `json:"author"`
	CreatedAt string `json:"created_at"`
}

// CommitStats carries line-change counts of a single commit.
type CommitStats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// CommitDetails is the per-commit metadata block. Stats is never nil once
// returned by the client.
type CommitDetails struct {
	Hash    string       `json:"hash"`
	Message string       `json:"message"`
	Stats   *CommitStats `json:"stats"`
}

// CommitDiff carries the base64-encoded patch of a commit.
type CommitDiff struct {
	Content string `json:"content"`
}

// Decode returns the patch text. Bytes that are not valid UTF-8 are dropped.
func (d *CommitDiff) Decode() (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(d.Content))
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(raw), ""), nil
}

// Commit is a fully scored commit ready to be persisted.
type Commit struct {
	SHA          string
	Message      string
	AuthorName   string
	AuthorEmail  string
	CommitDate   time.Time
	Content      string
	AddedLines   int
	DeletedLines int

	Difficulty float64
	Quality    float64
	Size       int

	LLMSize       *int
	LLMQuality    *int
	LLMComplexity *int
	LLMComment    *int
	LLMTotal      *int
	LLMReply      string

	FinalScore   float64
	RepositoryID int64
	ProjectKey   string
}
