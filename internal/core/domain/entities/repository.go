package entities

import (
	"fmt"
	"time"
)

// RepositoryIdentifier names a repository on the remote host.
type RepositoryIdentifier struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns "owner/name".
func (r RepositoryIdentifier) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// LanguageShare is one language's share of a repository's code, by bytes.
type LanguageShare struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

// RepositoryInfo is the assembled view of a remote repository.
type RepositoryInfo struct {
	Name          string          `json:"name"`
	FullName      string          `json:"full_name"`
	Description   *string         `json:"description,omitempty"`
	Language      string          `json:"language"`
	Languages     []LanguageShare `json:"languages"`
	Stars         int             `json:"stars"`
	Forks         int             `json:"forks"`
	OpenIssues    int             `json:"open_issues"`
	LastCommit    time.Time       `json:"last_commit"`
	Contributors  int             `json:"contributors"`
	DefaultBranch string          `json:"default_branch"`
	URL           string          `json:"url"`
}
