package validators

import (
	"errors"
	"regexp"
	"strings"

	"github.com/just-nibble/repo-quality/internal/core/domain/entities"
)

// Repo is an "owner/name" pair as written in configuration.
type Repo string

func (r *Repo) Validate() error {
	repoSlice := strings.Split(string(*r), "/")
	if len(repoSlice) != 2 || repoSlice[0] == "" || repoSlice[1] == "" {
		return errors.New("invalid repo")
	}

	return nil
}

// Identifier returns the owner and name of a validated Repo.
func (r *Repo) Identifier() (entities.RepositoryIdentifier, error) {
	if err := r.Validate(); err != nil {
		return entities.RepositoryIdentifier{}, err
	}
	parts := strings.Split(string(*r), "/")
	return entities.RepositoryIdentifier{Owner: parts[0], Name: parts[1]}, nil
}

// Matches github.com/owner/name and git@github.com:owner/name. The name
// segment stops at the first '/', '?' or '#'.
var repositoryURLPattern = regexp.MustCompile(`github\.com[/:]([^/?#]+)/([^/?#]+)`)

// ParseRepositoryURL extracts the owner and name from a GitHub repository
// URL. A trailing ".git" on the name is removed. ok is false when the input
// does not have the owner/name shape.
func ParseRepositoryURL(url string) (id entities.RepositoryIdentifier, ok bool) {
	match := repositoryURLPattern.FindStringSubmatch(url)
	if match == nil {
		return entities.RepositoryIdentifier{}, false
	}

	owner := match[1]
	name := strings.TrimSuffix(match[2], ".git")
	if owner == "" || name == "" {
		return entities.RepositoryIdentifier{}, false
	}

	return entities.RepositoryIdentifier{Owner: owner, Name: name}, true
}
