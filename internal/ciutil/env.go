package ciutil

import "os"

// CI environment detection variables.
const (
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvTravisCI      = "TRAVIS"
	EnvCircleCI      = "CIRCLECI"
)

// Database connection environment variables, in lookup order.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvTestDBURL   = "TASKAPI_TEST_DB_URL"
)

var ciVariables = []string{
	EnvCI,
	EnvGitHubActions,
	EnvGitLabCI,
	EnvJenkinsURL,
	EnvTravisCI,
	EnvCircleCI,
}

// IsCI returns true if the current environment is a CI environment.
// It checks for common CI environment variables across different CI providers.
func IsCI() bool {
	for _, name := range ciVariables {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// TestDatabaseURL returns the first non-empty database URL variable, or an
// empty string.
func TestDatabaseURL() string {
	for _, name := range []string{EnvDatabaseURL, EnvTestDBURL} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
