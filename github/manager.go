package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"github.com/sirupsen/logrus"

	"github.com/actionkit-io/actionkit/internal/logutils"
)

// Manager is the shared access point for GitHub object lookups within a
// composite action step. It wraps an injected go-github client together with
// the repository and release context that later lookups default to.
//
// Every lookup collapses client-reported failures (not found, forbidden,
// transient network faults) into a nil result with a logged condition;
// composite actions handle failure by logging and marking the step failed,
// not by branching on error subtypes. Lookups never mutate the client handle
// and never cache API results.
//
// A Manager is not safe for concurrent use. Composite actions execute as a
// single sequential step, so no synchronization is carried.
type Manager struct {
	client  *gh.Client
	repo    *gh.Repository
	release *gh.RepositoryRelease
}

// New returns a Manager around the given client. The caller constructs and
// authenticates the client; the library never does. Passing nil leaves the
// manager unconfigured: every lookup logs the condition and returns nil
// until a client is injected with SetClient.
func New(client *gh.Client) *Manager {
	return &Manager{client: client}
}

// SetClient injects the API client. Meant to be called once, before any
// lookup; there is no way to return a configured manager to the
// unconfigured state.
func (m *Manager) SetClient(client *gh.Client) *Manager {
	m.client = client
	return m
}

// Client returns the injected API client, or nil when unconfigured.
func (m *Manager) Client() *gh.Client {
	return m.client
}

// Repository returns the stored repository context, or nil.
func (m *Manager) Repository() *gh.Repository {
	return m.repo
}

// Release returns the stored latest release, or nil.
func (m *Manager) Release() *gh.RepositoryRelease {
	return m.release
}

// RepositoryFullName returns the stored repository's "owner/name"
// identifier, or the empty string when no repository is stored.
func (m *Manager) RepositoryFullName() string {
	return m.repo.GetFullName()
}

// StoreRepository resolves fullName and stores it as the repository context
// used by later lookups. A failed lookup stores nil.
func (m *Manager) StoreRepository(ctx context.Context, fullName string) *Manager {
	m.repo = m.FetchRepository(ctx, fullName)
	return m
}

// UseRepository stores an already resolved repository as the context used by
// later lookups.
func (m *Manager) UseRepository(repo *gh.Repository) *Manager {
	m.repo = repo
	return m
}

// StoreLatestRelease fetches the latest release of repo (or of the stored
// repository when repo is nil) and stores it. A repository with no releases
// stores nil.
func (m *Manager) StoreLatestRelease(ctx context.Context, repo *gh.Repository) *Manager {
	m.release = m.FetchLatestRelease(ctx, repo)
	return m
}

// FetchRepository looks up a repository by its "owner/name" identifier.
// Returns nil when the identifier is malformed or the client reports any
// failure; the condition is logged, not surfaced.
func (m *Manager) FetchRepository(ctx context.Context, fullName string) *gh.Repository {
	if !m.configured("fetch repository") {
		return nil
	}
	log := logrus.WithField("repository", fullName)

	owner, name, ok := strings.Cut(fullName, "/")
	if !ok {
		log.Error("unable to parse repository identifier (expected <owner>/<name>)")
		return nil
	}

	log.Debug("fetching repository")
	repo, _, err := m.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		if isNotFound(err) {
			log.Error("repository not found")
		} else {
			log.WithError(err).Error("fetching repository failed")
		}
		return nil
	}
	return repo
}

// FetchLatestRelease looks up the most recent published release of repo, or
// of the stored repository when repo is nil. Returns nil when the repository
// has no releases or the lookup fails.
func (m *Manager) FetchLatestRelease(ctx context.Context, repo *gh.Repository) *gh.RepositoryRelease {
	if !m.configured("fetch latest release") {
		return nil
	}
	repo = m.resolveRepo(repo)
	if repo == nil {
		logrus.Error("fetching latest release failed: repository is not set")
		return nil
	}
	log := logrus.WithField("repository", repo.GetFullName())

	log.Debug("fetching latest release")
	release, _, err := m.client.Repositories.GetLatestRelease(ctx, repo.GetOwner().GetLogin(), repo.GetName())
	if err != nil {
		if isNotFound(err) {
			// Expected for repositories cutting their first release.
			log.Info("no published release found")
		} else {
			log.WithError(err).Error("fetching latest release failed")
		}
		return nil
	}
	log.WithFields(logrus.Fields{
		"tag":     release.GetTagName(),
		"release": logutils.Format("%+v", release),
	}).Debug("found latest release")
	return release
}

// FetchIssue looks up an issue by its repository-scoped number in repo, or
// in the stored repository when repo is nil.
func (m *Manager) FetchIssue(ctx context.Context, number int, repo *gh.Repository) *gh.Issue {
	if !m.configured("fetch issue") {
		return nil
	}
	repo = m.resolveRepo(repo)
	if repo == nil {
		logrus.Error("fetching issue failed: repository is not set")
		return nil
	}
	log := logrus.WithFields(logrus.Fields{
		"repository": repo.GetFullName(),
		"issue":      number,
	})

	log.Debug("fetching issue")
	issue, _, err := m.client.Issues.Get(ctx, repo.GetOwner().GetLogin(), repo.GetName(), number)
	if err != nil {
		if isNotFound(err) {
			log.Error("issue not found")
		} else {
			log.WithError(err).Error("fetching issue failed")
		}
		return nil
	}
	log.WithField("title", issue.GetTitle()).Debug("fetched issue")
	return issue
}

// FetchIssues lists issues of repo (or of the stored repository when repo is
// nil) updated since the given time. A zero since falls back to the stored
// release's publish time, then its creation time, then the repository
// creation time. An empty state means "all". Returns an empty list when the
// lookup fails.
func (m *Manager) FetchIssues(ctx context.Context, since time.Time, state string, repo *gh.Repository) []*gh.Issue {
	if !m.configured("fetch issues") {
		return nil
	}
	repo = m.resolveRepo(repo)
	if repo == nil {
		logrus.Error("fetching issues failed: repository is not set")
		return nil
	}
	if since.IsZero() {
		since = m.sinceTime(repo)
	}
	if state == "" {
		state = "all"
	}
	log := logrus.WithFields(logrus.Fields{
		"repository": repo.GetFullName(),
		"since":      since,
		"state":      state,
	})

	log.Debug("fetching issues")
	opts := &gh.IssueListByRepoOptions{
		State:       state,
		Since:       since,
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var all []*gh.Issue
	for {
		issues, resp, err := m.client.Issues.ListByRepo(ctx, repo.GetOwner().GetLogin(), repo.GetName(), opts)
		if err != nil {
			log.WithError(err).Error("fetching issues failed")
			return nil
		}
		all = append(all, issues...)
		if resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
	}
	log.WithField("count", len(all)).Debug("fetched issues")
	return all
}

// FetchPullRequests lists the closed pull requests of repo, or of the stored
// repository when repo is nil. Returns an empty list when the lookup fails.
func (m *Manager) FetchPullRequests(ctx context.Context, repo *gh.Repository) []*gh.PullRequest {
	if !m.configured("fetch pull requests") {
		return nil
	}
	repo = m.resolveRepo(repo)
	if repo == nil {
		logrus.Error("fetching pull requests failed: repository is not set")
		return nil
	}
	log := logrus.WithField("repository", repo.GetFullName())

	log.Debug("fetching closed pull requests")
	opts := &gh.PullRequestListOptions{
		State:       "closed",
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var all []*gh.PullRequest
	for {
		pulls, resp, err := m.client.PullRequests.List(ctx, repo.GetOwner().GetLogin(), repo.GetName(), opts)
		if err != nil {
			log.WithError(err).Error("fetching pull requests failed")
			return nil
		}
		all = append(all, pulls...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	log.WithField("count", len(all)).Debug("fetched pull requests")
	return all
}

// FetchCommits lists the commits of repo, or of the stored repository when
// repo is nil. Returns an empty list when the lookup fails.
func (m *Manager) FetchCommits(ctx context.Context, repo *gh.Repository) []*gh.RepositoryCommit {
	if !m.configured("fetch commits") {
		return nil
	}
	repo = m.resolveRepo(repo)
	if repo == nil {
		logrus.Error("fetching commits failed: repository is not set")
		return nil
	}
	log := logrus.WithField("repository", repo.GetFullName())

	log.Debug("fetching commits")
	opts := &gh.CommitsListOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var all []*gh.RepositoryCommit
	for {
		commits, resp, err := m.client.Repositories.ListCommits(ctx, repo.GetOwner().GetLogin(), repo.GetName(), opts)
		if err != nil {
			log.WithError(err).Error("fetching commits failed")
			return nil
		}
		all = append(all, commits...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	log.WithField("count", len(all)).Debug("fetched commits")
	return all
}

// ChangeURL builds the URL describing everything that changed in tagName: a
// compare URL against the release's tag, or the commit listing when the
// repository has no release yet. Nil arguments fall back to the stored
// repository and release. Returns the empty string when no repository is
// resolvable.
func (m *Manager) ChangeURL(tagName string, repo *gh.Repository, release *gh.RepositoryRelease) string {
	repo = m.resolveRepo(repo)
	if repo == nil {
		logrus.Error("change URL failed: repository is not set")
		return ""
	}
	if release == nil {
		release = m.release
	}
	if release == nil {
		return fmt.Sprintf("https://github.com/%s/commits/%s", repo.GetFullName(), tagName)
	}
	return fmt.Sprintf("https://github.com/%s/compare/%s...%s", repo.GetFullName(), release.GetTagName(), tagName)
}

func (m *Manager) configured(op string) bool {
	if m.client == nil {
		logrus.WithField("operation", op).Error("GitHub client is not configured")
		return false
	}
	return true
}

// resolveRepo picks the explicit override when given, otherwise the stored
// repository context.
func (m *Manager) resolveRepo(override *gh.Repository) *gh.Repository {
	if override != nil {
		return override
	}
	return m.repo
}

// sinceTime picks the default cutoff for history lookups: the stored
// release's publish time, its creation time when it was never published, or
// the repository creation time when no release is stored.
func (m *Manager) sinceTime(repo *gh.Repository) time.Time {
	if m.release == nil {
		return repo.GetCreatedAt().Time
	}
	if published := m.release.GetPublishedAt(); !published.IsZero() {
		return published.Time
	}
	return m.release.GetCreatedAt().Time
}
