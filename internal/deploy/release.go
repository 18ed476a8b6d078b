// Package deploy: ReleaseStore — the on-remote-disk layout of timestamped
// release directories and the current symlink.
//
// Remote layout, written by the external sync tool and managed here:
//
//	<baseDir>/<service>/
//	  current -> releases/<timestamp>   (symlink, may be absent or dangling)
//	  releases/<timestamp>/...
package deploy

import (
	"context"
	"sort"
	"strings"

	v1 "github.com/skiffd/skiff/api/v1"
	"github.com/skiffd/skiff/internal/remote"
	"github.com/skiffd/skiff/pkg/errs"
)

// ReleaseStore manages releases for one service unit. It keeps no local
// cache; every read is a fresh remote listing.
type ReleaseStore struct {
	unit *ServiceUnit
}

// List enumerates releases sorted ascending by timestamp identifier.
// Identifiers are fixed-width, so lexical order equals chronological order.
// An absent releases root yields an empty list; an absent or dangling
// current symlink yields zero entries marked current.
func (s *ReleaseStore) List(ctx context.Context) ([]v1.Release, error) {
	out, err := s.unit.exec.Run(ctx, renderScript(listTmpl, s.unit.params()))
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrReleaseList, "release.list").
			WithResource(s.unit.spec.Name)
	}

	var releases []v1.Release
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, marker, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		releases = append(releases, v1.Release{ID: name, Current: marker == "current"})
	}

	sort.Slice(releases, func(i, j int) bool {
		return releases[i].ID < releases[j].ID
	})
	return releases, nil
}

// Current returns the release the current symlink resolves to, or nil when
// no release is switched in.
func (s *ReleaseStore) Current(ctx context.Context) (*v1.Release, error) {
	releases, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range releases {
		if releases[i].Current {
			return &releases[i], nil
		}
	}
	return nil, nil
}

// Switch atomically repoints the current symlink at the named release and
// restarts the unit, as one set -e remote script: the rename-based symlink
// replacement completes (or the whole script aborts) before the restart is
// issued. Not safe to run concurrently with another Switch on the same
// service; the remote filesystem is last-writer-wins.
func (s *ReleaseStore) Switch(ctx context.Context, releaseID string) error {
	p := s.unit.params()
	p.Release = releaseID

	s.unit.log.Info("release.switch", "service", s.unit.spec.Name, "release", releaseID)

	if _, err := s.unit.exec.Run(ctx, renderScript(switchTmpl, p)); err != nil {
		return errs.Wrap(err, errs.ErrReleaseSwitch, "release.switch").
			WithResource(releaseID).
			WithAdvice("Verify the release exists under the releases root: skiff releases list")
	}
	return nil
}

// Prune deletes non-current releases whose age in whole hours strictly
// exceeds ageHours. The current release is never eligible regardless of age.
// Deletion failures are reported on stderr without stopping the sweep, so
// the result is failed iff any directory could not be removed.
func (s *ReleaseStore) Prune(ctx context.Context, ageHours int) remote.Result {
	p := s.unit.params()
	p.Hours = ageHours

	s.unit.log.Info("release.prune", "service", s.unit.spec.Name, "older_than_hours", ageHours)
	return s.unit.exec.Test(ctx, renderScript(pruneTmpl, p), remote.StderrEmpty)
}
