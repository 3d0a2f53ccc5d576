package registry

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	perrors "github.com/matzehuels/plugfetch/pkg/errors"
)

const (
	// LatestTag is the dist-tag used when no version is requested.
	LatestTag = "latest"

	// AnyVersion matches every published release; it resolves to the
	// highest one.
	AnyVersion = "*"
)

// ResolveVersion selects the record in doc that satisfies requested.
//
// The request is trimmed; an empty request means [LatestTag]. A dist-tag
// name is replaced by the version it points at. Otherwise a well-formed
// version is normalized ("v1.2.3" becomes "1.2.3") and anything else is
// used verbatim as a semver range. An exact key match in doc.Versions wins;
// failing that, the highest version satisfying the range is returned.
//
// Keys are scanned in lexical order and a candidate replaces the current
// best only when strictly greater, so among versions that compare equal
// (differing only in build metadata) the lexically first key wins.
func ResolveVersion(doc *Document, requested string) (*VersionRecord, error) {
	req := strings.TrimSpace(requested)
	if req == "" {
		req = LatestTag
	}

	target := doc.DistTags[req]
	if target == "" {
		target = cleanVersion(req)
		if target == "" {
			target = req
		}
	}

	if rec, ok := doc.Versions[target]; ok {
		return &rec, nil
	}
	if rec := maxSatisfying(doc.Versions, target); rec != nil {
		return rec, nil
	}
	return nil, perrors.New(perrors.ErrCodeVersionNotFound, "Version '%s' not found for package '%s'", req, doc.Name)
}

// prereleaseComparator matches the X.Y.Z part of a comparator that carries
// a prerelease, e.g. "1.2.3" in "^1.2.3-beta.2".
var prereleaseComparator = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)-[0-9A-Za-z.-]+`)

// maxSatisfying returns the highest record satisfying rng. A prerelease is
// only eligible when rng names a prerelease of the same major.minor.patch,
// so "^1.2.3-beta.2" admits 1.2.3-beta.4 but not 1.3.0-alpha.1.
func maxSatisfying(versions map[string]VersionRecord, rng string) *VersionRecord {
	constraint, err := semver.NewConstraint(rng)
	if err != nil {
		return nil
	}

	prereleaseTuples := make(map[string]bool)
	for _, m := range prereleaseComparator.FindAllStringSubmatch(rng, -1) {
		prereleaseTuples[m[1]+"."+m[2]+"."+m[3]] = true
	}

	var (
		best    *VersionRecord
		bestVer *semver.Version
	)
	for _, key := range slices.Sorted(maps.Keys(versions)) {
		rec := versions[key]
		v, ok := parseVersion(rec.Version)
		if !ok || !constraint.Check(v) {
			continue
		}
		if v.Prerelease() != "" && !prereleaseTuples[fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())] {
			continue
		}
		if bestVer == nil || v.GreaterThan(bestVer) {
			best, bestVer = &rec, v
		}
	}
	return best
}

// parseVersion parses a concrete X.Y.Z[-pre][+build] version, allowing a
// single leading "v". Partial versions such as "1.2" are rejected.
func parseVersion(s string) (*semver.Version, bool) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(s), "v"))
	if err != nil {
		return nil, false
	}
	return v, true
}

// cleanVersion normalizes a concrete version string: surrounding space and
// leading "=" or "v" characters are removed and build metadata is dropped.
// It returns "" when s is not a concrete version.
func cleanVersion(s string) string {
	v, err := semver.StrictNewVersion(strings.TrimLeft(strings.TrimSpace(s), "=v"))
	if err != nil {
		return ""
	}
	out := fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
	if pre := v.Prerelease(); pre != "" {
		out += "-" + pre
	}
	return out
}
