package organizer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"cinetree/internal/fileutil"
	"cinetree/internal/logging"
	"cinetree/internal/services"
	"cinetree/internal/subdivide"
)

// MaintenanceReport summarizes one maintenance pass over the mirror.
type MaintenanceReport struct {
	RunID         string
	CreatedDirs   []string
	RemovedDirs   []string
	GroupsCreated []string
	MovedLinks    int
	Failures      []Failure
}

// NoOp reports whether the pass changed nothing, which is the expected
// steady state: maintenance over an already-balanced mirror must not
// touch the filesystem.
func (r *MaintenanceReport) NoOp() bool {
	return len(r.CreatedDirs) == 0 && len(r.RemovedDirs) == 0 &&
		len(r.GroupsCreated) == 0 && r.MovedLinks == 0
}

type linkEntry struct {
	name string // file name inside the bucket
	dir  string // bucket directory name
}

type groupDir struct {
	name   string // group directory name
	parent string // alphabetic bucket holding it, "" for a legacy root-level group
}

// Maintain rebalances the symlink mirror: buckets over the per-directory
// ceiling are split into balanced alphabetic ranges, and recurring title
// prefixes are pulled out into named group directories. Per-bucket
// failures are accumulated; the pass continues.
func (o *Organizer) Maintain(ctx context.Context) (*MaintenanceReport, error) {
	report := &MaintenanceReport{RunID: uuid.NewString()}
	logger := o.logger.With(logging.String("run_id", report.RunID))

	buckets, groups, err := o.readBuckets()
	if err != nil {
		return nil, err
	}

	for _, bucket := range bucketNames(buckets) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		entries := buckets[bucket]
		if len(entries) <= o.cfg.Organize.MaxPerDirectory || bucket == "#" {
			continue
		}
		if err := o.splitBucket(bucket, entries, report); err != nil {
			report.Failures = append(report.Failures, Failure{Path: bucket, Err: err})
			logger.Warn("bucket split failed, continuing",
				logging.String("bucket", bucket),
				logging.Error(err))
		}
	}

	// Prefix pass over the alphabetic buckets only; existing group dirs
	// stay as they are, so the pass is idempotent.
	buckets, groups, err = o.readBuckets()
	if err != nil {
		return report, err
	}
	o.extractGroups(buckets, groups, report, logger)

	logger.Info("maintenance finished",
		logging.Int("created", len(report.CreatedDirs)),
		logging.Int("removed", len(report.RemovedDirs)),
		logging.Int("groups", len(report.GroupsCreated)),
		logging.Int("moved", report.MovedLinks),
		logging.Bool("noop", report.NoOp()))
	return report, nil
}

// readBuckets maps every alphabetic bucket (letter or range label) to its
// link entries and returns existing prefix-group directories separately.
// Groups live nested inside an alphabetic bucket; a non-alphabetic name at
// the mirror root is recognized as a legacy group and left alone.
func (o *Organizer) readBuckets() (map[string][]linkEntry, []groupDir, error) {
	root := o.cfg.Paths.LinksDir
	buckets := make(map[string][]linkEntry)
	var groups []groupDir

	dirs, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return buckets, nil, nil
		}
		return nil, nil, services.Wrap(services.ErrTransient, "organizer", "read mirror", root, err)
	}
	for _, dir := range dirs {
		if !dir.IsDir() {
			continue
		}
		name := dir.Name()
		if !isAlphabeticBucket(name) {
			groups = append(groups, groupDir{name: name})
			continue
		}
		files, err := os.ReadDir(filepath.Join(root, name))
		if err != nil {
			return nil, nil, services.Wrap(services.ErrTransient, "organizer", "read bucket", name, err)
		}
		for _, file := range files {
			if file.IsDir() {
				groups = append(groups, groupDir{name: file.Name(), parent: name})
				continue
			}
			buckets[name] = append(buckets[name], linkEntry{name: file.Name(), dir: name})
		}
	}
	return buckets, groups, nil
}

func isAlphabeticBucket(name string) bool {
	if strings.Contains(name, "-") {
		return true
	}
	return len([]rune(name)) == 1
}

func bucketNames(buckets map[string][]linkEntry) []string {
	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// splitBucket replans one oversized bucket within its own span and applies
// the result: new range dirs, relocated links, old dir removed. A plan
// equal to the current layout is skipped.
func (o *Organizer) splitBucket(bucket string, entries []linkEntry, report *MaintenanceReport) error {
	parentStart, parentEnd := bucketSpan(bucket)

	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = strings.TrimSuffix(e.name, filepath.Ext(e.name))
	}
	plan, err := subdivide.PlanWithin(parentStart, parentEnd, titles, o.cfg.Organize.MaxPerDirectory)
	if err != nil {
		return err
	}
	if len(plan) == 1 && plan[0].Label() == bucket {
		return nil
	}

	root := o.cfg.Paths.LinksDir
	for _, label := range plan.Labels() {
		if err := fileutil.EnsureDir(filepath.Join(root, label)); err != nil {
			return err
		}
		report.CreatedDirs = append(report.CreatedDirs, label)
	}
	for _, e := range entries {
		title := strings.TrimSuffix(e.name, filepath.Ext(e.name))
		idx := plan.Locate(title)
		if idx < 0 {
			continue
		}
		target := plan[idx].Label()
		if target == e.dir {
			continue
		}
		if err := os.Rename(filepath.Join(root, e.dir, e.name), filepath.Join(root, target, e.name)); err != nil {
			return err
		}
		report.MovedLinks++
	}

	// Group dirs nested in the old bucket move whole into the range that
	// owns their name.
	leftovers, err := os.ReadDir(filepath.Join(root, bucket))
	if err != nil {
		return services.Wrap(services.ErrTransient, "organizer", "read bucket", bucket, err)
	}
	for _, left := range leftovers {
		if !left.IsDir() {
			continue
		}
		idx := plan.Locate(left.Name())
		if idx < 0 {
			continue
		}
		target := plan[idx].Label()
		if target == bucket {
			continue
		}
		if err := os.Rename(filepath.Join(root, bucket, left.Name()), filepath.Join(root, target, left.Name())); err != nil {
			return err
		}
		report.MovedLinks++
	}

	if err := os.Remove(filepath.Join(root, bucket)); err != nil {
		return err
	}
	report.RemovedDirs = append(report.RemovedDirs, bucket)
	return nil
}

// bucketSpan returns the parent boundaries for replanning a bucket: a
// range label splits within its own Start-End, a letter within letter to
// letter+"z".
func bucketSpan(bucket string) (string, string) {
	if start, end, err := subdivide.ParseLabel(bucket); err == nil {
		return start, end
	}
	return bucket, bucket + "z"
}

// extractGroups pulls recurring first-word prefixes out of the alphabetic
// buckets into named group directories nested inside the bucket that holds
// the recurring titles.
func (o *Organizer) extractGroups(buckets map[string][]linkEntry, existing []groupDir, report *MaintenanceReport, logger *slog.Logger) {
	var all []linkEntry
	var titles []string
	for _, bucket := range bucketNames(buckets) {
		for _, e := range buckets[bucket] {
			all = append(all, e)
			titles = append(titles, strings.TrimSuffix(e.name, filepath.Ext(e.name)))
		}
	}
	minCount := o.cfg.Organize.PrefixMinCount
	if minCount <= 0 {
		minCount = subdivide.DefaultMinGroupSize
	}
	existingNames := make([]string, len(existing))
	for i, g := range existing {
		existingNames[i] = g.name
	}
	groups := subdivide.FindGroupsExcluding(titles, existingNames, minCount)
	root := o.cfg.Paths.LinksDir

	for _, group := range groups {
		members := make(map[string]struct{}, len(group.Titles))
		for _, t := range group.Titles {
			members[t] = struct{}{}
		}
		parent := groupParent(all, members)
		if parent == "" {
			continue
		}
		groupPath := filepath.Join(parent, group.Name)
		if err := fileutil.EnsureDir(filepath.Join(root, groupPath)); err != nil {
			report.Failures = append(report.Failures, Failure{Path: groupPath, Err: err})
			continue
		}
		report.GroupsCreated = append(report.GroupsCreated, groupPath)
		for _, e := range all {
			title := strings.TrimSuffix(e.name, filepath.Ext(e.name))
			if _, ok := members[title]; !ok {
				continue
			}
			if err := os.Rename(filepath.Join(root, e.dir, e.name), filepath.Join(root, groupPath, e.name)); err != nil {
				report.Failures = append(report.Failures, Failure{Path: e.name, Err: err})
				logger.Warn("group move failed, continuing",
					logging.String("link", e.name),
					logging.Error(err))
				continue
			}
			report.MovedLinks++
		}
	}
}

// groupParent picks the alphabetic bucket holding the first member of the
// group; the members share a leading word, so they land in one bucket
// unless a range boundary cuts through the prefix, in which case the
// earliest bucket wins.
func groupParent(all []linkEntry, members map[string]struct{}) string {
	for _, e := range all {
		title := strings.TrimSuffix(e.name, filepath.Ext(e.name))
		if _, ok := members[title]; ok {
			return e.dir
		}
	}
	return ""
}
