// Package organizer drives the library workflow: scan downloads, identify
// each file against the metadata provider, place confident matches into
// the canonical tree and the symlink mirror, and park the rest in the
// review queue. Maintenance keeps the mirror's directory sizes within
// bounds.
package organizer

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"cinetree/internal/config"
	"cinetree/internal/logging"
	"cinetree/internal/match"
	"cinetree/internal/metadata"
	"cinetree/internal/queue"
	"cinetree/internal/scanner"
	"cinetree/internal/services"
	"cinetree/internal/transfer"
)

var videoExtensions = map[string]struct{}{
	".mkv": {}, ".mp4": {}, ".avi": {}, ".m4v": {}, ".mov": {}, ".webm": {}, ".ts": {},
}

// Organizer wires the identification, transfer, and queue pieces together.
type Organizer struct {
	cfg         *config.Config
	provider    metadata.Provider
	transferrer *transfer.Transferrer
	store       *queue.Store
	logger      *slog.Logger
}

// New builds an organizer. The store may be nil, in which case files that
// fail auto-validation are reported but not queued.
func New(cfg *config.Config, provider metadata.Provider, transferrer *transfer.Transferrer, store *queue.Store, logger *slog.Logger) *Organizer {
	return &Organizer{
		cfg:         cfg,
		provider:    provider,
		transferrer: transferrer,
		store:       store,
		logger:      logging.WithComponent(logger, "organizer"),
	}
}

// Identification is the result of matching one file: the parsed query,
// the ranked candidates, and whether the top match auto-validated.
type Identification struct {
	Parsed        match.ParsedFilename
	Ranked        []match.Ranked
	AutoValidated bool
}

// Identify parses a filename, searches the provider, enriches candidates
// with runtime details, and ranks them. A provider failure is transient;
// an empty result set yields a zero-candidate identification, which the
// caller routes to review.
func (o *Organizer) Identify(ctx context.Context, path string) (*Identification, error) {
	parsed := scanner.Parse(path)
	results, err := o.provider.Search(ctx, parsed.Title, parsed.Year)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "organizer", "search metadata", parsed.Title, err)
	}

	candidates := make([]match.Candidate, 0, len(results))
	for _, res := range results {
		cand := match.Candidate{
			ID:            res.ID,
			Title:         res.Title,
			OriginalTitle: res.OriginalTitle,
			Year:          res.Year,
			Source:        res.Source,
		}
		// Runtime participates in movie scoring; fetch it when available.
		if parsed.Kind != match.KindSeries {
			if details, detailsErr := o.provider.Details(ctx, res.ID); detailsErr == nil && details != nil {
				cand.DurationS = details.DurationS
				cand.Genres = details.Genres
			}
		}
		candidates = append(candidates, cand)
	}

	ranked, auto := match.RankAndDecide(o.logger, parsed, candidates)
	return &Identification{Parsed: parsed, Ranked: ranked, AutoValidated: auto}, nil
}

// Outcome describes what happened to one scanned file.
type Outcome struct {
	SourcePath string
	Ident      *Identification
	// Organized is true when the file landed in the library.
	Organized bool
	FinalPath string
	LinkPath  string
	// Queued is true when the file was parked for manual review.
	Queued      bool
	QueueToken  string
	QueueReason string
	// Skipped is true when the destination already held identical content.
	Skipped bool
}

// OrganizeFile runs the full pipeline for one file.
func (o *Organizer) OrganizeFile(ctx context.Context, path string) (*Outcome, error) {
	ident, err := o.Identify(ctx, path)
	if err != nil {
		return nil, err
	}
	outcome := &Outcome{SourcePath: path, Ident: ident}

	if !ident.AutoValidated {
		reason := "ambiguous match"
		if len(ident.Ranked) == 0 {
			reason = "no match"
		}
		outcome.QueueReason = reason

		// Park the file in the review area so the downloads directory
		// drains; the queue row tracks the parked location.
		reviewPath := filepath.Join(o.cfg.Paths.ReviewDir, filepath.Base(path))
		if _, moveErr := o.transferrer.Move(ctx, path, reviewPath, ""); moveErr != nil {
			return outcome, moveErr
		}
		if o.store != nil {
			item, addErr := o.store.Add(ctx, ident.Parsed, reviewPath, reason, ident.Ranked)
			if addErr != nil {
				return outcome, addErr
			}
			outcome.Queued = true
			outcome.QueueToken = item.Token
		}
		o.logger.Info("file parked for review",
			logging.String("path", reviewPath),
			logging.String("reason", reason),
			logging.Int("candidates", len(ident.Ranked)))
		return outcome, nil
	}

	winner := ident.Ranked[0].Candidate
	dest := o.DestinationFor(winner.Title, winner.Year, filepath.Ext(path))
	result, err := o.transferrer.Move(ctx, path, dest.LibraryPath, dest.LinkPath)
	if err != nil {
		return outcome, err
	}
	outcome.Organized = result.Moved
	outcome.Skipped = result.SkippedDuplicate
	outcome.FinalPath = result.FinalPath
	outcome.LinkPath = result.LinkPath
	if result.SkippedDuplicate {
		if err := o.dropDuplicate(ctx, path); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}

// dropDuplicate clears a bit-identical download out of the downloads tree
// so repeated runs do not rescan it. Deletion is opt-in; the default parks
// the copy in the review directory.
func (o *Organizer) dropDuplicate(ctx context.Context, path string) error {
	if o.cfg.Organize.RemoveDuplicates {
		if err := os.Remove(path); err != nil {
			return services.Wrap(services.ErrTransient, "organizer", "remove duplicate", path, err)
		}
		o.logger.Info("duplicate download removed", logging.String("path", path))
		return nil
	}
	reviewPath := filepath.Join(o.cfg.Paths.ReviewDir, filepath.Base(path))
	if _, err := o.transferrer.Move(ctx, path, reviewPath, ""); err != nil {
		return err
	}
	o.logger.Info("duplicate download parked for review", logging.String("path", reviewPath))
	return nil
}

// Report accumulates a run's outcomes. Failures carry on: one bad file
// never aborts the batch.
type Report struct {
	RunID     string
	Scanned   int
	Organized int
	Queued    int
	Skipped   int
	Outcomes  []*Outcome
	Failures  []Failure
}

// Failure records a per-file error kept out of the batch's way.
type Failure struct {
	Path string
	Err  error
}

// Run scans the downloads directory and organizes every video file found.
// The returned error covers only setup problems; per-file errors land in
// the report's Failures.
func (o *Organizer) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	logger := o.logger.With(logging.String("run_id", report.RunID))

	files, err := o.scanDownloads()
	if err != nil {
		return nil, err
	}
	logger.Info("organize run started", logging.Int("files", len(files)))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Scanned++
		outcome, err := o.OrganizeFile(ctx, path)
		if err != nil {
			report.Failures = append(report.Failures, Failure{Path: path, Err: err})
			logger.Warn("file failed, continuing",
				logging.String("path", path),
				logging.Error(err))
			continue
		}
		report.Outcomes = append(report.Outcomes, outcome)
		switch {
		case outcome.Organized:
			report.Organized++
		case outcome.Skipped:
			report.Skipped++
		case outcome.Queued || outcome.QueueReason != "":
			report.Queued++
		}
	}

	logger.Info("organize run finished",
		logging.Int("scanned", report.Scanned),
		logging.Int("organized", report.Organized),
		logging.Int("queued", report.Queued),
		logging.Int("failed", len(report.Failures)))
	return report, nil
}

func (o *Organizer) scanDownloads() ([]string, error) {
	root := o.cfg.Paths.DownloadsDir
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if _, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, services.Wrap(services.ErrTransient, "organizer", "scan downloads", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// ResolveQueued organizes a review item that a human has validated: the
// chosen candidate drives placement exactly as an auto-validated match
// would, and the queue row is removed on success.
func (o *Organizer) ResolveQueued(ctx context.Context, token string) (*Outcome, error) {
	if o.store == nil {
		return nil, services.Wrap(services.ErrConfiguration, "organizer", "resolve queued", "no queue store configured", nil)
	}
	item, err := o.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if item.Status != queue.StatusValidated {
		return nil, services.Wrap(services.ErrValidation, "organizer", "resolve queued",
			"item has not been validated", nil)
	}
	chosen, ok := item.Chosen()
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "organizer", "resolve queued",
			"validated item has no chosen candidate", nil)
	}
	if _, err := os.Stat(item.SourcePath); errors.Is(err, os.ErrNotExist) {
		return nil, services.Wrap(services.ErrSourceVanished, "organizer", "resolve queued", item.SourcePath, err)
	}

	dest := o.DestinationFor(chosen.Candidate.Title, chosen.Candidate.Year, filepath.Ext(item.SourcePath))
	result, err := o.transferrer.Move(ctx, item.SourcePath, dest.LibraryPath, dest.LinkPath)
	if err != nil {
		return nil, err
	}
	if result.SkippedDuplicate && o.cfg.Organize.RemoveDuplicates {
		// The source already sits in the review area; honor the removal
		// preference rather than leaving an orphan behind.
		if err := os.Remove(item.SourcePath); err != nil {
			o.logger.Warn("failed to remove duplicate",
				logging.String("path", item.SourcePath),
				logging.Error(err))
		}
	}
	if err := o.store.Remove(ctx, token); err != nil {
		o.logger.Warn("organized file but failed to drop queue row",
			logging.String("token", token),
			logging.Error(err))
	}
	return &Outcome{
		SourcePath: item.SourcePath,
		Organized:  result.Moved,
		Skipped:    result.SkippedDuplicate,
		FinalPath:  result.FinalPath,
		LinkPath:   result.LinkPath,
	}, nil
}
