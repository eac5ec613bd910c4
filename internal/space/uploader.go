// Package space uploads issue templates to a Space compatible planning API:
// chunked bulk import followed by best-effort board placement and tag
// attachment.
package space

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"issues-import/internal/issues"
)

// DefaultBatchSize is the number of issues per import request.
const DefaultBatchSize = 50

// UploadRequest carries the issues and the import options.
type UploadRequest struct {
	Issues          []issues.IssueTemplate
	Project         ProjectIdentifier
	ImportSource    string
	AssigneeMissing ImportMissingPolicy
	StatusMissing   ImportMissingPolicy
	OnExists        ImportExistsPolicy
	DryRun          bool
	BatchSize       int
	// Board is optional. Created and updated issues are added to it.
	Board *BoardIdentifier
	// TagMappingType is optional. Nil skips tag attachment.
	TagMappingType *issues.MappingType
}

// Uploader runs imports against one destination.
type Uploader struct {
	client Client
	log    zerolog.Logger
}

func NewUploader(client Client, l zerolog.Logger) *Uploader {
	return &Uploader{client: client, log: l.With().Str("component", "uploader").Logger()}
}

// Upload imports req.Issues batch by batch. The first failing batch stops
// the upload; the results of the batches before it are returned with the
// error. When only board or tag steps failed the error is a
// *SecondaryError and every batch was imported.
func (u *Uploader) Upload(ctx context.Context, req UploadRequest) ([]ImportResult, error) {
	if req.TagMappingType != nil && *req.TagMappingType == issues.MappingEmail {
		return nil, ErrEmailTagMapping
	}
	if req.BatchSize <= 0 {
		req.BatchSize = DefaultBatchSize
	}
	if req.AssigneeMissing == "" {
		req.AssigneeMissing = MissingSkip
	}
	if req.StatusMissing == "" {
		req.StatusMissing = MissingSkip
	}
	if req.OnExists == "" {
		req.OnExists = ExistsSkip
	}

	if req.DryRun {
		u.log.Info().Msg("[DRY RUN]")
	}

	results, err := u.importBatches(ctx, req)
	if err != nil {
		return results, err
	}
	if req.DryRun {
		return results, nil
	}

	secondary := &SecondaryError{}
	if req.Board != nil {
		u.addToBoard(ctx, req, results, secondary)
	}
	if req.TagMappingType != nil {
		u.addTags(ctx, req, results, secondary)
	}
	if !secondary.empty() {
		u.log.Error().Err(secondary).Msg("Some post-import steps failed")
		return results, secondary
	}
	return results, nil
}

func (u *Uploader) importBatches(ctx context.Context, req UploadRequest) ([]ImportResult, error) {
	batches := Chunk(req.Issues, req.BatchSize)
	results := make([]ImportResult, 0, len(batches))

	for i, batch := range batches {
		body := ImportRequest{
			Metadata:              ImportMetadata{ImportSource: req.ImportSource},
			Issues:                issues.Issues(batch),
			AssigneeMissingPolicy: req.AssigneeMissing,
			StatusMissingPolicy:   req.StatusMissing,
			OnExistsPolicy:        req.OnExists,
			DryRun:                req.DryRun,
		}
		res, err := u.client.ImportIssues(ctx, req.Project, body)
		if err != nil {
			return results, fmt.Errorf("import batch %d of %d: %w", i+1, len(batches), err)
		}
		u.log.Info().Int("batch", i+1).Int("batches", len(batches)).Msg(res.Message)
		results = append(results, *res)
	}
	return results, nil
}

func (u *Uploader) addToBoard(ctx context.Context, req UploadRequest, results []ImportResult, sec *SecondaryError) {
	boardID := req.Board.Value
	if req.Board.Kind == ByName {
		boards, err := u.listAll(ctx, req.Project, u.client.ListBoards)
		if err != nil {
			u.log.Error().Err(err).Msg("failed to list boards, skipping board placement")
			sec.BoardLookup = err
			return
		}
		boardID = ""
		for _, b := range boards {
			if b.Name == req.Board.Value {
				boardID = b.ID
				break
			}
		}
		if boardID == "" {
			u.log.Error().Str("board", req.Board.Value).Msg("no board with the name provided found, skipping")
			sec.BoardNotFound = true
			return
		}
	}

	for _, res := range results {
		for _, item := range res.Touched() {
			if err := u.client.AddIssueToBoard(ctx, boardID, item.Issue.ID); err != nil {
				u.log.Error().Err(err).Str("issue", item.ExternalID).Msg("failed to add issue to board")
				sec.BoardFailures++
			}
		}
	}
}

func (u *Uploader) addTags(ctx context.Context, req UploadRequest, results []ImportResult, sec *SecondaryError) {
	tags := issues.TagsByExternalID(req.Issues)
	if len(tags) == 0 {
		return
	}

	if *req.TagMappingType == issues.MappingName {
		all, err := u.listAll(ctx, req.Project, u.client.ListHierarchicalTags)
		if err != nil {
			u.log.Error().Err(err).Msg("failed to list tags, skipping tag attachment")
			sec.TagLookup = err
			return
		}
		tags = translateTags(tags, all)
	}

	for _, res := range results {
		for _, item := range res.Touched() {
			for _, tagID := range tags[item.ExternalID] {
				if err := u.client.AddIssueTag(ctx, req.Project, item.Issue.ID, tagID); err != nil {
					u.log.Error().Err(err).Str("issue", item.ExternalID).Str("tag", tagID).Msg("failed to attach tag")
					sec.TagFailures++
				}
			}
		}
	}
}

// translateTags maps tag names to ids. Names without a tag are dropped.
func translateTags(byIssue map[string][]string, all []Record) map[string][]string {
	ids := make(map[string]string, len(all))
	for _, t := range all {
		ids[t.Name] = t.ID
	}
	out := make(map[string][]string, len(byIssue))
	for externalID, names := range byIssue {
		seen := make(map[string]struct{}, len(names))
		for _, name := range names {
			id, ok := ids[name]
			if !ok {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out[externalID] = append(out[externalID], id)
		}
	}
	return out
}

type listFunc func(ctx context.Context, project ProjectIdentifier, skip string, top int) (*Batch, error)

// listAll reads batches until an empty one.
func (u *Uploader) listAll(ctx context.Context, project ProjectIdentifier, list listFunc) ([]Record, error) {
	var all []Record
	skip := ""
	for {
		batch, err := list(ctx, project, skip, ListPageSize)
		if err != nil {
			return nil, err
		}
		if len(batch.Data) == 0 {
			return all, nil
		}
		all = append(all, batch.Data...)
		if batch.Next == "" || batch.Next == skip {
			return all, nil
		}
		skip = batch.Next
	}
}

// Totals counts issues across batch results.
type Totals struct {
	Created int
	Updated int
	Skipped int
}

// Summary adds up the per-batch results.
func Summary(results []ImportResult) Totals {
	var t Totals
	for _, r := range results {
		t.Created += len(r.Created)
		t.Updated += len(r.Updated)
		t.Skipped += len(r.Skipped)
	}
	return t
}
