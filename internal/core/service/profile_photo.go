package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitexperts/experts-api/internal/core/domain"
	"github.com/fitexperts/experts-api/internal/core/ports"
)

const cleanupTimeout = 10 * time.Second

// ProfilePhotoWorkflow moves a client photo into remote storage and retires
// the photo it replaces. The new object is always stored before the old one
// is touched, so a failed upload never destroys a working photo.
//
// The sequence a caller runs is:
//
//	stored, err := w.Stage(ctx, file)        // intake + upload, hard fail
//	err = persist(stored.SecureURL)          // caller's single write, hard fail
//	if err != nil { w.Abort(ctx, stored) }   // drop the unreferenced new object
//	w.Commit(ctx, previousURL, stored)       // best-effort delete of the old one
//
// Two sessions replacing the same photo concurrently are not serialized: the
// last persisted reference wins and the other upload becomes an orphan.
type ProfilePhotoWorkflow struct {
	intake  *UploadIntake
	store   ports.AssetStore
	orphans ports.OrphanRecorder
	log     zerolog.Logger
}

// NewProfilePhotoWorkflow builds the workflow. orphans may be nil.
func NewProfilePhotoWorkflow(intake *UploadIntake, store ports.AssetStore, orphans ports.OrphanRecorder, log zerolog.Logger) *ProfilePhotoWorkflow {
	return &ProfilePhotoWorkflow{intake: intake, store: store, orphans: orphans, log: log}
}

// Stage validates and uploads file. Validation errors are returned as is;
// anything the store reports is domain.ErrUploadFailed.
func (w *ProfilePhotoWorkflow) Stage(ctx context.Context, file ports.FileUpload) (*domain.StoredObject, error) {
	asset, err := w.intake.Read(file)
	if err != nil {
		return nil, err
	}

	stored, err := w.store.Upload(ctx, asset, domain.FolderProfilePhotos)
	if err != nil {
		return nil, fmt.Errorf("stage profile photo: %w", domain.ErrUploadFailed)
	}

	w.log.Info().
		Str("object_id", stored.ObjectID).
		Int64("size", asset.Size).
		Msg("profile photo uploaded")

	return stored, nil
}

// Abort deletes a staged object whose reference never got persisted.
func (w *ProfilePhotoWorkflow) Abort(ctx context.Context, stored *domain.StoredObject) {
	if stored == nil {
		return
	}
	w.discard(ctx, stored.ObjectID)
}

// Commit deletes the previous photo once the new reference is persisted.
// Nothing happens when there was no previous photo or it is the same object.
func (w *ProfilePhotoWorkflow) Commit(ctx context.Context, previousURL string, stored *domain.StoredObject) {
	if previousURL == "" || stored == nil || previousURL == stored.SecureURL {
		return
	}

	objectID, ok := w.store.ObjectIDFromURL(previousURL)
	if !ok {
		w.log.Warn().Str("url", previousURL).Msg("previous photo is not a stored object, skipping delete")
		return
	}
	if objectID == stored.ObjectID {
		return
	}
	w.discard(ctx, objectID)
}

// discard never fails the caller: a delete error only leaves an orphan behind,
// which is handed to the orphan recorder for a later sweep. Cleanup runs
// detached from the request so a client disconnect cannot skip it.
func (w *ProfilePhotoWorkflow) discard(ctx context.Context, objectID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	err := w.store.Delete(ctx, objectID)
	if err == nil {
		return
	}

	w.log.Warn().Err(err).Str("object_id", objectID).Msg("failed to delete stored object")

	if w.orphans == nil {
		return
	}
	if recErr := w.orphans.Record(ctx, objectID); recErr != nil {
		w.log.Error().Err(recErr).Str("object_id", objectID).Msg("failed to record orphaned object")
	}
}
