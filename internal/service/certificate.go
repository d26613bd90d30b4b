package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"certapi/internal/evidence"
	"certapi/internal/model"
	"certapi/internal/storage"
)

// ErrArchiveDisabled means the operation requires the object-storage
// archive and none is configured.
var ErrArchiveDisabled = errors.New("evidence archive is not configured")

// Recognizer is the outbound recognition pipeline consumed by the
// certificate service. Implemented by recognition.Client.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) *model.RecognitionEnvelope
	RecognizeBatch(ctx context.Context, imagePaths []string) []*model.RecognitionEnvelope
}

// maxBatchSize bounds one batch-recognition request.
const maxBatchSize = 10

// RecognitionUpload is one file of a batch recognition request.
type RecognitionUpload struct {
	Filename string
	Data     []byte
}

// SubmitInput carries everything needed to turn an upload plus its
// extracted fields into a pending achievement.
type SubmitInput struct {
	OwnerID             int64
	Data                []byte
	OriginalFilename    string
	ContentType         string
	Title               string
	Category            string
	AwardLevel          string
	IssuingOrganization string
	IssueDate           string
	// Content is the extracted certificate record serialized as JSON,
	// kept verbatim on the achievement for audit.
	Content string
}

// CertificateService orchestrates the recognition pipeline and the
// hand-off from stored evidence to the achievement audit record.
type CertificateService interface {
	// Recognize saves the upload to the temp namespace, runs the
	// external recognition pipeline and cleans the temp file up. The
	// returned error covers client-caused storage rejections (bad
	// extension, oversize); every pipeline outcome lands in the envelope.
	Recognize(ctx context.Context, data []byte, originalFilename string) (*model.RecognitionEnvelope, error)

	// RecognizeBatch processes up to maxBatchSize uploads, yielding one
	// item per input in input order. Per-item failures, including
	// storage rejections, never abort the batch.
	RecognizeBatch(ctx context.Context, uploads []RecognitionUpload) ([]model.BatchRecognitionItem, error)

	// Submit durably stores the evidence under the owner's namespace,
	// mirrors it to the archive when one is configured, and creates the
	// pending achievement referencing it.
	Submit(ctx context.Context, in SubmitInput) (*model.Achievement, error)

	// DeleteEvidence removes a stored file and, when an archive is
	// configured, its mirror. It reports false for an already absent
	// file and evidence.ErrAccessDenied for a foreign non-admin caller.
	DeleteEvidence(ctx context.Context, url string, ownerID int64, isAdmin bool) (bool, error)

	// ArchiveFetch streams the archived copy of a stored file. The
	// caller owns the returned reader.
	ArchiveFetch(ctx context.Context, url string) (io.ReadCloser, storage.ObjectInfo, error)

	// ArchiveLink returns a pre-signed download URL for the archived
	// copy of a stored file.
	ArchiveLink(ctx context.Context, url string, expiry time.Duration) (string, error)
}

type certificateService struct {
	store        *evidence.Store
	recognizer   Recognizer
	achievements AchievementService
	// archive is optional; nil disables mirroring.
	archive storage.Storage
}

// NewCertificateService constructs a new CertificateService. archive
// may be nil when no object storage is configured.
func NewCertificateService(store *evidence.Store, recognizer Recognizer, achievements AchievementService, archive storage.Storage) CertificateService {
	return &certificateService{
		store:        store,
		recognizer:   recognizer,
		achievements: achievements,
		archive:      archive,
	}
}

func (s *certificateService) Recognize(ctx context.Context, data []byte, originalFilename string) (*model.RecognitionEnvelope, error) {
	tempPath, err := s.store.SaveTemporary(data, originalFilename)
	if err != nil {
		return nil, err
	}
	defer func() {
		// Best effort; leaked files are swept by the temp reaper.
		_ = os.Remove(tempPath)
	}()

	return s.recognizer.Recognize(ctx, tempPath), nil
}

func (s *certificateService) RecognizeBatch(ctx context.Context, uploads []RecognitionUpload) ([]model.BatchRecognitionItem, error) {
	if len(uploads) > maxBatchSize {
		return nil, fmt.Errorf("batch size exceeds maximum of %d files", maxBatchSize)
	}

	items := make([]model.BatchRecognitionItem, len(uploads))
	paths := make([]string, 0, len(uploads))
	// Index into items for each successfully saved temp file.
	saved := make([]int, 0, len(uploads))

	for i, up := range uploads {
		items[i].Filename = up.Filename
		tempPath, err := s.store.SaveTemporary(up.Data, up.Filename)
		if err != nil {
			items[i].Success = false
			items[i].Error = err.Error()
			continue
		}
		paths = append(paths, tempPath)
		saved = append(saved, i)
	}

	defer func() {
		for _, p := range paths {
			_ = os.Remove(p)
		}
	}()

	for k, env := range s.recognizer.RecognizeBatch(ctx, paths) {
		items[saved[k]].RecognitionEnvelope = *env
	}
	return items, nil
}

func (s *certificateService) Submit(ctx context.Context, in SubmitInput) (*model.Achievement, error) {
	ef, err := s.store.SavePermanent(in.OwnerID, in.Data, in.OriginalFilename)
	if err != nil {
		return nil, err
	}

	if s.archive != nil {
		// The local store stays the source of truth; archive mirroring
		// is best effort and never fails the submission.
		_, aerr := s.archive.Put(ctx, ef.RelativePath, bytes.NewReader(in.Data), storage.PutObjectOptions{
			Size:        ef.SizeBytes,
			ContentType: in.ContentType,
			Metadata:    map[string]string{"original-filename": in.OriginalFilename},
		})
		if aerr != nil {
			logEvent(map[string]any{
				"component": "certificate_service",
				"event":     "archive_mirror_failed",
				"level":     "error",
				"key":       ef.RelativePath,
				"error":     aerr.Error(),
			})
		}
	}

	a := &model.Achievement{
		OwnerID:             in.OwnerID,
		Title:               in.Title,
		Category:            in.Category,
		AwardLevel:          in.AwardLevel,
		IssuingOrganization: in.IssuingOrganization,
		IssueDate:           in.IssueDate,
		EvidenceURL:         ef.URL,
		Content:             in.Content,
	}
	stored, err := s.achievements.Create(ctx, a)
	if err != nil {
		// Rollback: remove the stored evidence file and its archive
		// mirror so no orphan remains on either side.
		s.deleteArchiveMirror(ctx, ef.RelativePath)
		if _, delErr := s.store.Delete(ef.URL, in.OwnerID, true); delErr != nil {
			return nil, fmt.Errorf("achievement create failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("achievement create failed: %w", err)
	}
	return stored, nil
}

func (s *certificateService) DeleteEvidence(ctx context.Context, url string, ownerID int64, isAdmin bool) (bool, error) {
	removed, err := s.store.Delete(url, ownerID, isAdmin)
	if err != nil || !removed {
		return removed, err
	}
	if rel, ok := s.store.Relative(url); ok {
		s.deleteArchiveMirror(ctx, rel)
	}
	return true, nil
}

func (s *certificateService) ArchiveFetch(ctx context.Context, url string) (io.ReadCloser, storage.ObjectInfo, error) {
	key, err := s.archiveKey(url)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	return s.archive.Get(ctx, key)
}

func (s *certificateService) ArchiveLink(ctx context.Context, url string, expiry time.Duration) (string, error) {
	key, err := s.archiveKey(url)
	if err != nil {
		return "", err
	}
	return s.archive.PresignGet(ctx, key, expiry)
}

// archiveKey validates that the archive is configured and that the URL
// maps into the store namespace, returning the object key.
func (s *certificateService) archiveKey(url string) (string, error) {
	if s.archive == nil {
		return "", ErrArchiveDisabled
	}
	rel, ok := s.store.Relative(url)
	if !ok {
		return "", evidence.ErrNotFound
	}
	return rel, nil
}

// deleteArchiveMirror removes the archived copy, if any. The archive is
// a mirror, so a failed delete is logged and not propagated.
func (s *certificateService) deleteArchiveMirror(ctx context.Context, key string) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Delete(ctx, key); err != nil {
		logEvent(map[string]any{
			"component": "certificate_service",
			"event":     "archive_delete_failed",
			"level":     "error",
			"key":       key,
			"error":     err.Error(),
		})
	}
}

// eventOut is the sink for service-level structured events. Swapped in
// tests.
var eventOut io.Writer = os.Stdout

// logEvent writes one JSON object per line, matching the structured
// logging used across the service.
func logEvent(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		data["level"] = "info"
	}
	_ = json.NewEncoder(eventOut).Encode(data)
}
