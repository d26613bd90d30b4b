package evidence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"certapi/internal/config"
	"certapi/internal/model"
)

var (
	// ErrInvalidExtension means the upload's extension is not in the
	// allow-list. Client-caused; maps to a 400 at the HTTP layer.
	ErrInvalidExtension = errors.New("file extension not allowed")
	// ErrFileTooLarge means the payload exceeds the configured maximum.
	ErrFileTooLarge = errors.New("file exceeds maximum size")
	// ErrAccessDenied means the requester does not own the file and is
	// not an admin.
	ErrAccessDenied = errors.New("access denied")
	// ErrNotFound means the URL does not resolve to an existing file
	// contained inside the store root. Containment violations report
	// this same error so path structure is not leaked.
	ErrNotFound = errors.New("file not found")
)

const (
	certificatesDir = "certificates"
	tempDir         = "temp_certificates"
)

// Extensions accepted for temporary recognition uploads. Permanent
// storage additionally accepts pdf.
var tempExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".gif": true,
}

var permanentExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".gif": true,
	".pdf": true,
}

// Store is a filesystem-backed, owner-partitioned evidence store rooted
// at a single upload directory. Permanent files live under
// certificates/<ownerID>/ and temporary recognition uploads under
// temp_certificates/. Every path derived from an externally supplied URL
// is canonicalized and checked for containment before use.
//
// Store has no mutable state beyond configuration read at construction
// and is safe for concurrent use; filename uniqueness relies on the
// timestamp plus random suffix scheme, not on a lock.
type Store struct {
	root         string
	publicPrefix string
	maxFileSize  int64
}

// NewStore creates the store and its namespace directories.
func NewStore(cfg config.UploadConfig) (*Store, error) {
	root, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	for _, d := range []string{certificatesDir, tempDir} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", d, err)
		}
	}
	prefix := strings.TrimSuffix(cfg.PublicPrefix, "/")
	if prefix == "" {
		prefix = "/uploads"
	}
	return &Store{
		root:         root,
		publicPrefix: prefix,
		maxFileSize:  cfg.MaxFileSize,
	}, nil
}

// SaveTemporary writes an upload destined for a recognition attempt into
// the shared temp namespace and returns its filesystem path. The file is
// owned by no principal and is expected to be deleted by the caller once
// the attempt completes, or by ReapTemporary if leaked.
func (s *Store) SaveTemporary(data []byte, originalFilename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if !tempExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrInvalidExtension, ext)
	}
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return "", fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, len(data), s.maxFileSize)
	}
	path := filepath.Join(s.root, tempDir, uuid.NewString()+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return path, nil
}

// SavePermanent stores evidence durably under the owner's namespace and
// returns its descriptor, including the public URL. The size limit is
// enforced before any write occurs.
func (s *Store) SavePermanent(ownerID int64, data []byte, originalFilename string) (*model.EvidenceFile, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if !permanentExtensions[ext] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExtension, ext)
	}
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, len(data), s.maxFileSize)
	}

	ownerDir := filepath.Join(s.root, certificatesDir, fmt.Sprintf("%d", ownerID))
	if err := os.MkdirAll(ownerDir, 0o755); err != nil {
		return nil, fmt.Errorf("create owner dir: %w", err)
	}

	filename := s.generateFilename(ownerID, ext)
	if err := os.WriteFile(filepath.Join(ownerDir, filename), data, 0o644); err != nil {
		return nil, fmt.Errorf("write evidence file: %w", err)
	}

	rel := fmt.Sprintf("%s/%d/%s", certificatesDir, ownerID, filename)
	return &model.EvidenceFile{
		OwnerID:          ownerID,
		StoredFilename:   filename,
		OriginalFilename: originalFilename,
		RelativePath:     rel,
		URL:              s.publicPrefix + "/" + rel,
		SizeBytes:        int64(len(data)),
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// generateFilename builds cert_<owner>_<timestamp>_<rand8><ext>. The
// second-resolution timestamp keeps names human-debuggable; the random
// suffix is a probabilistic uniqueness guarantee, not a cryptographic
// one.
func (s *Store) generateFilename(ownerID int64, ext string) string {
	ts := time.Now().Format("20060102_150405")
	return fmt.Sprintf("cert_%d_%s_%s%s", ownerID, ts, uuid.NewString()[:8], ext)
}

// Resolve maps a public URL to a filesystem path. It fails closed with
// ErrNotFound for anything that does not canonicalize to an existing
// regular file inside the store root, including traversal and symlink
// escapes.
func (s *Store) Resolve(url string) (string, error) {
	rel, ok := s.stripPrefix(url)
	if !ok || rel == "" {
		return "", ErrNotFound
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))

	canonical, err := filepath.EvalSymlinks(full)
	if err != nil {
		return "", ErrNotFound
	}
	canonicalRoot, err := filepath.EvalSymlinks(s.root)
	if err != nil {
		return "", ErrNotFound
	}
	inside, err := filepath.Rel(canonicalRoot, canonical)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", ErrNotFound
	}

	info, err := os.Stat(canonical)
	if err != nil || !info.Mode().IsRegular() {
		return "", ErrNotFound
	}
	return canonical, nil
}

// Authorize reports whether the requester may read or delete the given
// file. The check is a pure string-prefix test against the claimed path;
// callers must pair it with Resolve for containment.
func (s *Store) Authorize(pathOrURL string, ownerID int64, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	rel, ok := s.stripPrefix(pathOrURL)
	if !ok {
		rel = strings.TrimPrefix(pathOrURL, "/")
	}
	return strings.HasPrefix(rel, fmt.Sprintf("%s/%d/", certificatesDir, ownerID))
}

// Delete removes a stored file after an ownership check. It returns
// false without error when the file is already absent, and
// ErrAccessDenied when the requester may not touch it.
func (s *Store) Delete(url string, ownerID int64, isAdmin bool) (bool, error) {
	if !s.Authorize(url, ownerID, isAdmin) {
		return false, ErrAccessDenied
	}
	path, err := s.Resolve(url)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("remove evidence file: %w", err)
	}
	return true, nil
}

// ReapTemporary deletes every temp file older than maxAge in one sweep
// and returns the count removed. Failures on individual files do not
// abort the scan.
func (s *Store) ReapTemporary(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, tempDir))
	if err != nil {
		return 0, fmt.Errorf("scan temp dir: %w", err)
	}

	now := time.Now()
	count := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > maxAge {
			if err := os.Remove(filepath.Join(s.root, tempDir, entry.Name())); err == nil {
				count++
			}
		}
	}
	return count, nil
}

// ListForOwner enumerates the owner's stored evidence, newest first. An
// owner with no files gets an empty slice, not an error.
func (s *Store) ListForOwner(ownerID int64) ([]model.EvidenceFile, error) {
	ownerDir := filepath.Join(s.root, certificatesDir, fmt.Sprintf("%d", ownerID))
	entries, err := os.ReadDir(ownerDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.EvidenceFile{}, nil
		}
		return nil, fmt.Errorf("list owner dir: %w", err)
	}

	files := make([]model.EvidenceFile, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		rel := fmt.Sprintf("%s/%d/%s", certificatesDir, ownerID, entry.Name())
		files = append(files, model.EvidenceFile{
			OwnerID:        ownerID,
			StoredFilename: entry.Name(),
			RelativePath:   rel,
			URL:            s.publicPrefix + "/" + rel,
			SizeBytes:      info.Size(),
			CreatedAt:      info.ModTime().UTC(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].CreatedAt.After(files[j].CreatedAt)
	})
	return files, nil
}

// PublicPrefix returns the URL prefix under which stored files are
// served, without a trailing slash.
func (s *Store) PublicPrefix() string {
	return s.publicPrefix
}

// Relative maps a public URL to the store-relative slash path, e.g.
// certificates/<ownerID>/<file>. It reports false when the URL does not
// carry the public prefix. The result is a claimed path only; callers
// needing filesystem access must go through Resolve.
func (s *Store) Relative(url string) (string, bool) {
	return s.stripPrefix(url)
}

// stripPrefix removes the public URL prefix, returning the relative
// path in slash form and whether the prefix was present.
func (s *Store) stripPrefix(url string) (string, bool) {
	if !strings.HasPrefix(url, s.publicPrefix+"/") {
		return "", false
	}
	return strings.TrimPrefix(url, s.publicPrefix+"/"), true
}
