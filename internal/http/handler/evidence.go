package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"certapi/internal/evidence"
	"certapi/internal/http/middleware"
	"certapi/internal/service"
)

// ServeEvidence resolves an /uploads/... URL to a stored file and
// streams it. The ownership check runs first, on the claimed path alone,
// so a foreign caller cannot distinguish existing files from absent
// ones; containment failures and missing files both read as not found.
func ServeEvidence(store *evidence.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		url := c.Path()

		if !store.Authorize(url, middleware.OwnerID(c), middleware.IsAdmin(c)) {
			return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "access denied")
		}
		abs, err := store.Resolve(url)
		if err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
		}
		return c.SendFile(abs)
	}
}

// ListEvidence returns the caller's stored evidence files, newest first.
func ListEvidence(store *evidence.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		files, err := store.ListForOwner(middleware.OwnerID(c))
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"data": files, "total": len(files)})
	}
}

// DeleteEvidence removes one stored file identified by its public URL
// (query parameter "url"), along with its archive mirror when one is
// configured.
func DeleteEvidence(svc service.CertificateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		url := c.Query("url")
		if url == "" {
			return writeError(c, fiber.StatusBadRequest, "URL_REQUIRED", "url is required")
		}

		removed, err := svc.DeleteEvidence(c.UserContext(), url, middleware.OwnerID(c), middleware.IsAdmin(c))
		if err != nil {
			if errors.Is(err, evidence.ErrAccessDenied) {
				return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "access denied")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		if !removed {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// FetchArchivedEvidence streams the archived copy of a stored file
// (query parameter "url"). Admin only; used to recover evidence whose
// local copy was lost.
func FetchArchivedEvidence(svc service.CertificateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		url := c.Query("url")
		if url == "" {
			return writeError(c, fiber.StatusBadRequest, "URL_REQUIRED", "url is required")
		}

		rc, info, err := svc.ArchiveFetch(c.UserContext(), url)
		if err != nil {
			return archiveError(c, err)
		}
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		if info.Size > 0 {
			return c.SendStream(rc, int(info.Size))
		}
		return c.SendStream(rc)
	}
}

// ArchivedEvidenceLink returns a pre-signed download URL for the
// archived copy of a stored file. Admin only.
func ArchivedEvidenceLink(svc service.CertificateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		url := c.Query("url")
		if url == "" {
			return writeError(c, fiber.StatusBadRequest, "URL_REQUIRED", "url is required")
		}
		minutes, err := strconv.Atoi(c.Query("expiry_minutes", "15"))
		if err != nil || minutes <= 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_EXPIRY", "invalid expiry_minutes")
		}

		link, err := svc.ArchiveLink(c.UserContext(), url, time.Duration(minutes)*time.Minute)
		if err != nil {
			return archiveError(c, err)
		}
		return c.JSON(fiber.Map{"url": link})
	}
}

// archiveError maps archive lookup failures. Backend errors read as not
// found: a missing object is the common case and object keys are not
// leaked either way.
func archiveError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrArchiveDisabled):
		return writeError(c, fiber.StatusServiceUnavailable, "ARCHIVE_DISABLED", "evidence archive is not configured")
	case errors.Is(err, evidence.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
	}
	return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "archived file not found")
}

// ReapEvidence sweeps temporary files older than max_age_hours
// (default 24). Admin only; invoked by an external scheduler.
func ReapEvidence(store *evidence.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hours, err := strconv.Atoi(c.Query("max_age_hours", "24"))
		if err != nil || hours < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_MAX_AGE", "invalid max_age_hours")
		}

		removed, err := store.ReapTemporary(time.Duration(hours) * time.Hour)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"removed": removed})
	}
}
