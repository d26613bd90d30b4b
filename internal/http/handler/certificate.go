package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"certapi/internal/evidence"
	"certapi/internal/http/middleware"
	"certapi/internal/service"
)

// maxBatchFiles mirrors the service-side batch limit so oversized
// requests are rejected before any file is read.
const maxBatchFiles = 10

// readFormFile loads one multipart file fully into memory. Uploads are
// capped by the store's size limit, so buffering is fine here.
func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// storageError translates evidence-store rejections into client errors.
// Returns false when the error is not a storage rejection.
func storageError(c *fiber.Ctx, err error) (error, bool) {
	switch {
	case errors.Is(err, evidence.ErrInvalidExtension):
		return writeError(c, fiber.StatusBadRequest, "INVALID_FILE_TYPE", "file type is not allowed"), true
	case errors.Is(err, evidence.ErrFileTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds the size limit"), true
	}
	return nil, false
}

// RecognizeCertificate accepts one image (multipart field "file"), runs
// the recognition pipeline and returns the outcome envelope. Pipeline
// failures are part of the envelope, not HTTP errors.
func RecognizeCertificate(svc service.CertificateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		data, err := readFormFile(fh)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}

		env, err := svc.Recognize(c.UserContext(), data, fh.Filename)
		if err != nil {
			if resp, ok := storageError(c, err); ok {
				return resp
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(env)
	}
}

// BatchRecognizeCertificates accepts up to maxBatchFiles images
// (multipart field "files") and returns one result per input, in input
// order.
func BatchRecognizeCertificates(svc service.CertificateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "at least one file is required")
		}
		files := form.File["files"]
		if len(files) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "at least one file is required")
		}
		if len(files) > maxBatchFiles {
			return writeError(c, fiber.StatusBadRequest, "BATCH_TOO_LARGE", "at most 10 files per batch")
		}

		uploads := make([]service.RecognitionUpload, 0, len(files))
		for _, fh := range files {
			data, err := readFormFile(fh)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			uploads = append(uploads, service.RecognitionUpload{Filename: fh.Filename, Data: data})
		}

		items, err := svc.RecognizeBatch(c.UserContext(), uploads)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"results": items})
	}
}

// SubmitAchievement stores the uploaded evidence under the caller's
// namespace and creates the pending achievement referencing it. Form
// fields besides "file": title, category, award_level,
// issuing_organization, issue_date, content.
func SubmitAchievement(svc service.CertificateService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		title := strings.TrimSpace(c.FormValue("title"))
		if title == "" {
			return writeError(c, fiber.StatusBadRequest, "TITLE_REQUIRED", "title is required")
		}

		data, err := readFormFile(fh)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		a, err := svc.Submit(c.UserContext(), service.SubmitInput{
			OwnerID:             middleware.OwnerID(c),
			Data:                data,
			OriginalFilename:    fh.Filename,
			ContentType:         ct,
			Title:               title,
			Category:            c.FormValue("category"),
			AwardLevel:          c.FormValue("award_level"),
			IssuingOrganization: c.FormValue("issuing_organization"),
			IssueDate:           c.FormValue("issue_date"),
			Content:             c.FormValue("content"),
		})
		if err != nil {
			if resp, ok := storageError(c, err); ok {
				return resp
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}
