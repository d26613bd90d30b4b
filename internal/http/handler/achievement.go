package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"certapi/internal/http/middleware"
	"certapi/internal/model"
	"certapi/internal/service"
)

// ListAchievements returns the caller's achievements. Admins see all
// achievements across owners with limit/offset pagination.
func ListAchievements(svc service.AchievementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !middleware.IsAdmin(c) {
			items, err := svc.ListForOwner(c.UserContext(), middleware.OwnerID(c))
			if err != nil {
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
			return c.JSON(fiber.Map{"data": items, "total": len(items)})
		}

		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetAchievement returns one achievement by ID. Non-admin callers only
// see their own records; anything else reads as not found.
func GetAchievement(svc service.AchievementService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		a, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "achievement not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		if !middleware.IsAdmin(c) && a.OwnerID != middleware.OwnerID(c) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "achievement not found")
		}
		return c.JSON(a)
	}
}

type reviewRequest struct {
	Comment string `json:"comment"`
}

func reviewAchievement(review func(ctx *fiber.Ctx, id, comment string) (*model.Achievement, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req reviewRequest
		// The comment body is optional.
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
			}
		}

		a, err := review(c, id, req.Comment)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "achievement not found")
			case errors.Is(err, service.ErrInvalidTransition):
				return writeError(c, fiber.StatusConflict, "ALREADY_REVIEWED", "achievement has already been reviewed")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(a)
	}
}

// ApproveAchievement moves a pending achievement to approved.
func ApproveAchievement(svc service.AchievementService) fiber.Handler {
	return reviewAchievement(func(c *fiber.Ctx, id, comment string) (*model.Achievement, error) {
		return svc.Approve(c.UserContext(), id, comment)
	})
}

// RejectAchievement moves a pending achievement to rejected.
func RejectAchievement(svc service.AchievementService) fiber.Handler {
	return reviewAchievement(func(c *fiber.Ctx, id, comment string) (*model.Achievement, error) {
		return svc.Reject(c.UserContext(), id, comment)
	})
}
