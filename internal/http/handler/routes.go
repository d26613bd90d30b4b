package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"certapi/internal/evidence"
	"certapi/internal/http/middleware"
	"certapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; business rules live in the services.
func RegisterRoutes(app *fiber.App, db *sql.DB, store *evidence.Store, certSvc service.CertificateService, achSvc service.AchievementService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Evidence downloads carry the owner partition in the path; the
	// store authorizes against the caller identity. The prefix follows
	// the store's configured public prefix.
	app.Get(store.PublicPrefix()+"/*", middleware.Principal(), ServeEvidence(store))

	api := app.Group("/api", middleware.Principal())

	api.Post("/certificates/recognize", RecognizeCertificate(certSvc))
	api.Post("/certificates/batch-recognize", BatchRecognizeCertificates(certSvc))

	api.Post("/achievements", SubmitAchievement(certSvc))
	api.Get("/achievements", ListAchievements(achSvc))
	api.Get("/achievements/:id", GetAchievement(achSvc))
	api.Post("/achievements/:id/approve", middleware.RequireAdmin(), ApproveAchievement(achSvc))
	api.Post("/achievements/:id/reject", middleware.RequireAdmin(), RejectAchievement(achSvc))

	api.Get("/evidence", ListEvidence(store))
	api.Delete("/evidence", DeleteEvidence(certSvc))
	api.Get("/admin/evidence/archive", middleware.RequireAdmin(), FetchArchivedEvidence(certSvc))
	api.Get("/admin/evidence/archive-link", middleware.RequireAdmin(), ArchivedEvidenceLink(certSvc))
	api.Post("/admin/evidence/reap", middleware.RequireAdmin(), ReapEvidence(store))
}
