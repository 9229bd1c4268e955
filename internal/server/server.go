// Package server exposes the boundary HTTP surface of the reminder engine:
// a health check, the synchronous manual pass trigger, and a couple of
// development-only maintenance routes. It carries no task CRUD and no auth.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"task-manager/internal/repository"
	"task-manager/internal/service"
)

type Server struct {
	app     *fiber.App
	engine  *service.Engine
	repair  *service.RepairService
	users   *repository.UserRepository
	tasks   *repository.TaskRepository
	devMode bool
}

func New(engine *service.Engine, repair *service.RepairService, users *repository.UserRepository, tasks *repository.TaskRepository, devMode bool) *Server {
	s := &Server{
		app:     fiber.New(fiber.Config{DisableStartupMessage: true}),
		engine:  engine,
		repair:  repair,
		users:   users,
		tasks:   tasks,
		devMode: devMode,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/", s.health)

	api := s.app.Group("/api")
	api.Post("/reminders/trigger", s.triggerPass)

	// Dev/test routes stay off production deployments.
	if s.devMode {
		dev := api.Group("/dev")
		dev.Post("/fix-tasks", s.fixTasks)
		dev.Post("/seed-reminder", s.seedReminder)
	}
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.SendString("Server is running successfully!")
}

// triggerPass runs one reminder pass synchronously and reports its
// outcome. It respects the engine's single-flight guard: if a scheduled
// pass is mid-flight the trigger reports skippedAlreadyRunning instead of
// blocking.
func (s *Server) triggerPass(c *fiber.Ctx) error {
	report := s.engine.RunPass(c.UserContext(), time.Now())
	status := fiber.StatusOK
	if report.SkippedAlreadyRunning {
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(report)
}

func (s *Server) fixTasks(c *fiber.Ctx) error {
	report, err := s.repair.Run(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "repair sweep failed",
			"error":   err.Error(),
		})
	}
	return c.JSON(report)
}

func (s *Server) seedReminder(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Timezone string `json:"timezone"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "email is required",
		})
	}

	task, err := service.SeedTestReminder(c.UserContext(), s.users, s.tasks, req.Email, req.Timezone)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "seed failed",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}
