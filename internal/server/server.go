// Package server exposes statement imports over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"k8s.io/klog"

	"github.com/bcaldwell/statementimporter/internal/statementimporter"
	"github.com/bcaldwell/statementimporter/pkg/extractor"
	"github.com/bcaldwell/statementimporter/pkg/feeder"
)

// Importer imports one statement file.
type Importer interface {
	Import(ctx context.Context, bank string, file extractor.File) (feeder.Result, error)
	Banks() []string
}

// ImportResponse is the JSON response of POST /api/import.
type ImportResponse struct {
	Bank     string `json:"bank"`
	File     string `json:"file"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
}

type Server struct {
	app         *fiber.App
	importer    Importer
	defaultBank string
	// only one import runs at a time
	importing atomic.Bool
}

func New(importer Importer, defaultBank string, bodyLimitMB int) *Server {
	if bodyLimitMB <= 0 {
		bodyLimitMB = 4
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			BodyLimit:             bodyLimitMB * 1024 * 1024,
			DisableStartupMessage: true,
		}),
		importer:    importer,
		defaultBank: defaultBank,
	}

	s.app.Get("/api/health", s.handleHealth)
	s.app.Get("/api/banks", s.handleBanks)
	s.app.Post("/api/import", s.handleImport)

	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	klog.Infof("Listening on %s", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleBanks(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"banks": s.importer.Banks()})
}

func (s *Server) handleImport(c *fiber.Ctx) error {
	if !s.importing.CompareAndSwap(false, true) {
		return writeError(c, fiber.StatusConflict, "an import is already running")
	}
	defer s.importing.Store(false)

	header, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "no file uploaded, use form field 'file'")
	}

	bank := c.FormValue("bank", s.defaultBank)

	f, err := header.Open()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "failed to open uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "failed to read uploaded file")
	}

	file := extractor.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}

	// the import outlives the request, a client disconnect must not abort a feed halfway
	result, err := s.importer.Import(context.Background(), bank, file)
	if err != nil {
		return writeError(c, statusFor(err), err.Error())
	}

	return c.JSON(ImportResponse{
		Bank:     bank,
		File:     file.Name,
		Inserted: result.Inserted,
		Skipped:  result.Skipped,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, statementimporter.ErrUnknownBank):
		return fiber.StatusBadRequest
	case errors.Is(err, extractor.ErrSheetNotFound):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
