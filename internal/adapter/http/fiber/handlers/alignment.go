package handlers

import (
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/pronunciation-mirror/internal/domain"
	"github.com/seu-repo/pronunciation-mirror/internal/ports"
)

// requestIDLocal is where middleware/requestid stores the id.
const requestIDLocal = "requestid"

type AlignmentHandler struct {
	service ports.AlignmentService
	log     *zap.Logger
}

func NewAlignmentHandler(service ports.AlignmentService, log *zap.Logger) *AlignmentHandler {
	return &AlignmentHandler{
		service: service,
		log:     log,
	}
}

func (h *AlignmentHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/align", h.Align)
}

// Align handles a multipart upload with fields audio (file), transcript and
// an optional language.
func (h *AlignmentHandler) Align(c *fiber.Ctx) error {
	requestID := requestIDFrom(c)

	form, err := c.MultipartForm()
	if err != nil {
		return invalidRequest(c, "multipart form body required")
	}

	files := form.File["audio"]
	if len(files) == 0 {
		return invalidRequest(c, "audio file is required")
	}
	transcript, ok := firstValue(form, "transcript")
	if !ok {
		return invalidRequest(c, "transcript is required")
	}
	language, _ := firstValue(form, "language")

	audio, err := readUpload(files[0])
	if err != nil {
		h.log.Error("Failed to read uploaded audio", zap.String("request_id", requestID), zap.Error(err))
		return invalidRequest(c, "could not read audio file")
	}

	result, err := h.service.Align(c.UserContext(), &domain.AlignmentRequest{
		RequestID:     requestID,
		AudioFilename: files[0].Filename,
		Audio:         audio,
		Transcript:    transcript,
		Language:      language,
	})
	if err != nil {
		return h.writeError(c, requestID, err)
	}

	return c.JSON(result)
}

func (h *AlignmentHandler) writeError(c *fiber.Ctx, requestID string, err error) error {
	alignErr, ok := domain.AsAlignmentError(err)
	if !ok {
		h.log.Error("Unhandled alignment error", zap.String("request_id", requestID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	switch alignErr.Kind {
	case domain.ErrorKindToolFailed:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  alignErr.Kind,
			"stderr": alignErr.Stderr,
		})
	case domain.ErrorKindUnsupportedLanguage:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    alignErr.Kind,
			"language": alignErr.Language,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": alignErr.Kind})
	}
}

// requestIDFrom returns the id assigned by the requestid middleware, or a new
// one when the route is mounted without it.
func requestIDFrom(c *fiber.Ctx) string {
	if rid, ok := c.Locals(requestIDLocal).(string); ok && rid != "" {
		return strings.Clone(rid)
	}
	rid := uuid.NewString()
	c.Set(fiber.HeaderXRequestID, rid)
	return rid
}

func invalidRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   domain.ErrorKindInvalidRequest,
		"message": message,
	})
}

func firstValue(form *multipart.Form, key string) (string, bool) {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
