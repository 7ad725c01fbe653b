package controller

import (
	"io"

	"insurance-assistant-be/internal/pkg/serverutils"
	"insurance-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	UploadPolicy(ctx *fiber.Ctx) error
	UploadCorpus(ctx *fiber.Ctx) error
	StartIngestion(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("policy", c.UploadPolicy)
	h.Post("corpus", c.UploadCorpus)
	h.Post("ingestion", c.StartIngestion)
}

func (c *documentController) UploadPolicy(ctx *fiber.Ctx) error {
	identity := ctx.Locals("user_id").(string)

	data, err := readUpload(ctx)
	if err != nil {
		return err
	}

	res, err := c.documentService.UploadPolicy(ctx.Context(), identity, data)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload policy document", res))
}

func (c *documentController) UploadCorpus(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing file upload")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	res, err := c.documentService.UploadCorpus(ctx.Context(), fileHeader.Filename, data, contentType)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload corpus document", res))
}

func (c *documentController) StartIngestion(ctx *fiber.Ctx) error {
	res, err := c.documentService.StartIngestion(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start ingestion", res))
}

// readUpload accepts either a multipart "file" field or a raw text
// body, so policy documents can be pushed from scripts without
// multipart framing.
func readUpload(ctx *fiber.Ctx) ([]byte, error) {
	if fileHeader, err := ctx.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	body := ctx.Body()
	if len(body) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Empty upload")
	}
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}
