package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"

	"insurance-assistant-be/internal/constant"
	"insurance-assistant-be/internal/dto"
	"insurance-assistant-be/internal/pkg/serverutils"
	"insurance-assistant-be/internal/service"
	"insurance-assistant-be/pkg/generation"
	"insurance-assistant-be/pkg/retrieval"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Escalate(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
}

func NewAssistantController(assistantService service.IAssistantService) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("session", c.CreateSession)
	h.Get("session", c.GetSession)
	h.Get("session/:id/history", c.GetChatHistory)
	h.Post("ask", c.Ask)
	h.Delete("session/:id", c.DeleteSession)
	h.Post("logout", c.Logout)
	h.Post("escalate", c.Escalate)
}

func (c *assistantController) CreateSession(ctx *fiber.Ctx) error {
	identity := ctx.Locals("user_id").(string)

	res, err := c.assistantService.CreateSession(ctx.Context(), identity)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *assistantController) GetSession(ctx *fiber.Ctx) error {
	identity := ctx.Locals("user_id").(string)

	res, err := c.assistantService.GetSession(ctx.Context(), identity)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *assistantController) GetChatHistory(ctx *fiber.Ctx) error {
	identity := ctx.Locals("user_id").(string)
	sessionKey := ctx.Params("id")

	res, err := c.assistantService.GetChatHistory(ctx.Context(), identity, sessionKey)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show chat history", res))
}

// Ask streams the answer over server-sent events: "delta" frames carry
// the running answer text, one "done" frame carries the final answer
// with citations, and failures surface as a single "error" frame.
func (c *assistantController) Ask(ctx *fiber.Ctx) error {
	identity := ctx.Locals("user_id").(string)

	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")

	// The fiber context is recycled once the handler returns; the
	// stream writer runs after that, so it gets its own context. A
	// failed write means the client went away, which cancels the
	// in-flight turn and releases the generation connection.
	streamCtx, cancel := context.WithCancel(context.Background())

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		writeEvent := func(ev dto.AskStreamEvent) bool {
			payload, err := json.Marshal(ev)
			if err != nil {
				return false
			}
			if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
				cancel()
				return false
			}
			if err := w.Flush(); err != nil {
				cancel()
				return false
			}
			return true
		}

		res, err := c.assistantService.Ask(streamCtx, identity, req.Question, func(partial string) {
			writeEvent(dto.AskStreamEvent{Type: "delta", Text: partial})
		})
		if err != nil {
			message := "Something went wrong. Please try again."
			switch {
			case errors.Is(err, retrieval.ErrRetrievalFailed):
				message = constant.RetrievalFailedMessage
			case errors.Is(err, generation.ErrGenerationFailed):
				message = constant.GenerationFailedMessage
			}
			writeEvent(dto.AskStreamEvent{Type: "error", Message: message})
			return
		}

		writeEvent(dto.AskStreamEvent{
			Type:      "done",
			Answer:    res.Answer,
			Citations: res.Citations,
		})
	}))

	return nil
}

func (c *assistantController) DeleteSession(ctx *fiber.Ctx) error {
	identity := ctx.Locals("user_id").(string)
	sessionKey := ctx.Params("id")

	if err := c.assistantService.DeleteSession(ctx.Context(), identity, sessionKey); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *assistantController) Logout(ctx *fiber.Ctx) error {
	identity := ctx.Locals("user_id").(string)

	if err := c.assistantService.Logout(ctx.Context(), identity); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success logout", nil))
}

func (c *assistantController) Escalate(ctx *fiber.Ctx) error {
	identity := ctx.Locals("user_id").(string)

	var req dto.EscalateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.Escalate(ctx.Context(), identity, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success escalate to support", res))
}
