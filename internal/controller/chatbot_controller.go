package controller

import (
	"errors"

	"turkgpt/internal/dto"
	"turkgpt/internal/pkg/serverutils"
	"turkgpt/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	msgSessionNotFound = "Oturum bulunamadı"
	msgSendFailed      = "Mesaj gönderilemedi"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	Root(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	ListMessages(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
}

func NewChatbotController(chatbotService service.IChatbotService) IChatbotController {
	return &chatbotController{chatbotService: chatbotService}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Root)

	h := r.Group("", serverutils.CallerIdentity())
	h.Post("/sessions", c.CreateSession)
	h.Get("/sessions", c.ListSessions)
	h.Get("/sessions/:id/messages", c.ListMessages)
	h.Delete("/sessions/:id", c.DeleteSession)
	h.Post("/chat", c.SendChat)
}

func (c *chatbotController) Root(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.LivenessResponse{Message: "TürkGPT API"})
}

func (c *chatbotController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.CreateSession(ctx.UserContext(), serverutils.CallerID(ctx), &req)
	if err != nil {
		return toHTTPError("Oturum oluşturulamadı", err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *chatbotController) ListSessions(ctx *fiber.Ctx) error {
	res, err := c.chatbotService.ListSessions(ctx.UserContext(), serverutils.CallerID(ctx))
	if err != nil {
		return toHTTPError("Oturumlar alınamadı", err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all sessions", res))
}

func (c *chatbotController) ListMessages(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		// ids that cannot exist have no messages
		return ctx.JSON(serverutils.SuccessResponse("Success get messages", []*dto.MessageResponse{}))
	}

	res, err := c.chatbotService.ListMessages(ctx.UserContext(), serverutils.CallerID(ctx), sessionId)
	if err != nil {
		return toHTTPError("Mesajlar alınamadı", err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}

func (c *chatbotController) SendChat(ctx *fiber.Ctx) error {
	var body dto.SendChatBody
	if err := ctx.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(body); err != nil {
		return err
	}

	sessionId, err := uuid.Parse(body.SessionId)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, msgSessionNotFound)
	}

	req := dto.SendChatRequest{SessionId: sessionId, Content: body.Content}
	res, err := c.chatbotService.SendChat(ctx.UserContext(), serverutils.CallerID(ctx), &req)
	if err != nil {
		return toHTTPError(msgSendFailed, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatbotController) DeleteSession(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, msgSessionNotFound)
	}

	if err := c.chatbotService.DeleteSession(ctx.UserContext(), serverutils.CallerID(ctx), sessionId); err != nil {
		return toHTTPError("Oturum silinemedi", err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete session", dto.DeleteSessionResponse{
		Message: "Oturum silindi",
	}))
}

// toHTTPError maps service errors onto status codes. Upstream and storage
// failures keep the underlying message.
func toHTTPError(prefix string, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, msgSessionNotFound)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, prefix+": "+err.Error())
	}
}
