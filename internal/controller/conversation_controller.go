package controller

import (
	"strings"

	"urbanmind-be/internal/dto"
	"urbanmind-be/internal/pkg/serverutils"
	"urbanmind-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	SetReasoningMethod(ctx *fiber.Ctx) error
	RecordDocuments(ctx *fiber.Ctx) error
}

type conversationController struct {
	conversationService service.IConversationService
}

func NewConversationController(conversationService service.IConversationService) IConversationController {
	return &conversationController{
		conversationService: conversationService,
	}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sessions")
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
	h.Post(":id/messages", c.SendMessage)
	h.Put(":id/reasoning-method", c.SetReasoningMethod)
	h.Post(":id/documents", c.RecordDocuments)
}

func (c *conversationController) Create(ctx *fiber.Ctx) error {
	res, err := c.conversationService.CreateSession(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.BaseResponse[*dto.SessionResponse]{
		Success: true,
		Code:    fiber.StatusCreated,
		Message: "Session created",
		Data:    res,
	})
}

func (c *conversationController) Show(ctx *fiber.Ctx) error {
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.conversationService.GetSession(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *conversationController) Delete(ctx *fiber.Ctx) error {
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.conversationService.DeleteSession(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session deleted", nil))
}

func (c *conversationController) SendMessage(ctx *fiber.Ctx) error {
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.SendMessage(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}

	// The analysis continues in the background.
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.BaseResponse[*dto.SendMessageResponse]{
		Success: true,
		Code:    fiber.StatusAccepted,
		Message: "Message accepted, analysis started",
		Data:    res,
	})
}

func (c *conversationController) SetReasoningMethod(ctx *fiber.Ctx) error {
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	var req dto.SetReasoningMethodRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.SetReasoningMethod(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Reasoning method updated", res))
}

// RecordDocuments accepts either a multipart form with one or more `files`
// parts or a JSON body with `names`. Only file names are kept.
func (c *conversationController) RecordDocuments(ctx *fiber.Ctx) error {
	id, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	var names []string
	if strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := ctx.MultipartForm()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		for _, fh := range form.File["files"] {
			names = append(names, fh.Filename)
		}
		if len(names) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "files is required")
		}
	} else {
		var req dto.RecordDocumentsRequest
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := serverutils.ValidateRequest(req); err != nil {
			return err
		}
		names = req.Names
	}

	res, err := c.conversationService.RecordDocuments(ctx.UserContext(), id, names)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Documents recorded", res))
}

func sessionIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}
	return id, nil
}
