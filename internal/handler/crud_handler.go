package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"jewel-erp/internal/service"
)

// CrudService is the master-data surface served by CrudHandler.
type CrudService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, rec *T, actor service.Actor) (*T, error)
	Update(ctx context.Context, id uint, rec *T, actor service.Actor) (*T, error)
	Delete(ctx context.Context, id uint) error
}

// CrudHandler exposes list, get, create, update and delete for one
// master-data record type.
type CrudHandler[T any] struct {
	svc   CrudService[T]
	label string
}

func NewCrudHandler[T any](svc CrudService[T], label string) *CrudHandler[T] {
	return &CrudHandler[T]{svc: svc, label: label}
}

func (h *CrudHandler[T]) List(c *fiber.Ctx) error {
	list, err := h.svc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func (h *CrudHandler[T]) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	rec, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

func (h *CrudHandler[T]) Create(c *fiber.Ctx) error {
	rec := new(T)
	if err := c.BodyParser(rec); err != nil {
		return badJSON(c)
	}
	created, err := h.svc.Create(c.UserContext(), rec, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": h.label + " created successfully", "data": created})
}

func (h *CrudHandler[T]) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	rec := new(T)
	if err := c.BodyParser(rec); err != nil {
		return badJSON(c)
	}
	updated, err := h.svc.Update(c.UserContext(), id, rec, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": h.label + " updated successfully", "data": updated})
}

func (h *CrudHandler[T]) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": h.label + " deleted successfully"})
}
