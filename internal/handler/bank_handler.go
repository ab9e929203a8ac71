package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"jewel-erp/internal/apperr"
	"jewel-erp/internal/model"
	"jewel-erp/internal/service"
)

type BankHandler struct {
	bankService *service.BankService
}

func NewBankHandler(bankService *service.BankService) *BankHandler {
	return &BankHandler{bankService: bankService}
}

// readBankForm parses a multipart request carrying a "details" JSON field
// and an optional "qrCode" file. Plain JSON bodies are accepted too.
func readBankForm(c *fiber.Ctx) (*model.BankDetails, *service.Upload, error) {
	rec := new(model.BankDetails)
	if c.Is("json") {
		if err := c.BodyParser(rec); err != nil {
			return nil, nil, apperr.InvalidArgument("Invalid JSON")
		}
		return rec, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, apperr.InvalidArgument("invalid multipart form")
	}

	details := form.Value["details"]
	if len(details) == 0 {
		return nil, nil, apperr.InvalidArgument("details field is required")
	}
	if err := json.Unmarshal([]byte(details[0]), rec); err != nil {
		return nil, nil, apperr.InvalidArgument("details is not valid JSON")
	}

	files := form.File["qrCode"]
	if len(files) == 0 {
		return rec, nil, nil
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return nil, nil, apperr.Processing(err, "failed to read QR code")
	}
	return rec, &service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Reader:      f,
	}, nil
}

func closeUpload(up *service.Upload) {
	if up == nil {
		return
	}
	if closer, ok := up.Reader.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

// GET /api/v1/bank-details
func (h *BankHandler) List(c *fiber.Ctx) error {
	list, err := h.bankService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// POST /api/v1/bank-details
func (h *BankHandler) Create(c *fiber.Ctx) error {
	rec, qr, err := readBankForm(c)
	if err != nil {
		return respondError(c, err)
	}
	defer closeUpload(qr)

	created, err := h.bankService.Create(c.UserContext(), rec, qr, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Bank details created successfully", "data": created})
}

// PUT /api/v1/bank-details/:id
func (h *BankHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	rec, qr, err := readBankForm(c)
	if err != nil {
		return respondError(c, err)
	}
	defer closeUpload(qr)

	updated, err := h.bankService.Update(c.UserContext(), id, rec, qr, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Bank details updated successfully", "data": updated})
}

// DELETE /api/v1/bank-details/:id
func (h *BankHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.bankService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Bank details deleted successfully"})
}
