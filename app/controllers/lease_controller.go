package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/DanielKramer/PropNest/app/models"
	"github.com/DanielKramer/PropNest/app/repository"
)

// LeaseRequest is the payload for creating or updating a lease.
type LeaseRequest struct {
	UnitLabel  string     `json:"unit_label"`
	TenantName string     `json:"tenant_name"`
	RentAmount float64    `json:"rent_amount"`
	StartsAt   time.Time  `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at"`
	Status     string     `json:"status"`
}

func resolveCustomer(c *fiber.Ctx) (*models.Customer, error) {
	return repository.GetGlobalRepositories().Customer.GetByUUID(c.Params("uuid"))
}

// HandleCreateLease creates a lease for a customer.
func HandleCreateLease(c *fiber.Ctx) error {
	customer, err := resolveCustomer(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Customer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load customer"})
	}

	var req LeaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	lease := &models.Lease{
		CustomerID: customer.ID,
		UnitLabel:  req.UnitLabel,
		TenantName: req.TenantName,
		RentAmount: req.RentAmount,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		Status:     req.Status,
	}
	if lease.Status == "" {
		lease.Status = models.LeaseStatusDraft
	}
	if err := lease.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	if err := repository.GetGlobalRepositories().Lease.Create(lease); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create lease"})
	}

	return c.Status(fiber.StatusCreated).JSON(lease)
}

// HandleListLeases lists a customer's leases with pagination.
func HandleListLeases(c *fiber.Ctx) error {
	customer, err := resolveCustomer(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Customer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load customer"})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 25)
	if limit < 1 || limit > 100 {
		limit = 25
	}

	repos := repository.GetGlobalRepositories()
	leases, err := repos.Lease.ListByCustomer(customer.ID, (page-1)*limit, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load leases"})
	}
	total, err := repos.Lease.CountByCustomer(customer.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count leases"})
	}

	return c.JSON(fiber.Map{"leases": leases, "total": total, "page": page, "limit": limit})
}

// HandleGetLease returns one lease by its public id.
func HandleGetLease(c *fiber.Ctx) error {
	lease, err := repository.GetGlobalRepositories().Lease.GetByUUID(c.Params("leaseUuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Lease not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load lease"})
	}

	return c.JSON(lease)
}

// HandleUpdateLease updates an existing lease.
func HandleUpdateLease(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	lease, err := repos.Lease.GetByUUID(c.Params("leaseUuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Lease not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load lease"})
	}

	var req LeaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	if req.UnitLabel != "" {
		lease.UnitLabel = req.UnitLabel
	}
	if req.TenantName != "" {
		lease.TenantName = req.TenantName
	}
	if req.RentAmount > 0 {
		lease.RentAmount = req.RentAmount
	}
	if !req.StartsAt.IsZero() {
		lease.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		lease.EndsAt = req.EndsAt
	}
	if req.Status != "" {
		lease.Status = req.Status
	}
	if err := lease.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	if err := repos.Lease.Update(lease); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update lease"})
	}

	return c.JSON(lease)
}

// HandleDeleteLease removes a lease.
func HandleDeleteLease(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	lease, err := repos.Lease.GetByUUID(c.Params("leaseUuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Lease not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load lease"})
	}

	if err := repos.Lease.Delete(lease.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete lease"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
