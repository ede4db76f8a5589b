package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/DanielKramer/PropNest/app/models"
	"github.com/DanielKramer/PropNest/app/repository"
	"github.com/DanielKramer/PropNest/internal/pkg/database"
	"github.com/DanielKramer/PropNest/internal/pkg/subscription"
)

var lifecycleService *subscription.Service

// InitializeAccountController wires the lifecycle service used by the
// account endpoints.
func InitializeAccountController() {
	lifecycleService = subscription.NewServiceFromDB(database.GetDB())
}

// getLifecycleService allows late initialization in tests and tooling.
func getLifecycleService() *subscription.Service {
	if lifecycleService == nil {
		InitializeAccountController()
	}
	return lifecycleService
}

// HandleReactivateAccount is the self-service trigger for a suspended
// customer. Requires a payment method on file.
func HandleReactivateAccount(c *fiber.Ctx) error {
	customerUUID := c.Params("uuid")

	err := getLifecycleService().ReactivateAccount(customerUUID)
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Customer not found"})
		case errors.Is(err, subscription.ErrInvalidState):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "invalid_state", "message": "Account is not suspended"})
		case errors.Is(err, subscription.ErrNoPaymentMethod):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "no_payment_method", "message": "Please add a payment method first"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Reactivation failed"})
		}
	}

	return c.JSON(fiber.Map{"status": "active", "message": "Account reactivated"})
}

// ConvertRequest is the payload for the manual upgrade/convert endpoint.
type ConvertRequest struct {
	PlanID           string `json:"plan_id"`
	BillingCycle     string `json:"billing_cycle"`
	PaymentReference string `json:"payment_reference"`
}

// HandleConvertAccount records a verified paid conversion for a trial or
// suspended customer.
func HandleConvertAccount(c *fiber.Ctx) error {
	customerUUID := c.Params("uuid")

	var req ConvertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if strings.TrimSpace(req.PlanID) == "" || strings.TrimSpace(req.PaymentReference) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "plan_id and payment_reference are required"})
	}
	if req.BillingCycle == "" {
		req.BillingCycle = "monthly"
	}

	customer, err := getLifecycleService().RecordConversion(customerUUID, req.PlanID, req.BillingCycle, req.PaymentReference)
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Customer not found"})
		case errors.Is(err, subscription.ErrInvalidState):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "invalid_state", "message": "Account cannot be converted from its current status"})
		case errors.Is(err, subscription.ErrPaymentVerificationFailed):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "payment_verification_failed", "message": "The payment could not be verified"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Conversion failed"})
		}
	}

	return c.JSON(customer)
}

// HandleGetAccountEvents returns the customer's lifecycle audit trail,
// oldest first.
func HandleGetAccountEvents(c *fiber.Ctx) error {
	customerUUID := c.Params("uuid")

	repos := repository.GetGlobalRepositories()
	customer, err := repos.Customer.GetByUUID(customerUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Customer not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load customer"})
	}

	events, err := repos.SubscriptionEvent.ListByCustomer(customer.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load events"})
	}

	latest, err := repos.SubscriptionEvent.LatestByCustomer(customer.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load events"})
	}

	total, err := repos.SubscriptionEvent.CountByCustomer(customer.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load events"})
	}

	return c.JSON(accountEventsPayload(customer, events, latest, total))
}

// accountEventsPayload assembles the audit trail response: current status,
// the most recent transition, and the full history oldest first.
func accountEventsPayload(customer *models.Customer, events []models.SubscriptionEvent, latest *models.SubscriptionEvent, total int64) fiber.Map {
	payload := fiber.Map{
		"customer": customer.UUID,
		"status":   customer.Status,
		"total":    total,
		"events":   events,
	}
	if latest != nil {
		payload["latest_event"] = latest
	}
	return payload
}
