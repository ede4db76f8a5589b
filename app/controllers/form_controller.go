package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/DanielKramer/PropNest/app/models"
	"github.com/DanielKramer/PropNest/app/repository"
	"github.com/DanielKramer/PropNest/internal/pkg/cache"
	"github.com/DanielKramer/PropNest/internal/pkg/env"
	"github.com/DanielKramer/PropNest/internal/pkg/hcaptcha"
	"github.com/DanielKramer/PropNest/internal/pkg/ratelimit"
)

var formLimiter *ratelimit.Limiter

// InitializeFormController wires the shared Redis rate limiter for the
// public form endpoint. The limit lives in Redis so every instance enforces
// the same budget per source address.
func InitializeFormController() {
	limit := 10
	if raw := env.GetEnv("FORM_RATE_LIMIT", ""); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	windowSeconds := 3600
	if raw := env.GetEnv("FORM_RATE_WINDOW_SECONDS", ""); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			windowSeconds = v
		}
	}

	formLimiter = ratelimit.New(cache.GetClient(), "ratelimit:forms", limit, time.Duration(windowSeconds)*time.Second)
}

// FormRequest is the payload of a public contact/maintenance form.
type FormRequest struct {
	CustomerUUID string `json:"customer_uuid"`
	Kind         string `json:"kind"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Message      string `json:"message"`
	CaptchaToken string `json:"captcha_token"`
}

// HandleSubmitForm accepts a public form submission, rate limited per
// client IP.
func HandleSubmitForm(c *fiber.Ctx) error {
	if formLimiter == nil {
		InitializeFormController()
	}

	allowed, err := formLimiter.Allow(c.Context(), c.IP())
	if err != nil {
		// Fail open but make the degraded limiter visible.
		log.Warnf("[Forms] rate limiter unavailable: %v", err)
	}
	if !allowed {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate_limited", "message": "Too many submissions, please try again later"})
	}

	var req FormRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	if hcaptcha.Enabled() {
		if ok, err := hcaptcha.Verify(req.CaptchaToken); !ok {
			log.Infof("[Forms] captcha rejected for %s: %v", c.IP(), err)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "captcha_failed", "message": "Captcha verification failed"})
		}
	}

	submission := &models.FormSubmission{
		Kind:     req.Kind,
		Name:     req.Name,
		Email:    req.Email,
		Message:  req.Message,
		SourceIP: c.IP(),
	}
	if submission.Kind == "" {
		submission.Kind = models.FormKindContact
	}

	repos := repository.GetGlobalRepositories()
	if req.CustomerUUID != "" {
		customer, err := repos.Customer.GetByUUID(req.CustomerUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Customer not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load customer"})
		}
		submission.CustomerID = customer.ID
	}

	if err := submission.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	if err := repos.FormSubmission.Create(submission); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to store submission"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": submission.ID, "message": "Submission received"})
}
