package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/DanielKramer/PropNest/internal/pkg/scheduler"
)

// HandleRunLifecycleSweep triggers one lifecycle sweep outside the regular
// schedule and returns the resulting report.
func HandleRunLifecycleSweep(c *fiber.Ctx) error {
	log.Infof("[Admin] Manual lifecycle sweep triggered")
	report := scheduler.GetManager().RunSweepOnce()

	return c.JSON(report)
}

// HandleRunTrialReminders triggers one trial reminder scan outside the
// regular schedule.
func HandleRunTrialReminders(c *fiber.Ctx) error {
	log.Infof("[Admin] Manual trial reminder scan triggered")
	sent := scheduler.GetManager().RunRemindersOnce()

	return c.JSON(fiber.Map{"reminders_sent": sent})
}
