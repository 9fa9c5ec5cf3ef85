package cron

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/glowcare/clinic-backend/config"
	"github.com/glowcare/clinic-backend/models"
	"github.com/glowcare/clinic-backend/utils"
)

// StartReminderJobs schedules the day-before reminder mail for confirmed
// appointments. Requires SMTP configuration; callers skip this entirely
// when cfg.SMTPHost is empty.
func StartReminderJobs(db *gorm.DB, cfg *config.Config) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("*/5 * * * *", func() {
		sendAppointmentReminders(db, cfg)
	})
	if err != nil {
		cfg.Logger.Fatalf("failed to add reminder job: %v", err)
	}
	c.Start()
	cfg.Logger.Println("reminder scheduler started")
	return c
}

func sendAppointmentReminders(db *gorm.DB, cfg *config.Config) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	var appointments []models.Appointment
	err := db.Where("status = ? AND date = ?", models.StatusConfirmed, tomorrow).
		Find(&appointments).Error
	if err != nil {
		cfg.Logger.Printf("fetch appointments for reminders: %v", err)
		return
	}

	for i := range appointments {
		a := &appointments[i]
		// Usernames double as the contact address when they are email-shaped;
		// there is no separate email field in the directory.
		if !strings.Contains(a.UserID, "@") {
			continue
		}
		if err := sendReminderEmail(cfg, a); err != nil {
			cfg.Logger.Printf("send reminder for appointment %d: %v", a.ID, err)
			continue
		}
		cfg.Logger.Printf("sent reminder for appointment %d to %s", a.ID, a.UserID)
	}
}

func sendReminderEmail(cfg *config.Config, a *models.Appointment) error {
	subject := "Reminder: Upcoming Appointment Tomorrow"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your appointment tomorrow.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
			<li><strong>Status:</strong> %s</li>
		</ul>
		<p>If you need to reschedule or cancel, contact us as soon as possible.</p>
		<p>Best regards,</p>
		<p>GlowCare Clinic</p>
	`, a.UserID, a.Date, a.Time, a.Status)

	return utils.SendEmail(cfg, a.UserID, subject, body)
}
