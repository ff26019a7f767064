package utils

import (
	"log"
	"time"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/progress"

	"github.com/robfig/cron/v3"
)

// InitializeReminderScheduler sets up the daily learning reminder scheduler
func InitializeReminderScheduler() {
	log.Println("[REMINDER-SCHEDULER] Initializing learning reminder scheduler...")

	c := cron.New()

	// Run daily at 9 AM to nudge inactive learners
	c.AddFunc("0 9 * * *", func() {
		log.Println("[REMINDER-SCHEDULER] Running daily learning reminder check...")
		ProcessLearningReminders()
	})

	c.Start()
	log.Println("[REMINDER-SCHEDULER] Learning reminder scheduler started - runs daily at 9 AM")
}

// ProcessLearningReminders emails users whose in-progress courses have seen
// no activity for 3 days, pointing them at the next unfinished subject.
func ProcessLearningReminders() {
	db := database.Database.Db
	staleBefore := time.Now().AddDate(0, 0, -3)

	var staleCourses []courseModels.UserCourse
	if err := db.
		Where("status = ? AND updated_at < ?", courseModels.StatusInProgress, staleBefore).
		Find(&staleCourses).Error; err != nil {
		log.Printf("[REMINDER-SCHEDULER] Error fetching stale courses: %v", err)
		return
	}

	log.Printf("[REMINDER-SCHEDULER] Found %d stale in-progress courses", len(staleCourses))

	for _, record := range staleCourses {
		var user models.User
		if err := db.Where("id = ?", record.UserID).First(&user).Error; err != nil {
			log.Printf("[REMINDER-SCHEDULER] Error fetching user %d: %v", record.UserID, err)
			continue
		}

		var course courseModels.Course
		if err := db.Where("id = ?", record.CourseID).First(&course).Error; err != nil {
			log.Printf("[REMINDER-SCHEDULER] Error fetching course %d: %v", record.CourseID, err)
			continue
		}

		next, err := progress.NextUnfinishedSubject(db, record.UserID, record.CourseID)
		if err != nil {
			log.Printf("[REMINDER-SCHEDULER] Error resolving next subject for user %d course %d: %v",
				record.UserID, record.CourseID, err)
			continue
		}
		if next == nil {
			// Every published subject is done; the cascade will close the
			// course record on the next completion.
			continue
		}

		SendLearningReminderEmail(user.Email, user.Name, course.Title, next.Title)
		log.Printf("[REMINDER-SCHEDULER] Sent reminder for course %d to %s", record.CourseID, user.Email)
	}
}
