package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Uday261104/lms-v2/model"
	authutil "github.com/Uday261104/lms-v2/utils/auth"
)

// ReconcileCourseHours re-derives total_hours for every course. Per-request
// writes already keep the aggregate correct; this catches drift from
// externally seeded data.
func (m *CronManager) ReconcileCourseHours() {
	jobName := "reconcile_course_hours"

	var courseIDs []uint
	if err := m.db.Model(&model.Course{}).Pluck("id", &courseIDs).Error; err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to list courses: %w", err))
		return
	}

	if len(courseIDs) == 0 {
		m.logJobComplete(jobName, "No courses to reconcile")
		return
	}

	failed := 0
	for _, id := range courseIDs {
		if err := m.content.RecomputeCourse(id); err != nil {
			log.Printf("[CRON] Failed to recompute course %d: %v", id, err)
			failed++
		}
	}

	m.logJobComplete(jobName, fmt.Sprintf("Reconciled %d courses, failed %d", len(courseIDs), failed))
}

// CleanupExpiredTokens removes expired entries from the JWT blacklist.
func (m *CronManager) CleanupExpiredTokens() {
	jobName := "cleanup_expired_tokens"

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	blacklist := authutil.NewBlacklistService(m.db)
	if err := blacklist.CleanupExpiredTokens(ctx); err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to cleanup blacklist: %w", err))
		return
	}

	m.logJobComplete(jobName, "Expired blacklist entries removed")
}

// CleanupOldJobLogs deletes cron job logs older than 30 days.
func (m *CronManager) CleanupOldJobLogs() {
	jobName := "cleanup_old_job_logs"

	cutoff := time.Now().AddDate(0, 0, -30)
	result := m.db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete old logs: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deleted %d old job logs", result.RowsAffected))
}
