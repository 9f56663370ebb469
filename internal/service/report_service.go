// FILE: internal/service/report_service.go
package service

import (
	"context"
	"time"

	"moodmuse-be/internal/pkg/logger"
	"moodmuse-be/internal/pkg/mailer"
	"moodmuse-be/internal/repository/specification"
	"moodmuse-be/internal/repository/unitofwork"
)

type IReportService interface {
	SendWeeklyReports(ctx context.Context) error
}

type reportService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewReportService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IReportService {
	return &reportService{
		uowFactory:   uowFactory,
		emailService: emailService,
		logger:       log,
	}
}

// SendWeeklyReports mails every active user a summary of the last seven days.
// Users without entries in the window are skipped. A failed send is logged
// and the loop moves on; one bad mailbox must not starve everyone else.
func (rs *reportService) SendWeeklyReports(ctx context.Context) error {
	uow := rs.uowFactory.NewUnitOfWork(ctx)

	users, err := uow.UserRepository().FindAll(ctx, specification.ActiveUsers{})
	if err != nil {
		return err
	}

	since := time.Now().AddDate(0, 0, -7)
	sent := 0

	for _, user := range users {
		counts, err := uow.MoodEntryRepository().CountByLabelSince(ctx, user.Id, since)
		if err != nil {
			rs.logger.Error("report", "Failed to count mood entries", map[string]interface{}{
				"user_id": user.Id,
				"error":   err.Error(),
			})
			continue
		}
		if len(counts) == 0 {
			continue
		}

		var total int64
		for _, c := range counts {
			total += c.Count
		}

		if err := rs.emailService.SendWeeklyReport(user.Email, user.FullName, counts[0].MoodLabel, total); err != nil {
			rs.logger.Error("report", "Failed to send weekly report", map[string]interface{}{
				"user_id": user.Id,
				"error":   err.Error(),
			})
			continue
		}
		sent++
	}

	rs.logger.Info("report", "Weekly report run finished", map[string]interface{}{
		"users_total": len(users),
		"mails_sent":  sent,
	})
	return nil
}
