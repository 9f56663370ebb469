// FILE: internal/service/report_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"moodmuse-be/internal/entity"
	"moodmuse-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users []*entity.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.users = append(r.users, u)
	return nil
}

func (r *fakeUserRepo) Update(context.Context, *entity.User) error { return nil }
func (r *fakeUserRepo) Delete(context.Context, uuid.UUID) error    { return nil }

func (r *fakeUserRepo) FindOne(context.Context, ...specification.Specification) (*entity.User, error) {
	if len(r.users) == 0 {
		return nil, nil
	}
	return r.users[0], nil
}

func (r *fakeUserRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.User, error) {
	return r.users, nil
}

func (r *fakeUserRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) CreatePasswordResetToken(context.Context, *entity.PasswordResetToken) error {
	return nil
}
func (r *fakeUserRepo) FindPasswordResetToken(context.Context, ...specification.Specification) (*entity.PasswordResetToken, error) {
	return nil, nil
}
func (r *fakeUserRepo) MarkTokenUsed(context.Context, uuid.UUID) error { return nil }
func (r *fakeUserRepo) CreateEmailVerificationToken(context.Context, *entity.EmailVerificationToken) error {
	return nil
}
func (r *fakeUserRepo) FindEmailVerificationToken(context.Context, ...specification.Specification) (*entity.EmailVerificationToken, error) {
	return nil, nil
}
func (r *fakeUserRepo) DeleteEmailVerificationToken(context.Context, uuid.UUID) error { return nil }
func (r *fakeUserRepo) CreateRefreshToken(context.Context, *entity.UserRefreshToken) error {
	return nil
}
func (r *fakeUserRepo) RevokeRefreshToken(context.Context, string) error        { return nil }
func (r *fakeUserRepo) ActivateUser(context.Context, uuid.UUID) error           { return nil }
func (r *fakeUserRepo) UpdatePassword(context.Context, uuid.UUID, string) error { return nil }

type weeklyReport struct {
	email        string
	fullName     string
	dominantMood string
	entryCount   int64
}

type fakeMailer struct {
	reports []weeklyReport
	fail    bool
}

func (m *fakeMailer) SendOTP(string, string) error        { return nil }
func (m *fakeMailer) SendResetToken(string, string) error { return nil }
func (m *fakeMailer) SendWeeklyReport(toEmail, fullName, dominantMood string, entryCount int64) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.reports = append(m.reports, weeklyReport{toEmail, fullName, dominantMood, entryCount})
	return nil
}

func TestSendWeeklyReportsPicksDominantMood(t *testing.T) {
	uow := newFakeUow()
	userId := uuid.New()
	uow.userRepo.users = []*entity.User{
		{Id: userId, Email: "ayse@example.com", FullName: "Ayşe", Status: entity.UserStatusActive},
	}

	now := time.Now()
	for i, label := range []string{"sakin", "sakin", "mutlu"} {
		uow.moodRepo.entries = append(uow.moodRepo.entries, &entity.MoodEntry{
			Id:        uuid.New(),
			UserId:    userId,
			Text:      "günlük",
			MoodLabel: label,
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		})
	}

	mailerFake := &fakeMailer{}
	svc := NewReportService(&fakeUowFactory{uow: uow}, mailerFake, nopLogger{})

	require.NoError(t, svc.SendWeeklyReports(context.Background()))

	require.Len(t, mailerFake.reports, 1)
	report := mailerFake.reports[0]
	assert.Equal(t, "ayse@example.com", report.email)
	assert.Equal(t, "Ayşe", report.fullName)
	assert.Equal(t, "sakin", report.dominantMood)
	assert.Equal(t, int64(3), report.entryCount)
}

func TestSendWeeklyReportsSkipsUsersWithoutEntries(t *testing.T) {
	uow := newFakeUow()
	uow.userRepo.users = []*entity.User{
		{Id: uuid.New(), Email: "bos@example.com", FullName: "Boş", Status: entity.UserStatusActive},
	}

	mailerFake := &fakeMailer{}
	svc := NewReportService(&fakeUowFactory{uow: uow}, mailerFake, nopLogger{})

	require.NoError(t, svc.SendWeeklyReports(context.Background()))
	assert.Empty(t, mailerFake.reports)
}

func TestSendWeeklyReportsContinuesAfterSendFailure(t *testing.T) {
	uow := newFakeUow()
	userId := uuid.New()
	uow.userRepo.users = []*entity.User{
		{Id: userId, Email: "ayse@example.com", FullName: "Ayşe", Status: entity.UserStatusActive},
	}
	uow.moodRepo.entries = []*entity.MoodEntry{
		{Id: uuid.New(), UserId: userId, Text: "günlük", MoodLabel: "mutlu", CreatedAt: time.Now()},
	}

	mailerFake := &fakeMailer{fail: true}
	svc := NewReportService(&fakeUowFactory{uow: uow}, mailerFake, nopLogger{})

	// A failed send is logged, not returned.
	require.NoError(t, svc.SendWeeklyReports(context.Background()))
	assert.Empty(t, mailerFake.reports)
}
