package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"availability-bot/internal/models"
	"availability-bot/internal/notify"
	"availability-bot/internal/repository"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []notify.Event
	emails []notify.Message
}

func (d *recordingDispatcher) Publish(ev notify.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
}

func (d *recordingDispatcher) SendEmail(msg notify.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.emails = append(d.emails, msg)
}

func (d *recordingDispatcher) Types() []notify.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]notify.EventType, 0, len(d.events))
	for _, ev := range d.events {
		out = append(out, ev.Type)
	}
	return out
}

func (d *recordingDispatcher) Recipients() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.emails))
	for _, m := range d.emails {
		out = append(out, m.To)
	}
	return out
}

type fixture struct {
	ctx            context.Context
	db             *gorm.DB
	employeeRepo   repository.EmployeeRepository
	unavailRepo    repository.UnavailabilityRepository
	vacationRepo   repository.VacationRequestRepository
	daysOffRepo    repository.NonWorkingDayRepository
	dispatcher     *recordingDispatcher
	employees      *EmployeeService
	unavailability *UnavailabilityService
	vacations      *VacationService
	daysOff        *NonWorkingDayService
	availability   *AvailabilityService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	f := &fixture{ctx: context.Background(), db: db, dispatcher: &recordingDispatcher{}}

	f.employeeRepo, err = repository.NewGormEmployeeRepository(db)
	require.NoError(t, err)
	f.unavailRepo, err = repository.NewGormUnavailabilityRepository(db)
	require.NoError(t, err)
	f.vacationRepo, err = repository.NewGormVacationRequestRepository(db)
	require.NoError(t, err)
	f.daysOffRepo, err = repository.NewGormNonWorkingDayRepository(db)
	require.NoError(t, err)

	quiet, _ := test.NewNullLogger()

	f.employees = NewEmployeeService(f.employeeRepo)
	f.employees.SetLogger(quiet)
	f.unavailability = NewUnavailabilityService(f.unavailRepo)
	f.unavailability.SetLogger(quiet)
	f.vacations = NewVacationService(f.vacationRepo, f.employeeRepo, f.dispatcher, "https://dash.example.com")
	f.vacations.SetLogger(quiet)
	f.vacations.now = func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) }
	f.daysOff = NewNonWorkingDayService(f.daysOffRepo)
	f.daysOff.logger = quiet
	f.availability = NewAvailabilityService(f.employeeRepo, f.unavailRepo, f.vacationRepo, f.daysOff)
	f.availability.SetLogger(quiet)

	return f
}

func (f *fixture) employee(t *testing.T, email, name string, role models.Role) *models.Employee {
	t.Helper()
	e := &models.Employee{Email: email, DisplayName: name, Role: role}
	require.NoError(t, f.employeeRepo.Create(f.ctx, e))
	return e
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
