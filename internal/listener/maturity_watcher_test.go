package listener

import (
	"bytes"
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/money"
	"fi-dashboard-go/internal/store/storetest"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
)

func fd(id, bank string, principal int64, status string, maturity models.Date) models.FDTracker {
	return models.FDTracker{
		Id:           id,
		BankName:     bank,
		Principal:    decimal.NewFromInt(principal),
		Status:       status,
		StartDate:    models.NewDate(2024, time.June, 1),
		MaturityDate: maturity,
	}
}

type recorder struct {
	notices []models.MaturityNotice
	err     error
}

func (r *recorder) Notify(_ context.Context, n models.MaturityNotice) error {
	if r.err != nil {
		return r.err
	}
	r.notices = append(r.notices, n)
	return nil
}

func newWatcher(t *testing.T, fake *storetest.Fake, now *time.Time, notifiers ...Notifier) *MaturityWatcher {
	t.Helper()
	w, err := NewMaturityWatcher(MaturityWatcherConfig{
		DbService: fake,
		Notifiers: notifiers,
		Schedule:  "0 9 * * *",
		Now:       func() time.Time { return *now },
	})
	if err != nil {
		t.Fatalf("NewMaturityWatcher: %v", err)
	}
	return w
}

func TestScanReportsEachFDOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.Local)
	fake := storetest.New()
	fake.FDs = []models.FDTracker{
		fd("a", "SBI", 100000, models.FDStatusActive, models.NewDate(2025, time.July, 1)),
		fd("b", "HDFC", 50000, models.FDStatusActive, models.NewDate(2025, time.June, 20)),
		fd("c", "ICICI", 75000, models.FDStatusActive, models.NewDate(2026, time.January, 1)),
		fd("d", "Axis", 20000, models.FDStatusClosed, models.NewDate(2025, time.June, 25)),
	}
	rec := &recorder{}
	w := newWatcher(t, fake, &now, rec)

	delivered, err := w.Scan(ctx)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(delivered) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(delivered))
	}
	if delivered[0].FD.Id != "b" || delivered[0].DaysLeft != 5 {
		t.Errorf("first notice = %s/%d, want b/5", delivered[0].FD.Id, delivered[0].DaysLeft)
	}
	if delivered[1].FD.Id != "a" || delivered[1].DaysLeft != 16 {
		t.Errorf("second notice = %s/%d, want a/16", delivered[1].FD.Id, delivered[1].DaysLeft)
	}

	again, err := w.Scan(ctx)
	if err != nil {
		t.Fatalf("second Scan: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("expected no repeat notices, got %d", len(again))
	}
	if len(rec.notices) != 2 {
		t.Errorf("notifier called %d times, want 2", len(rec.notices))
	}

	// ICICI enters the window later
	now = time.Date(2025, time.October, 10, 9, 0, 0, 0, time.Local)
	later, err := w.Scan(ctx)
	if err != nil {
		t.Fatalf("later Scan: %v", err)
	}
	if len(later) != 1 || later[0].FD.Id != "c" {
		t.Errorf("expected only c to be reported, got %+v", later)
	}
}

func TestScanRetriesFailedNotices(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.Local)
	fake := storetest.New()
	fake.FDs = []models.FDTracker{fd("a", "SBI", 100000, models.FDStatusActive, models.NewDate(2025, time.June, 15))}
	rec := &recorder{err: errors.New("smtp down")}
	w := newWatcher(t, fake, &now, rec)

	if delivered, _ := w.Scan(ctx); len(delivered) != 0 {
		t.Fatalf("expected no delivered notices while notifier fails")
	}

	rec.err = nil
	delivered, err := w.Scan(ctx)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(delivered) != 1 || delivered[0].DaysLeft != 0 {
		t.Errorf("expected the FD to be reported once the notifier recovers, got %+v", delivered)
	}
}

func TestScanStoreFailure(t *testing.T) {
	now := time.Now()
	fake := storetest.New()
	fake.ListErr = errors.New("connection refused")
	w := newWatcher(t, fake, &now)

	if _, err := w.Scan(context.Background()); err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}

func TestRenewedFDIsReportedAgain(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.Local)
	fake := storetest.New()
	fake.FDs = []models.FDTracker{fd("a", "SBI", 100000, models.FDStatusActive, models.NewDate(2025, time.June, 20))}
	rec := &recorder{}
	w := newWatcher(t, fake, &now, rec)

	if _, err := w.Scan(ctx); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	fake.FDs[0].MaturityDate = models.NewDate(2025, time.August, 20)
	if _, err := w.Scan(ctx); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(rec.notices) != 2 {
		t.Errorf("expected renewed FD to be reported again, got %d notices", len(rec.notices))
	}
}

func TestCleanupReportedDropsMaturedEntries(t *testing.T) {
	now := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.Local)
	w := newWatcher(t, storetest.New(), &now)

	w.markReported(fd("old", "SBI", 1, models.FDStatusActive, models.NewDate(2025, time.June, 14)))
	w.markReported(fd("today", "SBI", 1, models.FDStatusActive, models.NewDate(2025, time.June, 15)))
	w.cleanupReported()

	if len(w.reported) != 1 {
		t.Fatalf("expected 1 remaining entry, got %d", len(w.reported))
	}
	if !w.isReported(fd("today", "SBI", 1, models.FDStatusActive, models.NewDate(2025, time.June, 15))) {
		t.Error("entry maturing today should be kept")
	}
}

func TestNewMaturityWatcherValidation(t *testing.T) {
	if _, err := NewMaturityWatcher(MaturityWatcherConfig{Schedule: "* * * * *"}); err == nil {
		t.Error("expected error without a store")
	}
	if _, err := NewMaturityWatcher(MaturityWatcherConfig{DbService: storetest.New()}); err == nil {
		t.Error("expected error without a schedule")
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	w, err := NewMaturityWatcher(MaturityWatcherConfig{DbService: storetest.New(), Schedule: "every tuesday"})
	if err != nil {
		t.Fatalf("NewMaturityWatcher: %v", err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Error("expected schedule error")
	}
	w.Stop()
}

func TestStartAndStop(t *testing.T) {
	now := time.Now()
	w := newWatcher(t, storetest.New(), &now)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewConsoleNotifier(&buf, money.NewFormatter("Rs", "en-IN"))

	f := fd("a", "SBI", 100000, models.FDStatusActive, models.NewDate(2025, time.July, 1))
	f.MaturityAmount = models.NullAmount(decimal.NewFromInt(107000))
	if err := n.Notify(context.Background(), models.MaturityNotice{FD: f, DaysLeft: 16}); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	want := "SBI FD of Rs 1,00,000 matures in 16 days (1/7/2025), paying out Rs 1,07,000"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("output %q does not contain %q", buf.String(), want)
	}
}

func TestEmailNotifier(t *testing.T) {
	cfg := models.SMTPConfig{
		Host: "smtp.example.com", Port: 587, Username: "me", Password: "secret",
		From: "fi@example.com", To: []string{"owner@example.com"},
	}
	n := NewEmailNotifier(cfg, money.NewFormatter("Rs", "en-IN"))

	var sent *email.Email
	var sentAddr string
	n.send = func(e *email.Email, addr string, auth smtp.Auth) error {
		sent, sentAddr = e, addr
		if auth == nil {
			t.Error("expected plain auth when a username is set")
		}
		return nil
	}

	f := fd("a", "HDFC", 50000, models.FDStatusActive, models.NewDate(2025, time.June, 16))
	f.FdNumber = "FD-42"
	if err := n.Notify(context.Background(), models.MaturityNotice{FD: f, DaysLeft: 1}); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if sentAddr != "smtp.example.com:587" {
		t.Errorf("addr = %q", sentAddr)
	}
	if sent.Subject != "FD maturity reminder: HDFC" {
		t.Errorf("subject = %q", sent.Subject)
	}
	body := string(sent.Text)
	for _, want := range []string{"matures tomorrow", "FD number: FD-42", "renew or withdraw"} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q missing %q", body, want)
		}
	}

	n.send = func(*email.Email, string, smtp.Auth) error { return errors.New("550 rejected") }
	if err := n.Notify(context.Background(), models.MaturityNotice{FD: f}); err == nil {
		t.Error("expected send failure to surface")
	}
}
