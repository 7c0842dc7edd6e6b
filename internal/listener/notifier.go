/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package listener

import (
	"context"
	"fmt"
	"io"
	"net/smtp"
	"strconv"
	"time"

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/money"

	"github.com/jordan-wright/email"
	"go.uber.org/zap"
)

// Notifier delivers one maturity notice
type Notifier interface {
	Notify(ctx context.Context, notice models.MaturityNotice) error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, notice models.MaturityNotice) error

func (f NotifierFunc) Notify(ctx context.Context, notice models.MaturityNotice) error {
	return f(ctx, notice)
}

// ANSI color helpers for console output.
const (
	colorReset  = "\033[0m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func describe(f *money.Formatter, notice models.MaturityNotice) string {
	fd := notice.FD
	amount := fd.Principal
	if fd.MaturityAmount.Valid {
		amount = fd.MaturityAmount.Decimal
	}
	when := "today"
	switch {
	case notice.DaysLeft == 1:
		when = "tomorrow"
	case notice.DaysLeft > 1:
		when = "in " + strconv.Itoa(notice.DaysLeft) + " days"
	}
	return fmt.Sprintf("%s FD of %s matures %s (%s), paying out %s",
		fd.BankName, f.Format(fd.Principal), when, f.Date(fd.MaturityDate), f.Format(amount))
}

// ConsoleNotifier prints notices as colored lines and logs them
type ConsoleNotifier struct {
	out   io.Writer
	money *money.Formatter
}

func NewConsoleNotifier(out io.Writer, f *money.Formatter) *ConsoleNotifier {
	return &ConsoleNotifier{out: out, money: f}
}

func (c *ConsoleNotifier) Notify(_ context.Context, notice models.MaturityNotice) error {
	color := colorCyan
	if notice.DaysLeft <= 7 {
		color = colorYellow
	}
	if _, err := fmt.Fprintf(c.out, "%s[%s] %s%s\n",
		color, time.Now().Format("15:04:05"), describe(c.money, notice), colorReset); err != nil {
		return fmt.Errorf("failed to print notice: %w", err)
	}

	zap.L().Info("FD maturing soon",
		zap.String("fd_id", notice.FD.Id),
		zap.String("bank_name", notice.FD.BankName),
		zap.String("principal", notice.FD.Principal.String()),
		zap.String("maturity_date", notice.FD.MaturityDate.String()),
		zap.Int("days_left", notice.DaysLeft))
	return nil
}

// EmailNotifier sends a reminder e-mail per notice over SMTP
type EmailNotifier struct {
	cfg   models.SMTPConfig
	money *money.Formatter
	send  func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewEmailNotifier(cfg models.SMTPConfig, f *money.Formatter) *EmailNotifier {
	return &EmailNotifier{
		cfg:   cfg,
		money: f,
		send:  func(e *email.Email, addr string, auth smtp.Auth) error { return e.Send(addr, auth) },
	}
}

// message builds the reminder for notice
func (n *EmailNotifier) message(notice models.MaturityNotice) *email.Email {
	e := email.NewEmail()
	e.From = n.cfg.From
	e.To = n.cfg.To
	e.Subject = fmt.Sprintf("FD maturity reminder: %s", notice.FD.BankName)

	body := describe(n.money, notice) + ".\n"
	if notice.FD.FdNumber != "" {
		body += fmt.Sprintf("FD number: %s\n", notice.FD.FdNumber)
	}
	if notice.FD.AutoRenew {
		body += "This FD is set to renew automatically.\n"
	} else {
		body += "Decide whether to renew or withdraw before the maturity date.\n"
	}
	e.Text = []byte(body)
	return e
}

func (n *EmailNotifier) Notify(_ context.Context, notice models.MaturityNotice) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	if err := n.send(n.message(notice), addr, auth); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}

	zap.L().Info("Reminder email sent",
		zap.String("fd_id", notice.FD.Id),
		zap.Strings("to", n.cfg.To))
	return nil
}
