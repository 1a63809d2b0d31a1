package email

import (
	"context"
	"fmt"
	"html"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/Tatu1984/hrms-sub001/internal/application/attendance/alerting"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	Recipients  []string
}

// SMTPAlertNotifier emails suspicious activity alerts to administrators.
type SMTPAlertNotifier struct {
	config SMTPConfig
	dial   func() (gomail.SendCloser, error)
}

func NewSMTPAlertNotifier(config SMTPConfig) *SMTPAlertNotifier {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	return &SMTPAlertNotifier{
		config: config,
		dial:   dialer.Dial,
	}
}

func (s *SMTPAlertNotifier) Name() string { return "email" }

func (s *SMTPAlertNotifier) Notify(ctx context.Context, alert alerting.Alert) error {
	if len(s.config.Recipients) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := fmt.Sprintf("[HRMS] Suspicious activity: employee %d (%s)", alert.EmployeeID, alert.PatternType)
	return s.sendEmail(subject, alertHTML(alert), alertPlain(alert))
}

func (s *SMTPAlertNotifier) sendEmail(subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", s.config.Recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	sc, err := s.dial()
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	defer sc.Close()

	if err := gomail.Send(sc, m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func alertPlain(a alerting.Alert) string {
	return fmt.Sprintf(`Suspicious heartbeat activity

Employee:   %d
Session:    %d
Pattern:    %s
Detail:     %s
Client IP:  %s
Recorded:   %s

The heartbeat was recorded as inactive. Review the session activity before
approving the day's hours.
`, a.EmployeeID, a.SessionID, a.PatternType, a.PatternDetail, a.ClientIP, formatRecorded(a.RecordedAt))
}

func alertHTML(a alerting.Alert) string {
	return fmt.Sprintf(`
		<html>
		<body>
			<h2>Suspicious heartbeat activity</h2>
			<table>
				<tr><td>Employee</td><td>%d</td></tr>
				<tr><td>Session</td><td>%d</td></tr>
				<tr><td>Pattern</td><td>%s</td></tr>
				<tr><td>Detail</td><td>%s</td></tr>
				<tr><td>Client IP</td><td>%s</td></tr>
				<tr><td>Recorded</td><td>%s</td></tr>
			</table>
			<p>The heartbeat was recorded as inactive. Review the session activity before approving the day's hours.</p>
		</body>
		</html>
	`, a.EmployeeID, a.SessionID,
		html.EscapeString(a.PatternType), html.EscapeString(a.PatternDetail),
		html.EscapeString(a.ClientIP), formatRecorded(a.RecordedAt))
}

func formatRecorded(t time.Time) string {
	return biztime.ToBizTimezone(t).Format("2006-01-02 15:04:05 MST")
}
