package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sie-tools/eeat-mentions/internal/config"
	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// mailer is satisfied by *gomail.Dialer
type mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Service sends reports and alerts to Teams and email
type Service struct {
	config *config.Config
	client *resty.Client
	mailer mailer
}

var _ NotificationInterface = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message card
type TeamsMessage struct {
	Type       string         `json:"@type"`
	Context    string         `json:"@context"`
	ThemeColor string         `json:"themeColor,omitempty"`
	Title      string         `json:"title"`
	Text       string         `json:"text"`
	Sections   []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle    string      `json:"activityTitle,omitempty"`
	ActivitySubtitle string      `json:"activitySubtitle,omitempty"`
	ActivityText     string      `json:"activityText,omitempty"`
	Facts            []TeamsFact `json:"facts,omitempty"`
	Markdown         bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a notification service. Channels that are not configured are skipped.
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
		mailer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

// SendReport sends a report via the configured notification channels
func (s *Service) SendReport(ctx context.Context, report *models.Report) error {
	if !s.config.NotificationsEnabled() {
		logrus.Debugf("No notification channels configured, report %s not sent", report.ID)
		return nil
	}

	var errors []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.postToTeams(ctx, s.buildTeamsReport(report)); err != nil {
			logrus.Errorf("Failed to send Teams notification: %v", err)
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Successfully sent report to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendReportEmail(report); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Successfully sent report via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}
	return nil
}

// SendAlert sends a reputation alert via the configured notification channels
func (s *Service) SendAlert(ctx context.Context, alert *models.Alert) error {
	if !s.config.NotificationsEnabled() {
		logrus.Infof("Alert not sent, no channels configured: %s - %s", alert.Type, alert.Title)
		return nil
	}

	var errors []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.postToTeams(ctx, s.buildTeamsAlert(alert)); err != nil {
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		}
	}

	if s.config.NotificationEmail != "" {
		m := s.newMessage(fmt.Sprintf("[%s] %s", strings.ToUpper(alert.Type), alert.Title))
		m.SetBody("text/plain", alertText(alert))
		if err := s.mailer.DialAndSend(m); err != nil {
			errors = append(errors, fmt.Sprintf("Email: failed to send email: %v", err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("alert notification errors: %s", strings.Join(errors, "; "))
	}

	logrus.WithFields(logrus.Fields{"type": alert.Type, "brand": alert.Brand}).Info("Alert sent")
	return nil
}

func (s *Service) postToTeams(ctx context.Context, message *TeamsMessage) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)
	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}

func (s *Service) buildTeamsReport(report *models.Report) *TeamsMessage {
	message := &TeamsMessage{
		Type:       "MessageCard",
		Context:    "https://schema.org/extensions",
		ThemeColor: scoreColor(report.Scores.Overall),
		Title:      fmt.Sprintf("E-E-A-T Report - %s (%s)", report.Brand, report.Period),
		Text: fmt.Sprintf("Overall score %d/100%s from %d mentions",
			report.Scores.Overall, scoreDelta(report), report.MediaAnalysis.TotalMentions),
	}

	message.Sections = append(message.Sections, TeamsSection{
		ActivityTitle: "Scores",
		Facts: []TeamsFact{
			{Name: "Experience", Value: fmt.Sprintf("%d", report.Scores.Experience)},
			{Name: "Expertise", Value: fmt.Sprintf("%d", report.Scores.Expertise)},
			{Name: "Authoritativeness", Value: fmt.Sprintf("%d", report.Scores.Authoritativeness)},
			{Name: "Trustworthiness", Value: fmt.Sprintf("%d", report.Scores.Trustworthiness)},
			{Name: "Wikipedia", Value: presenceText(report.Presence)},
			{Name: "HTTPS", Value: fmt.Sprintf("%t", report.UsesHTTPS)},
			{Name: "Generated", Value: report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")},
		},
		Markdown: true,
	})

	var latest []string
	for _, summary := range report.MediaAnalysis.MentionsByType {
		if summary.LatestMention == nil {
			continue
		}
		m := summary.LatestMention
		latest = append(latest, fmt.Sprintf("**%s** (%d): [%s](%s) - %s, %s",
			summary.Category, summary.Count, m.Title, m.URL, m.DisplayDate(), m.AccuracyLabel))
	}
	if len(latest) > 0 {
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Latest Mentions",
			ActivityText:  strings.Join(latest, "\n\n"),
			Markdown:      true,
		})
	}

	if len(report.Warnings) > 0 {
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Warnings",
			ActivityText:  strings.Join(report.Warnings, "\n\n"),
		})
	}

	return message
}

func (s *Service) buildTeamsAlert(alert *models.Alert) *TeamsMessage {
	message := &TeamsMessage{
		Type:       "MessageCard",
		Context:    "https://schema.org/extensions",
		ThemeColor: alertColor(alert.Type),
		Title:      fmt.Sprintf("%s alert: %s", alert.Brand, alert.Title),
		Text:       alert.Message,
	}

	if alert.Mention != nil {
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle:    fmt.Sprintf("[%s](%s)", alert.Mention.Title, alert.Mention.URL),
			ActivitySubtitle: fmt.Sprintf("%s | %s | %s", alert.Mention.Category, alert.Mention.Entity, alert.Mention.DisplayDate()),
			ActivityText:     alert.Mention.Snippet,
			Markdown:         true,
		})
	}
	return message
}

func (s *Service) newMessage(subject string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	return m
}

func (s *Service) sendReportEmail(report *models.Report) error {
	htmlBody, err := buildEmailHTML(report)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	m := s.newMessage(fmt.Sprintf("E-E-A-T Report - %s: %d/100", report.Brand, report.Scores.Overall))
	m.SetBody("text/plain", buildEmailText(report))
	m.AddAlternative("text/html", htmlBody)

	if err := s.mailer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

var emailTemplate = template.Must(template.New("email").Funcs(template.FuncMap{
	"truncate": truncate,
	"delta":    scoreDelta,
}).Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>E-E-A-T Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #0078d4; color: white; padding: 20px; border-radius: 5px; }
        .scores td { padding: 4px 12px; }
        .mention { border-left: 4px solid #107c10; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .Uncertain { border-left-color: #d13438; }
        .warning { color: #8a6d3b; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Brand}} E-E-A-T Report</h1>
        <p>{{.Period}} report generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM MST"}}</p>
    </div>

    <h2>Overall {{.Scores.Overall}}/100{{delta .}}</h2>
    <table class="scores">
        <tr><td>Experience</td><td>{{.Scores.Experience}}</td></tr>
        <tr><td>Expertise</td><td>{{.Scores.Expertise}}</td></tr>
        <tr><td>Authoritativeness</td><td>{{.Scores.Authoritativeness}}</td></tr>
        <tr><td>Trustworthiness</td><td>{{.Scores.Trustworthiness}}</td></tr>
    </table>

    <h2>Media Mentions ({{.MediaAnalysis.TotalMentions}})</h2>
    {{range .MediaAnalysis.MentionsByType}}
        <h3>{{.Category}}: {{.Count}} (weight {{.Weight}})</h3>
        {{with .LatestMention}}
        <div class="mention {{.AccuracyLabel}}">
            <a href="{{.URL}}" target="_blank">{{.Title}}</a>
            <div>{{.DisplayDate}} | {{.Entity}} | {{.AccuracyLabel}}</div>
            {{if .Snippet}}<p>{{truncate .Snippet 200}}</p>{{end}}
        </div>
        {{end}}
    {{end}}

    {{if .Recommendations}}
    <h2>Recommendations</h2>
    <ul>
    {{range .Recommendations}}<li><strong>{{.Strategy}}</strong> ({{.Priority}}): {{.Description}}</li>{{end}}
    </ul>
    {{end}}

    {{if .Warnings}}
    <h2>Warnings</h2>
    {{range .Warnings}}<p class="warning">{{.}}</p>{{end}}
    {{end}}

    <hr>
    <p><small>This report was generated automatically by eeat-mentions.</small></p>
</body>
</html>
`))

func buildEmailHTML(report *models.Report) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildEmailText(report *models.Report) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("E-E-A-T Report - %s (%s)\n", report.Brand, report.Period))
	text.WriteString(fmt.Sprintf("Generated: %s\n\n", report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")))

	text.WriteString("SCORES\n")
	text.WriteString("======\n")
	text.WriteString(fmt.Sprintf("Overall: %d%s\n", report.Scores.Overall, scoreDelta(report)))
	text.WriteString(fmt.Sprintf("Experience: %d\n", report.Scores.Experience))
	text.WriteString(fmt.Sprintf("Expertise: %d\n", report.Scores.Expertise))
	text.WriteString(fmt.Sprintf("Authoritativeness: %d\n", report.Scores.Authoritativeness))
	text.WriteString(fmt.Sprintf("Trustworthiness: %d\n", report.Scores.Trustworthiness))
	text.WriteString(fmt.Sprintf("Wikipedia: %s\n", presenceText(report.Presence)))

	text.WriteString("\nMEDIA MENTIONS\n")
	text.WriteString("==============\n")
	for _, summary := range report.MediaAnalysis.MentionsByType {
		text.WriteString(fmt.Sprintf("%s: %d\n", summary.Category, summary.Count))
		if m := summary.LatestMention; m != nil {
			text.WriteString(fmt.Sprintf("   Latest: %s (%s, %s)\n", m.Title, m.DisplayDate(), m.AccuracyLabel))
			text.WriteString(fmt.Sprintf("   URL: %s\n", m.URL))
		}
	}

	if len(report.Warnings) > 0 {
		text.WriteString("\nWARNINGS\n")
		text.WriteString("========\n")
		for _, w := range report.Warnings {
			text.WriteString("- " + w + "\n")
		}
	}

	text.WriteString("\n---\nThis report was generated automatically by eeat-mentions.\n")
	return text.String()
}

func alertText(alert *models.Alert) string {
	var text strings.Builder
	text.WriteString(alert.Message + "\n")
	if m := alert.Mention; m != nil {
		text.WriteString(fmt.Sprintf("\n%s\n%s\n%s | %s | %s\n", m.Title, m.URL, m.Category, m.Entity, m.DisplayDate()))
		if m.Snippet != "" {
			text.WriteString("\n" + truncate(m.Snippet, 500) + "\n")
		}
	}
	return text.String()
}

func presenceText(p models.PresenceResult) string {
	brand := "brand not found"
	if p.BrandFound {
		brand = "brand found"
	}
	if len(p.RelatedEntitiesFound) == 0 {
		return brand
	}
	return fmt.Sprintf("%s; related: %s", brand, strings.Join(p.RelatedEntitiesFound, ", "))
}

func scoreDelta(report *models.Report) string {
	if report.PreviousOverall == nil {
		return ""
	}
	return fmt.Sprintf(" (%+d since last report)", report.Scores.Overall-*report.PreviousOverall)
}

func scoreColor(overall int) string {
	switch {
	case overall >= 70:
		return "107C10"
	case overall >= 40:
		return "FFB900"
	default:
		return "D13438"
	}
}

func alertColor(alertType string) string {
	switch alertType {
	case "critical":
		return "D13438"
	case "urgent":
		return "FF8C00"
	default:
		return "0078D4"
	}
}

func truncate(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	return string(runes[:length]) + "..."
}
