package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sie-tools/eeat-mentions/internal/config"
	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/sirupsen/logrus"
)

// scoreDropThreshold is the overall score loss that raises an alert
const scoreDropThreshold = 10

// Alert types
const (
	AlertCritical = "critical"
	AlertUrgent   = "urgent"
)

// IsRelevant reports whether a search item is about the brand: it must name the brand
// or a related entity and contain none of the brand's exclude terms.
func IsRelevant(item models.SearchItem, brand *config.Brand) bool {
	content := strings.ToLower(item.Title + " " + item.Snippet)

	for _, term := range brand.ExcludeTerms {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" && strings.Contains(content, term) {
			return false
		}
	}

	link := strings.ToLower(item.Link)
	for _, entity := range brand.Entities() {
		name := strings.ToLower(strings.TrimSpace(entity))
		if name == "" {
			continue
		}
		if strings.Contains(content, name) {
			return true
		}
		// "Brand A" matches brand-a, brand_a and branda in URLs
		for _, sep := range []string{"-", "_", ""} {
			if strings.Contains(link, strings.ReplaceAll(name, " ", sep)) {
				return true
			}
		}
	}

	return false
}

// FindAlerts looks for coverage that needs attention: risk keywords in any mention,
// Uncertain mentions in the trust category and a drop of the overall score.
func FindAlerts(report *models.Report, trustCategory models.MediaCategory, keywords []string, now time.Time) []models.Alert {
	var alerts []models.Alert
	newAlert := func(alertType, title, message string, mention *models.MentionRecord) {
		alerts = append(alerts, models.Alert{
			ID:        uuid.New().String(),
			Type:      alertType,
			Brand:     report.Brand,
			Title:     title,
			Message:   message,
			Mention:   mention,
			CreatedAt: now,
		})
	}

	for _, summary := range report.MediaAnalysis.MentionsByType {
		for i := range summary.Mentions {
			mention := summary.Mentions[i]

			if keyword := riskKeyword(mention, keywords); keyword != "" {
				logrus.Infof("Alert (risk keyword): %s in %s", keyword, mention.Title)
				newAlert(AlertCritical, "Risk keyword in coverage",
					fmt.Sprintf("%q mentioned in %s coverage of %s", keyword, mention.Category, mention.Entity), &mention)
				continue
			}

			if mention.Category == trustCategory && mention.AccuracyLabel == models.LabelUncertain {
				logrus.Infof("Alert (uncertain coverage): %s", mention.Title)
				newAlert(AlertUrgent, "Possibly inaccurate coverage",
					fmt.Sprintf("%s coverage of %s may contradict the official information", mention.Category, mention.Entity), &mention)
			}
		}
	}

	if report.PreviousOverall != nil && *report.PreviousOverall-report.Scores.Overall >= scoreDropThreshold {
		newAlert(AlertUrgent, "E-E-A-T score dropped",
			fmt.Sprintf("Overall score fell from %d to %d", *report.PreviousOverall, report.Scores.Overall), nil)
	}

	return alerts
}

func riskKeyword(mention models.MentionRecord, keywords []string) string {
	content := strings.ToLower(mention.Title + " " + mention.Snippet)
	for _, keyword := range keywords {
		if k := strings.ToLower(strings.TrimSpace(keyword)); k != "" && strings.Contains(content, k) {
			return keyword
		}
	}
	return ""
}
