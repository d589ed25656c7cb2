package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"babywords/internal/category"
	"babywords/internal/models"
)

// Digest is a rendered milestone summary email
type Digest struct {
	Subject string
	Text    string
	HTML    string
}

// DigestService emails a baby's summary to its owner
type DigestService struct {
	stats *StatsService
	email *EmailService
}

// NewDigestService creates a new digest service
func NewDigestService(stats *StatsService, email *EmailService) *DigestService {
	return &DigestService{
		stats: stats,
		email: email,
	}
}

// SendDigest builds the summary for babyID and mails it to user. The returned
// flag is false when the email service is disabled and nothing was sent.
func (s *DigestService) SendDigest(ctx context.Context, user *models.User, babyID int64) (bool, error) {
	baby, err := s.stats.babies.GetBaby(user.ID, babyID)
	if err != nil {
		return false, err
	}
	summary, err := s.stats.Summary(user.ID, babyID)
	if err != nil {
		return false, err
	}

	digest := RenderDigest(baby.Name, summary, s.email.AppBaseURL())
	if err := s.email.Send(ctx, user.Email, digest.Subject, digest.HTML, digest.Text); err != nil {
		return false, err
	}
	return s.email.IsEnabled(), nil
}

// RenderDigest formats a summary as plain text and HTML
func RenderDigest(babyName string, summary models.StatsSummary, appBaseURL string) Digest {
	top := "no categories yet"
	if summary.HasTopCategory() {
		info := category.Lookup(summary.TopCategory)
		top = fmt.Sprintf("%s %s", info.Emoji, info.Label)
	}

	var breakdown strings.Builder
	for _, c := range summary.TopCategories {
		fmt.Fprintf(&breakdown, "- %s: %d\n", category.Lookup(c.Category).Label, c.Count)
	}

	subject := fmt.Sprintf("%s's words this week", babyName)

	text := fmt.Sprintf(`Here is how %s is doing.

Today: %d (yesterday %d)
This week: %d (last week %d)
All time: %d
Top category: %s
%s
See more at %s
`, babyName, summary.Today, summary.Yesterday, summary.ThisWeek, summary.LastWeek,
		summary.Total, top, breakdown.String(), appBaseURL)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h1>%s's words</h1>
	<ul>
		<li>Today: <strong>%d</strong> (yesterday %d)</li>
		<li>This week: <strong>%d</strong> (last week %d)</li>
		<li>All time: <strong>%d</strong></li>
		<li>Top category: %s</li>
	</ul>
	<p><a href="%s">Open the dashboard</a></p>
</body>
</html>
`, html.EscapeString(babyName), summary.Today, summary.Yesterday, summary.ThisWeek,
		summary.LastWeek, summary.Total, html.EscapeString(top), html.EscapeString(appBaseURL))

	return Digest{Subject: subject, Text: text, HTML: htmlBody}
}
