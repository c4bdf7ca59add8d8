package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"spellingvocab/internal/quiz"
)

// SESClient is the part of the SES v2 client the mailer uses
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// ResultsMailer emails quiz results via Amazon SES
type ResultsMailer struct {
	client     SESClient
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewResultsMailer creates a mailer. With an empty fromEmail the mailer is
// disabled and every send is skipped.
func NewResultsMailer(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*ResultsMailer, error) {
	if fromEmail == "" {
		log.Println("Results email disabled: SES_FROM_EMAIL not configured")
		return &ResultsMailer{debug: debug}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing results mailer: region=%s, from=%s", awsRegion, fromEmail)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Results email enabled: from=%s, region=%s", fromEmail, awsRegion)
	return NewResultsMailerWithClient(sesv2.NewFromConfig(cfg), fromEmail, fromName, appBaseURL, debug), nil
}

// NewResultsMailerWithClient creates an enabled mailer around an existing client
func NewResultsMailerWithClient(client SESClient, fromEmail, fromName, appBaseURL string, debug bool) *ResultsMailer {
	return &ResultsMailer{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}
}

// IsEnabled returns whether results can be emailed
func (m *ResultsMailer) IsEnabled() bool {
	return m.enabled
}

var resultsEmailTemplate = template.Must(template.New("results").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		table { border-collapse: collapse; width: 100%; }
		td, th { border-bottom: 1px solid #ddd; padding: 6px; text-align: left; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>{{.Summary.QuizType}} Results</h1>
		</div>
		<div class="content">
			<p><strong>{{.Summary.Headline}}</strong></p>
			<p>{{.Summary.Message}}</p>
			{{if .Summary.Wrong}}
			<h3>Wrong</h3>
			<table>
				<tr><th>Word</th><th>Expected</th><th>Answered</th></tr>
				{{range .Summary.Wrong}}<tr><td>{{.Word}}</td><td>{{.Expected}}</td><td>{{.Given}}</td></tr>{{end}}
			</table>
			{{end}}
			{{if .Summary.Skipped}}
			<h3>Skipped</h3>
			<ul>{{range .Summary.Skipped}}<li>{{.Word}}</li>{{end}}</ul>
			{{end}}
			{{if .Summary.Right}}
			<h3>Right</h3>
			<ul>{{range .Summary.Right}}<li>{{.}}</li>{{end}}</ul>
			{{end}}
			<p><a href="{{.BaseURL}}">Practice again</a></p>
		</div>
		<div class="footer">
			<p>This is an automated email. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`))

func resultsText(sum quiz.Summary, baseURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s results\n\n%s\n%s\n", sum.QuizType, sum.Headline, sum.Message)
	if len(sum.Wrong) > 0 {
		b.WriteString("\nWrong:\n")
		for _, row := range sum.Wrong {
			fmt.Fprintf(&b, "  %s (expected %s, answered %s)\n", row.Word, row.Expected, row.Given)
		}
	}
	if len(sum.Skipped) > 0 {
		b.WriteString("\nSkipped:\n")
		for _, row := range sum.Skipped {
			fmt.Fprintf(&b, "  %s\n", row.Word)
		}
	}
	if len(sum.Right) > 0 {
		fmt.Fprintf(&b, "\nRight: %s\n", strings.Join(sum.Right, ", "))
	}
	fmt.Fprintf(&b, "\nPractice again: %s\n", baseURL)
	return b.String()
}

// SendResults emails a finished run's summary to toEmail
func (m *ResultsMailer) SendResults(ctx context.Context, toEmail string, sum quiz.Summary) error {
	if !m.enabled {
		log.Printf("Skipping email send (service disabled): results to %s", toEmail)
		return nil
	}

	var html bytes.Buffer
	err := resultsEmailTemplate.Execute(&html, struct {
		Summary quiz.Summary
		BaseURL string
	}{sum, m.appBaseURL})
	if err != nil {
		return fmt.Errorf("failed to render results email: %w", err)
	}

	subject := fmt.Sprintf("%s quiz results: %d out of %d", sum.QuizType, sum.Correct, sum.Total)
	return m.sendEmail(ctx, toEmail, subject, html.String(), resultsText(sum, m.appBaseURL))
}

func (m *ResultsMailer) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := m.fromEmail
	if m.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
	}

	if m.debug {
		log.Printf("[DEBUG] Sending email: from=%s, to=%s, subject=%s", fromAddress, toEmail, subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(textBody), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	result, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if m.debug && result.MessageId != nil {
		log.Printf("[DEBUG] Message ID: %s", *result.MessageId)
	}
	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
