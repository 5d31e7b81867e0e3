package mail

import (
	"bytes"
	"html/template"
)

const layout = `{{define "layout"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9f9f9;">
{{template "content" .}}
</div>{{end}}`

const welcomeTmpl = `{{define "content"}}<h1 style="color: #333; text-align: center;">Welcome {{.Name}}!</h1>
<div style="background-color: white; padding: 20px; border-radius: 5px;">
<p style="color: #666;">Thank you for joining GoFix. Please verify your email by clicking the button below:</p>
<p style="text-align: center; margin: 30px 0;"><a href="{{.URL}}" style="padding: 12px 24px; background-color: #007bff; color: white; text-decoration: none; border-radius: 5px;">Verify Email</a></p>
<p style="color: #999; font-size: 12px; text-align: center;">If the button doesn't work, copy this link into your browser: {{.URL}}</p>
</div>{{end}}`

const resetTmpl = `{{define "content"}}<h1 style="color: #333; text-align: center;">Password Reset Request</h1>
<div style="background-color: white; padding: 20px; border-radius: 5px;">
<p style="color: #666;">You requested to reset your password. Click the button below to choose a new one:</p>
<p style="text-align: center; margin: 30px 0;"><a href="{{.URL}}" style="padding: 12px 24px; background-color: #007bff; color: white; text-decoration: none; border-radius: 5px;">Reset Password</a></p>
<p style="color: #999; font-size: 12px; text-align: center;">If you didn't request this, ignore this email. The link expires in {{.Expires}}.</p>
</div>{{end}}`

const adminTmpl = `{{define "content"}}<h2 style="color: #333; text-align: center;">New Service Provider Registration</h2>
<div style="background-color: white; padding: 20px; border-radius: 5px;">
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Business Name:</strong> {{.BusinessName}}</p>
<p><strong>Service Type:</strong> {{or .ServiceType "N/A"}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{or .PhoneNumber "N/A"}}</p>
</div>{{end}}`

const requestTmpl = `{{define "content"}}<h2>New Service Request</h2>
<p>Hello {{.ProfessionalName}},</p>
<p>You have received a new service request for: {{.ServiceName}}</p>
{{if .RequesterName}}<p><strong>From:</strong> {{.RequesterName}}{{if .RequesterEmail}} ({{.RequesterEmail}}){{end}}</p>{{end}}
{{if .Message}}<p>{{.Message}}</p>{{end}}
<p>Please log in to your account to view more details and respond to this request.</p>
<p>Best regards,<br>The GoFix Team</p>{{end}}`

var (
	welcomeTemplate = mustTemplate("welcome", welcomeTmpl)
	resetTemplate   = mustTemplate("reset", resetTmpl)
	adminTemplate   = mustTemplate("admin", adminTmpl)
	requestTemplate = mustTemplate("request", requestTmpl)
)

func mustTemplate(name, content string) *template.Template {
	return template.Must(template.Must(template.New(name).Parse(layout)).Parse(content))
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
