package mailer

import (
	"fmt"
	"strings"
	"time"

	"github.com/flop2top/sharma-and-associates/internal/models"
)

const (
	officeBlock = `Sharma & Associates
123 Legal Complex, 5th Floor
Connaught Place, New Delhi 110001
Phone: +91 11 1234 5678`

	htmlHeader = `<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.header { background: #1a365d; color: white; padding: 20px; text-align: center; }
.content { padding: 20px; }
.details { background: #e8f4f8; padding: 20px; border-radius: 8px; margin: 20px 0; }
.footer { text-align: center; padding: 20px; font-size: 12px; color: #666; background: #f8f9fa; }
</style>
</head>
<body>`

	htmlFooter = `<div class="footer"><p>This email is confidential and protected by attorney-client privilege.</p></div>
</body>
</html>`
)

// InquiryFirmAlert is the internal notification for a new inquiry.
func InquiryFirmAlert(inq *models.Inquiry, from Address, firmEmail string) Message {
	subject := fmt.Sprintf("New Legal Inquiry - %s (%s)", inq.LegalMatter, strings.ToUpper(string(inq.Urgency)))

	var b strings.Builder
	fmt.Fprintf(&b, "NEW LEGAL INQUIRY - %s\n\n", inq.ID)
	fmt.Fprintf(&b, "Client: %s %s\n", inq.FirstName, inq.LastName)
	fmt.Fprintf(&b, "Email: %s\n", inq.Email)
	fmt.Fprintf(&b, "Phone: %s\n", inq.Phone)
	if inq.City != nil {
		fmt.Fprintf(&b, "Location: %s\n", *inq.City)
	}
	fmt.Fprintf(&b, "Legal Matter: %s\n", inq.LegalMatter)
	fmt.Fprintf(&b, "Urgency: %s\n", strings.ToUpper(string(inq.Urgency)))
	if inq.HearAbout != nil {
		fmt.Fprintf(&b, "Referred by: %s\n", *inq.HearAbout)
	}
	fmt.Fprintf(&b, "\nMessage:\n%s\n", inq.Message)
	fmt.Fprintf(&b, "\nSubmitted: %s\n", inq.CreatedAt.Format(time.RFC1123))
	b.WriteString("\nPlease respond within 24 hours as per firm policy.\n")

	html := htmlHeader +
		fmt.Sprintf(`<div class="header"><h1>New Legal Inquiry</h1><p>Inquiry ID: %s</p></div>`, inq.ID) +
		`<div class="content"><pre>` + b.String() + `</pre></div>` + htmlFooter

	return Message{
		From:    from,
		To:      []Address{{Email: firmEmail, Name: "Sharma & Associates"}},
		Subject: subject,
		HTML:    html,
		Text:    b.String(),
	}
}

// InquiryClientConfirmation acknowledges the inquiry to the client.
func InquiryClientConfirmation(inq *models.Inquiry, from Address) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", inq.FirstName)
	fmt.Fprintf(&b, "Thank you for contacting Sharma & Associates regarding your %s matter.\n\n",
		strings.ToLower(inq.LegalMatter))
	b.WriteString("INQUIRY DETAILS:\n")
	fmt.Fprintf(&b, "ID: %s\n", inq.ID)
	fmt.Fprintf(&b, "Legal Matter: %s\n", inq.LegalMatter)
	fmt.Fprintf(&b, "Urgency: %s\n", inq.Urgency)
	fmt.Fprintf(&b, "Submitted: %s\n\n", inq.CreatedAt.Format(time.RFC1123))
	b.WriteString("WHAT HAPPENS NEXT:\n")
	b.WriteString("1. Our legal team will review your inquiry within 24 hours\n")
	b.WriteString("2. We will contact you to schedule your free consultation\n")
	b.WriteString("3. During consultation, we'll discuss your case and options\n\n")
	b.WriteString(officeBlock + "\n\n")
	b.WriteString("Best regards,\nSharma & Associates Legal Team\n")

	html := htmlHeader +
		`<div class="header"><h1>Thank You for Contacting Us</h1><p>Sharma &amp; Associates</p></div>` +
		`<div class="content"><pre>` + b.String() + `</pre></div>` + htmlFooter

	return Message{
		From:    from,
		To:      []Address{{Email: inq.Email, Name: inq.FirstName + " " + inq.LastName}},
		Subject: "Thank you for contacting Sharma & Associates - We will be in touch soon",
		HTML:    html,
		Text:    b.String(),
	}
}

// AppointmentClientConfirmation confirms a booked appointment to the client.
func AppointmentClientConfirmation(apt *models.Appointment, from Address) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", apt.ClientName)
	b.WriteString("Your appointment has been confirmed with Sharma & Associates.\n\n")
	b.WriteString("APPOINTMENT DETAILS:\n")
	fmt.Fprintf(&b, "Type: %s\n", apt.AppointmentType)
	fmt.Fprintf(&b, "Date: %s\n", apt.ScheduledDate)
	fmt.Fprintf(&b, "Time: %s\n", apt.ScheduledTime)
	fmt.Fprintf(&b, "Duration: %d minutes\n", apt.Duration)
	fmt.Fprintf(&b, "Location: %s\n", apt.Location)
	if apt.Attorney != nil {
		fmt.Fprintf(&b, "Attorney: %s\n", *apt.Attorney)
	}
	b.WriteString("\nWHAT TO BRING:\n")
	b.WriteString("- Valid photo ID\n")
	b.WriteString("- Relevant documents related to your case\n")
	b.WriteString("- List of questions you'd like to discuss\n\n")
	b.WriteString("OFFICE LOCATION:\n" + officeBlock + "\n\n")
	b.WriteString("Please arrive 15 minutes early for your appointment.\n")
	b.WriteString("If you need to reschedule or cancel, please contact us at least 24 hours in advance.\n\n")
	b.WriteString("Best regards,\nSharma & Associates Team\n")

	html := htmlHeader +
		`<div class="header"><h1>Appointment Confirmed</h1><p>Sharma &amp; Associates</p></div>` +
		`<div class="content"><pre>` + b.String() + `</pre></div>` + htmlFooter

	return Message{
		From:    from,
		To:      []Address{{Email: apt.ClientEmail, Name: apt.ClientName}},
		Subject: "Appointment Confirmation - Sharma & Associates",
		HTML:    html,
		Text:    b.String(),
	}
}

// AppointmentFirmAlert notifies the firm of a new booking.
func AppointmentFirmAlert(apt *models.Appointment, from Address, firmEmail string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "NEW APPOINTMENT - %s\n\n", apt.ID)
	fmt.Fprintf(&b, "Client: %s\n", apt.ClientName)
	fmt.Fprintf(&b, "Email: %s\n", apt.ClientEmail)
	fmt.Fprintf(&b, "Phone: %s\n", apt.ClientPhone)
	fmt.Fprintf(&b, "Type: %s\n", apt.AppointmentType)
	fmt.Fprintf(&b, "Date: %s at %s (%d minutes)\n", apt.ScheduledDate, apt.ScheduledTime, apt.Duration)
	fmt.Fprintf(&b, "Location: %s\n", apt.Location)
	if apt.Notes != "" {
		fmt.Fprintf(&b, "\nNotes:\n%s\n", apt.Notes)
	}

	return Message{
		From:    from,
		To:      []Address{{Email: firmEmail, Name: "Sharma & Associates"}},
		Subject: fmt.Sprintf("New Appointment Scheduled - %s", apt.AppointmentType),
		Text:    b.String(),
	}
}

// AppointmentReminder nudges the client a day before their appointment.
func AppointmentReminder(apt *models.Appointment, from Address) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", apt.ClientName)
	fmt.Fprintf(&b, "This is a reminder of your appointment with Sharma & Associates tomorrow, %s at %s.\n\n",
		apt.ScheduledDate, apt.ScheduledTime)
	b.WriteString("OFFICE LOCATION:\n" + officeBlock + "\n\n")
	b.WriteString("Please arrive 15 minutes early. If you need to reschedule, contact us as soon as possible.\n\n")
	b.WriteString("Best regards,\nSharma & Associates Team\n")

	return Message{
		From:    from,
		To:      []Address{{Email: apt.ClientEmail, Name: apt.ClientName}},
		Subject: "Appointment Reminder - Sharma & Associates",
		Text:    b.String(),
	}
}
