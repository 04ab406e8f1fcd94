package notification

import (
	"context"
	"fmt"
)

// Notifier composes the transactional messages this system sends and fans
// them out over both channels. Results are returned, not swallowed, so
// callers can report delivery flags to the client.
type Notifier struct {
	email EmailSender
	sms   SMSSender
}

func NewNotifier(email EmailSender, sms SMSSender) *Notifier {
	return &Notifier{email: email, sms: sms}
}

// OrganizationInvite sends the invite link to both contact points.
func (n *Notifier) OrganizationInvite(ctx context.Context, email, mobile, inviteLink string) (EmailResult, SMSResult) {
	subject := "You're invited to create your organization"
	plain := fmt.Sprintf("You have been invited to set up your organization. Complete your registration here: %s\nThe link expires in 48 hours.", inviteLink)
	html := fmt.Sprintf(`<p>You have been invited to set up your organization.</p>
<p><a href="%s">Complete your registration</a></p>
<p>The link expires in 48 hours.</p>`, inviteLink)

	er := n.email.Send(ctx, email, "", subject, plain, html)

	var sr SMSResult
	if mobile != "" {
		sr = n.sms.Send(ctx, mobile, fmt.Sprintf("Complete your organization registration: %s (expires in 48 hours)", inviteLink))
	}
	return er, sr
}

// OrganizationWelcome confirms a successful invite redemption.
func (n *Notifier) OrganizationWelcome(ctx context.Context, email, orgName, loginLink string) EmailResult {
	subject := fmt.Sprintf("Welcome, %s", orgName)
	plain := fmt.Sprintf("Your organization %s has been created. Log in at %s", orgName, loginLink)
	html := fmt.Sprintf(`<p>Your organization <strong>%s</strong> has been created.</p>
<p><a href="%s">Log in to your dashboard</a></p>`, orgName, loginLink)
	return n.email.Send(ctx, email, orgName, subject, plain, html)
}

// EventCreated confirms a new event to its organizer and shares the public
// registration link behind the QR code.
func (n *Notifier) EventCreated(ctx context.Context, email, eventName, registrationLink string) EmailResult {
	subject := fmt.Sprintf("Event created: %s", eventName)
	plain := fmt.Sprintf("Your event %s has been created.\nVisitor registration link: %s", eventName, registrationLink)
	html := fmt.Sprintf(`<p>Your event <strong>%s</strong> has been created.</p>
<p>Visitor registration link: <a href="%s">%s</a></p>`, eventName, registrationLink, registrationLink)
	return n.email.Send(ctx, email, "", subject, plain, html)
}

// OrganizationCredentials delivers the generated login for an organization
// created directly by an administrator.
func (n *Notifier) OrganizationCredentials(ctx context.Context, email, mobile, orgName, password, loginLink string) (EmailResult, SMSResult) {
	subject := fmt.Sprintf("Your organization account: %s", orgName)
	plain := fmt.Sprintf("Your organization %s has been created.\nLogin: %s\nEmail: %s\nPassword: %s\n\nPlease change your password after first login.",
		orgName, loginLink, email, password)
	html := fmt.Sprintf(`<p>Your organization <strong>%s</strong> has been created.</p>
<p>Login: <a href="%s">%s</a><br>Email: %s<br>Password: <code>%s</code></p>
<p>Please change your password after first login.</p>`,
		orgName, loginLink, loginLink, email, password)

	er := n.email.Send(ctx, email, orgName, subject, plain, html)
	var sr SMSResult
	if mobile != "" {
		sr = n.sms.Send(ctx, mobile, fmt.Sprintf("Your organization %s is ready. Log in at %s with your emailed credentials.", orgName, loginLink))
	}
	return er, sr
}

// ExhibitorCredentials delivers the one-time generated password. The
// plaintext is never persisted; this message is its only copy.
func (n *Notifier) ExhibitorCredentials(ctx context.Context, email, companyName, eventName, password, loginLink string) (EmailResult, SMSResult) {
	subject := fmt.Sprintf("Your exhibitor account for %s", eventName)
	plain := fmt.Sprintf("Hello %s,\n\nYour exhibitor account for %s is ready.\nLogin: %s\nEmail: %s\nPassword: %s\n\nPlease change your password after first login.",
		companyName, eventName, loginLink, email, password)
	html := fmt.Sprintf(`<p>Hello %s,</p>
<p>Your exhibitor account for <strong>%s</strong> is ready.</p>
<p>Login: <a href="%s">%s</a><br>Email: %s<br>Password: <code>%s</code></p>
<p>Please change your password after first login.</p>`,
		companyName, eventName, loginLink, loginLink, email, password)

	er := n.email.Send(ctx, email, companyName, subject, plain, html)
	return er, SMSResult{}
}

// VisitorConfirmation sends the badge code over both channels.
func (n *Notifier) VisitorConfirmation(ctx context.Context, email, mobile, name, eventName, uniqueCode string) (EmailResult, SMSResult) {
	subject := fmt.Sprintf("Registration confirmed: %s", eventName)
	plain := fmt.Sprintf("Hi %s,\n\nYour registration for %s is confirmed.\nYour visitor code: %s\nShow this code at the entrance.", name, eventName, uniqueCode)
	html := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your registration for <strong>%s</strong> is confirmed.</p>
<p>Your visitor code: <strong>%s</strong></p>
<p>Show this code at the entrance.</p>`, name, eventName, uniqueCode)

	var er EmailResult
	if email != "" {
		er = n.email.Send(ctx, email, name, subject, plain, html)
	}
	var sr SMSResult
	if mobile != "" {
		sr = n.sms.Send(ctx, mobile, fmt.Sprintf("Registration confirmed for %s. Your visitor code: %s", eventName, uniqueCode))
	}
	return er, sr
}
