package templates

import (
	"fmt"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
)

// InvitationEmail builds the invite message carrying the deep link with the
// opaque token.
func InvitationEmail(invitation *entity.Invitation, link string) *entity.OutboundEmail {
	roleLabel := labelize(invitation.Role)
	expires := invitation.ExpiresAt.Format("January 2, 2006")

	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #1a1a2e;">You're invited</h2>
<p>Hi %s,</p>
<p>You have been invited to join SleepySquid Drones as a <strong>%s</strong>.</p>
<p style="margin: 24px 0;"><a href="%s" style="background: #16213e; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Accept invitation</a></p>
<p style="color: #666;">This link expires on %s. If you weren't expecting it, you can ignore this email.</p>
</div>`, invitation.Name, roleLabel, link, expires)

	text := fmt.Sprintf(
		"Hi %s,\n\nYou have been invited to join SleepySquid Drones as a %s.\n\nAccept: %s\n\nThis link expires on %s.\n",
		invitation.Name, roleLabel, link, expires)

	return &entity.OutboundEmail{
		To:       invitation.Email,
		Subject:  "Your SleepySquid Drones invitation",
		HTMLBody: html,
		TextBody: text,
	}
}

// VerificationEmail builds the verify-your-address message for credential
// signups.
func VerificationEmail(user *entity.User, link string) *entity.OutboundEmail {
	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #1a1a2e;">Verify your email</h2>
<p>Hi %s,</p>
<p>Confirm your address to activate your SleepySquid Drones account.</p>
<p style="margin: 24px 0;"><a href="%s" style="background: #16213e; color: #fff; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Verify email</a></p>
<p style="color: #666;">The link is valid for 24 hours.</p>
</div>`, user.Name, link)

	text := fmt.Sprintf("Hi %s,\n\nConfirm your address: %s\n\nThe link is valid for 24 hours.\n", user.Name, link)

	return &entity.OutboundEmail{
		To:       user.Email,
		Subject:  "Verify your SleepySquid Drones email",
		HTMLBody: html,
		TextBody: text,
	}
}

// ContactEmail forwards a contact-form submission to the inbox.
func ContactEmail(inbox, name, email, message string) *entity.OutboundEmail {
	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif;">
<h3>New contact form message</h3>
<p><strong>From:</strong> %s &lt;%s&gt;</p>
<p>%s</p>
</div>`, name, email, message)

	return &entity.OutboundEmail{
		To:       inbox,
		Subject:  fmt.Sprintf("Contact form: %s", name),
		HTMLBody: html,
		TextBody: fmt.Sprintf("From: %s <%s>\n\n%s\n", name, email, message),
	}
}
