package email

import (
	"fmt"
	"html"
)

// Invite builds the account-invite mail sent when an administrator creates
// a login for a new operator. The temporary password is included in the
// body; the recipient is forced to replace it on first login.
func Invite(to, from, replyTo, tempPassword string) SendRequest {
	body := fmt.Sprintf(
		`<p>An account has been created for you on the ID card admin system.</p>
<p>Temporary password: <strong>%s</strong></p>
<p>You will be asked to choose a new password the first time you sign in.</p>`,
		html.EscapeString(tempPassword))

	return SendRequest{
		To:      []string{to},
		From:    from,
		ReplyTo: replyTo,
		Subject: "Your ID card admin account",
		HTML:    body,
	}
}
