package notification

// Built-in email templates for the MFA notices. Hosts may override them by
// re-registering the notice type with their own template.

const mfaCodeHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #f8f9fa; padding: 20px; text-align: center; border-radius: 8px;">
    <h2>Login Verification Code</h2>
  </div>
  <p>Hello {{.UserName}},</p>
  <p>Use the code below to finish signing in:</p>
  <div style="background-color: #e9ecef; border: 2px solid #dee2e6; border-radius: 8px; padding: 20px; text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</div>
  <p>This code expires in {{.ExpiryMinutes}} minutes. If you did not try to sign in, ignore this email.</p>
</body>
</html>`

const mfaCodeText = `Hello {{.UserName}},

Your login verification code is: {{.Code}}

This code expires in {{.ExpiryMinutes}} minutes. If you did not try to sign in, ignore this email.`

const backupCodesHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #f8f9fa; padding: 20px; text-align: center; border-radius: 8px;">
    <h2>Your Backup Codes</h2>
  </div>
  <p>Hello {{.UserName}},</p>
  <p>Store these single-use recovery codes somewhere safe. Each code works once:</p>
  <pre style="background-color: #e9ecef; border-radius: 8px; padding: 20px; font-size: 16px;">{{range .Codes}}{{.}}
{{end}}</pre>
  <p>Any previously issued backup codes no longer work.</p>
</body>
</html>`

const backupCodesText = `Hello {{.UserName}},

Store these single-use recovery codes somewhere safe. Each code works once:

{{range .Codes}}{{.}}
{{end}}
Any previously issued backup codes no longer work.`

// RegisterDefaultNotices wires the built-in email templates for the MFA
// notices onto the manager.
func RegisterDefaultNotices(nm *NotificationManager) error {
	if err := nm.RegisterNotice(EmailSystem, MFACodeNotice, NoticeTemplate{
		Subject: "Login Verification Code",
		Html:    mfaCodeHTML,
		Text:    mfaCodeText,
	}); err != nil {
		return err
	}
	return nm.RegisterNotice(EmailSystem, BackupCodesNotice, NoticeTemplate{
		Subject: "Your Backup Codes",
		Html:    backupCodesHTML,
		Text:    backupCodesText,
	})
}
