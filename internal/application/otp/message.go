package otp

import (
	"fmt"
	"time"
)

const otpSubject = "Your OTP (Valid for 10 Minutes)"

func otpBody(username, code string, ttl time.Duration) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <p>Hello %s,</p>
  <p>Your OTP code is:</p>
  <p style="font-size: 36px; font-weight: bold; letter-spacing: 4px;">%s</p>
  <p>This code will expire in <strong>%d minutes</strong>.</p>
  <p>If you did not request this code, please ignore this email.</p>
</body>
</html>`, username, code, int(ttl.Minutes()))
}
