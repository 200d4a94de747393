package audit

import "strings"

// PII masking applied before anything hits the log file. The shapes are
// fixed: jo***@example.com, ***-4567, J***.

func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return MaskName(email)
	}
	local, dom := email[:at], email[at+1:]
	if len(local) <= 2 {
		return local + "***@" + dom
	}
	return local[:2] + "***@" + dom
}

func MaskPhone(phone string) string {
	digits := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}
	if len(digits) < 4 {
		return "***"
	}
	return "***-" + string(digits[len(digits)-4:])
}

func MaskName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	r := []rune(name)
	return string(r[0]) + "***"
}
