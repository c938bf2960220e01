package audit

import "fmt"

const (
	maxEmailLength = 254
	ipHashLength   = 16
)

// ValidateEvent validates auth event payload fields before persistence.
func ValidateEvent(event Event) error {
	switch event.Kind {
	case KindRegistered, KindLoginSuccess, KindLoginFailure, KindRateLimited:
	default:
		return fmt.Errorf("unknown event kind %q", event.Kind)
	}
	if event.IPHash == "" {
		return fmt.Errorf("ip_hash is required")
	}
	if len(event.IPHash) != ipHashLength || !isHex(event.IPHash) {
		return fmt.Errorf("ip_hash must be %d hex chars", ipHashLength)
	}
	if event.OccurredAt <= 0 {
		return fmt.Errorf("occurred_at must be set")
	}
	if len(event.Email) > maxEmailLength {
		return fmt.Errorf("email too long")
	}
	return nil
}

func isHex(value string) bool {
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F') {
			continue
		}
		return false
	}
	return true
}
