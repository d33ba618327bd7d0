package notify

import (
	"context"
	"fmt"
	"strings"
)

// MXResolver checks that a domain can receive mail. It is optional:
// when no resolver is wired in, the MX gate is skipped entirely so a
// missing verification capability never blocks delivery.
type MXResolver interface {
	HasMX(ctx context.Context, domain string) bool
}

// ValidateRecipient runs the delivery gate and returns a human-readable
// rejection reason, or "" when the address may be sent to.
func (d *Dispatcher) ValidateRecipient(ctx context.Context, addr string) string {
	local, domain, ok := splitAddress(addr)
	if !ok {
		return fmt.Sprintf("invalid email address %q", addr)
	}
	_ = local

	domain = strings.ToLower(domain)
	for _, blocked := range d.cfg.BlockedDomains {
		if domain == blocked {
			return fmt.Sprintf("domain %s is a placeholder domain", domain)
		}
	}

	allowed := false
	for _, a := range d.cfg.AllowedDomains {
		if domain == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Sprintf("domain %s is not a trusted provider", domain)
	}

	if d.resolver != nil && !d.resolver.HasMX(ctx, domain) {
		return fmt.Sprintf("domain %s has no mail exchanger", domain)
	}

	if d.mailer == nil {
		return "mail transport not configured"
	}
	return ""
}

// splitAddress enforces the structural rules: exactly one @, non-empty
// local and domain parts, and a dot somewhere in the domain.
func splitAddress(addr string) (local, domain string, ok bool) {
	parts := strings.Split(addr, "@")
	if len(parts) != 2 {
		return "", "", false
	}
	local, domain = parts[0], parts[1]
	if local == "" || domain == "" || !strings.Contains(domain, ".") {
		return "", "", false
	}
	return local, domain, true
}
