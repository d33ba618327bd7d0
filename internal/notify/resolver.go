package notify

import (
	"context"
	"net"
	"time"
)

// DNSResolver answers the MX gate with real DNS lookups.
type DNSResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

func NewDNSResolver() *DNSResolver {
	return &DNSResolver{resolver: net.DefaultResolver, timeout: 5 * time.Second}
}

func (r *DNSResolver) HasMX(ctx context.Context, domain string) bool {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	records, err := r.resolver.LookupMX(ctx, domain)
	return err == nil && len(records) > 0
}
