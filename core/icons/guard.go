// ABOUTME: Request guard rejecting URLs that could reach internal network targets
// ABOUTME: Runs before every outbound request, including redirect hops and icon URLs

package icons

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	coreerrors "icons-api/core/errors"
	"icons-api/core/interfaces"
	"icons-api/pkg/netutil"
)

// Guard rejection reasons
const (
	ReasonScheme         = "scheme"
	ReasonPort           = "port"
	ReasonHost           = "host"
	ReasonResolve        = "resolve"
	ReasonPrivateAddress = "private-address"
)

var errNoAddresses = errors.New("no addresses")

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// Guard validates outbound URLs against scheme, port and address rules
type Guard struct {
	resolver interfaces.Resolver
}

// NewGuard creates a guard. A nil resolver means net.DefaultResolver.
func NewGuard(resolver interfaces.Resolver) *Guard {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &Guard{resolver: resolver}
}

// Allow reports whether u may be fetched
func (g *Guard) Allow(ctx context.Context, u *url.URL) bool {
	return g.Check(ctx, u) == nil
}

// Check returns nil if u may be fetched, or a *errors.BlockedError naming the
// first rule it breaks. Rules apply in order: scheme, port, host shape, DNS.
func (g *Guard) Check(ctx context.Context, u *url.URL) error {
	if u == nil {
		return &coreerrors.BlockedError{Reason: ReasonHost}
	}
	raw := u.String()

	defaultPort, ok := defaultPorts[u.Scheme]
	if !ok {
		return &coreerrors.BlockedError{URL: raw, Reason: ReasonScheme}
	}

	if port := u.Port(); port != "" && port != defaultPort {
		return &coreerrors.BlockedError{URL: raw, Reason: ReasonPort}
	}

	host := u.Hostname()
	if !strings.Contains(host, ".") || netutil.IsIPLiteral(host) {
		return &coreerrors.BlockedError{URL: raw, Reason: ReasonHost}
	}

	addrs, err := g.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return &coreerrors.BlockedError{URL: raw, Reason: ReasonResolve, Err: err}
	}
	if len(addrs) == 0 {
		return &coreerrors.BlockedError{URL: raw, Reason: ReasonResolve, Err: errNoAddresses}
	}
	for _, a := range addrs {
		if netutil.IsInternalIP(a.IP) {
			return &coreerrors.BlockedError{URL: raw, Reason: ReasonPrivateAddress}
		}
	}

	return nil
}
