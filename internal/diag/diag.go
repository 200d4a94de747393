// Package diag runs the connectivity checks behind `crelatectl diag`:
// DNS, TCP, TLS, then an authenticated probe, each reported separately so an
// operator can see exactly where the path breaks.
package diag

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"time"
)

type Step struct {
	Name     string        `json:"name"`
	OK       bool          `json:"ok"`
	Detail   string        `json:"detail,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

type Prober interface {
	Ping(ctx context.Context) error
}

func Run(ctx context.Context, endpoint string, client Prober) []Step {
	var steps []Step

	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return append(steps, Step{Name: "parse", Error: fmt.Sprintf("bad endpoint %q", endpoint)})
	}
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		if u.Scheme == "http" {
			port = "80"
		} else {
			port = "443"
		}
	}

	// DNS
	start := time.Now()
	addrs, err := net.DefaultResolver.LookupHost(ctx, host)
	step := Step{Name: "dns", Duration: time.Since(start)}
	if err != nil {
		step.Error = err.Error()
		return append(steps, step)
	}
	step.OK = true
	step.Detail = fmt.Sprintf("%s -> %v", host, addrs)
	steps = append(steps, step)

	// TCP
	start = time.Now()
	conn, err := (&net.Dialer{Timeout: 10 * time.Second}).DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	step = Step{Name: "tcp", Duration: time.Since(start)}
	if err != nil {
		step.Error = err.Error()
		return append(steps, step)
	}
	_ = conn.Close()
	step.OK = true
	step.Detail = "port " + port + " open"
	steps = append(steps, step)

	// TLS (skipped for plain http endpoints)
	if u.Scheme != "http" {
		start = time.Now()
		tconn, err := tls.DialWithDialer(&net.Dialer{Timeout: 10 * time.Second}, "tcp",
			net.JoinHostPort(host, port), &tls.Config{ServerName: host})
		step = Step{Name: "tls", Duration: time.Since(start)}
		if err != nil {
			step.Error = err.Error()
			return append(steps, step)
		}
		cs := tconn.ConnectionState()
		_ = tconn.Close()
		step.OK = true
		step.Detail = fmt.Sprintf("%s, %d certs", tls.VersionName(cs.Version), len(cs.PeerCertificates))
		steps = append(steps, step)
	}

	// Authenticated probe through the real client (exercises the auth
	// fallback chain exactly like an import would).
	start = time.Now()
	err = client.Ping(ctx)
	step = Step{Name: "auth", Duration: time.Since(start)}
	if err != nil {
		step.Error = err.Error()
	} else {
		step.OK = true
		step.Detail = "authenticated listing call succeeded"
	}
	return append(steps, step)
}
