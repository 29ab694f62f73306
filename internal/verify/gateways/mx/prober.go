package mx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/miekg/dns"

	"github.com/haukened/ddverify/internal/verify/common/log"
	"github.com/haukened/ddverify/internal/verify/domain"
)

const (
	errNoServersProvided = "no DNS servers provided"
	defaultTimeout       = time.Second
)

// exchanger is the part of *dns.Client the prober uses.
type exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, address string) (*dns.Msg, time.Duration, error)
}

// Prober sends MX queries to a fixed list of recursive resolvers.
type Prober struct {
	servers []string
	timeout time.Duration
	udp     exchanger
	tcp     exchanger
	logger  log.Logger
}

type Options struct {
	// Servers are resolver addresses in ip:port form, tried in order.
	Servers []string
	// Timeout applies to each query; defaults to one second.
	Timeout time.Duration
	Logger  log.Logger
}

func NewProber(opts Options) (*Prober, error) {
	if len(opts.Servers) == 0 {
		return nil, errors.New(errNoServersProvided)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	return &Prober{
		servers: opts.Servers,
		timeout: opts.Timeout,
		udp:     &dns.Client{Net: "udp", Timeout: opts.Timeout},
		tcp:     &dns.Client{Net: "tcp", Timeout: opts.Timeout},
		logger:  opts.Logger,
	}, nil
}

// Lookup classifies name by its MX records. Servers are tried in order until
// one gives a definitive answer (NOERROR or NXDOMAIN); otherwise the status
// from the last server is returned.
func (p *Prober) Lookup(ctx context.Context, name string) domain.MXStatus {
	q := new(dns.Msg)
	q.SetQuestion(dns.Fqdn(name), dns.TypeMX)
	q.RecursionDesired = true

	status := domain.MXFailed
	for _, server := range p.servers {
		if ctx.Err() != nil {
			return domain.MXTimeout
		}
		resp, err := p.exchange(ctx, q, server)
		if err != nil {
			status = classifyErr(err)
			p.logger.Debug(map[string]any{
				"name":   name,
				"server": server,
				"error":  err.Error(),
			}, "mx query failed")
			continue
		}
		switch resp.Rcode {
		case dns.RcodeNameError:
			return domain.MXNXDomain
		case dns.RcodeSuccess:
			if countMX(resp) > 0 {
				return domain.MXOK
			}
			return domain.MXNoMX
		default:
			status = domain.MXFailed
			p.logger.Debug(map[string]any{
				"name":   name,
				"server": server,
				"rcode":  dns.RcodeToString[resp.Rcode],
			}, "mx query refused")
		}
	}
	return status
}

// exchange sends q over UDP, retrying over TCP when the answer was truncated.
func (p *Prober) exchange(ctx context.Context, q *dns.Msg, server string) (*dns.Msg, error) {
	qctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, _, err := p.udp.ExchangeContext(qctx, q, server)
	if err != nil {
		return nil, err
	}
	if !resp.Truncated {
		return resp, nil
	}

	tctx, tcancel := context.WithTimeout(ctx, p.timeout)
	defer tcancel()
	resp, _, err = p.tcp.ExchangeContext(tctx, q, server)
	if err != nil {
		return nil, fmt.Errorf("tcp retry: %w", err)
	}
	return resp, nil
}

func countMX(m *dns.Msg) int {
	n := 0
	for _, rr := range m.Answer {
		if _, ok := rr.(*dns.MX); ok {
			n++
		}
	}
	return n
}

func classifyErr(err error) domain.MXStatus {
	var nerr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return domain.MXTimeout
	case errors.As(err, &nerr) && nerr.Timeout():
		return domain.MXTimeout
	default:
		return domain.MXFailed
	}
}
