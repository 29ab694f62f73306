// Package testutil hosts in-process collaborators for gateway and service tests.
package testutil

import (
	"fmt"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/miekg/dns"
)

// MXBehavior is how the stub answers an MX question for one name.
type MXBehavior int

const (
	MXAnswer    MXBehavior = iota // one MX record
	MXEmpty                       // NOERROR with no answers
	MXNXDomain                    // NXDOMAIN
	MXServFail                    // SERVFAIL
	MXSilent                      // never replies
	MXTruncated                   // TC bit over UDP, full answer over TCP
)

// DNSStub hosts UDP and TCP DNS servers on the same port.
type DNSStub struct {
	Addr      string
	udpServer *dns.Server
	tcpServer *dns.Server
	tcpHits   atomic.Int64
}

// TCPQueries reports how many questions arrived over TCP.
func (s *DNSStub) TCPQueries() int64 { return s.tcpHits.Load() }

// StartMXStub starts a DNS server answering MX questions by name. Names not in
// behaviors get NXDOMAIN.
func StartMXStub(t *testing.T, behaviors map[string]MXBehavior) *DNSStub {
	t.Helper()

	udpConn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}
	addr := fmt.Sprintf("127.0.0.1:%d", udpConn.LocalAddr().(*net.UDPAddr).Port)

	tcpListener, err := net.Listen("tcp", addr)
	if err != nil {
		_ = udpConn.Close()
		t.Fatalf("listen tcp: %v", err)
	}

	stub := &DNSStub{Addr: addr}
	handler := stub.handler(behaviors)
	stub.udpServer = &dns.Server{PacketConn: udpConn, Handler: handler}
	stub.tcpServer = &dns.Server{Listener: tcpListener, Handler: handler}

	errCh := make(chan error, 2)
	go func() { errCh <- stub.udpServer.ActivateAndServe() }()
	go func() { errCh <- stub.tcpServer.ActivateAndServe() }()

	if err := waitForTCP(addr); err != nil {
		stub.Close()
		t.Fatalf("wait for dns stub: %v", err)
	}
	t.Cleanup(stub.Close)
	return stub
}

// Close shuts down the DNS stub servers.
func (s *DNSStub) Close() {
	if s.tcpServer != nil {
		_ = s.tcpServer.Shutdown()
	}
	if s.udpServer != nil {
		_ = s.udpServer.Shutdown()
	}
}

func (s *DNSStub) handler(behaviors map[string]MXBehavior) dns.Handler {
	return dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
		reply := new(dns.Msg)
		if r == nil || len(r.Question) == 0 {
			reply.Rcode = dns.RcodeFormatError
			_ = w.WriteMsg(reply)
			return
		}
		reply.SetReply(r)
		reply.RecursionAvailable = true

		overTCP := w.RemoteAddr().Network() == "tcp"
		if overTCP {
			s.tcpHits.Add(1)
		}

		q := r.Question[0]
		behavior, ok := behaviors[strings.ToLower(strings.TrimSuffix(q.Name, "."))]
		if !ok {
			behavior = MXNXDomain
		}
		switch behavior {
		case MXSilent:
			return
		case MXNXDomain:
			reply.Rcode = dns.RcodeNameError
		case MXServFail:
			reply.Rcode = dns.RcodeServerFailure
		case MXEmpty:
		case MXTruncated:
			if !overTCP {
				reply.Truncated = true
				break
			}
			reply.Answer = append(reply.Answer, MXRecord(q.Name, "mx1."+q.Name))
		default:
			reply.Answer = append(reply.Answer, MXRecord(q.Name, "mx1."+q.Name))
		}
		_ = w.WriteMsg(reply)
	})
}

// MXRecord creates an MX record with a standard TTL.
func MXRecord(name, host string) dns.RR {
	return &dns.MX{
		Hdr: dns.RR_Header{
			Name:   dns.Fqdn(name),
			Rrtype: dns.TypeMX,
			Class:  dns.ClassINET,
			Ttl:    60,
		},
		Preference: 10,
		Mx:         dns.Fqdn(host),
	}
}

func waitForTCP(addr string) error {
	var lastErr error
	for i := 0; i < 20; i++ {
		conn, err := net.DialTimeout("tcp", addr, 50*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		lastErr = err
		time.Sleep(10 * time.Millisecond)
	}
	return lastErr
}
