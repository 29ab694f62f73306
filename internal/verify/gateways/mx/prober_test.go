package mx

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/ddverify/internal/verify/common/testutil"
	"github.com/haukened/ddverify/internal/verify/domain"
)

func TestNewProber_RequiresServers(t *testing.T) {
	_, err := NewProber(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), errNoServersProvided)
}

func TestNewProber_DefaultTimeout(t *testing.T) {
	p, err := NewProber(Options{Servers: []string{"127.0.0.1:53"}})
	require.NoError(t, err)
	assert.Equal(t, defaultTimeout, p.timeout)
}

func TestLookup_Statuses(t *testing.T) {
	stub := testutil.StartMXStub(t, map[string]testutil.MXBehavior{
		"mail.test":  testutil.MXAnswer,
		"nomx.test":  testutil.MXEmpty,
		"gone.test":  testutil.MXNXDomain,
		"broke.test": testutil.MXServFail,
		"slow.test":  testutil.MXSilent,
	})
	p, err := NewProber(Options{Servers: []string{stub.Addr}, Timeout: 200 * time.Millisecond})
	require.NoError(t, err)

	tests := []struct {
		name string
		want domain.MXStatus
	}{
		{"mail.test", domain.MXOK},
		{"nomx.test", domain.MXNoMX},
		{"gone.test", domain.MXNXDomain},
		{"unknown.test", domain.MXNXDomain},
		{"broke.test", domain.MXFailed},
		{"slow.test", domain.MXTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Lookup(context.Background(), tt.name))
		})
	}
}

func TestLookup_TruncatedRetriesOverTCP(t *testing.T) {
	stub := testutil.StartMXStub(t, map[string]testutil.MXBehavior{"big.test": testutil.MXTruncated})
	p, err := NewProber(Options{Servers: []string{stub.Addr}, Timeout: time.Second})
	require.NoError(t, err)

	assert.Equal(t, domain.MXOK, p.Lookup(context.Background(), "big.test"))
	assert.Equal(t, int64(1), stub.TCPQueries())
}

func TestLookup_FallsThroughToNextServer(t *testing.T) {
	broken := testutil.StartMXStub(t, map[string]testutil.MXBehavior{"mail.test": testutil.MXServFail})
	healthy := testutil.StartMXStub(t, map[string]testutil.MXBehavior{"mail.test": testutil.MXAnswer})

	p, err := NewProber(Options{Servers: []string{broken.Addr, healthy.Addr}, Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, domain.MXOK, p.Lookup(context.Background(), "mail.test"))
}

func TestLookup_NXDomainIsDefinitive(t *testing.T) {
	first := testutil.StartMXStub(t, map[string]testutil.MXBehavior{})
	second := testutil.StartMXStub(t, map[string]testutil.MXBehavior{"gone.test": testutil.MXAnswer})

	p, err := NewProber(Options{Servers: []string{first.Addr, second.Addr}, Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, domain.MXNXDomain, p.Lookup(context.Background(), "gone.test"))
}

func TestLookup_CanceledContext(t *testing.T) {
	p, err := NewProber(Options{Servers: []string{"127.0.0.1:1"}})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, domain.MXTimeout, p.Lookup(ctx, "mail.test"))
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyErr(t *testing.T) {
	var _ net.Error = timeoutErr{}
	assert.Equal(t, domain.MXTimeout, classifyErr(context.DeadlineExceeded))
	assert.Equal(t, domain.MXTimeout, classifyErr(timeoutErr{}))
	assert.Equal(t, domain.MXFailed, classifyErr(errors.New("connection refused")))
}
