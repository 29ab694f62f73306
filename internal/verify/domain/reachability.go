package domain

import "fmt"

// MXStatus is the outcome of an MX lookup for one list entry.
type MXStatus uint8

const (
	MXOK       MXStatus = iota // at least one MX record
	MXNXDomain                 // the name does not exist
	MXTimeout                  // no server answered in time
	MXNoMX                     // the name exists but has no MX records
	MXFailed                   // any other rcode or transport error
)

// Rune returns the single progress character printed for the status.
func (s MXStatus) Rune() rune {
	switch s {
	case MXOK:
		return '.'
	case MXNXDomain:
		return 'X'
	case MXTimeout:
		return 'T'
	case MXNoMX:
		return 'M'
	default:
		return 'F'
	}
}

func (s MXStatus) String() string {
	switch s {
	case MXOK:
		return "ok"
	case MXNXDomain:
		return "nxdomain"
	case MXTimeout:
		return "timeout"
	case MXNoMX:
		return "no_mx"
	case MXFailed:
		return "failed"
	default:
		return fmt.Sprintf("MXStatus(%d)", s)
	}
}
