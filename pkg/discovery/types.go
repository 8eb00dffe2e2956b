package discovery

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"
)

// Service type constants for mDNS.
const (
	// ServiceTypeRawSerial is announced by bridges that map a raw TCP
	// socket onto the serial port.
	ServiceTypeRawSerial = "_raw-serial._tcp"

	// ServiceTypeTelnet is announced by telnet-capable bridges.
	ServiceTypeTelnet = "_telnet._tcp"

	// Domain is the mDNS domain.
	Domain = "local"
)

// TXT record key constants. All keys are optional on bridge announcements.
const (
	TXTKeyName   = "name"   // User-assigned bridge name
	TXTKeyModel  = "model"  // Bridge hardware model
	TXTKeySerial = "serial" // Bridge serial number
)

// BrowseTimeout is the default timeout for mDNS browsing.
const BrowseTimeout = 10 * time.Second

// Discovery errors.
var (
	ErrNotFound      = errors.New("service not found")
	ErrNoServiceType = errors.New("no service type to browse")
)

// Bridge describes a discovered serial-over-network bridge.
type Bridge struct {
	// InstanceName is the mDNS instance name of the announcement.
	InstanceName string

	// Service is the DNS-SD service type the bridge was found under.
	Service string

	// Host is the mDNS host name.
	Host string

	// Port is the TCP port the serial channel is mapped to.
	Port uint16

	// Addresses holds the IP addresses the bridge was seen on,
	// aggregated across interfaces.
	Addresses []string

	// Name, Model and Serial come from optional TXT records and may
	// be empty.
	Name   string
	Model  string
	Serial string
}

// Addr returns a host:port address suitable for transport.Dial.
// The first discovered IP address is preferred over the mDNS host name.
func (b *Bridge) Addr() string {
	host := b.Host
	if len(b.Addresses) > 0 {
		host = b.Addresses[0]
	}
	return net.JoinHostPort(host, strconv.Itoa(int(b.Port)))
}

// bridgeTXT holds the decoded optional TXT fields.
type bridgeTXT struct {
	Name   string
	Model  string
	Serial string
}

// decodeBridgeTXT parses key=value TXT strings. Bare keys and unknown keys
// are ignored.
func decodeBridgeTXT(txt []string) bridgeTXT {
	var info bridgeTXT
	for _, record := range txt {
		key, value, found := strings.Cut(record, "=")
		if !found {
			continue
		}
		switch key {
		case TXTKeyName:
			info.Name = value
		case TXTKeyModel:
			info.Model = value
		case TXTKeySerial:
			info.Serial = value
		}
	}
	return info
}

// FilterFunc is a function that filters browse results.
type FilterFunc func(*Bridge) bool

// FilterByModel returns a filter that matches bridges with any of the
// given TXT model values.
func FilterByModel(models ...string) FilterFunc {
	modelSet := make(map[string]struct{})
	for _, m := range models {
		modelSet[m] = struct{}{}
	}

	return func(b *Bridge) bool {
		_, ok := modelSet[b.Model]
		return ok
	}
}

// FilterBrowseResults filters a channel of discovered bridges.
func FilterBrowseResults(in <-chan *Bridge, filter FilterFunc) <-chan *Bridge {
	out := make(chan *Bridge)
	go func() {
		defer close(out)
		for b := range in {
			if filter(b) {
				out <- b
			}
		}
	}()
	return out
}
