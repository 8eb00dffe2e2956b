package discovery

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// BrowseTimeout is the default timeout for FindByInstance.
	// Default: 10 seconds.
	BrowseTimeout time.Duration

	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// ServiceTypes lists the DNS-SD service types to browse.
	// Default: raw-serial and telnet.
	ServiceTypes []string
}

// DefaultBrowserConfig returns the default browser configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		BrowseTimeout: BrowseTimeout,
		Interface:     "",
		ServiceTypes:  []string{ServiceTypeRawSerial, ServiceTypeTelnet},
	}
}

// Browser browses the local network for serial-over-network bridges.
type Browser struct {
	config BrowserConfig

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewBrowser creates a new mDNS bridge browser.
func NewBrowser(config BrowserConfig) *Browser {
	if len(config.ServiceTypes) == 0 {
		config.ServiceTypes = []string{ServiceTypeRawSerial, ServiceTypeTelnet}
	}
	if config.BrowseTimeout <= 0 {
		config.BrowseTimeout = BrowseTimeout
	}
	return &Browser{config: config}
}

// Browse searches for bridges on all configured service types.
// Announcements are aggregated by instance name, so a bridge visible on
// several interfaces yields one entry with all its addresses. The returned
// channel is closed when the context is cancelled.
func (b *Browser) Browse(ctx context.Context) (<-chan *Bridge, error) {
	if len(b.config.ServiceTypes) == 0 {
		return nil, ErrNoServiceType
	}

	ctx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()

	out := make(chan *Bridge)

	var wg sync.WaitGroup
	for _, serviceType := range b.config.ServiceTypes {
		wg.Add(1)
		go func(serviceType string) {
			defer wg.Done()
			b.browseService(ctx, serviceType, out)
		}(serviceType)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

// FindByInstance searches for a bridge with the given mDNS instance name.
// Returns when found, or ErrNotFound after the configured browse timeout.
func (b *Browser) FindByInstance(ctx context.Context, instance string) (*Bridge, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.BrowseTimeout)
	defer cancel()

	results, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}

	for {
		select {
		case bridge, ok := <-results:
			if !ok {
				return nil, ErrNotFound
			}
			if bridge.InstanceName == instance {
				return bridge, nil
			}
		case <-ctx.Done():
			return nil, ErrNotFound
		}
	}
}

// Stop cancels any active Browse operation.
func (b *Browser) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

// browseService runs one zeroconf browse for a single service type and
// feeds aggregated results into out.
func (b *Browser) browseService(ctx context.Context, serviceType string, out chan<- *Bridge) {
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	opts := b.browserOptions()

	go func() {
		_ = zeroconf.Browse(ctx, serviceType, Domain, entries, removed, opts...)
	}()

	// Track bridges by instance name, aggregating addresses across
	// interfaces.
	bridges := make(map[string]*Bridge)

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return
			}
			bridge := entryToBridge(entry, serviceType)
			if bridge == nil {
				continue
			}

			existing, found := bridges[bridge.InstanceName]
			if found {
				existing.Addresses = mergeAddresses(existing.Addresses, bridge.Addresses)
				continue
			}

			bridges[bridge.InstanceName] = bridge
			select {
			case out <- bridge:
			case <-ctx.Done():
				return
			}

		case entry, ok := <-removed:
			if !ok {
				continue
			}
			if existing, found := bridges[entry.Instance]; found {
				existing.Addresses = removeAddresses(existing.Addresses, entry)
				if len(existing.Addresses) == 0 {
					delete(bridges, entry.Instance)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

// browserOptions returns zeroconf client options based on config.
func (b *Browser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToBridge converts a zeroconf entry to a Bridge.
func entryToBridge(entry *zeroconf.ServiceEntry, serviceType string) *Bridge {
	if entry.Port <= 0 {
		return nil
	}

	info := decodeBridgeTXT(entry.Text)

	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &Bridge{
		InstanceName: entry.Instance,
		Service:      serviceType,
		Host:         entry.HostName,
		Port:         uint16(entry.Port),
		Addresses:    addrs,
		Name:         info.Name,
		Model:        info.Model,
		Serial:       info.Serial,
	}
}

// mergeAddresses adds new addresses to the existing list, avoiding duplicates.
func mergeAddresses(existing, found []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}

	for _, addr := range found {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// removeAddresses removes the addresses carried by a goodbye entry.
func removeAddresses(addresses []string, entry *zeroconf.ServiceEntry) []string {
	toRemove := make(map[string]bool)
	for _, ip := range entry.AddrIPv4 {
		toRemove[ip.String()] = true
	}
	for _, ip := range entry.AddrIPv6 {
		toRemove[ip.String()] = true
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !toRemove[addr] {
			result = append(result, addr)
		}
	}
	return result
}
