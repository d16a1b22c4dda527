package net

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const ServiceType = "_roomboard._tcp"

// Relay is a relay found on the local network.
type Relay struct {
	Instance string
	Addr     string
	Room     string
}

// Advertiser announces a relay over mDNS until shut down.
type Advertiser struct {
	server *mdns.Server
	log    *slog.Logger
}

// Advertise announces the relay listening on port, with roomID as the
// default room in the TXT record.
func Advertise(port int, roomID string, log *slog.Logger) (*Advertiser, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	info := []string{"room=" + roomID, "app=roomboard"}
	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, []net.IP{lanIP()}, info)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	log.Info("advertising relay", "service", ServiceType, "port", port, "room", roomID)
	return &Advertiser{server: server, log: log}, nil
}

func (a *Advertiser) Shutdown() error {
	a.log.Debug("mdns advertisement stopped")
	return a.server.Shutdown()
}

// Browse lists the relays that answer within timeout.
func Browse(ctx context.Context, timeout time.Duration) ([]Relay, error) {
	entries := make(chan *mdns.ServiceEntry, 16)
	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	errc := make(chan error, 1)
	go func() {
		errc <- mdns.Query(params)
		close(entries)
	}()

	seen := make(map[string]bool)
	var relays []Relay
	for {
		select {
		case e, ok := <-entries:
			if !ok {
				if err := <-errc; err != nil {
					return relays, fmt.Errorf("mdns query: %w", err)
				}
				return relays, nil
			}
			r, ok := relayFromEntry(e)
			if ok && !seen[r.Addr] {
				seen[r.Addr] = true
				relays = append(relays, r)
			}
		case <-ctx.Done():
			go func() {
				for range entries {
				}
			}()
			return relays, ctx.Err()
		}
	}
}

func relayFromEntry(e *mdns.ServiceEntry) (Relay, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return Relay{}, false
	}
	r := Relay{
		Instance: strings.TrimSuffix(e.Name, "."+ServiceType+".local."),
		Addr:     net.JoinHostPort(e.AddrV4.String(), strconv.Itoa(e.Port)),
	}
	for _, field := range e.InfoFields {
		if v, ok := strings.CutPrefix(field, "room="); ok {
			r.Room = v
		}
	}
	return r, true
}
