package net

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_sceneboard._tcp"

// Advertise publishes a hosted board on the local network. Call Shutdown on
// the returned server to withdraw it.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, []string{"SceneBoard"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	logger.Infof("advertising %s on port %d", serviceType, port)
	return server, nil
}

// Discover browses for hosted boards and returns their share links.
func Discover(timeout time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan []string)
	go func() {
		var links []string
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			links = append(links, ShareLink(e.AddrV4.String(), e.Port))
		}
		done <- links
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	links := <-done
	if err != nil {
		return links, fmt.Errorf("mDNS query: %w", err)
	}
	return links, nil
}
