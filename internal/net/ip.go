package net

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

const (
	LinkScheme = "sceneboard://"
	BoardPath  = "/board"
)

var ErrBadLink = errors.New("invalid board link")

// GetOutgoingIP finds the preferred local IP address for the host to share.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// no route out; fall back to the local interfaces
		return getLocalIPFallback()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

func getLocalIPFallback() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}
	logger.Warn("no suitable local IP found, share link may not work")
	return "127.0.0.1", nil
}

// ShareLink builds the link peers use to join a host.
func ShareLink(ip string, port int) string {
	return LinkScheme + net.JoinHostPort(ip, strconv.Itoa(port))
}

// ParseLink extracts host:port from a share link. A bare host:port is
// accepted too.
func ParseLink(link string) (string, error) {
	addr := strings.TrimPrefix(strings.TrimSpace(link), LinkScheme)
	addr = strings.TrimSuffix(addr, "/")
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrBadLink, link, err)
	}
	if host == "" {
		return "", fmt.Errorf("%w %q: missing host", ErrBadLink, link)
	}
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return "", fmt.Errorf("%w %q: bad port", ErrBadLink, link)
	}
	return net.JoinHostPort(host, port), nil
}

func boardURL(hostPort string) string {
	return "ws://" + hostPort + BoardPath
}
