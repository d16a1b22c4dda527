package net

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// LinkScheme prefixes share links handed to other participants.
const LinkScheme = "localboard://"

// routeTarget is only used to ask the kernel which source address it would
// route from. Dialing UDP sends nothing.
const routeTarget = "192.0.2.1:9"

// HostLink is the share link for roomID on a relay listening on port of
// this machine.
func HostLink(port int, roomID string) string {
	return ShareLink(lanIP().String(), port, roomID)
}

// lanIP picks the address other machines on the LAN most likely reach this
// one on: the source of the default route, else the first IPv4 address of
// an interface that is up.
func lanIP() net.IP {
	if conn, err := net.Dial("udp4", routeTarget); err == nil {
		defer conn.Close()
		if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok && !addr.IP.IsLoopback() {
			return addr.IP
		}
	}
	return firstIPv4()
}

// firstIPv4 returns the first non-loopback IPv4 address of an interface
// that is up.
func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}

// ShareLink builds the link another participant opens to join roomID on
// the relay at ip:port.
func ShareLink(ip string, port int, roomID string) string {
	return LinkScheme + net.JoinHostPort(ip, strconv.Itoa(port)) + "/" + roomID
}

// ParseShareLink splits a share link into the relay address and the room.
// A link without a room yields defaultRoom.
func ParseShareLink(link, defaultRoom string) (addr, roomID string, err error) {
	rest, ok := strings.CutPrefix(link, LinkScheme)
	if !ok {
		return "", "", fmt.Errorf("not a %s link: %q", LinkScheme, link)
	}
	addr, roomID, _ = strings.Cut(strings.TrimSuffix(rest, "/"), "/")
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", "", fmt.Errorf("bad relay address in %q: %w", link, err)
	}
	if roomID == "" {
		roomID = defaultRoom
	}
	return addr, roomID, nil
}
