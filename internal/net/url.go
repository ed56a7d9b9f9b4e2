package net

import (
	"net"
	"strconv"
)

// BridgeURL returns the websocket URL other machines on the LAN use to
// reach a bridge listening on port.
func BridgeURL(port int) string {
	return "ws://" + net.JoinHostPort(lanAddr(), strconv.Itoa(port)) + BridgePath
}

// lanAddr picks the address the host is reachable at: the source address
// of the default route, else the first non-loopback IPv4 interface
// address, else loopback. The UDP dial sends no packets.
func lanAddr() string {
	if conn, err := net.Dial("udp", "8.8.8.8:80"); err == nil {
		defer conn.Close()
		if a, ok := conn.LocalAddr().(*net.UDPAddr); ok && !a.IP.IsUnspecified() {
			return a.IP.String()
		}
	}
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, a := range addrs {
		if n, ok := a.(*net.IPNet); ok && !n.IP.IsLoopback() && n.IP.To4() != nil {
			return n.IP.String()
		}
	}
	return "127.0.0.1"
}
