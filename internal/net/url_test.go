package net

import (
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgeURL(t *testing.T) {
	u, err := url.Parse(BridgeURL(9000))
	require.NoError(t, err)
	assert.Equal(t, "ws", u.Scheme)
	assert.Equal(t, "9000", u.Port())
	assert.Equal(t, BridgePath, u.Path)
	assert.NotNil(t, net.ParseIP(u.Hostname()), "host is an IP address")
}
