package tracking

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		real   string
		remote string
		want   string
	}{
		{"first forwarded hop", "203.0.113.5, 10.0.0.1", "", "127.0.0.1:5000", "203.0.113.5"},
		{"single forwarded", "203.0.113.6", "", "127.0.0.1:5000", "203.0.113.6"},
		{"real ip header", "", "198.51.100.2", "127.0.0.1:5000", "198.51.100.2"},
		{"remote without port", "", "", "192.0.2.9:41234", "192.0.2.9"},
		{"ipv6 remote", "", "", "[2001:db8::1]:443", "2001:db8::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.real != "" {
				r.Header.Set("X-Real-Ip", tt.real)
			}
			assert.Equal(t, tt.want, ClientIP(r))
		})
	}
}
