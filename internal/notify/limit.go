package notify

import (
	"net"
	"sync"
)

// slots caps spectators in total and per remote IP. Zero limits are off.
type slots struct {
	mu       sync.Mutex
	perIP    map[string]int
	total    int
	maxTotal int
	maxPerIP int
}

func newSlots(maxTotal, maxPerIP int) *slots {
	return &slots{perIP: make(map[string]int), maxTotal: maxTotal, maxPerIP: maxPerIP}
}

func (s *slots) acquire(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxTotal > 0 && s.total >= s.maxTotal {
		return false
	}
	if s.maxPerIP > 0 && s.perIP[ip] >= s.maxPerIP {
		return false
	}
	s.perIP[ip]++
	s.total++
	return true
}

func (s *slots) release(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.perIP[ip] == 0 {
		return
	}
	s.perIP[ip]--
	if s.perIP[ip] == 0 {
		delete(s.perIP, ip)
	}
	s.total--
}

func (s *slots) count(ip string) (total, forIP int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total, s.perIP[ip]
}

// remoteIP strips the port from an ip:port address.
func remoteIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
