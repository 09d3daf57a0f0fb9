package main

import (
	"fmt"
	"net"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
)

// connectionLimiter caps concurrent sessions per remote IP.
type connectionLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	limit  int
	logger *log.Logger
}

func newConnectionLimiter(limit int, logger *log.Logger) *connectionLimiter {
	return &connectionLimiter{
		counts: make(map[string]int),
		limit:  limit,
		logger: logger,
	}
}

func remoteIP(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.IP.String()
	}
	return addr.String()
}

// acquire takes a slot for ip and reports the count including it. A limit of
// zero or less disables the check.
func (l *connectionLimiter) acquire(ip string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.limit > 0 && l.counts[ip] >= l.limit {
		return l.counts[ip] + 1, false
	}
	l.counts[ip]++
	return l.counts[ip], true
}

func (l *connectionLimiter) release(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[ip]--
	if l.counts[ip] <= 0 {
		delete(l.counts, ip)
		return 0
	}
	return l.counts[ip]
}

func (l *connectionLimiter) Middleware(next ssh.Handler) ssh.Handler {
	return func(s ssh.Session) {
		ip := remoteIP(s.RemoteAddr())

		count, ok := l.acquire(ip)
		if !ok {
			l.logger.Warn("Connection denied: IP limit exceeded", "ip", ip, "attempted_count", count, "current_limit", l.limit)
			fmt.Fprintf(s, "Too many active connections from your IP (%d/%d). Please try again later.\r\n", count, l.limit)
			s.Close()
			return
		}
		l.logger.Info("Connection accepted", "ip", ip, "current_count", count, "limit", l.limit)

		defer func() {
			l.logger.Info("Connection closed", "ip", ip, "count_after", l.release(ip))
		}()
		next(s)
	}
}
