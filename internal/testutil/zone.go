package testutil

import (
	"strings"
	"sync"
	"testing"

	"github.com/miekg/dns"
)

// Zone is a tiny authoritative-style dns.Handler for tests. It answers only
// with records of exactly the queried type and never chases CNAMEs, so a
// resolver under test has to do that itself.
//
// Names without records reply NXDOMAIN. Names with records but none of the
// queried type reply NOERROR with an empty answer. Silent names get no reply
// at all.
type Zone struct {
	mu      sync.Mutex
	records map[string][]dns.RR
	silent  map[string]bool
	queries []string
}

// NewZone parses each line as a resource record in zone file syntax,
// e.g. "host.test. 60 IN AAAA 2001:db8::1".
func NewZone(t *testing.T, rrs ...string) *Zone {
	t.Helper()

	z := &Zone{records: make(map[string][]dns.RR), silent: make(map[string]bool)}
	for _, s := range rrs {
		rr, err := dns.NewRR(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		name := strings.ToLower(rr.Header().Name)
		z.records[name] = append(z.records[name], rr)
	}
	return z
}

// Silence makes the zone drop every query for name.
func (z *Zone) Silence(name string) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.silent[strings.ToLower(dns.Fqdn(name))] = true
}

// Queries returns "name TYPE" for each query received, in order.
func (z *Zone) Queries() []string {
	z.mu.Lock()
	defer z.mu.Unlock()
	return append([]string(nil), z.queries...)
}

func (z *Zone) ServeDNS(w dns.ResponseWriter, req *dns.Msg) {
	if len(req.Question) != 1 {
		m := new(dns.Msg)
		m.SetRcode(req, dns.RcodeFormatError)
		_ = w.WriteMsg(m)
		return
	}
	q := req.Question[0]
	name := strings.ToLower(q.Name)

	z.mu.Lock()
	z.queries = append(z.queries, name+" "+dns.TypeToString[q.Qtype])
	silent := z.silent[name]
	rrs, known := z.records[name]
	z.mu.Unlock()

	if silent {
		return
	}

	m := new(dns.Msg)
	m.SetReply(req)
	m.Authoritative = true
	if !known {
		m.Rcode = dns.RcodeNameError
	}
	for _, rr := range rrs {
		if rr.Header().Rrtype == q.Qtype {
			m.Answer = append(m.Answer, dns.Copy(rr))
		}
	}
	_ = w.WriteMsg(m)
}
