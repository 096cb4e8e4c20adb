package checker

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"net"
	"strings"
	"time"

	sharedErrors "github.com/khanhnv2901/siteverify/internal/shared/errors"
)

// CertificateInfo describes the leaf certificate served for the audited host.
// When Err is set the handshake failed and no other field is meaningful.
type CertificateInfo struct {
	Host               string
	Issuer             map[string]string
	Subject            map[string]string
	Version            int
	NotBefore          time.Time
	NotAfter           time.Time
	DNSNames           []string
	IsKnownFreeCA      bool
	CoversTargetDomain bool
	Err                error
}

// Pass reports whether the certificate was issued by a trusted free CA and
// covers the audited host.
func (c CertificateInfo) Pass() bool {
	return c.Err == nil && c.IsKnownFreeCA && c.CoversTargetDomain
}

// InspectCertificate performs a TLS-only handshake against host:443 (no HTTP
// request) and introspects the peer certificate. The chain is verified against
// the system roots, so an untrusted or mismatched certificate is reported as a
// handshake error.
func (p *Prober) InspectCertificate(ctx context.Context, host string) CertificateInfo {
	ctx, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	addr := net.JoinHostPort(host, p.tlsPort())
	raw, err := p.dial(ctx, "tcp", addr)
	if err != nil {
		return CertificateInfo{Host: host, Err: fmt.Errorf("%w: dial %s: %v", sharedErrors.ErrTransport, addr, err)}
	}

	conn := tls.Client(raw, &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		RootCAs:    p.RootCAs,
	})
	defer conn.Close()

	if err := conn.HandshakeContext(ctx); err != nil {
		return CertificateInfo{Host: host, Err: fmt.Errorf("%w: %v", sharedErrors.ErrTLSHandshake, err)}
	}

	state := conn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return CertificateInfo{Host: host, Err: sharedErrors.ErrNoCertificate}
	}

	return AnalyzeCertificate(host, state.PeerCertificates[0], p.TrustedIssuers)
}

// AnalyzeCertificate derives CertificateInfo from a parsed leaf certificate.
func AnalyzeCertificate(host string, cert *x509.Certificate, trustedIssuers []string) CertificateInfo {
	info := CertificateInfo{
		Host:      host,
		Issuer:    nameFields(cert.Issuer),
		Subject:   nameFields(cert.Subject),
		Version:   cert.Version,
		NotBefore: cert.NotBefore,
		NotAfter:  cert.NotAfter,
		DNSNames:  append([]string(nil), cert.DNSNames...),
	}

	issuerOrg := info.Issuer["organizationName"]
	for _, trusted := range trustedIssuers {
		if trusted != "" && strings.Contains(issuerOrg, trusted) {
			info.IsKnownFreeCA = true
			break
		}
	}

	info.CoversTargetDomain = CoversDomain(host, cert.DNSNames)
	return info
}

// CoversDomain reports whether host is named exactly in dnsNames, or matches
// the wildcard formed by replacing host's leftmost label with "*".
func CoversDomain(host string, dnsNames []string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return false
	}

	wildcard := ""
	if i := strings.IndexByte(host, '.'); i > 0 {
		wildcard = "*" + host[i:]
	}

	for _, name := range dnsNames {
		name = strings.ToLower(strings.TrimSuffix(name, "."))
		if name == host || (wildcard != "" && name == wildcard) {
			return true
		}
	}
	return false
}

func nameFields(n pkix.Name) map[string]string {
	fields := make(map[string]string)
	set := func(key string, values []string) {
		if len(values) > 0 {
			fields[key] = strings.Join(values, ", ")
		}
	}

	set("countryName", n.Country)
	set("stateOrProvinceName", n.Province)
	set("localityName", n.Locality)
	set("organizationName", n.Organization)
	set("organizationalUnitName", n.OrganizationalUnit)
	if n.CommonName != "" {
		fields["commonName"] = n.CommonName
	}
	return fields
}
