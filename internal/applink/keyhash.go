// Package applink implements the mobile shell's diagnostics contract: the
// base64 SHA-1 key hash of each app-signing certificate, registered with
// third-party OAuth consoles, and structured logging of deep-link events.
package applink

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/pem"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// KeyHash computes the OAuth key hash for one signing certificate: the
// base64-encoded SHA-1 digest of the raw certificate bytes.
func KeyHash(cert []byte) string {
	sum := sha1.Sum(cert)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// KeyHashes computes the key hash of every signing certificate.
func KeyHashes(certs [][]byte) []string {
	hashes := make([]string, 0, len(certs))
	for _, cert := range certs {
		hashes = append(hashes, KeyHash(cert))
	}
	return hashes
}

// LoadCertificates reads signing certificates from disk. PEM files are
// decoded to their DER payload; anything else is treated as raw DER.
// Per-file failures are accumulated so one unreadable file does not hide
// the rest.
func LoadCertificates(paths ...string) ([][]byte, error) {
	var certs [][]byte
	var errs error
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if block, _ := pem.Decode(data); block != nil {
			data = block.Bytes
		}
		certs = append(certs, data)
	}
	return certs, errs
}

// DeepLink is the payload of an app-open event.
type DeepLink struct {
	Action string
	Data   string
}

// LogDeepLink reports a deep-link event for diagnostics, tagged with the
// lifecycle phase that delivered it.
func LogDeepLink(phase string, link DeepLink) {
	logrus.WithFields(logrus.Fields{
		"phase":  phase,
		"action": link.Action,
		"data":   link.Data,
	}).Info("deep link")
}
