// Package chain walks an Android Key Attestation certificate chain,
// checking that the root is one of the compiled-in trusted Google roots
// and that every subsequent certificate's signature verifies against the
// public key carried by the certificate before it — never falling back
// to treating a certificate as self-signed past index 0.
package chain

import (
	"github.com/acurast/attestation-core/pubkey"
	"github.com/acurast/attestation-core/roots"
	"github.com/acurast/attestation-core/sigverify"
	"github.com/acurast/attestation-core/verr"
	"github.com/acurast/attestation-core/x509"
	"github.com/pkg/errors"
)

const (
	// MaxChainLength is the largest number of certificates a chain may
	// contain. Bounds are caller-enforced and checked before any parsing.
	MaxChainLength = 5
	// MaxCertificateBytes is the largest DER encoding one certificate in
	// the chain may have.
	MaxCertificateBytes = 3000
)

// CheckBounds rejects a chain before any byte of it is parsed: it must
// contain between 1 and MaxChainLength certificates, each no larger than
// MaxCertificateBytes.
func CheckBounds(chain [][]byte) error {
	if len(chain) == 0 || len(chain) > MaxChainLength {
		return verr.New(verr.KindChainTooShort)
	}
	for _, der := range chain {
		if len(der) > MaxCertificateBytes {
			return verr.New(verr.KindCertificateTooLarge)
		}
	}
	return nil
}

// ValidateCertificateChainRoot checks that chain satisfies CheckBounds and
// that chain[0]'s raw bytes are byte-identical to one of the trusted root
// certificates — never issuer/subject comparison.
func ValidateCertificateChainRoot(chain [][]byte) error {
	if err := CheckBounds(chain); err != nil {
		return err
	}
	if !roots.IsTrusted(chain[0]) {
		return verr.New(verr.KindUntrustedRoot)
	}
	return nil
}

// ValidateCertificateChain walks chain left to right, threading the
// issuing public key forward so that every certificate past the root is
// verified against the certificate that actually precedes it — the
// root's key is substituted only on the first iteration, and never
// reused again, which is what stops a self-signed forgery inserted
// mid-chain from validating.
//
// It returns the CertificateID of every certificate in the chain (in
// order), the leaf's TBSCertificate, and the leaf's public key.
func ValidateCertificateChain(chain [][]byte) ([]x509.CertificateID, *x509.TBSCertificate, *pubkey.PublicKey, error) {
	if err := CheckBounds(chain); err != nil {
		return nil, nil, nil, err
	}

	var prevPbk *pubkey.PublicKey
	var lastCert *x509.Certificate
	var lastPbk *pubkey.PublicKey
	ids := make([]x509.CertificateID, 0, len(chain))

	for i, der := range chain {
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			return nil, nil, nil, verr.Wrap(verr.KindParseError, errors.Wrapf(err, "chain: parse certificate %d", i))
		}

		currentPbk, err := pubkey.Parse(cert.TBSCertificate.PublicKeyInfo)
		if err != nil {
			return nil, nil, nil, err
		}

		verifierPbk := currentPbk
		if prevPbk != nil {
			verifierPbk = prevPbk
		}
		if err := sigverify.Verify(cert, cert.RawTBSCertificate, verifierPbk); err != nil {
			return nil, nil, nil, err
		}

		ids = append(ids, x509.UniqueID(&cert.TBSCertificate))

		prevPbk = currentPbk
		lastCert = cert
		lastPbk = currentPbk
	}

	if lastCert == nil {
		return nil, nil, nil, verr.New(verr.KindChainTooShort)
	}
	if lastPbk == nil {
		return nil, nil, nil, verr.New(verr.KindMissingPublicKey)
	}

	return ids, &lastCert.TBSCertificate, lastPbk, nil
}
