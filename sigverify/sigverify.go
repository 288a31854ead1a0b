// Package sigverify checks a certificate's signatureValue against the
// tbsCertificate bytes it was computed over, using the issuing
// certificate's public key. It implements exactly the three algorithms
// Android attestation chains use — it is not a general-purpose signature
// library.
package sigverify

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/asn1"
	"math/big"

	acurastasn1 "github.com/acurast/attestation-core/asn1"
	"github.com/acurast/attestation-core/pubkey"
	"github.com/acurast/attestation-core/util"
	"github.com/acurast/attestation-core/verr"
	"github.com/acurast/attestation-core/x509"
	"github.com/pkg/errors"
)

// Verify checks that cert.SignatureValue is a valid signature by signer
// over tbsPayload — the exact DER bytes of cert.TBSCertificate.
//
// Per spec.md §4.3, the check first requires the outer and inner copies
// of the signature algorithm OID to agree before dispatching on that OID.
func Verify(cert *x509.Certificate, tbsPayload []byte, signer *pubkey.PublicKey) error {
	if !cert.SignatureAlgorithm.Algorithm.Equal(cert.TBSCertificate.Signature.Algorithm) {
		return verr.New(verr.KindSignatureMismatch)
	}

	sigBytes := cert.SignatureValue.RightAlign()

	switch {
	case cert.SignatureAlgorithm.Algorithm.Equal(acurastasn1.OIDSignatureRSASHA256):
		if signer.Algorithm != pubkey.AlgorithmRSA {
			return verr.New(verr.KindUnsupportedPublicKeyAlgorithm)
		}
		return verifyRSA(tbsPayload, sigBytes, signer.RSA)

	case cert.SignatureAlgorithm.Algorithm.Equal(acurastasn1.OIDSignatureECDSASHA256):
		if signer.Algorithm == pubkey.AlgorithmRSA {
			return verr.New(verr.KindUnsupportedPublicKeyAlgorithm)
		}
		digest := sha256.Sum256(tbsPayload)
		return verifyECDSA(signer, digest[:], sigBytes)

	case cert.SignatureAlgorithm.Algorithm.Equal(acurastasn1.OIDSignatureECDSASHA384):
		if signer.Algorithm == pubkey.AlgorithmRSA {
			return verr.New(verr.KindUnsupportedPublicKeyAlgorithm)
		}
		digest := sha512.Sum384(tbsPayload)
		return verifyECDSA(signer, digest[:], sigBytes)

	default:
		return verr.New(verr.KindUnsupportedSignatureAlgorithm)
	}
}

// verifyRSA implements the deliberately minimalistic PKCS#1 v1.5 check
// spec.md §4.3 calls for: raise the signature to the public exponent
// modulo the public modulus and byte-compare the trailing SHA-256(payload)
// bytes of the result, ignoring the DigestInfo prefix and padding bytes
// entirely.
func verifyRSA(payload, sig []byte, key *pubkey.RSAPublicKey) error {
	s := new(big.Int).SetBytes(sig)
	computed := new(big.Int).Exp(s, key.Exponent, key.Modulus).Bytes()

	digest := sha256.Sum256(payload)
	if len(computed) < len(digest) {
		return verr.New(verr.KindInvalidSignature)
	}
	trailing := computed[len(computed)-len(digest):]

	if !util.ConstantTimeCompare(trailing, digest[:]) {
		return verr.New(verr.KindInvalidSignature)
	}
	return nil
}

// verifyECDSA fits digest to the curve's field size — truncating an
// oversize digest to its leftmost bytes, or left-padding an undersize one
// with zeroes — and verifies the DER-encoded signature against the
// prehashed value. This single rule covers all four curve/hash
// combinations spec.md §4.3 enumerates: P-256/SHA-256 needs no
// adjustment, P-384/SHA-256 is left-padded, P-256/SHA-384 is truncated,
// and P-384/SHA-384 needs no adjustment.
func verifyECDSA(signer *pubkey.PublicKey, digest, derSignature []byte) error {
	var sig struct{ R, S *big.Int }
	if _, err := asn1.Unmarshal(derSignature, &sig); err != nil {
		return verr.Wrap(verr.KindInvalidSignatureEncoding, errors.Wrap(err, "sigverify: parse ECDSA signature"))
	}

	fieldSize := (signer.ECDSA.Curve.Params().BitSize + 7) / 8
	fitted := fitDigest(digest, fieldSize)

	if !ecdsa.Verify(signer.ECDSA, fitted, sig.R, sig.S) {
		return verr.New(verr.KindInvalidSignature)
	}
	return nil
}

func fitDigest(digest []byte, fieldSize int) []byte {
	if len(digest) >= fieldSize {
		return digest[:fieldSize]
	}
	return util.PadLeft(digest, fieldSize)
}
