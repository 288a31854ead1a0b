// Package pubkey extracts a tagged public key — RSA or ECDSA over P-256
// or P-384 — from a parsed X.509 SubjectPublicKeyInfo, the way
// attestation.rs's PublicKey::parse does for the Rust implementation
// this module is modeled on.
package pubkey

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/asn1"
	"math/big"

	acurastasn1 "github.com/acurast/attestation-core/asn1"
	"github.com/acurast/attestation-core/verr"
	"github.com/acurast/attestation-core/x509"
	"github.com/pkg/errors"
)

// Algorithm identifies which variant of PublicKey is populated.
type Algorithm int

const (
	AlgorithmRSA Algorithm = iota
	AlgorithmECDSAP256
	AlgorithmECDSAP384
)

// RSAPublicKey is an RSA public key as a pair of unsigned big integers,
// matching RSAPublicKey ::= SEQUENCE { modulus INTEGER, exponent INTEGER }.
type RSAPublicKey struct {
	Modulus  *big.Int
	Exponent *big.Int
}

// asn1RSAPublicKey is the wire shape decoded from the SPKI bit-string body.
type asn1RSAPublicKey struct {
	Modulus  *big.Int
	Exponent *big.Int
}

// PublicKey is the tagged union spec.md describes: RSA{exponent, modulus}
// or ECDSA{curve}, where curve is P-256 or P-384.
type PublicKey struct {
	Algorithm Algorithm

	RSA *RSAPublicKey
	// ECDSA holds the affine point for both curve variants; Algorithm
	// tags which curve it is on. sigverify sizes the prehashed digest
	// from the bit size of this field's Curve.
	ECDSA *ecdsa.PublicKey
}

var (
	oidRSAPublicKey   = acurastasn1.OIDPublicKeyRSA
	oidECDSAPublicKey = acurastasn1.OIDPublicKeyECDSA
	oidCurveP256      = acurastasn1.OIDCurveP256
	oidCurveP384      = acurastasn1.OIDCurveP384
)

// Parse dispatches on spki.Algorithm.Algorithm and extracts the
// corresponding PublicKey, per spec.md §4.2.
func Parse(spki x509.SubjectPublicKeyInfo) (*PublicKey, error) {
	switch {
	case spki.Algorithm.Algorithm.Equal(oidRSAPublicKey):
		rsaKey, err := parseRSA(spki.PublicKey.RightAlign())
		if err != nil {
			return nil, err
		}
		return &PublicKey{Algorithm: AlgorithmRSA, RSA: rsaKey}, nil

	case spki.Algorithm.Algorithm.Equal(oidECDSAPublicKey):
		if len(spki.Algorithm.Parameters.FullBytes) == 0 {
			return nil, verr.New(verr.KindMissingECDSAAlgorithmTyp)
		}
		var curveOID asn1.ObjectIdentifier
		if _, err := asn1.Unmarshal(spki.Algorithm.Parameters.FullBytes, &curveOID); err != nil {
			return nil, verr.Wrap(verr.KindMissingECDSAAlgorithmTyp, err)
		}

		switch {
		case curveOID.Equal(oidCurveP256):
			return parseP256(spki.PublicKey.RightAlign())
		case curveOID.Equal(oidCurveP384):
			return parseP384(spki.PublicKey.RightAlign())
		default:
			return nil, verr.New(verr.KindUnsupportedSignatureAlgorithm)
		}

	default:
		return nil, verr.New(verr.KindUnsupportedPublicKeyAlgorithm)
	}
}

func parseRSA(body []byte) (*RSAPublicKey, error) {
	var parsed asn1RSAPublicKey
	rest, err := asn1.Unmarshal(body, &parsed)
	if err != nil {
		return nil, verr.Wrap(verr.KindParseError, errors.Wrap(err, "pubkey: parse RSAPublicKey"))
	}
	if len(rest) != 0 {
		return nil, verr.Wrap(verr.KindParseError, errors.New("pubkey: trailing bytes after RSAPublicKey"))
	}
	return &RSAPublicKey{
		Modulus:  new(big.Int).Abs(parsed.Modulus),
		Exponent: new(big.Int).Abs(parsed.Exponent),
	}, nil
}

// parseP256 decodes a SEC1-encoded uncompressed point on P-256.
func parseP256(sec1 []byte) (*PublicKey, error) {
	x, y := elliptic.Unmarshal(elliptic.P256(), sec1)
	if x == nil {
		return nil, verr.New(verr.KindParseP256PublicKey)
	}
	return &PublicKey{
		Algorithm: AlgorithmECDSAP256,
		ECDSA:     &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y},
	}, nil
}

// parseP384 decodes an uncompressed point on P-384 by hand: skip the
// leading 0x04 format byte and split the remainder into equal X/Y
// halves, per spec.md §4.2 and attestation.rs's PublicKey::parse.
func parseP384(encoded []byte) (*PublicKey, error) {
	if len(encoded) < 1 {
		return nil, verr.New(verr.KindParseP256PublicKey)
	}
	body := encoded[1:]
	if len(body)%2 != 0 || len(body) == 0 {
		return nil, verr.New(verr.KindParseP256PublicKey)
	}
	half := len(body) / 2
	x := new(big.Int).SetBytes(body[:half])
	y := new(big.Int).SetBytes(body[half:])

	curve := elliptic.P384()
	if !curve.IsOnCurve(x, y) {
		return nil, verr.New(verr.KindParseP256PublicKey)
	}
	return &PublicKey{
		Algorithm: AlgorithmECDSAP384,
		ECDSA:     &ecdsa.PublicKey{Curve: curve, X: x, Y: y},
	}, nil
}
