// Package x509 decodes the narrow slice of X.509 that Android Key
// Attestation certificate chains use: a Certificate/TBSCertificate shape
// with a SubjectPublicKeyInfo and an Android-specific extension, built on
// top of the standard library's encoding/asn1 rather than a hand-rolled
// TLV walker.
//
// Parsed structures borrow from the []byte passed to ParseCertificate:
// callers must not reuse or overwrite that buffer until every value
// derived from the returned *Certificate (including any KeyDescription
// decoded from its extensions) has been fully consumed.
package x509

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// SubjectPublicKeyInfo mirrors the X.509 SubjectPublicKeyInfo SEQUENCE.
//
//	SubjectPublicKeyInfo ::= SEQUENCE {
//	  algorithm        AlgorithmIdentifier,
//	  subjectPublicKey BIT STRING
//	}
type SubjectPublicKeyInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

// TBSCertificate is the to-be-signed body of a certificate. Raw preserves
// its exact wire bytes (tag, length, and content) as they appeared in the
// input — this is the payload every non-root certificate's signature is
// computed over.
type TBSCertificate struct {
	Raw []byte

	SerialNumber *big.Int
	// RawIssuer is the full re-encodable DER of the issuer Name, used
	// verbatim (never re-parsed into attribute/value pairs) as the
	// issuer half of a CertificateID.
	RawIssuer []byte
	// Signature is the TBSCertificate's own copy of the signature
	// algorithm identifier; spec.md requires this to match the outer
	// Certificate.SignatureAlgorithm exactly.
	Signature     pkix.AlgorithmIdentifier
	PublicKeyInfo SubjectPublicKeyInfo
	Extensions    []pkix.Extension

	// Subject, NotBefore and NotAfter are parsed for caller diagnostics
	// only. Nothing in this module ever reads them to make a validation
	// decision: there is no validity-window or name-constraint checking.
	Subject             pkix.Name
	NotBefore, NotAfter time.Time
}

// Certificate is an X.509 Certificate ::= SEQUENCE { tbsCertificate,
// signatureAlgorithm, signatureValue }.
type Certificate struct {
	Raw                []byte
	RawTBSCertificate  []byte
	SignatureAlgorithm pkix.AlgorithmIdentifier
	SignatureValue     asn1.BitString

	TBSCertificate TBSCertificate
}

// asn1Certificate captures the outer shape with the TBSCertificate field
// left as raw content, the way the teacher's ParseCertificate recovers
// the exact wire bytes of a sub-structure: parsing the same certificate
// twice — once structurally, once for its raw byte span — is preferable
// to threading byte offsets by hand.
type asn1Certificate struct {
	Raw                asn1.RawContent
	TBSCertificate     asn1.RawValue
	SignatureAlgorithm pkix.AlgorithmIdentifier
	SignatureValue     asn1.BitString
}

type asn1TBSCertificate struct {
	Raw          asn1.RawContent
	Version      int `asn1:"optional,explicit,default:0,tag:0"`
	SerialNumber *big.Int
	Signature    pkix.AlgorithmIdentifier
	Issuer       asn1.RawValue
	Validity     struct {
		NotBefore, NotAfter time.Time
	}
	Subject         asn1.RawValue
	PublicKeyInfo   SubjectPublicKeyInfo
	IssuerUniqueID  asn1.BitString   `asn1:"optional,tag:1"`
	SubjectUniqueID asn1.BitString   `asn1:"optional,tag:2"`
	Extensions      []pkix.Extension `asn1:"optional,explicit,tag:3"`
}

// ParseCertificate decodes a single DER-encoded X.509 certificate.
//
// The returned *Certificate borrows from der: its Raw/RawTBSCertificate
// fields and RawIssuer are slices into der, not copies (extension values
// are copied out by encoding/asn1). Keep der alive for as long as the
// returned value is in use.
func ParseCertificate(der []byte) (*Certificate, error) {
	var raw asn1Certificate
	rest, err := asn1.Unmarshal(der, &raw)
	if err != nil {
		return nil, fmt.Errorf("x509: parse certificate: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("x509: %d trailing bytes after certificate", len(rest))
	}

	var tbs asn1TBSCertificate
	if _, err := asn1.Unmarshal(raw.TBSCertificate.FullBytes, &tbs); err != nil {
		return nil, fmt.Errorf("x509: parse tbsCertificate: %w", err)
	}

	var subject pkix.Name
	var subjectRDN pkix.RDNSequence
	if _, err := asn1.Unmarshal(tbs.Subject.FullBytes, &subjectRDN); err != nil {
		return nil, fmt.Errorf("x509: parse subject: %w", err)
	}
	subject.FillFromRDNSequence(&subjectRDN)

	cert := &Certificate{
		Raw:                der,
		RawTBSCertificate:  raw.TBSCertificate.FullBytes,
		SignatureAlgorithm: raw.SignatureAlgorithm,
		SignatureValue:     raw.SignatureValue,
		TBSCertificate: TBSCertificate{
			Raw:           []byte(tbs.Raw),
			SerialNumber:  tbs.SerialNumber,
			RawIssuer:     tbs.Issuer.FullBytes,
			Signature:     tbs.Signature,
			PublicKeyInfo: tbs.PublicKeyInfo,
			Extensions:    tbs.Extensions,
			Subject:       subject,
			NotBefore:     tbs.Validity.NotBefore,
			NotAfter:      tbs.Validity.NotAfter,
		},
	}
	return cert, nil
}

// CertificateID is the X.509-standard (issuer, serial number) unique
// identifier for a certificate. Unlike every other structure in this
// package, a CertificateID owns its bytes and outlives the input buffer
// ParseCertificate borrowed from.
type CertificateID struct {
	Issuer       []byte
	SerialNumber []byte
}

// UniqueID builds the CertificateID for tbs, copying the issuer DER and
// serial-number bytes out of the borrowed input buffer.
func UniqueID(tbs *TBSCertificate) CertificateID {
	issuer := make([]byte, len(tbs.RawIssuer))
	copy(issuer, tbs.RawIssuer)

	var serial []byte
	if tbs.SerialNumber != nil {
		serial = tbs.SerialNumber.Bytes()
	}
	return CertificateID{Issuer: issuer, SerialNumber: serial}
}

// String renders a CertificateID as "<hex issuer>:<hex serial>", a stable
// key suitable for maps and log lines.
func (id CertificateID) String() string {
	return fmt.Sprintf("%s:%s", hex.EncodeToString(id.Issuer), hex.EncodeToString(id.SerialNumber))
}
