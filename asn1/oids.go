package asn1

import "encoding/asn1"

// Object identifiers fixed by the Android Key Attestation format. Values
// match https://source.android.com/docs/security/keystore/attestation and
// the standard PKIX registrations for RSA/ECDSA signatures.
var (
	// OIDKeyAttestation is the extension OID Android keystores use to embed
	// a KeyDescription in the leaf certificate.
	OIDKeyAttestation = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 11129, 2, 1, 17}

	// OIDSignatureRSASHA256 identifies RSA-PKCS#1v1.5 with SHA-256.
	OIDSignatureRSASHA256 = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 11}
	// OIDSignatureECDSASHA256 identifies ECDSA with SHA-256.
	OIDSignatureECDSASHA256 = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 2}
	// OIDSignatureECDSASHA384 identifies ECDSA with SHA-384.
	OIDSignatureECDSASHA384 = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 3}

	// OIDPublicKeyRSA identifies an RSA SubjectPublicKeyInfo.
	OIDPublicKeyRSA = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}
	// OIDPublicKeyECDSA identifies an ECDSA SubjectPublicKeyInfo.
	OIDPublicKeyECDSA = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}

	// OIDCurveP256 identifies the NIST P-256 curve in an ECDSA
	// AlgorithmIdentifier's parameters field.
	OIDCurveP256 = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	// OIDCurveP384 identifies the NIST P-384 curve.
	OIDCurveP384 = asn1.ObjectIdentifier{1, 3, 132, 0, 34}
)
