package attestation

import (
	"github.com/acurast/attestation-core/chain"
	"github.com/acurast/attestation-core/keydescription"
	"github.com/acurast/attestation-core/pubkey"
	"github.com/acurast/attestation-core/x509"
)

// KeyDescription is the decoded Android Key Attestation extension, one of
// the seven schema variants keydescription.ExtractAttestation can return.
type KeyDescription = keydescription.KeyDescription

// CertificateID is the (issuer, serial) identity of one certificate in a
// validated chain.
type CertificateID = x509.CertificateID

// ValidateCertificateChainRoot fails unless chain is non-empty and its
// first certificate is byte-identical to one of the compiled-in trusted
// Android Key Attestation roots.
func ValidateCertificateChainRoot(certs [][]byte) error {
	return chain.ValidateCertificateChainRoot(certs)
}

// ValidateCertificateChain walks certs left to right, verifying every
// certificate's signature against the certificate that precedes it, and
// returns the CertificateID of each certificate along with the leaf's
// TBSCertificate and public key.
func ValidateCertificateChain(certs [][]byte) ([]CertificateID, *x509.TBSCertificate, *pubkey.PublicKey, error) {
	return chain.ValidateCertificateChain(certs)
}

// ExtractAttestation decodes the Android Key Attestation extension
// carried by leafTBS — typically the TBSCertificate returned by
// ValidateCertificateChain — into its versioned KeyDescription.
func ExtractAttestation(leafTBS *x509.TBSCertificate) (KeyDescription, error) {
	return keydescription.ExtractAttestation(leafTBS)
}
