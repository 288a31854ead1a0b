// Package attestation validates Android Key Attestation certificate
// chains: it decodes a chain of DER X.509 certificates, confirms the
// root is one of Google's published trusted roots, verifies every
// signature down the chain against the certificate that actually
// precedes it, and extracts the versioned KeyDescription attestation
// extension from the leaf.
//
// # Validating a chain
//
//	if err := attestation.ValidateCertificateChainRoot(chain); err != nil {
//	    return err
//	}
//	ids, leafTBS, leafKey, err := attestation.ValidateCertificateChain(chain)
//	if err != nil {
//	    return err
//	}
//	keyDesc, err := attestation.ExtractAttestation(leafTBS)
//
// # Scope
//
// This is not a general-purpose X.509 library: there is no revocation
// checking, no validity-window enforcement, no name-constraint or policy
// processing, and only RSA-SHA256 and ECDSA-SHA256/SHA384 over P-256 and
// P-384 are supported — exactly what Android attestation chains use.
package attestation
