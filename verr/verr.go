// Package verr defines the closed set of errors the attestation validator
// can return. Every error is fatal to the current call: nothing here is
// retried, and nothing is logged from within the core packages.
package verr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies one member of the closed ValidationError taxonomy.
type Kind int

const (
	// KindChainTooShort means the certificate chain had no elements, or
	// more than chain.MaxChainLength.
	KindChainTooShort Kind = iota
	// KindUntrustedRoot means the first certificate in the chain is not
	// byte-identical to one of the compiled-in trusted roots.
	KindUntrustedRoot
	// KindExtensionMissing means the leaf certificate carries no Android
	// Key Attestation extension.
	KindExtensionMissing
	// KindParseError means the input bytes are not well-formed DER, or
	// well-formed DER that does not match the expected shape.
	KindParseError
	// KindUnsupportedAttestationVersion means the extension declares an
	// attestationVersion this module does not know how to decode.
	KindUnsupportedAttestationVersion
	// KindMissingECDSAAlgorithmTyp means an ECDSA SubjectPublicKeyInfo had
	// no curve parameter.
	KindMissingECDSAAlgorithmTyp
	// KindParseP256PublicKey means the SEC1 point encoding for a P-256 or
	// P-384 key was malformed.
	KindParseP256PublicKey
	// KindUnsupportedPublicKeyAlgorithm means the SubjectPublicKeyInfo
	// algorithm OID is neither RSA nor ECDSA, or the key type doesn't
	// match what the signature algorithm requires.
	KindUnsupportedPublicKeyAlgorithm
	// KindUnsupportedSignatureAlgorithm means the certificate's signature
	// OID is none of RSA-SHA256, ECDSA-SHA256, ECDSA-SHA384, or the
	// ECDSA public key's curve OID is neither P-256 nor P-384.
	KindUnsupportedSignatureAlgorithm
	// KindSignatureMismatch means the outer signatureAlgorithm and the
	// TBSCertificate's inner signature field disagree.
	KindSignatureMismatch
	// KindInvalidSignatureEncoding means the signature bit string does
	// not decode as a valid ECDSA DER signature.
	KindInvalidSignatureEncoding
	// KindInvalidSignature means the signature was well-formed but does
	// not verify against the expected public key and payload.
	KindInvalidSignature
	// KindInvalidIssuer means the issuer distinguished name could not be
	// re-encoded while building a CertificateId.
	KindInvalidIssuer
	// KindMissingPublicKey is a defensive error: structurally unreachable
	// given the chain-non-empty invariant, kept rather than unwrapped.
	KindMissingPublicKey
	// KindCertificateTooLarge means one of the chain's DER-encoded
	// certificates exceeds chain.MaxCertificateBytes.
	KindCertificateTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindChainTooShort:
		return "ChainTooShort"
	case KindUntrustedRoot:
		return "UntrustedRoot"
	case KindExtensionMissing:
		return "ExtensionMissing"
	case KindParseError:
		return "ParseError"
	case KindUnsupportedAttestationVersion:
		return "UnsupportedAttestationVersion"
	case KindMissingECDSAAlgorithmTyp:
		return "MissingECDSAAlgorithmTyp"
	case KindParseP256PublicKey:
		return "ParseP256PublicKey"
	case KindUnsupportedPublicKeyAlgorithm:
		return "UnsupportedPublicKeyAlgorithm"
	case KindUnsupportedSignatureAlgorithm:
		return "UnsupportedSignatureAlgorithm"
	case KindSignatureMismatch:
		return "SignatureMismatch"
	case KindInvalidSignatureEncoding:
		return "InvalidSignatureEncoding"
	case KindInvalidSignature:
		return "InvalidSignature"
	case KindInvalidIssuer:
		return "InvalidIssuer"
	case KindMissingPublicKey:
		return "MissingPublicKey"
	case KindCertificateTooLarge:
		return "CertificateTooLarge"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type every exported function in this module
// returns. It carries a closed Kind, an optional wrapped cause, and (for
// KindUnsupportedAttestationVersion only) the offending version number.
type Error struct {
	Kind    Kind
	Version int64 // populated only for KindUnsupportedAttestationVersion
	cause   error
}

func (e *Error) Error() string {
	if e.Kind == KindUnsupportedAttestationVersion {
		return fmt.Sprintf("validation: %s(%d)", e.Kind, e.Version)
	}
	if e.cause != nil {
		return fmt.Sprintf("validation: %s: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("validation: %s", e.Kind)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is a *Error with the same Kind, so callers can
// write errors.Is(err, verr.ErrUntrustedRoot) instead of type-switching.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates a bare Error of the given kind.
func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Wrap creates an Error of the given kind, wrapping cause with a stack
// trace via github.com/pkg/errors so operators can diagnose the underlying
// DER/arithmetic failure without it leaking into the closed taxonomy.
func Wrap(kind Kind, cause error) *Error {
	return &Error{Kind: kind, cause: errors.WithStack(cause)}
}

// UnsupportedAttestationVersion builds the one Kind that carries data.
func UnsupportedAttestationVersion(version int64) *Error {
	return &Error{Kind: KindUnsupportedAttestationVersion, Version: version}
}

// Sentinels for errors.Is comparisons against every Kind that carries no
// extra data.
var (
	ErrChainTooShort                = New(KindChainTooShort)
	ErrUntrustedRoot                = New(KindUntrustedRoot)
	ErrExtensionMissing              = New(KindExtensionMissing)
	ErrParseError                    = New(KindParseError)
	ErrMissingECDSAAlgorithmTyp      = New(KindMissingECDSAAlgorithmTyp)
	ErrParseP256PublicKey            = New(KindParseP256PublicKey)
	ErrUnsupportedPublicKeyAlgorithm = New(KindUnsupportedPublicKeyAlgorithm)
	ErrUnsupportedSignatureAlgorithm = New(KindUnsupportedSignatureAlgorithm)
	ErrSignatureMismatch             = New(KindSignatureMismatch)
	ErrInvalidSignatureEncoding      = New(KindInvalidSignatureEncoding)
	ErrInvalidSignature              = New(KindInvalidSignature)
	ErrInvalidIssuer                 = New(KindInvalidIssuer)
	ErrMissingPublicKey              = New(KindMissingPublicKey)
	ErrCertificateTooLarge           = New(KindCertificateTooLarge)
)

// IsPolicyKind reports whether the error is one of the two kinds spec.md §7
// distinguishes as "this validator does not support this device yet" rather
// than "bad input / untrusted device". Callers may use this to decide
// whether to log at warn vs. reject outright.
func IsPolicyKind(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == KindUnsupportedAttestationVersion || e.Kind == KindUnsupportedSignatureAlgorithm
}
