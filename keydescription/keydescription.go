// Package keydescription decodes the Android Key Attestation extension
// (OID 1.3.6.1.4.1.11129.2.1.17) embedded in an attestation leaf
// certificate into one of the seven versioned KeyDescription schemas
// Android has shipped: V1, V2, V3, V4 (Keymaster) and V100, V200, V300
// (KeyMint).
//
// Every variant shares the same outer shape — attestationVersion,
// attestationSecurityLevel, keymasterVersion, keymasterSecurityLevel,
// attestationChallenge, uniqueId, softwareEnforced, teeEnforced — so a
// single keyDescriptionPayload struct decodes all seven; AttestationVersion
// reports which one a given instance was declared as.
package keydescription

import (
	"encoding/asn1"

	acurastasn1 "github.com/acurast/attestation-core/asn1"
	"github.com/acurast/attestation-core/verr"
	"github.com/acurast/attestation-core/x509"
)

// SecurityLevel mirrors the SecurityLevel ENUMERATED type: 0 =
// Software, 1 = TrustedEnvironment, 2 = StrongBox.
type SecurityLevel int64

const (
	SecurityLevelSoftware           SecurityLevel = 0
	SecurityLevelTrustedEnvironment SecurityLevel = 1
	SecurityLevelStrongBox          SecurityLevel = 2
)

// RootOfTrust carries the verified-boot state Android reports inside the
// TEE-enforced authorization list.
type RootOfTrust struct {
	VerifiedBootKey   []byte
	DeviceLocked      bool
	VerifiedBootState int64
	VerifiedBootHash  []byte `asn1:"optional"`
}

// AuthorizationList is the asn1 Authorization List SEQUENCE, covering the
// subset of tags this validator's callers need: key parameters,
// auth/usage constraints, and the device-identity fields that feed
// uniqueness and provenance checks. Tags follow Android's published
// KeyMint attestation schema; each field is wrapped in its own EXPLICIT
// context tag exactly as that schema specifies.
type AuthorizationList struct {
	Purpose           []int64 `asn1:"optional,explicit,tag:1,set"`
	Algorithm         int64   `asn1:"optional,explicit,tag:2"`
	KeySize           int64   `asn1:"optional,explicit,tag:3"`
	Digest            []int64 `asn1:"optional,explicit,tag:5,set"`
	Padding           []int64 `asn1:"optional,explicit,tag:6,set"`
	ECCurve           int64   `asn1:"optional,explicit,tag:10"`
	RSAPublicExponent int64   `asn1:"optional,explicit,tag:200"`

	ActiveDateTime            int64 `asn1:"optional,explicit,tag:400"`
	OriginationExpireDateTime int64 `asn1:"optional,explicit,tag:401"`
	UsageExpireDateTime       int64 `asn1:"optional,explicit,tag:402"`

	NoAuthRequired   asn1.RawValue `asn1:"optional,tag:503"`
	UserAuthType     int64         `asn1:"optional,explicit,tag:504"`
	AuthTimeout      int64         `asn1:"optional,explicit,tag:505"`
	AllowWhileOnBody asn1.RawValue `asn1:"optional,tag:506"`

	AllApplications asn1.RawValue `asn1:"optional,tag:600"`
	ApplicationID   []byte        `asn1:"optional,explicit,tag:601"`

	CreationDateTime          int64       `asn1:"optional,explicit,tag:701"`
	Origin                    int64       `asn1:"optional,explicit,tag:702"`
	RootOfTrust               RootOfTrust `asn1:"optional,explicit,tag:704"`
	OSVersion                 int64       `asn1:"optional,explicit,tag:705"`
	OSPatchLevel              int64       `asn1:"optional,explicit,tag:706"`
	AttestationApplicationID  []byte      `asn1:"optional,explicit,tag:709"`
	AttestationIDBrand        []byte      `asn1:"optional,explicit,tag:710"`
	AttestationIDDevice       []byte      `asn1:"optional,explicit,tag:711"`
	AttestationIDProduct      []byte      `asn1:"optional,explicit,tag:712"`
	AttestationIDSerial       []byte      `asn1:"optional,explicit,tag:713"`
	AttestationIDIMEI         []byte      `asn1:"optional,explicit,tag:714"`
	AttestationIDMEID         []byte      `asn1:"optional,explicit,tag:715"`
	AttestationIDManufacturer []byte      `asn1:"optional,explicit,tag:716"`
	AttestationIDModel        []byte      `asn1:"optional,explicit,tag:717"`
	VendorPatchLevel          int64       `asn1:"optional,explicit,tag:718"`
	BootPatchLevel            int64       `asn1:"optional,explicit,tag:719"`
}

// HasNoAuthRequired reports whether the noAuthRequired NULL-valued
// authorization tag is present.
func (a AuthorizationList) HasNoAuthRequired() bool { return len(a.NoAuthRequired.FullBytes) > 0 }

// HasAllApplications reports whether the allApplications NULL-valued
// authorization tag is present.
func (a AuthorizationList) HasAllApplications() bool { return len(a.AllApplications.FullBytes) > 0 }

// KeyDescription is implemented by every decoded attestation-extension
// variant. AttestationVersion reports the attestationVersion integer the
// extension declared, which is also how the variant was selected during
// decoding.
type KeyDescription interface {
	AttestationVersion() int64
}

// keyDescriptionPayload is the wire shape shared by all seven versions.
type keyDescriptionPayload struct {
	AttestationVersion       int64
	AttestationSecurityLevel asn1.Enumerated
	KeymasterVersion         int64
	KeymasterSecurityLevel   asn1.Enumerated
	AttestationChallenge     []byte
	UniqueID                 []byte
	SoftwareEnforced         AuthorizationList
	TEEEnforced              AuthorizationList
}

// versionedKeyDescription wraps keyDescriptionPayload with the schema
// name its attestationVersion mapped to — the shared wire shape means
// there is nothing to change structurally between V1 and V300, only a
// label on which contract the caller received.
type versionedKeyDescription struct {
	schema string
	keyDescriptionPayload
}

func (v *versionedKeyDescription) AttestationVersion() int64 { return v.keyDescriptionPayload.AttestationVersion }

// AttestationSecurityLevelValue returns the decoded security level.
func (v *versionedKeyDescription) AttestationSecurityLevelValue() SecurityLevel {
	return SecurityLevel(v.AttestationSecurityLevel)
}

// KeymasterSecurityLevelValue returns the decoded security level for the
// keymaster/keymint implementation itself.
func (v *versionedKeyDescription) KeymasterSecurityLevelValue() SecurityLevel {
	return SecurityLevel(v.KeymasterSecurityLevel)
}

// Schema names the one of V1/V2/V3/V4/V100/V200/V300 this value was
// decoded as.
func (v *versionedKeyDescription) Schema() string { return v.schema }

// Challenge returns the attestationChallenge bytes the caller supplied
// when the key was generated.
func (v *versionedKeyDescription) Challenge() []byte { return v.AttestationChallenge }

// The seven public variant types below are distinct named types
// (rather than one generic struct) so that a type switch on
// KeyDescription tells a caller which attestationVersion produced the
// value without an extra field lookup — mirroring the tagged-union shape
// spec.md describes.
type (
	V1   struct{ *versionedKeyDescription }
	V2   struct{ *versionedKeyDescription }
	V3   struct{ *versionedKeyDescription }
	V4   struct{ *versionedKeyDescription }
	V100 struct{ *versionedKeyDescription }
	V200 struct{ *versionedKeyDescription }
	V300 struct{ *versionedKeyDescription }
)

// ExtractAttestation locates the Android Key Attestation extension among
// tbs's extensions, peeks its attestationVersion, and decodes the rest
// of the extension value against the matching schema, per spec.md §4.5.
func ExtractAttestation(tbs *x509.TBSCertificate) (KeyDescription, error) {
	var extnValue []byte
	found := false
	for _, ext := range tbs.Extensions {
		if ext.Id.Equal(acurastasn1.OIDKeyAttestation) {
			extnValue = ext.Value
			found = true
			break
		}
	}
	if !found {
		return nil, verr.New(verr.KindExtensionMissing)
	}

	version, err := acurastasn1.PeekSequenceInt(extnValue)
	if err != nil {
		return nil, verr.Wrap(verr.KindParseError, err)
	}

	var payload keyDescriptionPayload
	if _, err := asn1.Unmarshal(extnValue, &payload); err != nil {
		return nil, verr.Wrap(verr.KindParseError, err)
	}

	base := &versionedKeyDescription{keyDescriptionPayload: payload}

	switch version {
	case 1:
		base.schema = "V1"
		return V1{base}, nil
	case 2:
		base.schema = "V2"
		return V2{base}, nil
	case 3:
		base.schema = "V3"
		return V3{base}, nil
	case 4:
		base.schema = "V4"
		return V4{base}, nil
	case 100:
		base.schema = "V100"
		return V100{base}, nil
	case 200:
		base.schema = "V200"
		return V200{base}, nil
	case 300:
		base.schema = "V300"
		return V300{base}, nil
	default:
		return nil, verr.UnsupportedAttestationVersion(version)
	}
}
