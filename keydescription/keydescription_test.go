package keydescription

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"testing"

	acurastasn1 "github.com/acurast/attestation-core/asn1"
	attestx509 "github.com/acurast/attestation-core/x509"
	"github.com/stretchr/testify/require"
)

func tbsWithExtensionValue(t *testing.T, payload keyDescriptionPayload) *attestx509.TBSCertificate {
	t.Helper()
	encoded, err := asn1.Marshal(payload)
	require.NoError(t, err)

	return &attestx509.TBSCertificate{
		Extensions: []pkix.Extension{
			{Id: acurastasn1.OIDKeyAttestation, Value: encoded},
		},
	}
}

func TestExtractAttestationV100(t *testing.T) {
	tbs := tbsWithExtensionValue(t, keyDescriptionPayload{
		AttestationVersion:      100,
		AttestationSecurityLevel: asn1.Enumerated(SecurityLevelTrustedEnvironment),
		KeymasterVersion:        4,
		KeymasterSecurityLevel:  asn1.Enumerated(SecurityLevelTrustedEnvironment),
		AttestationChallenge:    []byte("challenge"),
		UniqueID:                []byte{},
		SoftwareEnforced:        AuthorizationList{},
		TEEEnforced:             AuthorizationList{Purpose: []int64{2, 3}},
	})

	kd, err := ExtractAttestation(tbs)
	require.NoError(t, err)
	require.Equal(t, int64(100), kd.AttestationVersion())

	v100, ok := kd.(V100)
	require.True(t, ok)
	require.Equal(t, "V100", v100.Schema())
	require.Equal(t, []int64{2, 3}, v100.TEEEnforced.Purpose)
}

func TestExtractAttestationV4(t *testing.T) {
	tbs := tbsWithExtensionValue(t, keyDescriptionPayload{
		AttestationVersion:   4,
		AttestationChallenge: []byte("c"),
		UniqueID:             []byte{},
	})

	kd, err := ExtractAttestation(tbs)
	require.NoError(t, err)
	_, ok := kd.(V4)
	require.True(t, ok)
}

func TestExtractAttestationUnsupportedVersion(t *testing.T) {
	tbs := tbsWithExtensionValue(t, keyDescriptionPayload{
		AttestationVersion:   999,
		AttestationChallenge: []byte("c"),
		UniqueID:             []byte{},
	})

	_, err := ExtractAttestation(tbs)
	require.Error(t, err)
}

func TestExtractAttestationMissingExtension(t *testing.T) {
	tbs := &attestx509.TBSCertificate{}
	_, err := ExtractAttestation(tbs)
	require.Error(t, err)
}
