package x509

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	oidPublicKeyECDSA = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidCurveP256       = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	oidSignatureECDSA  = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 2}
)

// minimalCertificate mirrors the real Certificate ::= SEQUENCE wire shape
// with a single extension, used to build a fixture without depending on
// any real device-issued certificate.
type minimalTBS struct {
	SerialNumber  *big.Int
	Signature     pkix.AlgorithmIdentifier
	Issuer        pkix.RDNSequence
	Validity      struct{ NotBefore, NotAfter time.Time }
	Subject       pkix.RDNSequence
	PublicKeyInfo SubjectPublicKeyInfo
	Extensions    []pkix.Extension `asn1:"optional,explicit,tag:3"`
}

type minimalCert struct {
	TBSCertificate     asn1.RawValue
	SignatureAlgorithm pkix.AlgorithmIdentifier
	SignatureValue     asn1.BitString
}

func buildFixture(t *testing.T) ([]byte, *ecdsa.PrivateKey, minimalTBS) {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	point := elliptic.Marshal(elliptic.P256(), priv.X, priv.Y)
	curveParams, err := asn1.Marshal(oidCurveP256)
	require.NoError(t, err)

	tbs := minimalTBS{
		SerialNumber: big.NewInt(7),
		Signature:    pkix.AlgorithmIdentifier{Algorithm: oidSignatureECDSA},
		Issuer:       pkix.Name{CommonName: "Test Issuer"}.ToRDNSequence(),
		Validity:     struct{ NotBefore, NotAfter time.Time }{time.Now().Truncate(time.Second), time.Now().Add(time.Hour).Truncate(time.Second)},
		Subject:      pkix.Name{CommonName: "Test Subject"}.ToRDNSequence(),
		PublicKeyInfo: SubjectPublicKeyInfo{
			Algorithm: pkix.AlgorithmIdentifier{
				Algorithm:  oidPublicKeyECDSA,
				Parameters: asn1.RawValue{FullBytes: curveParams},
			},
			PublicKey: asn1.BitString{Bytes: point, BitLength: len(point) * 8},
		},
		Extensions: []pkix.Extension{
			{Id: asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 11129, 2, 1, 17}, Value: []byte{0x02, 0x01, 0x64}},
		},
	}
	tbsDER, err := asn1.Marshal(tbs)
	require.NoError(t, err)

	digest := sha256.Sum256(tbsDER)
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	require.NoError(t, err)
	sig, err := asn1.Marshal(struct{ R, S *big.Int }{r, s})
	require.NoError(t, err)

	cert := minimalCert{
		TBSCertificate:     asn1.RawValue{FullBytes: tbsDER},
		SignatureAlgorithm: pkix.AlgorithmIdentifier{Algorithm: oidSignatureECDSA},
		SignatureValue:     asn1.BitString{Bytes: sig, BitLength: len(sig) * 8},
	}
	der, err := asn1.Marshal(cert)
	require.NoError(t, err)

	return der, priv, tbs
}

func TestParseCertificateRoundTrip(t *testing.T) {
	der, _, tbs := buildFixture(t)

	cert, err := ParseCertificate(der)
	require.NoError(t, err)

	require.Equal(t, tbs.SerialNumber, cert.TBSCertificate.SerialNumber)
	require.Equal(t, "Test Subject", cert.TBSCertificate.Subject.CommonName)
	require.True(t, cert.SignatureAlgorithm.Algorithm.Equal(oidSignatureECDSA))
	require.True(t, cert.TBSCertificate.Signature.Algorithm.Equal(oidSignatureECDSA))
	require.Len(t, cert.TBSCertificate.Extensions, 1)
}

func TestParseCertificatePreservesRawTBSBytesForRehashing(t *testing.T) {
	der, priv, _ := buildFixture(t)

	cert, err := ParseCertificate(der)
	require.NoError(t, err)

	digest := sha256.Sum256(cert.RawTBSCertificate)
	var sig struct{ R, S *big.Int }
	_, err = asn1.Unmarshal(cert.SignatureValue.RightAlign(), &sig)
	require.NoError(t, err)

	require.True(t, ecdsa.Verify(&priv.PublicKey, digest[:], sig.R, sig.S))
}

func TestParseCertificateRejectsTrailingBytes(t *testing.T) {
	der, _, _ := buildFixture(t)
	_, err := ParseCertificate(append(der, 0x00))
	require.Error(t, err)
}

func TestUniqueIDIsStableAndOwnsItsBytes(t *testing.T) {
	der, _, _ := buildFixture(t)
	cert, err := ParseCertificate(der)
	require.NoError(t, err)

	id := UniqueID(&cert.TBSCertificate)
	require.Equal(t, []byte{7}, id.SerialNumber)
	require.NotEmpty(t, id.Issuer)
	require.NotEmpty(t, id.String())

	// UniqueID must copy out of the borrowed TBSCertificate.RawIssuer
	// rather than alias it, so mutating the cached issuer bytes afterward
	// must not change id.
	issuerBefore := append([]byte(nil), id.Issuer...)
	for i := range cert.TBSCertificate.RawIssuer {
		cert.TBSCertificate.RawIssuer[i] ^= 0xFF
	}
	require.Equal(t, issuerBefore, id.Issuer)
}
