package chain

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

	acurastasn1 "github.com/acurast/attestation-core/asn1"
	"github.com/acurast/attestation-core/roots"
	"github.com/stretchr/testify/require"
)

// asn1TBS and asn1Certificate mirror the shapes the x509 package
// unmarshals, letting these tests mint self-contained DER certificates
// without depending on real device-issued fixtures (none are
// redistributed in this repository).
type asn1SubjectPublicKeyInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

type asn1TBS struct {
	Version       int `asn1:"optional,explicit,default:0,tag:0"`
	SerialNumber  *big.Int
	Signature     pkix.AlgorithmIdentifier
	Issuer        pkix.RDNSequence
	Validity      struct{ NotBefore, NotAfter time.Time }
	Subject       pkix.RDNSequence
	PublicKeyInfo asn1SubjectPublicKeyInfo
}

type asn1Cert struct {
	TBSCertificate     asn1.RawValue
	SignatureAlgorithm pkix.AlgorithmIdentifier
	SignatureValue     asn1.BitString
}

func mintCertificate(t *testing.T, serial int64, issuerCN string, signerKey *ecdsa.PrivateKey, subjectKey *ecdsa.PublicKey) []byte {
	t.Helper()

	spkiPoint := elliptic.Marshal(elliptic.P256(), subjectKey.X, subjectKey.Y)
	curveParams, err := asn1.Marshal(acurastasn1.OIDCurveP256)
	require.NoError(t, err)

	tbs := asn1TBS{
		SerialNumber: big.NewInt(serial),
		Signature:    pkix.AlgorithmIdentifier{Algorithm: acurastasn1.OIDSignatureECDSASHA256},
		Issuer:       pkix.Name{CommonName: issuerCN}.ToRDNSequence(),
		Validity:     struct{ NotBefore, NotAfter time.Time }{time.Now(), time.Now().Add(time.Hour)},
		Subject:      pkix.Name{CommonName: "leaf"}.ToRDNSequence(),
		PublicKeyInfo: asn1SubjectPublicKeyInfo{
			Algorithm: pkix.AlgorithmIdentifier{
				Algorithm:  acurastasn1.OIDPublicKeyECDSA,
				Parameters: asn1.RawValue{FullBytes: curveParams},
			},
			PublicKey: asn1.BitString{Bytes: spkiPoint, BitLength: len(spkiPoint) * 8},
		},
	}
	tbsDER, err := asn1.Marshal(tbs)
	require.NoError(t, err)

	digest := sha256.Sum256(tbsDER)
	r, s, err := ecdsa.Sign(rand.Reader, signerKey, digest[:])
	require.NoError(t, err)
	sig, err := asn1.Marshal(struct{ R, S *big.Int }{r, s})
	require.NoError(t, err)

	cert := asn1Cert{
		TBSCertificate:     asn1.RawValue{FullBytes: tbsDER},
		SignatureAlgorithm: pkix.AlgorithmIdentifier{Algorithm: acurastasn1.OIDSignatureECDSASHA256},
		SignatureValue:     asn1.BitString{Bytes: sig, BitLength: len(sig) * 8},
	}
	der, err := asn1.Marshal(cert)
	require.NoError(t, err)
	return der
}

func TestValidateCertificateChainRoot(t *testing.T) {
	require.NoError(t, ValidateCertificateChainRoot(roots.Trusted[:1]))
	require.Error(t, ValidateCertificateChainRoot(nil))
	require.Error(t, ValidateCertificateChainRoot([][]byte{[]byte("not-a-root")}))
}

func TestCheckBoundsRejectsOversizedChain(t *testing.T) {
	chain := make([][]byte, MaxChainLength+1)
	for i := range chain {
		chain[i] = []byte("cert")
	}
	err := CheckBounds(chain)
	require.Error(t, err)

	require.NoError(t, CheckBounds(chain[:MaxChainLength]))
}

func TestCheckBoundsRejectsOversizedCertificate(t *testing.T) {
	oversized := make([]byte, MaxCertificateBytes+1)
	err := CheckBounds([][]byte{oversized})
	require.Error(t, err)

	require.NoError(t, CheckBounds([][]byte{oversized[:MaxCertificateBytes]}))
}

func TestValidateCertificateChainRejectsOversizedChainBeforeParsing(t *testing.T) {
	chain := make([][]byte, MaxChainLength+1)
	for i := range chain {
		chain[i] = []byte("not-valid-der-but-never-parsed")
	}
	_, _, _, err := ValidateCertificateChain(chain)
	require.Error(t, err)
}

func TestValidateCertificateChainRootRejectsOversizedChainBeforeByteCheck(t *testing.T) {
	chain := make([][]byte, MaxChainLength+1)
	for i := range chain {
		chain[i] = roots.Trusted[0]
	}
	err := ValidateCertificateChainRoot(chain)
	require.Error(t, err)
}

func TestValidateCertificateChainSelfSignedRootThenIntermediateThenLeaf(t *testing.T) {
	rootKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	intKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	leafKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	rootDER := mintCertificate(t, 1, "root", rootKey, &rootKey.PublicKey)
	intDER := mintCertificate(t, 2, "root", rootKey, &intKey.PublicKey)
	leafDER := mintCertificate(t, 3, "intermediate", intKey, &leafKey.PublicKey)

	ids, leafTBS, leafPbk, err := ValidateCertificateChain([][]byte{rootDER, intDER, leafDER})
	require.NoError(t, err)
	require.Len(t, ids, 3)
	require.NotNil(t, leafTBS)
	require.NotNil(t, leafPbk)
}

func TestValidateCertificateChainRejectsForgedMidChainSelfSignedCert(t *testing.T) {
	rootKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	forgedKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	leafKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	rootDER := mintCertificate(t, 1, "root", rootKey, &rootKey.PublicKey)
	// forgedDER is self-signed (signed by its own subject key), the way a
	// forgery would need to be to pass verification without knowing the
	// root's private key — it must be rejected because prevPbk from the
	// root is threaded forward instead of being replaced by its own key.
	forgedDER := mintCertificate(t, 2, "root", forgedKey, &forgedKey.PublicKey)
	leafDER := mintCertificate(t, 3, "root", forgedKey, &leafKey.PublicKey)

	_, _, _, err = ValidateCertificateChain([][]byte{rootDER, forgedDER, leafDER})
	require.Error(t, err)
}

func TestValidateCertificateChainEmpty(t *testing.T) {
	_, _, _, err := ValidateCertificateChain(nil)
	require.Error(t, err)
}
