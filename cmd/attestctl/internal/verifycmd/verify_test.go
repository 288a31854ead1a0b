package verifycmd

import (
	"bytes"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func writePEM(t *testing.T, dir, name string, der []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	var buf bytes.Buffer
	require.NoError(t, pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: der}))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func writeDER(t *testing.T, dir, name string, der []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, der, 0o600))
	return path
}

func TestReadCertificateFileDecodesPEM(t *testing.T) {
	dir := t.TempDir()
	path := writePEM(t, dir, "leaf.pem", []byte("not-really-der-but-opaque-to-this-test"))

	got, err := readCertificateFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("not-really-der-but-opaque-to-this-test"), got)
}

func TestReadCertificateFilePassesThroughRawDER(t *testing.T) {
	dir := t.TempDir()
	der := []byte{0x30, 0x03, 0x02, 0x01, 0x01}
	path := writeDER(t, dir, "leaf.der", der)

	got, err := readCertificateFile(path)
	require.NoError(t, err)
	require.Equal(t, der, got)
}

func TestReadCertificateFileMissing(t *testing.T) {
	_, err := readCertificateFile(filepath.Join(t.TempDir(), "missing.pem"))
	require.Error(t, err)
}

func TestVerifyRejectsUntrustedRoot(t *testing.T) {
	dir := t.TempDir()
	path := writeDER(t, dir, "leaf.der", []byte("definitely-not-a-trusted-root"))

	log := logrus.New()
	log.SetOutput(os.Stderr)
	cmd := New(log)
	cmd.SetArgs([]string{"verify", path})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestVerifyRequiresAtLeastOneCertificate(t *testing.T) {
	log := logrus.New()
	cmd := New(log)
	cmd.SetArgs([]string{"verify"})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
}
