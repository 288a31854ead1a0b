// Package verifycmd implements the attestctl "verify" subcommand: read a
// certificate chain from disk, run it through the chain and extension
// validators, and report the result as JSON.
package verifycmd

import (
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/acurast/attestation-core/chain"
	"github.com/acurast/attestation-core/keydescription"
)

type schemaNamer interface {
	Schema() string
}

type challenger interface {
	Challenge() []byte
}

type options struct {
	log       *logrus.Logger
	certFiles []string
}

// result is the JSON shape attestctl prints on success.
type result struct {
	CertificateIDs       []string `json:"certificateIds"`
	AttestationVersion   int64    `json:"attestationVersion"`
	Schema               string   `json:"schema,omitempty"`
	AttestationChallenge string   `json:"attestationChallengeHex,omitempty"`
}

// New builds the root "attestctl" command with its "verify" subcommand.
func New(log *logrus.Logger) *cobra.Command {
	opts := &options{log: log}

	root := &cobra.Command{
		Use:           "attestctl",
		Short:         "Validate Android Key Attestation certificate chains",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	verify := &cobra.Command{
		Use:   "verify CERT...",
		Short: "Validate a certificate chain (root first, leaf last) and print its attestation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.certFiles = args
			return opts.run(cmd)
		},
	}

	root.AddCommand(verify)
	return root
}

func (o *options) run(cmd *cobra.Command) error {
	der := make([][]byte, 0, len(o.certFiles))
	for _, path := range o.certFiles {
		block, err := readCertificateFile(path)
		if err != nil {
			return fmt.Errorf("attestctl: read %s: %w", path, err)
		}
		der = append(der, block)
	}

	if err := chain.ValidateCertificateChainRoot(der); err != nil {
		return fmt.Errorf("attestctl: untrusted chain root: %w", err)
	}
	o.log.WithField("certificates", len(der)).Debug("root trust established")

	ids, leafTBS, _, err := chain.ValidateCertificateChain(der)
	if err != nil {
		return fmt.Errorf("attestctl: chain validation failed: %w", err)
	}

	kd, err := keydescription.ExtractAttestation(leafTBS)
	if err != nil {
		return fmt.Errorf("attestctl: extract attestation: %w", err)
	}

	out := result{
		CertificateIDs:     make([]string, len(ids)),
		AttestationVersion: kd.AttestationVersion(),
	}
	for i, id := range ids {
		out.CertificateIDs[i] = id.String()
	}
	if named, ok := kd.(schemaNamer); ok {
		out.Schema = named.Schema()
	}
	if withChallenge, ok := kd.(challenger); ok {
		out.AttestationChallenge = hex.EncodeToString(withChallenge.Challenge())
	}

	o.log.WithFields(logrus.Fields{
		"certificates":       len(ids),
		"attestationVersion": out.AttestationVersion,
	}).Info("certificate chain accepted")

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("attestctl: encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}

// readCertificateFile reads a certificate as either PEM or raw DER.
func readCertificateFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if block, _ := pem.Decode(raw); block != nil {
		return block.Bytes, nil
	}
	return raw, nil
}
