// Command attestctl validates an Android Key Attestation certificate
// chain supplied as a series of PEM or DER files and prints the
// resulting certificate identities and attestation extension as JSON.
package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/acurast/attestation-core/cmd/attestctl/internal/verifycmd"
	"github.com/acurast/attestation-core/verr"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cmd := verifycmd.New(log)
	if err := cmd.Execute(); err != nil {
		if verr.IsPolicyKind(err) {
			log.WithError(err).Warn("attestctl failed")
		} else {
			log.WithError(err).Error("attestctl failed")
		}
		os.Exit(1)
	}
}
