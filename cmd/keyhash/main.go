// keyhash prints the OAuth key hash of each signing certificate given on
// the command line, for registration in third-party developer consoles.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/coggiri/affiliates-backend/internal/applink"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <cert-file> [...]\n", os.Args[0])
		os.Exit(2)
	}

	certs, err := applink.LoadCertificates(os.Args[1:]...)
	if err != nil {
		logrus.WithError(err).Warn("some certificates could not be read")
	}
	if len(certs) == 0 {
		logrus.Fatal("no readable certificates")
	}

	for _, hash := range applink.KeyHashes(certs) {
		fmt.Println(hash)
	}
}
